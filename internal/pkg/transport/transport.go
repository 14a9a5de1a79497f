// Package transport keeps one logical, receive-only connection to a log
// stream alive and hands every parsed event to its owner.
package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	devconsolemodel "github.com/hitesh22rana/devconsole/internal/model/devconsole"
	loggerpkg "github.com/hitesh22rana/devconsole/internal/pkg/logger"
)

const (
	// DefaultBaseDelay is the delay before the first reconnect attempt.
	DefaultBaseDelay = time.Second

	// DefaultMaxDelay caps the reconnect delay.
	DefaultMaxDelay = 30 * time.Second

	parseLogInterval = time.Second
	parseLogBurst    = 5
)

// ErrClosedByPeer is reported when the remote end closes the stream cleanly.
var ErrClosedByPeer = errors.New("connection closed by peer")

// State is the connection state of a Client.
type State string

// States of a Client.
const (
	StateDisconnected State = "DISCONNECTED"
	StateConnecting   State = "CONNECTING"
	StateConnected    State = "CONNECTED"
)

// ToString converts the State to its string representation.
func (s State) ToString() string {
	return string(s)
}

// Handler receives the client's notifications.
//
// Notifications for one connection are delivered in order from a single
// goroutine: OnOpen, any number of OnMessage, then OnClose. Handler methods
// must not call Connect or Disconnect.
type Handler interface {
	// OnOpen is called once the stream is established.
	OnOpen()
	// OnClose is called when a connection attempt fails or an open stream
	// ends. err is nil only after an explicit Disconnect.
	OnClose(err error)
	// OnMessage is called with every successfully parsed event.
	OnMessage(event devconsolemodel.LogEvent)
}

// Conn is one established stream.
type Conn interface {
	// Read blocks until the next frame arrives.
	Read(ctx context.Context) ([]byte, error)
	Close() error
}

// Dialer establishes streams.
type Dialer interface {
	Dial(ctx context.Context) (Conn, error)
	Name() string
}

// Task is a handle to a scheduled function.
type Task interface {
	// Stop prevents the function from running. It reports whether the call
	// stopped it before it ran.
	Stop() bool
}

// Scheduler runs functions after a delay.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) Task
}

type timerScheduler struct{}

func (timerScheduler) AfterFunc(d time.Duration, fn func()) Task {
	return time.AfterFunc(d, fn)
}

// Config holds the reconnect policy.
type Config struct {
	BaseDelay time.Duration
	MaxDelay  time.Duration
}

// Stats are counters over the client's lifetime.
type Stats struct {
	Dials         uint64 `json:"dials"`
	Opens         uint64 `json:"opens"`
	Messages      uint64 `json:"messages"`
	Heartbeats    uint64 `json:"heartbeats"`
	ParseFailures uint64 `json:"parseFailures"`
}

// Option configures a Client.
type Option func(*Client)

// WithScheduler replaces the timer used for reconnect delays.
func WithScheduler(s Scheduler) Option {
	return func(c *Client) {
		c.scheduler = s
	}
}

// WithParseLogLimit bounds how often parse failures are logged.
func WithParseLogLimit(every time.Duration, burst int) Option {
	return func(c *Client) {
		c.parseLog = rate.NewLimiter(rate.Every(every), burst)
	}
}

// Client is a reconnecting stream consumer.
//
// The client retries forever with exponential backoff between attempts until
// Disconnect is called. Sessions and scheduled reconnects are tagged with a
// generation number; anything tagged with a stale generation is ignored.
type Client struct {
	dialer    Dialer
	handler   Handler
	scheduler Scheduler
	parseLog  *rate.Limiter

	mu         sync.Mutex
	baseCtx    context.Context
	active     bool
	state      State
	generation uint64
	attempt    int
	lastErr    error
	backoff    *backoff.ExponentialBackOff
	pending    Task
	cancel     context.CancelFunc
	wg         sync.WaitGroup

	dials         atomic.Uint64
	opens         atomic.Uint64
	messages      atomic.Uint64
	heartbeats    atomic.Uint64
	parseFailures atomic.Uint64
}

// New creates a new Client.
func New(dialer Dialer, handler Handler, cfg *Config, opts ...Option) *Client {
	base := cfg.BaseDelay
	if base <= 0 {
		base = DefaultBaseDelay
	}
	maxDelay := cfg.MaxDelay
	if maxDelay <= 0 {
		maxDelay = DefaultMaxDelay
	}
	if maxDelay < base {
		maxDelay = base
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = base
	b.MaxInterval = maxDelay
	b.Multiplier = 2
	b.RandomizationFactor = 0
	b.Reset()

	c := &Client{
		dialer:    dialer,
		handler:   handler,
		scheduler: timerScheduler{},
		parseLog:  rate.NewLimiter(rate.Every(parseLogInterval), parseLogBurst),
		baseCtx:   context.Background(),
		state:     StateDisconnected,
		backoff:   b,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Connect starts the connection cycle and returns without waiting for the
// stream to open. ctx supplies request-scoped values such as the logger;
// its cancellation does not stop the client, Disconnect does.
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.active {
		return status.Error(codes.FailedPrecondition, "transport already connected")
	}

	c.active = true
	c.baseCtx = context.WithoutCancel(ctx)
	c.attempt = 0
	c.lastErr = nil
	c.backoff.Reset()
	c.startLocked()

	return nil
}

// Disconnect tears the connection down, cancels any pending reconnect and
// waits for the session goroutine to exit. The handler then receives
// OnClose(nil). Calling Disconnect on an idle client is a no-op.
func (c *Client) Disconnect() {
	c.mu.Lock()
	if !c.active {
		c.mu.Unlock()
		return
	}

	c.active = false
	c.generation++
	if c.pending != nil {
		c.pending.Stop()
		c.pending = nil
	}
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.state = StateDisconnected
	ctx := c.baseCtx
	c.mu.Unlock()

	c.wg.Wait()

	loggerpkg.FromContext(ctx).Info("transport disconnected", zap.String("dialer", c.dialer.Name()))
	c.handler.OnClose(nil)
}

// State returns the current connection state.
func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.state
}

// Attempt returns the number of consecutive failed or closed cycles since
// the last successful open.
func (c *Client) Attempt() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.attempt
}

// LastError returns the error that ended the most recent cycle, or nil.
func (c *Client) LastError() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.lastErr
}

// Stats returns the client's counters.
func (c *Client) Stats() Stats {
	return Stats{
		Dials:         c.dials.Load(),
		Opens:         c.opens.Load(),
		Messages:      c.messages.Load(),
		Heartbeats:    c.heartbeats.Load(),
		ParseFailures: c.parseFailures.Load(),
	}
}

// startLocked launches a new session. c.mu must be held.
func (c *Client) startLocked() {
	c.generation++
	gen := c.generation

	ctx, cancel := context.WithCancel(c.baseCtx)
	c.cancel = cancel
	c.pending = nil
	c.state = StateConnecting

	c.wg.Add(1)
	go c.run(ctx, gen)
}

// currentLocked reports whether gen still owns the client. c.mu must be held.
func (c *Client) currentLocked(gen uint64) bool {
	return c.active && c.generation == gen
}

func (c *Client) run(ctx context.Context, gen uint64) {
	defer c.wg.Done()

	logger := loggerpkg.FromContext(ctx).With(zap.String("dialer", c.dialer.Name()))

	c.dials.Add(1)
	conn, err := c.dialer.Dial(ctx)
	if err != nil {
		c.closed(gen, fmt.Errorf("dial: %w", err))
		return
	}

	// Reads do not all honour ctx, closing the stream always unblocks them.
	var closeOnce sync.Once
	closeConn := func() {
		closeOnce.Do(func() {
			//nolint:errcheck // the session is being torn down
			conn.Close()
		})
	}
	stop := context.AfterFunc(ctx, closeConn)
	defer func() {
		stop()
		closeConn()
	}()

	if !c.opened(gen) {
		return
	}
	logger.Info("transport connected")

	err = c.readLoop(ctx, gen, conn, logger)
	if ctx.Err() != nil {
		return
	}
	c.closed(gen, err)
}

func (c *Client) readLoop(ctx context.Context, gen uint64, conn Conn, logger *zap.Logger) error {
	for {
		data, err := conn.Read(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return ErrClosedByPeer
			}
			return fmt.Errorf("read: %w", err)
		}

		event, err := devconsolemodel.ParseLogEvent(data)
		if errors.Is(err, devconsolemodel.ErrHeartbeat) {
			c.heartbeats.Add(1)
			continue
		}
		if err != nil {
			c.parseFailures.Add(1)
			if c.parseLog.Allow() {
				logger.Warn("discarding malformed message",
					zap.Error(err),
					zap.Int("size", len(data)),
					zap.Uint64("parse_failures", c.parseFailures.Load()),
				)
			}
			continue
		}

		c.mu.Lock()
		current := c.currentLocked(gen)
		c.mu.Unlock()
		if !current {
			return nil
		}

		c.messages.Add(1)
		c.handler.OnMessage(event)
	}
}

// opened moves the client to CONNECTED and notifies the handler.
func (c *Client) opened(gen uint64) bool {
	c.mu.Lock()
	if !c.currentLocked(gen) {
		c.mu.Unlock()
		return false
	}
	c.state = StateConnected
	c.attempt = 0
	c.lastErr = nil
	c.backoff.Reset()
	c.mu.Unlock()

	c.opens.Add(1)
	c.handler.OnOpen()
	return true
}

// closed records a failed or ended cycle, notifies the handler and then
// schedules the next attempt, so OnClose always precedes the next OnOpen.
func (c *Client) closed(gen uint64, err error) {
	c.mu.Lock()
	if !c.currentLocked(gen) {
		c.mu.Unlock()
		return
	}

	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.state = StateDisconnected
	c.lastErr = err
	delay := c.backoff.NextBackOff()
	c.attempt++
	attempt := c.attempt
	ctx := c.baseCtx
	c.mu.Unlock()

	loggerpkg.FromContext(ctx).Warn("transport closed, reconnecting",
		zap.String("dialer", c.dialer.Name()),
		zap.Error(err),
		zap.Int("attempt", attempt),
		zap.Duration("delay", delay),
	)
	c.handler.OnClose(err)

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.currentLocked(gen) {
		return
	}
	c.pending = c.scheduler.AfterFunc(delay, func() { c.reconnect(gen) })
}

// reconnect runs when a scheduled delay elapses.
func (c *Client) reconnect(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.currentLocked(gen) {
		return
	}
	c.startLocked()
}
