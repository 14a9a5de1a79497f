package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/eapache/go-resiliency/breaker"
	"github.com/eapache/go-resiliency/retrier"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	loggerpkg "github.com/hitesh22rana/devconsole/internal/pkg/logger"
)

// CircuitBreakerConfig contains circuit breaker configuration.
type CircuitBreakerConfig struct {
	ErrorThreshold   int           // Number of errors before opening
	SuccessThreshold int           // Number of successes needed to close
	Timeout          time.Duration // How long to stay open
}

// DefaultCircuitBreakerConfig returns default circuit breaker config.
func DefaultCircuitBreakerConfig() *CircuitBreakerConfig {
	return &CircuitBreakerConfig{
		ErrorThreshold:   5,
		SuccessThreshold: 1,
		Timeout:          30 * time.Second,
	}
}

// RetryConfig contains the configuration for retry behavior.
type RetryConfig struct {
	// MaxRetries is the maximum number of retries for a single delivery.
	MaxRetries int
	// BackoffExponential is the base duration for exponential backoff.
	BackoffExponential time.Duration
	// PerRetryTimeout bounds each attempt.
	PerRetryTimeout time.Duration
}

// DefaultRetryConfig returns a default retry configuration.
func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxRetries:         3,
		BackoffExponential: 200 * time.Millisecond,
		PerRetryTimeout:    10 * time.Second,
	}
}

// Delivery posts exports to remote endpoints.
type Delivery struct {
	client   *http.Client
	cb       *breaker.Breaker
	retrier  *retrier.Retrier
	retryCfg *RetryConfig
}

// NewDelivery creates a Delivery. Nil configs fall back to the defaults.
func NewDelivery(client *http.Client, cbCfg *CircuitBreakerConfig, retryCfg *RetryConfig) *Delivery {
	if client == nil {
		client = http.DefaultClient
	}
	if cbCfg == nil {
		cbCfg = DefaultCircuitBreakerConfig()
	}
	if retryCfg == nil {
		retryCfg = DefaultRetryConfig()
	}

	return &Delivery{
		client: client,
		cb:     breaker.New(cbCfg.ErrorThreshold, cbCfg.SuccessThreshold, cbCfg.Timeout),
		retrier: retrier.New(
			retrier.ExponentialBackoff(retryCfg.MaxRetries, retryCfg.BackoffExponential),
			deliveryClassifier{},
		),
		retryCfg: retryCfg,
	}
}

// statusError is a non-2xx response from the endpoint.
type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("unexpected status %d", e.code)
}

// Post sends body to rawURL. Transient failures are retried; repeated
// failures open the breaker and later calls fail fast with codes.Unavailable.
func (d *Delivery) Post(ctx context.Context, rawURL, contentType string, body []byte) error {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return status.Errorf(codes.InvalidArgument, "invalid request: url must be an absolute http(s) url: %q", rawURL)
	}

	logger := loggerpkg.FromContext(ctx).With(zap.String("url", u.Redacted()))

	attempts := 0
	err = d.retrier.RunCtx(ctx, func(ctx context.Context) error {
		attempts++

		var postErr error
		cbErr := d.cb.Run(func() error {
			postErr = d.post(ctx, u.String(), contentType, body)
			if isBreakerError(postErr) {
				return postErr
			}
			return nil
		})

		// Prefer the request error when both are set.
		if cbErr != nil && postErr == nil {
			return cbErr
		}
		return postErr
	})
	if err == nil {
		logger.Info("export delivered", zap.Int("attempts", attempts), zap.Int("bytes", len(body)))
		return nil
	}

	logger.Warn("export delivery failed", zap.Int("attempts", attempts), zap.Error(err))

	if errors.Is(err, breaker.ErrBreakerOpen) {
		return status.Error(codes.Unavailable, "export endpoint unavailable: circuit breaker is open")
	}
	var se *statusError
	if errors.As(err, &se) && se.code < http.StatusInternalServerError && se.code != http.StatusTooManyRequests {
		return status.Errorf(codes.FailedPrecondition, "export endpoint rejected the request: %v", err)
	}
	return status.Errorf(codes.Unavailable, "failed to deliver export: %v", err)
}

func (d *Delivery) post(ctx context.Context, rawURL, contentType string, body []byte) error {
	ctx, cancel := context.WithTimeout(ctx, d.retryCfg.PerRetryTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", contentType)

	res, err := d.client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	//nolint:errcheck // drain so the connection can be reused
	io.Copy(io.Discard, io.LimitReader(res.Body, 64<<10))

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return &statusError{code: res.StatusCode}
	}
	return nil
}

// deliveryClassifier retries transient failures only.
type deliveryClassifier struct{}

func (deliveryClassifier) Classify(err error) retrier.Action {
	if err == nil {
		return retrier.Succeed
	}
	if errors.Is(err, breaker.ErrBreakerOpen) {
		return retrier.Fail
	}
	if isBreakerError(err) {
		return retrier.Retry
	}
	return retrier.Fail
}

// isBreakerError determines whether an error should be counted against the
// circuit breaker: server errors, throttling, timeouts and network failures.
func isBreakerError(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var se *statusError
	if errors.As(err, &se) {
		return se.code >= http.StatusInternalServerError || se.code == http.StatusTooManyRequests
	}

	var ne net.Error
	if errors.As(err, &ne) {
		return true
	}

	var oe *net.OpError
	return errors.As(err, &oe)
}
