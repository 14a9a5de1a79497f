package transport

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/redis/go-redis/v9"

	redispkg "github.com/hitesh22rana/devconsole/internal/pkg/redis"
)

// RedisDialer subscribes to Redis Pub/Sub channels that carry one JSON event
// per message. Channels containing glob characters are pattern subscriptions.
type RedisDialer struct {
	Store    *redispkg.Store
	Channels []string
}

// Name returns the dialer name.
func (d *RedisDialer) Name() string {
	return "redis"
}

// Dial subscribes and waits for the server to confirm the subscription.
func (d *RedisDialer) Dial(ctx context.Context) (Conn, error) {
	if d.Store == nil || len(d.Channels) == 0 {
		return nil, errors.New("redis: store and at least one channel are required")
	}

	ps := d.Store.Subscribe(ctx, d.Channels...)
	if _, err := ps.Receive(ctx); err != nil {
		//nolint:errcheck // the subscription never became usable
		ps.Close()
		return nil, fmt.Errorf("redis subscribe %v: %w", d.Channels, err)
	}

	return &redisConn{ps: ps}, nil
}

type redisConn struct {
	ps *redis.PubSub
}

func (c *redisConn) Read(ctx context.Context) ([]byte, error) {
	msg, err := c.ps.ReceiveMessage(ctx)
	if err != nil {
		if errors.Is(err, redis.ErrClosed) {
			return nil, io.EOF
		}
		return nil, err
	}
	return []byte(msg.Payload), nil
}

func (c *redisConn) Close() error {
	return c.ps.Close()
}
