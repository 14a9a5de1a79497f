package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// MaxHealthCheckRetries is the maximum number of retries for the health check
	MaxHealthCheckRetries = 3
)

// Config is the configuration for the Redis client
type Config struct {
	Host         string
	Port         int
	Password     string
	DB           int
	PoolSize     int
	MinIdleConns int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Store wraps a Redis client used as a log relay.
type Store struct {
	client *redis.Client
}

// healthCheck is used to check the health of the Redis connection
func healthCheck(ctx context.Context, client *redis.Client) error {
	var err error

	backoff := 100 * time.Millisecond
	for i := 1; i <= MaxHealthCheckRetries; i++ {
		if err = client.Ping(ctx).Err(); err == nil {
			break
		}
		if i < MaxHealthCheckRetries {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}
	}

	return err
}

// New creates a new Redis store instance
func New(ctx context.Context, cfg *Config) (*Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	return NewWithClient(ctx, client)
}

// NewWithClient wraps an existing client after checking that it is reachable.
func NewWithClient(ctx context.Context, client *redis.Client) (*Store, error) {
	if err := healthCheck(ctx, client); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &Store{client: client}, nil
}

// Close closes the Redis store
func (s *Store) Close() error {
	return s.client.Close()
}

// Ping checks that the server is reachable.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to ping redis: %w", err)
	}
	return nil
}

// Subscribe subscribes to the given channels. Channel names containing glob
// characters are subscribed by pattern.
func (s *Store) Subscribe(ctx context.Context, channels ...string) *redis.PubSub {
	patterns := make([]string, 0, len(channels))
	exact := make([]string, 0, len(channels))
	for _, ch := range channels {
		if IsPattern(ch) {
			patterns = append(patterns, ch)
		} else {
			exact = append(exact, ch)
		}
	}

	ps := s.client.Subscribe(ctx, exact...)
	if len(patterns) > 0 {
		//nolint:errcheck // subscription errors surface on Receive
		ps.PSubscribe(ctx, patterns...)
	}
	return ps
}
