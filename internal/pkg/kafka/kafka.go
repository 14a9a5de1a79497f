package kafka

import (
	"context"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// IsolationLevel represents the Kafka isolation level.
type IsolationLevel string

const (
	initTimeout time.Duration = 10 * time.Second

	// ReadUncommitted means that the consumer will read all messages, even those that are in the process of being written.
	ReadUncommitted IsolationLevel = "read_uncommitted"
	// ReadCommitted means that the consumer will only read messages that have been committed.
	ReadCommitted IsolationLevel = "read_committed"
)

// Config represents the configuration for a Kafka client.
type Config struct {
	Brokers             []string
	ConsumeTopics       []string
	ConsumerGroup       string
	FetchIsolationLevel IsolationLevel
	DisableAutoCommit   bool
	FromBeginning       bool
}

// Option is a functional option type that allows us to configure the Kafka client.
type Option func(*Config)

// Options translates the options into franz-go client options.
func Options(options ...Option) ([]kgo.Opt, error) {
	c := &Config{}

	for _, opt := range options {
		opt(c)
	}

	if len(c.Brokers) == 0 {
		return nil, status.Errorf(codes.InvalidArgument, "failed to initialize Kafka client: missing brokers")
	}

	opts := []kgo.Opt{
		kgo.SeedBrokers(c.Brokers...),
		kgo.AllowAutoTopicCreation(),
	}

	if len(c.ConsumeTopics) != 0 {
		opts = append(opts, kgo.ConsumeTopics(c.ConsumeTopics...))
	}

	if c.ConsumerGroup != "" {
		opts = append(opts, kgo.ConsumerGroup(c.ConsumerGroup))
	}

	// A live console only cares about records produced after it attached.
	if c.FromBeginning {
		opts = append(opts, kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()))
	} else {
		opts = append(opts, kgo.ConsumeResetOffset(kgo.NewOffset().AtEnd()))
	}

	if c.FetchIsolationLevel != "" {
		// Default to read uncommitted if not set
		var fetchIsolationLevel kgo.IsolationLevel
		if c.FetchIsolationLevel == ReadCommitted {
			fetchIsolationLevel = kgo.ReadCommitted()
		} else {
			fetchIsolationLevel = kgo.ReadUncommitted()
		}

		opts = append(opts, kgo.FetchIsolationLevel(fetchIsolationLevel))
	}

	if c.DisableAutoCommit {
		opts = append(opts, kgo.DisableAutoCommit())
	}

	return opts, nil
}

// New creates a new Kafka client and checks that a broker answers.
func New(ctx context.Context, options ...Option) (*kgo.Client, error) {
	opts, err := Options(options...)
	if err != nil {
		return nil, err
	}

	client, err := kgo.NewClient(opts...)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to create Kafka client: %v", err)
	}

	ctx, cancel := context.WithTimeout(ctx, initTimeout)
	defer cancel()

	if err := client.Ping(ctx); err != nil {
		client.Close()
		return nil, status.Errorf(codes.Unavailable, "failed to reach Kafka brokers: %v", err)
	}

	return client, nil
}

// WithBrokers sets the Kafka brokers.
func WithBrokers(brokers ...string) Option {
	return func(c *Config) {
		c.Brokers = brokers
	}
}

// WithConsumeTopics sets the Kafka consume topic.
func WithConsumeTopics(topic ...string) Option {
	return func(c *Config) {
		c.ConsumeTopics = topic
	}
}

// WithConsumerGroup sets the Kafka consumer group.
func WithConsumerGroup(group string) Option {
	return func(c *Config) {
		c.ConsumerGroup = group
	}
}

// WithFetchIsolationLevel sets the Kafka fetch isolation level.
func WithFetchIsolationLevel(isolationLevel IsolationLevel) Option {
	return func(c *Config) {
		c.FetchIsolationLevel = isolationLevel
	}
}

// WithDisableAutoCommit disables the Kafka auto commit.
func WithDisableAutoCommit() Option {
	return func(c *Config) {
		c.DisableAutoCommit = true
	}
}

// WithFromBeginning starts consumption at the earliest offset instead of the latest.
func WithFromBeginning() Option {
	return func(c *Config) {
		c.FromBeginning = true
	}
}
