package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
)

// Transport kinds.
const (
	TransportWebSocket = "websocket"
	TransportSSE       = "sse"
	TransportRedis     = "redis"
	TransportKafka     = "kafka"
)

// DevConsoleConfig holds the devconsole configuration.
type DevConsoleConfig struct {
	Environment

	Logger
	Otel
	Redis
	Kafka
	Server
	Console
	Transport
	Export
}

// Console holds the limits of the in-memory console state.
type Console struct {
	MaxEvents    int `envconfig:"CONSOLE_MAX_EVENTS" default:"1000" validate:"gt=0"`
	MaxWorkflows int `envconfig:"CONSOLE_MAX_WORKFLOWS" default:"500" validate:"gt=0"`
}

// Transport holds the configuration of the log stream connection.
type Transport struct {
	Kind      string        `envconfig:"TRANSPORT_KIND" default:"websocket" validate:"oneof=websocket sse redis kafka"`
	URL       string        `envconfig:"TRANSPORT_URL" default:"ws://localhost:8000/ws/logs" validate:"omitempty,url"`
	Channels  []string      `envconfig:"TRANSPORT_CHANNELS"`
	Scopes    []string      `envconfig:"TRANSPORT_SCOPES"`
	BaseDelay time.Duration `envconfig:"TRANSPORT_BASE_DELAY" default:"1s" validate:"gt=0"`
	MaxDelay  time.Duration `envconfig:"TRANSPORT_MAX_DELAY" default:"30s" validate:"gtefield=BaseDelay"`
	ReadLimit int64         `envconfig:"TRANSPORT_READ_LIMIT" default:"1048576"`

	ParseLogInterval time.Duration `envconfig:"TRANSPORT_PARSE_LOG_INTERVAL" default:"1s" validate:"gt=0"`
	ParseLogBurst    int           `envconfig:"TRANSPORT_PARSE_LOG_BURST" default:"5" validate:"gt=0"`
}

// Export holds the URL delivery policy for exports.
type Export struct {
	MaxRetries            int           `envconfig:"EXPORT_MAX_RETRIES" default:"3" validate:"gte=0"`
	RetryBackoff          time.Duration `envconfig:"EXPORT_RETRY_BACKOFF" default:"200ms"`
	PerRetryTimeout       time.Duration `envconfig:"EXPORT_PER_RETRY_TIMEOUT" default:"10s"`
	BreakerErrorThreshold int           `envconfig:"EXPORT_BREAKER_ERROR_THRESHOLD" default:"5" validate:"gt=0"`
	BreakerTimeout        time.Duration `envconfig:"EXPORT_BREAKER_TIMEOUT" default:"30s"`
}

// InitDevConsoleConfig initializes the devconsole configuration.
func InitDevConsoleConfig() (*DevConsoleConfig, error) {
	var cfg DevConsoleConfig
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration for the selected transport.
func (c *DevConsoleConfig) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	switch c.Transport.Kind {
	case TransportWebSocket, TransportSSE:
		if c.Transport.URL == "" {
			return fmt.Errorf("invalid configuration: TRANSPORT_URL is required for %s", c.Transport.Kind)
		}
	case TransportKafka:
		if len(c.Kafka.Brokers) == 0 {
			return errors.New("invalid configuration: KAFKA_BROKERS is required for kafka")
		}
	}

	return nil
}
