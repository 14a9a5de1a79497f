package config

import (
	"time"
)

const envPrefix = ""

// Environment holds the deployment environment.
type Environment struct {
	Env string `envconfig:"ENV" default:"development"`
}

// Redis holds the configuration for the redis relay.
type Redis struct {
	Host         string        `envconfig:"REDIS_HOST" default:"localhost"`
	Port         int           `envconfig:"REDIS_PORT" default:"6379"`
	Password     string        `envconfig:"REDIS_PASSWORD" default:""`
	DB           int           `envconfig:"REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"REDIS_MIN_IDLE_CONNS" default:"1"`
	ReadTimeout  time.Duration `envconfig:"REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Kafka holds the configuration for the kafka consumer.
type Kafka struct {
	Brokers       []string `envconfig:"KAFKA_BROKERS"`
	ConsumeTopics []string `envconfig:"KAFKA_CONSUME_TOPICS"`
	ConsumerGroup string   `envconfig:"KAFKA_CONSUMER_GROUP"`
	FromBeginning bool     `envconfig:"KAFKA_FROM_BEGINNING" default:"false"`
	// The console never moves a shared group's offsets unless asked to.
	DisableAutoCommit   bool   `envconfig:"KAFKA_DISABLE_AUTO_COMMIT" default:"true"`
	FetchIsolationLevel string `envconfig:"KAFKA_FETCH_ISOLATION_LEVEL" default:"read_uncommitted" validate:"oneof=read_committed read_uncommitted"`
}

// Server holds the configuration for the HTTP server.
type Server struct {
	Host              string        `envconfig:"SERVER_HOST" default:"localhost"`
	Port              int           `envconfig:"SERVER_PORT" default:"8080"`
	RequestTimeout    time.Duration `envconfig:"SERVER_REQUEST_TIMEOUT" default:"5s"`
	ReadTimeout       time.Duration `envconfig:"SERVER_READ_TIMEOUT" default:"2s"`
	ReadHeaderTimeout time.Duration `envconfig:"SERVER_READ_HEADER_TIMEOUT" default:"1s"`
	WriteTimeout      time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" default:"30s"`
	IdleTimeout       time.Duration `envconfig:"SERVER_IDLE_TIMEOUT" default:"30s"`
	RequestBodyLimit  int64         `envconfig:"SERVER_REQUEST_BODY_LIMIT" default:"4194304"`
	AllowedOrigin     string        `envconfig:"SERVER_ALLOWED_ORIGIN" default:"http://localhost:5173"`
}

// Otel holds the telemetry switches. The exporters themselves read the
// standard OTEL_EXPORTER_OTLP_* variables.
type Otel struct {
	Enabled bool `envconfig:"OTEL_ENABLED" default:"false"`
}

// Logger holds the logging configuration.
type Logger struct {
	Level string `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=debug info warn error"`
}
