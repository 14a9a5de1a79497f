package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hitesh22rana/devconsole/internal/config"
)

func TestInitDevConsoleConfig_Defaults(t *testing.T) {
	cfg, err := config.InitDevConsoleConfig()
	require.NoError(t, err)

	assert.Equal(t, 1000, cfg.Console.MaxEvents)
	assert.Equal(t, 500, cfg.Console.MaxWorkflows)
	assert.Equal(t, config.TransportWebSocket, cfg.Transport.Kind)
	assert.Equal(t, time.Second, cfg.Transport.BaseDelay)
	assert.Equal(t, 30*time.Second, cfg.Transport.MaxDelay)
	assert.Empty(t, cfg.Transport.Channels)
	assert.Empty(t, cfg.Kafka.ConsumeTopics)
	assert.True(t, cfg.Kafka.DisableAutoCommit)
	assert.Equal(t, "read_uncommitted", cfg.Kafka.FetchIsolationLevel)
	assert.Equal(t, time.Second, cfg.Transport.ParseLogInterval)
	assert.Equal(t, 5, cfg.Transport.ParseLogBurst)
	assert.False(t, cfg.Otel.Enabled)
	assert.Equal(t, "info", cfg.Logger.Level)
}

func TestInitDevConsoleConfig(t *testing.T) {
	tests := []struct {
		name  string
		env   map[string]string
		check func(t *testing.T, cfg *config.DevConsoleConfig)
		isErr bool
	}{
		{
			name: "success: kafka",
			env: map[string]string{
				"TRANSPORT_KIND":       "kafka",
				"KAFKA_BROKERS":        "localhost:9092,localhost:9093",
				"KAFKA_CONSUME_TOPICS": "app_logs",
				"CONSOLE_MAX_EVENTS":   "50",
			},
			check: func(t *testing.T, cfg *config.DevConsoleConfig) {
				assert.Equal(t, []string{"localhost:9092", "localhost:9093"}, cfg.Kafka.Brokers)
				assert.Equal(t, []string{"app_logs"}, cfg.Kafka.ConsumeTopics)
				assert.Equal(t, 50, cfg.Console.MaxEvents)
			},
		},
		{
			name: "success: sse with custom backoff",
			env: map[string]string{
				"TRANSPORT_KIND":       "sse",
				"TRANSPORT_URL":        "http://localhost:8000/logs/stream",
				"TRANSPORT_BASE_DELAY": "500ms",
				"TRANSPORT_MAX_DELAY":  "10s",
			},
			check: func(t *testing.T, cfg *config.DevConsoleConfig) {
				assert.Equal(t, 500*time.Millisecond, cfg.Transport.BaseDelay)
				assert.Equal(t, 10*time.Second, cfg.Transport.MaxDelay)
			},
		},
		{
			name: "success: redis with scopes",
			env: map[string]string{
				"TRANSPORT_KIND":   "redis",
				"TRANSPORT_SCOPES": "api,worker",
			},
			check: func(t *testing.T, cfg *config.DevConsoleConfig) {
				assert.Equal(t, []string{"api", "worker"}, cfg.Transport.Scopes)
			},
		},
		{
			name:  "error: unknown isolation level",
			env:   map[string]string{"KAFKA_FETCH_ISOLATION_LEVEL": "dirty"},
			isErr: true,
		},
		{
			name:  "error: zero parse log burst",
			env:   map[string]string{"TRANSPORT_PARSE_LOG_BURST": "0"},
			isErr: true,
		},
		{
			name:  "error: unknown transport",
			env:   map[string]string{"TRANSPORT_KIND": "carrier-pigeon"},
			isErr: true,
		},
		{
			name:  "error: kafka without brokers",
			env:   map[string]string{"TRANSPORT_KIND": "kafka"},
			isErr: true,
		},
		{
			name:  "error: websocket without url",
			env:   map[string]string{"TRANSPORT_URL": ""},
			isErr: true,
		},
		{
			name:  "error: max delay below base delay",
			env:   map[string]string{"TRANSPORT_BASE_DELAY": "5s", "TRANSPORT_MAX_DELAY": "1s"},
			isErr: true,
		},
		{
			name:  "error: zero capacity",
			env:   map[string]string{"CONSOLE_MAX_EVENTS": "0"},
			isErr: true,
		},
		{
			name:  "error: malformed duration",
			env:   map[string]string{"TRANSPORT_BASE_DELAY": "soon"},
			isErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := config.InitDevConsoleConfig()
			if (err != nil) != tt.isErr {
				t.Errorf("InitDevConsoleConfig() error = %v, wantErr %v", err, tt.isErr)
				return
			}

			if tt.check != nil {
				tt.check(t, cfg)
			}
		})
	}
}
