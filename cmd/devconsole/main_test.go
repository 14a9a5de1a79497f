package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hitesh22rana/devconsole/internal/config"
	kafkapkg "github.com/hitesh22rana/devconsole/internal/pkg/kafka"
	"github.com/hitesh22rana/devconsole/internal/pkg/transport"
)

func TestKafkaOptions(t *testing.T) {
	tests := []struct {
		name string
		cfg  *config.Kafka
		want *kafkapkg.Config
	}{
		{
			name: "defaults to the logs topic",
			cfg: &config.Kafka{
				Brokers:             []string{"localhost:9092"},
				DisableAutoCommit:   true,
				FetchIsolationLevel: "read_uncommitted",
			},
			want: &kafkapkg.Config{
				Brokers:             []string{"localhost:9092"},
				ConsumeTopics:       []string{kafkapkg.TopicLogs},
				FetchIsolationLevel: kafkapkg.ReadUncommitted,
				DisableAutoCommit:   true,
			},
		},
		{
			name: "explicit group and topics",
			cfg: &config.Kafka{
				Brokers:             []string{"a:9092", "b:9092"},
				ConsumeTopics:       []string{"app_logs"},
				ConsumerGroup:       "devconsole",
				FromBeginning:       true,
				FetchIsolationLevel: "read_committed",
			},
			want: &kafkapkg.Config{
				Brokers:             []string{"a:9092", "b:9092"},
				ConsumeTopics:       []string{"app_logs"},
				ConsumerGroup:       "devconsole",
				FetchIsolationLevel: kafkapkg.ReadCommitted,
				FromBeginning:       true,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := &kafkapkg.Config{}
			for _, opt := range kafkaOptions(tt.cfg) {
				opt(got)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewDialer(t *testing.T) {
	tests := []struct {
		name string
		cfg  *config.DevConsoleConfig
		want string
	}{
		{
			name: "websocket",
			cfg: &config.DevConsoleConfig{
				Transport: config.Transport{Kind: config.TransportWebSocket, URL: "ws://localhost:8000/ws/logs"},
			},
			want: "websocket",
		},
		{
			name: "sse",
			cfg: &config.DevConsoleConfig{
				Transport: config.Transport{Kind: config.TransportSSE, URL: "http://localhost:8000/logs"},
			},
			want: "sse",
		},
		{
			name: "kafka",
			cfg: &config.DevConsoleConfig{
				Transport: config.Transport{Kind: config.TransportKafka},
				Kafka:     config.Kafka{Brokers: []string{"localhost:9092"}},
			},
			want: "kafka",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dialer, closeDialer, err := newDialer(t.Context(), tt.cfg)
			require.NoError(t, err)
			t.Cleanup(closeDialer)

			assert.Equal(t, tt.want, dialer.Name())
			if tt.name == "kafka" {
				kd, ok := dialer.(*transport.KafkaDialer)
				require.True(t, ok)
				assert.NotEmpty(t, kd.Options)
			}
		})
	}
}
