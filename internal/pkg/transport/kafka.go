package transport

import (
	"context"
	"fmt"
	"io"

	"github.com/twmb/franz-go/pkg/kgo"

	kafkapkg "github.com/hitesh22rana/devconsole/internal/pkg/kafka"
)

// KafkaDialer consumes a Kafka topic whose record values are JSON events.
type KafkaDialer struct {
	Options []kafkapkg.Option
}

// Name returns the dialer name.
func (d *KafkaDialer) Name() string {
	return "kafka"
}

// Dial creates a consumer and checks that the brokers answer.
func (d *KafkaDialer) Dial(ctx context.Context) (Conn, error) {
	client, err := kafkapkg.New(ctx, d.Options...)
	if err != nil {
		return nil, fmt.Errorf("kafka: %w", err)
	}

	return &kafkaConn{client: client}, nil
}

type kafkaConn struct {
	client  *kgo.Client
	pending []*kgo.Record
}

// Read returns the next record value, polling the brokers when the local
// batch is exhausted. Records are returned in partition order.
func (c *kafkaConn) Read(ctx context.Context) ([]byte, error) {
	for len(c.pending) == 0 {
		fetches := c.client.PollFetches(ctx)
		if fetches.IsClientClosed() {
			return nil, io.EOF
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if errs := fetches.Errors(); len(errs) > 0 {
			return nil, fmt.Errorf("kafka fetch %s[%d]: %w", errs[0].Topic, errs[0].Partition, errs[0].Err)
		}

		fetches.EachRecord(func(r *kgo.Record) {
			c.pending = append(c.pending, r)
		})
	}

	r := c.pending[0]
	c.pending[0] = nil
	c.pending = c.pending[1:]
	return r.Value, nil
}

func (c *kafkaConn) Close() error {
	c.client.Close()
	return nil
}
