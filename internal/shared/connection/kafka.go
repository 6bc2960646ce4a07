package connection

import (
	"time"

	"go-employees/internal/shared/config"

	kafkago "github.com/segmentio/kafka-go"
)

// NewKafkaWriter returns a writer for the configured brokers. kafka-go dials
// lazily, so no network I/O happens here.
func NewKafkaWriter(opts config.KafkaOptions) *kafkago.Writer {
	return &kafkago.Writer{
		Addr:         kafkago.TCP(opts.Brokers...),
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
		BatchTimeout: 10 * time.Millisecond,
		WriteTimeout: 5 * time.Second,
	}
}
