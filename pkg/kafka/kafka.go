// Package kafka publishes JSON messages to a Kafka topic.
package kafka

import (
	"context"
	"fmt"
	"log"
	"time"

	kafkago "github.com/segmentio/kafka-go"
)

const writeTimeout = 5 * time.Second

// Config holds Kafka connection details.
type Config struct {
	Brokers []string
	Topic   string
}

// Producer writes messages to a single topic.
type Producer struct {
	writer *kafkago.Writer
}

// NewProducer creates a producer for cfg.Topic. Connections are opened lazily
// on the first write.
func NewProducer(cfg Config) (*Producer, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("kafka: no brokers configured")
	}
	if cfg.Topic == "" {
		return nil, fmt.Errorf("kafka: topic is required")
	}

	w := &kafkago.Writer{
		Addr:                   kafkago.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireOne,
		AllowAutoTopicCreation: true,
		WriteTimeout:           writeTimeout,
	}
	log.Printf("Kafka producer ready for topic %s on %v", cfg.Topic, cfg.Brokers)
	return &Producer{writer: w}, nil
}

// Send writes body under key. Messages with the same key keep their order.
func (p *Producer) Send(ctx context.Context, key string, body []byte) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	err := p.writer.WriteMessages(ctx, kafkago.Message{
		Key:   []byte(key),
		Value: body,
		Time:  time.Now(),
	})
	if err != nil {
		return fmt.Errorf("kafka: write failed: %w", err)
	}
	return nil
}

// Close flushes pending messages and closes the writer.
func (p *Producer) Close() error {
	return p.writer.Close()
}
