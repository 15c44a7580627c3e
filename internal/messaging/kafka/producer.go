// Package kafka publishes domain events to Kafka.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"

	"github.com/dtroode/hypecard-server/internal/model"
)

var _ model.EventPublisher = (*Producer)(nil)

// MessageEvent is the wire format of every published message.
type MessageEvent struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload"`
}

// Producer publishes events to a single topic through a synchronous producer.
type Producer struct {
	producer sarama.SyncProducer
	topic    string
	now      func() time.Time
}

// NewProducer connects a synchronous producer to brokers.
func NewProducer(brokers []string, topic string) (*Producer, error) {
	cfg := sarama.NewConfig()
	cfg.Version = sarama.V2_8_1_0
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Retry.Max = 5
	cfg.Producer.Return.Successes = true

	producer, err := sarama.NewSyncProducer(brokers, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}

	return NewProducerWith(producer, topic), nil
}

// NewProducerWith wraps an existing SyncProducer (used in tests).
func NewProducerWith(producer sarama.SyncProducer, topic string) *Producer {
	return &Producer{producer: producer, topic: topic, now: time.Now}
}

// Publish sends event keyed by event.Key so events for one entity stay ordered.
func (p *Producer) Publish(_ context.Context, event model.Event) error {
	data, err := json.Marshal(MessageEvent{
		Type:      event.Type,
		Timestamp: p.now().UTC(),
		Payload:   event.Payload,
	})
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Value: sarama.ByteEncoder(data),
	}
	if event.Key != "" {
		msg.Key = sarama.StringEncoder(event.Key)
	}

	if _, _, err := p.producer.SendMessage(msg); err != nil {
		return fmt.Errorf("failed to send %s event: %w", event.Type, err)
	}
	return nil
}

// Close flushes and closes the underlying producer.
func (p *Producer) Close() error {
	return p.producer.Close()
}

// Noop discards events. It stands in when no brokers are configured.
type Noop struct{}

var _ model.EventPublisher = Noop{}

func (Noop) Publish(context.Context, model.Event) error {
	return nil
}
