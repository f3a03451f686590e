package kafkapublisher

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/ruudy-sib/cupcount/internal/config"
	"github.com/ruudy-sib/cupcount/internal/domain/entity"
	"github.com/ruudy-sib/cupcount/internal/port/secondary"
)

// messageWriter is the subset of *kafka.Writer the publisher needs.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// changeMessage is the wire format of a counter change on the topic.
type changeMessage struct {
	ID         string    `json:"id"`
	Counter    string    `json:"counter"`
	Source     string    `json:"source"`
	OrderID    string    `json:"order_id,omitempty"`
	Delta      int64     `json:"delta"`
	Value      int64     `json:"value"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Publisher implements secondary.EventPublisher using segmentio/kafka-go.
// It keeps a single writer for the configured topic.
type Publisher struct {
	writer  messageWriter
	topic   string
	counter string
	logger  *zap.Logger
}

// NewPublisher creates a Kafka publisher, or a no-op publisher when no
// brokers are configured.
func NewPublisher(cfg *config.Config, logger *zap.Logger) secondary.EventPublisher {
	if len(cfg.KafkaBrokers) == 0 {
		logger.Info("no kafka brokers configured, counter changes will not be published")
		return NewNop()
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 100 * time.Millisecond,
		RequiredAcks: kafka.RequireAll,
	}

	logger.Info("kafka publisher initialized",
		zap.Strings("brokers", cfg.KafkaBrokers),
		zap.String("topic", cfg.KafkaTopic),
	)

	return newPublisher(writer, cfg.KafkaTopic, cfg.CounterKey, logger)
}

func newPublisher(writer messageWriter, topic, counter string, logger *zap.Logger) *Publisher {
	return &Publisher{
		writer:  writer,
		topic:   topic,
		counter: counter,
		logger:  logger.Named("kafka-publisher"),
	}
}

// PublishCounterChange writes the change keyed by counter name so all
// changes of one counter land on the same partition in order.
func (p *Publisher) PublishCounterChange(ctx context.Context, change entity.CounterChange) error {
	value, err := json.Marshal(changeMessage{
		ID:         change.ID,
		Counter:    p.counter,
		Source:     change.Source,
		OrderID:    change.OrderID,
		Delta:      change.Delta,
		Value:      change.Value,
		OccurredAt: change.OccurredAt,
	})
	if err != nil {
		return fmt.Errorf("marshaling counter change: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(p.counter),
		Value: value,
		Time:  change.OccurredAt,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("writing counter change to kafka topic %q: %w", p.topic, err)
	}

	p.logger.Debug("counter change published",
		zap.String("topic", p.topic),
		zap.String("change_id", change.ID),
		zap.Int("value_size", len(value)),
	)

	return nil
}

// Close shuts down the Kafka writer and releases its resources.
func (p *Publisher) Close() error {
	if p.writer != nil {
		return p.writer.Close()
	}
	return nil
}

// Nop discards counter changes.
type Nop struct{}

// NewNop returns a publisher that does nothing.
func NewNop() secondary.EventPublisher {
	return Nop{}
}

// PublishCounterChange does nothing.
func (Nop) PublishCounterChange(context.Context, entity.CounterChange) error {
	return nil
}

// Close does nothing.
func (Nop) Close() error {
	return nil
}
