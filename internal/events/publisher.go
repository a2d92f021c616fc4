// Package events publishes order events to whoever fulfils them.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
)

const DefaultTopic = "storefront-orders"

type Publisher interface {
	PublishOrderPlaced(ctx context.Context, evt domain.OrderPlaced) error
	Close() error
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes one message per order, keyed by order id.
type KafkaPublisher struct {
	writer messageWriter
}

func NewKafkaPublisher(topic string, brokers ...string) *KafkaPublisher {
	if topic == "" {
		topic = DefaultTopic
	}
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
			WriteTimeout: 10 * time.Second,
		},
	}
}

func (p *KafkaPublisher) PublishOrderPlaced(ctx context.Context, evt domain.OrderPlaced) error {
	msg, err := orderMessage(evt)
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish order %s: %w", evt.OrderID, err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

func orderMessage(evt domain.OrderPlaced) (kafka.Message, error) {
	value, err := json.Marshal(evt)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("marshal order %s failed: %w", evt.OrderID, err)
	}
	return kafka.Message{
		Key:   []byte(evt.OrderID),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte("order.placed")},
		},
		Time: evt.PlacedAt,
	}, nil
}

// LogPublisher only logs the event; used when no broker is configured.
type LogPublisher struct {
	log zerolog.Logger
}

func NewLogPublisher(log zerolog.Logger) *LogPublisher {
	return &LogPublisher{log: log.With().Str("component", "events").Logger()}
}

func (p *LogPublisher) PublishOrderPlaced(_ context.Context, evt domain.OrderPlaced) error {
	p.log.Info().
		Str("order_id", evt.OrderID).
		Str("transaction_id", evt.TransactionID).
		Str("total", domain.FormatPrice(evt.Total)).
		Int("lines", len(evt.Items)).
		Msg("order placed")
	return nil
}

func (p *LogPublisher) Close() error { return nil }
