package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
)

// OrderHandler receives every decoded OrderPlaced event.
type OrderHandler func(ctx context.Context, evt domain.OrderPlaced) error

type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

const (
	DefaultHandlerAttempts = 5
	DefaultBackoffMax      = 5 * time.Second
)

// Consumer reads OrderPlaced events back off the order topic.
type Consumer struct {
	reader  messageReader
	handler OrderHandler
	log     zerolog.Logger

	// MaxAttempts bounds the handler calls per message before Run gives up.
	MaxAttempts int
	BackoffMax  time.Duration
	sleep       func(ctx context.Context, d time.Duration) error
}

func NewConsumer(topic, groupID string, handler OrderHandler, log zerolog.Logger, brokers ...string) *Consumer {
	if topic == "" {
		topic = DefaultTopic
	}
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  groupID,
		MaxBytes: 10e6, // 10MB
	})
	return &Consumer{
		reader:      reader,
		handler:     handler,
		log:         log.With().Str("component", "order-consumer").Logger(),
		MaxAttempts: DefaultHandlerAttempts,
		BackoffMax:  DefaultBackoffMax,
	}
}

// Run consumes until ctx is cancelled or a message keeps failing its
// handler. In the latter case the message is not committed and Run returns
// the handler error; the next Run for the same group starts again from it.
func (c *Consumer) Run(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			return nil
		}
		if err := c.processMessage(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
	}
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}

// processMessage handles one message. Undecodable messages are committed and
// skipped. A handler failure is retried with backoff; an error is returned
// only once the attempts are used up.
func (c *Consumer) processMessage(ctx context.Context) error {
	m, err := c.reader.FetchMessage(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil
		}
		c.log.Error().Err(err).Msg("error reading message")
		return nil
	}

	evt, err := decodeOrder(m)
	if err != nil {
		c.log.Warn().Err(err).Int64("offset", m.Offset).Msg("skipping message")
		c.commit(ctx, m)
		return nil
	}

	if err := c.handle(ctx, evt); err != nil {
		return fmt.Errorf("order %s at offset %d: %w", evt.OrderID, m.Offset, err)
	}
	c.commit(ctx, m)
	return nil
}

func (c *Consumer) handle(ctx context.Context, evt domain.OrderPlaced) error {
	attempts := c.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	sleep := c.sleep
	if sleep == nil {
		sleep = sleepCtx
	}

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = c.handler(ctx, evt); err == nil {
			return nil
		}
		if attempt == attempts {
			break
		}
		wait := backoff(attempt, c.BackoffMax)
		c.log.Error().Err(err).Str("order_id", evt.OrderID).Int("attempt", attempt).Dur("retry_in", wait).Msg("failed to handle order")
		if serr := sleep(ctx, wait); serr != nil {
			return serr
		}
	}
	c.log.Error().Err(err).Str("order_id", evt.OrderID).Int("attempts", attempts).Msg("giving up on order, leaving it uncommitted")
	return err
}

func (c *Consumer) commit(ctx context.Context, m kafka.Message) {
	if err := c.reader.CommitMessages(ctx, m); err != nil {
		c.log.Error().Err(err).Int64("offset", m.Offset).Msg("failed to commit message")
	}
}

// backoff doubles from 100ms per attempt, capped at limit.
func backoff(attempt int, limit time.Duration) time.Duration {
	d := time.Duration(math.Pow(2, float64(attempt-1))) * 100 * time.Millisecond
	if limit > 0 && d > limit {
		return limit
	}
	return d
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func decodeOrder(m kafka.Message) (domain.OrderPlaced, error) {
	var evt domain.OrderPlaced
	if err := json.Unmarshal(m.Value, &evt); err != nil {
		return evt, fmt.Errorf("error parsing message: %w", err)
	}
	if evt.OrderID == "" {
		evt.OrderID = string(m.Key)
	}
	if evt.OrderID == "" {
		return evt, errors.New("missing order_id")
	}
	if evt.Currency == "" {
		evt.Currency = "USD"
	}
	return evt, nil
}
