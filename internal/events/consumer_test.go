package events

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockReader struct {
	mu        sync.Mutex
	msgs      []kafka.Message
	committed []int64
}

func (m *mockReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	m.mu.Lock()
	if len(m.msgs) > 0 {
		msg := m.msgs[0]
		m.msgs = m.msgs[1:]
		m.mu.Unlock()
		return msg, nil
	}
	m.mu.Unlock()
	<-ctx.Done()
	return kafka.Message{}, ctx.Err()
}

func (m *mockReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, msg := range msgs {
		m.committed = append(m.committed, msg.Offset)
	}
	return nil
}

func (m *mockReader) Close() error { return nil }

func (m *mockReader) commits() []int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]int64(nil), m.committed...)
}

func message(t *testing.T, offset int64, evt domain.OrderPlaced) kafka.Message {
	t.Helper()
	msg, err := orderMessage(evt)
	require.NoError(t, err)
	msg.Offset = offset
	return msg
}

func TestConsumer_DeliversAndCommits(t *testing.T) {
	reader := &mockReader{msgs: []kafka.Message{
		message(t, 1, order()),
		{Offset: 2, Value: []byte("not json")},
	}}

	var got []domain.OrderPlaced
	c := &Consumer{
		reader: reader,
		handler: func(_ context.Context, evt domain.OrderPlaced) error {
			got = append(got, evt)
			return nil
		},
		log: zerolog.Nop(),
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		c.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return len(reader.commits()) == 2 }, time.Second, 5*time.Millisecond)
	cancel()
	<-done

	require.Len(t, got, 1)
	assert.Equal(t, "order-1", got[0].OrderID)
	assert.Equal(t, []int64{1, 2}, reader.commits())
}

func noSleep(waits *[]time.Duration) func(context.Context, time.Duration) error {
	return func(_ context.Context, d time.Duration) error {
		*waits = append(*waits, d)
		return nil
	}
}

func TestConsumer_HandlerRetriedUntilSuccess(t *testing.T) {
	reader := &mockReader{msgs: []kafka.Message{message(t, 5, order())}}
	var (
		calls int
		waits []time.Duration
	)
	c := &Consumer{
		reader: reader,
		handler: func(context.Context, domain.OrderPlaced) error {
			calls++
			if calls < 3 {
				return errors.New("store down")
			}
			return nil
		},
		log:         zerolog.Nop(),
		MaxAttempts: 5,
		BackoffMax:  time.Second,
		sleep:       noSleep(&waits),
	}

	require.NoError(t, c.processMessage(context.Background()))

	assert.Equal(t, 3, calls)
	assert.Equal(t, []time.Duration{100 * time.Millisecond, 200 * time.Millisecond}, waits)
	assert.Equal(t, []int64{5}, reader.commits())
}

// A message that keeps failing must stop the consumer before anything after
// it is committed, otherwise the group offset would move past it.
func TestConsumer_HandlerExhausted_StopsWithoutCommitting(t *testing.T) {
	failing := order()
	next := order()
	next.OrderID = "order-2"
	reader := &mockReader{msgs: []kafka.Message{message(t, 5, failing), message(t, 6, next)}}

	var (
		handled []string
		waits   []time.Duration
	)
	c := &Consumer{
		reader: reader,
		handler: func(_ context.Context, evt domain.OrderPlaced) error {
			handled = append(handled, evt.OrderID)
			if evt.OrderID == failing.OrderID {
				return errors.New("store down")
			}
			return nil
		},
		log:         zerolog.Nop(),
		MaxAttempts: 3,
		sleep:       noSleep(&waits),
	}

	err := c.Run(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "store down")
	assert.Equal(t, []string{"order-1", "order-1", "order-1"}, handled)
	assert.Len(t, waits, 2)
	assert.Empty(t, reader.commits())
}

func TestConsumer_CancelDuringBackoff(t *testing.T) {
	reader := &mockReader{msgs: []kafka.Message{message(t, 5, order())}}
	ctx, cancel := context.WithCancel(context.Background())
	c := &Consumer{
		reader: reader,
		handler: func(context.Context, domain.OrderPlaced) error {
			cancel()
			return errors.New("store down")
		},
		log:         zerolog.Nop(),
		MaxAttempts: 3,
		BackoffMax:  time.Second,
	}

	assert.NoError(t, c.Run(ctx))
	assert.Empty(t, reader.commits())
}

func TestBackoff(t *testing.T) {
	assert.Equal(t, 100*time.Millisecond, backoff(1, time.Second))
	assert.Equal(t, 400*time.Millisecond, backoff(3, time.Second))
	assert.Equal(t, time.Second, backoff(10, time.Second))
}

func TestDecodeOrder(t *testing.T) {
	evt, err := decodeOrder(kafka.Message{Key: []byte("order-9"), Value: []byte(`{"total":"12.50"}`)})
	require.NoError(t, err)
	assert.Equal(t, "order-9", evt.OrderID)
	assert.Equal(t, "USD", evt.Currency)
	assert.Equal(t, "12.5", evt.Total.String())

	_, err = decodeOrder(kafka.Message{Value: []byte(`{}`)})
	assert.Error(t, err)
}
