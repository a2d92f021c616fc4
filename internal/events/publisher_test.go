package events

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (m *mockWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if m.err != nil {
		return m.err
	}
	m.msgs = append(m.msgs, msgs...)
	return nil
}

func (m *mockWriter) Close() error {
	m.closed = true
	return nil
}

func order() domain.OrderPlaced {
	return domain.OrderPlaced{
		OrderID:       "order-1",
		TransactionID: "TXN-1",
		Email:         "a@b.com",
		Items: []domain.LineItem{
			{Product: domain.Product{ID: "1", Title: "Vintage Leather Handbag", Price: decimal.NewFromInt(89)}, Quantity: 2},
		},
		Total:    decimal.NewFromInt(178),
		Currency: "USD",
		PlacedAt: time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC),
	}
}

func TestKafkaPublisher_PublishOrderPlaced(t *testing.T) {
	w := &mockWriter{}
	p := &KafkaPublisher{writer: w}

	err := p.PublishOrderPlaced(context.Background(), order())
	require.NoError(t, err)

	require.Len(t, w.msgs, 1)
	msg := w.msgs[0]
	assert.Equal(t, "order-1", string(msg.Key))
	assert.Equal(t, "order.placed", string(msg.Headers[0].Value))

	var got domain.OrderPlaced
	require.NoError(t, json.Unmarshal(msg.Value, &got))
	assert.Equal(t, "TXN-1", got.TransactionID)
	assert.True(t, decimal.NewFromInt(178).Equal(got.Total))
	assert.Equal(t, 2, got.Items[0].Quantity)
}

func TestKafkaPublisher_WriteError(t *testing.T) {
	w := &mockWriter{err: errors.New("broker down")}
	p := &KafkaPublisher{writer: w}

	err := p.PublishOrderPlaced(context.Background(), order())
	assert.ErrorContains(t, err, "order-1")
	assert.ErrorContains(t, err, "broker down")
}

func TestKafkaPublisher_Close(t *testing.T) {
	w := &mockWriter{}
	p := &KafkaPublisher{writer: w}

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestNewKafkaPublisher_DefaultTopic(t *testing.T) {
	p := NewKafkaPublisher("", "localhost:9092")
	defer p.Close()

	w, ok := p.writer.(*kafka.Writer)
	require.True(t, ok)
	assert.Equal(t, DefaultTopic, w.Topic)
}

func TestLogPublisher(t *testing.T) {
	var buf bytes.Buffer
	p := NewLogPublisher(zerolog.New(&buf))

	require.NoError(t, p.PublishOrderPlaced(context.Background(), order()))

	assert.Contains(t, buf.String(), `"order_id":"order-1"`)
	assert.Contains(t, buf.String(), `"total":"178.00"`)
}
