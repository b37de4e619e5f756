package storage

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"tablehouse/order-svc/internal/domain"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingWriter struct {
	messages []kafka.Message
	err      error
}

func (w *recordingWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	w.messages = append(w.messages, msgs...)
	return w.err
}

var _ MessageWriter = (*kafka.Writer)(nil)

func TestPublishOrderEvent(t *testing.T) {
	writer := &recordingWriter{}
	publisher := NewKafkaPublisher(writer)
	previous := domain.StatusPending

	err := publisher.PublishOrderEvent(context.Background(), domain.OrderEvent{
		Type:           domain.EventOrderStatusChanged,
		OrderID:        3,
		OrderNumber:    "ORD_20240305_003",
		Status:         domain.StatusConfirmed,
		PreviousStatus: &previous,
		Timestamp:      time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.Len(t, writer.messages, 1)

	message := writer.messages[0]
	assert.Equal(t, "ORD_20240305_003", string(message.Key))

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(message.Value, &decoded))
	assert.Equal(t, "order_status_changed", decoded["type"])
	assert.Equal(t, "confirmed", decoded["status"])
	assert.Equal(t, "pending", decoded["previous_status"])
	assert.NotContains(t, decoded, "order")
}

func TestPublishOrderEventWriterError(t *testing.T) {
	publisher := NewKafkaPublisher(&recordingWriter{err: errors.New("leader not available")})

	err := publisher.PublishOrderEvent(context.Background(), domain.OrderEvent{Type: domain.EventOrderCreated, OrderNumber: "ORD_20240305_004"})
	assert.EqualError(t, err, "leader not available")
}
