package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"tablehouse/notify-svc/internal/domain"
	"tablehouse/notify-svc/internal/mocks"
	"tablehouse/notify-svc/internal/service"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func createdEvent() domain.OrderEvent {
	return domain.OrderEvent{
		Type:        domain.EventOrderCreated,
		OrderID:     7,
		OrderNumber: "ORD_20240305_007",
		Status:      "pending",
		Order: &domain.Order{
			ID:          7,
			OrderNumber: "ORD_20240305_007",
			Customer:    domain.Customer{Name: "Ada", Email: "ada@example.com", Phone: "+1 555 0100"},
			Items:       []domain.OrderItem{{MenuItemID: 1, Name: "Margherita", UnitPrice: 1499, Quantity: 3}},
			Subtotal:    4497,
			Tax:         360,
			Total:       4857,
			OrderType:   "pickup",
			Status:      "pending",
		},
	}
}

func TestConsumer_ProcessEvent(t *testing.T) {
	previous := "pending"

	type testCase struct {
		name         string
		event        domain.OrderEvent
		prepareMocks func(notifier *mocks.Notifier, cache *mocks.CacheInvalidator)
	}

	tests := []testCase{
		{
			name:  "order created sends email and drops snapshot",
			event: createdEvent(),
			prepareMocks: func(notifier *mocks.Notifier, cache *mocks.CacheInvalidator) {
				cache.On("InvalidateDashboard", mock.Anything).Return(nil).Once()
				notifier.On("NotifyNewOrder", mock.Anything, mock.MatchedBy(func(o *domain.Order) bool {
					return o.OrderNumber == "ORD_20240305_007"
				})).Return(nil).Once()
			},
		},
		{
			name: "status change only drops snapshot",
			event: domain.OrderEvent{
				Type:           domain.EventOrderStatusChanged,
				OrderID:        7,
				OrderNumber:    "ORD_20240305_007",
				Status:         "confirmed",
				PreviousStatus: &previous,
			},
			prepareMocks: func(notifier *mocks.Notifier, cache *mocks.CacheInvalidator) {
				cache.On("InvalidateDashboard", mock.Anything).Return(nil).Once()
			},
		},
		{
			name:  "send failure is swallowed",
			event: createdEvent(),
			prepareMocks: func(notifier *mocks.Notifier, cache *mocks.CacheInvalidator) {
				cache.On("InvalidateDashboard", mock.Anything).Return(nil).Once()
				notifier.On("NotifyNewOrder", mock.Anything, mock.Anything).Return(errors.New("throttled")).Once()
			},
		},
		{
			name:  "redis failure still notifies",
			event: createdEvent(),
			prepareMocks: func(notifier *mocks.Notifier, cache *mocks.CacheInvalidator) {
				cache.On("InvalidateDashboard", mock.Anything).Return(errors.New("redis down")).Once()
				notifier.On("NotifyNewOrder", mock.Anything, mock.Anything).Return(nil).Once()
			},
		},
		{
			name:  "created without payload",
			event: domain.OrderEvent{Type: domain.EventOrderCreated, OrderNumber: "ORD_20240305_008"},
			prepareMocks: func(notifier *mocks.Notifier, cache *mocks.CacheInvalidator) {
				cache.On("InvalidateDashboard", mock.Anything).Return(nil).Once()
			},
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			notifier := mocks.NewNotifier(t)
			cache := mocks.NewCacheInvalidator(t)
			testCase.prepareMocks(notifier, cache)

			consumer := service.NewConsumer(nil, notifier, cache)
			consumer.ProcessEvent(context.Background(), testCase.event)
		})
	}
}

func TestConsumer_HandleMessageSkipsMalformed(t *testing.T) {
	notifier := mocks.NewNotifier(t)
	cache := mocks.NewCacheInvalidator(t)
	consumer := service.NewConsumer(nil, notifier, cache)

	consumer.HandleMessage(context.Background(), []byte("{not json"))
	consumer.HandleMessage(context.Background(), []byte(`{"order_number":"ORD_20240305_001"}`))

	cache.AssertNotCalled(t, "InvalidateDashboard", mock.Anything)
	notifier.AssertNotCalled(t, "NotifyNewOrder", mock.Anything, mock.Anything)
}

func TestConsumer_HandleMessageDecodesEvent(t *testing.T) {
	notifier := mocks.NewNotifier(t)
	cache := mocks.NewCacheInvalidator(t)
	consumer := service.NewConsumer(nil, notifier, cache)

	cache.On("InvalidateDashboard", mock.Anything).Return(nil).Once()
	notifier.On("NotifyNewOrder", mock.Anything, mock.MatchedBy(func(o *domain.Order) bool {
		return o.Total == 4857 && len(o.Items) == 1 && o.Items[0].UnitPrice == 1499
	})).Return(nil).Once()

	consumer.HandleMessage(context.Background(), []byte(`{
		"type": "order_created",
		"order_id": 7,
		"order_number": "ORD_20240305_007",
		"status": "pending",
		"order": {
			"order_number": "ORD_20240305_007",
			"items": [{"menu_item_id": 1, "name": "Margherita", "unit_price": 14.99, "quantity": 3}],
			"subtotal": 44.97, "tax": 3.60, "total": 48.57
		}
	}`))
}

func TestConsumer_StartStopsOnCancel(t *testing.T) {
	reader := mocks.NewMessageReader(t)
	cache := mocks.NewCacheInvalidator(t)
	consumer := service.NewConsumer(reader, nil, cache)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reader.On("ReadMessage", mock.Anything).
		Return(kafka.Message{Value: []byte(`{"type":"order_status_changed","order_number":"ORD_20240305_001","status":"ready"}`)}, nil).Once()
	reader.On("ReadMessage", mock.Anything).
		Run(func(mock.Arguments) { cancel() }).
		Return(kafka.Message{}, context.Canceled).Once()
	cache.On("InvalidateDashboard", mock.Anything).Return(nil).Once()

	done := make(chan struct{})
	go func() {
		consumer.Start(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("consumer did not stop after cancel")
	}
	assert.Error(t, ctx.Err())
}
