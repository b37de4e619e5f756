package service

import (
	"context"

	"tablehouse/notify-svc/internal/domain"
	"tablehouse/notify-svc/internal/notifier"
	"tablehouse/notify-svc/internal/storage"

	"github.com/segmentio/kafka-go"
)

type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

type Notifier interface {
	NotifyNewOrder(ctx context.Context, order *domain.Order) error
}

type CacheInvalidator interface {
	InvalidateDashboard(ctx context.Context) error
}

type ConsumerInterface interface {
	Start(ctx context.Context)
	ProcessEvent(ctx context.Context, event domain.OrderEvent)
}

var (
	_ MessageReader     = (*kafka.Reader)(nil)
	_ Notifier          = (*notifier.EmailNotifier)(nil)
	_ CacheInvalidator  = (*storage.RedisInvalidator)(nil)
	_ ConsumerInterface = (*Consumer)(nil)
)
