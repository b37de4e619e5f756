package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"tablehouse/notify-svc/internal/domain"
)

const readRetryDelay = time.Second

type Consumer struct {
	Reader   MessageReader
	Notifier Notifier
	Cache    CacheInvalidator
}

func NewConsumer(reader MessageReader, notifier Notifier, cache CacheInvalidator) *Consumer {
	return &Consumer{
		Reader:   reader,
		Notifier: notifier,
		Cache:    cache,
	}
}

// Start reads until ctx is cancelled.
func (c *Consumer) Start(ctx context.Context) {
	log.Println("Starting Notification Service consumer...")
	for {
		message, err := c.Reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Println("Notification Service consumer stopped")
				return
			}
			log.Printf("Error reading message: %v", err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(readRetryDelay):
			}
			continue
		}
		c.HandleMessage(ctx, message.Value)
	}
}

// HandleMessage decodes one payload; malformed payloads are logged and dropped.
func (c *Consumer) HandleMessage(ctx context.Context, payload []byte) {
	var event domain.OrderEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		log.Printf("Error unmarshaling message: %v", err)
		return
	}
	if event.Type == "" {
		log.Printf("Skipping message without event type")
		return
	}
	c.ProcessEvent(ctx, event)
}

func (c *Consumer) ProcessEvent(ctx context.Context, event domain.OrderEvent) {
	log.Printf("Processing %s: order=%s status=%s", event.Type, event.OrderNumber, event.Status)

	if c.Cache != nil {
		if err := c.Cache.InvalidateDashboard(ctx); err != nil {
			log.Printf("Error invalidating dashboard snapshot: %v", err)
		}
	}

	if event.Type != domain.EventOrderCreated {
		return
	}
	if event.Order == nil {
		log.Printf("Skipping %s for %s: no order payload", event.Type, event.OrderNumber)
		return
	}
	if c.Notifier == nil {
		return
	}
	if err := c.Notifier.NotifyNewOrder(ctx, event.Order); err != nil {
		log.Printf("Error sending staff email for %s: %v", event.OrderNumber, err)
		return
	}
	log.Printf("Staff notified of order %s", event.OrderNumber)
}
