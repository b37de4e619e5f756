package service

import (
	"fmt"

	"tablehouse/order-svc/internal/domain"
)

// No edge skips a stage, and nothing leaves delivered or cancelled.
var transitions = map[domain.OrderStatus][]domain.OrderStatus{
	domain.StatusPending:   {domain.StatusConfirmed, domain.StatusCancelled},
	domain.StatusConfirmed: {domain.StatusPreparing, domain.StatusCancelled},
	domain.StatusPreparing: {domain.StatusReady, domain.StatusCancelled},
	domain.StatusReady:     {domain.StatusDelivered},
	domain.StatusDelivered: {},
	domain.StatusCancelled: {},
}

func AllowedNext(current domain.OrderStatus) []domain.OrderStatus {
	next := transitions[current]
	out := make([]domain.OrderStatus, len(next))
	copy(out, next)
	return out
}

func CanTransition(from, to domain.OrderStatus) bool {
	for _, candidate := range transitions[from] {
		if candidate == to {
			return true
		}
	}
	return false
}

func IsTerminal(status domain.OrderStatus) bool {
	next, known := transitions[status]
	return known && len(next) == 0
}

func checkTransition(from, to domain.OrderStatus) error {
	if !CanTransition(from, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	return nil
}
