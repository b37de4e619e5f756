package service_test

import (
	"testing"

	"tablehouse/order-svc/internal/domain"
	"tablehouse/order-svc/internal/service"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition_FullTable(t *testing.T) {
	allowed := map[domain.OrderStatus][]domain.OrderStatus{
		domain.StatusPending:   {domain.StatusConfirmed, domain.StatusCancelled},
		domain.StatusConfirmed: {domain.StatusPreparing, domain.StatusCancelled},
		domain.StatusPreparing: {domain.StatusReady, domain.StatusCancelled},
		domain.StatusReady:     {domain.StatusDelivered},
	}

	for _, from := range domain.AllStatuses {
		for _, to := range domain.AllStatuses {
			expected := false
			for _, next := range allowed[from] {
				if next == to {
					expected = true
				}
			}
			assert.Equal(t, expected, service.CanTransition(from, to), "%s -> %s", from, to)
		}
	}
}

func TestCanTransition_Examples(t *testing.T) {
	tests := []struct {
		from, to domain.OrderStatus
		ok       bool
	}{
		{domain.StatusPending, domain.StatusPreparing, false},
		{domain.StatusPending, domain.StatusConfirmed, true},
		{domain.StatusConfirmed, domain.StatusPreparing, true},
		{domain.StatusPreparing, domain.StatusCancelled, true},
		{domain.StatusReady, domain.StatusCancelled, false},
		{domain.StatusPending, domain.StatusPending, false},
		{domain.StatusPending, "completed", false},
	}
	for _, testCase := range tests {
		assert.Equal(t, testCase.ok, service.CanTransition(testCase.from, testCase.to), "%s -> %s", testCase.from, testCase.to)
	}
}

func TestTerminalStatusesAreAbsorbing(t *testing.T) {
	for _, status := range domain.AllStatuses {
		terminal := status == domain.StatusDelivered || status == domain.StatusCancelled
		assert.Equal(t, terminal, service.IsTerminal(status), string(status))
		if terminal {
			assert.Empty(t, service.AllowedNext(status))
		}
	}
	assert.False(t, service.IsTerminal("completed"))
}

func TestAllowedNextReturnsCopy(t *testing.T) {
	next := service.AllowedNext(domain.StatusPending)
	next[0] = domain.StatusDelivered

	assert.Equal(t, []domain.OrderStatus{domain.StatusConfirmed, domain.StatusCancelled}, service.AllowedNext(domain.StatusPending))
}
