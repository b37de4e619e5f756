package service

import (
	"context"
	"time"

	"tablehouse/analytics-svc/internal/domain"
	"tablehouse/money"
)

// StatsRepository counts orders created at or after since.
type StatsRepository interface {
	OrderCount(ctx context.Context, since time.Time) (int, error)
	Revenue(ctx context.Context, since time.Time) (money.Cents, error)
	StatusCounts(ctx context.Context) (map[string]int, error)
	RecentOrders(ctx context.Context, n int) ([]domain.OrderSummary, error)
	TopItems(ctx context.Context, since time.Time, limit int) ([]domain.ItemSales, error)
}

// SnapshotCache returns nil without error on a miss.
type SnapshotCache interface {
	Load(ctx context.Context) (*domain.Dashboard, error)
	Store(ctx context.Context, dashboard *domain.Dashboard) error
}

type DashboardServiceInterface interface {
	Dashboard(ctx context.Context) (*domain.Dashboard, error)
	Summary(ctx context.Context, window domain.Window) (*domain.WindowStats, error)
	StatusBreakdown(ctx context.Context) (map[string]int, error)
	RecentOrders(ctx context.Context, n int) ([]domain.OrderSummary, error)
	TopItems(ctx context.Context, window domain.Window, limit int) ([]domain.ItemSales, error)
}

var _ DashboardServiceInterface = (*DashboardService)(nil)
