package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"tablehouse/analytics-svc/internal/domain"
)

const (
	DefaultRecentOrders = 5
	MaxRecentOrders     = 50
	defaultTopItems     = 10
	maxTopItems         = 50
)

var ErrValidation = errors.New("validation failed")

type DashboardService struct {
	repo  StatsRepository
	cache SnapshotCache
	loc   *time.Location
	now   func() time.Time
}

func NewDashboardService(repo StatsRepository, cache SnapshotCache, loc *time.Location) *DashboardService {
	if loc == nil {
		loc = time.Local
	}
	return &DashboardService{repo: repo, cache: cache, loc: loc, now: time.Now}
}

func (s *DashboardService) WithClock(now func() time.Time) *DashboardService {
	s.now = now
	return s
}

// WindowStart returns the local midnight for today, the first of the month for
// month, and the zero time for all.
func WindowStart(now time.Time, loc *time.Location, window domain.Window) (time.Time, error) {
	local := now.In(loc)
	switch window {
	case domain.WindowToday:
		return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc), nil
	case domain.WindowMonth:
		return time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, loc), nil
	case domain.WindowAll:
		return time.Time{}, nil
	}
	return time.Time{}, fmt.Errorf("%w: unknown window %q", ErrValidation, window)
}

// ClampRecent applies the default of 5 and the 1..50 bounds.
func ClampRecent(n int) int {
	if n <= 0 {
		return DefaultRecentOrders
	}
	if n > MaxRecentOrders {
		return MaxRecentOrders
	}
	return n
}

func (s *DashboardService) Dashboard(ctx context.Context) (*domain.Dashboard, error) {
	if s.cache != nil {
		cached, err := s.cache.Load(ctx)
		if err != nil {
			log.Printf("WARN: load dashboard snapshot: %v", err)
		} else if cached != nil {
			return cached, nil
		}
	}

	now := s.now()
	today, err := s.Summary(ctx, domain.WindowToday)
	if err != nil {
		return nil, err
	}
	month, err := s.Summary(ctx, domain.WindowMonth)
	if err != nil {
		return nil, err
	}
	breakdown, err := s.StatusBreakdown(ctx)
	if err != nil {
		return nil, err
	}
	recent, err := s.RecentOrders(ctx, DefaultRecentOrders)
	if err != nil {
		return nil, err
	}

	dashboard := &domain.Dashboard{
		TodayOrders:     today.Orders,
		TodayRevenue:    today.Revenue,
		MonthlyOrders:   month.Orders,
		MonthlyRevenue:  month.Revenue,
		StatusBreakdown: breakdown,
		RecentOrders:    recent,
		GeneratedAt:     now,
	}

	if s.cache != nil {
		if err := s.cache.Store(ctx, dashboard); err != nil {
			log.Printf("WARN: store dashboard snapshot: %v", err)
		}
	}
	return dashboard, nil
}

func (s *DashboardService) Summary(ctx context.Context, window domain.Window) (*domain.WindowStats, error) {
	since, err := WindowStart(s.now(), s.loc, window)
	if err != nil {
		return nil, err
	}
	count, err := s.repo.OrderCount(ctx, since)
	if err != nil {
		return nil, err
	}
	revenue, err := s.repo.Revenue(ctx, since)
	if err != nil {
		return nil, err
	}
	return &domain.WindowStats{Window: window, Orders: count, Revenue: revenue}, nil
}

// StatusBreakdown always reports every known status, zero when absent.
func (s *DashboardService) StatusBreakdown(ctx context.Context) (map[string]int, error) {
	counts, err := s.repo.StatusCounts(ctx)
	if err != nil {
		return nil, err
	}
	breakdown := make(map[string]int, len(domain.OrderStatuses))
	for _, status := range domain.OrderStatuses {
		breakdown[status] = counts[status]
	}
	return breakdown, nil
}

func (s *DashboardService) RecentOrders(ctx context.Context, n int) ([]domain.OrderSummary, error) {
	orders, err := s.repo.RecentOrders(ctx, ClampRecent(n))
	if err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []domain.OrderSummary{}
	}
	return orders, nil
}

func (s *DashboardService) TopItems(ctx context.Context, window domain.Window, limit int) ([]domain.ItemSales, error) {
	since, err := WindowStart(s.now(), s.loc, window)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultTopItems
	}
	if limit > maxTopItems {
		limit = maxTopItems
	}
	items, err := s.repo.TopItems(ctx, since, limit)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []domain.ItemSales{}
	}
	return items, nil
}
