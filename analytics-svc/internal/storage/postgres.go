package storage

import (
	"context"
	"database/sql"
	"time"

	"tablehouse/analytics-svc/internal/domain"
	"tablehouse/money"
)

// PostgresRepository reads the tables owned by order-svc; it never writes.
type PostgresRepository struct {
	DB *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{DB: db}
}

func (r *PostgresRepository) OrderCount(ctx context.Context, since time.Time) (int, error) {
	var count int
	err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM orders WHERE created_at >= $1`, since).Scan(&count)
	return count, err
}

// Revenue sums totals of every order that was not cancelled.
func (r *PostgresRepository) Revenue(ctx context.Context, since time.Time) (money.Cents, error) {
	var total int64
	err := r.DB.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(total_cents), 0) FROM orders
		WHERE created_at >= $1 AND status <> 'cancelled'`, since).Scan(&total)
	return money.Cents(total), err
}

func (r *PostgresRepository) StatusCounts(ctx context.Context) (map[string]int, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT status, COUNT(*) FROM orders GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

func (r *PostgresRepository) RecentOrders(ctx context.Context, n int) ([]domain.OrderSummary, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT order_number, customer_name, total_cents, status, created_at
		FROM orders
		ORDER BY created_at DESC, id ASC
		LIMIT $1`, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []domain.OrderSummary
	for rows.Next() {
		var o domain.OrderSummary
		var total int64
		if err := rows.Scan(&o.OrderNumber, &o.CustomerName, &total, &o.Status, &o.CreatedAt); err != nil {
			return nil, err
		}
		o.Total = money.Cents(total)
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (r *PostgresRepository) TopItems(ctx context.Context, since time.Time, limit int) ([]domain.ItemSales, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT oi.menu_item_id, oi.name,
		       SUM(oi.quantity) AS quantity,
		       SUM(oi.unit_price_cents * oi.quantity) AS revenue
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		WHERE o.created_at >= $1 AND o.status <> 'cancelled' AND oi.menu_item_id IS NOT NULL
		GROUP BY oi.menu_item_id, oi.name
		ORDER BY quantity DESC, revenue DESC, oi.menu_item_id
		LIMIT $2`, since, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.ItemSales
	for rows.Next() {
		var item domain.ItemSales
		var revenue int64
		if err := rows.Scan(&item.MenuItemID, &item.Name, &item.Quantity, &revenue); err != nil {
			return nil, err
		}
		item.Revenue = money.Cents(revenue)
		items = append(items, item)
	}
	return items, rows.Err()
}
