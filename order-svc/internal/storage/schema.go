package storage

import (
	"context"
	"fmt"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS menu_items (
		id SERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		price_cents BIGINT NOT NULL CHECK (price_cents >= 0),
		category TEXT NOT NULL,
		image_url TEXT NOT NULL DEFAULT '',
		active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE SEQUENCE IF NOT EXISTS order_number_seq`,
	`CREATE TABLE IF NOT EXISTS orders (
		id SERIAL PRIMARY KEY,
		order_number TEXT NOT NULL UNIQUE,
		customer_name TEXT NOT NULL,
		customer_email TEXT NOT NULL,
		customer_phone TEXT NOT NULL,
		subtotal_cents BIGINT NOT NULL,
		tax_cents BIGINT NOT NULL,
		total_cents BIGINT NOT NULL,
		order_type TEXT NOT NULL CHECK (order_type IN ('delivery', 'pickup', 'dine-in')),
		delivery_street TEXT,
		delivery_city TEXT,
		delivery_state TEXT,
		delivery_zip TEXT,
		special_instructions TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT 'pending'
			CHECK (status IN ('pending', 'confirmed', 'preparing', 'ready', 'delivered', 'cancelled')),
		user_id INTEGER,
		qr_code BYTEA,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		estimated_delivery_time TIMESTAMPTZ NOT NULL,
		CHECK (total_cents = subtotal_cents + tax_cents)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_orders_created_at ON orders (created_at DESC, id)`,
	`CREATE INDEX IF NOT EXISTS idx_orders_status ON orders (status)`,
	`CREATE TABLE IF NOT EXISTS order_items (
		id SERIAL PRIMARY KEY,
		order_id INTEGER NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
		menu_item_id INTEGER REFERENCES menu_items(id) ON DELETE SET NULL,
		name TEXT NOT NULL,
		unit_price_cents BIGINT NOT NULL,
		quantity INTEGER NOT NULL CHECK (quantity BETWEEN 1 AND 99),
		image_snapshot TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS order_status_history (
		id SERIAL PRIMARY KEY,
		order_id INTEGER NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
		from_status TEXT,
		to_status TEXT NOT NULL,
		changed_by INTEGER,
		changed_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
}

func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := r.DB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema `%s`: %w", firstLine(stmt), err)
		}
	}
	return nil
}

func firstLine(stmt string) string {
	for i, r := range stmt {
		if r == '\n' || r == '(' {
			return stmt[:i]
		}
	}
	return stmt
}
