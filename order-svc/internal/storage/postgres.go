package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"tablehouse/money"
	"tablehouse/order-svc/internal/domain"

	"github.com/lib/pq"
)

type PostgresRepository struct {
	DB *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{DB: db}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

const menuColumns = `id, name, description, price_cents, category, image_url, active, created_at, updated_at`

func scanMenuItem(row rowScanner) (*domain.MenuItem, error) {
	var item domain.MenuItem
	var price int64
	if err := row.Scan(&item.ID, &item.Name, &item.Description, &price, &item.Category,
		&item.ImageURL, &item.Active, &item.CreatedAt, &item.UpdatedAt); err != nil {
		return nil, err
	}
	item.Price = money.Cents(price)
	return &item, nil
}

func (r *PostgresRepository) CreateMenuItem(ctx context.Context, item *domain.MenuItem) error {
	return r.DB.QueryRowContext(ctx, `
		INSERT INTO menu_items (name, description, price_cents, category, image_url, active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`,
		item.Name, item.Description, int64(item.Price), item.Category, item.ImageURL, item.Active,
	).Scan(&item.ID, &item.CreatedAt, &item.UpdatedAt)
}

func (r *PostgresRepository) ListMenuItems(ctx context.Context, filter domain.MenuFilter) ([]domain.MenuItem, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT `+menuColumns+`
		FROM menu_items
		WHERE ($1 = '' OR category = $1) AND ($2 OR active)
		ORDER BY category, name, id`, filter.Category, filter.IncludeInactive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.MenuItem
	for rows.Next() {
		item, err := scanMenuItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

func (r *PostgresRepository) ListCategories(ctx context.Context) ([]string, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT DISTINCT category
		FROM menu_items
		WHERE active
		ORDER BY category`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []string
	for rows.Next() {
		var category string
		if err := rows.Scan(&category); err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	return categories, rows.Err()
}

func (r *PostgresRepository) GetMenuItem(ctx context.Context, id int) (*domain.MenuItem, error) {
	return scanMenuItem(r.DB.QueryRowContext(ctx, `
		SELECT `+menuColumns+`
		FROM menu_items
		WHERE id = $1`, id))
}

func (r *PostgresRepository) GetMenuItems(ctx context.Context, ids []int) (map[int]domain.MenuItem, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT `+menuColumns+`
		FROM menu_items
		WHERE id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make(map[int]domain.MenuItem, len(ids))
	for rows.Next() {
		item, err := scanMenuItem(rows)
		if err != nil {
			return nil, err
		}
		items[item.ID] = *item
	}
	return items, rows.Err()
}

func (r *PostgresRepository) UpdateMenuItem(ctx context.Context, item *domain.MenuItem) error {
	var price int64
	err := r.DB.QueryRowContext(ctx, `
		UPDATE menu_items
		SET name = $1, description = $2, price_cents = $3, category = $4, active = $5, updated_at = NOW()
		WHERE id = $6
		RETURNING `+menuColumns,
		item.Name, item.Description, int64(item.Price), item.Category, item.Active, item.ID,
	).Scan(&item.ID, &item.Name, &item.Description, &price, &item.Category,
		&item.ImageURL, &item.Active, &item.CreatedAt, &item.UpdatedAt)
	item.Price = money.Cents(price)
	return err
}

func (r *PostgresRepository) SetMenuItemActive(ctx context.Context, id int, active bool) (int64, error) {
	result, err := r.DB.ExecContext(ctx,
		"UPDATE menu_items SET active = $1, updated_at = NOW() WHERE id = $2", active, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *PostgresRepository) UpdateMenuItemImage(ctx context.Context, id int, imageURL string) (int64, error) {
	result, err := r.DB.ExecContext(ctx,
		"UPDATE menu_items SET image_url = $1, updated_at = NOW() WHERE id = $2", imageURL, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *PostgresRepository) DeleteMenuItem(ctx context.Context, id int) (int64, error) {
	result, err := r.DB.ExecContext(ctx, "DELETE FROM menu_items WHERE id = $1", id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *PostgresRepository) NextOrderSequence(ctx context.Context) (int64, error) {
	var seq int64
	err := r.DB.QueryRowContext(ctx, "SELECT nextval('order_number_seq')").Scan(&seq)
	return seq, err
}

// CreateOrder writes the order, its lines and the first history row in one transaction.
func (r *PostgresRepository) CreateOrder(ctx context.Context, order *domain.Order) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	street, city, state, zip := addressColumns(order.DeliveryAddress)
	if err := tx.QueryRowContext(ctx, `
		INSERT INTO orders (
			order_number, customer_name, customer_email, customer_phone,
			subtotal_cents, tax_cents, total_cents, order_type,
			delivery_street, delivery_city, delivery_state, delivery_zip,
			special_instructions, status, user_id, created_at, updated_at, estimated_delivery_time
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		RETURNING id`,
		order.OrderNumber, order.Customer.Name, order.Customer.Email, order.Customer.Phone,
		int64(order.Subtotal), int64(order.Tax), int64(order.Total), string(order.OrderType),
		street, city, state, zip,
		order.SpecialInstructions, string(order.Status), nullableInt(order.UserID),
		order.CreatedAt, order.UpdatedAt, order.EstimatedDeliveryTime,
	).Scan(&order.ID); err != nil {
		return err
	}

	for _, item := range order.Items {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO order_items (order_id, menu_item_id, name, unit_price_cents, quantity, image_snapshot)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			order.ID, nullableID(item.MenuItemID), item.Name, int64(item.UnitPrice), item.Quantity, item.ImageSnapshot,
		); err != nil {
			return err
		}
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO order_status_history (order_id, from_status, to_status, changed_by, changed_at)
		VALUES ($1, NULL, $2, $3, $4)`,
		order.ID, string(order.Status), nullableInt(order.UserID), order.CreatedAt,
	); err != nil {
		return err
	}

	return tx.Commit()
}

const orderColumns = `id, order_number, customer_name, customer_email, customer_phone,
	subtotal_cents, tax_cents, total_cents, order_type,
	delivery_street, delivery_city, delivery_state, delivery_zip,
	special_instructions, status, user_id, created_at, updated_at, estimated_delivery_time`

func scanOrder(row rowScanner) (*domain.Order, error) {
	var (
		order                    domain.Order
		subtotal, tax, total     int64
		orderType, status        string
		street, city, state, zip sql.NullString
		userID                   sql.NullInt64
	)
	if err := row.Scan(&order.ID, &order.OrderNumber, &order.Customer.Name, &order.Customer.Email, &order.Customer.Phone,
		&subtotal, &tax, &total, &orderType,
		&street, &city, &state, &zip,
		&order.SpecialInstructions, &status, &userID, &order.CreatedAt, &order.UpdatedAt, &order.EstimatedDeliveryTime,
	); err != nil {
		return nil, err
	}

	order.Subtotal = money.Cents(subtotal)
	order.Tax = money.Cents(tax)
	order.Total = money.Cents(total)
	order.OrderType = domain.OrderType(orderType)
	order.Status = domain.OrderStatus(status)
	if street.Valid || city.Valid || zip.Valid {
		order.DeliveryAddress = &domain.Address{
			Street:  street.String,
			City:    city.String,
			State:   state.String,
			ZipCode: zip.String,
		}
	}
	if userID.Valid {
		id := int(userID.Int64)
		order.UserID = &id
	}
	return &order, nil
}

func (r *PostgresRepository) GetOrder(ctx context.Context, id int) (*domain.Order, error) {
	order, err := scanOrder(r.DB.QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
	if err != nil {
		return nil, err
	}
	return r.withItems(ctx, order)
}

func (r *PostgresRepository) GetOrderByNumber(ctx context.Context, orderNumber string) (*domain.Order, error) {
	order, err := scanOrder(r.DB.QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE order_number = $1`, orderNumber))
	if err != nil {
		return nil, err
	}
	return r.withItems(ctx, order)
}

func (r *PostgresRepository) withItems(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	items, err := r.loadItems(ctx, []int{order.ID})
	if err != nil {
		return nil, err
	}
	order.Items = items[order.ID]
	if order.Items == nil {
		order.Items = []domain.OrderItem{}
	}
	return order, nil
}

func (r *PostgresRepository) loadItems(ctx context.Context, orderIDs []int) (map[int][]domain.OrderItem, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT order_id, menu_item_id, name, unit_price_cents, quantity, image_snapshot
		FROM order_items
		WHERE order_id = ANY($1)
		ORDER BY order_id, id`, pq.Array(orderIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make(map[int][]domain.OrderItem, len(orderIDs))
	for rows.Next() {
		var (
			orderID    int
			menuItemID sql.NullInt64
			price      int64
			item       domain.OrderItem
		)
		if err := rows.Scan(&orderID, &menuItemID, &item.Name, &price, &item.Quantity, &item.ImageSnapshot); err != nil {
			return nil, err
		}
		item.MenuItemID = int(menuItemID.Int64)
		item.UnitPrice = money.Cents(price)
		items[orderID] = append(items[orderID], item)
	}
	return items, rows.Err()
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern matches s literally as a substring under ILIKE ... ESCAPE '\'.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

// ListOrders returns one page, newest first, and the total number of matching orders.
func (r *PostgresRepository) ListOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, int, error) {
	var (
		where []string
		args  []interface{}
	)
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.Search != "" {
		args = append(args, containsPattern(filter.Search))
		n := len(args)
		where = append(where, fmt.Sprintf(`(order_number ILIKE $%d ESCAPE '\' OR customer_name ILIKE $%d ESCAPE '\' OR customer_email ILIKE $%d ESCAPE '\')`, n, n, n))
	}
	clause := ""
	if len(where) > 0 {
		clause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM orders"+clause, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.Order{}, 0, nil
	}

	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+orderColumns+" FROM orders"+clause+
			fmt.Sprintf(" ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args)),
		args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var (
		orders []domain.Order
		ids    []int
	)
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, 0, err
		}
		orders = append(orders, *order)
		ids = append(ids, order.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	if len(ids) == 0 {
		return []domain.Order{}, total, nil
	}

	items, err := r.loadItems(ctx, ids)
	if err != nil {
		return nil, 0, err
	}
	for i := range orders {
		orders[i].Items = items[orders[i].ID]
	}
	return orders, total, nil
}

// UpdateStatus is a compare-and-set on the status column. It reports false when
// the order is missing or no longer in the from state.
func (r *PostgresRepository) UpdateStatus(ctx context.Context, id int, from, to domain.OrderStatus, changedBy *int) (bool, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		UPDATE orders
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3`, string(to), id, string(from))
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	if affected == 0 {
		return false, nil
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO order_status_history (order_id, from_status, to_status, changed_by)
		VALUES ($1, $2, $3, $4)`, id, string(from), string(to), nullableInt(changedBy)); err != nil {
		return false, err
	}

	return true, tx.Commit()
}

func (r *PostgresRepository) StatusHistory(ctx context.Context, id int) ([]domain.StatusChange, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT order_id, from_status, to_status, changed_by, changed_at
		FROM order_status_history
		WHERE order_id = $1
		ORDER BY changed_at, id`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var history []domain.StatusChange
	for rows.Next() {
		var (
			change    domain.StatusChange
			from      sql.NullString
			to        string
			changedBy sql.NullInt64
		)
		if err := rows.Scan(&change.OrderID, &from, &to, &changedBy, &change.ChangedAt); err != nil {
			return nil, err
		}
		change.ToStatus = domain.OrderStatus(to)
		if from.Valid {
			status := domain.OrderStatus(from.String)
			change.FromStatus = &status
		}
		if changedBy.Valid {
			actor := int(changedBy.Int64)
			change.ChangedBy = &actor
		}
		history = append(history, change)
	}
	return history, rows.Err()
}

func (r *PostgresRepository) SaveQRCode(ctx context.Context, orderID int, qr []byte) error {
	_, err := r.DB.ExecContext(ctx, `UPDATE orders SET qr_code = $1 WHERE id = $2`, qr, orderID)
	return err
}

func (r *PostgresRepository) GetQRCode(ctx context.Context, orderNumber string) (int, []byte, error) {
	var (
		id     int
		qrCode []byte
	)
	if err := r.DB.QueryRowContext(ctx,
		"SELECT id, qr_code FROM orders WHERE order_number = $1", orderNumber).Scan(&id, &qrCode); err != nil {
		return 0, nil, err
	}
	return id, qrCode, nil
}

func addressColumns(addr *domain.Address) (street, city, state, zip sql.NullString) {
	if addr == nil {
		return
	}
	return nullString(addr.Street), nullString(addr.City), nullString(addr.State), nullString(addr.ZipCode)
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullableInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func nullableID(id int) sql.NullInt64 {
	return sql.NullInt64{Int64: int64(id), Valid: id > 0}
}
