package service

import (
	"context"

	"tablehouse/order-svc/internal/domain"
)

// Repositories return sql.ErrNoRows for unknown ids.
type MenuRepository interface {
	CreateMenuItem(ctx context.Context, item *domain.MenuItem) error
	ListMenuItems(ctx context.Context, filter domain.MenuFilter) ([]domain.MenuItem, error)
	ListCategories(ctx context.Context) ([]string, error)
	GetMenuItem(ctx context.Context, id int) (*domain.MenuItem, error)
	GetMenuItems(ctx context.Context, ids []int) (map[int]domain.MenuItem, error)
	UpdateMenuItem(ctx context.Context, item *domain.MenuItem) error
	SetMenuItemActive(ctx context.Context, id int, active bool) (int64, error)
	UpdateMenuItemImage(ctx context.Context, id int, imageURL string) (int64, error)
	DeleteMenuItem(ctx context.Context, id int) (int64, error)
}

type OrderRepository interface {
	NextOrderSequence(ctx context.Context) (int64, error)
	CreateOrder(ctx context.Context, order *domain.Order) error
	GetOrder(ctx context.Context, id int) (*domain.Order, error)
	GetOrderByNumber(ctx context.Context, orderNumber string) (*domain.Order, error)
	ListOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, int, error)
	// UpdateStatus applies the change only while the stored status still equals from.
	UpdateStatus(ctx context.Context, id int, from, to domain.OrderStatus, changedBy *int) (bool, error)
	StatusHistory(ctx context.Context, id int) ([]domain.StatusChange, error)
	SaveQRCode(ctx context.Context, orderID int, qr []byte) error
	GetQRCode(ctx context.Context, orderNumber string) (int, []byte, error)
}

type CheckoutCache interface {
	Recall(ctx context.Context, idempotencyKey string) (string, error)
	Remember(ctx context.Context, idempotencyKey, orderNumber string) error
}

type EventPublisher interface {
	PublishOrderEvent(ctx context.Context, event domain.OrderEvent) error
}

type MenuServiceInterface interface {
	Create(ctx context.Context, item *domain.MenuItem) error
	List(ctx context.Context, filter domain.MenuFilter) ([]domain.MenuItem, error)
	Categories(ctx context.Context) ([]string, error)
	Get(ctx context.Context, id int, includeInactive bool) (*domain.MenuItem, error)
	Update(ctx context.Context, item *domain.MenuItem) error
	SetActive(ctx context.Context, id int, active bool) error
	UpdateImage(ctx context.Context, id int, imageURL string) error
	Delete(ctx context.Context, id int) error
}

type OrderServiceInterface interface {
	Quote(ctx context.Context, lines []domain.LineRequest) (*domain.Quote, error)
	Create(ctx context.Context, req domain.CreateOrderRequest) (*domain.Order, error)
	Get(ctx context.Context, id int) (*domain.Order, error)
	Track(ctx context.Context, orderNumber string) (*domain.Order, error)
	List(ctx context.Context, filter domain.OrderFilter) (*domain.OrderPage, error)
	Advance(ctx context.Context, id int, requested domain.OrderStatus, actorID *int) (*domain.Order, error)
	History(ctx context.Context, id int) ([]domain.StatusChange, error)
	QRCode(ctx context.Context, orderNumber string) ([]byte, error)
	QRLink(orderNumber string) string
}

var (
	_ MenuServiceInterface  = (*MenuService)(nil)
	_ OrderServiceInterface = (*OrderService)(nil)
)
