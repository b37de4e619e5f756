package domain

import (
	"fmt"
	"time"

	"tablehouse/money"
)

type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusConfirmed OrderStatus = "confirmed"
	StatusPreparing OrderStatus = "preparing"
	StatusReady     OrderStatus = "ready"
	StatusDelivered OrderStatus = "delivered"
	StatusCancelled OrderStatus = "cancelled"
)

var AllStatuses = []OrderStatus{
	StatusPending, StatusConfirmed, StatusPreparing, StatusReady, StatusDelivered, StatusCancelled,
}

func (s OrderStatus) Valid() bool {
	for _, known := range AllStatuses {
		if s == known {
			return true
		}
	}
	return false
}

type OrderType string

const (
	OrderTypeDelivery OrderType = "delivery"
	OrderTypePickup   OrderType = "pickup"
	OrderTypeDineIn   OrderType = "dine-in"
)

func (t OrderType) Valid() bool {
	return t == OrderTypeDelivery || t == OrderTypePickup || t == OrderTypeDineIn
}

type MenuItem struct {
	ID          int         `json:"id"`
	Name        string      `json:"name" validate:"required,max=120"`
	Description string      `json:"description" validate:"max=1000"`
	Price       money.Cents `json:"price" validate:"gte=0"`
	Category    string      `json:"category" validate:"required,max=60"`
	ImageURL    string      `json:"image_url"`
	Active      bool        `json:"active"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

type MenuFilter struct {
	Category        string
	IncludeInactive bool
}

type Customer struct {
	Name  string `json:"name" validate:"required,max=100"`
	Email string `json:"email" validate:"required,email"`
	Phone string `json:"phone" validate:"required,phone"`
}

type Address struct {
	Street  string `json:"street" validate:"required,max=200"`
	City    string `json:"city" validate:"required,max=100"`
	State   string `json:"state" validate:"max=100"`
	ZipCode string `json:"zip_code" validate:"required,max=20"`
}

type OrderItem struct {
	MenuItemID    int         `json:"menu_item_id"`
	Name          string      `json:"name"`
	UnitPrice     money.Cents `json:"unit_price"`
	Quantity      int         `json:"quantity"`
	ImageSnapshot string      `json:"image_snapshot,omitempty"`
}

type Order struct {
	ID                    int           `json:"id"`
	OrderNumber           string        `json:"order_number"`
	Customer              Customer      `json:"customer"`
	Items                 []OrderItem   `json:"items"`
	Subtotal              money.Cents   `json:"subtotal"`
	Tax                   money.Cents   `json:"tax"`
	Total                 money.Cents   `json:"total"`
	OrderType             OrderType     `json:"order_type"`
	DeliveryAddress       *Address      `json:"delivery_address,omitempty"`
	SpecialInstructions   string        `json:"special_instructions,omitempty"`
	Status                OrderStatus   `json:"status"`
	UserID                *int          `json:"user_id,omitempty"`
	CreatedAt             time.Time     `json:"created_at"`
	UpdatedAt             time.Time     `json:"updated_at"`
	EstimatedDeliveryTime time.Time     `json:"estimated_delivery_time"`
	QRCode                string        `json:"qr_code,omitempty"`
	AllowedNext           []OrderStatus `json:"allowed_next,omitempty"`
}

type StatusChange struct {
	OrderID    int          `json:"order_id"`
	FromStatus *OrderStatus `json:"from_status"`
	ToStatus   OrderStatus  `json:"to_status"`
	ChangedBy  *int         `json:"changed_by,omitempty"`
	ChangedAt  time.Time    `json:"changed_at"`
}

type OrderFilter struct {
	Status OrderStatus
	Search string
	Page   int
	Limit  int
}

type OrderPage struct {
	Orders      []Order `json:"orders"`
	TotalPages  int     `json:"total_pages"`
	CurrentPage int     `json:"current_page"`
	Total       int     `json:"total"`
}

type LineRequest struct {
	MenuItemID int `json:"menu_item_id" validate:"gt=0"`
	Quantity   int `json:"quantity" validate:"min=1,max=99"`
}

type CreateOrderRequest struct {
	Customer            Customer      `json:"customer"`
	Items               []LineRequest `json:"items" validate:"required,min=1,dive"`
	OrderType           OrderType     `json:"order_type" validate:"oneof=delivery pickup dine-in"`
	DeliveryAddress     *Address      `json:"delivery_address,omitempty" validate:"required_if=OrderType delivery"`
	SpecialInstructions string        `json:"special_instructions,omitempty" validate:"max=500"`
	IdempotencyKey      string        `json:"-"`
	UserID              *int          `json:"-"`
}

type Totals struct {
	Subtotal money.Cents `json:"subtotal"`
	Tax      money.Cents `json:"tax"`
	Total    money.Cents `json:"total"`
}

type Quote struct {
	Items []CartLine `json:"items"`
	Totals
}

const (
	EventOrderCreated       = "order_created"
	EventOrderStatusChanged = "order_status_changed"
)

type OrderEvent struct {
	Type           string       `json:"type"`
	OrderID        int          `json:"order_id"`
	OrderNumber    string       `json:"order_number"`
	Status         OrderStatus  `json:"status"`
	PreviousStatus *OrderStatus `json:"previous_status,omitempty"`
	Order          *Order       `json:"order,omitempty"`
	Timestamp      time.Time    `json:"timestamp"`
}

// FormatOrderNumber renders ORD_YYYYMMDD_NNN; seq comes from a sequence that is never reset.
func FormatOrderNumber(createdAt time.Time, seq int64) string {
	return fmt.Sprintf("ORD_%s_%03d", createdAt.Format("20060102"), seq)
}
