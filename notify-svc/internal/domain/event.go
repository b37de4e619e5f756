package domain

import (
	"time"

	"tablehouse/money"
)

const (
	EventOrderCreated       = "order_created"
	EventOrderStatusChanged = "order_status_changed"
)

// OrderEvent is the message order-svc publishes on the orders topic.
type OrderEvent struct {
	Type           string    `json:"type"`
	OrderID        int       `json:"order_id"`
	OrderNumber    string    `json:"order_number"`
	Status         string    `json:"status"`
	PreviousStatus *string   `json:"previous_status,omitempty"`
	Order          *Order    `json:"order,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
}

type Customer struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zip_code"`
}

type OrderItem struct {
	MenuItemID int         `json:"menu_item_id"`
	Name       string      `json:"name"`
	UnitPrice  money.Cents `json:"unit_price"`
	Quantity   int         `json:"quantity"`
}

type Order struct {
	ID                    int         `json:"id"`
	OrderNumber           string      `json:"order_number"`
	Customer              Customer    `json:"customer"`
	Items                 []OrderItem `json:"items"`
	Subtotal              money.Cents `json:"subtotal"`
	Tax                   money.Cents `json:"tax"`
	Total                 money.Cents `json:"total"`
	OrderType             string      `json:"order_type"`
	DeliveryAddress       *Address    `json:"delivery_address,omitempty"`
	SpecialInstructions   string      `json:"special_instructions,omitempty"`
	Status                string      `json:"status"`
	CreatedAt             time.Time   `json:"created_at"`
	EstimatedDeliveryTime time.Time   `json:"estimated_delivery_time"`
}
