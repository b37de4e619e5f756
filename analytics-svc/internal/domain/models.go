package domain

import (
	"time"

	"tablehouse/money"
)

// OrderStatuses mirrors the order lifecycle vocabulary, in lifecycle order.
var OrderStatuses = []string{"pending", "confirmed", "preparing", "ready", "delivered", "cancelled"}

type Window string

const (
	WindowToday Window = "today"
	WindowMonth Window = "month"
	WindowAll   Window = "all"
)

type WindowStats struct {
	Window  Window      `json:"window"`
	Orders  int         `json:"orders"`
	Revenue money.Cents `json:"revenue"`
}

type OrderSummary struct {
	OrderNumber  string      `json:"order_number"`
	CustomerName string      `json:"customer_name"`
	Total        money.Cents `json:"total"`
	Status       string      `json:"status"`
	CreatedAt    time.Time   `json:"created_at"`
}

type ItemSales struct {
	MenuItemID int         `json:"menu_item_id"`
	Name       string      `json:"name"`
	Quantity   int         `json:"quantity"`
	Revenue    money.Cents `json:"revenue"`
}

type Dashboard struct {
	TodayOrders     int            `json:"today_orders"`
	TodayRevenue    money.Cents    `json:"today_revenue"`
	MonthlyOrders   int            `json:"monthly_orders"`
	MonthlyRevenue  money.Cents    `json:"monthly_revenue"`
	StatusBreakdown map[string]int `json:"status_breakdown"`
	RecentOrders    []OrderSummary `json:"recent_orders"`
	GeneratedAt     time.Time      `json:"generated_at"`
}
