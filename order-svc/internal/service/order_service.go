package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"tablehouse/order-svc/internal/domain"
)

const (
	DefaultPrepTime   = 45 * time.Minute
	defaultPageLimit  = 10
	maxPageLimit      = 100
	publishTimeout    = 2 * time.Second
	maxIdempotencyKey = 128
)

type OrderService struct {
	repo       OrderRepository
	menu       MenuRepository
	qrEncoder  QRGenerator
	cache      CheckoutCache
	publisher  EventPublisher
	taxRateBps int64
	prepTime   time.Duration
	now        func() time.Time
}

func NewOrderService(repo OrderRepository, menu MenuRepository, qr QRGenerator, cache CheckoutCache, publisher EventPublisher) *OrderService {
	return &OrderService{
		repo:       repo,
		menu:       menu,
		qrEncoder:  qr,
		cache:      cache,
		publisher:  publisher,
		taxRateBps: DefaultTaxRateBps,
		prepTime:   DefaultPrepTime,
		now:        time.Now,
	}
}

// WithTaxRate clamps bps into [0, MaxTaxRateBps].
func (s *OrderService) WithTaxRate(bps int64) *OrderService {
	s.taxRateBps = min(max(bps, 0), MaxTaxRateBps)
	return s
}

func (s *OrderService) WithClock(now func() time.Time) *OrderService {
	s.now = now
	return s
}

// priceCart merges duplicate lines and copies live prices from active menu items.
func (s *OrderService) priceCart(ctx context.Context, lines []domain.LineRequest) (*domain.Cart, error) {
	if err := validateLines(lines); err != nil {
		return nil, err
	}

	ids := make([]int, 0, len(lines))
	seen := make(map[int]bool, len(lines))
	for _, line := range lines {
		if !seen[line.MenuItemID] {
			seen[line.MenuItemID] = true
			ids = append(ids, line.MenuItemID)
		}
	}

	items, err := s.menu.GetMenuItems(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load menu items: %w", err)
	}

	cart := domain.NewCart()
	for _, line := range lines {
		item, ok := items[line.MenuItemID]
		if !ok || !item.Active {
			return nil, validationError("menu item %d is not available", line.MenuItemID)
		}
		cart.Add(domain.CartLine{
			MenuItemID: item.ID,
			Name:       item.Name,
			UnitPrice:  item.Price,
			Quantity:   line.Quantity,
			ImageURL:   item.ImageURL,
		})
	}

	if cart.Len() > MaxOrderLines {
		return nil, validationError("order may contain at most %d different items", MaxOrderLines)
	}
	for _, line := range cart.Lines() {
		if line.Quantity > MaxLineQuantity {
			return nil, validationError("quantity for item %d must be between 1 and %d", line.MenuItemID, MaxLineQuantity)
		}
	}
	return cart, nil
}

func (s *OrderService) Quote(ctx context.Context, lines []domain.LineRequest) (*domain.Quote, error) {
	cart, err := s.priceCart(ctx, lines)
	if err != nil {
		return nil, err
	}
	priced := cart.Lines()
	return &domain.Quote{Items: priced, Totals: ComputeTotals(priced, s.taxRateBps)}, nil
}

func (s *OrderService) Create(ctx context.Context, req domain.CreateOrderRequest) (*domain.Order, error) {
	req.IdempotencyKey = strings.TrimSpace(req.IdempotencyKey)
	if len(req.IdempotencyKey) > maxIdempotencyKey {
		return nil, validationError("idempotency key is too long")
	}
	if existing := s.replay(ctx, req.IdempotencyKey); existing != nil {
		return existing, nil
	}

	if err := validateCheckout(&req); err != nil {
		return nil, err
	}
	cart, err := s.priceCart(ctx, req.Items)
	if err != nil {
		return nil, err
	}
	lines := cart.Lines()
	totals := ComputeTotals(lines, s.taxRateBps)

	seq, err := s.repo.NextOrderSequence(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate order number: %w", err)
	}

	now := s.now()
	order := &domain.Order{
		OrderNumber:           domain.FormatOrderNumber(now, seq),
		Customer:              req.Customer,
		Items:                 make([]domain.OrderItem, 0, len(lines)),
		Subtotal:              totals.Subtotal,
		Tax:                   totals.Tax,
		Total:                 totals.Total,
		OrderType:             req.OrderType,
		DeliveryAddress:       req.DeliveryAddress,
		SpecialInstructions:   req.SpecialInstructions,
		Status:                domain.StatusPending,
		UserID:                req.UserID,
		CreatedAt:             now,
		UpdatedAt:             now,
		EstimatedDeliveryTime: now.Add(s.prepTime),
	}
	for _, line := range lines {
		order.Items = append(order.Items, domain.OrderItem{
			MenuItemID:    line.MenuItemID,
			Name:          line.Name,
			UnitPrice:     line.UnitPrice,
			Quantity:      line.Quantity,
			ImageSnapshot: line.ImageURL,
		})
	}

	if err := s.repo.CreateOrder(ctx, order); err != nil {
		return nil, err
	}

	if s.qrEncoder != nil {
		if qr, err := s.qrEncoder.Generate(order.OrderNumber); err == nil {
			_ = s.repo.SaveQRCode(ctx, order.ID, qr)
		}
	}

	if req.IdempotencyKey != "" && s.cache != nil {
		if err := s.cache.Remember(ctx, req.IdempotencyKey, order.OrderNumber); err != nil {
			log.Printf("WARN: remember checkout key for %s: %v", order.OrderNumber, err)
		}
	}

	s.publish(ctx, domain.OrderEvent{
		Type:        domain.EventOrderCreated,
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		Status:      order.Status,
		Order:       order,
		Timestamp:   now,
	})

	log.Printf("Order %s created: %d lines, total %s", order.OrderNumber, len(order.Items), order.Total)
	order.AllowedNext = AllowedNext(order.Status)
	return order, nil
}

// replay returns the order already created for an idempotency key, if any.
func (s *OrderService) replay(ctx context.Context, key string) *domain.Order {
	if key == "" || s.cache == nil {
		return nil
	}
	orderNumber, err := s.cache.Recall(ctx, key)
	if err != nil || orderNumber == "" {
		return nil
	}
	order, err := s.repo.GetOrderByNumber(ctx, orderNumber)
	if err != nil {
		return nil
	}
	order.AllowedNext = AllowedNext(order.Status)
	return order
}

func (s *OrderService) Get(ctx context.Context, id int) (*domain.Order, error) {
	order, err := s.repo.GetOrder(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("order", id)
	}
	if err != nil {
		return nil, err
	}
	order.AllowedNext = AllowedNext(order.Status)
	return order, nil
}

func (s *OrderService) Track(ctx context.Context, orderNumber string) (*domain.Order, error) {
	order, err := s.repo.GetOrderByNumber(ctx, orderNumber)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("order", orderNumber)
	}
	if err != nil {
		return nil, err
	}
	order.QRCode = s.QRLink(order.OrderNumber)
	return order, nil
}

func (s *OrderService) List(ctx context.Context, filter domain.OrderFilter) (*domain.OrderPage, error) {
	if filter.Status == "all" {
		filter.Status = ""
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, validationError("unknown status %q", filter.Status)
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = defaultPageLimit
	}
	if filter.Limit > maxPageLimit {
		filter.Limit = maxPageLimit
	}
	filter.Search = strings.TrimSpace(filter.Search)

	orders, total, err := s.repo.ListOrders(ctx, filter)
	if err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	for i := range orders {
		orders[i].AllowedNext = AllowedNext(orders[i].Status)
	}

	return &domain.OrderPage{
		Orders:      orders,
		TotalPages:  (total + filter.Limit - 1) / filter.Limit,
		CurrentPage: filter.Page,
		Total:       total,
	}, nil
}

// Advance moves an order one edge along the lifecycle. A concurrent writer that
// changed the status first makes this call fail with ErrInvalidTransition.
func (s *OrderService) Advance(ctx context.Context, id int, requested domain.OrderStatus, actorID *int) (*domain.Order, error) {
	if !requested.Valid() {
		return nil, validationError("unknown status %q", requested)
	}

	order, err := s.repo.GetOrder(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("order", id)
	}
	if err != nil {
		return nil, err
	}

	current := order.Status
	if err := checkTransition(current, requested); err != nil {
		return nil, err
	}

	updated, err := s.repo.UpdateStatus(ctx, id, current, requested, actorID)
	if err != nil {
		return nil, err
	}
	if !updated {
		latest, err := s.repo.GetOrder(ctx, id)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound("order", id)
		}
		if err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %s -> %s, order is now %s", ErrInvalidTransition, current, requested, latest.Status)
	}

	now := s.now()
	order.Status = requested
	order.UpdatedAt = now
	order.AllowedNext = AllowedNext(requested)

	s.publish(ctx, domain.OrderEvent{
		Type:           domain.EventOrderStatusChanged,
		OrderID:        order.ID,
		OrderNumber:    order.OrderNumber,
		Status:         requested,
		PreviousStatus: &current,
		Timestamp:      now,
	})

	log.Printf("Order %s moved %s -> %s", order.OrderNumber, current, requested)
	return order, nil
}

func (s *OrderService) History(ctx context.Context, id int) ([]domain.StatusChange, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	history, err := s.repo.StatusHistory(ctx, id)
	if err != nil {
		return nil, err
	}
	if history == nil {
		history = []domain.StatusChange{}
	}
	return history, nil
}

// QRCode regenerates and stores the image when it was not saved at checkout.
func (s *OrderService) QRCode(ctx context.Context, orderNumber string) ([]byte, error) {
	orderID, qr, err := s.repo.GetQRCode(ctx, orderNumber)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("order", orderNumber)
	}
	if err != nil {
		return nil, err
	}
	if len(qr) == 0 && s.qrEncoder != nil {
		if regenerated, err := s.qrEncoder.Generate(orderNumber); err == nil {
			_ = s.repo.SaveQRCode(ctx, orderID, regenerated)
			return regenerated, nil
		}
	}
	return qr, nil
}

func (s *OrderService) QRLink(orderNumber string) string {
	return fmt.Sprintf("/api/orders/track/%s/qrcode", orderNumber)
}

// publish never fails the caller; the notification side is best effort.
func (s *OrderService) publish(ctx context.Context, event domain.OrderEvent) {
	if s.publisher == nil {
		return
	}
	pubCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()
	if err := s.publisher.PublishOrderEvent(pubCtx, event); err != nil {
		log.Printf("WARN: publish %s for order %s: %v", event.Type, event.OrderNumber, err)
	}
}
