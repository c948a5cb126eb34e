package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"mobile-store/internal/broker"
	"mobile-store/internal/models"
	"mobile-store/internal/util"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CheckoutStore is what order placement needs from persistence. PlaceOrder
// must be atomic: order row, order lines, stock decrements and cart clear
// all commit together or not at all.
type CheckoutStore interface {
	CheckoutLines(ctx context.Context, userID int64) ([]models.CheckoutLine, error)
	PlaceOrder(ctx context.Context, order *models.Order, items []models.OrderItem) error
}

// CheckoutService turns a user's cart into an order.
type CheckoutService struct {
	store  CheckoutStore
	events *broker.EventPublisher
	logger *zap.Logger
}

// NewCheckoutService creates a new checkout service
func NewCheckoutService(store CheckoutStore, events *broker.EventPublisher) *CheckoutService {
	return &CheckoutService{
		store:  store,
		events: events,
		logger: util.GetLogger(),
	}
}

// PlaceOrderRequest carries the checkout form for an authenticated user.
type PlaceOrderRequest struct {
	UserID          int64
	ShippingAddress string
	PaymentMethod   string
}

// PlaceOrderResult is returned after a successful checkout.
type PlaceOrderResult struct {
	OrderID int64           `json:"orderId"`
	Total   decimal.Decimal `json:"total"`
}

// PlaceOrder validates the user's cart against live stock, snapshots line
// prices, and commits the order in one transaction. On any failure the
// database is left untouched.
func (s *CheckoutService) PlaceOrder(ctx context.Context, req PlaceOrderRequest) (*PlaceOrderResult, error) {
	ctx, span := util.StartSpan(ctx, "CheckoutService.PlaceOrder")
	defer span.End()

	start := time.Now()
	defer func() {
		util.CheckoutDuration.Observe(time.Since(start).Seconds())
	}()

	if strings.TrimSpace(req.ShippingAddress) == "" {
		util.CheckoutFailedTotal.WithLabelValues("validation").Inc()
		return nil, models.Validationf("shipping address is required")
	}
	if !models.ValidPaymentMethod(req.PaymentMethod) {
		util.CheckoutFailedTotal.WithLabelValues("validation").Inc()
		return nil, models.Validationf("invalid payment method %q", req.PaymentMethod)
	}

	lines, err := s.store.CheckoutLines(ctx, req.UserID)
	if err != nil {
		util.CheckoutFailedTotal.WithLabelValues("db_error").Inc()
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	if len(lines) == 0 {
		util.CheckoutFailedTotal.WithLabelValues("empty_cart").Inc()
		return nil, models.ErrEmptyCart
	}

	// Friendly precheck. The transaction re-enforces this with a guarded
	// decrement, so a race here only changes which error path reports it.
	for _, line := range lines {
		if line.Stock < line.Quantity {
			util.CheckoutFailedTotal.WithLabelValues("insufficient_stock").Inc()
			return nil, &models.InsufficientStockError{ProductID: line.ProductID}
		}
	}

	total := decimal.Zero
	items := make([]models.OrderItem, 0, len(lines))
	for _, line := range lines {
		// Price is captured here; later catalog price changes must not
		// affect this order.
		items = append(items, models.OrderItem{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			Price:     line.Price,
		})
		total = total.Add(line.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	total = total.Round(2)

	order := &models.Order{
		UserID:          req.UserID,
		Total:           total,
		Status:          models.OrderStatusPending,
		ShippingAddress: req.ShippingAddress,
		PaymentMethod:   req.PaymentMethod,
	}

	if err := s.store.PlaceOrder(ctx, order, items); err != nil {
		if stockErr, ok := asInsufficientStock(err); ok {
			util.CheckoutFailedTotal.WithLabelValues("insufficient_stock").Inc()
			return nil, stockErr
		}
		util.CheckoutFailedTotal.WithLabelValues("db_error").Inc()
		return nil, fmt.Errorf("failed to place order: %w", err)
	}

	util.OrdersPlacedTotal.Inc()
	s.logger.Info("Order placed",
		zap.Int64("order_id", order.ID),
		zap.Int64("user_id", req.UserID),
		zap.String("total", total.String()))

	s.publishOrderPlaced(ctx, order, items)

	return &PlaceOrderResult{OrderID: order.ID, Total: total}, nil
}

func (s *CheckoutService) publishOrderPlaced(ctx context.Context, order *models.Order, items []models.OrderItem) {
	eventItems := make([]models.OrderLineData, 0, len(items))
	for _, item := range items {
		eventItems = append(eventItems, models.OrderLineData{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
		})
	}

	event := &models.OrderPlacedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeOrderPlaced,
			Timestamp: time.Now(),
		},
		OrderID:       order.ID,
		UserID:        order.UserID,
		Total:         order.Total,
		PaymentMethod: order.PaymentMethod,
		Items:         eventItems,
	}

	if err := s.events.PublishOrderPlaced(ctx, event); err != nil {
		s.logger.Error("Failed to publish OrderPlaced event",
			zap.Int64("order_id", order.ID), zap.Error(err))
	}
}

func asInsufficientStock(err error) (*models.InsufficientStockError, bool) {
	var stockErr *models.InsufficientStockError
	if errors.As(err, &stockErr) {
		return stockErr, true
	}
	return nil, false
}
