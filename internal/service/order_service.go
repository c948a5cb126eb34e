package service

import (
	"context"
	"fmt"

	"mobile-store/internal/models"
)

// OrderStore is the read side of order history.
type OrderStore interface {
	OrdersByUser(ctx context.Context, userID int64) ([]models.Order, error)
	OrderByID(ctx context.Context, userID, id int64) (*models.Order, error)
	OrderLines(ctx context.Context, orderID int64) ([]models.OrderLine, error)
}

// OrderService serves a user's order history.
type OrderService struct {
	store OrderStore
}

// NewOrderService creates a new order service
func NewOrderService(store OrderStore) *OrderService {
	return &OrderService{store: store}
}

// Orders returns all of the user's orders with their lines, newest first.
func (s *OrderService) Orders(ctx context.Context, userID int64) ([]models.OrderWithLines, error) {
	orders, err := s.store.OrdersByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load orders: %w", err)
	}

	result := make([]models.OrderWithLines, 0, len(orders))
	for _, order := range orders {
		lines, err := s.store.OrderLines(ctx, order.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load order lines: %w", err)
		}
		result = append(result, models.OrderWithLines{Order: order, Items: lines})
	}
	return result, nil
}

// Order returns one of the user's orders with its lines.
func (s *OrderService) Order(ctx context.Context, userID, orderID int64) (*models.OrderWithLines, error) {
	order, err := s.store.OrderByID(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}

	lines, err := s.store.OrderLines(ctx, order.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load order lines: %w", err)
	}
	return &models.OrderWithLines{Order: *order, Items: lines}, nil
}
