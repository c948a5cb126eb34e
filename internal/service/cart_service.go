package service

import (
	"context"
	"fmt"

	"mobile-store/internal/models"
	"mobile-store/internal/util"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CartStore is what cart mutation needs from persistence.
type CartStore interface {
	GetProductByID(ctx context.Context, id int64) (*models.Product, error)
	CartLines(ctx context.Context, userID int64) ([]models.CartLine, error)
	CartItemByProduct(ctx context.Context, userID, productID int64) (*models.CartItem, error)
	CartItemByID(ctx context.Context, userID, id int64) (*models.CartItem, error)
	InsertCartItem(ctx context.Context, userID, productID int64, quantity int) error
	UpdateCartItemQuantity(ctx context.Context, id int64, quantity int) error
	DeleteCartItem(ctx context.Context, userID, id int64) error
}

// CartService manages a user's cart lines.
type CartService struct {
	store  CartStore
	logger *zap.Logger
}

// NewCartService creates a new cart service
func NewCartService(store CartStore) *CartService {
	return &CartService{
		store:  store,
		logger: util.GetLogger(),
	}
}

// CartView is the cart as served to the client.
type CartView struct {
	Items []models.CartLine `json:"items"`
	Total decimal.Decimal   `json:"total"`
}

// Cart returns the user's cart lines with a running total.
func (s *CartService) Cart(ctx context.Context, userID int64) (*CartView, error) {
	lines, err := s.store.CartLines(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}

	return &CartView{Items: lines, Total: total.Round(2)}, nil
}

// AddItem adds quantity of a product to the cart, merging into an existing
// line. Returns the resulting line quantity and whether a new line was
// created.
func (s *CartService) AddItem(ctx context.Context, userID, productID int64, quantity int) (int, bool, error) {
	if quantity < 1 {
		return 0, false, models.Validationf("quantity must be at least 1")
	}

	product, err := s.store.GetProductByID(ctx, productID)
	if err != nil {
		return 0, false, err
	}
	if product.Stock < quantity {
		return 0, false, &models.InsufficientStockError{ProductID: productID}
	}

	existing, err := s.store.CartItemByProduct(ctx, userID, productID)
	if err != nil {
		return 0, false, err
	}

	if existing != nil {
		merged := existing.Quantity + quantity
		if product.Stock < merged {
			return 0, false, &models.InsufficientStockError{ProductID: productID}
		}
		if err := s.store.UpdateCartItemQuantity(ctx, existing.ID, merged); err != nil {
			return 0, false, err
		}
		util.CartMutationsTotal.WithLabelValues("update").Inc()
		return merged, false, nil
	}

	if err := s.store.InsertCartItem(ctx, userID, productID, quantity); err != nil {
		return 0, false, err
	}
	util.CartMutationsTotal.WithLabelValues("add").Inc()
	return quantity, true, nil
}

// UpdateItem sets the quantity of one of the user's cart lines.
func (s *CartService) UpdateItem(ctx context.Context, userID, itemID int64, quantity int) error {
	if quantity < 1 {
		return models.Validationf("quantity must be at least 1")
	}

	item, err := s.store.CartItemByID(ctx, userID, itemID)
	if err != nil {
		return err
	}

	product, err := s.store.GetProductByID(ctx, item.ProductID)
	if err != nil {
		return err
	}
	if product.Stock < quantity {
		return &models.InsufficientStockError{ProductID: product.ID}
	}

	if err := s.store.UpdateCartItemQuantity(ctx, item.ID, quantity); err != nil {
		return err
	}
	util.CartMutationsTotal.WithLabelValues("update").Inc()
	return nil
}

// RemoveItem deletes one of the user's cart lines.
func (s *CartService) RemoveItem(ctx context.Context, userID, itemID int64) error {
	if err := s.store.DeleteCartItem(ctx, userID, itemID); err != nil {
		return err
	}
	util.CartMutationsTotal.WithLabelValues("remove").Inc()
	s.logger.Debug("Cart item removed",
		zap.Int64("user_id", userID), zap.Int64("item_id", itemID))
	return nil
}
