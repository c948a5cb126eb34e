package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"mobile-store/internal/models"
)

// CheckoutLines loads the user's cart joined with live price and stock,
// which is everything order placement needs to validate and total.
func (s *Store) CheckoutLines(ctx context.Context, userID int64) ([]models.CheckoutLine, error) {
	lines := []models.CheckoutLine{}
	err := s.db.SelectContext(ctx, &lines, `
		SELECT ci.product_id, ci.quantity, p.price, p.stock
		FROM cart_items ci
		JOIN products p ON ci.product_id = p.id
		WHERE ci.user_id = ?`, userID)
	return lines, err
}

// PlaceOrder commits an order atomically: the order row, its lines at the
// captured prices, the stock decrements, and the cart clear all land
// together or not at all. Each decrement is guarded by `stock >= ?`; a
// guard miss rolls everything back with InsufficientStockError, which is
// what a concurrent checkout losing the race observes.
func (s *Store) PlaceOrder(ctx context.Context, order *models.Order, items []models.OrderItem) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin checkout transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO orders (user_id, total, status, shipping_address, payment_method)
		VALUES (?, ?, ?, ?, ?)`,
		order.UserID, order.Total, order.Status, order.ShippingAddress, order.PaymentMethod)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}
	orderID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read order id: %w", err)
	}

	for i := range items {
		item := &items[i]
		item.OrderID = orderID

		res, err := tx.ExecContext(ctx, `
			INSERT INTO order_items (order_id, product_id, quantity, price)
			VALUES (?, ?, ?, ?)`,
			item.OrderID, item.ProductID, item.Quantity, item.Price)
		if err != nil {
			return fmt.Errorf("failed to insert order item: %w", err)
		}
		if item.ID, err = res.LastInsertId(); err != nil {
			return fmt.Errorf("failed to read order item id: %w", err)
		}

		upd, err := tx.ExecContext(ctx,
			"UPDATE products SET stock = stock - ? WHERE id = ? AND stock >= ?",
			item.Quantity, item.ProductID, item.Quantity)
		if err != nil {
			return fmt.Errorf("failed to decrement stock: %w", err)
		}
		n, err := upd.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return &models.InsufficientStockError{ProductID: item.ProductID}
		}
	}

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM cart_items WHERE user_id = ?", order.UserID); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit checkout: %w", err)
	}

	order.ID = orderID
	order.CreatedAt = time.Now().UTC()
	return nil
}

// OrdersByUser retrieves the user's orders, newest first.
func (s *Store) OrdersByUser(ctx context.Context, userID int64) ([]models.Order, error) {
	orders := []models.Order{}
	err := s.db.SelectContext(ctx, &orders, `
		SELECT id, user_id, total, status, shipping_address, payment_method, created_at
		FROM orders WHERE user_id = ? ORDER BY created_at DESC, id DESC`, userID)
	return orders, err
}

// OrderByID retrieves one order scoped to its owner.
func (s *Store) OrderByID(ctx context.Context, userID, id int64) (*models.Order, error) {
	var order models.Order
	err := s.db.GetContext(ctx, &order, `
		SELECT id, user_id, total, status, shipping_address, payment_method, created_at
		FROM orders WHERE id = ? AND user_id = ?`, id, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("order %d: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// OrderLines retrieves an order's lines joined with product display fields.
func (s *Store) OrderLines(ctx context.Context, orderID int64) ([]models.OrderLine, error) {
	lines := []models.OrderLine{}
	err := s.db.SelectContext(ctx, &lines, `
		SELECT oi.id, oi.product_id, oi.quantity, oi.price,
			p.name, p.brand, p.model, p.image_url
		FROM order_items oi
		JOIN products p ON oi.product_id = p.id
		WHERE oi.order_id = ?`, orderID)
	return lines, err
}
