package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"mobile-store/internal/models"
)

// CartLines retrieves the user's cart joined with product fields, newest
// line first.
func (s *Store) CartLines(ctx context.Context, userID int64) ([]models.CartLine, error) {
	lines := []models.CartLine{}
	err := s.db.SelectContext(ctx, &lines, `
		SELECT
			ci.id, ci.quantity, ci.created_at,
			p.id AS product_id, p.name, p.brand, p.model, p.price,
			p.storage, p.color, p.image_url, p.stock
		FROM cart_items ci
		JOIN products p ON ci.product_id = p.id
		WHERE ci.user_id = ?
		ORDER BY ci.created_at DESC`, userID)
	return lines, err
}

// CartItemByProduct retrieves the user's cart line for a product, if any.
func (s *Store) CartItemByProduct(ctx context.Context, userID, productID int64) (*models.CartItem, error) {
	var item models.CartItem
	err := s.db.GetContext(ctx, &item,
		"SELECT id, user_id, product_id, quantity, created_at FROM cart_items WHERE user_id = ? AND product_id = ?",
		userID, productID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// CartItemByID retrieves a cart line owned by the user.
func (s *Store) CartItemByID(ctx context.Context, userID, id int64) (*models.CartItem, error) {
	var item models.CartItem
	err := s.db.GetContext(ctx, &item,
		"SELECT id, user_id, product_id, quantity, created_at FROM cart_items WHERE id = ? AND user_id = ?",
		id, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("cart item %d: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// InsertCartItem adds a new cart line.
func (s *Store) InsertCartItem(ctx context.Context, userID, productID int64, quantity int) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO cart_items (user_id, product_id, quantity) VALUES (?, ?, ?)",
		userID, productID, quantity)
	return err
}

// UpdateCartItemQuantity sets the quantity of an existing cart line.
func (s *Store) UpdateCartItemQuantity(ctx context.Context, id int64, quantity int) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE cart_items SET quantity = ? WHERE id = ?", quantity, id)
	return err
}

// DeleteCartItem removes the user's cart line. ErrNotFound when no row
// matched.
func (s *Store) DeleteCartItem(ctx context.Context, userID, id int64) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM cart_items WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("cart item %d: %w", id, models.ErrNotFound)
	}
	return nil
}
