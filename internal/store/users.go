package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"mobile-store/internal/models"
)

// CreateUser inserts a user and fills in the generated ID.
func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO users (email, password_hash, name) VALUES (?, ?, ?)",
		user.Email, user.PasswordHash, user.Name)
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	user.ID, err = res.LastInsertId()
	return err
}

// UserByEmail retrieves a user by email. Nil without error when absent, so
// callers can distinguish "unknown email" from a real failure.
func (s *Store) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.db.GetContext(ctx, &user,
		"SELECT id, email, password_hash, name, created_at FROM users WHERE email = ?", email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}
