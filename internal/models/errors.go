package models

import (
	"errors"
	"fmt"
)

// Domain errors shared by the service and store layers. Handlers map these
// onto HTTP statuses; anything unrecognized is a 500.
var (
	ErrEmptyCart    = errors.New("cart is empty")
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrEmailTaken   = errors.New("user with this email already exists")
)

// ValidationError is a malformed or missing input.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// Validationf builds a ValidationError.
func Validationf(format string, args ...interface{}) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// InsufficientStockError reports which product could not cover the
// requested quantity.
type InsufficientStockError struct {
	ProductID int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product ID %d", e.ProductID)
}
