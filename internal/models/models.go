package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// User is a registered shopper. The password hash never leaves the server.
type User struct {
	ID           int64     `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Name         string    `db:"name" json:"name"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// Product is one phone variant in the catalog. Stock is the only field
// mutated after seeding, and only by order placement.
type Product struct {
	ID          int64           `db:"id" json:"id"`
	Name        string          `db:"name" json:"name"`
	Brand       string          `db:"brand" json:"brand"`
	Model       string          `db:"model" json:"model"`
	Price       decimal.Decimal `db:"price" json:"price"`
	Storage     string          `db:"storage" json:"storage"`
	Color       string          `db:"color" json:"color"`
	ImageURL    string          `db:"image_url" json:"image_url"`
	Description string          `db:"description" json:"description"`
	Stock       int             `db:"stock" json:"stock"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
}

// CartItem is one (user, product) line pending purchase. Unique per pair.
type CartItem struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	ProductID int64     `db:"product_id" json:"product_id"`
	Quantity  int       `db:"quantity" json:"quantity"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// CartLine is a cart item joined with its product, as served to the client.
type CartLine struct {
	ID        int64           `db:"id" json:"id"`
	Quantity  int             `db:"quantity" json:"quantity"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
	ProductID int64           `db:"product_id" json:"product_id"`
	Name      string          `db:"name" json:"name"`
	Brand     string          `db:"brand" json:"brand"`
	Model     string          `db:"model" json:"model"`
	Price     decimal.Decimal `db:"price" json:"price"`
	Storage   string          `db:"storage" json:"storage"`
	Color     string          `db:"color" json:"color"`
	ImageURL  string          `db:"image_url" json:"image_url"`
	Stock     int             `db:"stock" json:"stock"`
}

// CheckoutLine is the checkout view of a cart line: requested quantity
// against live price and stock.
type CheckoutLine struct {
	ProductID int64           `db:"product_id"`
	Quantity  int             `db:"quantity"`
	Price     decimal.Decimal `db:"price"`
	Stock     int             `db:"stock"`
}

// Order is a placed order. Immutable once created except status.
type Order struct {
	ID              int64           `db:"id" json:"id"`
	UserID          int64           `db:"user_id" json:"user_id"`
	Total           decimal.Decimal `db:"total" json:"total"`
	Status          string          `db:"status" json:"status"`
	ShippingAddress string          `db:"shipping_address" json:"shipping_address"`
	PaymentMethod   string          `db:"payment_method" json:"payment_method"`
	CreatedAt       time.Time       `db:"created_at" json:"created_at"`
}

// OrderItem is one line of an order. Price is captured at order time and is
// deliberately decoupled from later product price changes.
type OrderItem struct {
	ID        int64           `db:"id" json:"id"`
	OrderID   int64           `db:"order_id" json:"order_id"`
	ProductID int64           `db:"product_id" json:"product_id"`
	Quantity  int             `db:"quantity" json:"quantity"`
	Price     decimal.Decimal `db:"price" json:"price"`
}

// OrderLine is an order item joined with product display fields.
type OrderLine struct {
	ID        int64           `db:"id" json:"id"`
	ProductID int64           `db:"product_id" json:"product_id"`
	Quantity  int             `db:"quantity" json:"quantity"`
	Price     decimal.Decimal `db:"price" json:"price"`
	Name      string          `db:"name" json:"name"`
	Brand     string          `db:"brand" json:"brand"`
	Model     string          `db:"model" json:"model"`
	ImageURL  string          `db:"image_url" json:"image_url"`
}

// OrderWithLines is the order history projection.
type OrderWithLines struct {
	Order
	Items []OrderLine `json:"items"`
}

// ProductFacets holds the distinct filter values for the catalog sidebar.
type ProductFacets struct {
	Brands   []string `json:"brands"`
	Storages []string `json:"storages"`
	Colors   []string `json:"colors"`
}

// Pagination describes one catalog result page.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// Order statuses
const (
	OrderStatusPending   = "pending"
	OrderStatusShipped   = "shipped"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

// Payment method tags. Checkout is simulated, the tag is stored verbatim.
const (
	PaymentCreditCard     = "credit_card"
	PaymentDebitCard      = "debit_card"
	PaymentPaypal         = "paypal"
	PaymentCashOnDelivery = "cash_on_delivery"
)

// ValidPaymentMethod reports whether m is an accepted payment method tag.
func ValidPaymentMethod(m string) bool {
	switch m {
	case PaymentCreditCard, PaymentDebitCard, PaymentPaypal, PaymentCashOnDelivery:
		return true
	}
	return false
}
