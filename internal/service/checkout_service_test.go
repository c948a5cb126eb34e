package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"mobile-store/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCheckoutStore is an in-memory stand-in for the SQLite store. Its
// PlaceOrder applies all effects under one lock, mirroring the real
// transaction's all-or-nothing behavior.
type fakeCheckoutStore struct {
	mu     sync.Mutex
	stock  map[int64]int
	price  map[int64]decimal.Decimal
	carts  map[int64][]models.CheckoutLine
	orders []placedOrder
	nextID int64
}

type placedOrder struct {
	order models.Order
	items []models.OrderItem
}

func newFakeCheckoutStore() *fakeCheckoutStore {
	return &fakeCheckoutStore{
		stock:  map[int64]int{},
		price:  map[int64]decimal.Decimal{},
		carts:  map[int64][]models.CheckoutLine{},
		nextID: 1,
	}
}

func (f *fakeCheckoutStore) addProduct(id int64, price decimal.Decimal, stock int) {
	f.price[id] = price
	f.stock[id] = stock
}

func (f *fakeCheckoutStore) addCartLine(userID, productID int64, quantity int) {
	f.carts[userID] = append(f.carts[userID], models.CheckoutLine{
		ProductID: productID,
		Quantity:  quantity,
	})
}

func (f *fakeCheckoutStore) CheckoutLines(ctx context.Context, userID int64) ([]models.CheckoutLine, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	lines := make([]models.CheckoutLine, 0, len(f.carts[userID]))
	for _, l := range f.carts[userID] {
		l.Price = f.price[l.ProductID]
		l.Stock = f.stock[l.ProductID]
		lines = append(lines, l)
	}
	return lines, nil
}

func (f *fakeCheckoutStore) PlaceOrder(ctx context.Context, order *models.Order, items []models.OrderItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, item := range items {
		if f.stock[item.ProductID] < item.Quantity {
			return &models.InsufficientStockError{ProductID: item.ProductID}
		}
	}
	for i := range items {
		items[i].OrderID = f.nextID
		f.stock[items[i].ProductID] -= items[i].Quantity
	}
	order.ID = f.nextID
	f.nextID++
	delete(f.carts, order.UserID)
	f.orders = append(f.orders, placedOrder{order: *order, items: items})
	return nil
}

func newTestCheckout(store CheckoutStore) *CheckoutService {
	return NewCheckoutService(store, nil)
}

func TestPlaceOrderComputesTotalAndClearsCart(t *testing.T) {
	fake := newFakeCheckoutStore()
	fake.addProduct(1, decimal.NewFromInt(999), 10)
	fake.addProduct(2, decimal.NewFromInt(25), 5)
	fake.addCartLine(7, 1, 1)
	fake.addCartLine(7, 2, 2)

	svc := newTestCheckout(fake)
	result, err := svc.PlaceOrder(context.Background(), PlaceOrderRequest{
		UserID:          7,
		ShippingAddress: "1 Main St",
		PaymentMethod:   models.PaymentCreditCard,
	})
	require.NoError(t, err)

	assert.True(t, result.Total.Equal(decimal.RequireFromString("1049.00")),
		"total = %s", result.Total)

	// stock decremented by exactly the ordered quantities
	assert.Equal(t, 9, fake.stock[1])
	assert.Equal(t, 3, fake.stock[2])

	// cart emptied
	lines, err := fake.CheckoutLines(context.Background(), 7)
	require.NoError(t, err)
	assert.Empty(t, lines)

	// one order, two lines, Order.total == sum of line subtotals
	require.Len(t, fake.orders, 1)
	placed := fake.orders[0]
	require.Len(t, placed.items, 2)
	assert.Equal(t, models.OrderStatusPending, placed.order.Status)

	sum := decimal.Zero
	for _, item := range placed.items {
		sum = sum.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	assert.True(t, placed.order.Total.Equal(sum))
}

func TestPlaceOrderEmptyCart(t *testing.T) {
	fake := newFakeCheckoutStore()
	svc := newTestCheckout(fake)

	_, err := svc.PlaceOrder(context.Background(), PlaceOrderRequest{
		UserID:          1,
		ShippingAddress: "1 Main St",
		PaymentMethod:   models.PaymentPaypal,
	})
	assert.ErrorIs(t, err, models.ErrEmptyCart)
	assert.Empty(t, fake.orders)
}

func TestPlaceOrderInsufficientStock(t *testing.T) {
	fake := newFakeCheckoutStore()
	fake.addProduct(3, decimal.NewFromInt(500), 0)
	fake.addCartLine(1, 3, 1)

	svc := newTestCheckout(fake)
	_, err := svc.PlaceOrder(context.Background(), PlaceOrderRequest{
		UserID:          1,
		ShippingAddress: "1 Main St",
		PaymentMethod:   models.PaymentDebitCard,
	})

	var stockErr *models.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, int64(3), stockErr.ProductID)

	// no mutation anywhere
	assert.Empty(t, fake.orders)
	assert.Equal(t, 0, fake.stock[3])
	assert.Len(t, fake.carts[1], 1)
}

func TestPlaceOrderValidation(t *testing.T) {
	fake := newFakeCheckoutStore()
	fake.addProduct(1, decimal.NewFromInt(10), 5)
	fake.addCartLine(1, 1, 1)
	svc := newTestCheckout(fake)

	var vErr *models.ValidationError

	_, err := svc.PlaceOrder(context.Background(), PlaceOrderRequest{
		UserID:        1,
		PaymentMethod: models.PaymentCreditCard,
	})
	assert.ErrorAs(t, err, &vErr)

	_, err = svc.PlaceOrder(context.Background(), PlaceOrderRequest{
		UserID:          1,
		ShippingAddress: "1 Main St",
		PaymentMethod:   "bitcoin",
	})
	assert.ErrorAs(t, err, &vErr)

	assert.Empty(t, fake.orders)
}

func TestPlaceOrderConcurrentLastUnit(t *testing.T) {
	fake := newFakeCheckoutStore()
	fake.addProduct(1, decimal.NewFromInt(100), 1)
	fake.addCartLine(1, 1, 1)
	fake.addCartLine(2, 1, 1)

	svc := newTestCheckout(fake)

	errs := make(chan error, 2)
	var wg sync.WaitGroup
	for _, uid := range []int64{1, 2} {
		wg.Add(1)
		go func(userID int64) {
			defer wg.Done()
			_, err := svc.PlaceOrder(context.Background(), PlaceOrderRequest{
				UserID:          userID,
				ShippingAddress: "1 Main St",
				PaymentMethod:   models.PaymentCashOnDelivery,
			})
			errs <- err
		}(uid)
	}
	wg.Wait()
	close(errs)

	var succeeded, stockFailed int
	for err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		var stockErr *models.InsufficientStockError
		if errors.As(err, &stockErr) {
			stockFailed++
		}
	}

	assert.Equal(t, 1, succeeded, "exactly one checkout wins the last unit")
	assert.Equal(t, 1, stockFailed, "the loser sees insufficient stock")
	assert.Equal(t, 0, fake.stock[1])
	assert.Len(t, fake.orders, 1)
}
