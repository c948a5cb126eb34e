package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"mobile-store/internal/service"
	"mobile-store/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	decimal.MarshalJSONWithoutQuotes = true

	s, err := store.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Seed(context.Background()))

	auth := service.NewAuthService(s, "test-secret", time.Hour, nil)
	catalog := service.NewCatalogService(s, nil)
	cart := service.NewCartService(s)
	checkout := service.NewCheckoutService(s, nil)
	orders := service.NewOrderService(s)

	router := gin.New()
	NewHandler(auth, catalog, cart, checkout, orders).SetupRoutes(router)
	return router
}

func doJSON(router *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func registerUser(t *testing.T, router *gin.Engine, email string) string {
	t.Helper()
	w := doJSON(router, http.MethodPost, "/api/auth/register", "", gin.H{
		"email": email, "password": "secret123", "name": "Test User",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func TestHealth(t *testing.T) {
	router := setupRouter(t)
	w := doJSON(router, http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestListProductsEndpoint(t *testing.T) {
	router := setupRouter(t)

	w := doJSON(router, http.MethodGet, "/api/products?brand=Apple&sort=price&order=DESC", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Products []struct {
			Brand string  `json:"brand"`
			Price float64 `json:"price"`
		} `json:"products"`
		Pagination struct {
			Total int `json:"total"`
		} `json:"pagination"`
		Filters struct {
			Brands []string `json:"brands"`
		} `json:"filters"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	require.NotEmpty(t, resp.Products)
	for _, p := range resp.Products {
		assert.Equal(t, "Apple", p.Brand)
	}
	assert.GreaterOrEqual(t, resp.Products[0].Price, resp.Products[len(resp.Products)-1].Price)
	assert.Contains(t, resp.Filters.Brands, "Apple")
	assert.Contains(t, resp.Filters.Brands, "Samsung")
}

func TestCheckoutRequiresAuth(t *testing.T) {
	router := setupRouter(t)

	w := doJSON(router, http.MethodPost, "/api/checkout", "", gin.H{
		"shipping_address": "1 Main St", "payment_method": "credit_card",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(router, http.MethodPost, "/api/checkout", "not-a-token", gin.H{
		"shipping_address": "1 Main St", "payment_method": "credit_card",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCheckoutFlow(t *testing.T) {
	router := setupRouter(t)
	token := registerUser(t, router, "flow@example.com")

	// seeded product 1 is the 128GB iPhone 15 Pro at 999 with stock 50
	w := doJSON(router, http.MethodPost, "/api/cart", token, gin.H{
		"product_id": 1, "quantity": 2,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = doJSON(router, http.MethodPost, "/api/checkout", token, gin.H{
		"shipping_address": "1 Main St", "payment_method": "credit_card",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		OrderID int64   `json:"orderId"`
		Total   float64 `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotZero(t, resp.OrderID)
	assert.Equal(t, float64(1998), resp.Total)

	// stock went down by the purchased quantity
	w = doJSON(router, http.MethodGet, "/api/products/1", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var product struct {
		Stock int `json:"stock"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &product))
	assert.Equal(t, 48, product.Stock)

	// cart is now empty, so a second checkout fails
	w = doJSON(router, http.MethodPost, "/api/checkout", token, gin.H{
		"shipping_address": "1 Main St", "payment_method": "credit_card",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// the order shows up in history with its line
	w = doJSON(router, http.MethodGet, "/api/orders", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var orders []struct {
		ID    int64 `json:"id"`
		Items []struct {
			Quantity int `json:"quantity"`
		} `json:"items"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &orders))
	require.Len(t, orders, 1)
	require.Len(t, orders[0].Items, 1)
	assert.Equal(t, 2, orders[0].Items[0].Quantity)

	w = doJSON(router, http.MethodGet, fmt.Sprintf("/api/orders/%d", resp.OrderID), token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCheckoutValidation(t *testing.T) {
	router := setupRouter(t)
	token := registerUser(t, router, "valid@example.com")

	w := doJSON(router, http.MethodPost, "/api/checkout", token, gin.H{
		"payment_method": "credit_card",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(router, http.MethodPost, "/api/checkout", token, gin.H{
		"shipping_address": "1 Main St", "payment_method": "bitcoin",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOrdersAreScopedToCaller(t *testing.T) {
	router := setupRouter(t)
	buyer := registerUser(t, router, "buyer@example.com")
	other := registerUser(t, router, "other@example.com")

	w := doJSON(router, http.MethodPost, "/api/cart", buyer, gin.H{"product_id": 1})
	require.Equal(t, http.StatusCreated, w.Code)
	w = doJSON(router, http.MethodPost, "/api/checkout", buyer, gin.H{
		"shipping_address": "1 Main St", "payment_method": "paypal",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		OrderID int64 `json:"orderId"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	w = doJSON(router, http.MethodGet, fmt.Sprintf("/api/orders/%d", resp.OrderID), other, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCartEndpoints(t *testing.T) {
	router := setupRouter(t)
	token := registerUser(t, router, "cart@example.com")

	// quantity defaults to 1
	w := doJSON(router, http.MethodPost, "/api/cart", token, gin.H{"product_id": 1})
	require.Equal(t, http.StatusCreated, w.Code)

	// adding the same product merges lines
	w = doJSON(router, http.MethodPost, "/api/cart", token, gin.H{"product_id": 1, "quantity": 2})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(router, http.MethodGet, "/api/cart", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var cart struct {
		Items []struct {
			ID       int64 `json:"id"`
			Quantity int   `json:"quantity"`
		} `json:"items"`
		Total float64 `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cart))
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 3, cart.Items[0].Quantity)
	assert.Equal(t, float64(3*999), cart.Total)

	// over-stock add is rejected
	w = doJSON(router, http.MethodPost, "/api/cart", token, gin.H{"product_id": 1, "quantity": 1000})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	itemID := cart.Items[0].ID
	w = doJSON(router, http.MethodPut, fmt.Sprintf("/api/cart/%d", itemID), token, gin.H{"quantity": 5})
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(router, http.MethodDelete, fmt.Sprintf("/api/cart/%d", itemID), token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(router, http.MethodDelete, fmt.Sprintf("/api/cart/%d", itemID), token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// unknown product is a 404
	w = doJSON(router, http.MethodPost, "/api/cart", token, gin.H{"product_id": 99999})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestLoginEndpoint(t *testing.T) {
	router := setupRouter(t)
	registerUser(t, router, "login@example.com")

	w := doJSON(router, http.MethodPost, "/api/auth/login", "", gin.H{
		"email": "login@example.com", "password": "secret123",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(router, http.MethodPost, "/api/auth/login", "", gin.H{
		"email": "login@example.com", "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
