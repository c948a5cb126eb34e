package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type addToCartRequest struct {
	ProductID int64 `json:"product_id" binding:"required"`
	Quantity  int   `json:"quantity"`
}

type updateCartRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

// getCart returns the caller's cart with a running total
func (h *Handler) getCart(c *gin.Context) {
	cart, err := h.cart.Cart(c.Request.Context(), userID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

// addToCart adds a product to the caller's cart, merging existing lines
func (h *Handler) addToCart(c *gin.Context) {
	var req addToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Product ID is required"})
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	quantity, created, err := h.cart.AddItem(c.Request.Context(), userID(c), req.ProductID, req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}

	if created {
		c.JSON(http.StatusCreated, gin.H{"message": "Item added to cart"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Cart item updated", "quantity": quantity})
}

// updateCartItem sets the quantity of one cart line
func (h *Handler) updateCartItem(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid cart item ID"})
		return
	}

	var req updateCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Valid quantity is required"})
		return
	}

	if err := h.cart.UpdateItem(c.Request.Context(), userID(c), id, req.Quantity); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Cart item updated", "quantity": req.Quantity})
}

// removeCartItem deletes one cart line
func (h *Handler) removeCartItem(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid cart item ID"})
		return
	}

	if err := h.cart.RemoveItem(c.Request.Context(), userID(c), id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Item removed from cart"})
}
