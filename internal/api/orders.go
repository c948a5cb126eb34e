package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// listOrders returns the caller's order history, newest first
func (h *Handler) listOrders(c *gin.Context) {
	orders, err := h.orders.Orders(c.Request.Context(), userID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

// getOrder returns one of the caller's orders with its lines
func (h *Handler) getOrder(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
		return
	}

	order, err := h.orders.Order(c.Request.Context(), userID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}
