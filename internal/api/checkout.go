package api

import (
	"net/http"

	"mobile-store/internal/service"

	"github.com/gin-gonic/gin"
)

type checkoutRequest struct {
	ShippingAddress string `json:"shipping_address" binding:"required"`
	PaymentMethod   string `json:"payment_method" binding:"required,oneof=credit_card debit_card paypal cash_on_delivery"`
}

// placeOrder handles checkout for the caller's cart
func (h *Handler) placeOrder(c *gin.Context) {
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Shipping address and payment method are required"})
		return
	}

	result, err := h.checkout.PlaceOrder(c.Request.Context(), service.PlaceOrderRequest{
		UserID:          userID(c),
		ShippingAddress: req.ShippingAddress,
		PaymentMethod:   req.PaymentMethod,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Order created successfully",
		"orderId": result.OrderID,
		"total":   result.Total,
	})
}
