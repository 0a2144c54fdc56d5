package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"vnshop/internal/domain"
	"vnshop/internal/service"
	"vnshop/internal/vnpay"
)

type VNPayHandler struct {
	payments service.PaymentService
}

func NewVNPayHandler(payments service.PaymentService) *VNPayHandler {
	return &VNPayHandler{payments: payments}
}

// CreatePaymentURL hands the browser a signed redirect URL for a pending
// order.
func (h *VNPayHandler) CreatePaymentURL(c *gin.Context) {
	orderID, err := uuid.Parse(c.Query("orderId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid orderId"})
		return
	}

	paymentURL, err := h.payments.CreatePaymentURL(c.Request.Context(), orderID, c.ClientIP())
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrOrderNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, domain.ErrOrderSettled):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"paymentUrl": paymentURL})
}

// Return receives the gateway callback, verifies it and reports the outcome.
func (h *VNPayHandler) Return(c *gin.Context) {
	result, err := h.payments.HandleReturn(c.Request.Context(), c.Request.URL.Query())
	if err != nil {
		switch {
		case errors.Is(err, vnpay.ErrInvalidSignature):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, domain.ErrOrderNotFound):
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": err.Error()})
		case errors.Is(err, domain.ErrOrderSettled):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, result)
}
