package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"vnshop/internal/domain"
	"vnshop/internal/service"
)

type CreateOrderRequest struct {
	CartID        string `json:"cartId" binding:"required"`
	AttemptKey    string `json:"attemptKey"`
	RushOrder     bool   `json:"placeRushOrder"`
	PaymentMethod string `json:"paymentMethod" binding:"required,oneof=cod vnpay"`
}

type OrderHandler struct {
	orders service.OrderService
}

func NewOrderHandler(orders service.OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// Create makes an order from a cart. Clients that retry pass the same
// attemptKey and get the order back instead of a duplicate.
func (h *OrderHandler) Create(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cartID, err := uuid.Parse(req.CartID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid cartId"})
		return
	}
	attemptKey := uuid.New()
	if req.AttemptKey != "" {
		attemptKey, err = uuid.Parse(req.AttemptKey)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid attemptKey"})
			return
		}
	}

	order, err := h.orders.CreateOrder(c.Request.Context(), service.CreateOrderInput{
		CartID:        cartID,
		AttemptKey:    attemptKey,
		RushOrder:     req.RushOrder,
		PaymentMethod: domain.PaymentMethod(req.PaymentMethod),
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrCartNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, domain.ErrEmptyCart), errors.Is(err, domain.ErrDataIntegrity):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusCreated, orderResponse(order, nil))
}

// Get returns an order with its buyer resolved.
func (h *OrderHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}

	order, buyer, err := h.orders.GetOrder(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, orderResponse(order, buyer))
}

func orderResponse(order *domain.Order, buyer *domain.Buyer) gin.H {
	res := gin.H{
		"id":             order.ID,
		"cartId":         order.CartID,
		"totalPrice":     order.TotalPrice,
		"placeRushOrder": order.RushOrder,
		"paymentMethod":  order.PaymentMethod,
		"status":         order.Status,
		"createdAt":      order.CreatedAt,
		"updatedAt":      order.UpdatedAt,
	}
	if buyer != nil {
		res["buyer"] = gin.H{
			"id":    buyer.ID,
			"name":  buyer.Name,
			"email": buyer.Email,
		}
	}
	return res
}
