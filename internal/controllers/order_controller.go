package controllers

import (
	"net/http"

	"github.com/bhoomika11-art/OIBSIP-pizza-app/internal/events"
	"github.com/bhoomika11-art/OIBSIP-pizza-app/internal/middleware"
	"github.com/bhoomika11-art/OIBSIP-pizza-app/internal/models"
	"github.com/bhoomika11-art/OIBSIP-pizza-app/internal/services"
	"github.com/gin-gonic/gin"
)

type OrderController struct {
	orders services.OrderService
	hub    *events.Hub
}

func NewOrderController(orders services.OrderService, hub *events.Hub) *OrderController {
	return &OrderController{orders: orders, hub: hub}
}

// PlaceOrderResponse acknowledges a placed order
type PlaceOrderResponse struct {
	OrderID string `json:"orderId"`
	Message string `json:"message" example:"Order placed successfully"`
}

// OrderMessageResponse acknowledges a change to an order
type OrderMessageResponse struct {
	Message string        `json:"message"`
	Order   *models.Order `json:"order,omitempty"`
}

// PaymentRequest carries the external payment reference
type PaymentRequest struct {
	PaymentID string `json:"paymentId" binding:"required" example:"pay_3NfX2k"`
}

// PlaceOrder godoc
// @Summary Place an order
// @Description Create an order with its items and toppings and decrement ingredient stock, atomically
// @Tags Orders
// @Accept json
// @Produce json
// @Param order body services.PlaceOrderRequest true "Checkout payload"
// @Success 200 {object} PlaceOrderResponse
// @Failure 400 {object} models.APIError "Validation failed"
// @Failure 401 {object} models.OAuth2Error
// @Failure 404 {object} models.APIError "Unknown ingredient or variety"
// @Failure 500 {object} models.APIError
// @Security BearerAuth
// @Router /api/orders [post]
func (oc *OrderController) PlaceOrder(c *gin.Context) {
	var req services.PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	order, err := oc.orders.PlaceOrder(c.Request.Context(), c.GetString(middleware.ContextUserID), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, PlaceOrderResponse{OrderID: order.ID, Message: "Order placed successfully"})
}

// ConfirmPayment godoc
// @Summary Confirm payment
// @Description Record the payment reference of an order. The delivery status is not changed.
// @Tags Orders
// @Accept json
// @Produce json
// @Param orderId path string true "Order ID"
// @Param payment body PaymentRequest true "Payment reference"
// @Success 200 {object} OrderMessageResponse
// @Failure 400 {object} models.APIError
// @Failure 403 {object} models.APIError "Not the order owner"
// @Failure 404 {object} models.APIError
// @Security BearerAuth
// @Router /api/orders/{orderId}/payment [post]
func (oc *OrderController) ConfirmPayment(c *gin.Context) {
	var req PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, _ := middleware.CurrentUser(c)
	order, err := oc.orders.ConfirmPayment(c.Request.Context(), c.Param("orderId"), user, req.PaymentID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, OrderMessageResponse{Message: "Payment confirmed successfully", Order: order})
}

// ListUserOrders godoc
// @Summary List my orders
// @Description Get the caller's orders, newest first, with items, toppings and ingredient details
// @Tags Orders
// @Produce json
// @Success 200 {array} models.Order
// @Failure 401 {object} models.OAuth2Error
// @Security BearerAuth
// @Router /api/orders/user [get]
func (oc *OrderController) ListUserOrders(c *gin.Context) {
	orders, err := oc.orders.GetUserOrders(c.Request.Context(), c.GetString(middleware.ContextUserID))
	if err != nil {
		respondError(c, err)
		return
	}
	if orders == nil {
		orders = []models.Order{}
	}
	c.JSON(http.StatusOK, orders)
}

// StatusHistory godoc
// @Summary Order status history
// @Description Get every status the order has been put in, oldest first. Owner or admin only.
// @Tags Orders
// @Produce json
// @Param orderId path string true "Order ID"
// @Success 200 {array} models.OrderStatusLog
// @Failure 403 {object} models.APIError
// @Failure 404 {object} models.APIError
// @Security BearerAuth
// @Router /api/orders/{orderId}/history [get]
func (oc *OrderController) StatusHistory(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	history, err := oc.orders.GetStatusHistory(c.Request.Context(), c.Param("orderId"), user)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, history)
}

// Events godoc
// @Summary Stream my order events
// @Description Server-sent events for the caller's orders (created, status changed, paid)
// @Tags Orders
// @Produce text/event-stream
// @Success 200 {object} events.Event
// @Security BearerAuth
// @Router /api/orders/events [get]
func (oc *OrderController) Events(c *gin.Context) {
	streamEvents(c, oc.hub, events.TopicUser(c.GetString(middleware.ContextUserID)))
}
