package controllers

import (
	"math"
	"net/http"

	"github.com/bhoomika11-art/OIBSIP-pizza-app/internal/events"
	"github.com/bhoomika11-art/OIBSIP-pizza-app/internal/middleware"
	"github.com/bhoomika11-art/OIBSIP-pizza-app/internal/models"
	"github.com/bhoomika11-art/OIBSIP-pizza-app/internal/services"
	"github.com/gin-gonic/gin"
)

type AdminController struct {
	orders    services.OrderService
	inventory services.InventoryService
	reports   services.ReportService
	hub       *events.Hub
}

func NewAdminController(orders services.OrderService, inventory services.InventoryService, reports services.ReportService, hub *events.Hub) *AdminController {
	return &AdminController{orders: orders, inventory: inventory, reports: reports, hub: hub}
}

// StatusUpdateRequest moves an order to another status
type StatusUpdateRequest struct {
	Status string `json:"status" binding:"required" example:"kitchen"`
}

// StockUpdateRequest applies a signed delta to one ingredient row
type StockUpdateRequest struct {
	Type     string   `json:"type" binding:"required" example:"topping"`
	ID       *FlexInt `json:"id" binding:"required" swaggertype:"integer" example:"3"`
	Quantity *FlexInt `json:"quantity" binding:"required" swaggertype:"integer" example:"25"`
}

// StockUpdateResponse acknowledges a stock change
type StockUpdateResponse struct {
	Message string             `json:"message"`
	Item    *models.Ingredient `json:"item"`
}

// ListOrders godoc
// @Summary List all orders
// @Description Get every order, newest first, with items and the owning user
// @Tags Admin
// @Produce json
// @Success 200 {array} models.Order
// @Failure 403 {object} models.APIError
// @Security BearerAuth
// @Router /api/admin/orders [get]
func (ac *AdminController) ListOrders(c *gin.Context) {
	orders, err := ac.orders.GetAllOrders(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	if orders == nil {
		orders = []models.Order{}
	}
	c.JSON(http.StatusOK, orders)
}

// UpdateOrderStatus godoc
// @Summary Update order status
// @Description Set the delivery status of an order
// @Tags Admin
// @Accept json
// @Produce json
// @Param orderId path string true "Order ID"
// @Param status body StatusUpdateRequest true "One of received, kitchen, delivery, delivered"
// @Success 200 {object} OrderMessageResponse
// @Failure 400 {object} models.APIError "Unknown status"
// @Failure 403 {object} models.APIError
// @Failure 404 {object} models.APIError
// @Failure 409 {object} models.APIError "Transition not allowed"
// @Security BearerAuth
// @Router /api/admin/orders/{orderId}/status [patch]
func (ac *AdminController) UpdateOrderStatus(c *gin.Context) {
	var req StatusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	order, err := ac.orders.UpdateOrderStatus(c.Request.Context(), c.Param("orderId"), req.Status, c.GetString(middleware.ContextUserID))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, OrderMessageResponse{Message: "Order status updated successfully", Order: order})
}

// Stats godoc
// @Summary Order statistics
// @Description Total orders, orders not yet delivered and revenue of paid orders created today (UTC)
// @Tags Admin
// @Produce json
// @Success 200 {object} models.OrderStats
// @Failure 403 {object} models.APIError
// @Security BearerAuth
// @Router /api/admin/stats [get]
func (ac *AdminController) Stats(c *gin.Context) {
	stats, err := ac.reports.GetOrderStats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// LowStock godoc
// @Summary Low stock ingredients
// @Description Active ingredients whose stock is at or below their threshold
// @Tags Admin
// @Produce json
// @Success 200 {array} models.LowStockItem
// @Failure 403 {object} models.APIError
// @Security BearerAuth
// @Router /api/admin/inventory/low-stock [get]
func (ac *AdminController) LowStock(c *gin.Context) {
	items, err := ac.inventory.GetLowStockItems(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// UpdateStock godoc
// @Summary Adjust ingredient stock
// @Description Add a signed quantity to one ingredient's stock
// @Tags Admin
// @Accept json
// @Produce json
// @Param update body StockUpdateRequest true "Ingredient type (base, sauce, cheese, topping), id and delta"
// @Success 200 {object} StockUpdateResponse
// @Failure 400 {object} models.APIError "Invalid type"
// @Failure 404 {object} models.APIError
// @Security BearerAuth
// @Router /api/admin/inventory/update-stock [post]
func (ac *AdminController) UpdateStock(c *gin.Context) {
	var req StockUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	id, delta := int64(*req.ID), int64(*req.Quantity)
	if id <= 0 || id > math.MaxUint32 {
		respondError(c, &services.ValidationError{Field: "id", Message: "must be a positive integer"})
		return
	}
	if delta < math.MinInt32 || delta > math.MaxInt32 {
		respondError(c, &services.ValidationError{Field: "quantity", Message: "is out of range"})
		return
	}

	item, err := ac.inventory.UpdateIngredientStock(c.Request.Context(), req.Type, uint(id), int(delta))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, StockUpdateResponse{Message: "Stock updated successfully", Item: item})
}

// PopularItems godoc
// @Summary Popular toppings
// @Description Toppings ranked by the number of order items that selected them
// @Tags Admin
// @Produce json
// @Success 200 {array} models.PopularItem
// @Failure 403 {object} models.APIError
// @Security BearerAuth
// @Router /api/admin/analytics/popular [get]
func (ac *AdminController) PopularItems(c *gin.Context) {
	items, err := ac.reports.GetPopularItems(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// Events godoc
// @Summary Stream all order events
// @Description Server-sent events for every order
// @Tags Admin
// @Produce text/event-stream
// @Success 200 {object} events.Event
// @Security BearerAuth
// @Router /api/admin/orders/events [get]
func (ac *AdminController) Events(c *gin.Context) {
	streamEvents(c, ac.hub, events.TopicOrders())
}
