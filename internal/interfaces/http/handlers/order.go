// internal/interfaces/http/handlers/order.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/marketplace-backend/internal/domain/order"
	"github.com/your-org/marketplace-backend/internal/interfaces/http/middleware"
)

// OrderHandler handles order endpoints
type OrderHandler struct {
	orderService *order.Service
	taxResolver  *order.TaxResolver
	log          logrus.FieldLogger
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderService *order.Service, taxResolver *order.TaxResolver, log logrus.FieldLogger) *OrderHandler {
	return &OrderHandler{orderService: orderService, taxResolver: taxResolver, log: log}
}

// CreateOrder handles POST /orders
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	userID, ok := currentUser(c, h.log)
	if !ok {
		return
	}

	var req order.CreateOrderRequest
	if !bindJSON(c, &req) {
		return
	}

	ctx := c.Request.Context()
	tax, err := h.taxResolver.Default(ctx)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	input, err := order.NewPlaceOrderInput(userID, &req, tax)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	placed, err := h.orderService.PlaceOrder(ctx, input)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	respondOK(c, http.StatusCreated, "Order created successfully", order.NewResponse(placed))
}

// GetOrders handles GET /orders
func (h *OrderHandler) GetOrders(c *gin.Context) {
	req, ok := orderRequester(c, h.log)
	if !ok {
		return
	}

	var params order.ListRequest
	if !bindQuery(c, &params) {
		return
	}

	orders, err := h.orderService.ListOrders(c.Request.Context(), req, &params)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	respondOK(c, http.StatusOK, "Orders retrieved successfully", order.NewResponses(orders))
}

// GetOrder handles GET /orders/:id
func (h *OrderHandler) GetOrder(c *gin.Context) {
	req, id, ok := orderParams(c, h.log)
	if !ok {
		return
	}

	o, err := h.orderService.GetOrder(c.Request.Context(), req, id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	respondOK(c, http.StatusOK, "Order retrieved successfully", order.NewResponse(o))
}

// UpdateStatus handles PATCH /orders/:id
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	req, id, ok := orderParams(c, h.log)
	if !ok {
		return
	}

	var in order.UpdateStatusRequest
	if !bindJSON(c, &in) {
		return
	}

	o, err := h.orderService.UpdateStatus(c.Request.Context(), req, id, &in)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	respondOK(c, http.StatusOK, "Order status updated successfully", order.NewResponse(o))
}

// DeleteOrder handles DELETE /orders/:id
func (h *OrderHandler) DeleteOrder(c *gin.Context) {
	req, id, ok := orderParams(c, h.log)
	if !ok {
		return
	}

	if err := h.orderService.DeleteOrder(c.Request.Context(), req, id); err != nil {
		respondError(c, h.log, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// MarkPaid handles PATCH /orders/:id/pay
func (h *OrderHandler) MarkPaid(c *gin.Context) {
	req, id, ok := orderParams(c, h.log)
	if !ok {
		return
	}

	o, err := h.orderService.MarkPaid(c.Request.Context(), req, id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	respondOK(c, http.StatusOK, "Order was paid", order.NewResponse(o))
}

// MarkDelivered handles PATCH /orders/:id/deliver
func (h *OrderHandler) MarkDelivered(c *gin.Context) {
	req, id, ok := orderParams(c, h.log)
	if !ok {
		return
	}

	o, err := h.orderService.MarkDelivered(c.Request.Context(), req, id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	respondOK(c, http.StatusOK, "Order was delivered", order.NewResponse(o))
}

func orderRequester(c *gin.Context, log logrus.FieldLogger) (order.Requester, bool) {
	userID, ok := currentUser(c, log)
	if !ok {
		return order.Requester{}, false
	}
	return order.Requester{UserID: userID, IsStaff: middleware.IsStaffFromContext(c)}, true
}

func orderParams(c *gin.Context, log logrus.FieldLogger) (order.Requester, uint, bool) {
	req, ok := orderRequester(c, log)
	if !ok {
		return req, 0, false
	}
	id, ok := uintParam(c, log, "id")
	return req, id, ok
}
