// internal/interfaces/http/handlers/cart.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/your-org/marketplace-backend/internal/domain/cart"
	"github.com/your-org/marketplace-backend/internal/interfaces/http/middleware"
)

// CartHandler handles cart endpoints
type CartHandler struct {
	cartService *cart.Service
	log         logrus.FieldLogger
}

// NewCartHandler creates a new cart handler
func NewCartHandler(cartService *cart.Service, log logrus.FieldLogger) *CartHandler {
	return &CartHandler{cartService: cartService, log: log}
}

// CreateCart handles POST /carts. An existing cart is returned with 200.
func (h *CartHandler) CreateCart(c *gin.Context) {
	userID, ok := currentUser(c, h.log)
	if !ok {
		return
	}

	resp, created, err := h.cartService.CreateCart(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	if created {
		respondOK(c, http.StatusCreated, "Cart created successfully", resp)
		return
	}
	respondOK(c, http.StatusOK, "Cart retrieved successfully", resp)
}

// ListCarts handles GET /carts
func (h *CartHandler) ListCarts(c *gin.Context) {
	req, ok := h.requester(c)
	if !ok {
		return
	}

	carts, err := h.cartService.ListCarts(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	respondOK(c, http.StatusOK, "Carts retrieved successfully", carts)
}

// GetCart handles GET /carts/:id
func (h *CartHandler) GetCart(c *gin.Context) {
	req, cartID, ok := h.cartParams(c)
	if !ok {
		return
	}

	resp, err := h.cartService.GetCart(c.Request.Context(), cartID, req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	respondOK(c, http.StatusOK, "Cart retrieved successfully", resp)
}

// DeleteCart handles DELETE /carts/:id
func (h *CartHandler) DeleteCart(c *gin.Context) {
	req, cartID, ok := h.cartParams(c)
	if !ok {
		return
	}

	if err := h.cartService.DeleteCart(c.Request.Context(), cartID, req); err != nil {
		respondError(c, h.log, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ListItems handles GET /carts/:id/items
func (h *CartHandler) ListItems(c *gin.Context) {
	req, cartID, ok := h.cartParams(c)
	if !ok {
		return
	}

	items, err := h.cartService.ListItems(c.Request.Context(), cartID, req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	respondOK(c, http.StatusOK, "Cart items retrieved successfully", items)
}

// AddItem handles POST /carts/:id/items
func (h *CartHandler) AddItem(c *gin.Context) {
	req, cartID, ok := h.cartParams(c)
	if !ok {
		return
	}

	var in cart.AddItemRequest
	if !bindJSON(c, &in) {
		return
	}

	item, err := h.cartService.AddItem(c.Request.Context(), cartID, req, &in)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	respondOK(c, http.StatusCreated, "Item added to cart successfully", item)
}

// ClearItems handles DELETE /carts/:id/items
func (h *CartHandler) ClearItems(c *gin.Context) {
	req, cartID, ok := h.cartParams(c)
	if !ok {
		return
	}

	if _, err := h.cartService.ClearItems(c.Request.Context(), cartID, req); err != nil {
		respondError(c, h.log, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// GetItem handles GET /carts/:id/items/:item_id
func (h *CartHandler) GetItem(c *gin.Context) {
	req, cartID, ok := h.cartParams(c)
	if !ok {
		return
	}
	itemID, ok := uintParam(c, h.log, "item_id")
	if !ok {
		return
	}

	item, err := h.cartService.GetItem(c.Request.Context(), cartID, itemID, req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	respondOK(c, http.StatusOK, "Cart item retrieved successfully", item)
}

// UpdateItem handles PATCH /carts/:id/items/:item_id
func (h *CartHandler) UpdateItem(c *gin.Context) {
	req, cartID, ok := h.cartParams(c)
	if !ok {
		return
	}
	itemID, ok := uintParam(c, h.log, "item_id")
	if !ok {
		return
	}

	var in cart.UpdateItemRequest
	if !bindJSON(c, &in) {
		return
	}

	item, err := h.cartService.UpdateItem(c.Request.Context(), cartID, itemID, req, &in)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	respondOK(c, http.StatusOK, "Cart item updated successfully", item)
}

// RemoveItem handles DELETE /carts/:id/items/:item_id
func (h *CartHandler) RemoveItem(c *gin.Context) {
	req, cartID, ok := h.cartParams(c)
	if !ok {
		return
	}
	itemID, ok := uintParam(c, h.log, "item_id")
	if !ok {
		return
	}

	if err := h.cartService.RemoveItem(c.Request.Context(), cartID, itemID, req); err != nil {
		respondError(c, h.log, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *CartHandler) requester(c *gin.Context) (cart.Requester, bool) {
	userID, ok := currentUser(c, h.log)
	if !ok {
		return cart.Requester{}, false
	}
	return cart.Requester{UserID: userID, IsStaff: middleware.IsStaffFromContext(c)}, true
}

// cartParams resolves the requester and the cart id. A malformed id is
// reported as a missing cart.
func (h *CartHandler) cartParams(c *gin.Context) (cart.Requester, uuid.UUID, bool) {
	req, ok := h.requester(c)
	if !ok {
		return req, uuid.Nil, false
	}
	cartID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, h.log, cart.ErrCartNotFound)
		return req, uuid.Nil, false
	}
	return req, cartID, true
}
