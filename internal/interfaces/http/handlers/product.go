// internal/interfaces/http/handlers/product.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/marketplace-backend/internal/domain/product"
)

// ProductHandler handles product endpoints
type ProductHandler struct {
	productService *product.Service
	log            logrus.FieldLogger
}

// NewProductHandler creates a new product handler
func NewProductHandler(productService *product.Service, log logrus.FieldLogger) *ProductHandler {
	return &ProductHandler{productService: productService, log: log}
}

// GetProducts handles GET /products
func (h *ProductHandler) GetProducts(c *gin.Context) {
	var req product.ProductListRequest
	if !bindQuery(c, &req) {
		return
	}

	products, err := h.productService.GetProducts(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	respondOK(c, http.StatusOK, "Products retrieved successfully", products)
}

// GetProduct handles GET /products/:slug
func (h *ProductHandler) GetProduct(c *gin.Context) {
	p, err := h.productService.GetProductBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	respondOK(c, http.StatusOK, "Product retrieved successfully", p)
}

// CreateProduct handles POST /products
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	sellerID, ok := currentUser(c, h.log)
	if !ok {
		return
	}

	var req product.ProductCreateRequest
	if !bindJSON(c, &req) {
		return
	}

	p, err := h.productService.CreateProduct(c.Request.Context(), sellerID, &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	respondOK(c, http.StatusCreated, "Product created successfully", p)
}

// UpdateProduct handles PATCH /products/:slug
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	sellerID, ok := currentUser(c, h.log)
	if !ok {
		return
	}

	var req product.ProductUpdateRequest
	if !bindJSON(c, &req) {
		return
	}

	p, err := h.productService.UpdateProduct(c.Request.Context(), sellerID, c.Param("slug"), &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	respondOK(c, http.StatusOK, "Product updated successfully", p)
}

// DeleteProduct handles DELETE /products/:slug
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	sellerID, ok := currentUser(c, h.log)
	if !ok {
		return
	}

	if err := h.productService.DeleteProduct(c.Request.Context(), sellerID, c.Param("slug")); err != nil {
		respondError(c, h.log, err)
		return
	}

	c.Status(http.StatusNoContent)
}
