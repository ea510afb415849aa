// internal/interfaces/http/handlers/category.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/marketplace-backend/internal/domain/product"
)

// CatalogHandler handles categories, brands and variant attributes
type CatalogHandler struct {
	catalogService *product.CatalogService
	log            logrus.FieldLogger
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalogService *product.CatalogService, log logrus.FieldLogger) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService, log: log}
}

// GetCategories handles GET /categories
func (h *CatalogHandler) GetCategories(c *gin.Context) {
	categories, err := h.catalogService.GetCategories(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respondOK(c, http.StatusOK, "Categories retrieved successfully", categories)
}

// CreateCategory handles POST /categories
func (h *CatalogHandler) CreateCategory(c *gin.Context) {
	var req product.NamedCreateRequest
	if !bindJSON(c, &req) {
		return
	}
	category, err := h.catalogService.CreateCategory(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respondOK(c, http.StatusCreated, "Category created successfully", category)
}

// GetBrands handles GET /brands
func (h *CatalogHandler) GetBrands(c *gin.Context) {
	brands, err := h.catalogService.GetBrands(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respondOK(c, http.StatusOK, "Brands retrieved successfully", brands)
}

// CreateBrand handles POST /brands
func (h *CatalogHandler) CreateBrand(c *gin.Context) {
	var req product.NamedCreateRequest
	if !bindJSON(c, &req) {
		return
	}
	brand, err := h.catalogService.CreateBrand(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respondOK(c, http.StatusCreated, "Brand created successfully", brand)
}

// GetAttributes handles GET /attributes
func (h *CatalogHandler) GetAttributes(c *gin.Context) {
	attributes, err := h.catalogService.GetAttributes(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respondOK(c, http.StatusOK, "Attributes retrieved successfully", attributes)
}

// CreateAttribute handles POST /attributes
func (h *CatalogHandler) CreateAttribute(c *gin.Context) {
	var req product.AttributeCreateRequest
	if !bindJSON(c, &req) {
		return
	}
	attribute, err := h.catalogService.CreateAttribute(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respondOK(c, http.StatusCreated, "Attribute created successfully", attribute)
}

// GetAttributeValues handles GET /attribute-values
func (h *CatalogHandler) GetAttributeValues(c *gin.Context) {
	values, err := h.catalogService.GetAttributeValues(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respondOK(c, http.StatusOK, "Attribute values retrieved successfully", values)
}

// CreateAttributeValue handles POST /attribute-values
func (h *CatalogHandler) CreateAttributeValue(c *gin.Context) {
	var req product.AttributeValueCreateRequest
	if !bindJSON(c, &req) {
		return
	}
	value, err := h.catalogService.CreateAttributeValue(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respondOK(c, http.StatusCreated, "Attribute value created successfully", value)
}
