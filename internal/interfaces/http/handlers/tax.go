// internal/interfaces/http/handlers/tax.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/marketplace-backend/internal/domain/order"
)

// TaxHandler handles tax endpoints
type TaxHandler struct {
	taxService *order.TaxService
	log        logrus.FieldLogger
}

// NewTaxHandler creates a new tax handler
func NewTaxHandler(taxService *order.TaxService, log logrus.FieldLogger) *TaxHandler {
	return &TaxHandler{taxService: taxService, log: log}
}

// GetTaxes handles GET /taxes
func (h *TaxHandler) GetTaxes(c *gin.Context) {
	taxes, err := h.taxService.ListTaxes(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respondOK(c, http.StatusOK, "Taxes retrieved successfully", taxes)
}

// CreateTax handles POST /taxes
func (h *TaxHandler) CreateTax(c *gin.Context) {
	var req order.CreateTaxRequest
	if !bindJSON(c, &req) {
		return
	}

	tax, err := h.taxService.CreateTax(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	respondOK(c, http.StatusCreated, "Tax created successfully", tax)
}
