// internal/interfaces/http/handlers/invoice.go
package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/marketplace-backend/internal/domain/order"
	"github.com/your-org/marketplace-backend/internal/pkg/pdf"
)

// InvoiceHandler serves order invoices
type InvoiceHandler struct {
	orderService *order.Service
	pdfService   *pdf.Service
	log          logrus.FieldLogger
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler(orderService *order.Service, pdfService *pdf.Service, log logrus.FieldLogger) *InvoiceHandler {
	return &InvoiceHandler{orderService: orderService, pdfService: pdfService, log: log}
}

// DownloadInvoice handles GET /orders/:id/invoice. When PDF rendering is
// disabled the HTML invoice is returned instead.
func (h *InvoiceHandler) DownloadInvoice(c *gin.Context) {
	req, id, ok := orderParams(c, h.log)
	if !ok {
		return
	}

	o, err := h.orderService.GetOrder(c.Request.Context(), req, id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	buf, err := h.pdfService.GenerateInvoice(o)
	if errors.Is(err, pdf.ErrDisabled) {
		page, err := h.pdfService.RenderHTML(o)
		if err != nil {
			respondError(c, h.log, err)
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", page)
		return
	}
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	h.log.WithFields(logrus.Fields{"order_id": o.ID, "size": buf.Len()}).Debug("invoice generated")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, pdf.InvoiceFilename(o)))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}
