package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/marketplace-backend/internal/domain/content"
)

// ContentHandler serves read-only site content
type ContentHandler struct {
	contentService *content.Service
	log            logrus.FieldLogger
}

// NewContentHandler creates a new content handler
func NewContentHandler(contentService *content.Service, log logrus.FieldLogger) *ContentHandler {
	return &ContentHandler{contentService: contentService, log: log}
}

// ListEntries handles GET /addons/:kind
func (h *ContentHandler) ListEntries(c *gin.Context) {
	entries, err := h.contentService.List(c.Request.Context(), content.Kind(c.Param("kind")))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respondOK(c, http.StatusOK, "Content retrieved successfully", entries)
}

// GetEntry handles GET /addons/:kind/:id
func (h *ContentHandler) GetEntry(c *gin.Context) {
	id, ok := uintParam(c, h.log, "id")
	if !ok {
		return
	}

	entry, err := h.contentService.Get(c.Request.Context(), content.Kind(c.Param("kind")), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respondOK(c, http.StatusOK, "Content retrieved successfully", entry)
}
