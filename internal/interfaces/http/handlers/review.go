// internal/interfaces/http/handlers/review.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/marketplace-backend/internal/domain/product"
)

// ReviewHandler handles the caller's review of a product
type ReviewHandler struct {
	reviewService *product.ReviewService
	log           logrus.FieldLogger
}

// NewReviewHandler creates a new review handler
func NewReviewHandler(reviewService *product.ReviewService, log logrus.FieldLogger) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService, log: log}
}

// CreateReview handles POST /products/:slug/review
func (h *ReviewHandler) CreateReview(c *gin.Context) {
	userID, ok := currentUser(c, h.log)
	if !ok {
		return
	}

	var req product.CreateReviewRequest
	if !bindJSON(c, &req) {
		return
	}

	review, err := h.reviewService.CreateReview(c.Request.Context(), userID, c.Param("slug"), &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	respondOK(c, http.StatusCreated, "Review created successfully", review)
}

// UpdateReview handles PATCH /products/:slug/review
func (h *ReviewHandler) UpdateReview(c *gin.Context) {
	userID, ok := currentUser(c, h.log)
	if !ok {
		return
	}

	var req product.UpdateReviewRequest
	if !bindJSON(c, &req) {
		return
	}

	review, err := h.reviewService.UpdateReview(c.Request.Context(), userID, c.Param("slug"), &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	respondOK(c, http.StatusOK, "Review updated successfully", review)
}

// DeleteReview handles DELETE /products/:slug/review
func (h *ReviewHandler) DeleteReview(c *gin.Context) {
	userID, ok := currentUser(c, h.log)
	if !ok {
		return
	}

	if err := h.reviewService.DeleteReview(c.Request.Context(), userID, c.Param("slug")); err != nil {
		respondError(c, h.log, err)
		return
	}

	c.Status(http.StatusNoContent)
}
