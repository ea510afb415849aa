// internal/interfaces/http/handlers/user_profile.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/marketplace-backend/internal/domain/user"
)

// UserProfileHandler handles the current user's profile and shop
type UserProfileHandler struct {
	userService *user.Service
	log         logrus.FieldLogger
}

// NewUserProfileHandler creates a new profile handler
func NewUserProfileHandler(userService *user.Service, log logrus.FieldLogger) *UserProfileHandler {
	return &UserProfileHandler{userService: userService, log: log}
}

// ChangePasswordRequest represents a password change
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
}

// GetProfile handles GET /users/me
func (h *UserProfileHandler) GetProfile(c *gin.Context) {
	userID, ok := currentUser(c, h.log)
	if !ok {
		return
	}

	profile, err := h.userService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	respondOK(c, http.StatusOK, "Profile retrieved successfully", profile)
}

// UpdateProfile handles PATCH /users/me
func (h *UserProfileHandler) UpdateProfile(c *gin.Context) {
	userID, ok := currentUser(c, h.log)
	if !ok {
		return
	}

	var req user.UpdateProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	profile, err := h.userService.UpdateProfile(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	respondOK(c, http.StatusOK, "Profile updated successfully", profile)
}

// ChangePassword handles POST /users/me/password
func (h *UserProfileHandler) ChangePassword(c *gin.Context) {
	userID, ok := currentUser(c, h.log)
	if !ok {
		return
	}

	var req ChangePasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.userService.ChangePassword(c.Request.Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		respondError(c, h.log, err)
		return
	}

	respondOK(c, http.StatusOK, "Password changed successfully", nil)
}

// GetSellerShop handles GET /users/seller-shop
func (h *UserProfileHandler) GetSellerShop(c *gin.Context) {
	userID, ok := currentUser(c, h.log)
	if !ok {
		return
	}

	shop, err := h.userService.GetSellerShop(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	respondOK(c, http.StatusOK, "Shop retrieved successfully", shop)
}

// UpdateSellerShop handles PATCH /users/seller-shop
func (h *UserProfileHandler) UpdateSellerShop(c *gin.Context) {
	userID, ok := currentUser(c, h.log)
	if !ok {
		return
	}

	var req user.UpdateShopRequest
	if !bindJSON(c, &req) {
		return
	}

	shop, err := h.userService.UpdateSellerShop(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	respondOK(c, http.StatusOK, "Shop updated successfully", shop)
}
