// internal/domain/user/service.go
package user

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/marketplace-backend/internal/config"
	"github.com/your-org/marketplace-backend/internal/pkg/apperror"
	"github.com/your-org/marketplace-backend/internal/pkg/auth"
	"github.com/your-org/marketplace-backend/internal/pkg/textutil"
	"gorm.io/gorm"
)

// Service handles user business logic
type Service struct {
	db              *gorm.DB
	config          *config.Config
	log             logrus.FieldLogger
	passwordManager *auth.PasswordManager
	jwtManager      *auth.JWTManager
}

// NewService creates a new user service
func NewService(db *gorm.DB, cfg *config.Config, log logrus.FieldLogger) *Service {
	return &Service{
		db:              db,
		config:          cfg,
		log:             log,
		passwordManager: auth.NewPasswordManager(cfg),
		jwtManager:      auth.NewJWTManager(cfg),
	}
}

// RegisterRequest represents user registration data
type RegisterRequest struct {
	Email           string `json:"email" binding:"required,email"`
	Username        string `json:"username" binding:"required,min=3,max=150"`
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"password2" binding:"required"`
	FirstName       string `json:"first_name" binding:"required"`
	LastName        string `json:"last_name" binding:"required"`
	Phone           string `json:"phone" binding:"omitempty,max=20"`
}

// RegisterSellerRequest registers a seller together with their shop
type RegisterSellerRequest struct {
	RegisterRequest
	ShopName        string `json:"shop_name" binding:"omitempty,max=255"`
	ShopDescription string `json:"shop_description"`
}

// LoginRequest represents user login data
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UpdateProfileRequest lists the editable profile fields
type UpdateProfileRequest struct {
	Username  *string `json:"username" binding:"omitempty,min=3,max=150"`
	FirstName *string `json:"first_name" binding:"omitempty,max=100"`
	LastName  *string `json:"last_name" binding:"omitempty,max=100"`
	Phone     *string `json:"phone" binding:"omitempty,max=20"`
}

// UpdateShopRequest lists the editable shop fields
type UpdateShopRequest struct {
	ShopName    *string `json:"shop_name" binding:"omitempty,min=1,max=255"`
	Description *string `json:"description"`
	Phone       *string `json:"phone" binding:"omitempty,max=20"`
	Email       *string `json:"email" binding:"omitempty,email"`
}

// AuthResponse represents authentication response
type AuthResponse struct {
	User         *User  `json:"user"`
	AccessToken  string `json:"access"`
	RefreshToken string `json:"refresh"`
	ExpiresIn    int64  `json:"expires_in"`
}

// Register creates a new customer account
func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error) {
	user, err := s.newUser(req, RoleCustomer)
	if err != nil {
		return nil, err
	}

	if err := s.ensureAvailable(ctx, user); err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, s.translateUserConflict(err, ErrEmailTaken)
	}

	s.log.WithField("user_id", user.ID).Info("customer registered")
	return s.issueTokens(ctx, user)
}

// RegisterSeller creates a seller account and its shop in one transaction
func (s *Service) RegisterSeller(ctx context.Context, req *RegisterSellerRequest) (*AuthResponse, error) {
	user, err := s.newUser(&req.RegisterRequest, RoleSeller)
	if err != nil {
		return nil, err
	}

	if err := s.ensureAvailable(ctx, user); err != nil {
		return nil, err
	}

	shopName := strings.TrimSpace(req.ShopName)
	if shopName == "" {
		shopName = user.Username
	}

	tx := s.db.WithContext(ctx).Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	if err := tx.Create(user).Error; err != nil {
		tx.Rollback()
		return nil, s.translateUserConflict(err, ErrEmailTaken)
	}

	shop := SellerShop{
		OwnerID:     user.ID,
		ShopName:    shopName,
		Slug:        textutil.Slugify(shopName) + "-" + strings.ToLower(textutil.RandomToken(4)),
		Description: req.ShopDescription,
		Phone:       user.Phone,
		Email:       user.Email,
	}
	if err := tx.Create(&shop).Error; err != nil {
		tx.Rollback()
		if apperror.IsUniqueViolation(err) {
			return nil, ErrShopNameTaken
		}
		return nil, fmt.Errorf("failed to create seller shop: %w", err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("failed to commit seller registration: %w", err)
	}

	user.SellerShop = &shop
	s.log.WithFields(logrus.Fields{"user_id": user.ID, "shop_id": shop.ID}).Info("seller registered")
	return s.issueTokens(ctx, user)
}

// Login authenticates a user
func (s *Service) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	var user User
	result := s.db.WithContext(ctx).Where("email = ? AND is_active = ?", strings.ToLower(req.Email), true).First(&user)
	if result.Error != nil {
		if apperror.IsNotFound(result.Error) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load user: %w", result.Error)
	}

	if err := s.passwordManager.VerifyPassword(req.Password, user.Password); err != nil {
		return nil, ErrInvalidCredentials
	}

	now := time.Now().UTC()
	user.LastLoginAt = &now
	if err := s.db.WithContext(ctx).Model(&user).Update("last_login_at", now).Error; err != nil {
		s.log.WithError(err).WithField("user_id", user.ID).Warn("failed to update last login")
	}

	return s.issueTokens(ctx, &user)
}

// RefreshToken generates new tokens using refresh token
func (s *Service) RefreshToken(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	claims, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, ErrInvalidRefresh.Wrap(err)
	}

	var user User
	if err := s.db.WithContext(ctx).Where("id = ? AND is_active = ?", claims.UserID, true).First(&user).Error; err != nil {
		return nil, ErrInvalidRefresh.Wrap(err)
	}

	accessToken, err := s.jwtManager.GenerateAccessToken(user.ID, user.Email, user.IsStaff)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	newRefreshToken := refreshToken
	if s.config.JWT.RefreshTokenRotation {
		newRefreshToken, err = s.jwtManager.GenerateRefreshToken(user.ID, user.Email)
		if err != nil {
			return nil, fmt.Errorf("failed to generate refresh token: %w", err)
		}
	}

	return &AuthResponse{
		User:         &user,
		AccessToken:  accessToken,
		RefreshToken: newRefreshToken,
		ExpiresIn:    int64(s.config.JWT.AccessTokenExpiry.Seconds()),
	}, nil
}

// GetProfile gets user profile by ID
func (s *Service) GetProfile(ctx context.Context, userID uint) (*User, error) {
	var user User
	err := s.db.WithContext(ctx).Preload("SellerShop").
		Where("id = ? AND is_active = ?", userID, true).
		First(&user).Error
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return &user, nil
}

// UpdateProfile updates the editable profile fields
func (s *Service) UpdateProfile(ctx context.Context, userID uint, req *UpdateProfileRequest) (*User, error) {
	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Username != nil {
		updates["username"] = strings.TrimSpace(*req.Username)
	}
	if req.FirstName != nil {
		updates["first_name"] = *req.FirstName
	}
	if req.LastName != nil {
		updates["last_name"] = *req.LastName
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if len(updates) == 0 {
		return user, nil
	}

	if err := s.db.WithContext(ctx).Model(user).Updates(updates).Error; err != nil {
		return nil, s.translateUserConflict(err, ErrUsernameTaken)
	}
	return s.GetProfile(ctx, userID)
}

// ChangePassword changes user password after verifying current password
func (s *Service) ChangePassword(ctx context.Context, userID uint, currentPassword, newPassword string) error {
	var user User
	if err := s.db.WithContext(ctx).Where("id = ? AND is_active = ?", userID, true).First(&user).Error; err != nil {
		return ErrUserNotFound
	}

	if err := s.passwordManager.VerifyPassword(currentPassword, user.Password); err != nil {
		return ErrInvalidCredentials.WithMessage("Current password is incorrect.")
	}

	hashedPassword, err := s.passwordManager.HashPassword(newPassword)
	if err != nil {
		return ErrWeakPassword.WithMessage(err.Error())
	}

	if err := s.db.WithContext(ctx).Model(&user).Update("password", hashedPassword).Error; err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

// GetSellerShop returns the shop owned by the user
func (s *Service) GetSellerShop(ctx context.Context, ownerID uint) (*SellerShop, error) {
	var shop SellerShop
	if err := s.db.WithContext(ctx).Where("owner_id = ?", ownerID).First(&shop).Error; err != nil {
		if apperror.IsNotFound(err) {
			return nil, ErrShopNotFound
		}
		return nil, fmt.Errorf("failed to load seller shop: %w", err)
	}
	return &shop, nil
}

// UpdateSellerShop updates the shop owned by the user
func (s *Service) UpdateSellerShop(ctx context.Context, ownerID uint, req *UpdateShopRequest) (*SellerShop, error) {
	shop, err := s.GetSellerShop(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.ShopName != nil {
		updates["shop_name"] = strings.TrimSpace(*req.ShopName)
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if req.Email != nil {
		updates["email"] = strings.ToLower(*req.Email)
	}
	if len(updates) == 0 {
		return shop, nil
	}

	if err := s.db.WithContext(ctx).Model(shop).Updates(updates).Error; err != nil {
		if apperror.IsUniqueViolation(err) {
			return nil, ErrShopNameTaken
		}
		return nil, fmt.Errorf("failed to update seller shop: %w", err)
	}
	return s.GetSellerShop(ctx, ownerID)
}

func (s *Service) newUser(req *RegisterRequest, role Role) (*User, error) {
	if req.Password != req.ConfirmPassword {
		return nil, ErrPasswordMismatch
	}

	hashedPassword, err := s.passwordManager.HashPassword(req.Password)
	if err != nil {
		return nil, ErrWeakPassword.WithMessage(err.Error()).Wrap(err)
	}

	return &User{
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
		Username:  strings.TrimSpace(req.Username),
		Password:  hashedPassword,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Role:      role,
		IsActive:  true,
	}, nil
}

func (s *Service) issueTokens(_ context.Context, user *User) (*AuthResponse, error) {
	accessToken, err := s.jwtManager.GenerateAccessToken(user.ID, user.Email, user.IsStaff)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := s.jwtManager.GenerateRefreshToken(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return &AuthResponse{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.config.JWT.AccessTokenExpiry.Seconds()),
	}, nil
}

// ensureAvailable gives precise messages for the common case; the unique
// indexes still decide under concurrent registrations.
func (s *Service) ensureAvailable(ctx context.Context, user *User) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&User{}).Where("email = ?", user.Email).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check email: %w", err)
	}
	if count > 0 {
		return ErrEmailTaken
	}
	if err := s.db.WithContext(ctx).Model(&User{}).Where("username = ?", user.Username).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check username: %w", err)
	}
	if count > 0 {
		return ErrUsernameTaken
	}
	return nil
}

func (s *Service) translateUserConflict(err error, conflict *apperror.Error) error {
	if apperror.IsUniqueViolation(err) {
		return conflict.Wrap(err)
	}
	return fmt.Errorf("failed to save user: %w", err)
}
