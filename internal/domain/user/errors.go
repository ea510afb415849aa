package user

import "github.com/your-org/marketplace-backend/internal/pkg/apperror"

var (
	ErrEmailTaken         = apperror.Conflict("EMAIL_TAKEN", "User with this email already exists.")
	ErrUsernameTaken      = apperror.Conflict("USERNAME_TAKEN", "User with this username already exists.")
	ErrShopNameTaken      = apperror.Conflict("SHOP_NAME_TAKEN", "Seller shop with this name already exists.")
	ErrPasswordMismatch   = apperror.Validation("PASSWORD_MISMATCH", "Password fields didn't match.")
	ErrWeakPassword       = apperror.Validation("WEAK_PASSWORD", "Password is too weak.")
	ErrInvalidCredentials = apperror.New(apperror.KindUnauthenticated, "INVALID_CREDENTIALS", "No active account found with the given credentials")
	ErrInvalidRefresh     = apperror.New(apperror.KindUnauthenticated, "INVALID_REFRESH_TOKEN", "Token is invalid or expired")
	ErrUserNotFound       = apperror.NotFound("USER_NOT_FOUND", "User not found.")
	ErrShopNotFound       = apperror.NotFound("SHOP_NOT_FOUND", "Seller shop not found.")
)
