package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/your-org/marketplace-backend/internal/config"
)

const (
	accessToken  = "access"
	refreshToken = "refresh"
)

var errTokenType = errors.New("invalid token type")

// Claims carries the account identity inside access and refresh tokens.
type Claims struct {
	UserID    uint   `json:"user_id"`
	Email     string `json:"email"`
	IsStaff   bool   `json:"is_staff"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// JWTManager signs and verifies HS256 tokens with the configured secret.
type JWTManager struct {
	config *config.Config
}

func NewJWTManager(cfg *config.Config) *JWTManager {
	return &JWTManager{config: cfg}
}

// GenerateAccessToken issues a short-lived token used on every authenticated request.
func (j *JWTManager) GenerateAccessToken(userID uint, email string, isStaff bool) (string, error) {
	return j.sign(Claims{UserID: userID, Email: email, IsStaff: isStaff, TokenType: accessToken}, j.config.JWT.AccessTokenExpiry)
}

// GenerateRefreshToken issues a long-lived token that can only be exchanged
// for a new pair. Staff status is re-read from the account on refresh.
func (j *JWTManager) GenerateRefreshToken(userID uint, email string) (string, error) {
	return j.sign(Claims{UserID: userID, Email: email, TokenType: refreshToken}, j.config.JWT.RefreshTokenExpiry)
}

func (j *JWTManager) ValidateAccessToken(tokenString string) (*Claims, error) {
	return j.parse(tokenString, accessToken)
}

func (j *JWTManager) ValidateRefreshToken(tokenString string) (*Claims, error) {
	return j.parse(tokenString, refreshToken)
}

func (j *JWTManager) sign(claims Claims, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		Issuer:    j.config.App.Name,
		Subject:   fmt.Sprintf("user:%d", claims.UserID),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &claims).SignedString([]byte(j.config.JWT.Secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign %s token: %w", claims.TokenType, err)
	}
	return signed, nil
}

func (j *JWTManager) parse(tokenString, want string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(j.config.JWT.Secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuer(j.config.App.Name))
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	if claims.TokenType != want {
		return nil, fmt.Errorf("%w: expected %s, got %q", errTokenType, want, claims.TokenType)
	}
	return claims, nil
}

// ExtractTokenFromHeader returns the credential of a "Bearer" Authorization
// header, or "" for any other scheme.
func ExtractTokenFromHeader(authHeader string) string {
	scheme, token, ok := strings.Cut(authHeader, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
