package testutil

import (
	"github.com/your-org/marketplace-backend/internal/config"
	"golang.org/x/crypto/bcrypt"
)

// Config returns the default configuration with a cheap bcrypt cost.
func Config() *config.Config {
	cfg := config.FromEnv()
	cfg.Security.BcryptCost = bcrypt.MinCost
	cfg.JWT.Secret = "test-secret-that-is-long-enough-for-hs256"
	return cfg
}
