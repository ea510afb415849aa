// cmd/hashpassword/main.go prints a bcrypt hash for seeding accounts by hand
package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/your-org/marketplace-backend/internal/config"
	"github.com/your-org/marketplace-backend/internal/pkg/auth"
)

func main() {
	if len(os.Args) < 2 {
		logrus.Fatal("usage: hashpassword <password>")
	}
	password := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("failed to load configuration")
	}
	passwords := auth.NewPasswordManager(cfg)

	if err := passwords.ValidatePassword(password); err != nil {
		logrus.WithError(err).Warn("password does not meet the account policy")
	}

	hash, err := passwords.HashPassword(password)
	if err != nil {
		logrus.WithError(err).Fatal("failed to hash password")
	}
	if err := passwords.VerifyPassword(password, hash); err != nil {
		logrus.WithError(err).Fatal("hash verification failed")
	}

	fmt.Println(hash)
}
