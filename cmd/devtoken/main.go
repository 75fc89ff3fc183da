// Command devtoken prints an access token for a user, for calling the API
// locally without the identity service.
package main

import (
	"fmt"
	"os"

	"moneylovers/internal/config"
	"moneylovers/internal/logger"
	"moneylovers/internal/middleware"
	"moneylovers/internal/uuid"
)

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("devtoken error: %v", err)
	}
}

func run() error {
	if len(os.Args) < 2 {
		return fmt.Errorf("usage: devtoken <user-id> [email]")
	}
	userID := os.Args[1]
	if !uuid.IsValid(userID) {
		return fmt.Errorf("invalid user id %q", userID)
	}
	email := ""
	if len(os.Args) > 2 {
		email = os.Args[2]
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.Env == "production" {
		return fmt.Errorf("refusing to issue tokens in production")
	}

	token, err := middleware.GenerateAccessToken(cfg.JWTSecret, userID, email, cfg.JWTExpirationDur)
	if err != nil {
		return err
	}
	fmt.Println(token)
	return nil
}
