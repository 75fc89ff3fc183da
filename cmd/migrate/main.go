// Command migrate applies or rolls back the SQL schema migrations.
//
// Usage:
//
//	migrate up
//	migrate down [N]
//	migrate version
//	migrate force VERSION
package main

import (
	"fmt"
	"os"
	"strconv"

	"moneylovers/internal/config"
	"moneylovers/internal/database"
	"moneylovers/internal/logger"
)

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(os.Args[1:]); err != nil {
		logger.Get().Fatalf("Migration error: %v", err)
	}
}

func run(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: migrate <up|down|version|force> [N]")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	dbConfig := database.NewConfig(cfg)

	mig, err := database.OpenMigrations(dbConfig.MigrationsSource(), dbConfig.URL())
	if err != nil {
		return err
	}
	defer mig.Close()

	log := logger.Named("migrate")

	switch command := args[0]; command {
	case "up":
		if err := mig.Up(); err != nil {
			return err
		}
		log.Info("Migrations applied successfully")

	case "down":
		steps := 1
		if len(args) > 1 {
			if steps, err = strconv.Atoi(args[1]); err != nil {
				return fmt.Errorf("invalid step count: %w", err)
			}
		}
		if err := mig.Down(steps); err != nil {
			return err
		}
		log.Infof("Rolled back %d migration(s)", steps)

	case "force":
		if len(args) < 2 {
			return fmt.Errorf("usage: migrate force VERSION")
		}
		version, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid version: %w", err)
		}
		if err := mig.Force(version); err != nil {
			return err
		}
		log.Infof("Forced version %d", version)

	case "version":
		version, dirty, err := mig.Version()
		if err != nil {
			return err
		}
		log.Infof("Version: %d, Dirty: %v", version, dirty)

	default:
		return fmt.Errorf("unknown command: %s (use up, down, version or force)", command)
	}

	return nil
}
