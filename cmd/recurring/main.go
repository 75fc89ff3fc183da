// Command recurring executes every recurring transaction due today and exits.
// It is meant for an external cron when the in-process scheduler is disabled.
package main

import (
	"fmt"
	"os"

	"moneylovers/internal/clock"
	"moneylovers/internal/config"
	"moneylovers/internal/database"
	"moneylovers/internal/logger"
	"moneylovers/internal/metrics"
	"moneylovers/internal/server"
)

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Recurring run error: %v", err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	dbManager, err := database.NewManager(database.NewConfig(cfg))
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	defer dbManager.Close()

	clk, err := clock.NewSystem(cfg.Timezone)
	if err != nil {
		return fmt.Errorf("failed to load timezone: %w", err)
	}

	svc := server.NewServices(dbManager.DB(), clk, metrics.NewMetrics())
	summary, err := svc.Recurring.RunDue(clk.Today())
	if err != nil {
		return fmt.Errorf("run failed: %w", err)
	}

	logger.Get().Infow("recurring run finished",
		"as_of", summary.AsOf.Format("2006-01-02"),
		"due", summary.Due,
		"executed", summary.Executed,
		"skipped", summary.Skipped,
		"failed", summary.Failed,
	)
	if summary.Failed > 0 {
		return fmt.Errorf("%d recurring transaction(s) failed", summary.Failed)
	}
	return nil
}
