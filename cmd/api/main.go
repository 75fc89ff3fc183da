package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"moneylovers/internal/clock"
	"moneylovers/internal/config"
	"moneylovers/internal/database"
	"moneylovers/internal/logger"
	"moneylovers/internal/metrics"
	"moneylovers/internal/scheduler"
	"moneylovers/internal/server"
	"moneylovers/internal/validator"

	_ "moneylovers/internal/docs" // Import swagger docs
)

// @title           MoneyLovers API
// @version         1.0
// @description     MoneyLovers tracks a couple's shared and personal spending, with recurring transactions, budgets and notifications.
// @termsOfService  http://swagger.io/terms/

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @securityDefinitions.apikey SchedulerKey
// @in header
// @name X-API-Key

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if appConfig.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create database manager
	dbManager, err := database.NewManager(database.NewConfig(appConfig))
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	defer func() {
		if err := dbManager.Close(); err != nil {
			log.Warnf("failed to close database: %v", err)
		}
	}()

	if appConfig.AutoMigrate {
		if err := dbManager.RunMigrations(); err != nil {
			return fmt.Errorf("failed to run database migrations: %w", err)
		}
	}

	clk, err := clock.NewSystem(appConfig.Timezone)
	if err != nil {
		return fmt.Errorf("failed to load timezone: %w", err)
	}

	validator.Register()

	svc := server.NewServices(dbManager.DB(), clk, metrics.NewMetrics())
	router := server.NewRouter(svc, clk, server.Options{
		JWTSecret:       appConfig.JWTSecret,
		SchedulerAPIKey: appConfig.SchedulerAPIKey,
		EnableSwagger:   appConfig.Env != "production",
		EnableMetrics:   true,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if appConfig.SchedulerEnabled {
		sched := scheduler.New(svc.Recurring, clk, appConfig.SchedulerInterval)
		go sched.Start(ctx)

		// SIGHUP forces an immediate pass
		hup := make(chan os.Signal, 1)
		signal.Notify(hup, syscall.SIGHUP)
		go func() {
			for {
				select {
				case <-ctx.Done():
					signal.Stop(hup)
					return
				case <-hup:
					sched.Notify()
				}
			}
		}()
	} else {
		log.Info("Recurring scheduler disabled; rely on POST /api/v1/internal/recurring/run")
	}

	srv := &http.Server{
		Addr:              ":" + appConfig.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("Starting MoneyLovers backend server on port %s", appConfig.Port)
		log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	return nil
}
