// Package server assembles services, handlers and routes into a gin engine.
package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"moneylovers/internal/clock"
	"moneylovers/internal/handlers"
	"moneylovers/internal/metrics"
	"moneylovers/internal/middleware"
	"moneylovers/internal/services"
)

// Services is the wired service graph.
type Services struct {
	Categories    services.CategoryServicer
	Notifications services.NotificationServicer
	Budgets       services.BudgetServicer
	Transactions  services.TransactionServicer
	Recurring     services.RecurringTransactionServicer
	Partnerships  services.PartnershipServicer
	Audit         services.AuditServicer
}

// NewServices builds every service on top of db.
func NewServices(db *gorm.DB, clk clock.Clock, m *metrics.Metrics) *Services {
	categoryService := services.NewCategoryService(db)
	notificationService := services.NewNotificationService(db)
	budgetService := services.NewBudgetService(db, categoryService, notificationService, clk)
	partnershipService := services.NewPartnershipService(db)
	transactionService := services.NewTransactionService(db, categoryService, budgetService, partnershipService)

	return &Services{
		Categories:    categoryService,
		Notifications: notificationService,
		Budgets:       budgetService,
		Transactions:  transactionService,
		Recurring: services.NewRecurringTransactionService(
			db, categoryService, transactionService, notificationService, budgetService, partnershipService, m),
		Partnerships: partnershipService,
		Audit:        services.NewAuditService(db),
	}
}

// Options controls router construction.
type Options struct {
	JWTSecret       string
	SchedulerAPIKey string
	// Swagger and /metrics are left off in tests.
	EnableSwagger bool
	EnableMetrics bool
}

// NewRouter registers every route.
func NewRouter(svc *Services, clk clock.Clock, opts Options) *gin.Engine {
	categoryHandler := handlers.NewCategoryHandler(svc.Categories, svc.Audit)
	transactionHandler := handlers.NewTransactionHandler(svc.Transactions, svc.Audit)
	budgetHandler := handlers.NewBudgetHandler(svc.Budgets, svc.Audit)
	recurringHandler := handlers.NewRecurringTransactionHandler(svc.Recurring, svc.Audit, clk)
	notificationHandler := handlers.NewNotificationHandler(svc.Notifications)
	partnershipHandler := handlers.NewPartnershipHandler(svc.Partnerships, svc.Audit)
	auditHandler := handlers.NewAuditHandler(svc.Audit)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())
	router.Use(cors())

	if opts.EnableSwagger {
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}
	if opts.EnableMetrics {
		router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")

	// Cron entry point, authenticated by API key instead of a user token
	internal := v1.Group("/internal")
	internal.Use(middleware.SchedulerAuthMiddleware(opts.SchedulerAPIKey))
	internal.POST("/recurring/run", recurringHandler.RunDueRecurringTransactions)

	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware(opts.JWTSecret))

	categories := protected.Group("/categories")
	categories.POST("", categoryHandler.CreateCategory)
	categories.GET("", categoryHandler.GetUserCategories)
	categories.GET("/:id", categoryHandler.GetCategoryByID)
	categories.PUT("/:id", categoryHandler.UpdateCategory)
	categories.DELETE("/:id", categoryHandler.DeleteCategory)

	transactions := protected.Group("/transactions")
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.GET("", transactionHandler.GetUserTransactions)
	transactions.GET("/:id", transactionHandler.GetTransactionByID)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)

	budgets := protected.Group("/budgets")
	budgets.POST("", budgetHandler.CreateBudget)
	budgets.GET("", budgetHandler.GetBudgets)
	budgets.GET("/:id", budgetHandler.GetBudget)
	budgets.PUT("/:id", budgetHandler.UpdateBudget)
	budgets.DELETE("/:id", budgetHandler.DeleteBudget)
	budgets.GET("/:id/progress", budgetHandler.GetBudgetProgress)

	recurring := protected.Group("/recurring-transactions")
	recurring.POST("", recurringHandler.CreateRecurringTransaction)
	recurring.GET("", recurringHandler.GetRecurringTransactions)
	recurring.GET("/due", recurringHandler.GetDueRecurringTransactions)
	recurring.GET("/:id", recurringHandler.GetRecurringTransaction)
	recurring.PUT("/:id", recurringHandler.UpdateRecurringTransaction)
	recurring.DELETE("/:id", recurringHandler.DeactivateRecurringTransaction)
	recurring.POST("/:id/execute", recurringHandler.ExecuteRecurringTransaction)
	recurring.GET("/:id/preview", recurringHandler.PreviewRecurringTransaction)

	notifications := protected.Group("/notifications")
	notifications.GET("", notificationHandler.GetNotifications)
	notifications.GET("/counts", notificationHandler.GetNotificationCounts)
	notifications.PUT("/read-all", notificationHandler.MarkAllAsRead)
	notifications.GET("/:id", notificationHandler.GetNotification)
	notifications.PUT("/:id/read", notificationHandler.MarkAsRead)
	notifications.DELETE("/:id", notificationHandler.DeleteNotification)

	partnerships := protected.Group("/partnerships")
	partnerships.GET("/status", partnershipHandler.GetPartnershipStatus)
	partnerships.POST("/invite", partnershipHandler.CreateInvitation)
	partnerships.POST("/join", partnershipHandler.JoinPartnership)
	partnerships.PUT("", partnershipHandler.UpdatePartnership)
	partnerships.DELETE("", partnershipHandler.DissolvePartnership)

	protected.GET("/audit-logs", auditHandler.GetAuditLogs)

	return router
}

func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-API-Key")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
