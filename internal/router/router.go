// Package router assembles the HTTP API from its services.
package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	apperrors "khatabook/internal/errors"
	"khatabook/internal/handlers"
	"khatabook/internal/identity"
	"khatabook/internal/middleware"
	"khatabook/internal/services"

	_ "khatabook/internal/docs" // Import swagger docs
)

// Options configures the router.
type Options struct {
	FrontendURL    string
	ReportLocation *time.Location
	// Verifier checks Google credentials. Nil disables Google sign-in.
	Verifier identity.Verifier
}

// New wires services and handlers over db and registers every route.
func New(db *gorm.DB, opts Options) *gin.Engine {
	// Services
	userService := services.NewUserService(db)
	accountService := services.NewAccountService(db)
	categoryService := services.NewCategoryService(db)
	transactionService := services.NewTransactionService(db)
	reportService := services.NewReportService(db, accountService, opts.ReportLocation)
	templateService := services.NewTemplateService(db)
	auditService := services.NewAuditService(db)

	// Handlers
	authHandler := handlers.NewAuthHandler(userService, auditService, opts.Verifier)
	accountHandler := handlers.NewAccountHandler(accountService, reportService, auditService)
	categoryHandler := handlers.NewCategoryHandler(categoryService, auditService)
	transactionHandler := handlers.NewTransactionHandler(transactionService, auditService)
	reportHandler := handlers.NewReportHandler(reportService, templateService, auditService)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.CORS(opts.FrontendURL))
	router.NoRoute(func(c *gin.Context) {
		_ = c.Error(apperrors.ErrNotFound)
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Khatabook API is running")
	})
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/google", authHandler.GoogleLogin)
	auth.POST("/refresh", authHandler.Refresh)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	protected.GET("/profile", authHandler.GetProfile)

	// Account routes
	accounts := protected.Group("/accounts")
	accounts.GET("", accountHandler.ListAccounts)
	accounts.POST("", accountHandler.CreateAccount)
	accounts.GET("/balances", accountHandler.GetAccountBalances)
	accounts.PUT("/order", accountHandler.ReorderAccounts)
	accounts.PUT("/:id", accountHandler.UpdateAccount)
	accounts.DELETE("/:id", accountHandler.DeleteAccount)

	// Category routes
	categories := protected.Group("/categories")
	categories.GET("", categoryHandler.GetCategories)
	categories.POST("/:side", categoryHandler.AddCategory)
	categories.PUT("/:side/:index", categoryHandler.RenameCategory)
	categories.DELETE("/:side/:index", categoryHandler.DeleteCategory)

	// Transaction routes
	transactions := protected.Group("/transactions")
	transactions.GET("", transactionHandler.ListTransactions)
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.POST("/bulk", transactionHandler.BulkCreateTransactions)
	transactions.GET("/:id", transactionHandler.GetTransactionByID)
	transactions.PUT("/:id", transactionHandler.UpdateTransaction)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)

	// Dashboard and report routes
	protected.GET("/dashboard", reportHandler.GetDashboard)
	protected.GET("/networth", reportHandler.GetNetWorth)

	reports := protected.Group("/reports")
	reports.POST("", reportHandler.RunReport)
	reports.GET("/expenses", reportHandler.GetExpenseSummary)
	reports.GET("/income", reportHandler.GetIncomeSummary)
	reports.GET("/categories", reportHandler.GetCategoryExpenses)
	reports.GET("/accounts", reportHandler.GetAccountReport)
	reports.GET("/monthly", reportHandler.GetMonthlyTrend)
	reports.GET("/transactions", reportHandler.GetDetailedTransactions)
	reports.GET("/templates", reportHandler.ListTemplates)
	reports.POST("/templates", reportHandler.CreateTemplate)
	reports.DELETE("/templates/:id", reportHandler.DeleteTemplate)

	return router
}
