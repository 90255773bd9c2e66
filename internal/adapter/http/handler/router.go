package handler

import (
	"stablepay/internal/adapter/http/middleware"
	redisStore "stablepay/internal/adapter/storage/redis"
	"stablepay/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	PaymentSvc     ports.PaymentService
	ReportingSvc   ports.ReportingService
	RateLimitStore *redisStore.RateLimitStore // nil = rate limiting disabled
	HealthCheckers []ports.HealthChecker
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(1 << 20)) // 1 MB request body limit

	// Health check (deep — verifies PostgreSQL + Redis)
	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	walletHandler := NewWalletHandler(deps.PaymentSvc, deps.ReportingSvc)
	paymentHandler := NewPaymentHandler(deps.PaymentSvc)
	adminHandler := NewAdminHandler(deps.ReportingSvc)

	rules := middleware.DefaultRateLimitRules()
	limit := func(group string) gin.HandlerFunc {
		if deps.RateLimitStore == nil {
			return func(c *gin.Context) { c.Next() }
		}
		return middleware.RateLimiter(deps.RateLimitStore, group, rules[group], deps.Logger)
	}

	v1 := r.Group("/api/v1")
	{
		wallets := v1.Group("/wallets")
		{
			wallets.POST("/fund", limit("wallets_fund"), walletHandler.Fund)
			wallets.GET("/:user_id", limit("queries"), walletHandler.Snapshot)
		}

		payments := v1.Group("/payments")
		{
			payments.POST("/freeze", limit("payments"), paymentHandler.Freeze)
			payments.POST("/settle", limit("payments"), paymentHandler.Settle)
			payments.POST("/release", limit("payments"), paymentHandler.Release)
		}

		admin := v1.Group("/admin")
		{
			admin.GET("/ledger", limit("queries"), adminHandler.ListLedger)
			admin.GET("/orders", limit("queries"), adminHandler.ListOrders)
		}
	}

	return r
}
