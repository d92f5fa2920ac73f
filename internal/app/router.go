package app

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"chaloride/internal/handler"
	"chaloride/internal/middleware"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	RideHandler       *handler.RideHandler
	PaymentHandler    *handler.PaymentHandler
	HistoryHandler    *handler.HistoryHandler
	SuggestionHandler *handler.SuggestionHandler
	RedisClient       *redis.Client
	NewRelicApp       *newrelic.Application
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware.
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(middleware.CORSMiddleware())

	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
	}

	router.Use(middleware.IdempotencyMiddleware(deps.RedisClient))

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// API v1 routes.
	v1 := router.Group("/v1")
	{
		// Ride lifecycle routes.
		ride := v1.Group("/ride")
		{
			ride.GET("", deps.RideHandler.GetState)
			ride.PUT("/request", deps.RideHandler.UpdateRequest)
			ride.POST("/search", deps.RideHandler.FindRide)
			ride.POST("/reset", deps.RideHandler.Reset)
			ride.POST("/share", deps.RideHandler.Share)

			cancel := ride.Group("/cancel")
			{
				cancel.GET("/reasons", deps.RideHandler.CancelReasons)
				cancel.POST("/open", deps.RideHandler.CancelOpen)
				cancel.POST("/confirm", deps.RideHandler.CancelConfirm)
				cancel.POST("/reason", deps.RideHandler.CancelReason)
				cancel.POST("/commit", deps.RideHandler.CancelCommit)
				cancel.POST("/dismiss", deps.RideHandler.CancelDismiss)
			}
		}

		// Payment routes.
		payments := v1.Group("/payments")
		{
			payments.GET("/methods", deps.PaymentHandler.ListMethods)
			payments.POST("", deps.PaymentHandler.SelectMethod)
			payments.POST("/wallet/confirm", deps.PaymentHandler.WalletConfirm)
			payments.POST("/wallet/cancel", deps.PaymentHandler.WalletCancel)
		}

		// History routes.
		history := v1.Group("/history")
		{
			history.GET("", deps.HistoryHandler.List)
			history.GET("/:id", deps.HistoryHandler.Get)
			history.POST("/:id/rating", deps.HistoryHandler.Rate)
		}

		// Suggestion routes.
		suggestions := v1.Group("/suggestions")
		{
			suggestions.GET("", deps.SuggestionHandler.Get)
			suggestions.POST("/dispatch", deps.SuggestionHandler.Dispatch)
		}
	}

	return router
}
