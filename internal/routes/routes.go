package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/devlog/portfolio-backend/internal/config"
	"github.com/devlog/portfolio-backend/internal/handler"
	"github.com/devlog/portfolio-backend/internal/middleware"
)

// Setup configures all API routes
func Setup(
	router *gin.Engine,
	commentHandler *handler.CommentHandler,
	healthHandler *handler.HealthHandler,
	signalHandler *handler.SignalHandler,
	redisClient *redis.Client,
	cfg *config.Config,
) {
	// Mutations go through the sliding-window limiter when Redis is up.
	var writeGuard gin.HandlerFunc = func(c *gin.Context) { c.Next() }
	if redisClient != nil && !cfg.IsDevelopment() {
		writeGuard = middleware.RateLimit(redisClient, middleware.WriteRateLimitConfig())
	}

	comments := router.Group("/comments")
	comments.GET("", commentHandler.ListComments)
	comments.POST("", writeGuard, commentHandler.CreateComment)
	comments.PUT("/:id", writeGuard, commentHandler.UpdateComment)
	comments.DELETE("/:id", writeGuard, commentHandler.DeleteComment)
	comments.GET("/:id/history", commentHandler.GetCommentHistory)

	router.GET("/api/services/health", healthHandler.ServicesHealth)

	if signalHandler != nil {
		router.GET("/signal/:room", signalHandler.Connect)
	}
}
