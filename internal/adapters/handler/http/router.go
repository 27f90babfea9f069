package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/dferrante/anchorline/internal/adapters/handler/http/middleware"
	"github.com/dferrante/anchorline/internal/core/services"
	"github.com/dferrante/anchorline/internal/metrics"
)

type RouterDependencies struct {
	AuthHandler     *AuthHandler
	TaskHandler     *TaskHandler
	AnchorHandler   *AnchorHandler
	StreakHandler   *StreakHandler
	SettingsHandler *SettingsHandler
	DevHandler      *DevHandler
	TokenService    *services.TokenService
	DB              *sqlx.DB
	Redis           *redis.Client
	Logger          *zap.Logger
	StartTime       time.Time

	RateLimitRequests int
	RateLimitWindow   time.Duration
}

func NewRouter(deps RouterDependencies) *gin.Engine {
	router := gin.Default()

	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, PATCH, DELETE")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	router.Use(metrics.GinMiddleware())

	if deps.Redis != nil {
		limit, window := deps.RateLimitRequests, deps.RateLimitWindow
		if limit <= 0 {
			limit = 100
		}
		if window <= 0 {
			window = time.Minute
		}
		router.Use(middleware.RateLimiterMiddleware(deps.Redis, deps.Logger, limit, window))
	}

	router.GET("/health", func(c *gin.Context) {
		dbStatus := "connected"
		if deps.DB == nil || deps.DB.Ping() != nil {
			dbStatus = "unreachable"
		}

		redisStatus := "connected"
		if deps.Redis == nil || deps.Redis.Ping(c.Request.Context()).Err() != nil {
			redisStatus = "unreachable"
		}

		statusCode := 200
		if dbStatus == "unreachable" {
			statusCode = 503
		}

		c.JSON(statusCode, gin.H{
			"status":   "ok",
			"database": dbStatus,
			"redis":    redisStatus,
			"uptime":   time.Since(deps.StartTime).String(),
		})
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	apiV1 := router.Group("/api/v1")

	deps.AuthHandler.RegisterRoutes(apiV1)

	protected := apiV1.Group("")
	protected.Use(middleware.AuthMiddleware(deps.TokenService))
	{
		deps.TaskHandler.RegisterRoutes(protected)
		deps.AnchorHandler.RegisterRoutes(protected)
		deps.StreakHandler.RegisterRoutes(protected)
		deps.SettingsHandler.RegisterRoutes(protected)
		deps.DevHandler.RegisterRoutes(protected)
	}

	return router
}
