package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"board-api/internal/config"
	"board-api/internal/db"
)

// NewRouter configura el router de Gin con middlewares y rutas.
func NewRouter(
	logger *zap.Logger,
	cfg *config.Config,
	lifecycle *db.Lifecycle,
	rdb *redis.Client,
	userH *UserHandler,
	messageH *MessageHandler,
) *gin.Engine {
	r := gin.New()

	// Middlewares basicos: logging, recovery y JSON content-type.
	r.Use(zapLoggerMiddleware(logger), gin.Recovery(), jsonContentTypeMiddleware())
	if rdb != nil {
		r.Use(rateLimitMiddleware(logger, rdb, cfg.RateLimitRPS))
	}

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	})

	// Todo lo que toca storage pasa por el contexto de request, que
	// asegura la conexion antes de cualquier handler.
	api := r.Group("/", RequestContextMiddleware(logger, cfg, lifecycle))

	api.GET("/session", userH.GetSession)

	users := api.Group("/users")
	users.GET("", userH.ListUsers)
	users.GET("/:userId", userH.GetUser)
	users.POST("", userH.CreateUser)
	users.PUT("/:userId", userH.UpdateUser)
	users.DELETE("/:userId", userH.DeleteUser)

	messages := api.Group("/messages")
	messages.GET("", messageH.ListMessages)
	messages.GET("/:messageId", messageH.GetMessage)
	messages.POST("", messageH.CreateMessage)
	messages.PUT("/:messageId", messageH.UpdateMessage)
	messages.DELETE("/:messageId", messageH.DeleteMessage)

	return r
}

// zapLoggerMiddleware crea un middleware simple de logging con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// jsonContentTypeMiddleware fuerza Content-Type: application/json en responses.
func jsonContentTypeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json")
		c.Next()
	}
}
