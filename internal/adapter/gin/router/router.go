package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yashness/azure-swa-demo/internal/adapter/gin/handler"
	"github.com/yashness/azure-swa-demo/internal/adapter/gin/middleware"
)

// SetupRouter configures and returns a Gin router with all routes and middleware
func SetupRouter(userHandler *handler.UserHandler, allowedOrigins []string, log *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware
	router.Use(middleware.Recovery(log))
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(log))
	router.Use(middleware.CORS(allowedOrigins))

	router.GET("/", userHandler.Root)
	router.GET("/health", userHandler.Health)

	users := router.Group("/users")
	{
		users.GET("", userHandler.ListUsers)
		users.POST("", userHandler.CreateUser)
		users.GET("/:id", userHandler.GetUser)
	}

	return router
}
