package server

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	ginhandler "github.com/yashness/azure-swa-demo/internal/adapter/gin/handler"
	ginrouter "github.com/yashness/azure-swa-demo/internal/adapter/gin/router"
	"github.com/yashness/azure-swa-demo/internal/config"
)

// SetupHTTPServer creates and configures the REST API server
func SetupHTTPServer(handler *ginhandler.UserHandler, cfg *config.Config, l *zap.Logger) *http.Server {
	origins := cfg.App.AllowedOrigins()
	for _, o := range origins {
		if o == "*" {
			l.Warn("CORS wildcard origin active; set CORS_ALLOWED_ORIGINS for production")
		}
	}

	router := ginrouter.SetupRouter(handler, origins, l)

	addr := ":" + cfg.App.HTTPPort
	l.Info("REST API configured", zap.String("address", addr), zap.Strings("cors_allowed_origins", origins))

	return &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 2 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}
