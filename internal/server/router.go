package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/studydeck/studydeck-backend/internal/handlers"
	"github.com/studydeck/studydeck-backend/internal/middleware"
)

type RouterConfig struct {
	AllowOrigins      []string
	AuthMiddleware    *middleware.AuthMiddleware
	GenerationHandler *handlers.GenerationHandler
	DocumentHandler   *handlers.DocumentHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()
	router.Use(otelgin.Middleware("studydeck-backend"))

	origins := cfg.AllowOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000", "http://localhost:5173"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	router.GET("/healthz", handlers.HealthCheck)

	api := router.Group("/api")
	api.Use(cfg.AuthMiddleware.RequireAuth())

	// Generations
	api.POST("/generations", cfg.GenerationHandler.Start)
	api.GET("/generations", cfg.GenerationHandler.List)
	api.GET("/generations/:id", cfg.GenerationHandler.Get)
	api.POST("/generations/:id/dispatch", cfg.GenerationHandler.Dispatch)
	api.POST("/generations/:id/retry", cfg.GenerationHandler.Retry)

	// Documents
	api.POST("/documents/:id/process", cfg.DocumentHandler.Process)
	api.POST("/documents/:id/retry-process", cfg.DocumentHandler.RetryProcess)
	api.POST("/documents/:id/reprocess-embeddings", cfg.DocumentHandler.ReprocessEmbeddings)

	return router
}
