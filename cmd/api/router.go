package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"publications-backend/internal/shared/middleware"
	"publications-backend/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.CORS(c.Config.Server.CORSOrigins),
	)

	router.GET("/health", healthCheckHandler(c))
	c.PublicationHandler.RegisterRoutes(router)

	return router
}

// ========================================
// HEALTH CHECK HANDLER
// ========================================
func healthCheckHandler(appCtx *container.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		dbStatus := "ok"
		if err := appCtx.DB.HealthCheck(ctx); err != nil {
			dbStatus = err.Error()
		}

		health := gin.H{
			"status":    "ok",
			"version":   appCtx.Config.App.Version,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"database":  gin.H{"status": dbStatus},
		}

		if stats, err := appCtx.DB.Stats(); err == nil {
			health["database"] = gin.H{"status": dbStatus, "pool": stats}
		}

		statusCode := http.StatusOK
		if dbStatus != "ok" {
			statusCode = http.StatusServiceUnavailable
			health["status"] = "degraded"
		}

		c.JSON(statusCode, health)
	}
}
