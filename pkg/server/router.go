// Package server exposes the publication intake API and the per-task
// progress event stream.
package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/entrhq/adpilot/pkg/metrics"
)

// NewRouter assembles the gin engine with middleware and routes.
func NewRouter(handler *Handler, environment string) *gin.Engine {
	if environment == "production" || environment == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(Recovery(), RequestLogger(), RequestID())
	r.Use(cors.Default())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	v1 := r.Group("/api/v1")
	{
		v1.POST("/publications", handler.CreatePublication)
		v1.GET("/publications/:id", handler.GetStatus)
		v1.GET("/publications/:id/events", handler.StreamEvents)
	}

	return r
}
