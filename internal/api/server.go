package api

import (
	"github.com/gin-gonic/gin"

	"offgrid-lcoe/internal/weather"
)

// NewRouter builds the gin router for the LCOE/ensemble HTTP surface,
// grounded on the teacher's cmd/api/main.go route grouping under
// /api/v1 plus a health check.
func NewRouter(provider weather.Provider) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(recoveryMiddleware())
	router.Use(corsMiddleware())

	h := NewHandler(provider)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")
	{
		v1.POST("/lcoe", h.RunLCOE)
		v1.POST("/ensemble", h.RunEnsemble)
		v1.GET("/ensemble/stream", h.StreamEnsemble)
	}

	return router
}
