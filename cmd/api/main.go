// Command api serves the HTTP surface over the LCOE engine (spec §6):
// a gin router with /health, /api/v1/lcoe, /api/v1/ensemble, and a
// websocket progress stream. Grounded on the teacher's cmd/api/main.go
// (env-driven port and release mode, gin.Default, health check),
// trimmed of the teacher's static-asset/SPA serving since this
// surface has no bundled frontend.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/gin-gonic/gin"

	"offgrid-lcoe/internal/api"
	"offgrid-lcoe/internal/weather"
)

func main() {
	port := os.Getenv("API_PORT")
	if port == "" {
		port = "8080"
	}

	if os.Getenv("API_ENV") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	var provider weather.Provider
	if fixture := os.Getenv("PV_FIXTURE"); fixture != "" {
		provider = weather.FixtureProvider{Path: fixture}
	} else {
		provider = weather.NewClearSkyProvider()
	}

	router := api.NewRouter(provider)

	addr := fmt.Sprintf(":%s", port)
	log.Printf("Starting LCOE API server on %s", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
