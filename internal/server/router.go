package server

import (
	"net/http"
	"time"

	"github.com/bbernstein/chargefinder/backend-go/internal/config"
	"github.com/bbernstein/chargefinder/backend-go/internal/models"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// SetupRouter creates and configures the Gin router. metricsHandler may be
// nil, in which case /metrics is not exposed.
func SetupRouter(cfg *config.Config, finder models.StationFinder, metricsHandler http.Handler) *gin.Engine {
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())

	// Default to allow all origins if none are configured.
	corsConfig := cors.DefaultConfig()
	if len(cfg.CORSAllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.CORSAllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	router.Use(cors.New(corsConfig))

	handler := NewHandler(finder)

	apiGroup := router.Group("/api")
	apiGroup.GET("/charging-stations", handler.GetChargingStations)
	apiGroup.POST("/charging-stations", handler.PostChargingStations)
	apiGroup.GET("/test", handler.TestRoute)

	router.GET("/health", handler.HealthCheck)
	if metricsHandler != nil {
		router.GET("/metrics", gin.WrapH(metricsHandler))
	}

	return router
}

// requestLogger writes one zerolog line per request.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		event := log.Info()
		if status >= http.StatusInternalServerError {
			event = log.Error()
		} else if status >= http.StatusBadRequest {
			event = log.Warn()
		}
		event.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Msg("Handled request")
	}
}
