package server

import (
	"net/http"
	"time"

	"github.com/bbernstein/chargefinder/backend-go/internal/api"
	"github.com/bbernstein/chargefinder/backend-go/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// Handler serves the charging station HTTP API.
type Handler struct {
	finder models.StationFinder
}

// NewHandler creates a new HTTP handler.
func NewHandler(finder models.StationFinder) *Handler {
	return &Handler{
		finder: finder,
	}
}

// GetChargingStations handles GET /api/charging-stations.
func (h *Handler) GetChargingStations(c *gin.Context) {
	h.respondWithStations(c, nil)
}

// PostChargingStations handles POST /api/charging-stations with a
// {"lat", "lng"} body.
func (h *Handler) PostChargingStations(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, api.NewErrorResponse(api.MsgNoData))
		return
	}

	location, err := api.ParseLocation(string(body))
	if err != nil {
		status, msg := api.ErrorStatus(err)
		c.JSON(status, api.NewErrorResponse(msg))
		return
	}

	h.respondWithStations(c, location)
}

func (h *Handler) respondWithStations(c *gin.Context, location *models.Coordinate) {
	stations, err := h.finder.FindStations(c.Request.Context(), location)
	if err != nil {
		status, msg := api.ErrorStatus(err)
		if status >= http.StatusInternalServerError {
			log.Error().Err(err).Msg("Error finding charging stations")
		}
		c.JSON(status, api.NewErrorResponse(msg))
		return
	}

	c.JSON(http.StatusOK, stations)
}

// TestRoute handles GET /api/test.
func (h *Handler) TestRoute(c *gin.Context) {
	c.JSON(http.StatusOK, api.MessageResponse{Message: "Test route is working!"})
}

// HealthCheck handles GET /health.
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}
