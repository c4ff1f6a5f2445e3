package handler

import (
	"context"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/bbernstein/chargefinder/backend-go/internal/api"
	"github.com/bbernstein/chargefinder/backend-go/internal/models"
	"github.com/rs/zerolog/log"
)

type StationsHandler struct {
	stationFinder models.StationFinder
}

func NewStationsHandler(finder models.StationFinder) *StationsHandler {
	return &StationsHandler{
		stationFinder: finder,
	}
}

// HandleRequest serves /api/charging-stations. GET searches around the
// default center; POST takes {"lat", "lng"} in the body.
func (h *StationsHandler) HandleRequest(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	var location *models.Coordinate

	switch request.HTTPMethod {
	case http.MethodGet, "":
	case http.MethodPost:
		parsed, err := api.ParseLocation(request.Body)
		if err != nil {
			status, msg := api.ErrorStatus(err)
			return api.Error(msg, status)
		}
		location = parsed
	default:
		return api.Error("Method not allowed", http.StatusMethodNotAllowed)
	}

	stations, err := h.stationFinder.FindStations(ctx, location)
	if err != nil {
		status, msg := api.ErrorStatus(err)
		if status >= http.StatusInternalServerError {
			log.Error().Err(err).Msg("Error finding charging stations")
		}
		return api.Error(msg, status)
	}

	return api.Success(stations)
}
