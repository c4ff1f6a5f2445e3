package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/bbernstein/chargefinder/backend-go/internal/models"
	"github.com/bbernstein/chargefinder/backend-go/internal/station"
)

const (
	MsgNoData          = "No data provided"
	MsgMissingLocation = "Invalid location data. 'lat' and 'lng' are required."
	MsgUpstreamFailed  = "Failed to fetch charging station data"
	MsgInternal        = "Internal Server Error"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

func NewErrorResponse(message string) *ErrorResponse {
	return &ErrorResponse{
		Error: message,
	}
}

// Response helpers
func Success(body interface{}) (events.APIGatewayProxyResponse, error) {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return Error(MsgInternal, http.StatusInternalServerError)
	}

	return events.APIGatewayProxyResponse{
		StatusCode: http.StatusOK,
		Headers:    jsonHeaders(),
		Body:       string(jsonBody),
	}, nil
}

func Error(message string, statusCode int) (events.APIGatewayProxyResponse, error) {
	body, _ := json.Marshal(NewErrorResponse(message))

	return events.APIGatewayProxyResponse{
		StatusCode: statusCode,
		Headers:    jsonHeaders(),
		Body:       string(body),
	}, nil
}

func jsonHeaders() map[string]string {
	return map[string]string{
		"Content-Type":                "application/json",
		"Access-Control-Allow-Origin": "*",
	}
}

// ErrorStatus maps a station lookup error to the status code and message
// returned to clients. Upstream details are logged, never exposed.
func ErrorStatus(err error) (int, string) {
	var invalidErr *station.InvalidInputError
	if errors.As(err, &invalidErr) {
		return http.StatusBadRequest, invalidErr.Message
	}

	var upstreamErr *station.UpstreamUnavailableError
	if errors.As(err, &upstreamErr) {
		return http.StatusInternalServerError, MsgUpstreamFailed
	}

	return http.StatusInternalServerError, MsgInternal
}

type locationRequest struct {
	Lat *float64 `json:"lat"`
	Lng *float64 `json:"lng"`
}

// ParseLocation decodes a {"lat": ..., "lng": ...} request body. Range
// checks are left to the station finder.
func ParseLocation(body string) (*models.Coordinate, error) {
	if strings.TrimSpace(body) == "" {
		return nil, station.NewInvalidInputError(MsgNoData)
	}

	var payload interface{}
	if err := json.Unmarshal([]byte(body), &payload); err != nil || payload == nil {
		return nil, station.NewInvalidInputError(MsgNoData)
	}

	var req locationRequest
	if err := json.Unmarshal([]byte(body), &req); err != nil {
		return nil, station.NewInvalidInputError(MsgMissingLocation)
	}
	if req.Lat == nil || req.Lng == nil {
		return nil, station.NewInvalidInputError(MsgMissingLocation)
	}

	return &models.Coordinate{
		Latitude:  *req.Lat,
		Longitude: *req.Lng,
	}, nil
}
