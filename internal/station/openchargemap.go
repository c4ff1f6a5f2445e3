package station

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/bbernstein/chargefinder/backend-go/internal/models"
	"github.com/bbernstein/chargefinder/backend-go/pkg/http/client"
	"github.com/rs/zerolog/log"
)

const poiPath = "/v3/poi"

// POI is an Open Charge Map point of interest as returned in compact mode.
// Every field is optional; accessors below supply the defaults.
type POI struct {
	AddressInfo *AddressInfo `json:"AddressInfo"`
	Connections []Connection `json:"Connections"`
	StatusType  *StatusType  `json:"StatusType"`
}

type AddressInfo struct {
	Title        *string  `json:"Title"`
	AddressLine1 *string  `json:"AddressLine1"`
	Town         *string  `json:"Town"`
	Latitude     *float64 `json:"Latitude"`
	Longitude    *float64 `json:"Longitude"`
}

type Connection struct {
	ConnectionTypeID *int            `json:"ConnectionTypeID"`
	ConnectionType   *ConnectionType `json:"ConnectionType"`
	PowerKW          any             `json:"PowerKW"`
	StatusType       *StatusType     `json:"StatusType"`
}

type ConnectionType struct {
	Title *string `json:"Title"`
}

type StatusType struct {
	IsOperational *bool   `json:"IsOperational"`
	Title         *string `json:"Title"`
}

func (a *AddressInfo) title() string {
	if a == nil {
		return "Unknown Station"
	}
	return stringOr(a.Title, "Unknown Station")
}

func (a *AddressInfo) addressLine() string {
	if a == nil {
		return ""
	}
	return stringOr(a.AddressLine1, "")
}

func (a *AddressInfo) town() string {
	if a == nil {
		return ""
	}
	return stringOr(a.Town, "")
}

func (a *AddressInfo) coordinate() models.Coordinate {
	if a == nil {
		return models.Coordinate{}
	}
	return models.Coordinate{
		Latitude:  floatOr(a.Latitude, 0),
		Longitude: floatOr(a.Longitude, 0),
	}
}

// operationalOrUnknown treats a missing flag as operational.
func (s *StatusType) operationalOrUnknown() bool {
	if s == nil || s.IsOperational == nil {
		return true
	}
	return *s.IsOperational
}

func (s *StatusType) explicitlyOperational() bool {
	return s != nil && s.IsOperational != nil && *s.IsOperational
}

func (s *StatusType) title() string {
	if s == nil {
		return "Unknown"
	}
	return stringOr(s.Title, "Unknown")
}

func stringOr(p *string, def string) string {
	if p == nil {
		return def
	}
	return *p
}

func floatOr(p *float64, def float64) float64 {
	if p == nil {
		return def
	}
	return *p
}

// SearchParams describes one upstream search. A zero RadiusKM searches
// without a distance limit.
type SearchParams struct {
	Center     models.Coordinate
	RadiusKM   int
	MaxResults int
}

// Provider fetches raw station records. Records are returned undecoded so a
// malformed one can be dropped without failing the batch.
type Provider interface {
	FetchStations(ctx context.Context, params SearchParams) ([]json.RawMessage, error)
}

type OpenChargeMap struct {
	httpClient client.Interface
	apiKey     string
}

func NewOpenChargeMap(httpClient client.Interface, apiKey string) *OpenChargeMap {
	return &OpenChargeMap{
		httpClient: httpClient,
		apiKey:     apiKey,
	}
}

func (o *OpenChargeMap) FetchStations(ctx context.Context, params SearchParams) ([]json.RawMessage, error) {
	query := url.Values{}
	if o.apiKey != "" {
		query.Set("key", o.apiKey)
	}
	query.Set("maxresults", strconv.Itoa(params.MaxResults))
	query.Set("compact", "true")
	query.Set("verbose", "false")
	query.Set("latitude", strconv.FormatFloat(params.Center.Latitude, 'f', -1, 64))
	query.Set("longitude", strconv.FormatFloat(params.Center.Longitude, 'f', -1, 64))
	if params.RadiusKM > 0 {
		query.Set("distance", strconv.Itoa(params.RadiusKM))
		query.Set("distanceunit", "km")
	}

	log.Info().
		Float64("lat", params.Center.Latitude).
		Float64("lng", params.Center.Longitude).
		Int("radius_km", params.RadiusKM).
		Int("max_results", params.MaxResults).
		Msg("Requesting stations from Open Charge Map")

	resp, err := o.httpClient.Get(ctx, poiPath, query)
	if err != nil {
		return nil, NewUpstreamUnavailableError("requesting stations", err)
	}
	if !resp.OK() {
		return nil, NewUpstreamUnavailableError(fmt.Sprintf("unexpected status %d", resp.StatusCode), nil)
	}

	var records []json.RawMessage
	if err := json.Unmarshal(resp.Body, &records); err != nil {
		return nil, NewUpstreamUnavailableError("decoding response", err)
	}

	log.Debug().Int("record_count", len(records)).Msg("Open Charge Map response decoded")
	return records, nil
}
