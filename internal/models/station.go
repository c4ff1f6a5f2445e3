package models

type Status string

const (
	StatusAvailable   Status = "available"
	StatusUnavailable Status = "unavailable"
)

// PowerUnavailable is reported when the upstream omits a connector's rating.
const PowerUnavailable = "N/A"

// ConnectionInfo describes one physical connector on a station.
type ConnectionInfo struct {
	Type string `json:"type"`
	// Power is the upstream PowerKW value passed through untouched, or PowerUnavailable.
	Power  any    `json:"power"`
	Status string `json:"status"`
}

type Station struct {
	Name        string           `json:"station_name"`
	Address     string           `json:"station_address"`
	Town        string           `json:"station_town"`
	Status      Status           `json:"station_status"`
	Connections []ConnectionInfo `json:"connections"`
	Coords      Coordinate       `json:"coords"`
	Distance    float64          `json:"distance"`
}
