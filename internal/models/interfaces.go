package models

import "context"

// StationFinder returns charging stations around a location. A nil location
// means the configured default center.
type StationFinder interface {
	FindStations(ctx context.Context, location *Coordinate) ([]Station, error)
}
