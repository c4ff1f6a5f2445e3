package models

import (
	"encoding/json"
	"fmt"
)

// Coordinate is a WGS84 point in decimal degrees.
//
// On the wire it is a GeoJSON-style [longitude, latitude] pair, which is the
// order the map frontend consumes.
type Coordinate struct {
	Latitude  float64
	Longitude float64
}

// Valid reports whether both axes are inside their geographic ranges.
func (c Coordinate) Valid() bool {
	return c.Latitude >= -90 && c.Latitude <= 90 &&
		c.Longitude >= -180 && c.Longitude <= 180
}

// Located reports whether both axes are non-zero. Upstream records use 0 as
// the "no coordinates" sentinel.
func (c Coordinate) Located() bool {
	return c.Latitude != 0 && c.Longitude != 0
}

func (c Coordinate) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{c.Longitude, c.Latitude})
}

func (c *Coordinate) UnmarshalJSON(data []byte) error {
	var pair []float64
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("decoding coordinate pair: %w", err)
	}
	if len(pair) != 2 {
		return fmt.Errorf("coordinate pair has %d elements, want 2", len(pair))
	}
	c.Longitude, c.Latitude = pair[0], pair[1]
	return nil
}
