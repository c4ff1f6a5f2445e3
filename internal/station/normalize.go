package station

import (
	"encoding/json"
	"fmt"

	"github.com/bbernstein/chargefinder/backend-go/internal/geo"
	"github.com/bbernstein/chargefinder/backend-go/internal/models"
)

// Open Charge Map ConnectionTypeID values with friendly names.
var connectionTypeNames = map[int]string{
	1:  "Type 1 (J1772)",
	2:  "CHAdeMO",
	3:  "Type 2 (Mennekes)",
	32: "CCS (Type 1)",
	33: "CCS (Type 2)",
	34: "Tesla Supercharger",
	35: "Tesla Destination",
}

// Normalize converts one upstream record into a Station. It returns
// ErrMissingCoordinates when either axis of the station location is zero.
// Distance is left at 0 for default-location queries.
func Normalize(raw POI, query models.Coordinate, isDefault bool) (models.Station, error) {
	coords := raw.AddressInfo.coordinate()
	if !coords.Located() {
		return models.Station{}, ErrMissingCoordinates
	}

	connections := make([]models.ConnectionInfo, 0, len(raw.Connections))
	for _, conn := range raw.Connections {
		connections = append(connections, normalizeConnection(conn))
	}

	var distance float64
	if !isDefault {
		distance = geo.Distance(query.Latitude, query.Longitude, coords.Latitude, coords.Longitude)
	}

	return models.Station{
		Name:        raw.AddressInfo.title(),
		Address:     raw.AddressInfo.addressLine(),
		Town:        raw.AddressInfo.town(),
		Status:      stationStatus(raw),
		Connections: connections,
		Coords:      coords,
		Distance:    distance,
	}, nil
}

// NormalizeAll decodes and normalizes each record independently. Records that
// fail are reported in skipped and left out of stations; order is preserved.
func NormalizeAll(records []json.RawMessage, query models.Coordinate, isDefault bool) (stations []models.Station, skipped []*RecordError) {
	stations = make([]models.Station, 0, len(records))
	for i, record := range records {
		station, err := normalizeRecord(record, query, isDefault)
		if err != nil {
			skipped = append(skipped, &RecordError{Index: i, Err: err})
			continue
		}
		stations = append(stations, station)
	}
	return stations, skipped
}

func normalizeRecord(record json.RawMessage, query models.Coordinate, isDefault bool) (models.Station, error) {
	var raw POI
	if err := json.Unmarshal(record, &raw); err != nil {
		return models.Station{}, fmt.Errorf("decoding station: %w", err)
	}
	return Normalize(raw, query, isDefault)
}

func normalizeConnection(conn Connection) models.ConnectionInfo {
	power := conn.PowerKW
	// An explicit null reads the same as a missing rating.
	if power == nil {
		power = models.PowerUnavailable
	}
	return models.ConnectionInfo{
		Type:   connectionTypeName(conn),
		Power:  power,
		Status: conn.StatusType.title(),
	}
}

// connectionTypeName prefers the numeric type code, then the nested title.
// A zero code counts as absent.
func connectionTypeName(conn Connection) string {
	if conn.ConnectionTypeID != nil && *conn.ConnectionTypeID != 0 {
		if name, ok := connectionTypeNames[*conn.ConnectionTypeID]; ok {
			return name
		}
		return fmt.Sprintf("Type %d", *conn.ConnectionTypeID)
	}
	if conn.ConnectionType != nil && conn.ConnectionType.Title != nil && *conn.ConnectionType.Title != "" {
		return *conn.ConnectionType.Title
	}
	return "Unknown"
}

// stationStatus is available when any connection is operational (a missing
// flag counts as operational) or the station itself is flagged operational.
// A station-level false never overrides an operational connection.
func stationStatus(raw POI) models.Status {
	for _, conn := range raw.Connections {
		if conn.StatusType.operationalOrUnknown() {
			return models.StatusAvailable
		}
	}
	if raw.StatusType.explicitlyOperational() {
		return models.StatusAvailable
	}
	return models.StatusUnavailable
}
