package station

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/bbernstein/chargefinder/backend-go/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	defaultCenter = models.Coordinate{Latitude: 43.4695, Longitude: -80.5425}
	toronto       = models.Coordinate{Latitude: 43.6532, Longitude: -79.3832}
)

func decodePOI(t *testing.T, data string) POI {
	t.Helper()
	var raw POI
	require.NoError(t, json.Unmarshal([]byte(data), &raw))
	return raw
}

func decodeRecords(t *testing.T, data string) []json.RawMessage {
	t.Helper()
	var records []json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(data), &records))
	return records
}

func TestNormalize_Fields(t *testing.T) {
	raw := decodePOI(t, `{
		"AddressInfo": {
			"Title": "Waterloo Town Square",
			"AddressLine1": "75 King St S",
			"Town": "Waterloo",
			"Latitude": 43.4643,
			"Longitude": -80.5204
		},
		"Connections": [
			{"ConnectionTypeID": 32, "PowerKW": 50, "StatusType": {"IsOperational": true, "Title": "Operational"}},
			{"ConnectionTypeID": 2}
		]
	}`)

	got, err := Normalize(raw, toronto, false)
	require.NoError(t, err)

	assert.Equal(t, "Waterloo Town Square", got.Name)
	assert.Equal(t, "75 King St S", got.Address)
	assert.Equal(t, "Waterloo", got.Town)
	assert.Equal(t, models.StatusAvailable, got.Status)
	assert.Equal(t, models.Coordinate{Latitude: 43.4643, Longitude: -80.5204}, got.Coords)
	assert.Equal(t, []models.ConnectionInfo{
		{Type: "CCS (Type 1)", Power: 50.0, Status: "Operational"},
		{Type: "CHAdeMO", Power: models.PowerUnavailable, Status: "Unknown"},
	}, got.Connections)
	assert.InDelta(t, 94.01, got.Distance, 0.01)
}

func TestNormalize_Defaults(t *testing.T) {
	raw := decodePOI(t, `{"AddressInfo": {"Latitude": 43.5, "Longitude": -80.5}}`)

	got, err := Normalize(raw, defaultCenter, true)
	require.NoError(t, err)

	assert.Equal(t, "Unknown Station", got.Name)
	assert.Equal(t, "", got.Address)
	assert.Equal(t, "", got.Town)
	assert.NotNil(t, got.Connections)
	assert.Empty(t, got.Connections)
	assert.Zero(t, got.Distance)
}

func TestNormalize_MissingCoordinates(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"no address info", `{}`},
		{"null address info", `{"AddressInfo": null}`},
		{"zero pair", `{"AddressInfo": {"Title": "X", "Latitude": 0, "Longitude": 0}}`},
		{"zero latitude", `{"AddressInfo": {"Latitude": 0, "Longitude": -80.5}}`},
		{"zero longitude", `{"AddressInfo": {"Latitude": 43.5, "Longitude": 0}}`},
		{"longitude absent", `{"AddressInfo": {"Latitude": 43.5}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Normalize(decodePOI(t, tt.data), toronto, false)
			assert.ErrorIs(t, err, ErrMissingCoordinates)
		})
	}
}

func TestConnectionTypeName(t *testing.T) {
	intPtr := func(v int) *int { return &v }
	strPtr := func(v string) *string { return &v }

	tests := []struct {
		name string
		conn Connection
		want string
	}{
		{"J1772", Connection{ConnectionTypeID: intPtr(1)}, "Type 1 (J1772)"},
		{"CHAdeMO", Connection{ConnectionTypeID: intPtr(2)}, "CHAdeMO"},
		{"Mennekes", Connection{ConnectionTypeID: intPtr(3)}, "Type 2 (Mennekes)"},
		{"CCS1", Connection{ConnectionTypeID: intPtr(32)}, "CCS (Type 1)"},
		{"CCS2", Connection{ConnectionTypeID: intPtr(33)}, "CCS (Type 2)"},
		{"Supercharger", Connection{ConnectionTypeID: intPtr(34)}, "Tesla Supercharger"},
		{"Destination", Connection{ConnectionTypeID: intPtr(35)}, "Tesla Destination"},
		{"unlisted code", Connection{ConnectionTypeID: intPtr(99)}, "Type 99"},
		{"code beats title", Connection{ConnectionTypeID: intPtr(33), ConnectionType: &ConnectionType{Title: strPtr("Other")}}, "CCS (Type 2)"},
		{"zero code falls back to title", Connection{ConnectionTypeID: intPtr(0), ConnectionType: &ConnectionType{Title: strPtr("NEMA 5-20R")}}, "NEMA 5-20R"},
		{"title only", Connection{ConnectionType: &ConnectionType{Title: strPtr("Type 2 (Socket Only)")}}, "Type 2 (Socket Only)"},
		{"empty title", Connection{ConnectionType: &ConnectionType{Title: strPtr("")}}, "Unknown"},
		{"nothing", Connection{}, "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, connectionTypeName(tt.conn))
		})
	}
}

func TestNormalize_PowerPassThrough(t *testing.T) {
	raw := decodePOI(t, `{
		"AddressInfo": {"Latitude": 43.5, "Longitude": -80.5},
		"Connections": [
			{"PowerKW": 7.2},
			{"PowerKW": null},
			{"PowerKW": "22"},
			{}
		]
	}`)

	got, err := Normalize(raw, defaultCenter, true)
	require.NoError(t, err)
	require.Len(t, got.Connections, 4)

	assert.Equal(t, 7.2, got.Connections[0].Power)
	assert.Equal(t, models.PowerUnavailable, got.Connections[1].Power)
	assert.Equal(t, "22", got.Connections[2].Power)
	assert.Equal(t, models.PowerUnavailable, got.Connections[3].Power)
}

func TestStationStatus(t *testing.T) {
	tests := []struct {
		name string
		data string
		want models.Status
	}{
		{
			name: "no connections, no station status",
			data: `{}`,
			want: models.StatusUnavailable,
		},
		{
			name: "no connections, station operational",
			data: `{"StatusType": {"IsOperational": true}}`,
			want: models.StatusAvailable,
		},
		{
			name: "no connections, station not operational",
			data: `{"StatusType": {"IsOperational": false}}`,
			want: models.StatusUnavailable,
		},
		{
			name: "station status without flag",
			data: `{"StatusType": {"Title": "Unknown"}}`,
			want: models.StatusUnavailable,
		},
		{
			name: "connection without status counts as operational",
			data: `{"Connections": [{"ConnectionTypeID": 1}]}`,
			want: models.StatusAvailable,
		},
		{
			name: "connection status without flag counts as operational",
			data: `{"Connections": [{"StatusType": {"Title": "Unknown"}}]}`,
			want: models.StatusAvailable,
		},
		{
			name: "all connections down",
			data: `{"Connections": [{"StatusType": {"IsOperational": false}}, {"StatusType": {"IsOperational": false}}]}`,
			want: models.StatusUnavailable,
		},
		{
			name: "one connection up",
			data: `{"Connections": [{"StatusType": {"IsOperational": false}}, {"StatusType": {"IsOperational": true}}]}`,
			want: models.StatusAvailable,
		},
		{
			name: "station operational overrides dead connections",
			data: `{"StatusType": {"IsOperational": true}, "Connections": [{"StatusType": {"IsOperational": false}}]}`,
			want: models.StatusAvailable,
		},
		{
			name: "station not operational does not downgrade",
			data: `{"StatusType": {"IsOperational": false}, "Connections": [{"StatusType": {"IsOperational": true}}]}`,
			want: models.StatusAvailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stationStatus(decodePOI(t, tt.data)))
		})
	}
}

func TestNormalize_Distance(t *testing.T) {
	raw := decodePOI(t, `{"AddressInfo": {"Latitude": 43.6532, "Longitude": -79.3832}}`)

	got, err := Normalize(raw, defaultCenter, false)
	require.NoError(t, err)
	assert.InDelta(t, 95.62, got.Distance, 0.01)

	got, err = Normalize(raw, defaultCenter, true)
	require.NoError(t, err)
	assert.Zero(t, got.Distance)
}

func TestNormalizeAll_IsolatesFailures(t *testing.T) {
	records := decodeRecords(t, `[
		{"AddressInfo": {"Title": "First", "Latitude": 43.5, "Longitude": -80.5}},
		{"AddressInfo": {"Title": "No coords", "Latitude": 0, "Longitude": 0}},
		{"AddressInfo": {"Title": "Bad type", "Latitude": "north", "Longitude": -80.5}},
		{"Connections": "not-a-list"},
		"just a string",
		{"AddressInfo": {"Title": "Last", "Latitude": -80.5, "Longitude": 43.5}}
	]`)

	stations, skipped := NormalizeAll(records, defaultCenter, true)

	require.Len(t, stations, 2)
	assert.Equal(t, "First", stations[0].Name)
	assert.Equal(t, "Last", stations[1].Name)

	require.Len(t, skipped, 4)
	assert.Equal(t, 1, skipped[0].Index)
	assert.Equal(t, ReasonMissingCoordinates, skipped[0].Reason())
	for _, rec := range skipped[1:] {
		assert.Equal(t, ReasonInvalidRecord, rec.Reason())
		assert.False(t, errors.Is(rec, ErrMissingCoordinates))
	}
	assert.Equal(t, []int{2, 3, 4}, []int{skipped[1].Index, skipped[2].Index, skipped[3].Index})
}

func TestNormalizeAll_Empty(t *testing.T) {
	stations, skipped := NormalizeAll(nil, defaultCenter, false)
	assert.NotNil(t, stations)
	assert.Empty(t, stations)
	assert.Empty(t, skipped)
}
