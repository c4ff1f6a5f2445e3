package station

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/bbernstein/chargefinder/backend-go/internal/models"
	"github.com/bbernstein/chargefinder/backend-go/pkg/http/client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenChargeMap_FetchStations(t *testing.T) {
	var gotQuery url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v3/poi", r.URL.Path)
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"AddressInfo": {"Title": "A"}}, {"AddressInfo": {"Title": "B"}}]`))
	}))
	defer srv.Close()

	ocm := NewOpenChargeMap(client.New(client.Options{BaseURL: srv.URL, Timeout: 5 * time.Second}), "test-key")

	records, err := ocm.FetchStations(context.Background(), SearchParams{
		Center:     models.Coordinate{Latitude: 43.4695, Longitude: -80.5425},
		RadiusKM:   150,
		MaxResults: 100,
	})
	require.NoError(t, err)
	assert.Len(t, records, 2)

	assert.Equal(t, "test-key", gotQuery.Get("key"))
	assert.Equal(t, "43.4695", gotQuery.Get("latitude"))
	assert.Equal(t, "-80.5425", gotQuery.Get("longitude"))
	assert.Equal(t, "150", gotQuery.Get("distance"))
	assert.Equal(t, "km", gotQuery.Get("distanceunit"))
	assert.Equal(t, "100", gotQuery.Get("maxresults"))
	assert.Equal(t, "true", gotQuery.Get("compact"))
	assert.Equal(t, "false", gotQuery.Get("verbose"))
}

func TestOpenChargeMap_UnboundedSearchOmitsDistance(t *testing.T) {
	httpClient := &client.Client{
		GetFunc: func(_ context.Context, _ string, query url.Values) (*client.Response, error) {
			assert.False(t, query.Has("distance"))
			assert.False(t, query.Has("distanceunit"))
			assert.False(t, query.Has("key"), "empty API key should not be sent")
			return &client.Response{StatusCode: http.StatusOK, Body: []byte(`[]`)}, nil
		},
	}

	records, err := NewOpenChargeMap(httpClient, "").FetchStations(context.Background(), SearchParams{
		Center:     models.Coordinate{Latitude: 43.4695, Longitude: -80.5425},
		MaxResults: 100,
	})
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestOpenChargeMap_Failures(t *testing.T) {
	tests := []struct {
		name     string
		response *client.Response
		err      error
	}{
		{
			name: "transport error",
			err:  errors.New("connection refused"),
		},
		{
			name:     "server error",
			response: &client.Response{StatusCode: http.StatusInternalServerError, Body: []byte(`oops`)},
		},
		{
			name:     "forbidden",
			response: &client.Response{StatusCode: http.StatusForbidden, Body: []byte(`{"error": "bad key"}`)},
		},
		{
			name:     "not a list",
			response: &client.Response{StatusCode: http.StatusOK, Body: []byte(`{"stations": []}`)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			httpClient := &client.Client{
				GetFunc: func(context.Context, string, url.Values) (*client.Response, error) {
					return tt.response, tt.err
				},
			}

			records, err := NewOpenChargeMap(httpClient, "k").FetchStations(context.Background(), SearchParams{MaxResults: 1})
			require.Error(t, err)
			assert.Nil(t, records)

			var upstreamErr *UpstreamUnavailableError
			assert.True(t, errors.As(err, &upstreamErr))
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
			}
		})
	}
}
