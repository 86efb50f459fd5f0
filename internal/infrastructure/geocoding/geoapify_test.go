package geocoding

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salefinder/internal/domain/entity"
	"salefinder/pkg/errors"
)

var testAddress = entity.Address{
	Street: "1600 Pennsylvania Ave NW",
	City:   "Washington",
	State:  "DC",
	Zip:    20500,
}

func newTestClient(handler http.HandlerFunc) (*GeoapifyClient, *httptest.Server) {
	server := httptest.NewServer(handler)
	client := NewGeoapifyClient(server.URL, "test-key", 5*time.Second)
	return client, server
}

func TestCoordinatesFromAddress(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/geocode/search", r.URL.Path)
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		assert.Contains(t, r.URL.Query().Get("text"), "1600 Pennsylvania Ave NW")

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"results":[{"lat":38.8977,"lon":-77.0365},{"lat":1,"lon":1}]}`))
	})
	defer server.Close()

	lat, lon, err := client.CoordinatesFromAddress(context.Background(), testAddress)
	require.NoError(t, err)
	assert.Equal(t, 38.8977, lat)
	assert.Equal(t, -77.0365, lon)
}

func TestCoordinatesFromAddressEmptyResults(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"results":[]}`))
	})
	defer server.Close()

	_, _, err := client.CoordinatesFromAddress(context.Background(), testAddress)
	require.Error(t, err)
	assert.True(t, errors.Is(err, "UPSTREAM_LOOKUP"))
}

func TestCoordinatesFromAddressProviderError(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	defer server.Close()

	_, _, err := client.CoordinatesFromAddress(context.Background(), testAddress)
	require.Error(t, err)
	assert.True(t, errors.Is(err, "UPSTREAM_LOOKUP"))
}

func TestCoordinatesFromZipcodeGeoJSONOrder(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "20500", r.URL.Query().Get("postcode"))
		assert.Equal(t, "postcode", r.URL.Query().Get("type"))
		assert.Equal(t, "countrycode:us", r.URL.Query().Get("filter"))

		w.Header().Set("Content-Type", "application/json")
		// GeoJSON coordinates are [lon, lat]; the client must flip them.
		w.Write([]byte(`{"type":"FeatureCollection","features":[{"geometry":{"type":"Point","coordinates":[-77.0365,38.8977]}}]}`))
	})
	defer server.Close()

	lat, lon, err := client.CoordinatesFromZipcode(context.Background(), 20500)
	require.NoError(t, err)
	assert.Equal(t, 38.8977, lat)
	assert.Equal(t, -77.0365, lon)
}

func TestCoordinatesFromZipcodeEmptyFeatures(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"type":"FeatureCollection","features":[]}`))
	})
	defer server.Close()

	_, _, err := client.CoordinatesFromZipcode(context.Background(), 99999)
	require.Error(t, err)
	assert.True(t, errors.Is(err, "UPSTREAM_LOOKUP"))
}

func TestCoordinatesFromAddressNetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // refuse connections

	client := NewGeoapifyClient(server.URL, "test-key", time.Second)
	_, _, err := client.CoordinatesFromAddress(context.Background(), testAddress)
	require.Error(t, err)
	assert.True(t, errors.Is(err, "UPSTREAM_LOOKUP"))
}
