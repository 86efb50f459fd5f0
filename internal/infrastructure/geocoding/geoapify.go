package geocoding

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"salefinder/internal/domain/entity"
	"salefinder/pkg/errors"
	"salefinder/pkg/logger"
)

// GeoapifyClient resolves street addresses and US postal codes to
// coordinates through the Geoapify forward-geocoding API.
//
// The two endpoints return coordinates in different shapes: the plain-JSON
// format carries lat/lon fields, the GeoJSON postcode lookup carries a
// [lon, lat] coordinates pair. Keep the order straight per endpoint —
// swapping them corrupts every derived geohash silently.
type GeoapifyClient struct {
	http   *resty.Client
	apiKey string
}

func NewGeoapifyClient(baseURL, apiKey string, timeout time.Duration) *GeoapifyClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout)

	return &GeoapifyClient{
		http:   client,
		apiKey: apiKey,
	}
}

type searchResult struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type searchResponse struct {
	Results []searchResult `json:"results"`
}

type geoJSONGeometry struct {
	Coordinates []float64 `json:"coordinates"`
}

type geoJSONFeature struct {
	Geometry geoJSONGeometry `json:"geometry"`
}

type featureCollection struct {
	Features []geoJSONFeature `json:"features"`
}

// CoordinatesFromAddress geocodes a full street address. The first result
// is authoritative.
func (c *GeoapifyClient) CoordinatesFromAddress(ctx context.Context, address entity.Address) (float64, float64, error) {
	text := fmt.Sprintf("%s, %s, %s %d", address.Street, address.City, address.State, address.Zip)

	var body searchResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"text":   text,
			"format": "json",
			"limit":  "1",
			"apiKey": c.apiKey,
		}).
		SetResult(&body).
		Get("/v1/geocode/search")

	if err != nil {
		return 0, 0, errors.UpstreamLookup("Could not resolve address", err)
	}
	if resp.IsError() {
		logger.Warn("geocoder returned %d for address lookup", resp.StatusCode())
		return 0, 0, errors.UpstreamLookup("Could not resolve address", fmt.Errorf("geocoder status %d", resp.StatusCode()))
	}
	if len(body.Results) == 0 {
		return 0, 0, errors.UpstreamLookup("Could not resolve address", nil)
	}

	// Plain-JSON format: explicit lat/lon fields.
	return body.Results[0].Lat, body.Results[0].Lon, nil
}

// CoordinatesFromZipcode geocodes a US postal code. The first feature of
// the returned collection is authoritative.
func (c *GeoapifyClient) CoordinatesFromZipcode(ctx context.Context, zipcode int) (float64, float64, error) {
	var body featureCollection
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"postcode": strconv.Itoa(zipcode),
			"type":     "postcode",
			"filter":   "countrycode:us",
			"limit":    "1",
			"apiKey":   c.apiKey,
		}).
		SetResult(&body).
		Get("/v1/geocode/search")

	if err != nil {
		return 0, 0, errors.UpstreamLookup("Could not resolve zipcode", err)
	}
	if resp.IsError() {
		logger.Warn("geocoder returned %d for zipcode lookup", resp.StatusCode())
		return 0, 0, errors.UpstreamLookup("Could not resolve zipcode", fmt.Errorf("geocoder status %d", resp.StatusCode()))
	}
	if len(body.Features) == 0 || len(body.Features[0].Geometry.Coordinates) < 2 {
		return 0, 0, errors.UpstreamLookup("Could not resolve zipcode", nil)
	}

	// GeoJSON geometry order is [longitude, latitude].
	coords := body.Features[0].Geometry.Coordinates
	return coords[1], coords[0], nil
}
