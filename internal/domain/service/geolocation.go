package service

import (
	"math"

	"github.com/mmcloughlin/geohash"

	"salefinder/internal/domain/entity"
	"salefinder/pkg/errors"
)

// geohashPrecision of 9 gives cells under ~5m, well past neighborhood
// resolution.
const geohashPrecision = 9

const earthRadiusMiles = 3958.8

// EncodeGeoLocation derives the spatial index value stored on a listing
// from raw coordinates. Pure: same inputs always yield the same geohash
// and geopoint.
func EncodeGeoLocation(latitude, longitude float64) (*entity.GeoLocation, error) {
	if math.IsNaN(latitude) || math.IsInf(latitude, 0) ||
		math.IsNaN(longitude) || math.IsInf(longitude, 0) {
		return nil, errors.InvalidCoordinates("latitude and longitude must be finite numbers")
	}
	if latitude < -90 || latitude > 90 {
		return nil, errors.InvalidCoordinates("latitude must be between -90 and 90")
	}
	if longitude < -180 || longitude > 180 {
		return nil, errors.InvalidCoordinates("longitude must be between -180 and 180")
	}

	return &entity.GeoLocation{
		Geohash: geohash.EncodeWithPrecision(latitude, longitude, geohashPrecision),
		Geopoint: entity.GeoPoint{
			Latitude:  latitude,
			Longitude: longitude,
		},
	}, nil
}

// DistanceMiles is the great-circle (haversine) distance between two
// geopoints in statute miles.
func DistanceMiles(a, b entity.GeoPoint) float64 {
	lat1 := a.Latitude * math.Pi / 180
	lat2 := b.Latitude * math.Pi / 180
	dLat := (b.Latitude - a.Latitude) * math.Pi / 180
	dLon := (b.Longitude - a.Longitude) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)

	return 2 * earthRadiusMiles * math.Asin(math.Sqrt(h))
}
