package geo

import (
	"math"

	"github.com/golang/geo/s2"
)

// haversine distance
const earthRadiusKM = 6371.0

type Location struct {
	Latitude  float64
	Longitude float64
}

func degreeToRadians(angle float64) float64 {
	return angle * (math.Pi / 180.0)
}

// NewLocation. lat/lon dalam derajat, disimpan dalam radian.
func NewLocation(latDegree float64, lonDegree float64) Location {
	return Location{
		Latitude:  degreeToRadians(latDegree),
		Longitude: degreeToRadians(lonDegree),
	}
}

func havFormula(locationOne Location, locationTwo Location) float64 {
	sinLat := math.Sin((locationTwo.Latitude - locationOne.Latitude) / 2)
	sinLon := math.Sin((locationTwo.Longitude - locationOne.Longitude) / 2)

	return sinLat*sinLat + math.Cos(locationOne.Latitude)*math.Cos(locationTwo.Latitude)*sinLon*sinLon
}

// HaversineDistanceLocation great-circle distance in km between two locations.
//
// https://www.movable-type.co.uk/scripts/latlong.html
func HaversineDistanceLocation(locationOne Location, locationTwo Location) float64 {
	a := havFormula(locationOne, locationTwo)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKM * c
}

// HaversineDistance great-circle distance in km between (lat1, lon1) and (lat2, lon2), all in decimal degrees.
func HaversineDistance(lat1, lon1, lat2, lon2 float64) float64 {
	return HaversineDistanceLocation(NewLocation(lat1, lon1), NewLocation(lat2, lon2))
}

// ValidCoordinate reports whether lat is within [-90, 90] and lon within [-180, 180].
func ValidCoordinate(lat, lon float64) bool {
	return s2.LatLngFromDegrees(lat, lon).IsValid()
}
