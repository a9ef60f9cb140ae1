package geo

import (
	"fmt"
	"math"
)

const earthRadiusKm = 6371.0

// HaversineKm returns the great-circle distance between two points in km.
func HaversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := toRad(lat2 - lat1)
	dLng := toRad(lng2 - lng1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}

// MapsURL builds a shareable Google Maps link for a coordinate pair.
func MapsURL(lat, lng float64) string {
	return fmt.Sprintf("https://maps.google.com/?q=%f,%f", lat, lng)
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
