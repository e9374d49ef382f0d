// Package geox provides great-circle distance math and circular geofence
// containment checks used by the attendance service.
package geox

import "math"

// EarthRadiusKm is the mean Earth radius used for haversine distances.
const EarthRadiusKm = 6371.0

// DefaultRadiusM is applied when a geofence has no usable radius.
const DefaultRadiusM = 100.0

// Point is a WGS84 coordinate pair.
type Point struct {
	Latitude  float64
	Longitude float64
}

// Valid reports whether the point holds finite, in-range coordinates.
func Valid(p Point) bool {
	if math.IsNaN(p.Latitude) || math.IsNaN(p.Longitude) {
		return false
	}
	if math.IsInf(p.Latitude, 0) || math.IsInf(p.Longitude, 0) {
		return false
	}
	return p.Latitude >= -90 && p.Latitude <= 90 &&
		p.Longitude >= -180 && p.Longitude <= 180
}

// DistanceKm returns the haversine great-circle distance between two points
// in kilometres.
func DistanceKm(a, b Point) float64 {
	dLat := radians(b.Latitude - a.Latitude)
	dLon := radians(b.Longitude - a.Longitude)

	sinLat := math.Sin(dLat / 2)
	sinLon := math.Sin(dLon / 2)

	h := sinLat*sinLat +
		math.Cos(radians(a.Latitude))*math.Cos(radians(b.Latitude))*sinLon*sinLon

	return 2 * EarthRadiusKm * math.Asin(math.Sqrt(h))
}

// Fence is a circular geofence: a centre point plus a radius in metres.
type Fence struct {
	Name    string
	Center  Point
	RadiusM float64
}

// Radius returns the effective radius in metres, substituting DefaultRadiusM
// when the configured radius is absent or non-positive.
func (f Fence) Radius() float64 {
	if math.IsNaN(f.RadiusM) || f.RadiusM <= 0 {
		return DefaultRadiusM
	}
	return f.RadiusM
}

// Contains reports whether p lies on or inside the fence boundary.
// Invalid coordinates are never inside; callers should validate input with
// Valid before treating a false result as a boundary violation.
func (f Fence) Contains(p Point) bool {
	if !Valid(p) || !Valid(f.Center) {
		return false
	}
	return DistanceKm(f.Center, p) <= f.Radius()/1000
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }
