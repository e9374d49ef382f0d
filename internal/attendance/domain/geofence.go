package domain

import "github.com/aussiebroadwan/rollcall/pkg/geox"

// Geofence is the circular attendance boundary assigned to a user.
type Geofence struct {
	Name      string
	Latitude  float64
	Longitude float64
	RadiusM   float64
}

// Fence converts to the geox representation used for containment checks.
func (g Geofence) Fence() geox.Fence {
	return geox.Fence{
		Name:    g.Name,
		Center:  geox.Point{Latitude: g.Latitude, Longitude: g.Longitude},
		RadiusM: g.RadiusM,
	}
}
