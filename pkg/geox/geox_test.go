package geox

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

var sanFrancisco = Point{Latitude: 37.7749, Longitude: -122.4194}

func TestDistanceKm(t *testing.T) {
	t.Parallel()

	t.Run("zero for identical points", func(t *testing.T) {
		require.Zero(t, DistanceKm(sanFrancisco, sanFrancisco))
	})

	t.Run("known city pair", func(t *testing.T) {
		losAngeles := Point{Latitude: 34.0522, Longitude: -118.2437}
		d := DistanceKm(sanFrancisco, losAngeles)
		// Great-circle SF to LA is roughly 559 km.
		require.InDelta(t, 559, d, 5)
	})

	t.Run("symmetric", func(t *testing.T) {
		sydney := Point{Latitude: -33.8688, Longitude: 151.2093}
		require.InDelta(t, DistanceKm(sanFrancisco, sydney), DistanceKm(sydney, sanFrancisco), 1e-9)
	})
}

func TestFenceContains(t *testing.T) {
	t.Parallel()

	t.Run("center is always inside for positive radius", func(t *testing.T) {
		for _, radius := range []float64{1, 50, 100, 5000} {
			f := Fence{Center: sanFrancisco, RadiusM: radius}
			require.True(t, f.Contains(sanFrancisco), "radius %v", radius)
		}
	})

	t.Run("point beyond radius is outside", func(t *testing.T) {
		f := Fence{Center: sanFrancisco, RadiusM: 100}
		// ~0.01 degrees of latitude is ~1.1 km, far outside a 100 m fence.
		outside := Point{Latitude: sanFrancisco.Latitude + 0.01, Longitude: sanFrancisco.Longitude}
		require.False(t, f.Contains(outside))
	})

	t.Run("point just inside radius is inside", func(t *testing.T) {
		f := Fence{Center: sanFrancisco, RadiusM: 100}
		// ~0.0005 degrees of latitude is ~55 m.
		inside := Point{Latitude: sanFrancisco.Latitude + 0.0005, Longitude: sanFrancisco.Longitude}
		require.True(t, f.Contains(inside))
	})

	t.Run("nan coordinates are never inside", func(t *testing.T) {
		f := Fence{Center: sanFrancisco, RadiusM: 100}
		require.False(t, f.Contains(Point{Latitude: math.NaN(), Longitude: 0}))
		require.False(t, f.Contains(Point{Latitude: 0, Longitude: math.NaN()}))
	})

	t.Run("out of range coordinates are never inside", func(t *testing.T) {
		f := Fence{Center: sanFrancisco, RadiusM: 100}
		require.False(t, f.Contains(Point{Latitude: 91, Longitude: 0}))
		require.False(t, f.Contains(Point{Latitude: 0, Longitude: -181}))
	})
}

func TestFenceRadiusDefault(t *testing.T) {
	t.Parallel()

	require.Equal(t, DefaultRadiusM, Fence{}.Radius())
	require.Equal(t, DefaultRadiusM, Fence{RadiusM: -10}.Radius())
	require.Equal(t, DefaultRadiusM, Fence{RadiusM: math.NaN()}.Radius())
	require.Equal(t, 250.0, Fence{RadiusM: 250}.Radius())
}

func TestValid(t *testing.T) {
	t.Parallel()

	require.True(t, Valid(sanFrancisco))
	require.False(t, Valid(Point{Latitude: math.Inf(1)}))
	require.False(t, Valid(Point{Latitude: -90.5}))
	require.True(t, Valid(Point{Latitude: -90, Longitude: 180}))
}
