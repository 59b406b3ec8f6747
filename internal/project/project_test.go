package project

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEquirectangularCorners(t *testing.T) {
	proj := Equirectangular{Width: 800, Height: 400}

	topLeft, ok := proj.Project(90, -180)
	require.True(t, ok)
	assert.Equal(t, Point{X: 0, Y: 0}, topLeft)

	bottomRight, ok := proj.Project(-90, 180)
	require.True(t, ok)
	assert.Equal(t, Point{X: 800, Y: 400}, bottomRight)

	center, ok := proj.Project(0, 0)
	require.True(t, ok)
	assert.Equal(t, Point{X: 400, Y: 200}, center)
}

func TestEquirectangularRejectsInvalid(t *testing.T) {
	proj := Equirectangular{Width: 800, Height: 400}

	cases := []struct {
		name     string
		lat, lng float64
	}{
		{"nan lat", math.NaN(), 0},
		{"nan lng", 0, math.NaN()},
		{"inf lat", math.Inf(1), 0},
		{"lat too big", 90.01, 0},
		{"lat too small", -90.01, 0},
		{"lng too big", 0, 180.5},
		{"lng too small", 0, -180.5},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, ok := proj.Project(tc.lat, tc.lng)
			assert.False(t, ok)
		})
	}
}

func TestNaturalEarthFitExtent(t *testing.T) {
	proj := FitExtent(800, 400)

	// Center of the globe maps to the center of the canvas
	center, ok := proj.Project(0, 0)
	require.True(t, ok)
	assert.InDelta(t, 400, center.X, 1e-9)
	assert.InDelta(t, 200, center.Y, 1e-9)

	// The full globe stays inside the extent
	probes := []struct{ lat, lng float64 }{
		{90, 0}, {-90, 0}, {0, 180}, {0, -180}, {85, 180}, {-85, -180},
	}
	for _, p := range probes {
		pt, ok := proj.Project(p.lat, p.lng)
		require.True(t, ok)
		assert.GreaterOrEqual(t, pt.X, 0.0)
		assert.LessOrEqual(t, pt.X, 800.0)
		assert.GreaterOrEqual(t, pt.Y, 0.0)
		assert.LessOrEqual(t, pt.Y, 400.0)
	}
}

func TestNaturalEarthOrientation(t *testing.T) {
	proj := FitExtent(800, 400)

	north, ok := proj.Project(45, 0)
	require.True(t, ok)
	south, ok := proj.Project(-45, 0)
	require.True(t, ok)
	assert.Less(t, north.Y, south.Y, "north is up")

	west, ok := proj.Project(0, -90)
	require.True(t, ok)
	east, ok := proj.Project(0, 90)
	require.True(t, ok)
	assert.Less(t, west.X, east.X, "west is left")
}
