package project

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/airiq/mockfeed/internal/scatter"
)

func TestFocusCentersOnTarget(t *testing.T) {
	base := DefaultViewport()
	v := Focus(10, 20, base)

	assert.InDelta(t, 10, (v.MinLat+v.MaxLat)/2, 1e-9)
	assert.InDelta(t, 20, (v.MinLng+v.MaxLng)/2, 1e-9)
	assert.InDelta(t, base.LatSpan()*0.2, v.LatSpan(), 1e-9)
	assert.InDelta(t, base.LngSpan()*0.2, v.LngSpan(), 1e-9)
}

func TestFocusClampedInsideBase(t *testing.T) {
	base := DefaultViewport()

	corners := []struct{ lat, lng float64 }{
		{base.MaxLat, base.MaxLng},
		{base.MinLat, base.MinLng},
		{base.MaxLat, base.MinLng},
	}
	for _, c := range corners {
		v := Focus(c.lat, c.lng, base)
		assert.GreaterOrEqual(t, v.MinLat, base.MinLat)
		assert.LessOrEqual(t, v.MaxLat, base.MaxLat)
		assert.GreaterOrEqual(t, v.MinLng, base.MinLng)
		assert.LessOrEqual(t, v.MaxLng, base.MaxLng)
		assert.InDelta(t, base.LatSpan()*0.2, v.LatSpan(), 1e-9)
	}
}

func TestFocusEnforcesMinimumSpan(t *testing.T) {
	tiny := Viewport{MinLat: 0, MaxLat: 1, MinLng: 0, MaxLng: 1}
	v := Focus(0.5, 0.5, tiny)

	assert.GreaterOrEqual(t, v.LatSpan(), 2.0)
	assert.GreaterOrEqual(t, v.LngSpan(), 2.0)
}

func TestFitEmptyReturnsWorldDefault(t *testing.T) {
	v := Fit(nil)
	assert.Equal(t, DefaultViewport(), v)
	assert.Positive(t, v.LatSpan())
	assert.Positive(t, v.LngSpan())
}

func TestFitSingleSensorNonDegenerate(t *testing.T) {
	records := []scatter.SensorRecord{{ID: "a", Lat: 48.0, Lng: 2.0}}
	v := Fit(records)

	assert.GreaterOrEqual(t, v.LatSpan(), 2.0)
	assert.GreaterOrEqual(t, v.LngSpan(), 2.0)
	assert.Less(t, v.MinLat, 48.0)
	assert.Greater(t, v.MaxLat, 48.0)
}

func TestFitEnclosesAllWithPadding(t *testing.T) {
	records := []scatter.SensorRecord{
		{ID: "a", Lat: 40, Lng: -100},
		{ID: "b", Lat: 50, Lng: -80},
		{ID: "c", Lat: 45, Lng: -90},
	}
	v := Fit(records)

	for _, rec := range records {
		assert.Greater(t, rec.Lat, v.MinLat)
		assert.Less(t, rec.Lat, v.MaxLat)
		assert.Greater(t, rec.Lng, v.MinLng)
		assert.Less(t, rec.Lng, v.MaxLng)
	}

	// 45% total padding on a 10-degree latitude extent
	assert.InDelta(t, 14.5, v.LatSpan(), 1e-9)
}

func TestFitClampsToGlobe(t *testing.T) {
	records := []scatter.SensorRecord{
		{ID: "a", Lat: 85, Lng: 175},
		{ID: "b", Lat: -85, Lng: -175},
	}
	v := Fit(records)

	assert.GreaterOrEqual(t, v.MinLat, -90.0)
	assert.LessOrEqual(t, v.MaxLat, 90.0)
	assert.GreaterOrEqual(t, v.MinLng, -180.0)
	assert.LessOrEqual(t, v.MaxLng, 180.0)
}

func TestMarkersNormalization(t *testing.T) {
	v := Viewport{MinLat: 0, MaxLat: 10, MinLng: 0, MaxLng: 20}
	records := []scatter.SensorRecord{
		{ID: "center", Lat: 5, Lng: 10, Status: scatter.StatusGood, Intensity: 0.7},
		{ID: "top-left", Lat: 10, Lng: 0, Status: scatter.StatusPoor, Intensity: 0.9},
	}

	markers := Markers(records, v)
	require.Len(t, markers, 2)

	assert.Equal(t, "center", markers[0].ID)
	assert.InDelta(t, 50, markers[0].XPct, 1e-9)
	assert.InDelta(t, 50, markers[0].YPct, 1e-9)
	assert.Equal(t, scatter.StatusGood, markers[0].Status)

	assert.InDelta(t, 0, markers[1].XPct, 1e-9)
	assert.InDelta(t, 0, markers[1].YPct, 1e-9)
}

func TestMarkersToleranceFilter(t *testing.T) {
	v := Viewport{MinLat: 0, MaxLat: 10, MinLng: 0, MaxLng: 10}
	records := []scatter.SensorRecord{
		{ID: "just-outside", Lat: 5, Lng: 10.1},  // 101% — within tolerance
		{ID: "far-outside", Lat: 5, Lng: 10.5},   // 105% — dropped
		{ID: "below", Lat: -0.1, Lng: 5},         // 101% on y — within tolerance
		{ID: "far-below", Lat: -1, Lng: 5},       // 110% on y — dropped
	}

	markers := Markers(records, v)
	require.Len(t, markers, 2)
	assert.Equal(t, "just-outside", markers[0].ID)
	assert.Equal(t, "below", markers[1].ID)
}

func TestMarkersDegenerateViewport(t *testing.T) {
	v := Viewport{MinLat: 5, MaxLat: 5, MinLng: 0, MaxLng: 10}
	records := []scatter.SensorRecord{{ID: "a", Lat: 5, Lng: 5}}
	assert.Empty(t, Markers(records, v))
}

type fixedProjector struct{}

func (fixedProjector) Project(lat, lng float64) (Point, bool) {
	if lat > 80 {
		return Point{}, false
	}
	return Point{X: lng, Y: lat}, true
}

func TestProjectRecordsSkipsOffProjection(t *testing.T) {
	records := []scatter.SensorRecord{
		{ID: "ok", Lat: 10, Lng: 20, Status: scatter.StatusModerate, Intensity: 0.6},
		{ID: "polar", Lat: 89, Lng: 0},
	}

	points := ProjectRecords(records, fixedProjector{})
	require.Len(t, points, 1)
	assert.Equal(t, "ok", points[0].ID)
	assert.Equal(t, 20.0, points[0].X)
	assert.Equal(t, 10.0, points[0].Y)
	assert.Equal(t, scatter.StatusModerate, points[0].Status)
}
