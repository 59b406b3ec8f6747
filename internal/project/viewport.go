package project

import "github.com/airiq/mockfeed/internal/scatter"

// Viewport is a rectangular geographic bounding region.
type Viewport struct {
	MinLat float64 `json:"min_lat"`
	MaxLat float64 `json:"max_lat"`
	MinLng float64 `json:"min_lng"`
	MaxLng float64 `json:"max_lng"`
}

const (
	// Focus zoom keeps this fraction of the base viewport's span.
	focusSpanFraction = 0.2

	// Fit grows the bounding box of the sensor set by this fraction of its
	// span, and never below the minimum span floor.
	fitPaddingFraction = 0.45
	minSpan            = 2.0

	// Markers this far outside the normalized [0,100] range (percent of
	// viewport) are dropped, not clipped.
	markerTolerancePct = 2.0
)

// DefaultViewport is the world view used when there is nothing to fit.
func DefaultViewport() Viewport {
	return Viewport{MinLat: -58, MaxLat: 74, MinLng: -168, MaxLng: 178}
}

// LatSpan returns the viewport height in degrees.
func (v Viewport) LatSpan() float64 { return v.MaxLat - v.MinLat }

// LngSpan returns the viewport width in degrees.
func (v Viewport) LngSpan() float64 { return v.MaxLng - v.MinLng }

// Focus computes a zoomed sub-viewport centred on the target coordinate,
// shifted where necessary so it never exceeds the base viewport's bounds.
func Focus(lat, lng float64, base Viewport) Viewport {
	latSpan := base.LatSpan() * focusSpanFraction
	lngSpan := base.LngSpan() * focusSpanFraction
	if latSpan < minSpan {
		latSpan = minSpan
	}
	if lngSpan < minSpan {
		lngSpan = minSpan
	}

	minLat := lat - latSpan/2
	minLng := lng - lngSpan/2

	minLat = clampTo(minLat, base.MinLat, base.MaxLat-latSpan)
	minLng = clampTo(minLng, base.MinLng, base.MaxLng-lngSpan)

	return Viewport{
		MinLat: minLat,
		MaxLat: minLat + latSpan,
		MinLng: minLng,
		MaxLng: minLng + lngSpan,
	}
}

// Fit computes a viewport enclosing all sensors with proportional padding.
// An empty set yields the non-degenerate world default.
func Fit(records []scatter.SensorRecord) Viewport {
	if len(records) == 0 {
		return DefaultViewport()
	}

	minLat, maxLat := records[0].Lat, records[0].Lat
	minLng, maxLng := records[0].Lng, records[0].Lng
	for _, rec := range records[1:] {
		if rec.Lat < minLat {
			minLat = rec.Lat
		}
		if rec.Lat > maxLat {
			maxLat = rec.Lat
		}
		if rec.Lng < minLng {
			minLng = rec.Lng
		}
		if rec.Lng > maxLng {
			maxLng = rec.Lng
		}
	}

	minLat, maxLat = pad(minLat, maxLat)
	minLng, maxLng = pad(minLng, maxLng)

	return Viewport{
		MinLat: clampTo(minLat, -90, 90),
		MaxLat: clampTo(maxLat, -90, 90),
		MinLng: clampTo(minLng, -180, 180),
		MaxLng: clampTo(maxLng, -180, 180),
	}
}

// pad widens an interval by the padding fraction, enforcing the span floor.
func pad(min, max float64) (float64, float64) {
	span := max - min
	if span < minSpan {
		center := (min + max) / 2
		min = center - minSpan/2
		max = center + minSpan/2
		span = minSpan
	}
	padding := span * fitPaddingFraction / 2
	return min - padding, max + padding
}

// Marker is a sensor position normalized to viewport percentages, carrying
// the rendering-relevant fields of its record.
type Marker struct {
	ID        string         `json:"id"`
	XPct      float64        `json:"x_pct"`
	YPct      float64        `json:"y_pct"`
	Status    scatter.Status `json:"status"`
	Intensity float64        `json:"intensity"`
}

// Markers places records within the viewport, excluding any marker that
// lands more than the tolerance outside the visible range on either axis.
func Markers(records []scatter.SensorRecord, v Viewport) []Marker {
	markers := make([]Marker, 0, len(records))
	latSpan := v.LatSpan()
	lngSpan := v.LngSpan()
	if latSpan <= 0 || lngSpan <= 0 {
		return markers
	}

	for _, rec := range records {
		xPct := (rec.Lng - v.MinLng) / lngSpan * 100
		yPct := (v.MaxLat - rec.Lat) / latSpan * 100
		if xPct < -markerTolerancePct || xPct > 100+markerTolerancePct ||
			yPct < -markerTolerancePct || yPct > 100+markerTolerancePct {
			continue
		}
		markers = append(markers, Marker{
			ID:        rec.ID,
			XPct:      xPct,
			YPct:      yPct,
			Status:    rec.Status,
			Intensity: rec.Intensity,
		})
	}
	return markers
}

// ProjectedPoint is a record projected to pixel space for canvas rendering.
type ProjectedPoint struct {
	ID        string         `json:"id"`
	X         float64        `json:"x"`
	Y         float64        `json:"y"`
	Status    scatter.Status `json:"status"`
	Intensity float64        `json:"intensity"`
}

// ProjectRecords maps records through the projector, skipping any without
// a valid image.
func ProjectRecords(records []scatter.SensorRecord, proj Projector) []ProjectedPoint {
	points := make([]ProjectedPoint, 0, len(records))
	for _, rec := range records {
		pt, ok := proj.Project(rec.Lat, rec.Lng)
		if !ok {
			continue
		}
		points = append(points, ProjectedPoint{
			ID:        rec.ID,
			X:         pt.X,
			Y:         pt.Y,
			Status:    rec.Status,
			Intensity: rec.Intensity,
		})
	}
	return points
}

func clampTo(v, min, max float64) float64 {
	if max < min {
		max = min
	}
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
