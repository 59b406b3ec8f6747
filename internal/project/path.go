package project

import (
	"fmt"
	"strings"

	"github.com/paulmach/orb"
)

// FeaturePath renders a geometry as an SVG path string under the given
// projector. Rings that fail to project entirely are skipped; the second
// return is false when the geometry produced no drawable path at all.
func FeaturePath(g orb.Geometry, proj Projector) (string, bool) {
	var b strings.Builder
	appendGeometryPath(&b, g, proj)
	if b.Len() == 0 {
		return "", false
	}
	return b.String(), true
}

// FeaturePaths renders every geometry in the slice, dropping the ones that
// fail to project.
func FeaturePaths(geoms []orb.Geometry, proj Projector) []string {
	paths := make([]string, 0, len(geoms))
	for _, g := range geoms {
		if path, ok := FeaturePath(g, proj); ok {
			paths = append(paths, path)
		}
	}
	return paths
}

func appendGeometryPath(b *strings.Builder, g orb.Geometry, proj Projector) {
	switch geom := g.(type) {
	case orb.Polygon:
		for _, ring := range geom {
			appendRing(b, orb.LineString(ring), proj, true)
		}
	case orb.MultiPolygon:
		for _, poly := range geom {
			for _, ring := range poly {
				appendRing(b, orb.LineString(ring), proj, true)
			}
		}
	case orb.LineString:
		appendRing(b, geom, proj, false)
	case orb.MultiLineString:
		for _, line := range geom {
			appendRing(b, line, proj, false)
		}
	case orb.Collection:
		for _, sub := range geom {
			appendGeometryPath(b, sub, proj)
		}
	}
}

// appendRing writes one M/L sequence for a ring or line, skipping vertices
// without a valid image. Rings with fewer than two projectable vertices
// are dropped.
func appendRing(b *strings.Builder, line orb.LineString, proj Projector, closed bool) {
	started := false
	count := 0
	var ring strings.Builder

	for _, coord := range line {
		pt, ok := proj.Project(coord.Y(), coord.X())
		if !ok {
			continue
		}
		if !started {
			fmt.Fprintf(&ring, "M%.2f,%.2f", pt.X, pt.Y)
			started = true
		} else {
			fmt.Fprintf(&ring, "L%.2f,%.2f", pt.X, pt.Y)
		}
		count++
	}

	if count < 2 {
		return
	}
	if closed {
		ring.WriteString("Z")
	}
	b.WriteString(ring.String())
}
