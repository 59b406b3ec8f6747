package geo

import (
	"fmt"
	"os"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"
)

// Index answers land-membership queries over a static GeoJSON feature set,
// typically landmass outlines. Exact point-in-polygon containment is the
// expensive path, so every feature carries a precomputed bounding box that
// screens candidates first.
type Index struct {
	features []indexedFeature
}

type indexedFeature struct {
	bound orb.Bound
	geom  orb.Geometry
}

// LoadIndex reads a GeoJSON FeatureCollection from disk and builds an Index.
func LoadIndex(path string) (*Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read boundaries file: %w", err)
	}

	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse boundaries file: %w", err)
	}

	return NewIndex(fc), nil
}

// NewIndex builds an Index from an already-decoded feature collection.
// Features with missing geometry are skipped; they contribute no area.
func NewIndex(fc *geojson.FeatureCollection) *Index {
	idx := &Index{}
	if fc == nil {
		return idx
	}
	for _, f := range fc.Features {
		if f == nil || f.Geometry == nil {
			continue
		}
		idx.features = append(idx.features, indexedFeature{
			bound: f.Geometry.Bound(),
			geom:  f.Geometry,
		})
	}
	return idx
}

// Len returns the number of indexed features.
func (idx *Index) Len() int {
	return len(idx.features)
}

// Geometries returns the raw feature geometries, for callers that render
// outlines rather than test membership.
func (idx *Index) Geometries() []orb.Geometry {
	geoms := make([]orb.Geometry, 0, len(idx.features))
	for _, f := range idx.features {
		geoms = append(geoms, f.geom)
	}
	return geoms
}

// OnLand reports whether the coordinate falls inside any indexed feature.
func (idx *Index) OnLand(lng, lat float64) bool {
	pt := orb.Point{lng, lat}
	for _, f := range idx.features {
		if !f.bound.Contains(pt) {
			continue
		}
		if containsPoint(f.geom, pt) {
			return true
		}
	}
	return false
}

// containsPoint dispatches on the geometry union. Only areal geometries can
// contain a point; anything else (points, lines) contributes nothing.
func containsPoint(g orb.Geometry, pt orb.Point) bool {
	switch geom := g.(type) {
	case orb.Polygon:
		return planar.PolygonContains(geom, pt)
	case orb.MultiPolygon:
		return planar.MultiPolygonContains(geom, pt)
	case orb.Collection:
		for _, sub := range geom {
			if containsPoint(sub, pt) {
				return true
			}
		}
	}
	return false
}
