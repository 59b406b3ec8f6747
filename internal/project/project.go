package project

import "math"

// Point is a projected screen-space position in pixels.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Projector maps geographic coordinates to screen space. The second return
// is false when the point has no valid image under the projection; callers
// skip such points rather than drawing them.
type Projector interface {
	Project(lat, lng float64) (Point, bool)
}

// Equirectangular is the simple linear mapping of the whole globe onto a
// width x height canvas. (90, -180) lands on the top-left corner and
// (-90, 180) on the bottom-right.
type Equirectangular struct {
	Width  float64
	Height float64
}

func (e Equirectangular) Project(lat, lng float64) (Point, bool) {
	if !validCoordinate(lat, lng) {
		return Point{}, false
	}
	return Point{
		X: (lng + 180) / 360 * e.Width,
		Y: (90 - lat) / 180 * e.Height,
	}, true
}

// NaturalEarth is the Natural Earth pseudocylindrical projection fit to a
// pixel extent. The polynomial coefficients are the published ones.
type NaturalEarth struct {
	scale float64
	tx    float64
	ty    float64
}

// FitExtent builds a NaturalEarth projection scaled and centred so the
// full globe fits within width x height while preserving aspect ratio.
func FitExtent(width, height float64) *NaturalEarth {
	rawMaxX, _ := naturalEarthRaw(math.Pi, 0)
	_, rawMaxY := naturalEarthRaw(0, math.Pi/2)

	scale := math.Min(width/(2*rawMaxX), height/(2*rawMaxY))
	return &NaturalEarth{
		scale: scale,
		tx:    width / 2,
		ty:    height / 2,
	}
}

func (n *NaturalEarth) Project(lat, lng float64) (Point, bool) {
	if !validCoordinate(lat, lng) {
		return Point{}, false
	}
	x, y := naturalEarthRaw(lng*math.Pi/180, lat*math.Pi/180)
	if math.IsNaN(x) || math.IsNaN(y) {
		return Point{}, false
	}
	return Point{
		X: n.tx + x*n.scale,
		Y: n.ty - y*n.scale,
	}, true
}

// naturalEarthRaw evaluates the projection polynomial on radians.
func naturalEarthRaw(lambda, phi float64) (x, y float64) {
	phi2 := phi * phi
	phi4 := phi2 * phi2
	x = lambda * (0.8707 - 0.131979*phi2 + phi4*(-0.013791+phi4*(0.003971*phi2-0.001529*phi4)))
	y = phi * (1.007226 + phi2*(0.015085+phi4*(-0.044475+0.028874*phi2-0.005916*phi4)))
	return x, y
}

func validCoordinate(lat, lng float64) bool {
	if math.IsNaN(lat) || math.IsNaN(lng) || math.IsInf(lat, 0) || math.IsInf(lng, 0) {
		return false
	}
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}
