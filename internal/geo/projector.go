// Package geo provides geodesic math and the lat/lon to grid projection.
package geo

import "math"

// EarthRadiusNM is the mean Earth radius in nautical miles.
const EarthRadiusNM = 3440.065

// NMPerDegreeLat is the length of one degree of latitude in nautical miles.
const NMPerDegreeLat = 60.0

// titleRows is the number of rows at the top of the grid reserved for the
// title block; projected rows never land above it.
const titleRows = 6

// Point is a geographic coordinate in decimal degrees.
type Point struct {
	Lat float64
	Lon float64
}

// Distance returns the great-circle distance between two points in nautical
// miles, using the haversine formula.
func Distance(a, b Point) float64 {
	dLat := degToRad(b.Lat - a.Lat)
	dLon := degToRad(b.Lon - a.Lon)

	lat1 := degToRad(a.Lat)
	lat2 := degToRad(b.Lat)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Sin(dLon/2)*math.Sin(dLon/2)*math.Cos(lat1)*math.Cos(lat2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return EarthRadiusNM * c
}

// Projector maps geographic coordinates onto a character grid centered on a
// fixed reference point. It uses a local equirectangular approximation:
// longitude degrees are scaled by the cosine of the reference latitude (not
// the target's own latitude), which is accurate only near the reference
// point. Fine for a scope that only shows traffic within a few tens of
// nautical miles.
type Projector struct {
	ref     Point
	rangeNM float64
	width   int // grid columns (2x height for aspect compensation)
	height  int // grid rows
}

// NewProjector creates a projector for a grid of the given dimensions
// showing rangeNM nautical miles around ref.
func NewProjector(ref Point, rangeNM float64, width, height int) *Projector {
	return &Projector{
		ref:     ref,
		rangeNM: rangeNM,
		width:   width,
		height:  height,
	}
}

// Project converts a geographic point to logical grid coordinates. The x
// coordinate is in logical units (half the grid width, since each logical
// unit occupies two columns); y is the grid row. Results are clamped to the
// drawable area: x in [0, width/2), y in [titleRows, height).
func (p *Projector) Project(pt Point) (x, y int) {
	yNM := (pt.Lat - p.ref.Lat) * NMPerDegreeLat
	xNM := (pt.Lon - p.ref.Lon) * NMPerDegreeLat * math.Cos(degToRad(p.ref.Lat))

	// Truncating conversions match the scan converter's rasterization.
	x = p.width/4 + int(xNM*float64(p.width/4)/p.rangeNM)
	y = p.height/2 - int(yNM*float64(p.height/2)/p.rangeNM)

	if x < 0 {
		x = 0
	}
	if x >= p.width/2 {
		x = p.width/2 - 1
	}
	if y < titleRows {
		y = titleRows
	}
	if y >= p.height {
		y = p.height - 1
	}

	return x, y
}

// Distance returns the great-circle distance from the reference point in
// nautical miles.
func (p *Projector) Distance(pt Point) float64 {
	return Distance(p.ref, pt)
}

// Reference returns the reference point.
func (p *Projector) Reference() Point {
	return p.ref
}

// BoundingBox returns the lat/lon extents covering the configured range
// around the reference point, for use as a feed query area.
func (p *Projector) BoundingBox() (latMin, lonMin, latMax, lonMax float64) {
	dLat := p.rangeNM / NMPerDegreeLat
	dLon := p.rangeNM / (NMPerDegreeLat * math.Cos(degToRad(p.ref.Lat)))

	return p.ref.Lat - dLat, p.ref.Lon - dLon, p.ref.Lat + dLat, p.ref.Lon + dLon
}

// degToRad converts degrees to radians.
func degToRad(deg float64) float64 {
	return deg * math.Pi / 180
}
