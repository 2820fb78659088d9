// Package sweep implements the rotating radial scan that reveals the
// pending canvas into the visible one, one angular slice per step.
package sweep

import (
	"math"

	"github.com/litescript/ls-scope/internal/canvas"
)

// DefaultNumAngles gives half-degree angular resolution per step.
const DefaultNumAngles = 720

// Compositor scan-converts one angle step at a time, copying both channels
// of every cell along the ray from the grid center out past the corners.
// The conversion truncates toward zero, exactly as the display has always
// done: near the center several radii collapse onto the same cell, and
// since the radius loop ascends, the highest radius is the one that lands.
// Some grids leave cells no (angle, radius) pair ever reaches; those keep
// whatever the visible canvas last held. That is the observed behavior of
// the scope and is preserved on purpose.
type Compositor struct {
	numAngles int
	centerX   int
	centerY   int
	maxRadius int
	step      int
}

// New creates a compositor for a grid of the given dimensions. numAngles
// sets the steps per full rotation; values below 1 fall back to the
// default.
func New(width, height, numAngles int) *Compositor {
	if numAngles < 1 {
		numAngles = DefaultNumAngles
	}
	cx := width / 2
	cy := height / 2
	return &Compositor{
		numAngles: numAngles,
		centerX:   cx,
		centerY:   cy,
		maxRadius: int(math.Ceil(math.Sqrt(float64(cx*cx+cy*cy)))) + 1,
	}
}

// NumAngles returns the steps per full rotation.
func (s *Compositor) NumAngles() int { return s.numAngles }

// Angle returns the current step index in [0, NumAngles).
func (s *Compositor) Angle() int { return s.step }

// BearingDeg returns the current sweep bearing in degrees.
func (s *Compositor) BearingDeg() float64 {
	return float64(s.step) / float64(s.numAngles) * 360
}

// Step reveals one angular slice: every cell the current ray touches is
// copied from pending to visible, unconditionally overwriting, then the
// sweep advances to the next angle. A full rotation of steps touches every
// reachable cell at least once.
func (s *Compositor) Step(pending, visible *canvas.Canvas) {
	for _, pt := range s.ray(s.step) {
		visible.CopyCell(pending, pt.x, pt.y)
	}
	s.step = (s.step + 1) % s.numAngles
}

type gridPoint struct {
	x, y int
}

// ray returns the cell sequence for an angle step in ascending radius
// order, including out-of-bounds and aliased duplicates.
func (s *Compositor) ray(step int) []gridPoint {
	theta := float64(step) * 2 * math.Pi / float64(s.numAngles)
	sin, cos := math.Sincos(theta)

	pts := make([]gridPoint, 0, s.maxRadius+1)
	for radius := 0; radius <= s.maxRadius; radius++ {
		// Truncation, not rounding: the aliasing pattern near the
		// center depends on it.
		x := s.centerX + int(float64(radius)*cos)
		y := s.centerY + int(float64(radius)*sin)
		pts = append(pts, gridPoint{x: x, y: y})
	}
	return pts
}
