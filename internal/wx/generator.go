// Package wx provides the precipitation field source for the scope's
// weather channel. The default implementation synthesizes elliptical rain
// cells; a real radar feed can stand in behind the same interface as long
// as it produces an equivalent grid of intensities.
package wx

import (
	"context"
	"math"
	"math/rand"

	"github.com/litescript/ls-scope/internal/canvas"
)

// Source produces a precipitation field and merges it into a canvas's
// weather channel.
type Source interface {
	// Refresh merges the current precipitation field into c. Merging is
	// monotonic per generation: existing intensities are only raised.
	Refresh(ctx context.Context, c *canvas.Canvas) error

	// Label names the source for the title row.
	Label() string
}

// Cell generation parameters.
const (
	minCells = 3
	maxCells = 7

	minRadius = 5
	maxRadius = 19

	minBase = 1
	maxBase = 5
)

// Cell is one synthetic precipitation cell: an ellipse whose intensity
// fades linearly from the center to zero at the radius.
type Cell struct {
	CenterX int // grid column
	CenterY int // grid row
	Radius  int // grid units
	Base    canvas.Intensity
}

// Generator synthesizes random precipitation cells. The random source is
// injected so tests can reproduce exact placements.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator creates a generator driven by the given random source.
func NewGenerator(rng *rand.Rand) *Generator {
	return &Generator{rng: rng}
}

// Label implements Source.
func (g *Generator) Label() string { return "Simulated radar" }

// Refresh implements Source: generates 3-7 cells and merges them into c.
func (g *Generator) Refresh(_ context.Context, c *canvas.Canvas) error {
	for _, cell := range g.Generate(c.Width(), c.Height()) {
		Apply(c, cell)
	}
	return nil
}

// Generate produces a batch of random cells within a grid of the given
// dimensions.
func (g *Generator) Generate(width, height int) []Cell {
	n := minCells + g.rng.Intn(maxCells-minCells+1)
	cells := make([]Cell, n)
	for i := range cells {
		cells[i] = Cell{
			CenterX: g.rng.Intn(width),
			CenterY: g.rng.Intn(height),
			Radius:  minRadius + g.rng.Intn(maxRadius-minRadius+1),
			Base:    canvas.Intensity(minBase + g.rng.Intn(maxBase-minBase+1)),
		}
	}
	return cells
}

// Apply merges one cell into the canvas. The horizontal axis of the
// distance metric is scaled by half to counter the grid's width doubling,
// so the cell reads as a circle on screen. Intensity at each grid position
// is floor(base * fade) where fade falls linearly from 1 at the center to 0
// at the radius; positions at or beyond the radius are untouched.
func Apply(c *canvas.Canvas, cell Cell) {
	for y := 0; y < c.Height(); y++ {
		for x := 0; x < c.Width(); x++ {
			dx := float64(x - cell.CenterX)
			dy := float64(y - cell.CenterY)
			dist := math.Sqrt(dx*dx/4 + dy*dy)

			fade := 1 - dist/float64(cell.Radius)
			if fade <= 0 {
				continue
			}
			intensity := canvas.Intensity(float64(cell.Base) * fade)
			c.MergeWeather(x, y, intensity)
		}
	}
}
