// Package canvas implements the dual-channel character grid the scope draws
// into: a symbol channel for aircraft markers and text, and a weather
// intensity channel that composites underneath it.
package canvas

import "fmt"

// Intensity is a precipitation intensity ordinal.
type Intensity uint8

const (
	IntensityNone Intensity = iota
	IntensityLight
	IntensityModerate
	IntensityHeavy
	IntensityVeryHeavy
	IntensityIntense
	IntensityExtreme

	// MaxIntensity is the highest representable intensity.
	MaxIntensity = IntensityExtreme
)

// Symbol is a tagged cell symbol: either blank or a single glyph. The zero
// value is blank, so freshly allocated grids start empty without a sentinel
// character standing in for "nothing here".
type Symbol struct {
	glyph   rune
	present bool
}

// Blank is the empty symbol.
var Blank = Symbol{}

// Glyph returns a symbol holding r.
func Glyph(r rune) Symbol {
	return Symbol{glyph: r, present: true}
}

// Present reports whether the symbol holds a glyph.
func (s Symbol) Present() bool { return s.present }

// Rune returns the glyph; only meaningful when Present.
func (s Symbol) Rune() rune { return s.glyph }

// Cell is one grid position.
type Cell struct {
	Symbol  Symbol
	Weather Intensity
}

// Canvas is a character grid with aspect compensation: width is always
// twice the configured size so a geometric circle renders visually round on
// a monospace terminal.
type Canvas struct {
	width  int
	height int
	cells  [][]Cell
}

// New allocates a blank canvas of the given size: height n, width 2n.
func New(n int) *Canvas {
	c := &Canvas{
		width:  n * 2,
		height: n,
	}
	c.cells = make([][]Cell, c.height)
	for y := range c.cells {
		c.cells[y] = make([]Cell, c.width)
	}
	return c
}

// Width returns the number of columns.
func (c *Canvas) Width() int { return c.width }

// Height returns the number of rows.
func (c *Canvas) Height() int { return c.height }

// At returns the cell at (x, y) in full grid columns. Out-of-bounds reads
// return a blank cell.
func (c *Canvas) At(x, y int) Cell {
	if !c.inBounds(x, y) {
		return Cell{}
	}
	return c.cells[y][x]
}

// Clear resets both channels of every cell.
func (c *Canvas) Clear() {
	for y := range c.cells {
		for x := range c.cells[y] {
			c.cells[y][x] = Cell{}
		}
	}
}

// ClearSymbols blanks the symbol channel only, leaving weather intact. The
// aircraft refresh rewrites symbols every cycle while weather accumulates
// on its own schedule.
func (c *Canvas) ClearSymbols() {
	for y := range c.cells {
		for x := range c.cells[y] {
			c.cells[y][x].Symbol = Blank
		}
	}
}

// SetSymbol writes a glyph at logical position (x, y): column 2x, row y.
// Out-of-bounds writes are dropped.
func (c *Canvas) SetSymbol(x, y int, glyph rune) {
	col := x * 2
	if c.inBounds(col, y) {
		c.cells[y][col].Symbol = Glyph(glyph)
	}
}

// SetHeadingSlash writes '/' one row above and one logical unit right of
// the marker at (x, y): column 2(x+1), row y-1.
func (c *Canvas) SetHeadingSlash(x, y int) {
	col := (x + 1) * 2
	row := y - 1
	if c.inBounds(col, row) {
		c.cells[row][col].Symbol = Glyph('/')
	}
}

// SetLabelBlock writes the four-row data block for an aircraft anchored at
// logical position (x, y): callsign, altitude, speed and distance, starting
// at row y-5, left-aligned at column 2(x+1). Each row is clipped per
// character at the right edge. If the block's top row falls above the grid
// the whole block is skipped.
func (c *Canvas) SetLabelBlock(x, y int, callsign string, altitudeFt, speedKt int, distanceNM float64) {
	col := (x + 1) * 2
	top := y - 5
	if top < 0 || top >= c.height {
		return
	}

	if len(callsign) > 8 {
		callsign = callsign[:8]
	}

	rows := []string{
		callsign,
		fmt.Sprintf("Alt:%dft", altitudeFt),
		fmt.Sprintf("Spd:%dkt", speedKt),
		fmt.Sprintf("Dst:%.1fnm", distanceNM),
	}
	for i, text := range rows {
		c.SetRow(top+i, col, text)
	}
}

// SetRow writes text into a row starting at the given column, clipping each
// character at the right edge. Rows outside the grid are dropped.
func (c *Canvas) SetRow(row, col int, text string) {
	if row < 0 || row >= c.height {
		return
	}
	for i, r := range []rune(text) {
		x := col + i
		if x < 0 {
			continue
		}
		if x >= c.width {
			break
		}
		c.cells[row][x].Symbol = Glyph(r)
	}
}

// MergeWeather raises the weather intensity at (x, y) to at least the given
// value, clamped to the valid range. Merging is monotonic: a cell's
// intensity never decreases except through Clear.
func (c *Canvas) MergeWeather(x, y int, intensity Intensity) {
	if !c.inBounds(x, y) {
		return
	}
	if intensity > MaxIntensity {
		intensity = MaxIntensity
	}
	if intensity > c.cells[y][x].Weather {
		c.cells[y][x].Weather = intensity
	}
}

// CopyCell copies both channels of the cell at (x, y) from src. The sweep
// compositor uses this to reveal pending data into the visible canvas. Both
// canvases must share dimensions; out-of-bounds positions are dropped.
func (c *Canvas) CopyCell(src *Canvas, x, y int) {
	if !c.inBounds(x, y) || !src.inBounds(x, y) {
		return
	}
	c.cells[y][x] = src.cells[y][x]
}

func (c *Canvas) inBounds(x, y int) bool {
	return x >= 0 && x < c.width && y >= 0 && y < c.height
}
