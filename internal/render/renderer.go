// Package render maps a canvas into terminal output text. Compositing is
// layered by priority: the symbol channel wins over the weather channel,
// which wins over blank space. Color is presentation only; rendering never
// writes back into the canvas.
package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-scope/internal/canvas"
)

// weatherGlyphs maps each intensity ordinal to its display character.
var weatherGlyphs = [...]string{
	canvas.IntensityNone:      " ",
	canvas.IntensityLight:     ".",
	canvas.IntensityModerate:  ":",
	canvas.IntensityHeavy:     "░",
	canvas.IntensityVeryHeavy: "▒",
	canvas.IntensityIntense:   "▓",
	canvas.IntensityExtreme:   "█",
}

// weatherColors maps each intensity ordinal to its ANSI-256 color, from
// light rain (blue) up through extreme (red).
var weatherColors = [...]lipgloss.Color{
	canvas.IntensityNone:      "",
	canvas.IntensityLight:     "27",
	canvas.IntensityModerate:  "51",
	canvas.IntensityHeavy:     "46",
	canvas.IntensityVeryHeavy: "226",
	canvas.IntensityIntense:   "208",
	canvas.IntensityExtreme:   "196",
}

// WeatherGlyph returns the display character for an intensity. Values past
// the table clamp to the extreme entry.
func WeatherGlyph(i canvas.Intensity) string {
	if int(i) >= len(weatherGlyphs) {
		i = canvas.MaxIntensity
	}
	return weatherGlyphs[i]
}

// Renderer turns a canvas into frame text.
type Renderer struct {
	styled bool
	styles [len(weatherColors)]lipgloss.Style
}

// New creates a renderer. When styled is false the frame is plain text,
// for piped output and tests.
func New(styled bool) *Renderer {
	r := &Renderer{styled: styled}
	for i, color := range weatherColors {
		r.styles[i] = lipgloss.NewStyle().Foreground(color)
	}
	return r
}

// Frame renders the full canvas, one line per row.
func (r *Renderer) Frame(c *canvas.Canvas) string {
	var b strings.Builder
	b.Grow((c.Width() + 1) * c.Height())

	for y := 0; y < c.Height(); y++ {
		for x := 0; x < c.Width(); x++ {
			b.WriteString(r.cell(c.At(x, y)))
		}
		b.WriteByte('\n')
	}

	return b.String()
}

// cell composites one cell: symbol over weather over blank.
func (r *Renderer) cell(cell canvas.Cell) string {
	if cell.Symbol.Present() {
		return string(cell.Symbol.Rune())
	}
	if cell.Weather > canvas.IntensityNone {
		i := cell.Weather
		if int(i) >= len(weatherGlyphs) {
			i = canvas.MaxIntensity
		}
		if r.styled {
			return r.styles[i].Render(weatherGlyphs[i])
		}
		return weatherGlyphs[i]
	}
	return " "
}
