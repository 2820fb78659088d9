// Package engine runs the scope's control loop: data refreshes, weather
// generation and sweep steps execute strictly interleaved on one goroutine,
// which is the sole owner of both canvases. No locking is needed because
// nothing else ever touches them.
package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/litescript/ls-scope/internal/adsb"
	"github.com/litescript/ls-scope/internal/canvas"
	"github.com/litescript/ls-scope/internal/config"
	"github.com/litescript/ls-scope/internal/geo"
	"github.com/litescript/ls-scope/internal/logging"
	"github.com/litescript/ls-scope/internal/render"
	"github.com/litescript/ls-scope/internal/sweep"
	"github.com/litescript/ls-scope/internal/wx"
)

// AircraftSource pulls the current aircraft picture. The HTTP fetcher is
// the production implementation; tests inject fakes.
type AircraftSource interface {
	Fetch(ctx context.Context) ([]adsb.Aircraft, error)
}

// Stats describes the engine's state for display chrome.
type Stats struct {
	Station       string
	AircraftTotal int // in range, before the display floor
	AircraftShown int // actually plotted
	LastFetch     time.Time
	LastFetchErr  error
	LastWeather   time.Time
	BearingDeg    float64
	Rotations     int
}

// Frame is one rendered display update.
type Frame struct {
	Text  string
	Stats Stats
}

// Sink receives rendered frames. Clear is the "wipe the display"
// instruction preceding each frame; sinks that always repaint in full may
// ignore it.
type Sink interface {
	Clear()
	Frame(f Frame)
}

// AircraftGlyph marks an aircraft position on the grid.
const AircraftGlyph = 'X'

// CenterGlyph marks the reference point.
const CenterGlyph = '+'

// Options wires an Engine.
type Options struct {
	Config   config.Config
	Aircraft AircraftSource
	Weather  wx.Source
	Renderer *render.Renderer
	Sink     Sink
	Clock    Clock            // defaults to the system clock
	Logger   *logging.Logger  // defaults to a discarding logger
}

// Engine owns the pending and visible canvases and advances the scope one
// sweep step at a time. Data refreshes rewrite pending; the sweep reveals
// it into visible; visible is what the sink sees. Stale visible content
// survives until the sweep passes over it again, which is the whole point
// of the effect.
type Engine struct {
	cfg      config.Config
	log      *logging.Logger
	clock    Clock
	aircraft AircraftSource
	weather  wx.Source
	renderer *render.Renderer
	sink     Sink

	proj    *geo.Projector
	pending *canvas.Canvas
	visible *canvas.Canvas
	sweep   *sweep.Compositor

	lastAircraft time.Time
	lastWeather  time.Time
	stats        Stats
	steps        int
}

// New builds an engine from options. Both canvases are allocated here,
// once, with identical dimensions, and live until the process exits.
func New(opts Options) *Engine {
	clock := opts.Clock
	if clock == nil {
		clock = SystemClock()
	}
	log := opts.Logger
	if log == nil {
		log = logging.Discard()
	}

	pending := canvas.New(opts.Config.CanvasSize)
	visible := canvas.New(opts.Config.CanvasSize)
	ref := geo.Point{Lat: opts.Config.RefLat, Lon: opts.Config.RefLon}

	return &Engine{
		cfg:      opts.Config,
		log:      log,
		clock:    clock,
		aircraft: opts.Aircraft,
		weather:  opts.Weather,
		renderer: opts.Renderer,
		sink:     opts.Sink,
		proj:     geo.NewProjector(ref, opts.Config.RangeNM, pending.Width(), pending.Height()),
		pending:  pending,
		visible:  visible,
		sweep:    sweep.New(pending.Width(), pending.Height(), opts.Config.NumAngles),
		stats:    Stats{Station: opts.Config.Station},
	}
}

// Run advances the loop until the context is canceled. No failure inside a
// cycle stops the loop: data-source errors are logged, the previous
// pending picture stays up, and the next scheduled interval is the retry.
func (e *Engine) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		e.Step(ctx)
		if err := e.clock.Sleep(ctx, e.cfg.StepDelay.Std()); err != nil {
			return err
		}
	}
}

// Step executes one cycle: due refreshes, one sweep step, one frame.
func (e *Engine) Step(ctx context.Context) {
	now := e.clock.Now()

	if due(e.lastWeather, now, e.cfg.WeatherRefresh.Std()) {
		if err := e.weather.Refresh(ctx, e.pending); err != nil {
			e.log.Error("weather refresh failed: %v", err)
		} else {
			e.stats.LastWeather = now
		}
		e.lastWeather = now
	}

	if due(e.lastAircraft, now, e.cfg.AircraftRefresh.Std()) {
		e.refreshAircraft(ctx, now)
		e.lastAircraft = now
	}

	e.sweep.Step(e.pending, e.visible)
	e.steps++
	e.stats.BearingDeg = e.sweep.BearingDeg()
	e.stats.Rotations = e.steps / e.sweep.NumAngles()

	e.sink.Clear()
	e.sink.Frame(Frame{Text: e.renderer.Frame(e.visible), Stats: e.stats})
}

// Stats returns the current snapshot.
func (e *Engine) Stats() Stats {
	return e.stats
}

// refreshAircraft rebuilds the pending symbol channel from a fresh fetch.
// On failure the previous symbols stay untouched for this cycle.
func (e *Engine) refreshAircraft(ctx context.Context, now time.Time) {
	list, err := e.aircraft.Fetch(ctx)
	if err != nil {
		e.log.Error("aircraft fetch failed, keeping previous picture: %v", err)
		e.stats.LastFetchErr = err
		return
	}

	list = adsb.WithinRange(list, e.proj.Reference(), e.cfg.RangeNM)

	e.pending.ClearSymbols()

	title := fmt.Sprintf("%s - Aircraft: %d | Weather: %s", e.cfg.Station, len(list), e.weather.Label())
	e.pending.SetRow(0, 0, title)

	e.pending.SetSymbol(e.pending.Width()/4, e.pending.Height()/2, CenterGlyph)

	shown := 0
	for _, ac := range list {
		if !ac.Displayable(e.cfg.MinAltitudeFt, e.cfg.MinSpeedKt) {
			continue
		}
		x, y := e.proj.Project(ac.Position())
		e.pending.SetSymbol(x, y, AircraftGlyph)
		e.pending.SetHeadingSlash(x, y)
		e.pending.SetLabelBlock(x, y, ac.Callsign, ac.AltitudeFt(), ac.SpeedKt(), ac.DistanceNM)
		shown++
	}

	e.log.Debug("aircraft refresh: %d in range, %d shown", len(list), shown)

	e.stats.AircraftTotal = len(list)
	e.stats.AircraftShown = shown
	e.stats.LastFetch = now
	e.stats.LastFetchErr = nil
}

// due reports whether an interval has elapsed since last; a zero last means
// the refresh has never run and is due immediately.
func due(last, now time.Time, interval time.Duration) bool {
	return last.IsZero() || now.Sub(last) >= interval
}
