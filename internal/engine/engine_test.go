package engine

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/litescript/ls-scope/internal/adsb"
	"github.com/litescript/ls-scope/internal/canvas"
	"github.com/litescript/ls-scope/internal/config"
	"github.com/litescript/ls-scope/internal/render"
)

// fakeClock advances only when slept on.
type fakeClock struct {
	now   time.Time
	waits int
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Sleep(ctx context.Context, d time.Duration) error {
	c.now = c.now.Add(d)
	c.waits++
	return ctx.Err()
}

// fakeAircraft replays canned batches, one per fetch.
type fakeAircraft struct {
	batches [][]adsb.Aircraft
	errs    []error
	fetches int
}

func (f *fakeAircraft) Fetch(ctx context.Context) ([]adsb.Aircraft, error) {
	i := f.fetches
	f.fetches++
	if i < len(f.errs) && f.errs[i] != nil {
		return nil, f.errs[i]
	}
	if i >= len(f.batches) {
		i = len(f.batches) - 1
	}
	return f.batches[i], nil
}

// fakeWeather stamps a fixed intensity into one cell.
type fakeWeather struct {
	x, y      int
	intensity canvas.Intensity
	refreshes int
}

func (f *fakeWeather) Refresh(_ context.Context, c *canvas.Canvas) error {
	c.MergeWeather(f.x, f.y, f.intensity)
	f.refreshes++
	return nil
}

func (f *fakeWeather) Label() string { return "Test field" }

// frameSink records everything it is handed. It locks because the
// mid-loop cancellation test reads counts while the engine goroutine
// appends.
type frameSink struct {
	mu     sync.Mutex
	clears int
	frames []Frame
}

func (s *frameSink) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clears++
}

func (s *frameSink) Frame(f Frame) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frames = append(s.frames, f)
}

func (s *frameSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.frames)
}

func (s *frameSink) last() Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frames[len(s.frames)-1]
}

func testConfig() config.Config {
	cfg := config.Default()
	cfg.CanvasSize = 40
	return cfg
}

func newTestEngine(cfg config.Config, src AircraftSource, weather *fakeWeather) (*Engine, *frameSink, *fakeClock) {
	sink := &frameSink{}
	clock := &fakeClock{now: time.Unix(1700000000, 0)}
	eng := New(Options{
		Config:   cfg,
		Aircraft: src,
		Weather:  weather,
		Renderer: render.New(false),
		Sink:     sink,
		Clock:    clock,
	})
	return eng, sink, clock
}

func cruise(lat, lon float64, callsign string) adsb.Aircraft {
	return adsb.Aircraft{
		Callsign:   callsign,
		Latitude:   lat,
		Longitude:  lon,
		AltitudeM:  10000,
		VelocityMS: 230,
	}
}

func TestStep_FirstCycleRefreshesAndRenders(t *testing.T) {
	cfg := testConfig()
	src := &fakeAircraft{batches: [][]adsb.Aircraft{{cruise(cfg.RefLat+0.05, cfg.RefLon, "SWR123")}}}
	weather := &fakeWeather{x: 10, y: 10, intensity: canvas.IntensityHeavy}
	eng, sink, _ := newTestEngine(cfg, src, weather)

	eng.Step(context.Background())

	if src.fetches != 1 {
		t.Errorf("fetches = %d, want 1 on first cycle", src.fetches)
	}
	if weather.refreshes != 1 {
		t.Errorf("weather refreshes = %d, want 1 on first cycle", weather.refreshes)
	}
	if sink.clears != 1 || sink.count() != 1 {
		t.Fatalf("sink saw %d clears / %d frames, want 1/1", sink.clears, sink.count())
	}

	stats := sink.last().Stats
	if stats.AircraftTotal != 1 || stats.AircraftShown != 1 {
		t.Errorf("stats = %d total / %d shown, want 1/1", stats.AircraftTotal, stats.AircraftShown)
	}

	// The pending canvas carries the title row, center marker and the
	// aircraft; the visible canvas reveals it over the next full rotation.
	title := readPendingRow(eng, 0, 0, len("LSZH - Aircraft: 1"))
	if title != "LSZH - Aircraft: 1" {
		t.Errorf("title row = %q", title)
	}
}

func TestStep_RefreshCadence(t *testing.T) {
	cfg := testConfig()
	cfg.StepDelay = config.Duration(time.Second)
	cfg.AircraftRefresh = config.Duration(10 * time.Second)
	cfg.WeatherRefresh = config.Duration(60 * time.Second)

	src := &fakeAircraft{batches: [][]adsb.Aircraft{nil}}
	weather := &fakeWeather{}
	eng, _, clock := newTestEngine(cfg, src, weather)

	ctx := context.Background()
	for i := 0; i < 65; i++ {
		eng.Step(ctx)
		_ = clock.Sleep(ctx, cfg.StepDelay.Std())
	}

	// Aircraft at t=0,10,...,60; weather at t=0 and t=60.
	if src.fetches != 7 {
		t.Errorf("aircraft fetches = %d over 65s, want 7", src.fetches)
	}
	if weather.refreshes != 2 {
		t.Errorf("weather refreshes = %d over 65s, want 2", weather.refreshes)
	}
}

func TestStep_FetchFailureKeepsPreviousPicture(t *testing.T) {
	cfg := testConfig()
	cfg.AircraftRefresh = config.Duration(0) // refresh every step
	src := &fakeAircraft{
		batches: [][]adsb.Aircraft{{cruise(cfg.RefLat+0.05, cfg.RefLon, "SWR123")}},
		errs:    []error{nil, errors.New("opensky unavailable")},
	}
	eng, sink, _ := newTestEngine(cfg, src, &fakeWeather{})

	ctx := context.Background()
	eng.Step(ctx)
	before := snapshotSymbols(eng.pending)

	eng.Step(ctx) // fetch fails

	if got := snapshotSymbols(eng.pending); got != before {
		t.Error("pending symbols changed on a failed fetch")
	}
	if sink.last().Stats.LastFetchErr == nil {
		t.Error("stats should carry the fetch error")
	}

	eng.Step(ctx) // recovery
	if sink.last().Stats.LastFetchErr != nil {
		t.Errorf("error not cleared after recovery: %v", sink.last().Stats.LastFetchErr)
	}
}

func TestStep_DisplayFloorFiltersButTitleCountsInRange(t *testing.T) {
	cfg := testConfig()

	// On the ground at the reference point: distance 0.0 nm, in range,
	// but 0 ft is not above the 1800 ft floor.
	grounded := adsb.Aircraft{
		Callsign:  "GND1",
		Latitude:  cfg.RefLat,
		Longitude: cfg.RefLon,
		AltitudeM: 0, VelocityMS: 100,
	}
	src := &fakeAircraft{batches: [][]adsb.Aircraft{{grounded}}}
	eng, sink, _ := newTestEngine(cfg, src, &fakeWeather{})

	eng.Step(context.Background())

	stats := sink.last().Stats
	if stats.AircraftTotal != 1 {
		t.Errorf("total = %d, want 1 (in range)", stats.AircraftTotal)
	}
	if stats.AircraftShown != 0 {
		t.Errorf("shown = %d, want 0 (below display floor)", stats.AircraftShown)
	}

	// The center cell shows the reference marker, not an aircraft.
	center := eng.pending.At(eng.pending.Width()/2, eng.pending.Height()/2)
	if !center.Symbol.Present() || center.Symbol.Rune() != CenterGlyph {
		t.Errorf("center cell = %+v, want %q marker", center, CenterGlyph)
	}
}

func TestStep_ReferenceAircraftPlotsAtCenter(t *testing.T) {
	cfg := testConfig()
	src := &fakeAircraft{batches: [][]adsb.Aircraft{{cruise(cfg.RefLat, cfg.RefLon, "OVH1")}}}
	eng, _, _ := newTestEngine(cfg, src, &fakeWeather{})

	eng.Step(context.Background())

	// The displayed aircraft at the reference point lands on the exact
	// center marker cell, overwriting the '+'.
	center := eng.pending.At(eng.pending.Width()/2, eng.pending.Height()/2)
	if !center.Symbol.Present() || center.Symbol.Rune() != AircraftGlyph {
		t.Errorf("center cell = %+v, want aircraft glyph", center)
	}
}

func TestStep_FullRotationRevealsPendingIntoFrame(t *testing.T) {
	cfg := testConfig()
	src := &fakeAircraft{batches: [][]adsb.Aircraft{{cruise(cfg.RefLat, cfg.RefLon, "OVH1")}}}
	eng, sink, _ := newTestEngine(cfg, src, &fakeWeather{x: 50, y: 20, intensity: canvas.IntensityExtreme})

	ctx := context.Background()
	for i := 0; i < cfg.NumAngles; i++ {
		eng.Step(ctx)
	}

	frame := sink.last().Text
	if !strings.ContainsRune(frame, AircraftGlyph) {
		t.Error("frame missing the aircraft marker after a full rotation")
	}
	if !strings.Contains(frame, "█") {
		t.Error("frame missing the weather cell after a full rotation")
	}
	if got := sink.last().Stats.Rotations; got != 1 {
		t.Errorf("rotations = %d, want 1", got)
	}
}

func TestRun_CancellationStopsBetweenSteps(t *testing.T) {
	cfg := testConfig()
	src := &fakeAircraft{batches: [][]adsb.Aircraft{nil}}
	eng, sink, _ := newTestEngine(cfg, src, &fakeWeather{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := eng.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Run returned %v, want context.Canceled", err)
	}
	if sink.count() != 0 {
		t.Errorf("engine produced %d frames after cancellation, want 0", sink.count())
	}
}

func TestRun_StopsAfterCancelMidLoop(t *testing.T) {
	cfg := testConfig()
	src := &fakeAircraft{batches: [][]adsb.Aircraft{nil}}
	eng, sink, _ := newTestEngine(cfg, src, &fakeWeather{})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		// Cancel once the first frame is out; the fake clock makes the
		// loop spin without real sleeps.
		for sink.count() == 0 {
			time.Sleep(time.Millisecond)
		}
		cancel()
	}()

	if err := eng.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Run returned %v, want context.Canceled", err)
	}
}

func readPendingRow(e *Engine, row, col, n int) string {
	out := make([]rune, 0, n)
	for i := 0; i < n; i++ {
		s := e.pending.At(col+i, row).Symbol
		if !s.Present() {
			out = append(out, ' ')
			continue
		}
		out = append(out, s.Rune())
	}
	return string(out)
}

func snapshotSymbols(c *canvas.Canvas) string {
	var b strings.Builder
	for y := 0; y < c.Height(); y++ {
		for x := 0; x < c.Width(); x++ {
			s := c.At(x, y).Symbol
			if s.Present() {
				b.WriteRune(s.Rune())
			} else {
				b.WriteByte(' ')
			}
		}
	}
	return b.String()
}
