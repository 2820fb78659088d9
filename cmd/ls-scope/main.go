// Command ls-scope is a terminal radar scope for live air traffic.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/litescript/ls-scope/internal/adsb"
	"github.com/litescript/ls-scope/internal/canvas"
	"github.com/litescript/ls-scope/internal/config"
	"github.com/litescript/ls-scope/internal/engine"
	"github.com/litescript/ls-scope/internal/geo"
	"github.com/litescript/ls-scope/internal/logging"
	"github.com/litescript/ls-scope/internal/render"
	"github.com/litescript/ls-scope/internal/ui"
	"github.com/litescript/ls-scope/internal/version"
	"github.com/litescript/ls-scope/internal/wx"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config file")
	logLevel := flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	noTUI := flag.Bool("no-tui", false, "Write frames to stdout instead of the TUI")
	wxSeed := flag.Int64("wx-seed", 0, "Weather generator seed (0 = time-based)")
	station := flag.String("station", "", "Station label for the title row")
	refLat := flag.Float64("lat", 0, "Reference latitude in degrees")
	refLon := flag.Float64("lon", 0, "Reference longitude in degrees")
	rangeNM := flag.Float64("range", 0, "Scope range in nautical miles")
	size := flag.Int("size", 0, "Grid height in rows (width is twice this)")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("ls-scope v%s\n", version.Version)
		return
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	// Flags set on the command line win over the config file.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "station":
			cfg.Station = *station
		case "lat":
			cfg.RefLat = *refLat
		case "lon":
			cfg.RefLon = *refLon
		case "range":
			cfg.RangeNM = *rangeNM
		case "size":
			cfg.CanvasSize = *size
		}
	})
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(logging.ParseLevel(*logLevel))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	if *noTUI {
		isTTY := term.IsTerminal(int(os.Stdout.Fd()))
		sink := engine.NewWriterSink(os.Stdout, isTTY)
		eng := buildEngine(cfg, *wxSeed, isTTY, sink, logger)

		fmt.Printf("ls-scope v%s  %s\n", version.Version, cfg.Station)
		fmt.Printf("Range %.0f nm around %.4f, %.4f\n", cfg.RangeNM, cfg.RefLat, cfg.RefLon)
		fmt.Println("Traffic: OpenSky Network | Weather: simulated")
		logger.Info("running headless, ctrl+c to stop")
		if err := eng.Run(ctx); err != nil && ctx.Err() == nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// In TUI mode the engine pushes frames into the Bubble Tea program;
	// the program owns the terminal until quit.
	p := tea.NewProgram(ui.New(), tea.WithAltScreen())
	eng := buildEngine(cfg, *wxSeed, true, ui.NewProgramSink(p), logger)

	go func() {
		if err := eng.Run(ctx); err != nil && ctx.Err() == nil {
			logger.Error("engine stopped: %v", err)
		}
	}()

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}
	cancel()
}

func loadConfig(path string) (config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

func buildEngine(cfg config.Config, seed int64, styled bool, sink engine.Sink, logger *logging.Logger) *engine.Engine {
	latMin, lonMin, latMax, lonMax := boundingBox(cfg)
	fetcher := adsb.NewFetcher(
		adsb.BoundingBox{LatMin: latMin, LonMin: lonMin, LatMax: latMax, LonMax: lonMax},
		adsb.WithURL(cfg.StatesURL),
		adsb.WithTimeout(cfg.HTTPTimeout.Std()),
	)

	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	weather := wx.NewGenerator(rand.New(rand.NewSource(seed)))

	return engine.New(engine.Options{
		Config:   cfg,
		Aircraft: fetcher,
		Weather:  weather,
		Renderer: render.New(styled),
		Sink:     sink,
		Logger:   logger,
	})
}

// boundingBox derives the fetch area from the same projection the scope
// draws with, so the query covers exactly what can appear on screen.
func boundingBox(cfg config.Config) (latMin, lonMin, latMax, lonMax float64) {
	c := canvas.New(cfg.CanvasSize)
	ref := geo.Point{Lat: cfg.RefLat, Lon: cfg.RefLon}
	return geo.NewProjector(ref, cfg.RangeNM, c.Width(), c.Height()).BoundingBox()
}
