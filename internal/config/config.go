// Package config holds the scope's runtime configuration: the reference
// point, display geometry, timing intervals and display thresholds.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so YAML values can be written the way Go
// spells them ("7ms", "10s").
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return fmt.Errorf("duration must be a string like \"10s\": %w", err)
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config is the full runtime configuration. The zero value is not usable;
// start from Default.
type Config struct {
	// Station labels the reference point in the title row.
	Station string `yaml:"station"`

	// Reference point and visible range.
	RefLat  float64 `yaml:"ref_lat"`
	RefLon  float64 `yaml:"ref_lon"`
	RangeNM float64 `yaml:"range_nm"`

	// CanvasSize is the grid height n; width is always 2n.
	CanvasSize int `yaml:"canvas_size"`

	// Sweep geometry and pacing.
	NumAngles int      `yaml:"num_angles"`
	StepDelay Duration `yaml:"step_delay"`

	// Refresh cadence for the two data channels.
	AircraftRefresh Duration `yaml:"aircraft_refresh"`
	WeatherRefresh  Duration `yaml:"weather_refresh"`

	// Display floor: traffic at or below either threshold is hidden.
	MinAltitudeFt int `yaml:"min_altitude_ft"`
	MinSpeedKt    int `yaml:"min_speed_kt"`

	// Data feed.
	StatesURL   string   `yaml:"states_url"`
	HTTPTimeout Duration `yaml:"http_timeout"`
}

// Default returns the stock configuration: Zurich Airport, 20 nm range,
// the timing the scope has always used.
func Default() Config {
	return Config{
		Station:         "LSZH",
		RefLat:          47.458056,
		RefLon:          8.548056,
		RangeNM:         20,
		CanvasSize:      120,
		NumAngles:       720,
		StepDelay:       Duration(7 * time.Millisecond),
		AircraftRefresh: Duration(10 * time.Second),
		WeatherRefresh:  Duration(60 * time.Second),
		MinAltitudeFt:   1800,
		MinSpeedKt:      60,
		StatesURL:       "https://opensky-network.org/api/states/all",
		HTTPTimeout:     Duration(10 * time.Second),
	}
}

// Load reads a YAML config file over the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}

	return cfg, cfg.Validate()
}

// Validate rejects geometry the canvas and sweep cannot work with.
func (c Config) Validate() error {
	if c.CanvasSize < 12 {
		return fmt.Errorf("canvas_size %d too small: the top 6 rows are reserved for the title block", c.CanvasSize)
	}
	if c.RangeNM <= 0 {
		return fmt.Errorf("range_nm must be positive, got %v", c.RangeNM)
	}
	if c.NumAngles < 1 {
		return fmt.Errorf("num_angles must be at least 1, got %d", c.NumAngles)
	}
	if c.RefLat < -90 || c.RefLat > 90 {
		return fmt.Errorf("ref_lat %v out of range", c.RefLat)
	}
	if c.RefLon < -180 || c.RefLon > 180 {
		return fmt.Errorf("ref_lon %v out of range", c.RefLon)
	}
	return nil
}
