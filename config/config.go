// Package config holds the detector's runtime configuration: pipeline
// tuning for Homer/Hoparser/MCParser plus capture and UI knobs, loaded
// from and saved to a JSON file under the user's XDG config directory.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"

	"github.com/soocke/fiducial-go/internal/hoparser"
	"github.com/soocke/fiducial-go/internal/homer"
	"github.com/soocke/fiducial-go/internal/mcparser"
)

// AppName names the subdirectory used under the XDG config home.
const AppName = "fiducial-go"

// Config holds runtime configuration for the detection pipeline, the
// screen capture source, and persisted UI state.
type Config struct {
	Debug bool `json:"debug"`

	// Pipeline tuning, one block per layer.
	Homer    homer.Setup     `json:"homer"`
	Hoparser hoparser.Setup  `json:"hoparser"`
	MCParser mcparser.Config `json:"mcparser"`

	// Capture source.
	CaptureFPS int `json:"capture_fps"`

	// Stride scans only every Stride-th row of the frame, trading
	// vertical resolution for throughput on very large capture regions.
	// 1 scans every row. Applied by domain/capture.DetectMarkers (the
	// markerscan CLI path); the session FSM's live frame path scans every
	// row regardless.
	Stride int `json:"stride"`

	// AnalysisScale resizes the greyscale buffer by this factor before
	// scanning, trading marker-size precision for throughput. 1.0 scans
	// at native resolution. Applied by domain/capture.DetectMarkers; the
	// session FSM's live frame path scans at native resolution regardless.
	AnalysisScale float64 `json:"analysis_scale"`

	// Selection rectangle persistence: the last region of the screen the
	// user picked to scan.
	SelectionX int `json:"selection_x"`
	SelectionY int `json:"selection_y"`
	SelectionW int `json:"selection_w"`
	SelectionH int `json:"selection_h"`
}

// DefaultConfig returns a Config populated with the pipeline's stock
// tuning and a sensible capture rate.
func DefaultConfig() *Config {
	return &Config{
		Debug:         false,
		Homer:         homer.DefaultSetup(),
		Hoparser:      hoparser.DefaultSetup(),
		MCParser:      mcparser.DefaultConfig(),
		CaptureFPS:    30,
		Stride:        1,
		AnalysisScale: 1.0,
		SelectionX:    0,
		SelectionY:    0,
		SelectionW:    0,
		SelectionH:    0,
	}
}

// Validate clamps/normalizes values to safe ranges.
func (c *Config) Validate() error {
	if c.CaptureFPS <= 0 {
		c.CaptureFPS = 30
	}
	if c.Stride <= 0 {
		c.Stride = 1
	}
	if c.AnalysisScale <= 0 {
		c.AnalysisScale = 1.0
	}
	if c.MCParser.IgnoreWhenSignalCountLessThan <= 0 {
		c.MCParser.IgnoreWhenSignalCountLessThan = mcparser.DefaultConfig().IgnoreWhenSignalCountLessThan
	}
	if c.MCParser.IgnoreOrderSmallerThan < mcparser.MinOrder {
		c.MCParser.IgnoreOrderSmallerThan = mcparser.MinOrder
	}
	return nil
}

// DefaultPath returns the config file's default location under the
// user's XDG config home, creating the parent directory if needed.
func DefaultPath() (string, error) {
	return xdg.ConfigFile(filepath.Join(AppName, "config.json"))
}

// Load attempts to read configuration from the given JSON file path. If
// the file does not exist it returns DefaultConfig(). On JSON error it
// returns defaults with the error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	defer f.Close()
	dec := json.NewDecoder(f)
	if err := dec.Decode(cfg); err != nil {
		return cfg, err
	}
	_ = cfg.Validate()
	return cfg, nil
}

// Save writes the configuration to the given path in JSON format.
func (c *Config) Save(path string) error {
	_ = c.Validate()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(c)
}
