// Package config loads and saves the tracing app's settings from a TOML file
// in the user's home directory.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/ha1tch/sightwords/pkg/curve"
	"github.com/ha1tch/sightwords/pkg/ink/modeler"
)

// FileName is the config file's name inside the home directory.
const FileName = ".sightwords.toml"

// ErrInvalid is wrapped by Validate errors.
var ErrInvalid = errors.New("invalid config")

// Renderer and file type values.
const (
	RendererNative = "native"
	RendererGG     = "gg"
	FileTypePNG    = "png"
	FileTypeSVG    = "svg"
)

// Config holds persistent settings.
type Config struct {
	Words     []string `toml:"words"`
	Renderer  string   `toml:"renderer"`  // "native" or "gg"
	FileType  string   `toml:"file_type"` // "png" or "svg"
	LastDir   string   `toml:"last_dir"`
	Smoothing bool     `toml:"smoothing"`
	Stroke    Stroke   `toml:"stroke"`
	Modeler   Modeler  `toml:"modeler"`
}

// Stroke holds layout and curve settings.
type Stroke struct {
	Tension     float64 `toml:"tension"`
	MinWidth    float64 `toml:"min_width"`
	WidthFactor float64 `toml:"width_factor"` // stroke width per unit of font size
	FontFactor  float64 `toml:"font_factor"`  // font size per unit of the smaller viewport side
}

// Modeler mirrors modeler.Params with durations in seconds.
type Modeler struct {
	WobbleTimeout               float64 `toml:"wobble_timeout"`
	SpeedFloor                  float64 `toml:"speed_floor"`
	SpeedCeiling                float64 `toml:"speed_ceiling"`
	SpringMassConstant          float64 `toml:"spring_mass_constant"`
	DragConstant                float64 `toml:"drag_constant"`
	MinOutputRate               float64 `toml:"min_output_rate"`
	EndOfStrokeStoppingDistance float64 `toml:"end_of_stroke_stopping_distance"`
	EndOfStrokeMaxIterations    int     `toml:"end_of_stroke_max_iterations"`
	MaxInputSamples             int     `toml:"max_input_samples"`
}

// DefaultWords is the word list the app starts with.
var DefaultWords = []string{"mloaas", "Jamie", "Alan", "Mama", "Daddy", "teacher", "to", "listen", "me"}

// Default returns the default configuration.
func Default() Config {
	cwd, _ := os.Getwd()
	return Config{
		Words:     slices.Clone(DefaultWords),
		Renderer:  RendererNative,
		FileType:  FileTypePNG,
		LastDir:   cwd,
		Smoothing: true,
		Stroke: Stroke{
			Tension:     curve.DefaultTension,
			MinWidth:    8,
			WidthFactor: 0.05,
			FontFactor:  0.3,
		},
		Modeler: FromParams(modeler.DefaultParams()),
	}
}

// Path returns the path to the config file.
func Path() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return FileName
	}
	return filepath.Join(home, FileName)
}

// Load reads the config at path. A missing file yields the defaults; keys
// absent from the file keep their default values.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	// A words array in the file replaces the default list.
	cfg.Words = nil
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return Default(), fmt.Errorf("parsing %s:%d:%d: %w", path, row, col, err)
		}
		return Default(), fmt.Errorf("parsing %s: %w", path, err)
	}
	if cfg.Words == nil {
		cfg.Words = slices.Clone(DefaultWords)
	}
	if err := cfg.Validate(); err != nil {
		return Default(), fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to path.
func Save(path string, cfg Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	content := append([]byte("# sightwords configuration\n"), data...)
	if err := os.WriteFile(path, content, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Validate checks every field.
func (c Config) Validate() error {
	if len(c.Words) == 0 {
		return fmt.Errorf("%w: word list is empty", ErrInvalid)
	}
	for i, w := range c.Words {
		if w == "" {
			return fmt.Errorf("%w: word %d is empty", ErrInvalid, i)
		}
	}
	if c.Renderer != RendererNative && c.Renderer != RendererGG {
		return fmt.Errorf("%w: renderer must be %q or %q, got %q", ErrInvalid, RendererNative, RendererGG, c.Renderer)
	}
	if c.FileType != FileTypePNG && c.FileType != FileTypeSVG {
		return fmt.Errorf("%w: file_type must be %q or %q, got %q", ErrInvalid, FileTypePNG, FileTypeSVG, c.FileType)
	}

	s := c.Stroke
	switch {
	case s.Tension < 0 || s.Tension > 1:
		return fmt.Errorf("%w: stroke tension must be within [0,1], got %g", ErrInvalid, s.Tension)
	case s.MinWidth <= 0:
		return fmt.Errorf("%w: stroke min_width must be positive, got %g", ErrInvalid, s.MinWidth)
	case s.WidthFactor <= 0:
		return fmt.Errorf("%w: stroke width_factor must be positive, got %g", ErrInvalid, s.WidthFactor)
	case s.FontFactor <= 0 || s.FontFactor > 1:
		return fmt.Errorf("%w: stroke font_factor must be within (0,1], got %g", ErrInvalid, s.FontFactor)
	}

	if err := c.Modeler.Params().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}

// FromParams converts modeler parameters to their config form.
func FromParams(p modeler.Params) Modeler {
	return Modeler{
		WobbleTimeout:               p.WobbleTimeout.Seconds(),
		SpeedFloor:                  p.SpeedFloor,
		SpeedCeiling:                p.SpeedCeiling,
		SpringMassConstant:          p.SpringMassConstant,
		DragConstant:                p.DragConstant,
		MinOutputRate:               p.MinOutputRate,
		EndOfStrokeStoppingDistance: p.EndOfStrokeStoppingDistance,
		EndOfStrokeMaxIterations:    p.EndOfStrokeMaxIterations,
		MaxInputSamples:             p.MaxInputSamples,
	}
}

// Params converts the config form back to modeler parameters.
func (m Modeler) Params() modeler.Params {
	return modeler.Params{
		WobbleTimeout:               time.Duration(math.Round(m.WobbleTimeout * float64(time.Second))),
		SpeedFloor:                  m.SpeedFloor,
		SpeedCeiling:                m.SpeedCeiling,
		SpringMassConstant:          m.SpringMassConstant,
		DragConstant:                m.DragConstant,
		MinOutputRate:               m.MinOutputRate,
		EndOfStrokeStoppingDistance: m.EndOfStrokeStoppingDistance,
		EndOfStrokeMaxIterations:    m.EndOfStrokeMaxIterations,
		MaxInputSamples:             m.MaxInputSamples,
	}
}
