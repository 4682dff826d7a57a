// Package config loads shapekit settings from built-in defaults, an optional
// TOML file and SHAPEKIT_* environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"image/color"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
	"github.com/kelseyhightower/envconfig"
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/shapekit/internal/imaging"
	"github.com/ironsheep/shapekit/internal/scene"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "SHAPEKIT"

// DefaultMaxCanvas bounds each canvas side; a rendered scene allocates
// width*height*4 bytes.
const DefaultMaxCanvas = 4096

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Config is the full settings tree.
type Config struct {
	LogLevel string         `toml:"log_level" envconfig:"LOG_LEVEL"`
	Analyze  AnalyzeConfig  `toml:"analyze" envconfig:"ANALYZE"`
	Generate GenerateConfig `toml:"generate" envconfig:"GENERATE"`
}

// AnalyzeConfig drives the analyze command and the shapes_analyze tool.
type AnalyzeConfig struct {
	Mode       string  `toml:"mode" envconfig:"MODE"`
	Threshold  float64 `toml:"threshold" envconfig:"THRESHOLD"`
	MinArea    float64 `toml:"min_area" envconfig:"MIN_AREA"`
	BlurSigma  float64 `toml:"blur_sigma" envconfig:"BLUR_SIGMA"`
	CannyLow   int     `toml:"canny_low" envconfig:"CANNY_LOW"`
	CannyHigh  int     `toml:"canny_high" envconfig:"CANNY_HIGH"`
	OutputDir  string  `toml:"output_dir" envconfig:"OUTPUT_DIR"`
	Histograms bool    `toml:"histograms" envconfig:"HISTOGRAMS"`
}

// GenerateConfig drives the generate command and the scene_generate tool.
type GenerateConfig struct {
	Width        int    `toml:"width" envconfig:"WIDTH"`
	Height       int    `toml:"height" envconfig:"HEIGHT"`
	MaxCanvas    int    `toml:"max_canvas" envconfig:"MAX_CANVAS"`
	Circles      int    `toml:"circles" envconfig:"CIRCLES"`
	Squares      int    `toml:"squares" envconfig:"SQUARES"`
	Triangles    int    `toml:"triangles" envconfig:"TRIANGLES"`
	BorderMargin int    `toml:"border_margin" envconfig:"BORDER_MARGIN"`
	ObjectMargin int    `toml:"object_margin" envconfig:"OBJECT_MARGIN"`
	MaxAttempts  int    `toml:"max_attempts" envconfig:"MAX_ATTEMPTS"`
	Background   string `toml:"background" envconfig:"BACKGROUND"`
	Output       string `toml:"output" envconfig:"OUTPUT"`
}

// Default returns the built-in settings.
func Default() *Config {
	pre := imaging.DefaultPreprocessOptions()
	sc := scene.DefaultConfig()
	return &Config{
		LogLevel: "info",
		Analyze: AnalyzeConfig{
			Mode:      "cluster",
			Threshold: 2.0,
			MinArea:   300,
			BlurSigma: pre.BlurSigma,
			CannyLow:  pre.CannyLow,
			CannyHigh: pre.CannyHigh,
			OutputDir: "output",
		},
		Generate: GenerateConfig{
			Width:        sc.Width,
			Height:       sc.Height,
			MaxCanvas:    DefaultMaxCanvas,
			Circles:      5,
			Squares:      5,
			Triangles:    5,
			BorderMargin: sc.BorderMargin,
			ObjectMargin: sc.ObjectMargin,
			MaxAttempts:  sc.MaxAttempts,
			Background:   "#ffffff",
			Output:       "generated_shapes.png",
		},
	}
}

// Load layers defaults, the TOML file at path (skipped when path is empty)
// and the environment, then validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
	}
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// mergeFile decodes path over the current values. Unknown keys are rejected
// so typos do not silently fall back to defaults.
func (c *Config) mergeFile(path string) error {
	md, err := toml.DecodeFile(path, c)
	if err != nil {
		return fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("%w: unknown keys in %s: %s", ErrInvalid, path, strings.Join(keys, ", "))
	}
	return nil
}

// Validate reports every problem at once. Each error wraps ErrInvalid.
func (c *Config) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
	}

	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		bad("log_level %q", c.LogLevel)
	}

	a := c.Analyze
	if a.Mode != "cluster" && a.Mode != "classify" {
		bad("analyze.mode %q (want cluster or classify)", a.Mode)
	}
	if a.Threshold < 0 {
		bad("analyze.threshold must not be negative, got %v", a.Threshold)
	}
	if a.MinArea < 0 {
		bad("analyze.min_area must not be negative, got %v", a.MinArea)
	}
	if a.BlurSigma < 0 {
		bad("analyze.blur_sigma must not be negative, got %v", a.BlurSigma)
	}
	if a.CannyLow < 0 || a.CannyHigh < a.CannyLow {
		bad("analyze.canny thresholds need 0 <= low <= high, got %d/%d", a.CannyLow, a.CannyHigh)
	}

	g := c.Generate
	if g.Width <= 0 || g.Height <= 0 {
		bad("generate canvas must be positive, got %dx%d", g.Width, g.Height)
	}
	if g.MaxCanvas <= 0 {
		bad("generate.max_canvas must be positive, got %d", g.MaxCanvas)
	} else if g.Width > g.MaxCanvas || g.Height > g.MaxCanvas {
		bad("generate canvas %dx%d exceeds max_canvas %d", g.Width, g.Height, g.MaxCanvas)
	}
	if g.Circles < 0 || g.Squares < 0 || g.Triangles < 0 {
		bad("generate counts must not be negative")
	}
	if g.BorderMargin < 0 || g.ObjectMargin < 0 {
		bad("generate margins must not be negative")
	}
	if g.MaxAttempts <= 0 {
		bad("generate.max_attempts must be positive, got %d", g.MaxAttempts)
	}
	if _, err := colorful.Hex(g.Background); err != nil {
		bad("generate.background %q is not a #rrggbb colour", g.Background)
	}

	return errors.Join(errs...)
}

// Level returns the parsed log level. Call after Validate.
func (c *Config) Level() log.Level {
	lvl, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}

// PreprocessOptions maps the analyze section onto the filter chain.
func (a AnalyzeConfig) PreprocessOptions() imaging.PreprocessOptions {
	opts := imaging.DefaultPreprocessOptions()
	opts.BlurSigma = a.BlurSigma
	opts.CannyLow = a.CannyLow
	opts.CannyHigh = a.CannyHigh
	return opts
}

// SceneConfig maps the generate section onto the placer configuration.
func (g GenerateConfig) SceneConfig() scene.Config {
	return scene.Config{
		Width:        g.Width,
		Height:       g.Height,
		BorderMargin: g.BorderMargin,
		ObjectMargin: g.ObjectMargin,
		MaxAttempts:  g.MaxAttempts,
	}
}

// Counts returns the requested primitive counts.
func (g GenerateConfig) Counts() scene.Counts {
	return scene.Counts{Circles: g.Circles, Squares: g.Squares, Triangles: g.Triangles}
}

// BackgroundColor parses Background, falling back to white.
func (g GenerateConfig) BackgroundColor() color.Color {
	c, err := colorful.Hex(g.Background)
	if err != nil {
		return color.White
	}
	return c
}
