package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/menta2k/shape-tracer/pkg/contour"
	"github.com/menta2k/shape-tracer/pkg/emit"
	"github.com/menta2k/shape-tracer/pkg/shape"
)

// Config holds the application configuration
type Config struct {
	Trace  TraceConfig  `json:"trace"`
	Shape  ShapeConfig  `json:"shape"`
	Output OutputConfig `json:"output"`
}

// TraceConfig holds configuration for thresholding and contour tracing
type TraceConfig struct {
	Threshold       int     `json:"threshold"`
	SmoothingRadius float64 `json:"smoothing_radius"`
	LightForeground bool    `json:"light_foreground"`
	Method          string  `json:"method"`
	AngularSteps    int     `json:"angular_steps"`
	MaxSize         int     `json:"max_size"`
}

// ShapeConfig holds configuration for simplification, normalization and resampling
type ShapeConfig struct {
	ToleranceFactor  float64 `json:"tolerance_factor"`
	TargetPointCount int     `json:"target_point_count"`
	RotationDegrees  float64 `json:"rotation_degrees"`
	SmoothingPasses  int     `json:"smoothing_passes"`
}

// OutputConfig holds configuration for output generation
type OutputConfig struct {
	OutputDir     string `json:"output_dir"`
	SVG           bool   `json:"svg"`
	JSON          bool   `json:"json"`
	Snippet       bool   `json:"snippet"`
	GeneratorName string `json:"generator_name,omitempty"`
	SVGSize       int    `json:"svg_size"`
	SVGMargin     int    `json:"svg_margin"`
	Debug         bool   `json:"debug"`
	DebugFormat   string `json:"debug_format"`
	DebugQuality  int    `json:"debug_quality"`
	DebugLossless bool   `json:"debug_lossless"`
	Workers       int    `json:"workers"`
}

// Default returns a configuration with default values
func Default() *Config {
	tc := contour.DefaultConfig()
	so := shape.DefaultOptions()
	svg := emit.DefaultSVGOptions()
	return &Config{
		Trace: TraceConfig{
			Threshold:       int(tc.Threshold),
			SmoothingRadius: tc.SmoothingSigma,
			Method:          string(tc.Method),
			AngularSteps:    tc.AngularSteps,
		},
		Shape: ShapeConfig{
			ToleranceFactor:  so.ToleranceFactor,
			TargetPointCount: so.TargetPointCount,
		},
		Output: OutputConfig{
			SVG:          true,
			JSON:         true,
			Snippet:      true,
			SVGSize:      svg.Width,
			SVGMargin:    svg.Margin,
			DebugFormat:  "png",
			DebugQuality: 92,
			Workers:      1,
		},
	}
}

// LoadFromFile loads configuration from a JSON file. Missing keys keep
// their default values.
func LoadFromFile(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := Default()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveToFile saves configuration to a JSON file
func (c *Config) SaveToFile(filename string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Trace.Threshold < 0 || c.Trace.Threshold > 255 {
		return fmt.Errorf("trace.threshold must be between 0 and 255")
	}

	if c.Trace.SmoothingRadius < 0 {
		return fmt.Errorf("trace.smoothing_radius must not be negative")
	}

	if _, err := contour.ParseMethod(c.Trace.Method); err != nil {
		return fmt.Errorf("trace.method: %w", err)
	}

	if c.Trace.AngularSteps < 1 {
		return fmt.Errorf("trace.angular_steps must be positive")
	}

	if c.Trace.MaxSize < 0 {
		return fmt.Errorf("trace.max_size must not be negative")
	}

	if c.Shape.ToleranceFactor < 0 || c.Shape.ToleranceFactor >= 1 {
		return fmt.Errorf("shape.tolerance_factor must be between 0 and 1")
	}

	if c.Shape.TargetPointCount < 3 {
		return fmt.Errorf("shape.target_point_count must be at least 3")
	}

	if c.Shape.SmoothingPasses < 0 {
		return fmt.Errorf("shape.smoothing_passes must not be negative")
	}

	if c.Output.SVGSize <= 2*c.Output.SVGMargin || c.Output.SVGMargin < 0 {
		return fmt.Errorf("output.svg_size must exceed twice output.svg_margin")
	}

	switch c.Output.DebugFormat {
	case "png", "jpg", "jpeg", "webp":
	default:
		return fmt.Errorf("output.debug_format must be png, jpg or webp")
	}

	if c.Output.DebugQuality < 1 || c.Output.DebugQuality > 100 {
		return fmt.Errorf("output.debug_quality must be between 1 and 100")
	}

	if c.Output.Workers < 1 {
		return fmt.Errorf("output.workers must be positive")
	}

	return nil
}

// ContourConfig returns the contour extraction settings.
func (c *Config) ContourConfig() contour.Config {
	method, _ := contour.ParseMethod(c.Trace.Method)
	return contour.Config{
		Threshold:       uint8(c.Trace.Threshold),
		SmoothingSigma:  c.Trace.SmoothingRadius,
		LightForeground: c.Trace.LightForeground,
		Method:          method,
		AngularSteps:    c.Trace.AngularSteps,
		MaxSize:         c.Trace.MaxSize,
	}
}

// ShapeOptions returns the pipeline options.
func (c *Config) ShapeOptions() shape.Options {
	return shape.Options{
		ToleranceFactor:  c.Shape.ToleranceFactor,
		TargetPointCount: c.Shape.TargetPointCount,
		RotationDegrees:  c.Shape.RotationDegrees,
		SmoothingPasses:  c.Shape.SmoothingPasses,
	}
}

// SVGOptions returns the preview viewport settings.
func (c *Config) SVGOptions() emit.SVGOptions {
	opts := emit.DefaultSVGOptions()
	opts.Width = c.Output.SVGSize
	opts.Height = c.Output.SVGSize
	opts.Margin = c.Output.SVGMargin
	return opts
}

// GetConfigPath returns the default configuration file path
func GetConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "./config.json"
	}
	return filepath.Join(home, ".config", "shape-tracer", "config.json")
}
