package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/menta2k/shape-tracer/pkg/contour"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default config should be valid: %v", err)
	}
	if cfg.Shape.TargetPointCount != 120 {
		t.Errorf("Expected 120 target points, got %d", cfg.Shape.TargetPointCount)
	}
	if cfg.Shape.ToleranceFactor != 0.003 {
		t.Errorf("Expected tolerance factor 0.003, got %f", cfg.Shape.ToleranceFactor)
	}
	if cfg.Trace.Threshold != 200 {
		t.Errorf("Expected threshold 200, got %d", cfg.Trace.Threshold)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"threshold", func(c *Config) { c.Trace.Threshold = 300 }},
		{"smoothing", func(c *Config) { c.Trace.SmoothingRadius = -1 }},
		{"method", func(c *Config) { c.Trace.Method = "canny" }},
		{"steps", func(c *Config) { c.Trace.AngularSteps = 0 }},
		{"tolerance", func(c *Config) { c.Shape.ToleranceFactor = -0.1 }},
		{"points", func(c *Config) { c.Shape.TargetPointCount = 2 }},
		{"passes", func(c *Config) { c.Shape.SmoothingPasses = -1 }},
		{"svg", func(c *Config) { c.Output.SVGSize = 30 }},
		{"debug format", func(c *Config) { c.Output.DebugFormat = "gif" }},
		{"workers", func(c *Config) { c.Output.Workers = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Expected validation error")
			}
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")
	cfg := Default()
	cfg.Shape.TargetPointCount = 64
	cfg.Trace.Method = "radial"
	if err := cfg.SaveToFile(path); err != nil {
		t.Fatalf("SaveToFile failed: %v", err)
	}

	loaded, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}
	if loaded.Shape.TargetPointCount != 64 {
		t.Errorf("Expected 64 target points, got %d", loaded.Shape.TargetPointCount)
	}
	if loaded.ContourConfig().Method != contour.MethodRadial {
		t.Errorf("Expected radial method, got %q", loaded.ContourConfig().Method)
	}
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"shape": {"target_point_count": 48}}`), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}
	if cfg.Shape.TargetPointCount != 48 {
		t.Errorf("Expected 48 target points, got %d", cfg.Shape.TargetPointCount)
	}
	if cfg.Shape.ToleranceFactor != 0.003 || cfg.Trace.Threshold != 200 {
		t.Error("Unset keys should keep their defaults")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Partial config should be valid: %v", err)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("Missing file should fail")
	}
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFromFile(path); err == nil {
		t.Error("Malformed file should fail")
	}
}

func TestConversions(t *testing.T) {
	cfg := Default()
	cfg.Shape.RotationDegrees = 90
	cfg.Output.SVGSize = 600

	if got := cfg.ShapeOptions().RotationDegrees; got != 90 {
		t.Errorf("Expected rotation 90, got %f", got)
	}
	if got := cfg.ContourConfig().Threshold; got != 200 {
		t.Errorf("Expected threshold 200, got %d", got)
	}
	svg := cfg.SVGOptions()
	if svg.Width != 600 || svg.Height != 600 || svg.Margin != 20 {
		t.Errorf("Unexpected svg options %+v", svg)
	}
}
