package shapetracer

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/menta2k/shape-tracer/internal/config"
	"github.com/menta2k/shape-tracer/pkg/emit"
	"github.com/menta2k/shape-tracer/pkg/shape"
)

// createTestImage creates a white image with a dark ellipse in the center
func createTestImage(width, height int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	cx, cy := float64(width)/2, float64(height)/2
	rx, ry := float64(width)/3, float64(height)/3
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			dx, dy := (float64(x)-cx)/rx, (float64(y)-cy)/ry
			if dx*dx+dy*dy <= 1 {
				img.Set(x, y, color.RGBA{30, 30, 30, 255})
			} else {
				img.Set(x, y, color.RGBA{255, 255, 255, 255})
			}
		}
	}
	return img
}

func writePNG(t *testing.T, path string, img image.Image) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func TestNew(t *testing.T) {
	tracer := New()
	if tracer == nil {
		t.Fatal("New() returned nil")
	}
	if tracer.processor == nil || tracer.extractor == nil || tracer.pipeline == nil {
		t.Error("Tracer components should be initialized")
	}
	if got := tracer.pipeline.Options().TargetPointCount; got != 120 {
		t.Errorf("Expected 120 target points, got %d", got)
	}
}

func TestNewFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Shape.TargetPointCount = 60
	cfg.Output.Snippet = false
	tracer := NewFromConfig(cfg)
	if got := tracer.pipeline.Options().TargetPointCount; got != 60 {
		t.Errorf("Expected 60 target points, got %d", got)
	}
	if tracer.output.WriteSnippet {
		t.Error("Snippet output should be disabled")
	}
}

func TestTrace(t *testing.T) {
	res, err := New().Trace(createTestImage(300, 150))
	if err != nil {
		t.Fatalf("Trace failed: %v", err)
	}
	d := res.Descriptor()
	if len(d.Points) != 120 {
		t.Errorf("Expected 120 points, got %d", len(d.Points))
	}
	if d.WidthRatio < 1.9 || d.WidthRatio > 2.1 {
		t.Errorf("Expected width ratio about 2, got %f", d.WidthRatio)
	}
	if len(res.Shape.Simplified) >= len(res.Contour.Points) {
		t.Errorf("Expected simplification, got %d of %d points", len(res.Shape.Simplified), len(res.Contour.Points))
	}
	b := shape.Polygon(d.Points).Bound()
	if w := b.Max[0] - b.Min[0]; w > 1.00001 {
		t.Errorf("Normalized width %f exceeds 1", w)
	}
}

func TestTraceBlankImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 50, 50))
	for i := range img.Pix {
		img.Pix[i] = 255
	}
	_, err := New().Trace(img)
	if !errors.Is(err, shape.ErrEmptyContour) {
		t.Fatalf("Expected ErrEmptyContour, got %v", err)
	}
	var se *shape.StageError
	if !errors.As(err, &se) || se.Stage != "extract" {
		t.Errorf("Expected failure in the extract stage, got %v", err)
	}
}

func TestProcessImageFile(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "lenses01.png")
	writePNG(t, in, createTestImage(240, 160))

	out := DefaultOutputOptions()
	out.Debug = true
	tracer := NewWithConfig(New().extractor.Config(), shape.DefaultOptions(), out)

	outDir := filepath.Join(dir, "out")
	res, outputs, err := tracer.ProcessImageFile(in, outDir)
	if err != nil {
		t.Fatalf("ProcessImageFile failed: %v", err)
	}
	if res.Source != in {
		t.Errorf("Expected source %s, got %s", in, res.Source)
	}

	want := []string{
		filepath.Join(outDir, "lenses01_traced.svg"),
		filepath.Join(outDir, "lenses01_shape.json"),
		filepath.Join(outDir, "lenses01_generator.js"),
		filepath.Join(outDir, "lenses01_debug.png"),
	}
	paths := outputs.Paths()
	if len(paths) != len(want) {
		t.Fatalf("Expected outputs %v, got %v", want, paths)
	}
	for i, p := range want {
		if paths[i] != p {
			t.Errorf("Output %d: expected %s, got %s", i, p, paths[i])
		}
		if _, err := os.Stat(p); err != nil {
			t.Errorf("Output %s missing: %v", p, err)
		}
	}

	f, err := os.Open(outputs.JSON)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	doc, err := emit.ReadJSON(f)
	if err != nil {
		t.Fatalf("ReadJSON failed: %v", err)
	}
	if doc.PointCount != 120 {
		t.Errorf("Expected 120 points in JSON, got %d", doc.PointCount)
	}
}

func TestProcessImageFileNextToInput(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "shape.png")
	writePNG(t, in, createTestImage(100, 100))

	_, outputs, err := New().ProcessImageFile(in, "")
	if err != nil {
		t.Fatalf("ProcessImageFile failed: %v", err)
	}
	if want := filepath.Join(dir, "shape_shape.json"); outputs.JSON != want {
		t.Errorf("Expected %s, got %s", want, outputs.JSON)
	}
}

func TestProcessImageFileGeneratorName(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "shape.png")
	writePNG(t, in, createTestImage(100, 100))

	out := DefaultOutputOptions()
	out.WriteSVG, out.WriteJSON = false, false
	out.GeneratorName = "round lens"
	tracer := NewWithConfig(New().extractor.Config(), shape.DefaultOptions(), out)

	_, outputs, err := tracer.ProcessImageFile(in, dir)
	if err != nil {
		t.Fatalf("ProcessImageFile failed: %v", err)
	}
	data, err := os.ReadFile(outputs.Snippet)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "export function generateRoundlens(numPoints = 120)") {
		t.Errorf("Snippet does not use the configured name:\n%s", data)
	}
}

func TestProcessBatchIsolatesFailures(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.png")
	writePNG(t, good, createTestImage(120, 90))

	blankImg := image.NewGray(image.Rect(0, 0, 40, 40))
	for i := range blankImg.Pix {
		blankImg.Pix[i] = 255
	}
	blank := filepath.Join(dir, "blank.png")
	writePNG(t, blank, blankImg)

	missing := filepath.Join(dir, "missing.png")
	other := filepath.Join(dir, "other.png")
	writePNG(t, other, createTestImage(90, 120))

	inputs := []string{good, blank, missing, other}
	results := New().ProcessBatch(context.Background(), inputs, filepath.Join(dir, "out"), 2)
	if len(results) != len(inputs) {
		t.Fatalf("Expected %d results, got %d", len(inputs), len(results))
	}

	for i, r := range results {
		if r.Input != inputs[i] {
			t.Errorf("Result %d: expected input %s, got %s", i, inputs[i], r.Input)
		}
	}
	if results[0].Err != nil || results[3].Err != nil {
		t.Errorf("Good inputs failed: %v, %v", results[0].Err, results[3].Err)
	}
	if !errors.Is(results[1].Err, shape.ErrEmptyContour) {
		t.Errorf("Expected ErrEmptyContour for blank input, got %v", results[1].Err)
	}
	if results[2].Err == nil {
		t.Error("Missing input should fail")
	}
	if results[3].Result.Descriptor().WidthRatio >= 1 {
		t.Errorf("Expected a tall shape, got ratio %f", results[3].Result.Descriptor().WidthRatio)
	}
}

func TestProcessBatchCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	results := New().ProcessBatch(ctx, []string{"a.png", "b.png"}, t.TempDir(), 1)
	for _, r := range results {
		if !errors.Is(r.Err, context.Canceled) {
			t.Errorf("Expected context.Canceled, got %v", r.Err)
		}
	}
}

func TestGetVersion(t *testing.T) {
	if GetVersion() != Version {
		t.Errorf("Expected version %s, got %s", Version, GetVersion())
	}
}

func BenchmarkTrace(b *testing.B) {
	tracer := New()
	img := createTestImage(640, 480)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		tracer.Trace(img)
	}
}
