// Package shapetracer converts raster images of closed outlines into
// compact, normalized, evenly spaced polygons for 3D geometry generation.
//
// Basic usage:
//
//	package main
//
//	import (
//		"log"
//
//		shapetracer "github.com/menta2k/shape-tracer"
//	)
//
//	func main() {
//		tracer := shapetracer.New()
//
//		// Trace, normalize and resample the outline, then write
//		// lens_traced.svg, lens_shape.json and lens_generator.js.
//		result, outputs, err := tracer.ProcessImageFile("lens.png", "out")
//		if err != nil {
//			log.Fatal(err)
//		}
//		log.Printf("width ratio %.3f, json at %s", result.Descriptor().WidthRatio, outputs.JSON)
//	}
//
// The package wires together four components:
//
// 1. Contour (pkg/contour): thresholds the image and traces the outline of the largest region
// 2. Shape (pkg/shape): simplifies, normalizes and resamples the outline
// 3. Emit (pkg/emit): renders the result as SVG, JSON and a JavaScript snippet
// 4. Processing (pkg/processing): image loading, saving and debug overlays
//
// The normalized frame is centered on the bounding box of the outline with
// the longer side spanning exactly 1.0. The vertical axis points up and is
// called z in the emitted JSON.
package shapetracer

import (
	"context"
	"fmt"
	"image"
	"os"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/menta2k/shape-tracer/internal/config"
	"github.com/menta2k/shape-tracer/internal/utils"
	"github.com/menta2k/shape-tracer/pkg/contour"
	"github.com/menta2k/shape-tracer/pkg/emit"
	"github.com/menta2k/shape-tracer/pkg/processing"
	"github.com/menta2k/shape-tracer/pkg/shape"
)

// Version of the shape tracer library
const Version = "1.0.0"

// OutputOptions selects which files are written per input
type OutputOptions struct {
	SVG           emit.SVGOptions
	WriteSVG      bool
	WriteJSON     bool
	WriteSnippet  bool
	// GeneratorName names the snippet's function; empty uses the input's base name.
	GeneratorName string
	Debug         bool
	DebugFormat   string
	DebugQuality  int
	DebugLossless bool
}

// DefaultOutputOptions writes SVG, JSON and snippet files and no overlay
func DefaultOutputOptions() OutputOptions {
	return OutputOptions{
		SVG:          emit.DefaultSVGOptions(),
		WriteSVG:     true,
		WriteJSON:    true,
		WriteSnippet: true,
		DebugFormat:  "png",
		DebugQuality: 92,
	}
}

// Tracer provides a high-level interface for tracing shapes from images.
// It holds no mutable state and is safe for concurrent use.
type Tracer struct {
	processor *processing.Processor
	extractor *contour.Extractor
	pipeline  *shape.Pipeline
	output    OutputOptions
}

// New creates a new Tracer with default configuration
func New() *Tracer {
	return NewWithConfig(contour.DefaultConfig(), shape.DefaultOptions(), DefaultOutputOptions())
}

// NewWithConfig creates a new Tracer with custom configuration
func NewWithConfig(contourConfig contour.Config, shapeOptions shape.Options, output OutputOptions) *Tracer {
	return &Tracer{
		processor: processing.NewProcessor(),
		extractor: contour.NewWithConfig(contourConfig),
		pipeline:  shape.NewPipeline(shapeOptions),
		output:    output,
	}
}

// NewFromConfig creates a Tracer from an application configuration
func NewFromConfig(cfg *config.Config) *Tracer {
	return NewWithConfig(cfg.ContourConfig(), cfg.ShapeOptions(), OutputOptions{
		SVG:           cfg.SVGOptions(),
		WriteSVG:      cfg.Output.SVG,
		WriteJSON:     cfg.Output.JSON,
		WriteSnippet:  cfg.Output.Snippet,
		GeneratorName: cfg.Output.GeneratorName,
		Debug:         cfg.Output.Debug,
		DebugFormat:   cfg.Output.DebugFormat,
		DebugQuality:  cfg.Output.DebugQuality,
		DebugLossless: cfg.Output.DebugLossless,
	})
}

// Result contains the traced contour and the shape pipeline output for one image
type Result struct {
	Source  string
	Contour *contour.Contour
	Shape   *shape.Result
}

// Descriptor returns the final normalized outline
func (r *Result) Descriptor() shape.Descriptor {
	return r.Shape.Descriptor
}

// Outputs lists the files written for one input. Empty fields were not written.
type Outputs struct {
	SVG     string
	JSON    string
	Snippet string
	Debug   string
}

// Paths returns the written files in a stable order
func (o Outputs) Paths() []string {
	var paths []string
	for _, p := range []string{o.SVG, o.JSON, o.Snippet, o.Debug} {
		if p != "" {
			paths = append(paths, p)
		}
	}
	return paths
}

// LoadImage loads an image from file
func (t *Tracer) LoadImage(path string) (image.Image, error) {
	return t.processor.LoadImage(path)
}

// Trace extracts the outline of the dominant shape in img and runs it
// through the shape pipeline. Failures are *shape.StageError values.
func (t *Tracer) Trace(img image.Image) (*Result, error) {
	c, err := t.extractor.Extract(img)
	if err != nil {
		return nil, &shape.StageError{Stage: "extract", Err: err}
	}

	res, err := t.pipeline.Run(c.Points)
	if err != nil {
		return nil, err
	}

	return &Result{Contour: c, Shape: res}, nil
}

// TraceFile loads and traces an image file
func (t *Tracer) TraceFile(path string) (*Result, image.Image, error) {
	img, err := t.LoadImage(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load image: %w", err)
	}

	res, err := t.Trace(img)
	if err != nil {
		return nil, nil, err
	}
	res.Source = path
	return res, img, nil
}

// WriteOutputs writes the enabled output files for a result. Files are
// named after inputPath and placed in outputDir, or next to the input when
// outputDir is empty. img is only needed for the debug overlay.
func (t *Tracer) WriteOutputs(res *Result, img image.Image, inputPath, outputDir string) (Outputs, error) {
	var out Outputs
	if outputDir != "" {
		if err := utils.EnsureDir(outputDir); err != nil {
			return out, fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	d := res.Descriptor()

	if t.output.WriteSVG {
		path := utils.GenerateOutputFilename(inputPath, outputDir, "_traced", "svg")
		if err := writeFile(path, func(f *os.File) error { return emit.WriteSVG(f, d.Points, t.output.SVG) }); err != nil {
			return out, err
		}
		out.SVG = path
	}

	if t.output.WriteJSON {
		path := utils.GenerateOutputFilename(inputPath, outputDir, "_shape", "json")
		if err := writeFile(path, func(f *os.File) error { return emit.WriteJSON(f, d) }); err != nil {
			return out, err
		}
		out.JSON = path
	}

	if t.output.WriteSnippet {
		path := utils.GenerateOutputFilename(inputPath, outputDir, "_generator", "js")
		name := t.output.GeneratorName
		if name == "" {
			name = utils.BaseName(inputPath)
		}
		if err := writeFile(path, func(f *os.File) error { return emit.WriteSnippet(f, d, name) }); err != nil {
			return out, err
		}
		out.Snippet = path
	}

	if t.output.Debug && img != nil {
		ext := strings.ToLower(t.output.DebugFormat)
		path := utils.GenerateOutputFilename(inputPath, outputDir, "_debug", ext)
		scale := 1.0
		if res.Contour.MaskWidth > 0 {
			scale = float64(res.Contour.ImageWidth) / float64(res.Contour.MaskWidth)
		}
		overlay := t.processor.CreateDebugOverlay(img, res.Contour.Points, res.Shape.Simplified, scale)
		if err := t.processor.SaveImage(overlay, path, ext, t.output.DebugQuality, t.output.DebugLossless); err != nil {
			return out, fmt.Errorf("failed to save debug overlay: %w", err)
		}
		out.Debug = path
	}

	return out, nil
}

// ProcessImageFile is a convenience function that loads, traces and writes
// all outputs for one image
func (t *Tracer) ProcessImageFile(inputPath, outputDir string) (*Result, Outputs, error) {
	res, img, err := t.TraceFile(inputPath)
	if err != nil {
		return nil, Outputs{}, err
	}

	out, err := t.WriteOutputs(res, img, inputPath, outputDir)
	if err != nil {
		return res, out, err
	}
	return res, out, nil
}

// BatchResult is the outcome of one input in a batch
type BatchResult struct {
	Input   string
	Result  *Result
	Outputs Outputs
	Err     error
}

// ProcessBatch processes inputs with up to workers images in flight. A
// failing input is recorded in its BatchResult and does not stop the others.
// Results are returned in input order.
func (t *Tracer) ProcessBatch(ctx context.Context, inputs []string, outputDir string, workers int) []BatchResult {
	if workers < 1 {
		workers = 1
	}
	results := make([]BatchResult, len(inputs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, in := range inputs {
		i, in := i, in
		g.Go(func() error {
			results[i].Input = in
			if err := ctx.Err(); err != nil {
				results[i].Err = err
				return nil
			}
			res, out, err := t.ProcessImageFile(in, outputDir)
			results[i].Result = res
			results[i].Outputs = out
			results[i].Err = err
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// GetVersion returns the library version
func GetVersion() string {
	return Version
}

func writeFile(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	return nil
}
