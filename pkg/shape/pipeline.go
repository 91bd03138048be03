package shape

import (
	"fmt"

	"github.com/paulmach/orb"
)

// Options controls a pipeline run.
type Options struct {
	// ToleranceFactor is the simplification tolerance as a fraction of the
	// contour perimeter.
	ToleranceFactor float64
	// TargetPointCount is the number of points in the output outline.
	TargetPointCount int
	// RotationDegrees is applied after normalization, before resampling.
	RotationDegrees float64
	// SmoothingPasses is the number of kernel passes after resampling.
	SmoothingPasses int
}

// DefaultOptions returns the options used by the command line tool.
func DefaultOptions() Options {
	return Options{
		ToleranceFactor:  0.003,
		TargetPointCount: 120,
	}
}

// Validate checks the options.
func (o Options) Validate() error {
	if !(o.ToleranceFactor >= 0) {
		return fmt.Errorf("tolerance factor must not be negative, got %g", o.ToleranceFactor)
	}
	if o.TargetPointCount < 3 {
		return fmt.Errorf("target point count must be at least 3, got %d", o.TargetPointCount)
	}
	if o.SmoothingPasses < 0 {
		return fmt.Errorf("smoothing passes must not be negative, got %d", o.SmoothingPasses)
	}
	return nil
}

// Descriptor is the final outline handed to the emitters.
type Descriptor struct {
	Points     []orb.Point
	WidthRatio float64
}

// Result holds the intermediate polygons of a run next to its descriptor.
type Result struct {
	Simplified Polygon
	Normalized Polygon
	Descriptor Descriptor
}

// Pipeline runs simplify, normalize and resample with fixed options.
type Pipeline struct {
	opts Options
}

// NewPipeline creates a pipeline with the given options.
func NewPipeline(opts Options) *Pipeline {
	return &Pipeline{opts: opts}
}

// Options returns the pipeline options.
func (p *Pipeline) Options() Options {
	return p.opts
}

// Run converts a raw pixel contour into a descriptor. Errors are
// *StageError values wrapping one of the package sentinels.
func (p *Pipeline) Run(raw Polygon) (*Result, error) {
	if len(raw) == 0 {
		return nil, stageErr("extract", ErrEmptyContour)
	}
	if err := p.opts.Validate(); err != nil {
		return nil, err
	}

	simplified, err := Simplify(raw, p.opts.ToleranceFactor)
	if err != nil {
		return nil, stageErr("simplify", err)
	}

	normalized, ratio, err := Normalize(simplified)
	if err != nil {
		return nil, stageErr("normalize", err)
	}

	loop := normalized
	if p.opts.RotationDegrees != 0 {
		loop = Rotate(loop, p.opts.RotationDegrees)
	}

	points, err := Resample(loop, p.opts.TargetPointCount)
	if err != nil {
		return nil, stageErr("resample", err)
	}
	if p.opts.SmoothingPasses > 0 {
		points = Smooth(points, p.opts.SmoothingPasses)
	}

	return &Result{
		Simplified: simplified,
		Normalized: normalized,
		Descriptor: Descriptor{Points: points, WidthRatio: ratio},
	}, nil
}

// Build runs a pipeline once and returns only the descriptor.
func Build(raw Polygon, opts Options) (Descriptor, error) {
	res, err := NewPipeline(opts).Run(raw)
	if err != nil {
		return Descriptor{}, err
	}
	return res.Descriptor, nil
}
