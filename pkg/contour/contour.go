// Package contour extracts the outline of the dominant shape in a raster
// image as a pixel-space polygon.
package contour

import (
	"fmt"
	"image"
	"strings"

	"github.com/menta2k/shape-tracer/pkg/shape"
)

// Method selects how the outline is traced.
type Method string

const (
	// MethodMoore traces the outer boundary of the largest connected region.
	MethodMoore Method = "moore"
	// MethodRadial keeps the outermost foreground pixel per angular sector
	// around the foreground centroid.
	MethodRadial Method = "radial"
)

// ParseMethod parses a method name.
func ParseMethod(s string) (Method, error) {
	switch m := Method(strings.ToLower(strings.TrimSpace(s))); m {
	case MethodMoore, MethodRadial:
		return m, nil
	case "":
		return MethodMoore, nil
	default:
		return "", fmt.Errorf("unknown contour method %q (use moore or radial)", s)
	}
}

// Config holds configuration for contour extraction
type Config struct {
	// Threshold splits foreground from background on the 0-255 gray scale.
	Threshold uint8
	// SmoothingSigma is the Gaussian blur applied before thresholding, 0 disables it.
	SmoothingSigma float64
	// LightForeground treats pixels brighter than Threshold as the shape.
	LightForeground bool
	Method          Method
	AngularSteps    int
	// MaxSize downscales images whose longer side exceeds it, 0 disables it.
	MaxSize int
}

// DefaultConfig returns the default extraction settings: dark shape on a
// light background, threshold 200, blur matching a 3x3 Gaussian kernel.
func DefaultConfig() Config {
	return Config{
		Threshold:      200,
		SmoothingSigma: 0.8,
		Method:         MethodMoore,
		AngularSteps:   720,
	}
}

// Contour is the traced outline together with diagnostics.
type Contour struct {
	Points shape.Polygon
	// Area is the shoelace area of Points in mask pixels.
	Area float64
	// Pixels is the number of foreground pixels the outline encloses.
	Pixels      int
	Components  int
	ImageWidth  int
	ImageHeight int
	MaskWidth   int
	MaskHeight  int
}

// Extractor turns images into contours
type Extractor struct {
	config Config
}

// New creates an Extractor with default configuration
func New() *Extractor {
	return &Extractor{config: DefaultConfig()}
}

// NewWithConfig creates an Extractor with custom configuration
func NewWithConfig(config Config) *Extractor {
	if config.Method == "" {
		config.Method = MethodMoore
	}
	if config.AngularSteps <= 0 {
		config.AngularSteps = DefaultConfig().AngularSteps
	}
	return &Extractor{config: config}
}

// Config returns the extractor configuration.
func (e *Extractor) Config() Config {
	return e.config
}

// Extract finds the outline of the dominant shape in img. A blank mask
// yields shape.ErrEmptyContour.
func (e *Extractor) Extract(img image.Image) (*Contour, error) {
	b := img.Bounds()
	if b.Empty() {
		return nil, fmt.Errorf("%w: empty image", shape.ErrEmptyContour)
	}
	c, err := e.ExtractMask(e.Binarize(img))
	if err != nil {
		return nil, err
	}
	c.ImageWidth, c.ImageHeight = b.Dx(), b.Dy()
	return c, nil
}

// ExtractMask traces an already binarized mask.
func (e *Extractor) ExtractMask(m *Mask) (*Contour, error) {
	switch e.config.Method {
	case MethodRadial:
		return e.extractRadial(m)
	case MethodMoore, "":
		return e.extractMoore(m)
	default:
		return nil, fmt.Errorf("unknown contour method %q", e.config.Method)
	}
}

func (e *Extractor) extractMoore(m *Mask) (*Contour, error) {
	labels, comps := labelComponents(m)
	if len(comps) == 0 {
		return nil, shape.ErrEmptyContour
	}

	var best *Contour
	for _, comp := range comps {
		pts := traceMoore(labels, m.Width, m.Height, comp)
		area := pts.Area()
		if best == nil || area > best.Area || (area == best.Area && comp.pixels > best.Pixels) {
			best = &Contour{Points: pts, Area: area, Pixels: comp.pixels}
		}
	}
	best.Components = len(comps)
	best.ImageWidth, best.ImageHeight = m.Width, m.Height
	best.MaskWidth, best.MaskHeight = m.Width, m.Height
	return best, nil
}

func (e *Extractor) extractRadial(m *Mask) (*Contour, error) {
	n := m.Count()
	if n == 0 {
		return nil, shape.ErrEmptyContour
	}
	pts := traceRadial(m, e.config.AngularSteps)
	return &Contour{
		Points:      pts,
		Area:        pts.Area(),
		Pixels:      n,
		Components:  1,
		ImageWidth:  m.Width,
		ImageHeight: m.Height,
		MaskWidth:   m.Width,
		MaskHeight:  m.Height,
	}, nil
}
