package emit

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/paulmach/orb"
)

// SVGOptions controls the preview viewport.
type SVGOptions struct {
	Width       int
	Height      int
	Margin      int
	Background  string
	Stroke      string
	StrokeWidth float64
}

// DefaultSVGOptions returns a 400x400 viewport with a 20px margin.
func DefaultSVGOptions() SVGOptions {
	return SVGOptions{
		Width:       400,
		Height:      400,
		Margin:      20,
		Background:  "#f8f8f8",
		Stroke:      "#333",
		StrokeWidth: 1.5,
	}
}

// ToViewport maps a normalized point into SVG pixel coordinates. Both axes
// share one scale so the aspect ratio survives, and z is flipped back to a
// downward y.
func (o SVGOptions) ToViewport(p orb.Point) (float64, float64) {
	s := math.Min(float64(o.Width-2*o.Margin), float64(o.Height-2*o.Margin))
	return float64(o.Width)/2 + p[0]*s, float64(o.Height)/2 - p[1]*s
}

// PathData returns a closed "M x,y L x,y ... Z" path.
func PathData(points []orb.Point, opts SVGOptions) string {
	var sb strings.Builder
	sb.WriteString("M ")
	for i, p := range points {
		x, y := opts.ToViewport(p)
		if i > 0 {
			sb.WriteString("L ")
		}
		fmt.Fprintf(&sb, "%.1f,%.1f ", x, y)
	}
	sb.WriteString("Z")
	return sb.String()
}

// WriteSVG writes a standalone SVG preview of the outline with a center
// crosshair.
func WriteSVG(w io.Writer, points []orb.Point, opts SVGOptions) error {
	if opts.Width <= 2*opts.Margin || opts.Height <= 2*opts.Margin {
		return fmt.Errorf("svg viewport %dx%d is too small for margin %d", opts.Width, opts.Height, opts.Margin)
	}
	cx, cy := float64(opts.Width)/2, float64(opts.Height)/2
	_, err := fmt.Fprintf(w, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
  <rect width="%d" height="%d" fill="%s"/>
  <path d="%s" fill="none" stroke="%s" stroke-width="%g"/>
  <!-- Center crosshair -->
  <line x1="%g" y1="%d" x2="%g" y2="%d" stroke="#ddd" stroke-width="0.5"/>
  <line x1="%d" y1="%g" x2="%d" y2="%g" stroke="#ddd" stroke-width="0.5"/>
</svg>
`,
		opts.Width, opts.Height, opts.Width, opts.Height,
		opts.Width, opts.Height, opts.Background,
		PathData(points, opts), opts.Stroke, opts.StrokeWidth,
		cx, opts.Margin, cx, opts.Height-opts.Margin,
		opts.Margin, cy, opts.Width-opts.Margin, cy,
	)
	if err != nil {
		return fmt.Errorf("failed to write svg: %w", err)
	}
	return nil
}
