package shape

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
)

const degenerateExtent = 1e-9

// Normalize centers the polygon on its bounding box and scales it so the
// longer side spans exactly 1.0. The vertical axis is flipped from image rows
// (down) to an upward axis. Coordinates are rounded to Precision digits.
//
// The returned width ratio is bounding width over height in the input space.
func Normalize(poly Polygon) (Polygon, float64, error) {
	if len(poly) == 0 {
		return nil, 0, ErrEmptyContour
	}

	b := poly.Bound()
	w := b.Max[0] - b.Min[0]
	h := b.Max[1] - b.Min[1]
	if !(w > degenerateExtent && h > degenerateExtent) {
		return nil, 0, fmt.Errorf("%w: bounding box %gx%g", ErrDegenerateShape, w, h)
	}

	center := b.Center()
	scale := math.Max(w, h)

	out := make(Polygon, len(poly))
	for i, p := range poly {
		out[i] = roundPoint(orb.Point{
			(p[0] - center[0]) / scale,
			-(p[1] - center[1]) / scale,
		})
	}
	return out, w / h, nil
}
