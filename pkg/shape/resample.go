package shape

import (
	"fmt"
	"sort"

	"github.com/paulmach/orb"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r2"
)

const minSegment = 1e-10

// Resample places targetCount points at equal arc-length spacing around the
// closed loop, starting at the first point. Output coordinates are rounded to
// Precision digits.
func Resample(points Polygon, targetCount int) (Polygon, error) {
	n := len(points)
	if targetCount < 3 {
		return nil, fmt.Errorf("%w: target count %d is below 3", ErrInsufficientPoints, targetCount)
	}
	if n < 2 {
		return nil, fmt.Errorf("%w: cannot resample %d points", ErrInsufficientPoints, n)
	}

	seg := make([]float64, n)
	for i := range points {
		seg[i] = r2.Norm(r2.Sub(vec(points[(i+1)%n]), vec(points[i])))
	}
	// cum[i] is the arc length at points[i]; cum[n] closes the loop.
	cum := make([]float64, n+1)
	floats.CumSum(cum[1:], seg)
	total := cum[n]
	if !(total > minSegment) {
		return nil, fmt.Errorf("%w: zero perimeter", ErrDegenerateShape)
	}

	out := make(Polygon, targetCount)
	for k := range out {
		d := float64(k) * total / float64(targetCount)

		i := sort.Search(n+1, func(j int) bool { return cum[j] > d }) - 1
		if i > n-1 {
			i = n - 1
		}
		if i < 0 {
			i = 0
		}

		var t float64
		if seg[i] >= minSegment {
			t = (d - cum[i]) / seg[i]
		}
		a, b := vec(points[i]), vec(points[(i+1)%n])
		p := r2.Add(a, r2.Scale(t, r2.Sub(b, a)))
		out[k] = roundPoint(orb.Point{p.X, p.Y})
	}
	return out, nil
}

func vec(p orb.Point) r2.Vec {
	return r2.Vec{X: p[0], Y: p[1]}
}
