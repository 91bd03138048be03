// Package shape turns a traced pixel contour into a normalized, evenly
// resampled outline.
//
// The pipeline is simplify -> normalize -> resample. Every stage is a pure
// function over a Polygon, an implicitly closed ring of orb.Points whose
// first point is not repeated at the end.
package shape

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"gonum.org/v1/gonum/floats/scalar"
)

// Precision is the number of fractional digits kept in normalized output.
const Precision = 5

// Polygon is an implicitly closed sequence of points.
type Polygon []orb.Point

// Clone returns a copy of the polygon.
func (p Polygon) Clone() Polygon {
	if p == nil {
		return nil
	}
	return append(Polygon(nil), p...)
}

// Perimeter returns the length of the closed loop, including the segment
// from the last point back to the first.
func (p Polygon) Perimeter() float64 {
	n := len(p)
	if n < 2 {
		return 0
	}
	var total float64
	for i := 0; i < n; i++ {
		total += planar.Distance(p[i], p[(i+1)%n])
	}
	return total
}

// Bound returns the axis-aligned bounding box.
func (p Polygon) Bound() orb.Bound {
	return orb.MultiPoint(p).Bound()
}

// Area returns the absolute shoelace area.
func (p Polygon) Area() float64 {
	n := len(p)
	if n < 3 {
		return 0
	}
	var sum float64
	for i := 0; i < n; i++ {
		a, b := p[i], p[(i+1)%n]
		sum += a[0]*b[1] - b[0]*a[1]
	}
	if sum < 0 {
		sum = -sum
	}
	return sum / 2
}

func round(v float64) float64 {
	v = scalar.RoundEven(v, Precision)
	if v == 0 {
		// fold -0
		return 0
	}
	return v
}

func roundPoint(p orb.Point) orb.Point {
	return orb.Point{round(p[0]), round(p[1])}
}
