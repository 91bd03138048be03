package shape

import (
	"math"

	"github.com/paulmach/orb"
)

// Rotate turns the points about the origin by the given angle, counter
// clockwise in the upward frame produced by Normalize.
func Rotate(points Polygon, degrees float64) Polygon {
	rad := degrees * math.Pi / 180
	sin, cos := math.Sincos(rad)
	out := make(Polygon, len(points))
	for i, p := range points {
		out[i] = roundPoint(orb.Point{
			p[0]*cos - p[1]*sin,
			p[0]*sin + p[1]*cos,
		})
	}
	return out
}

// Smooth runs a circular [0.25 0.5 0.25] kernel over the points the given
// number of times. The point count is unchanged.
func Smooth(points Polygon, passes int) Polygon {
	cur := points.Clone()
	n := len(cur)
	if n < 3 {
		return cur
	}
	next := make(Polygon, n)
	for ; passes > 0; passes-- {
		for i := range cur {
			prev, p, fwd := cur[(i-1+n)%n], cur[i], cur[(i+1)%n]
			next[i] = orb.Point{
				0.25*prev[0] + 0.5*p[0] + 0.25*fwd[0],
				0.25*prev[1] + 0.5*p[1] + 0.25*fwd[1],
			}
		}
		cur, next = next, cur
	}
	for i := range cur {
		cur[i] = roundPoint(cur[i])
	}
	return cur
}
