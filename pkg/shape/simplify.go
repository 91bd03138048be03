package shape

import (
	"fmt"
	"math"
	"sort"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/paulmach/orb/simplify"
)

// Simplify reduces a closed contour with Douglas-Peucker. The tolerance is
// toleranceFactor times the contour perimeter. The result is an ordered
// subsequence of raw with at least 3 points.
//
// A toleranceFactor of 0 keeps every point.
func Simplify(raw Polygon, toleranceFactor float64) (Polygon, error) {
	if len(raw) == 0 {
		return nil, ErrEmptyContour
	}
	if toleranceFactor < 0 || math.IsNaN(toleranceFactor) || math.IsInf(toleranceFactor, 0) {
		return nil, fmt.Errorf("invalid tolerance factor %g", toleranceFactor)
	}
	if len(raw) <= 3 || toleranceFactor == 0 {
		if distinctPoints(raw) < 3 {
			return nil, fmt.Errorf("%w: contour has %d distinct points", ErrInsufficientPoints, distinctPoints(raw))
		}
		return raw.Clone(), nil
	}

	// A closed ring has no natural endpoints, so split it at the first point
	// and at the point farthest from it and simplify both open chains.
	far := farthestFrom(raw, 0)
	if raw[far] == raw[0] {
		return nil, fmt.Errorf("%w: contour collapses to a single point", ErrInsufficientPoints)
	}

	epsilon := toleranceFactor * raw.Perimeter()
	dp := simplify.DouglasPeucker(epsilon)

	head := simplifyChain(dp, orb.LineString(raw[:far+1]).Clone())

	tail := make(orb.LineString, 0, len(raw)-far+1)
	tail = append(tail, raw[far:]...)
	tail = append(tail, raw[0])
	tail = simplifyChain(dp, tail)

	out := make(Polygon, 0, len(head)+len(tail)-2)
	out = append(out, head[:len(head)-1]...)
	out = append(out, tail[:len(tail)-1]...)
	if len(out) >= 3 {
		return out, nil
	}
	return spreadTriangle(raw)
}

// simplifyChain runs Douglas-Peucker on an open chain. The chain is
// modified in place. Both endpoints are always kept.
func simplifyChain(dp *simplify.DouglasPeuckerSimplifier, chain orb.LineString) orb.LineString {
	first, last := chain[0], chain[len(chain)-1]
	out, ok := dp.Simplify(chain).(orb.LineString)
	if !ok || len(out) < 2 {
		return orb.LineString{first, last}
	}
	return out
}

// spreadTriangle keeps the three most separated points of raw, in their
// input order: the farthest pair found by a double sweep, plus the point
// farthest from the chord between them.
func spreadTriangle(raw Polygon) (Polygon, error) {
	a := farthestFrom(raw, 0)
	b := farthestFrom(raw, a)
	if raw[a] == raw[b] {
		return nil, fmt.Errorf("%w: contour collapses to a single point", ErrInsufficientPoints)
	}

	c, best := -1, -1.0
	for i, p := range raw {
		if p == raw[a] || p == raw[b] {
			continue
		}
		d := planar.DistanceFromSegment(raw[a], raw[b], p)
		if d == 0 {
			// collinear: prefer the point farthest from both ends
			d = math.Min(planar.Distance(p, raw[a]), planar.Distance(p, raw[b])) * 1e-9
		}
		if d > best {
			c, best = i, d
		}
	}
	if c < 0 {
		return nil, fmt.Errorf("%w: contour has 2 distinct points", ErrInsufficientPoints)
	}

	idx := []int{a, b, c}
	sort.Ints(idx)
	return Polygon{raw[idx[0]], raw[idx[1]], raw[idx[2]]}, nil
}

func farthestFrom(p Polygon, i int) int {
	far, best := i, 0.0
	for j := range p {
		if d := planar.DistanceSquared(p[i], p[j]); d > best {
			far, best = j, d
		}
	}
	return far
}

func distinctPoints(p Polygon) int {
	seen := make(map[orb.Point]struct{}, len(p))
	for _, pt := range p {
		seen[pt] = struct{}{}
	}
	return len(seen)
}
