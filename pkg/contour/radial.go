package contour

import (
	"math"

	"github.com/paulmach/orb"

	"github.com/menta2k/shape-tracer/pkg/shape"
)

// traceRadial sweeps the mask around the centroid of all foreground pixels
// and keeps the outermost pixel in each of steps equal angular sectors.
// Empty sectors are skipped.
func traceRadial(m *Mask, steps int) shape.Polygon {
	var sx, sy float64
	n := 0
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			if m.Pix[y*m.Width+x] {
				sx += float64(x)
				sy += float64(y)
				n++
			}
		}
	}
	if n == 0 || steps <= 0 {
		return nil
	}
	cx, cy := sx/float64(n), sy/float64(n)

	best := make([]float64, steps)
	pick := make([]orb.Point, steps)
	for i := range best {
		best[i] = -1
	}

	step := 2 * math.Pi / float64(steps)
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			if !m.Pix[y*m.Width+x] {
				continue
			}
			dx, dy := float64(x)-cx, float64(y)-cy
			angle := math.Atan2(dy, dx)
			if angle < 0 {
				angle += 2 * math.Pi
			}
			s := int(angle / step)
			if s >= steps {
				s = steps - 1
			}
			if d := dx*dx + dy*dy; d > best[s] {
				best[s] = d
				pick[s] = orb.Point{float64(x), float64(y)}
			}
		}
	}

	out := make(shape.Polygon, 0, steps)
	for i, d := range best {
		if d >= 0 {
			out = append(out, pick[i])
		}
	}
	return out
}
