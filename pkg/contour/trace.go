package contour

import (
	"github.com/paulmach/orb"

	"github.com/menta2k/shape-tracer/pkg/shape"
)

// 8-neighbourhood in clockwise order for y-down images: E, SE, S, SW, W, NW, N, NE.
var (
	ndx = [8]int{1, 1, 0, -1, -1, -1, 0, 1}
	ndy = [8]int{0, 1, 1, 1, 0, -1, -1, -1}
)

type component struct {
	label  int32
	startX int
	startY int
	pixels int
}

// labelComponents assigns 8-connected labels starting at 1. Each component's
// start pixel is its first pixel in raster order, which always lies on the
// outer boundary.
func labelComponents(m *Mask) ([]int32, []component) {
	w, h := m.Width, m.Height
	labels := make([]int32, w*h)
	var comps []component
	var queue []int

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*w + x
			if !m.Pix[i] || labels[i] != 0 {
				continue
			}
			c := component{label: int32(len(comps) + 1), startX: x, startY: y}
			labels[i] = c.label
			queue = append(queue[:0], i)
			for len(queue) > 0 {
				cur := queue[len(queue)-1]
				queue = queue[:len(queue)-1]
				c.pixels++
				cx, cy := cur%w, cur/w
				for k := 0; k < 8; k++ {
					nx, ny := cx+ndx[k], cy+ndy[k]
					if nx < 0 || ny < 0 || nx >= w || ny >= h {
						continue
					}
					j := ny*w + nx
					if m.Pix[j] && labels[j] == 0 {
						labels[j] = c.label
						queue = append(queue, j)
					}
				}
			}
			comps = append(comps, c)
		}
	}
	return labels, comps
}

// traceMoore follows the outer boundary of one labeled component with
// Moore-neighbour tracing. Points are pixel coordinates without a repeated
// closing point.
func traceMoore(labels []int32, w, h int, c component) shape.Polygon {
	isLabel := func(x, y int) bool {
		return x >= 0 && y >= 0 && x < w && y < h && labels[y*w+x] == c.label
	}
	dirIndex := func(dx, dy int) int {
		for i := 0; i < 8; i++ {
			if ndx[i] == dx && ndy[i] == dy {
				return i
			}
		}
		return 0
	}

	sx, sy := c.startX, c.startY
	pts := shape.Polygon{{float64(sx), float64(sy)}}

	// The west neighbour of the raster-first pixel is never part of the component.
	cx, cy := sx, sy
	bx, by := sx-1, sy
	var secondX, secondY int
	maxSteps := 4*w*h + 8

	for steps := 0; steps < maxSteps; steps++ {
		start := dirIndex(bx-cx, by-cy)
		found := -1
		for k := 1; k <= 8; k++ {
			i := (start + k) % 8
			if isLabel(cx+ndx[i], cy+ndy[i]) {
				found = i
				break
			}
		}
		if found < 0 {
			// isolated pixel
			break
		}
		nx, ny := cx+ndx[found], cy+ndy[found]

		if steps == 0 {
			secondX, secondY = nx, ny
		} else if cx == sx && cy == sy && nx == secondX && ny == secondY {
			break
		}

		prev := (found + 7) % 8
		bx, by = cx+ndx[prev], cy+ndy[prev]
		cx, cy = nx, ny
		if cx != sx || cy != sy {
			pts = append(pts, orb.Point{float64(cx), float64(cy)})
		}
	}
	return pts
}
