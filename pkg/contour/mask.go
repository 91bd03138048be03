package contour

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// Mask is a binary foreground mask in row-major order.
type Mask struct {
	Width  int
	Height int
	Pix    []bool
}

// NewMask creates an empty mask.
func NewMask(width, height int) *Mask {
	return &Mask{Width: width, Height: height, Pix: make([]bool, width*height)}
}

// At reports whether (x, y) is foreground. Out of range is background.
func (m *Mask) At(x, y int) bool {
	if x < 0 || y < 0 || x >= m.Width || y >= m.Height {
		return false
	}
	return m.Pix[y*m.Width+x]
}

// Set marks (x, y) as foreground or background.
func (m *Mask) Set(x, y int, v bool) {
	if x < 0 || y < 0 || x >= m.Width || y >= m.Height {
		return
	}
	m.Pix[y*m.Width+x] = v
}

// Count returns the number of foreground pixels.
func (m *Mask) Count() int {
	n := 0
	for _, v := range m.Pix {
		if v {
			n++
		}
	}
	return n
}

// Binarize flattens img onto white, optionally downscales and blurs it, and
// thresholds the grayscale result.
func (e *Extractor) Binarize(img image.Image) *Mask {
	b := img.Bounds()
	flat := imaging.Overlay(imaging.New(b.Dx(), b.Dy(), color.White), img, image.Pt(0, 0), 1.0)

	if limit := e.config.MaxSize; limit > 0 && (b.Dx() > limit || b.Dy() > limit) {
		flat = imaging.Fit(flat, limit, limit, imaging.Lanczos)
	}

	gray := imaging.Grayscale(flat)
	if e.config.SmoothingSigma > 0 {
		gray = imaging.Blur(gray, e.config.SmoothingSigma)
	}

	w, h := gray.Bounds().Dx(), gray.Bounds().Dy()
	mask := NewMask(w, h)
	for y := 0; y < h; y++ {
		row := gray.Pix[y*gray.Stride:]
		for x := 0; x < w; x++ {
			v := row[x*4]
			if e.config.LightForeground {
				mask.Pix[y*w+x] = v > e.config.Threshold
			} else {
				mask.Pix[y*w+x] = v <= e.config.Threshold
			}
		}
	}
	return mask
}
