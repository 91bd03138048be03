// Package processing loads and saves images and renders debug overlays of
// traced outlines.
package processing

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"math"
	"os"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"github.com/paulmach/orb"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"github.com/menta2k/shape-tracer/pkg/shape"
)

// ErrUnknownFormat is returned when no decoder accepts the image data.
var ErrUnknownFormat = errors.New("unknown or unsupported image format")

// Overlay colors.
var (
	contourColor = color.NRGBA{0, 200, 0, 255}
	boundColor   = color.NRGBA{255, 204, 0, 255}
	vertexColor  = color.NRGBA{255, 0, 0, 255}
)

// Processor handles image file operations
type Processor struct{}

// NewProcessor creates a new image processor
func NewProcessor() *Processor {
	return &Processor{}
}

// LoadImage reads and decodes an image file. EXIF orientation is applied for
// formats imaging understands; WebP goes through the libwebp decoder.
func (p *Processor) LoadImage(path string) (image.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image file: %w", err)
	}
	img, err := decode(data, strings.HasSuffix(strings.ToLower(path), ".webp"))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return img, nil
}

// LoadImageFromReader decodes an image from a reader with WebP support
func (p *Processor) LoadImageFromReader(r io.Reader) (image.Image, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}
	return decode(data, false)
}

func decode(data []byte, webpFirst bool) (image.Image, error) {
	if webpFirst {
		if img, err := webp.Decode(bytes.NewReader(data)); err == nil {
			return img, nil
		}
	}
	if img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true)); err == nil {
		return img, nil
	}
	if !webpFirst {
		if img, err := webp.Decode(bytes.NewReader(data)); err == nil {
			return img, nil
		}
	}
	return nil, ErrUnknownFormat
}

// SaveImage writes img as png, jpg or webp. quality applies to jpg and lossy
// webp.
func (p *Processor) SaveImage(img image.Image, path, format string, quality int, lossless bool) error {
	var encode func(io.Writer) error
	switch strings.ToLower(format) {
	case "webp":
		encode = func(w io.Writer) error {
			return webp.Encode(w, img, &webp.Options{Lossless: lossless, Quality: float32(quality)})
		}
	case "png":
		encode = func(w io.Writer) error { return imaging.Encode(w, img, imaging.PNG) }
	case "jpg", "jpeg":
		encode = func(w io.Writer) error { return imaging.Encode(w, img, imaging.JPEG, imaging.JPEGQuality(quality)) }
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := encode(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return f.Close()
}

// CreateDebugOverlay draws the traced contour, the simplified vertices and
// their bounding box over the source image. scale maps contour coordinates
// to image pixels when the contour was traced on a downscaled mask.
func (p *Processor) CreateDebugOverlay(img image.Image, raw, simplified shape.Polygon, scale float64) image.Image {
	canvas := imaging.Clone(img)
	if scale <= 0 {
		scale = 1
	}
	short := float64(min(canvas.Bounds().Dx(), canvas.Bounds().Dy()))
	stroke := int(math.Max(1, 0.003*short))
	arm := int(math.Max(4, 0.01*short))

	if len(simplified) > 0 {
		drawBound(canvas, simplified.Bound(), scale, stroke)
	}
	for _, pt := range raw {
		x, y := toPixel(pt, scale)
		fill(canvas, image.Rect(x, y, x+stroke, y+stroke), contourColor)
	}
	for _, pt := range simplified {
		x, y := toPixel(pt, scale)
		fill(canvas, image.Rect(x-arm, y, x+arm+1, y+1), vertexColor)
		fill(canvas, image.Rect(x, y-arm, x+1, y+arm+1), vertexColor)
	}
	return canvas
}

func toPixel(pt orb.Point, scale float64) (int, int) {
	return int(pt[0]*scale + 0.5), int(pt[1]*scale + 0.5)
}

// drawBound outlines b with stroke-wide edges drawn inside the box.
func drawBound(img *image.NRGBA, b orb.Bound, scale float64, stroke int) {
	x0, y0 := toPixel(b.Min, scale)
	x1, y1 := toPixel(b.Max, scale)
	x1++
	y1++
	fill(img, image.Rect(x0, y0, x1, y0+stroke), boundColor)
	fill(img, image.Rect(x0, y1-stroke, x1, y1), boundColor)
	fill(img, image.Rect(x0, y0, x0+stroke, y1), boundColor)
	fill(img, image.Rect(x1-stroke, y0, x1, y1), boundColor)
}

// fill paints r clipped to the image bounds.
func fill(img *image.NRGBA, r image.Rectangle, c color.NRGBA) {
	draw.Draw(img, r.Intersect(img.Bounds()), &image.Uniform{C: c}, image.Point{}, draw.Src)
}
