package processing

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/chai2010/webp"

	"github.com/menta2k/shape-tracer/pkg/shape"
)

// createTestImage creates a white image with a dark square in the middle
func createTestImage(width, height int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if x > width/4 && x < 3*width/4 && y > height/4 && y < 3*height/4 {
				img.Set(x, y, color.RGBA{0, 0, 0, 255})
			} else {
				img.Set(x, y, color.RGBA{255, 255, 255, 255})
			}
		}
	}
	return img
}

func TestSaveAndLoadImage(t *testing.T) {
	p := NewProcessor()
	dir := t.TempDir()
	img := createTestImage(64, 48)

	for _, format := range []string{"png", "jpg", "webp"} {
		path := filepath.Join(dir, "shape."+format)
		if err := p.SaveImage(img, path, format, 90, true); err != nil {
			t.Fatalf("SaveImage(%s) failed: %v", format, err)
		}
		loaded, err := p.LoadImage(path)
		if err != nil {
			t.Fatalf("LoadImage(%s) failed: %v", format, err)
		}
		if b := loaded.Bounds(); b.Dx() != 64 || b.Dy() != 48 {
			t.Errorf("%s: expected 64x48, got %dx%d", format, b.Dx(), b.Dy())
		}
	}
}

func TestSaveImageUnsupportedFormat(t *testing.T) {
	p := NewProcessor()
	path := filepath.Join(t.TempDir(), "shape.tiff")
	if err := p.SaveImage(createTestImage(8, 8), path, "tiff", 90, false); err == nil {
		t.Error("Unsupported format should fail")
	}
}

func TestLoadImageErrors(t *testing.T) {
	p := NewProcessor()
	if _, err := p.LoadImage(filepath.Join(t.TempDir(), "missing.png")); err == nil {
		t.Error("Missing file should fail")
	}

	path := filepath.Join(t.TempDir(), "garbage.png")
	if err := os.WriteFile(path, []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := p.LoadImage(path); err == nil {
		t.Error("Garbage file should fail")
	}
}

func TestLoadImageFromReader(t *testing.T) {
	p := NewProcessor()
	img := createTestImage(32, 32)

	var pngBuf bytes.Buffer
	if err := png.Encode(&pngBuf, img); err != nil {
		t.Fatal(err)
	}
	if _, err := p.LoadImageFromReader(&pngBuf); err != nil {
		t.Errorf("PNG decode failed: %v", err)
	}

	var webpBuf bytes.Buffer
	if err := webp.Encode(&webpBuf, img, &webp.Options{Lossless: true}); err != nil {
		t.Fatal(err)
	}
	if _, err := p.LoadImageFromReader(&webpBuf); err != nil {
		t.Errorf("WebP decode failed: %v", err)
	}

	if _, err := p.LoadImageFromReader(bytes.NewReader([]byte("nope"))); err == nil {
		t.Error("Garbage data should fail")
	}
}

func TestCreateDebugOverlay(t *testing.T) {
	p := NewProcessor()
	img := createTestImage(100, 100)
	raw := shape.Polygon{{26, 26}, {50, 26}, {74, 26}, {74, 74}, {26, 74}}
	simplified := shape.Polygon{{26, 26}, {74, 26}, {74, 74}, {26, 74}}

	out := p.CreateDebugOverlay(img, raw, simplified, 1)
	if out.Bounds() != img.Bounds() {
		t.Fatalf("Overlay changed bounds: %v", out.Bounds())
	}

	// The right edge of the bounding box is gold away from the vertices.
	if r, g, b, _ := out.At(74, 50).RGBA(); r>>8 != 255 || g>>8 != 204 || b != 0 {
		t.Errorf("Expected gold bounding box at (74,50), got %d,%d,%d", r>>8, g>>8, b>>8)
	}
	// Vertex crosses are drawn last, in red.
	if r, g, b, _ := out.At(74, 74).RGBA(); r>>8 != 255 || g != 0 || b != 0 {
		t.Errorf("Expected red vertex at (74,74), got %d,%d,%d", r>>8, g>>8, b>>8)
	}
	// The source image is untouched.
	if r, _, _, _ := img.At(74, 74).RGBA(); r != 0 {
		t.Error("CreateDebugOverlay modified its input")
	}
}

func TestCreateDebugOverlayScaled(t *testing.T) {
	p := NewProcessor()
	img := createTestImage(200, 200)
	simplified := shape.Polygon{{13, 13}, {37, 13}, {37, 37}, {13, 37}}

	out := p.CreateDebugOverlay(img, nil, simplified, 2)
	if r, g, b, _ := out.At(74, 74).RGBA(); r>>8 != 255 || g != 0 || b != 0 {
		t.Errorf("Expected red vertex at scaled (74,74), got %d,%d,%d", r>>8, g>>8, b>>8)
	}
}
