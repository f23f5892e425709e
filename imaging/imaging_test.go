package imaging

import (
	"image"
	"image/color"
	"math"
	"testing"
)

// solidGray returns a w x h grayscale image filled with one value.
func solidGray(w, h int, value uint8) *image.Gray {
	g := image.NewGray(image.Rect(0, 0, w, h))
	for i := range g.Pix {
		g.Pix[i] = value
	}
	return g
}

// textPage draws dark horizontal bars on a light background, mimicking
// rows of text, optionally rotated by angleDeg.
func textPage(w, h int, angleDeg float64) *image.Gray {
	g := solidGray(w, h, 255)
	for y := 20; y < h-20; y += 12 {
		for yy := y; yy < y+4 && yy < h; yy++ {
			for x := 10; x < w-10; x++ {
				g.SetGray(x, yy, color.Gray{Y: 0})
			}
		}
	}
	if angleDeg != 0 {
		return Rotate(g, angleDeg, 255)
	}
	return g
}

func TestToGray(t *testing.T) {
	rgba := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			rgba.Set(x, y, color.RGBA{R: 100, G: 150, B: 200, A: 255})
		}
	}

	g := ToGray(rgba)
	if g.Bounds() != rgba.Bounds() {
		t.Errorf("bounds = %v, want %v", g.Bounds(), rgba.Bounds())
	}
	// Luminance of (100, 150, 200) should land between the channel extremes.
	v := g.GrayAt(1, 1).Y
	if v < 100 || v > 200 {
		t.Errorf("gray value = %d, want between 100 and 200", v)
	}
}

func TestToGray_AlreadyGray(t *testing.T) {
	g := solidGray(3, 3, 42)
	if got := ToGray(g); got != g {
		t.Error("expected grayscale input to be returned as-is")
	}
}

func TestHistogram(t *testing.T) {
	g := image.NewGray(image.Rect(0, 0, 2, 2))
	g.Pix = []uint8{0, 0, 128, 255}

	hist := Histogram(g)
	if hist[0] != 2 {
		t.Errorf("hist[0] = %d, want 2", hist[0])
	}
	if hist[128] != 1 {
		t.Errorf("hist[128] = %d, want 1", hist[128])
	}
	if hist[255] != 1 {
		t.Errorf("hist[255] = %d, want 1", hist[255])
	}
}

func TestOtsuThreshold_Bimodal(t *testing.T) {
	// Half dark, half light: the threshold must separate the two modes.
	g := image.NewGray(image.Rect(0, 0, 10, 10))
	for i := range g.Pix {
		if i < 50 {
			g.Pix[i] = 30
		} else {
			g.Pix[i] = 220
		}
	}

	threshold := OtsuThreshold(g)
	if threshold < 30 || threshold >= 220 {
		t.Errorf("threshold = %d, want in [30, 220)", threshold)
	}
}

func TestOtsuThreshold_EmptyImage(t *testing.T) {
	g := image.NewGray(image.Rect(0, 0, 0, 0))
	if got := OtsuThreshold(g); got != 0 {
		t.Errorf("threshold = %d, want 0 for empty image", got)
	}
}

func TestBinarize(t *testing.T) {
	g := image.NewGray(image.Rect(0, 0, 2, 1))
	g.Pix = []uint8{10, 200}

	mask := Binarize(g, 100, false)
	if mask[0][0] || !mask[0][1] {
		t.Errorf("mask = %v, want [false true]", mask[0])
	}

	inv := Binarize(g, 100, true)
	if !inv[0][0] || inv[0][1] {
		t.Errorf("inverted mask = %v, want [true false]", inv[0])
	}
}

func TestEstimateSkew_LevelPage(t *testing.T) {
	n := NewNormalizer()

	angle, err := n.EstimateSkew(textPage(200, 150, 0))
	if err != nil {
		t.Fatalf("EstimateSkew: %v", err)
	}
	if math.Abs(angle) > 0.5 {
		t.Errorf("angle = %.2f, want near 0 for a level page", angle)
	}
}

func TestEstimateSkew_RotatedPage(t *testing.T) {
	n := NewNormalizer()

	angle, err := n.EstimateSkew(textPage(300, 200, 3))
	if err != nil {
		t.Fatalf("EstimateSkew: %v", err)
	}
	// The sweep should find an angle close to the applied rotation.
	if math.Abs(angle-3) > 1.0 {
		t.Errorf("angle = %.2f, want near 3", angle)
	}
}

func TestEstimateSkew_EmptyImage(t *testing.T) {
	n := NewNormalizer()

	if _, err := n.EstimateSkew(nil); err != ErrEmptyImage {
		t.Errorf("err = %v, want ErrEmptyImage for nil image", err)
	}

	g := image.NewGray(image.Rect(0, 0, 0, 0))
	if _, err := n.EstimateSkew(g); err != ErrEmptyImage {
		t.Errorf("err = %v, want ErrEmptyImage for zero-size image", err)
	}
}

func TestDeskew_NeverFails(t *testing.T) {
	n := NewNormalizer()

	// Malformed inputs come back unchanged rather than panicking.
	if got := n.Deskew(nil); got != nil {
		t.Error("expected nil image to be returned unchanged")
	}

	empty := image.NewGray(image.Rect(0, 0, 0, 0))
	if got := n.Deskew(empty); got != empty {
		t.Error("expected empty image to be returned unchanged")
	}

	uniform := solidGray(50, 50, 255)
	got := n.Deskew(uniform)
	if got.Bounds().Dx() <= 0 || got.Bounds().Dy() <= 0 {
		t.Error("expected a usable image for uniform input")
	}
}

func TestNewNormalizerWithConfig_ZeroStep(t *testing.T) {
	// A zero or negative step must not stall the angle sweep.
	n := NewNormalizerWithConfig(DeskewConfig{MinAngle: -5, MaxAngle: 5, Step: 0})

	angle, err := n.EstimateSkew(textPage(100, 80, 0))
	if err != nil {
		t.Fatalf("EstimateSkew: %v", err)
	}
	if math.Abs(angle) > 5 {
		t.Errorf("angle = %.2f, want within the configured sweep", angle)
	}
}

func TestDeskew_LevelPageUnchanged(t *testing.T) {
	n := NewNormalizer()

	page := textPage(200, 150, 0)
	got := n.Deskew(page)
	if got != page {
		t.Error("expected a level page to skip rotation")
	}
}

func TestDeskew_CorrectsRotation(t *testing.T) {
	n := NewNormalizer()

	skewed := textPage(300, 200, 4)
	fixed := n.Deskew(skewed)
	if fixed == skewed {
		t.Fatal("expected a rotated page to be corrected")
	}

	// The corrected page should measure as close to level.
	angle, err := n.EstimateSkew(fixed)
	if err != nil {
		t.Fatalf("EstimateSkew after deskew: %v", err)
	}
	if math.Abs(angle) > 1.0 {
		t.Errorf("residual angle = %.2f, want near 0", angle)
	}
}

func TestRotate_ExpandsCanvas(t *testing.T) {
	g := solidGray(100, 50, 255)

	rotated := Rotate(g, 45, 255)
	if rotated.Bounds().Dx() <= 100 || rotated.Bounds().Dy() <= 50 {
		t.Errorf("rotated bounds = %v, want larger than 100x50", rotated.Bounds())
	}
}

func TestRotate_FillsBackground(t *testing.T) {
	g := solidGray(40, 40, 0)

	rotated := Rotate(g, 45, 200)
	// Corners of the expanded canvas are outside the rotated source and
	// must carry the background value.
	if v := rotated.GrayAt(0, 0).Y; v != 200 {
		t.Errorf("corner pixel = %d, want background 200", v)
	}
}
