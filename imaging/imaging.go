// Package imaging provides raster preprocessing for OCR: grayscale
// conversion, Otsu binarization, and skew correction.
//
// Scanned pages are rarely perfectly level. Even a degree or two of
// rotation measurably hurts recognition accuracy, so the normalizer
// estimates the skew angle from the projection profile of the binarized
// page and rotates the image to compensate before it reaches the OCR
// engine. Deskewing is an optimization, not a correctness requirement:
// any internal failure returns the input unchanged.
package imaging

import (
	"errors"
	"image"
	"math"
)

// ErrEmptyImage is returned by EstimateSkew when the input has no pixels.
var ErrEmptyImage = errors.New("image has no pixels")

// ToGray converts any image to 8-bit grayscale. If the input is already
// an *image.Gray it is returned as-is.
func ToGray(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok {
		return g
	}

	bounds := img.Bounds()
	gray := image.NewGray(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			gray.Set(x, y, img.At(x, y))
		}
	}
	return gray
}

// Histogram computes the 256-bin intensity histogram of a grayscale image.
func Histogram(g *image.Gray) [256]int {
	var hist [256]int
	bounds := g.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		row := g.Pix[(y-bounds.Min.Y)*g.Stride : (y-bounds.Min.Y)*g.Stride+bounds.Dx()]
		for _, v := range row {
			hist[v]++
		}
	}
	return hist
}

// OtsuThreshold computes the global binarization threshold that maximizes
// between-class variance of the intensity histogram.
func OtsuThreshold(g *image.Gray) uint8 {
	hist := Histogram(g)

	total := 0
	for _, c := range hist {
		total += c
	}
	if total == 0 {
		return 0
	}

	var sum float64
	for i, c := range hist {
		sum += float64(i) * float64(c)
	}

	var sumB, wB float64
	var maxVariance float64
	var threshold uint8

	for i := 0; i < 256; i++ {
		wB += float64(hist[i])
		if wB == 0 {
			continue
		}
		wF := float64(total) - wB
		if wF == 0 {
			break
		}
		sumB += float64(i) * float64(hist[i])

		mB := sumB / wB
		mF := (sum - sumB) / wF
		variance := wB * wF * (mB - mF) * (mB - mF)
		if variance > maxVariance {
			maxVariance = variance
			threshold = uint8(i)
		}
	}

	return threshold
}

// Binarize returns a boolean foreground mask for the image. When inverted
// is false, pixels brighter than the threshold are foreground; when true,
// pixels at or below the threshold are foreground (dark text on a light
// background).
func Binarize(g *image.Gray, threshold uint8, inverted bool) [][]bool {
	bounds := g.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	mask := make([][]bool, h)
	for y := 0; y < h; y++ {
		mask[y] = make([]bool, w)
		row := g.Pix[y*g.Stride : y*g.Stride+w]
		for x, v := range row {
			if inverted {
				mask[y][x] = v <= threshold
			} else {
				mask[y][x] = v > threshold
			}
		}
	}
	return mask
}

// maxIntensity returns the brightest pixel value in the image. It is used
// as the fill color for canvas areas exposed by rotation, so new borders
// blend with the page background rather than appearing as dark bands.
func maxIntensity(g *image.Gray) uint8 {
	bounds := g.Bounds()
	var maxVal uint8
	for y := 0; y < bounds.Dy(); y++ {
		row := g.Pix[y*g.Stride : y*g.Stride+bounds.Dx()]
		for _, v := range row {
			if v > maxVal {
				maxVal = v
			}
		}
	}
	return maxVal
}

// projectionVariance computes the standard deviation of the row-wise
// projection profile of the foreground mask, as seen along the given
// angle. A sharply peaked profile (text rows aligned with the projection
// axis) produces high variance.
func projectionVariance(mask [][]bool, angleRad float64) float64 {
	h := len(mask)
	if h == 0 {
		return 0
	}
	w := len(mask[0])

	// Bins span the diagonal so every rotated coordinate lands in range.
	diag := int(math.Ceil(math.Sqrt(float64(w*w+h*h)))) + 1
	bins := make([]float64, diag)

	sin, cos := math.Sincos(angleRad)
	cx, cy := float64(w)/2, float64(h)/2
	offset := float64(diag) / 2

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if !mask[y][x] {
				continue
			}
			// Row index of (x, y) after rotating back by angleRad about the
			// center, so a page skewed by angleRad projects to sharp rows.
			r := (float64(y)-cy)*cos - (float64(x)-cx)*sin + offset
			idx := int(r)
			if idx >= 0 && idx < diag {
				bins[idx]++
			}
		}
	}

	var sum float64
	for _, b := range bins {
		sum += b
	}
	mean := sum / float64(diag)

	var variance float64
	for _, b := range bins {
		d := b - mean
		variance += d * d
	}
	variance /= float64(diag)

	return math.Sqrt(variance)
}
