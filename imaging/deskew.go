package imaging

import (
	"image"
	"math"

	"go.uber.org/zap"
	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
)

// DeskewConfig holds the parameters of the skew-angle search.
type DeskewConfig struct {
	// MinAngle and MaxAngle bound the candidate rotation sweep, in degrees.
	MinAngle float64
	MaxAngle float64

	// Step is the angular resolution of the sweep, in degrees.
	Step float64
}

// DefaultDeskewConfig returns the default search parameters: a sweep from
// -10 to +10 degrees in 0.2 degree steps. Document scans are rarely
// rotated more than a few degrees, so a wider sweep only adds cost.
func DefaultDeskewConfig() DeskewConfig {
	return DeskewConfig{
		MinAngle: -10.0,
		MaxAngle: 10.0,
		Step:     0.2,
	}
}

// Normalizer corrects small rotational misalignment in scanned pages.
type Normalizer struct {
	config DeskewConfig
	logger *zap.Logger
}

// NewNormalizer creates a normalizer with default configuration.
func NewNormalizer() *Normalizer {
	return NewNormalizerWithConfig(DefaultDeskewConfig())
}

// NewNormalizerWithConfig creates a normalizer with custom search
// parameters. A non-positive Step would stall the sweep and falls back
// to the default resolution.
func NewNormalizerWithConfig(config DeskewConfig) *Normalizer {
	if config.Step <= 0 {
		config.Step = DefaultDeskewConfig().Step
	}
	return &Normalizer{
		config: config,
		logger: zap.NewNop(),
	}
}

// SetLogger sets the logger used to report non-fatal deskew failures.
func (n *Normalizer) SetLogger(logger *zap.Logger) {
	if logger != nil {
		n.logger = logger
	}
}

// EstimateSkew returns the estimated skew angle of the page, in degrees.
// The page is binarized with Otsu's threshold and candidate angles are
// swept over the configured range; the angle whose projection profile has
// the highest variance wins. Returns ErrEmptyImage for an image with no
// pixels.
func (n *Normalizer) EstimateSkew(g *image.Gray) (float64, error) {
	if g == nil || g.Bounds().Dx() <= 0 || g.Bounds().Dy() <= 0 {
		return 0, ErrEmptyImage
	}

	threshold := OtsuThreshold(g)
	mask := Binarize(g, threshold, false)

	bestAngle := 0.0
	bestScore := -1.0
	for angle := n.config.MinAngle; angle < n.config.MaxAngle; angle += n.config.Step {
		score := projectionVariance(mask, angle*math.Pi/180)
		if score > bestScore {
			bestScore = score
			bestAngle = angle
		}
	}

	return bestAngle, nil
}

// Deskew estimates the skew angle and rotates the page to compensate,
// expanding the canvas so no content is cropped and filling exposed
// border pixels with the page's background intensity.
//
// Deskew never fails: on any internal error the original image is
// returned unchanged and the failure is logged.
func (n *Normalizer) Deskew(g *image.Gray) *image.Gray {
	angle, err := n.EstimateSkew(g)
	if err != nil {
		n.logger.Warn("skew estimation failed, returning original image", zap.Error(err))
		return g
	}

	if math.Abs(angle) < n.config.Step/2 {
		// Already level within the search resolution.
		return g
	}

	rotated := Rotate(g, -angle, maxIntensity(g))
	n.logger.Debug("deskewed page",
		zap.Float64("angle", angle),
		zap.Int("width", rotated.Bounds().Dx()),
		zap.Int("height", rotated.Bounds().Dy()))
	return rotated
}

// Rotate rotates a grayscale image by the given angle in degrees
// (counter-clockwise), expanding the canvas to contain the rotated
// bounds. Exposed pixels are filled with the background value.
func Rotate(g *image.Gray, angleDeg float64, background uint8) *image.Gray {
	bounds := g.Bounds()
	w, h := float64(bounds.Dx()), float64(bounds.Dy())
	if w <= 0 || h <= 0 {
		return g
	}

	rad := angleDeg * math.Pi / 180
	sin, cos := math.Sincos(rad)

	// Rotated bounding box.
	newW := int(math.Ceil(math.Abs(w*cos) + math.Abs(h*sin)))
	newH := int(math.Ceil(math.Abs(w*sin) + math.Abs(h*cos)))

	dst := image.NewGray(image.Rect(0, 0, newW, newH))
	for i := range dst.Pix {
		dst.Pix[i] = background
	}

	// Source-to-destination affine transform: rotate about the source
	// center, then translate to the center of the expanded canvas.
	cx, cy := w/2, h/2
	ncx, ncy := float64(newW)/2, float64(newH)/2
	m := f64.Aff3{
		cos, -sin, ncx - cx*cos + cy*sin,
		sin, cos, ncy - cx*sin - cy*cos,
	}

	draw.BiLinear.Transform(dst, m, g, bounds, draw.Over, nil)
	return dst
}
