package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"
)

const (
	// DefaultBlurThreshold is the Laplacian variance under which a photo counts as blurry.
	DefaultBlurThreshold = 100.0
	// DefaultMaxPixels bounds the decoded size of a photo the detector will score.
	DefaultMaxPixels = 40_000_000
)

// ErrTooLarge is returned for images whose declared size exceeds MaxPixels.
var ErrTooLarge = errors.New("image too large for blur check")

// LaplacianDetector scores sharpness as the variance of a 3x3 Laplacian
// applied to the grayscale image.
type LaplacianDetector struct {
	Threshold float64
	MaxPixels int
}

// NewLaplacianDetector falls back to the package defaults for non-positive values.
func NewLaplacianDetector(threshold float64, maxPixels int) *LaplacianDetector {
	if threshold <= 0 {
		threshold = DefaultBlurThreshold
	}
	if maxPixels <= 0 {
		maxPixels = DefaultMaxPixels
	}
	return &LaplacianDetector{Threshold: threshold, MaxPixels: maxPixels}
}

// IsBlurry decodes data and reports whether its Laplacian variance is below the threshold.
// The header is checked first so oversized images are rejected before any pixel is decoded.
func (d *LaplacianDetector) IsBlurry(data []byte) (bool, float64, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return false, 0, fmt.Errorf("decode image header: %w", err)
	}
	if pixels := int64(cfg.Width) * int64(cfg.Height); pixels > int64(d.MaxPixels) {
		return false, 0, fmt.Errorf("%w: %dx%d", ErrTooLarge, cfg.Width, cfg.Height)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return false, 0, fmt.Errorf("decode image: %w", err)
	}
	variance := LaplacianVariance(img)
	return variance < d.Threshold, variance, nil
}

// LaplacianVariance convolves the 0,1,0/1,-4,1/0,1,0 kernel over the interior
// pixels of img in 8-bit grayscale and returns the variance of the response.
// Images smaller than 3x3 score zero.
func LaplacianVariance(img image.Image) float64 {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w < 3 || h < 3 {
		return 0
	}
	gray := make([]float64, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, bl, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			// ITU-R 601 luma on 16-bit channels, scaled to 0..255.
			gray[y*w+x] = (0.299*float64(r) + 0.587*float64(g) + 0.114*float64(bl)) / 257
		}
	}

	var sum, sumSq float64
	n := 0
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			i := y*w + x
			v := gray[i-w] + gray[i+w] + gray[i-1] + gray[i+1] - 4*gray[i]
			sum += v
			sumSq += v * v
			n++
		}
	}
	mean := sum / float64(n)
	return sumSq/float64(n) - mean*mean
}
