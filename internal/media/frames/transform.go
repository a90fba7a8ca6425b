package frames

import (
	"fmt"
	"math"
	"strings"
)

// Transform is one frame preprocessing step applied before OCR. Transforms
// compile to ffmpeg filter-graph stages and are composed in order, so each
// step stays independently testable.
type Transform interface {
	// Filter returns the ffmpeg filter expression for this step.
	Filter() string
	// OutSize maps the input frame dimensions to the output dimensions.
	OutSize(width, height int) (int, int)
}

// Crop restricts frames to a region of interest before recognition.
type Crop struct {
	X, Y          int
	Width, Height int
}

func (c Crop) Filter() string {
	return fmt.Sprintf("crop=%d:%d:%d:%d", c.Width, c.Height, c.X, c.Y)
}

func (c Crop) OutSize(int, int) (int, int) {
	return c.Width, c.Height
}

// Grayscale removes color information, which some OCR models prefer.
type Grayscale struct{}

func (Grayscale) Filter() string {
	return "hue=s=0"
}

func (Grayscale) OutSize(width, height int) (int, int) {
	return width, height
}

// Scale resizes frames by a uniform factor.
type Scale struct {
	Factor float64
}

func (s Scale) Filter() string {
	return fmt.Sprintf("scale=trunc(iw*%g):trunc(ih*%g)", s.Factor, s.Factor)
}

func (s Scale) OutSize(width, height int) (int, int) {
	return int(math.Trunc(float64(width) * s.Factor)), int(math.Trunc(float64(height) * s.Factor))
}

// Binarize thresholds luma to pure black and white, isolating burned-in
// subtitle pixels from the scene behind them.
type Binarize struct {
	Threshold int
}

func (b Binarize) Filter() string {
	return fmt.Sprintf(`hue=s=0,geq=lum='if(gt(lum(X\,Y)\,%d)\,255\,0)'`, b.Threshold)
}

func (b Binarize) OutSize(width, height int) (int, int) {
	return width, height
}

// ChainFilter joins the transforms into a single ffmpeg filter chain.
func ChainFilter(transforms []Transform) string {
	parts := make([]string, 0, len(transforms))
	for _, tr := range transforms {
		parts = append(parts, tr.Filter())
	}
	return strings.Join(parts, ",")
}

// ChainSize maps input dimensions through every transform in order.
func ChainSize(transforms []Transform, width, height int) (int, int) {
	for _, tr := range transforms {
		width, height = tr.OutSize(width, height)
	}
	return width, height
}
