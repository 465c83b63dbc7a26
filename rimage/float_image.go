package rimage

import (
	"image"
	"math"

	"go.viam.com/pano/utils"
)

// FloatImage is a dense grid of unclamped RGB samples, as produced by interpolation. A NaN
// sample marks a position where no value could be produced.
type FloatImage struct {
	data          []float64
	width, height int
}

// NewFloatImage returns a zero filled FloatImage.
func NewFloatImage(width, height int) *FloatImage {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &FloatImage{
		data:   make([]float64, width*height*NumChannels),
		width:  width,
		height: height,
	}
}

// Width returns the number of columns.
func (f *FloatImage) Width() int {
	return f.width
}

// Height returns the number of rows.
func (f *FloatImage) Height() int {
	return f.height
}

// Size returns the image size as (width, height).
func (f *FloatImage) Size() image.Point {
	return image.Point{f.width, f.height}
}

func (f *FloatImage) k(x, y, ch int) int {
	return (y*f.width+x)*NumChannels + ch
}

// At returns channel ch of pixel (x, y).
func (f *FloatImage) At(x, y, ch int) float64 {
	return f.data[f.k(x, y, ch)]
}

// Set sets channel ch of pixel (x, y).
func (f *FloatImage) Set(x, y, ch int, v float64) {
	f.data[f.k(x, y, ch)] = v
}

// SetChannel writes one channel of every pixel from values, which holds width*height samples in
// row-major order.
func (f *FloatImage) SetChannel(ch int, values []float64) {
	for idx, v := range values {
		f.data[idx*NumChannels+ch] = v
	}
}

// IsGap returns whether any channel of pixel (x, y) is NaN.
func (f *FloatImage) IsGap(x, y int) bool {
	for ch := 0; ch < NumChannels; ch++ {
		if math.IsNaN(f.At(x, y, ch)) {
			return true
		}
	}
	return false
}

// Clip rounds every sample to the nearest integer and clamps it to [0, 255]. NaN samples
// become 0.
func (f *FloatImage) Clip() *Image {
	out := NewImage(f.width, f.height)
	for y := 0; y < f.height; y++ {
		for x := 0; x < f.width; x++ {
			out.setXY(x, y, Color{
				clampChannel(f.At(x, y, 0)),
				clampChannel(f.At(x, y, 1)),
				clampChannel(f.At(x, y, 2)),
			})
		}
	}
	return out
}

// clampChannel maps a sample to a channel value; NaN becomes black.
func clampChannel(v float64) uint8 {
	if math.IsNaN(v) {
		return 0
	}
	return uint8(math.Round(utils.ClampF(v, 0, 255)))
}
