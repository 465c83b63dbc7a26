package rimage

import (
	"fmt"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
)

// Color is an 8-bit RGB pixel.
type Color struct {
	R, G, B uint8
}

// NewColor returns a Color from its channels.
func NewColor(r, g, b uint8) Color {
	return Color{r, g, b}
}

// NewColorFromColor converts any color.Color, dropping alpha after un-premultiplying.
func NewColorFromColor(c color.Color) Color {
	if rc, ok := c.(Color); ok {
		return rc
	}
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return Color{n.R, n.G, n.B}
}

// Channel returns channel ch, 0 for red, 1 for green and 2 for blue.
func (c Color) Channel(ch int) uint8 {
	switch ch {
	case 0:
		return c.R
	case 1:
		return c.G
	case 2:
		return c.B
	}
	panic(fmt.Errorf("invalid channel %d", ch))
}

// RGB255 returns the channels as bytes.
func (c Color) RGB255() (uint8, uint8, uint8) {
	return c.R, c.G, c.B
}

// NewColorFromColorful converts a colorful.Color, clamping it to the RGB gamut first.
func NewColorFromColorful(c colorful.Color) Color {
	r, g, b := c.Clamped().RGB255()
	return Color{r, g, b}
}

// Colorful returns the color as a colorful.Color.
func (c Color) Colorful() colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}

// Hex returns the #rrggbb representation.
func (c Color) Hex() string {
	return c.Colorful().Hex()
}

// DistanceLab returns the perceptual distance between c and other in CIE L*a*b* space.
func (c Color) DistanceLab(other Color) float64 {
	return c.Colorful().DistanceLab(other.Colorful())
}

func (c Color) String() string {
	return c.Hex()
}

// RGBA implements color.Color. The color is fully opaque.
func (c Color) RGBA() (r, g, b, a uint32) {
	r = uint32(c.R)
	r |= r << 8
	g = uint32(c.G)
	g |= g << 8
	b = uint32(c.B)
	b |= b << 8
	a = 0xffff
	return
}
