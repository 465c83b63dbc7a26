package rimage

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
)

// NumChannels is the number of color channels of every Image.
const NumChannels = 3

// Image is a dense grid of 8-bit RGB pixels. Pixel (x, y) is column x, row y.
// Writers must not touch the same pixel concurrently.
type Image struct {
	data          []Color
	width, height int
}

// NewImage returns a black image of the given size.
func NewImage(width, height int) *Image {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Image{
		data:   make([]Color, width*height),
		width:  width,
		height: height,
	}
}

// NewImageFromBounds returns a black image sized to the bounds.
func NewImageFromBounds(bounds image.Rectangle) *Image {
	return NewImage(bounds.Dx(), bounds.Dy())
}

// NewImageFromStdImage copies a standard library image. The result is indexed from (0, 0)
// regardless of where img's bounds start. Alpha is dropped after un-premultiplying.
func NewImageFromStdImage(img image.Image) *Image {
	if ri, ok := img.(*Image); ok {
		return ri.Clone()
	}
	nrgba := imaging.Clone(img)
	out := NewImageFromBounds(nrgba.Bounds())
	for y := 0; y < out.height; y++ {
		row := nrgba.Pix[y*nrgba.Stride:]
		for x := 0; x < out.width; x++ {
			px := row[x*4 : x*4+3]
			out.setXY(x, y, Color{px[0], px[1], px[2]})
		}
	}
	return out
}

// NewImageFromRows builds an image from per-pixel channel triplets indexed [row][col][channel].
func NewImageFromRows(rows [][][NumChannels]uint8) (*Image, error) {
	height := len(rows)
	if height == 0 {
		return NewImage(0, 0), nil
	}
	width := len(rows[0])
	out := NewImage(width, height)
	for y, row := range rows {
		if len(row) != width {
			return nil, errors.Errorf("row %d has %d columns, expected %d", y, len(row), width)
		}
		for x, px := range row {
			out.setXY(x, y, NewColor(px[0], px[1], px[2]))
		}
	}
	return out, nil
}

// ColorModel returns the color model of the image.
func (i *Image) ColorModel() color.Model {
	return color.NRGBAModel
}

// In returns whether (x, y) is a valid pixel of the image.
func (i *Image) In(x, y int) bool {
	return x >= 0 && y >= 0 && x < i.width && y < i.height
}

func (i *Image) k(p image.Point) int {
	return i.kxy(p.X, p.Y)
}

func (i *Image) kxy(x, y int) int {
	return (y * i.width) + x
}

// Bounds returns the image bounds, always anchored at (0, 0).
func (i *Image) Bounds() image.Rectangle {
	return image.Rect(0, 0, i.width, i.height)
}

// Size returns the image size as (width, height).
func (i *Image) Size() image.Point {
	return image.Point{i.width, i.height}
}

// Width returns the number of columns.
func (i *Image) Width() int {
	return i.width
}

// Height returns the number of rows.
func (i *Image) Height() int {
	return i.height
}

// At returns the color at (x, y). Out of bounds pixels are transparent black.
func (i *Image) At(x, y int) color.Color {
	if !i.In(x, y) {
		return color.NRGBA{}
	}
	return i.data[i.kxy(x, y)]
}

// Get returns the color at p.
func (i *Image) Get(p image.Point) Color {
	return i.data[i.k(p)]
}

// GetXY returns the color at (x, y).
func (i *Image) GetXY(x, y int) Color {
	return i.data[i.kxy(x, y)]
}

func (i *Image) setXY(x, y int, c Color) {
	i.data[i.kxy(x, y)] = c
}

// SetXY sets the color at (x, y).
func (i *Image) SetXY(x, y int, c Color) {
	i.setXY(x, y, c)
}

// Set sets the color at p.
func (i *Image) Set(p image.Point, c Color) {
	i.data[i.k(p)] = c
}

// Clone returns a deep copy of the image.
func (i *Image) Clone() *Image {
	out := &Image{
		data:   make([]Color, len(i.data)),
		width:  i.width,
		height: i.height,
	}
	copy(out.data, i.data)
	return out
}

// Paste copies src into the image with src's origin placed at offset. Pixels falling outside the
// image are dropped.
func (i *Image) Paste(src *Image, offset image.Point) {
	for y := 0; y < src.height; y++ {
		ty := y + offset.Y
		if ty < 0 || ty >= i.height {
			continue
		}
		for x := 0; x < src.width; x++ {
			tx := x + offset.X
			if tx < 0 || tx >= i.width {
				continue
			}
			i.setXY(tx, ty, src.GetXY(x, y))
		}
	}
}

// SubImageEquals returns whether the region of the image starting at offset with other's size
// holds exactly other's pixels.
func (i *Image) SubImageEquals(other *Image, offset image.Point) bool {
	if offset.X < 0 || offset.Y < 0 || offset.X+other.width > i.width || offset.Y+other.height > i.height {
		return false
	}
	for y := 0; y < other.height; y++ {
		for x := 0; x < other.width; x++ {
			if i.GetXY(x+offset.X, y+offset.Y) != other.GetXY(x, y) {
				return false
			}
		}
	}
	return true
}
