package rimage

import (
	"image"
	"image/color"
	"math"
	"testing"

	"go.viam.com/test"
)

func TestNewImageFromStdImage(t *testing.T) {
	std := image.NewNRGBA(image.Rect(2, 3, 6, 5))
	std.SetNRGBA(2, 3, color.NRGBA{10, 20, 30, 255})
	std.SetNRGBA(5, 4, color.NRGBA{200, 100, 50, 255})

	img := NewImageFromStdImage(std)
	test.That(t, img.Width(), test.ShouldEqual, 4)
	test.That(t, img.Height(), test.ShouldEqual, 2)
	test.That(t, img.GetXY(0, 0), test.ShouldResemble, NewColor(10, 20, 30))
	test.That(t, img.GetXY(3, 1), test.ShouldResemble, NewColor(200, 100, 50))
	test.That(t, img.Bounds(), test.ShouldResemble, image.Rect(0, 0, 4, 2))

	// round trips through the image.Image interface
	again := NewImageFromStdImage(img)
	test.That(t, again, test.ShouldResemble, img)
	again.SetXY(0, 0, NewColor(1, 1, 1))
	test.That(t, img.GetXY(0, 0), test.ShouldResemble, NewColor(10, 20, 30))
}

func TestNewImageFromRows(t *testing.T) {
	img, err := NewImageFromRows([][][NumChannels]uint8{
		{{1, 2, 3}, {4, 5, 6}},
		{{7, 8, 9}, {10, 11, 12}},
	})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, img.GetXY(1, 0), test.ShouldResemble, NewColor(4, 5, 6))
	test.That(t, img.Get(image.Point{0, 1}), test.ShouldResemble, NewColor(7, 8, 9))

	_, err = NewImageFromRows([][][NumChannels]uint8{{{1, 2, 3}}, {}})
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "row 1")
}

func TestPasteAndSubImageEquals(t *testing.T) {
	canvas := NewImage(5, 4)
	patch := NewImage(2, 2)
	patch.SetXY(0, 0, NewColor(255, 0, 0))
	patch.SetXY(1, 1, NewColor(0, 0, 255))

	canvas.Paste(patch, image.Point{3, 2})
	test.That(t, canvas.SubImageEquals(patch, image.Point{3, 2}), test.ShouldBeTrue)
	test.That(t, canvas.SubImageEquals(patch, image.Point{2, 2}), test.ShouldBeFalse)
	test.That(t, canvas.SubImageEquals(patch, image.Point{4, 2}), test.ShouldBeFalse)

	// partially outside
	canvas.Paste(patch, image.Point{-1, -1})
	test.That(t, canvas.GetXY(0, 0), test.ShouldResemble, NewColor(0, 0, 255))
}

func TestColor(t *testing.T) {
	c := NewColor(255, 128, 0)
	test.That(t, c.Hex(), test.ShouldEqual, "#ff8000")
	test.That(t, c.Channel(1), test.ShouldEqual, uint8(128))
	test.That(t, func() { c.Channel(3) }, test.ShouldPanic)

	r, g, b, a := c.RGBA()
	test.That(t, r, test.ShouldEqual, uint32(0xffff))
	test.That(t, g, test.ShouldEqual, uint32(0x8080))
	test.That(t, b, test.ShouldEqual, uint32(0))
	test.That(t, a, test.ShouldEqual, uint32(0xffff))

	test.That(t, NewColorFromColor(color.NRGBA{1, 2, 3, 255}), test.ShouldResemble, NewColor(1, 2, 3))
	test.That(t, NewColorFromColorful(c.Colorful()), test.ShouldResemble, c)
	test.That(t, c.DistanceLab(c), test.ShouldEqual, 0.)
	test.That(t, c.DistanceLab(NewColor(0, 0, 255)), test.ShouldBeGreaterThan, c.DistanceLab(NewColor(250, 130, 0)))
}

func TestNewImageFromGray(t *testing.T) {
	gray := image.NewGray(image.Rect(0, 0, 2, 1))
	gray.SetGray(1, 0, color.Gray{77})
	img := NewImageFromStdImage(gray)
	test.That(t, img.GetXY(0, 0), test.ShouldResemble, NewColor(0, 0, 0))
	test.That(t, img.GetXY(1, 0), test.ShouldResemble, NewColor(77, 77, 77))
}

func TestFloatImageClip(t *testing.T) {
	f := NewFloatImage(3, 1)
	f.SetChannel(0, []float64{-20, 99.6, 400})
	f.SetChannel(1, []float64{math.NaN(), 127.4, 255})
	f.Set(2, 0, 2, 254.5)

	test.That(t, f.IsGap(0, 0), test.ShouldBeTrue)
	test.That(t, f.IsGap(1, 0), test.ShouldBeFalse)

	img := f.Clip()
	test.That(t, img.GetXY(0, 0), test.ShouldResemble, NewColor(0, 0, 0))
	test.That(t, img.GetXY(1, 0), test.ShouldResemble, NewColor(100, 127, 0))
	test.That(t, img.GetXY(2, 0), test.ShouldResemble, NewColor(255, 255, 255))
}
