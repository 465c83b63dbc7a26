package transform

import (
	"image"
	"math"

	"github.com/golang/geo/r2"
	"github.com/pkg/errors"
)

// padEpsilon absorbs floating point noise so that a corner landing on an exact pixel boundary
// does not add a row or column.
const padEpsilon = 1e-9

// Padding is the number of rows (Up, Down) and columns (Left, Right) added around the destination
// image to form the panorama canvas. All values are non-negative.
type Padding struct {
	Up, Down, Left, Right int
}

// Offset returns where the destination image's origin lies on the canvas.
func (p Padding) Offset() image.Point {
	return image.Point{X: p.Left, Y: p.Up}
}

func r2Point(x, y int) r2.Point {
	return r2.Point{X: float64(x), Y: float64(y)}
}

// ComputeCanvasGeometry returns the size of the smallest canvas that holds both the destination
// image, placed at (pad.Left, pad.Up), and the projection of the source image's four corners under
// the forward homography h. Corners use 1-indexed pixel coordinates: a projected column c < 1 needs
// 1-c columns of left padding and c > dst.X needs c-dst.X columns of right padding, and likewise
// for rows. Fractional excess rounds up.
func ComputeCanvasGeometry(src, dst image.Point, h Homography) (rows, cols int, pad Padding, err error) {
	if src.X <= 0 || src.Y <= 0 || dst.X <= 0 || dst.Y <= 0 {
		return 0, 0, Padding{}, errors.Errorf("images must be non-empty, got source %v and destination %v", src, dst)
	}
	corners := []r2.Point{
		{X: 1, Y: 1},
		{X: float64(src.X), Y: 1},
		{X: 1, Y: float64(src.Y)},
		{X: float64(src.X), Y: float64(src.Y)},
	}

	var up, down, left, right float64
	for _, c := range corners {
		p := h.Apply(c)
		if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsInf(p.X, 0) || math.IsInf(p.Y, 0) {
			return 0, 0, Padding{}, errors.Wrapf(ErrDegenerateHomography, "corner %v", c)
		}
		left = math.Max(left, 1-p.X)
		right = math.Max(right, p.X-float64(dst.X))
		up = math.Max(up, 1-p.Y)
		down = math.Max(down, p.Y-float64(dst.Y))
	}

	pad = Padding{
		Up:    excessToPad(up),
		Down:  excessToPad(down),
		Left:  excessToPad(left),
		Right: excessToPad(right),
	}
	rows = dst.Y + pad.Up + pad.Down
	cols = dst.X + pad.Left + pad.Right
	return rows, cols, pad, nil
}

func excessToPad(excess float64) int {
	if excess <= padEpsilon {
		return 0
	}
	return int(math.Ceil(excess - padEpsilon))
}
