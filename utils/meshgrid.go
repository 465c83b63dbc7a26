package utils

import (
	"github.com/golang/geo/r2"
	"gonum.org/v1/gonum/mat"
)

// HomogeneousGrid returns a 3x(width*height) matrix whose columns are the homogeneous pixel
// coordinates [x, y, 1] of a width x height grid. Columns are ordered row-major: column
// y*width+x holds pixel (x, y).
func HomogeneousGrid(width, height int) *mat.Dense {
	if width <= 0 || height <= 0 {
		return nil
	}
	n := width * height
	data := make([]float64, 3*n)
	xs, ys, ones := data[:n], data[n:2*n], data[2*n:]
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			idx := y*width + x
			xs[idx] = float64(x)
			ys[idx] = float64(y)
			ones[idx] = 1
		}
	}
	return mat.NewDense(3, n, data)
}

// GridPoints returns the pixel coordinates of a width x height grid in row-major order.
func GridPoints(width, height int) []r2.Point {
	if width <= 0 || height <= 0 {
		return nil
	}
	pts := make([]r2.Point, 0, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			pts = append(pts, r2.Point{X: float64(x), Y: float64(y)})
		}
	}
	return pts
}
