package transform

import (
	"image"
	"math"

	"gonum.org/v1/gonum/mat"

	"go.viam.com/pano/rimage"
	"go.viam.com/pano/utils"
)

// WarpForward places every pixel (x, y) of src at round(h·[x, y, 1]) on a black canvas of the
// given size. Targets outside the canvas are dropped. Pixels are visited in row-major order, so
// when two source pixels land on the same cell the later one wins.
func WarpForward(h Homography, src *rimage.Image, canvas image.Point) *rimage.Image {
	out := rimage.NewImage(canvas.X, canvas.Y)
	for y := 0; y < src.Height(); y++ {
		for x := 0; x < src.Width(); x++ {
			p := h.Apply(r2Point(x, y))
			tx, ty, ok := roundTarget(p.X, p.Y)
			if !ok || !out.In(tx, ty) {
				continue
			}
			out.SetXY(tx, ty, src.GetXY(x, y))
		}
	}
	return out
}

// WarpForwardBulk computes the same image as WarpForward by mapping all source coordinates with
// a single matrix product.
func WarpForwardBulk(h Homography, src *rimage.Image, canvas image.Point) *rimage.Image {
	out := rimage.NewImage(canvas.X, canvas.Y)
	grid := utils.HomogeneousGrid(src.Width(), src.Height())
	if grid == nil {
		return out
	}
	var mapped mat.Dense
	mapped.Mul(h.Dense(), grid)

	// columns are in row-major source order, matching WarpForward's write precedence.
	_, n := mapped.Dims()
	for i := 0; i < n; i++ {
		z := mapped.At(2, i)
		tx, ty, ok := roundTarget(mapped.At(0, i)/z, mapped.At(1, i)/z)
		if !ok || !out.In(tx, ty) {
			continue
		}
		out.SetXY(tx, ty, src.GetXY(i%src.Width(), i/src.Width()))
	}
	return out
}

// roundTarget rounds a mapped coordinate to a pixel. It reports false for non-finite input.
func roundTarget(x, y float64) (int, int, bool) {
	x, y = math.Round(x), math.Round(y)
	if math.IsNaN(x) || math.IsNaN(y) || math.Abs(x) > math.MaxInt32 || math.Abs(y) > math.MaxInt32 {
		return 0, 0, false
	}
	return int(x), int(y), true
}
