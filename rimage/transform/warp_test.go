package transform

import (
	"context"
	"image"
	"math"
	"math/rand"
	"testing"

	"github.com/golang/geo/r2"
	"github.com/pkg/errors"
	"go.viam.com/test"

	"go.viam.com/pano/rimage"
)

func randomImage(width, height int, seed int64) *rimage.Image {
	r := rand.New(rand.NewSource(seed))
	img := rimage.NewImage(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetXY(x, y, rimage.NewColor(uint8(r.Intn(256)), uint8(r.Intn(256)), uint8(r.Intn(256))))
		}
	}
	return img
}

func TestWarpForward(t *testing.T) {
	src := randomImage(12, 9, 1)

	t.Run("identity", func(t *testing.T) {
		out := WarpForward(IdentityHomography(), src, image.Point{20, 15})
		test.That(t, out.Size(), test.ShouldResemble, image.Point{20, 15})
		test.That(t, out.SubImageEquals(src, image.Point{}), test.ShouldBeTrue)
		test.That(t, out.GetXY(12, 0), test.ShouldResemble, rimage.Color{})
		test.That(t, out.GetXY(19, 14), test.ShouldResemble, rimage.Color{})
	})

	t.Run("translation drops out of bounds", func(t *testing.T) {
		out := WarpForward(TranslationHomography(-3, 2), src, image.Point{12, 9})
		for y := 0; y < 9; y++ {
			for x := 0; x < 12; x++ {
				want := rimage.Color{}
				if sx, sy := x+3, y-2; src.In(sx, sy) {
					want = src.GetXY(sx, sy)
				}
				test.That(t, out.GetXY(x, y), test.ShouldResemble, want)
			}
		}
	})

	t.Run("later pixels win", func(t *testing.T) {
		half := Homography{{0.5, 0, 0}, {0, 0.5, 0}, {0, 0, 1}}
		out := WarpForward(half, src, image.Point{12, 9})
		// 0.5 and 1 both round to 1, 1.5 and 2 to 2
		test.That(t, out.GetXY(1, 1), test.ShouldResemble, src.GetXY(2, 2))
		test.That(t, out.GetXY(2, 1), test.ShouldResemble, src.GetXY(4, 2))
		test.That(t, out.GetXY(0, 0), test.ShouldResemble, src.GetXY(0, 0))
		test.That(t, out.GetXY(7, 0), test.ShouldResemble, rimage.Color{})
	})

	t.Run("bulk matches iterative", func(t *testing.T) {
		big := randomImage(40, 30, 2)
		for _, h := range []Homography{
			IdentityHomography(),
			TranslationHomography(7, -4),
			{{0.5, 0, 0}, {0, 0.5, 0}, {0, 0, 1}},
			{{1.3183, 0.2071, 3.3377}, {-0.1049, 0.9231, 5.1113}, {0.00213, 0.00117, 1}},
			{{0.7071067811865476, -0.4142135623730951, 20.123}, {0.4142135623730951, 0.7071067811865476, -3.0917}, {0, 0, 1}},
			{{1, 0, 0}, {0, 1, 0}, {0.05, 0, 0}},
		} {
			canvas := image.Point{45, 38}
			iterative := WarpForward(h, big, canvas)
			bulk := WarpForwardBulk(h, big, canvas)
			test.That(t, bulk, test.ShouldResemble, iterative)
		}
	})

	t.Run("empty", func(t *testing.T) {
		out := WarpForwardBulk(IdentityHomography(), rimage.NewImage(0, 0), image.Point{3, 3})
		test.That(t, out, test.ShouldResemble, rimage.NewImage(3, 3))
	})
}

func TestComputeCanvasGeometry(t *testing.T) {
	t.Run("identity needs no padding", func(t *testing.T) {
		rows, cols, pad, err := ComputeCanvasGeometry(image.Point{20, 10}, image.Point{20, 10}, IdentityHomography())
		test.That(t, err, test.ShouldBeNil)
		test.That(t, rows, test.ShouldEqual, 10)
		test.That(t, cols, test.ShouldEqual, 20)
		test.That(t, pad, test.ShouldResemble, Padding{})
	})

	t.Run("translation right and down", func(t *testing.T) {
		rows, cols, pad, err := ComputeCanvasGeometry(image.Point{20, 15}, image.Point{20, 15}, TranslationHomography(8, 3))
		test.That(t, err, test.ShouldBeNil)
		test.That(t, pad, test.ShouldResemble, Padding{Down: 3, Right: 8})
		test.That(t, rows, test.ShouldEqual, 18)
		test.That(t, cols, test.ShouldEqual, 28)
	})

	t.Run("translation left and up", func(t *testing.T) {
		// Left and up padding is the ceiling of 1-c for a 1-indexed corner c below 1, not |c|
		// truncated. The corners at x = -4 and y = -1.5 get 5 columns and 3 rows where truncation
		// would give 4 and 1 and leave them off the canvas.
		rows, cols, pad, err := ComputeCanvasGeometry(image.Point{20, 15}, image.Point{20, 15}, TranslationHomography(-5, -2.5))
		test.That(t, err, test.ShouldBeNil)
		test.That(t, pad, test.ShouldResemble, Padding{Up: 3, Left: 5})
		test.That(t, pad.Offset(), test.ShouldResemble, image.Point{5, 3})
		test.That(t, rows, test.ShouldEqual, 18)
		test.That(t, cols, test.ShouldEqual, 25)
	})

	t.Run("canvas contains both images", func(t *testing.T) {
		src, dst := image.Point{30, 20}, image.Point{25, 40}
		for _, h := range []Homography{
			projectiveH,
			TranslationHomography(-100, 50),
			{{0.1, 0, 0}, {0, 0.1, 0}, {0, 0, 1}},
			{{2, 0.3, -7}, {-0.2, 1.5, 4}, {0.001, -0.002, 1}},
		} {
			rows, cols, pad, err := ComputeCanvasGeometry(src, dst, h)
			test.That(t, err, test.ShouldBeNil)
			test.That(t, rows, test.ShouldBeGreaterThanOrEqualTo, dst.Y)
			test.That(t, cols, test.ShouldBeGreaterThanOrEqualTo, dst.X)
			for _, p := range []int{pad.Up, pad.Down, pad.Left, pad.Right} {
				test.That(t, p, test.ShouldBeGreaterThanOrEqualTo, 0)
			}
			for _, c := range []r2.Point{{X: 1, Y: 1}, {X: 30, Y: 1}, {X: 1, Y: 20}, {X: 30, Y: 20}} {
				p := h.Apply(c)
				test.That(t, p.X+float64(pad.Left), test.ShouldBeGreaterThanOrEqualTo, 1-1e-6)
				test.That(t, p.X+float64(pad.Left), test.ShouldBeLessThanOrEqualTo, float64(cols)+1e-6)
				test.That(t, p.Y+float64(pad.Up), test.ShouldBeGreaterThanOrEqualTo, 1-1e-6)
				test.That(t, p.Y+float64(pad.Up), test.ShouldBeLessThanOrEqualTo, float64(rows)+1e-6)
			}
		}
	})

	t.Run("errors", func(t *testing.T) {
		_, _, _, err := ComputeCanvasGeometry(image.Point{10, 10}, image.Point{10, 10}, Homography{{1, 0, 0}, {0, 1, 0}, {1, 0, -1}})
		test.That(t, errors.Is(err, ErrDegenerateHomography), test.ShouldBeTrue)
		_, _, _, err = ComputeCanvasGeometry(image.Point{}, image.Point{10, 10}, IdentityHomography())
		test.That(t, err, test.ShouldNotBeNil)
	})
}

func TestGridCubicInterpolator(t *testing.T) {
	ctx := context.Background()
	interp := NewGridCubicInterpolator()

	known := []r2.Point{}
	values := []float64{}
	for y := 0; y < 5; y++ {
		for x := 0; x < 6; x++ {
			known = append(known, r2.Point{X: float64(x + 10), Y: float64(y + 20)})
			values = append(values, float64(3*x-2*y+7))
		}
	}

	t.Run("exact at grid points", func(t *testing.T) {
		queries := append([]r2.Point{}, known...)
		queries[4] = queries[4].Add(r2.Point{X: 1e-12, Y: -1e-12})
		out, err := interp.Interpolate(ctx, known, values, queries)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, out, test.ShouldResemble, values)
	})

	t.Run("reproduces linear data inside", func(t *testing.T) {
		// the kernel reproduces linear functions away from the clamped border
		out, err := interp.Interpolate(ctx, known, values, []r2.Point{{X: 12.25, Y: 21.5}, {X: 13.7, Y: 22.1}})
		test.That(t, err, test.ShouldBeNil)
		test.That(t, out[0], test.ShouldAlmostEqual, 3*2.25-2*1.5+7)
		test.That(t, out[1], test.ShouldAlmostEqual, 3*3.7-2*2.1+7)
	})

	t.Run("gaps outside", func(t *testing.T) {
		out, err := interp.Interpolate(ctx, known, values, []r2.Point{
			{X: 9.5, Y: 21},
			{X: 15.01, Y: 21},
			{X: 12, Y: 24.5},
			{X: math.NaN(), Y: 21},
			{X: 15, Y: 24},
		})
		test.That(t, err, test.ShouldBeNil)
		for _, v := range out[:4] {
			test.That(t, math.IsNaN(v), test.ShouldBeTrue)
		}
		test.That(t, out[4], test.ShouldEqual, values[len(values)-1])
	})

	t.Run("invalid known points", func(t *testing.T) {
		_, err := interp.Interpolate(ctx, known, values[:3], nil)
		test.That(t, err, test.ShouldNotBeNil)
		_, err = interp.Interpolate(ctx, nil, nil, nil)
		test.That(t, err, test.ShouldNotBeNil)
		shuffled := append([]r2.Point{}, known...)
		shuffled[1], shuffled[2] = shuffled[2], shuffled[1]
		_, err = interp.Interpolate(ctx, shuffled, values, nil)
		test.That(t, err, test.ShouldNotBeNil)
	})
}

func TestWarpBackward(t *testing.T) {
	ctx := context.Background()
	src := randomImage(7, 5, 3)

	t.Run("integer shift round trip", func(t *testing.T) {
		h := AddTranslation(IdentityHomography(), 3, 2)
		canvas := image.Point{12, 9}
		warped, err := WarpBackward(ctx, h, src, canvas, nil)
		var gapErr *InterpolationGapError
		test.That(t, errors.As(err, &gapErr), test.ShouldBeTrue)
		test.That(t, errors.Is(err, ErrInterpolationGap), test.ShouldBeTrue)
		test.That(t, gapErr.Total, test.ShouldEqual, 12*9)
		test.That(t, gapErr.Gaps, test.ShouldEqual, 12*9-7*5)

		for y := 0; y < canvas.Y; y++ {
			for x := 0; x < canvas.X; x++ {
				inside := src.In(x-3, y-2)
				test.That(t, gapErr.IsGap(x, y), test.ShouldEqual, !inside)
				test.That(t, warped.IsGap(x, y), test.ShouldEqual, !inside)
				if !inside {
					continue
				}
				c := src.GetXY(x-3, y-2)
				for ch := 0; ch < rimage.NumChannels; ch++ {
					test.That(t, warped.At(x, y, ch), test.ShouldEqual, float64(c.Channel(ch)))
				}
			}
		}
		test.That(t, warped.Clip().SubImageEquals(src, image.Point{3, 2}), test.ShouldBeTrue)
	})

	t.Run("identity has no gaps", func(t *testing.T) {
		warped, err := WarpBackward(ctx, IdentityHomography().Scale(3), src, src.Size(), NewGridCubicInterpolator())
		test.That(t, err, test.ShouldBeNil)
		test.That(t, warped.Clip(), test.ShouldResemble, src)
	})

	t.Run("interpolator errors propagate", func(t *testing.T) {
		_, err := WarpBackward(ctx, IdentityHomography(), src, src.Size(), failingInterpolator{})
		test.That(t, err, test.ShouldNotBeNil)
		test.That(t, errors.Is(err, errFailingInterpolator), test.ShouldBeTrue)

		_, err = WarpBackward(ctx, IdentityHomography(), src, src.Size(), shortInterpolator{})
		test.That(t, err, test.ShouldNotBeNil)
	})

	t.Run("empty source", func(t *testing.T) {
		_, err := WarpBackward(ctx, IdentityHomography(), rimage.NewImage(0, 0), image.Point{3, 3}, nil)
		test.That(t, err, test.ShouldNotBeNil)
	})
}

var errFailingInterpolator = errors.New("interpolation unavailable")

type failingInterpolator struct{}

func (failingInterpolator) Interpolate(context.Context, []r2.Point, []float64, []r2.Point) ([]float64, error) {
	return nil, errFailingInterpolator
}

type shortInterpolator struct{}

func (shortInterpolator) Interpolate(_ context.Context, _ []r2.Point, _ []float64, queries []r2.Point) ([]float64, error) {
	return make([]float64, len(queries)/2), nil
}
