package transform

import (
	"context"
	"math"

	"github.com/golang/geo/r2"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"

	"go.viam.com/pano/utils"
)

// Interpolator estimates values at query coordinates from samples at known coordinates. It
// returns one value per query, NaN where it cannot produce one (for example outside the convex
// hull of the known points).
type Interpolator interface {
	Interpolate(ctx context.Context, known []r2.Point, values []float64, queries []r2.Point) ([]float64, error)
}

const (
	// keysA is the free parameter of the Keys cubic convolution kernel.
	keysA = -0.5
	// gridSnapEpsilon is how close a query must be to an integer grid coordinate to be treated as
	// lying exactly on it.
	gridSnapEpsilon = 1e-9
)

// GridCubicInterpolator is an Interpolator for samples on a regular grid with unit spacing, such
// as the pixel centers of an image. It evaluates the Keys cubic convolution kernel over the 4x4
// neighbourhood of each query, replicating border samples. Queries outside the grid's bounding box
// yield NaN. At integer grid coordinates the known value is returned exactly.
type GridCubicInterpolator struct{}

// NewGridCubicInterpolator returns the default interpolator used by WarpBackward.
func NewGridCubicInterpolator() *GridCubicInterpolator {
	return &GridCubicInterpolator{}
}

type unitGrid struct {
	minX, minY    float64
	width, height int
}

// newUnitGrid checks that known lists the points of a width x height unit grid in row-major
// order.
func newUnitGrid(known []r2.Point) (unitGrid, error) {
	if len(known) == 0 {
		return unitGrid{}, errors.New("no known points to interpolate from")
	}
	g := unitGrid{minX: known[0].X, minY: known[0].Y, width: len(known)}
	for i, p := range known {
		if p.Y != g.minY {
			g.width = i
			break
		}
	}
	if len(known)%g.width != 0 {
		return unitGrid{}, errors.Errorf("%d known points do not form rows of %d", len(known), g.width)
	}
	g.height = len(known) / g.width
	for i, p := range known {
		want := r2.Point{X: g.minX + float64(i%g.width), Y: g.minY + float64(i/g.width)}
		if !utils.Float64AlmostEqual(p.X, want.X, gridSnapEpsilon) || !utils.Float64AlmostEqual(p.Y, want.Y, gridSnapEpsilon) {
			return unitGrid{}, errors.Errorf("known point %d is %v, expected %v on a unit grid", i, p, want)
		}
	}
	return g, nil
}

// Interpolate implements Interpolator.
func (gci *GridCubicInterpolator) Interpolate(
	ctx context.Context,
	known []r2.Point,
	values []float64,
	queries []r2.Point,
) ([]float64, error) {
	if len(known) != len(values) {
		return nil, errors.Errorf("got %d known points but %d values", len(known), len(values))
	}
	g, err := newUnitGrid(known)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(queries))
	if err := utils.ParallelForEachIndex(ctx, len(queries), func(i int) {
		out[i] = g.evaluate(values, queries[i])
	}); err != nil {
		return nil, err
	}
	return out, nil
}

// evaluate returns the cubic convolution of values at q, or NaN outside the grid.
func (g unitGrid) evaluate(values []float64, q r2.Point) float64 {
	fx := utils.SnapToInt(q.X-g.minX, gridSnapEpsilon)
	fy := utils.SnapToInt(q.Y-g.minY, gridSnapEpsilon)
	if math.IsNaN(fx) || math.IsNaN(fy) || fx < 0 || fy < 0 || fx > float64(g.width-1) || fy > float64(g.height-1) {
		return math.NaN()
	}
	ix, wx := keysWeights(fx)
	iy, wy := keysWeights(fy)

	var rowSums [4]float64
	var taps [4]float64
	for j := 0; j < 4; j++ {
		row := utils.MinInt(utils.MaxInt(iy+j-1, 0), g.height-1) * g.width
		for k := 0; k < 4; k++ {
			col := utils.MinInt(utils.MaxInt(ix+k-1, 0), g.width-1)
			taps[k] = values[row+col]
		}
		rowSums[j] = floats.Dot(wx[:], taps[:])
	}
	return floats.Dot(wy[:], rowSums[:])
}

// keysWeights returns the integer cell of f and the kernel weights of the samples at cell-1
// through cell+2.
func keysWeights(f float64) (int, [4]float64) {
	cell := math.Floor(f)
	t := f - cell
	return int(cell), [4]float64{
		keysKernel(t + 1),
		keysKernel(t),
		keysKernel(1 - t),
		keysKernel(2 - t),
	}
}

func keysKernel(s float64) float64 {
	s = math.Abs(s)
	switch {
	case s <= 1:
		return (keysA+2)*s*s*s - (keysA+3)*s*s + 1
	case s < 2:
		return keysA*s*s*s - 5*keysA*s*s + 8*keysA*s - 4*keysA
	default:
		return 0
	}
}
