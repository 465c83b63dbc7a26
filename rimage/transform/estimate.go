package transform

import (
	"github.com/golang/geo/r2"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// EstimateHomography computes the homography mapping src[i] to dst[i] with the direct linear
// transform. Each correspondence contributes one row for x and one for y to a 2Nx9 design
// matrix; the result is the right singular vector of its smallest singular value reshaped
// row-major, with whatever scale the decomposition gives it.
//
// Degenerate inputs (collinear or repeated points) are not detected here and produce an
// unreliable matrix; callers are expected to score the fit.
func EstimateHomography(src, dst []r2.Point) (*Homography, error) {
	if err := validateCorrespondences(src, dst, minCorrespondences); err != nil {
		return nil, err
	}

	m := mat.NewDense(2*len(src), 9, nil)
	for i := range src {
		x, y := src[i].X, src[i].Y
		u, v := dst[i].X, dst[i].Y
		m.SetRow(2*i, []float64{x, y, 1, 0, 0, 0, -x * u, -y * u, -u})
		m.SetRow(2*i+1, []float64{0, 0, 0, x, y, 1, -x * v, -y * v, -v})
	}

	mats := performSVD(m)
	if mats == nil {
		return nil, errors.New("singular value decomposition of the design matrix failed")
	}
	_, nCols := mats.V.Dims()
	h := mat.Col(nil, nCols-1, mats.V)
	return NewHomography(h)
}

// EstimateHomographyNormalized is EstimateHomography run on Hartley-normalized points. The
// normalizing similarities are undone afterwards, so the result maps the original src to dst.
// It is better conditioned when coordinates are large.
func EstimateHomographyNormalized(src, dst []r2.Point) (*Homography, error) {
	if err := validateCorrespondences(src, dst, minCorrespondences); err != nil {
		return nil, err
	}
	normSrc, tSrc := normalizePoints(src)
	normDst, tDst := normalizePoints(dst)

	h, err := EstimateHomography(normSrc, normDst)
	if err != nil {
		return nil, err
	}
	tDstInv, err := tDst.Inverse()
	if err != nil {
		return nil, err
	}
	out := tDstInv.Mul(*h).Mul(tSrc)
	return &out, nil
}
