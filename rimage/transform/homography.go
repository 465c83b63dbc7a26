package transform

import (
	"fmt"
	"math"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Homography is a 3x3 matrix (represented as a 2D array) used to transform a plane from the
// perspective of one 2D camera to the perspective of another. Indices are [row][column]. It is
// defined up to a nonzero scale and is never rescaled implicitly.
type Homography [3][3]float64

// NewHomography creates a Homography from a slice of 9 floats in row-major order.
func NewHomography(vals []float64) (*Homography, error) {
	if len(vals) != 9 {
		return nil, errors.Errorf("input to NewHomography must have length of 9. Has length of %d", len(vals))
	}
	var h Homography
	for i, v := range vals {
		h[i/3][i%3] = v
	}
	return &h, nil
}

// NewHomographyFromDense creates a Homography from a 3x3 matrix.
func NewHomographyFromDense(m mat.Matrix) (*Homography, error) {
	if r, c := m.Dims(); r != 3 || c != 3 {
		return nil, errors.Errorf("homography matrix must be 3x3, got %dx%d", r, c)
	}
	var h Homography
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			h[r][c] = m.At(r, c)
		}
	}
	return &h, nil
}

// IdentityHomography returns the homography that maps every point to itself.
func IdentityHomography() Homography {
	return Homography{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
}

// TranslationHomography returns the homography that shifts points by (tx, ty).
func TranslationHomography(tx, ty float64) Homography {
	return Homography{{1, 0, tx}, {0, 1, ty}, {0, 0, 1}}
}

// At returns the value at row, col.
func (h Homography) At(row, col int) float64 {
	return h[row][col]
}

// ApplyHomogeneous maps the homogeneous point pt without normalizing.
func (h Homography) ApplyHomogeneous(pt r3.Vector) r3.Vector {
	return r3.Vector{
		X: h[0][0]*pt.X + h[0][1]*pt.Y + h[0][2]*pt.Z,
		Y: h[1][0]*pt.X + h[1][1]*pt.Y + h[1][2]*pt.Z,
		Z: h[2][0]*pt.X + h[2][1]*pt.Y + h[2][2]*pt.Z,
	}
}

// Apply maps pt and normalizes by the homogeneous coordinate. A point sent to infinity yields
// non-finite coordinates.
func (h Homography) Apply(pt r2.Point) r2.Point {
	x := h[0][0]*pt.X + h[0][1]*pt.Y + h[0][2]
	y := h[1][0]*pt.X + h[1][1]*pt.Y + h[1][2]
	z := h[2][0]*pt.X + h[2][1]*pt.Y + h[2][2]
	return r2.Point{X: x / z, Y: y / z}
}

// Mul returns the composition h*other, which applies other first.
func (h Homography) Mul(other Homography) Homography {
	var out Homography
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			out[r][c] = h[r][0]*other[0][c] + h[r][1]*other[1][c] + h[r][2]*other[2][c]
		}
	}
	return out
}

// Scale returns h with every entry multiplied by s.
func (h Homography) Scale(s float64) Homography {
	for r := range h {
		for c := range h[r] {
			h[r][c] *= s
		}
	}
	return h
}

// FrobeniusNorm returns the square root of the sum of squared entries.
func (h Homography) FrobeniusNorm() float64 {
	return floats.Norm(h.data(), 2)
}

// Normalized returns h rescaled to unit Frobenius norm. The zero matrix is returned unchanged.
func (h Homography) Normalized() Homography {
	n := h.FrobeniusNorm()
	if n == 0 {
		return h
	}
	return h.Scale(1 / n)
}

// Dense returns h as a gonum matrix.
func (h Homography) Dense() *mat.Dense {
	return mat.NewDense(3, 3, h.data())
}

// Inverse returns the matrix inverse of h.
func (h Homography) Inverse() (Homography, error) {
	var inv mat.Dense
	if err := inv.Inverse(h.Dense()); err != nil {
		return Homography{}, errors.Wrap(err, "homography is not invertible")
	}
	out, err := NewHomographyFromDense(&inv)
	if err != nil {
		return Homography{}, err
	}
	return *out, nil
}

// Equivalent returns whether h and other represent the same projective map, i.e. whether they
// are equal up to a nonzero scale, after normalization to unit norm and a common sign.
func (h Homography) Equivalent(other Homography, tol float64) bool {
	a, b := h.Normalized().data(), other.Normalized().data()
	// pick the sign using the largest entry of a
	idx := floats.MaxIdx(absAll(a))
	if a[idx]*b[idx] < 0 {
		floats.Scale(-1, b)
	}
	return floats.EqualApprox(a, b, tol)
}

func (h Homography) data() []float64 {
	return []float64{
		h[0][0], h[0][1], h[0][2],
		h[1][0], h[1][1], h[1][2],
		h[2][0], h[2][1], h[2][2],
	}
}

func (h Homography) String() string {
	return fmt.Sprintf("[%.6g %.6g %.6g; %.6g %.6g %.6g; %.6g %.6g %.6g]",
		h[0][0], h[0][1], h[0][2], h[1][0], h[1][1], h[1][2], h[2][0], h[2][1], h[2][2])
}

// AddTranslation composes a backward homography with the translation (-padLeft, -padUp) so that
// it accepts canvas coordinates of a canvas padded by padLeft columns and padUp rows, and rescales
// the result to unit Frobenius norm.
func AddTranslation(backward Homography, padLeft, padUp int) Homography {
	return backward.Mul(TranslationHomography(-float64(padLeft), -float64(padUp))).Normalized()
}

func absAll(v []float64) []float64 {
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = math.Abs(x)
	}
	return out
}
