package transform

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/samber/lo"
)

var (
	// ErrInsufficientCorrespondences is returned when fewer than four correspondences are given
	// to an operation that fits a homography.
	ErrInsufficientCorrespondences = errors.New("at least 4 point correspondences are required")
	// ErrMismatchedCorrespondences is returned when the source and destination point sets differ
	// in length.
	ErrMismatchedCorrespondences = errors.New("source and destination point sets must have the same length")
	// ErrNoConsensus is returned by the robust estimator when no candidate reached the required
	// inlier fraction and no seed homography was supplied to fall back to.
	ErrNoConsensus = errors.New("no homography reached the required inlier fraction")
	// ErrInterpolationGap marks destination pixels for which the interpolator produced no value.
	ErrInterpolationGap = errors.New("interpolation produced no value")
	// ErrDegenerateHomography is returned when a homography sends a finite point to infinity
	// where a finite image is required.
	ErrDegenerateHomography = errors.New("homography maps a point to infinity")
)

// InterpolationGapError reports which pixels of a backward warp could not be interpolated.
// It unwraps to ErrInterpolationGap.
type InterpolationGapError struct {
	Gaps  int
	Total int

	width int
	mask  []bool
}

func newInterpolationGapError(width int, mask []bool) *InterpolationGapError {
	return &InterpolationGapError{Gaps: lo.Count(mask, true), Total: len(mask), width: width, mask: mask}
}

func (e *InterpolationGapError) Error() string {
	return fmt.Sprintf("%v for %d of %d pixels", ErrInterpolationGap, e.Gaps, e.Total)
}

// Unwrap returns ErrInterpolationGap.
func (e *InterpolationGapError) Unwrap() error {
	return ErrInterpolationGap
}

// IsGap returns whether pixel (x, y) of the warp has no value.
func (e *InterpolationGapError) IsGap(x, y int) bool {
	idx := y*e.width + x
	if x < 0 || x >= e.width || idx < 0 || idx >= len(e.mask) {
		return false
	}
	return e.mask[idx]
}
