package transform

import (
	"github.com/golang/geo/r2"
	"github.com/pkg/errors"
)

// minCorrespondences is the number of correspondences needed to determine a homography.
const minCorrespondences = 4

// Correspondences holds matched points: Src[i] in the source image corresponds to Dst[i] in the
// destination image. Points are (column, row) pixel coordinates.
type Correspondences struct {
	Src []r2.Point
	Dst []r2.Point
}

// NewCorrespondences returns a validated correspondence set. The slices are not copied.
func NewCorrespondences(src, dst []r2.Point) (*Correspondences, error) {
	c := &Correspondences{Src: src, Dst: dst}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Len returns the number of correspondences.
func (c *Correspondences) Len() int {
	return len(c.Src)
}

// Validate checks that the set can be used for fitting.
func (c *Correspondences) Validate() error {
	return validateCorrespondences(c.Src, c.Dst, minCorrespondences)
}

// Swap returns the set with source and destination roles exchanged.
func (c *Correspondences) Swap() *Correspondences {
	return &Correspondences{Src: c.Dst, Dst: c.Src}
}

// Subset returns the correspondences at the given indices, in the given order.
func (c *Correspondences) Subset(indices []int) *Correspondences {
	src, dst := pickPoints(c.Src, c.Dst, indices)
	return &Correspondences{Src: src, Dst: dst}
}

func pickPoints(src, dst []r2.Point, indices []int) ([]r2.Point, []r2.Point) {
	subSrc := make([]r2.Point, len(indices))
	subDst := make([]r2.Point, len(indices))
	for i, idx := range indices {
		subSrc[i] = src[idx]
		subDst[i] = dst[idx]
	}
	return subSrc, subDst
}

func validateCorrespondences(src, dst []r2.Point, minLen int) error {
	if len(src) != len(dst) {
		return errors.Wrapf(ErrMismatchedCorrespondences, "got %d source and %d destination points", len(src), len(dst))
	}
	if len(src) < minLen {
		if minLen == minCorrespondences {
			return errors.Wrapf(ErrInsufficientCorrespondences, "got %d", len(src))
		}
		return errors.Errorf("at least %d point correspondences are required, got %d", minLen, len(src))
	}
	return nil
}
