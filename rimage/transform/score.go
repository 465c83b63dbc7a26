package transform

import (
	"math"

	"github.com/golang/geo/r2"
	"github.com/pkg/errors"
)

// NoFitDistMSE is the DistMSE reported when a homography has no inliers. It is larger than any
// error a usable fit produces, so such a candidate never wins a comparison.
const NoFitDistMSE = 1e9

// FitScore describes how well a homography explains a correspondence set.
type FitScore struct {
	// FitPercent is the fraction of correspondences that are inliers, in [0, 1].
	FitPercent float64
	// DistMSE is the mean of the squared reprojection distances of the inliers, or NoFitDistMSE
	// when there are none.
	DistMSE float64
	// Inliers is the number of inliers.
	Inliers int
}

// reprojectionErrors returns the Euclidean distance between h(src[i]) and dst[i] for every i.
// Points sent to infinity have an infinite error.
func reprojectionErrors(h Homography, src, dst []r2.Point) []float64 {
	errs := make([]float64, len(src))
	for i := range src {
		d := h.Apply(src[i]).Sub(dst[i]).Norm()
		if math.IsNaN(d) {
			d = math.Inf(1)
		}
		errs[i] = d
	}
	return errs
}

// InlierIndices returns the indices of the correspondences whose reprojection error under h is
// strictly below maxErr, in ascending order.
func InlierIndices(h Homography, src, dst []r2.Point, maxErr float64) ([]int, error) {
	if err := validateCorrespondences(src, dst, 0); err != nil {
		return nil, err
	}
	var inliers []int
	for i, d := range reprojectionErrors(h, src, dst) {
		if d < maxErr {
			inliers = append(inliers, i)
		}
	}
	return inliers, nil
}

// ScoreHomography classifies every correspondence as inlier or outlier under h using the pixel
// threshold maxErr and reports the fit statistics.
func ScoreHomography(h Homography, src, dst []r2.Point, maxErr float64) (FitScore, error) {
	if err := validateCorrespondences(src, dst, 1); err != nil {
		return FitScore{}, err
	}
	errs := reprojectionErrors(h, src, dst)

	var sumSq float64
	inliers := 0
	for _, d := range errs {
		if d < maxErr {
			inliers++
			sumSq += d * d
		}
	}

	score := FitScore{
		FitPercent: float64(inliers) / float64(len(src)),
		DistMSE:    NoFitDistMSE,
		Inliers:    inliers,
	}
	if inliers > 0 {
		score.DistMSE = sumSq / float64(inliers)
	}
	return score, nil
}

// SelectInliers returns the source and destination points that are inliers of h, preserving
// their order, for re-fitting.
func SelectInliers(h Homography, src, dst []r2.Point, maxErr float64) ([]r2.Point, []r2.Point, error) {
	inliers, err := InlierIndices(h, src, dst, maxErr)
	if err != nil {
		return nil, nil, err
	}
	if len(inliers) == 0 {
		return []r2.Point{}, []r2.Point{}, nil
	}
	subSrc, subDst := pickPoints(src, dst, inliers)
	return subSrc, subDst, nil
}

// validateMaxErr checks an inlier threshold.
func validateMaxErr(maxErr float64) error {
	if math.IsNaN(maxErr) || maxErr <= 0 {
		return errors.Errorf("max error must be a positive number of pixels, got %v", maxErr)
	}
	return nil
}
