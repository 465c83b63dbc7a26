package transform

import (
	"context"
	"math"
	"math/rand"

	"github.com/golang/geo/r2"
	"github.com/montanaflynn/stats"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"go.viam.com/pano/logging"
	"go.viam.com/pano/utils"
)

const (
	// ransacConfidence is the probability that at least one drawn sample is outlier free.
	ransacConfidence = 0.99
	// ransacSampleSize is the minimal number of correspondences that determine a homography.
	ransacSampleSize = minCorrespondences
	// ransacSafetyFactor multiplies the statistical iteration count, which is a lower bound
	// under real noise.
	ransacSafetyFactor = 10
)

// RANSACParams configures EstimateHomographyRobust.
type RANSACParams struct {
	// InlierPercent is the expected fraction of correct correspondences, in (0, 1]. A candidate
	// is only considered once at least this fraction of the set are its inliers.
	InlierPercent float64
	// MaxErr is the reprojection distance in pixels below which a correspondence is an inlier.
	MaxErr float64
	// Normalize fits with Hartley-normalized points.
	Normalize bool
	// Parallel evaluates candidates concurrently. Results are identical to a serial run.
	Parallel bool
}

// Validate checks the parameters.
func (p RANSACParams) Validate() error {
	if math.IsNaN(p.InlierPercent) || p.InlierPercent <= 0 || p.InlierPercent > 1 {
		return errors.Errorf("inlier percent must be in (0, 1], got %v", p.InlierPercent)
	}
	return validateMaxErr(p.MaxErr)
}

func (p RANSACParams) fit(src, dst []r2.Point) (*Homography, error) {
	if p.Normalize {
		return EstimateHomographyNormalized(src, dst)
	}
	return EstimateHomography(src, dst)
}

// RANSACIterations returns how many minimal samples are drawn for the expected inlier fraction
// w: ceil(log(1-p)/log(1-w^n)) + 1 with p = 0.99 and n = 4, times a safety factor of 10.
func RANSACIterations(w float64) (int, error) {
	if math.IsNaN(w) || w <= 0 || w > 1 {
		return 0, errors.Errorf("inlier percent must be in (0, 1], got %v", w)
	}
	// w = 1 gives log(0) = -Inf and a ratio of 0, so a single draw (plus one) suffices.
	k := math.Ceil(math.Log(1-ransacConfidence)/math.Log(1-math.Pow(w, ransacSampleSize))) + 1
	if math.IsInf(k, 0) || k > math.MaxInt32/ransacSafetyFactor {
		return 0, errors.Errorf("inlier percent %v needs too many iterations", w)
	}
	return int(k) * ransacSafetyFactor, nil
}

type ransacCandidate struct {
	h     *Homography
	score FitScore
}

// evaluateSample fits the minimal sample, and when enough of the full set agrees with it, refits
// on all of its inliers and scores the refined homography. It returns nil when the sample is
// rejected.
func evaluateSample(src, dst []r2.Point, sample []int, params RANSACParams) *ransacCandidate {
	sampleSrc, sampleDst := pickPoints(src, dst, sample)
	h, err := params.fit(sampleSrc, sampleDst)
	if err != nil {
		return nil
	}
	score, err := ScoreHomography(*h, src, dst, params.MaxErr)
	if err != nil || score.FitPercent < params.InlierPercent {
		return nil
	}

	inSrc, inDst, err := SelectInliers(*h, src, dst, params.MaxErr)
	if err != nil {
		return nil
	}
	refined, err := params.fit(inSrc, inDst)
	if err != nil {
		return nil
	}
	refinedScore, err := ScoreHomography(*refined, src, dst, params.MaxErr)
	if err != nil {
		return nil
	}
	return &ransacCandidate{h: refined, score: refinedScore}
}

// EstimateHomographyRobust fits a homography mapping src to dst while tolerating outliers.
//
// Minimal samples of 4 correspondences are drawn without replacement from rng, which is the only
// source of randomness, so a seeded generator reproduces the result. Every sample whose fit
// explains at least params.InlierPercent of the set is refit on all of its inliers; the refit
// with the strictly lowest DistMSE wins, ties going to the earliest sample. If no sample
// qualifies, seed is returned unchanged, or ErrNoConsensus when seed is nil.
func EstimateHomographyRobust(
	ctx context.Context,
	src, dst []r2.Point,
	seed *Homography,
	params RANSACParams,
	rng *rand.Rand,
	logger logging.Logger,
) (*Homography, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if err := validateCorrespondences(src, dst, minCorrespondences); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, errors.New("a random source is required")
	}
	k, err := RANSACIterations(params.InlierPercent)
	if err != nil {
		return nil, err
	}

	// samples are drawn up front, in iteration order, so the sequence depends on rng alone and not
	// on how candidates are scheduled.
	samples := make([][]int, k)
	for i := range samples {
		samples[i], err = utils.SampleWithoutReplacement(len(src), ransacSampleSize, rng)
		if err != nil {
			return nil, err
		}
	}

	candidates := make([]*ransacCandidate, k)
	if params.Parallel {
		group, groupCtx := errgroup.WithContext(ctx)
		group.SetLimit(utils.ParallelFactor)
		for i := range samples {
			i := i
			group.Go(func() error {
				if err := groupCtx.Err(); err != nil {
					return err
				}
				candidates[i] = evaluateSample(src, dst, samples[i], params)
				return nil
			})
		}
		if err := group.Wait(); err != nil {
			return nil, err
		}
	} else {
		for i := range samples {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			candidates[i] = evaluateSample(src, dst, samples[i], params)
		}
	}

	best, bestIdx, accepted := foldCandidates(candidates)
	if best == nil {
		logger.Warnw("no homography reached the inlier fraction",
			"iterations", k, "inlier_percent", params.InlierPercent, "max_err", params.MaxErr)
		if seed == nil {
			return nil, ErrNoConsensus
		}
		return seed, nil
	}
	logger.CDebugw(ctx, "robust homography estimated",
		"iterations", k,
		"accepted", accepted,
		"best_iteration", bestIdx,
		"fit_percent", best.score.FitPercent,
		"dist_mse", best.score.DistMSE,
		"median_err", medianInlierError(*best.h, src, dst, params.MaxErr),
	)
	return best.h, nil
}

// medianInlierError returns the median reprojection error of the inliers of h, or NaN when there
// are none.
func medianInlierError(h Homography, src, dst []r2.Point, maxErr float64) float64 {
	inlierErrs := lo.Filter(reprojectionErrors(h, src, dst), func(d float64, _ int) bool {
		return d < maxErr
	})
	median, err := stats.Median(inlierErrs)
	if err != nil {
		return math.NaN()
	}
	return median
}

// foldCandidates picks the candidate with the strictly lowest DistMSE, scanning in iteration
// order. Candidates at NoFitDistMSE never win.
func foldCandidates(candidates []*ransacCandidate) (*ransacCandidate, int, int) {
	var best *ransacCandidate
	bestIdx := -1
	bestMSE := NoFitDistMSE
	accepted := 0
	for i, c := range candidates {
		if c == nil {
			continue
		}
		accepted++
		if c.score.DistMSE < bestMSE {
			best, bestIdx, bestMSE = c, i, c.score.DistMSE
		}
	}
	return best, bestIdx, accepted
}
