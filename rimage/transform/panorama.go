package transform

import (
	"context"
	"fmt"
	"image"
	"math/rand"

	"github.com/pkg/errors"

	"go.viam.com/pano/logging"
	"go.viam.com/pano/rimage"
	"go.viam.com/pano/utils"
)

// ComposePanorama stitches src onto dst. Matched points map src pixels (corr.Src) to dst pixels
// (corr.Dst).
//
// A forward homography (src to dst) sizes the canvas; a backward homography (dst to src), fit
// independently on the swapped correspondences, is shifted by the padding and used to warp src
// over the whole canvas. dst is then copied verbatim at its padded offset, so it takes precedence
// wherever the two overlap. Canvas pixels that src does not cover stay black. A nil cfg uses
// DefaultPanoramaConfig, a nil interp a GridCubicInterpolator and a nil logger an INFO level
// logger on stdout.
func ComposePanorama(
	ctx context.Context,
	src, dst *rimage.Image,
	corr *Correspondences,
	cfg *PanoramaConfig,
	interp Interpolator,
	logger logging.Logger,
) (*rimage.Image, error) {
	if cfg == nil {
		cfg = DefaultPanoramaConfig()
	}
	if logger == nil {
		logger = logging.NewLogger("panorama")
	}
	if err := cfg.Validate("panorama"); err != nil {
		return nil, err
	}
	if corr == nil {
		return nil, errors.Wrap(ErrInsufficientCorrespondences, "no correspondences given")
	}
	if err := corr.Validate(); err != nil {
		return nil, err
	}
	params := cfg.RANSACParams()

	// each direction gets its own generator so the result does not depend on whether the two
	// estimates run concurrently.
	var forward, backward *Homography
	estimateForward := func(ctx context.Context) error {
		h, err := EstimateHomographyRobust(ctx, corr.Src, corr.Dst, nil, params,
			rand.New(rand.NewSource(cfg.Seed)), logger.Sublogger("forward"))
		if err != nil {
			return errors.Wrap(err, "estimating forward homography")
		}
		forward = h
		return nil
	}
	swapped := corr.Swap()
	estimateBackward := func(ctx context.Context) error {
		h, err := EstimateHomographyRobust(ctx, swapped.Src, swapped.Dst, nil, params,
			rand.New(rand.NewSource(cfg.Seed+1)), logger.Sublogger("backward"))
		if err != nil {
			return errors.Wrap(err, "estimating backward homography")
		}
		backward = h
		return nil
	}
	if cfg.Parallel {
		if _, err := utils.RunInParallel(ctx, []utils.SimpleFunc{estimateForward, estimateBackward}); err != nil {
			return nil, err
		}
	} else {
		if err := estimateForward(ctx); err != nil {
			return nil, err
		}
		if err := estimateBackward(ctx); err != nil {
			return nil, err
		}
	}

	rows, cols, pad, err := ComputeCanvasGeometry(src.Size(), dst.Size(), *forward)
	if err != nil {
		return nil, err
	}
	logger.CDebugw(ctx, "panorama canvas",
		"rows", rows, "cols", cols,
		"pad_up", pad.Up, "pad_down", pad.Down, "pad_left", pad.Left, "pad_right", pad.Right)

	done := utils.SlowLogger(ctx, "still warping source onto canvas", "canvas", fmt.Sprintf("%dx%d", cols, rows), logger)
	defer done()

	shifted := AddTranslation(*backward, pad.Left, pad.Up)
	warped, err := WarpBackward(ctx, shifted, src, image.Point{X: cols, Y: rows}, interp)
	if err != nil {
		var gapErr *InterpolationGapError
		if !errors.As(err, &gapErr) {
			return nil, errors.Wrap(err, "warping source onto canvas")
		}
		logger.CDebugw(ctx, "source does not cover the whole canvas", "gaps", gapErr.Gaps, "total", gapErr.Total)
	}

	out := warped.Clip()
	if meanDist, overlap := overlapDistance(warped, out, dst, pad.Offset()); overlap > 0 {
		logger.CDebugw(ctx, "overlap color difference", "mean_lab_distance", meanDist, "pixels", overlap)
	}
	out.Paste(dst, pad.Offset())
	return out, nil
}

// overlapDistance returns the mean L*a*b* distance between the warped source and dst where both
// cover the canvas, and the number of such pixels.
func overlapDistance(warped *rimage.FloatImage, canvas, dst *rimage.Image, offset image.Point) (float64, int) {
	var sum float64
	count := 0
	for y := 0; y < dst.Height(); y++ {
		for x := 0; x < dst.Width(); x++ {
			cx, cy := x+offset.X, y+offset.Y
			if !canvas.In(cx, cy) || warped.IsGap(cx, cy) {
				continue
			}
			sum += canvas.GetXY(cx, cy).DistanceLab(dst.GetXY(x, y))
			count++
		}
	}
	if count == 0 {
		return 0, 0
	}
	return sum / float64(count), count
}
