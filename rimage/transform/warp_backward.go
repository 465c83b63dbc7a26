package transform

import (
	"context"
	"image"

	"github.com/golang/geo/r2"
	"github.com/pkg/errors"

	"go.viam.com/pano/rimage"
	"go.viam.com/pano/utils"
)

// WarpBackward fills a canvas of the given size by mapping every canvas pixel through the backward
// homography h into src and interpolating src's colors there, one channel at a time. A nil interp
// uses a GridCubicInterpolator.
//
// Pixels the interpolator could not produce are NaN in the returned image; when there are any, the
// image is returned together with an *InterpolationGapError describing them.
func WarpBackward(
	ctx context.Context,
	h Homography,
	src *rimage.Image,
	canvas image.Point,
	interp Interpolator,
) (*rimage.FloatImage, error) {
	if src.Width() == 0 || src.Height() == 0 {
		return nil, errors.New("cannot warp an empty source image")
	}
	if interp == nil {
		interp = NewGridCubicInterpolator()
	}
	out := rimage.NewFloatImage(canvas.X, canvas.Y)
	if canvas.X <= 0 || canvas.Y <= 0 {
		return out, nil
	}

	queries := make([]r2.Point, canvas.X*canvas.Y)
	utils.ParallelForEachPixel(canvas, func(x, y int) {
		queries[y*canvas.X+x] = h.Apply(r2Point(x, y))
	})

	known := utils.GridPoints(src.Width(), src.Height())
	values := make([]float64, len(known))
	for ch := 0; ch < rimage.NumChannels; ch++ {
		for i := range known {
			values[i] = float64(src.GetXY(i%src.Width(), i/src.Width()).Channel(ch))
		}
		channel, err := interp.Interpolate(ctx, known, values, queries)
		if err != nil {
			return nil, errors.Wrapf(err, "interpolating channel %d", ch)
		}
		if len(channel) != len(queries) {
			return nil, errors.Errorf("interpolator returned %d values for %d queries", len(channel), len(queries))
		}
		out.SetChannel(ch, channel)
	}

	mask := make([]bool, len(queries))
	gaps := false
	for i := range mask {
		if out.IsGap(i%canvas.X, i/canvas.X) {
			mask[i] = true
			gaps = true
		}
	}
	if gaps {
		return out, newInterpolationGapError(canvas.X, mask)
	}
	return out, nil
}
