package curvefit

import (
	"context"
	"fmt"
)

// FitOptions specifies optional settings for [FitOpt]. Fields that are zero
// or negative take the value from [DefaultFitOptions].
type FitOptions struct {
	// Number of Newton-Raphson reparameterization rounds to run on a window
	// before giving up and splitting it.
	MaxIterations int
	// Maximum number of points following (or preceding) an end point that
	// the end tangents are estimated from.
	EndTangentPoints int
	// Maximum number of points on each side of a split point that the
	// tangent at the split is estimated from.
	MidTangentPoints int
}

var DefaultFitOptions = FitOptions{
	MaxIterations:    4,
	EndTangentPoints: 8,
	MidTangentPoints: 4,
}

func (opts FitOptions) withDefaults() FitOptions {
	if opts.MaxIterations <= 0 {
		opts.MaxIterations = DefaultFitOptions.MaxIterations
	}
	if opts.EndTangentPoints <= 0 {
		opts.EndTangentPoints = DefaultFitOptions.EndTangentPoints
	}
	if opts.MidTangentPoints <= 0 {
		opts.MidTangentPoints = DefaultFitOptions.MidTangentPoints
	}
	return opts
}

// Fit approximates the polyline described by points with a chain of cubic
// Béziers. Every point lies within maxError of the curve it was fit to, as
// measured at the point's parameter on that curve.
//
// The first curve starts at points[0], the last curve ends at the last
// point, and each curve starts where the previous one ended. At each join
// the tangents of the two curves are opposite, making the chain C1
// continuous.
//
// Fewer than two points need no curve; the result is then empty. Fit
// returns an error wrapping [ErrInvalidArgument] if points is nil, if any
// coordinate is infinite or NaN, or if maxError is not greater than
// [Epsilon].
//
// Consecutive duplicate points are tolerated, but noisy input, such as
// pointer samples, is best preprocessed with [RDPReduce] or [Linearize].
//
// The approach is the one described by Philip J. Schneider in "An Algorithm
// for Automatically Fitting Digitized Curves", Graphics Gems, 1990.
func Fit(points []Point, maxError float64) ([]CubicBez, error) {
	return FitOpt(context.Background(), points, maxError, DefaultFitOptions)
}

// FitOpt is like [Fit] but with options. FitOpt checks ctx before fitting
// each window and returns ctx.Err() once it is done.
func FitOpt(ctx context.Context, points []Point, maxError float64, opts FitOptions) ([]CubicBez, error) {
	if !(maxError > Epsilon) {
		return nil, fmt.Errorf("fit: tolerance too small: %g: %w", maxError, ErrInvalidArgument)
	}
	if points == nil {
		return nil, fmt.Errorf("fit: nil points: %w", ErrInvalidArgument)
	}
	if err := checkFinite("fit", points); err != nil {
		return nil, err
	}
	if len(points) < 2 {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s := newFitState(ctx, points, maxError, opts.withDefaults())
	return s.run()
}

// FitPath is like [Fit] but returns the curves as a path, as produced by
// [CurvesToPath].
func FitPath(points []Point, maxError float64) (BezPath, error) {
	curves, err := Fit(points, maxError)
	if err != nil {
		return nil, err
	}
	return CurvesToPath(curves), nil
}
