// Package curvefit approximates sequences of 2D points, such as freehand
// strokes captured from a pointer, with chains of cubic Bézier curves.
//
// # Fitting
//
// [Fit] takes an ordered slice of points and a tolerance and returns a slice
// of [CubicBez] values. The curves are joined end to end, start at the first
// point, end at the last point, and are C1 continuous at each join. Every
// input point lies within the tolerance of the curve it was fit to.
//
// Fitting follows Philip J. Schneider's algorithm from Graphics Gems: points
// are parameterized by arc length, each window of points is approximated by a
// least-squares cubic whose end tangents are fixed, the parameterization is
// refined with a few Newton-Raphson steps, and windows that still exceed the
// tolerance are split at the point of largest error. [FitOpt] exposes the
// tuning knobs of the algorithm and supports cancellation via a
// [context.Context].
//
// Numerical trouble, such as singular least-squares systems or directions
// that cancel out, is handled with fallbacks and never reported as an error.
// Invalid input is reported as an error wrapping [ErrInvalidArgument].
//
// # Preprocessing
//
// Raw input is often noisy and unevenly spaced. [Linearize] resamples a
// polyline at uniform spacing, [RDPReduce] drops points that don't
// contribute to its shape, and [RemoveDuplicates] collapses repeated points.
// [Linearizer] is an incremental version of [Linearize] for strokes that are
// still being drawn.
//
// # Output
//
// [CurvesToPath] converts fitted curves to a [BezPath], which can be written
// as SVG path data with [BezPath.SVG] and [WriteSVG]. [Rect] and [Affine]
// help with mapping curves into a target coordinate space.
//
// # Logging
//
// The package doesn't log by default. Use [SetLogger] to receive debug
// records about window splits and numerical fallbacks.
//
// # Literature
//
//   - [An Algorithm for Automatically Fitting Digitized Curves] by Philip J. Schneider
//   - [A Primer on Bézier Curves]
//   - [Ramer–Douglas–Peucker algorithm]
//
// [An Algorithm for Automatically Fitting Digitized Curves]: https://dl.acm.org/doi/10.5555/90767.90941
// [A Primer on Bézier Curves]: https://pomax.github.io/bezierinfo/
// [Ramer–Douglas–Peucker algorithm]: https://en.wikipedia.org/wiki/Ramer%E2%80%93Douglas%E2%80%93Peucker_algorithm
package curvefit
