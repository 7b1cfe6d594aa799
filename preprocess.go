package curvefit

import (
	"fmt"
	"math"
	"slices"
)

// LinearizeOptions specifies optional settings for [Linearize] and
// [Linearizer].
type LinearizeOptions struct {
	// Always append the last input point, even if it is within [Epsilon] of
	// the last emitted point.
	KeepLast bool
	// Emit every point spaced minSpacing apart along a long input segment,
	// not just the first one. When false, a segment longer than minSpacing
	// contributes a single point, and the spacing is kept only on average.
	EmitAll bool
}

// DefaultLinearizeOptions are the options used by most callers.
var DefaultLinearizeOptions = LinearizeOptions{
	KeepLast: false,
	EmitAll:  true,
}

// Linearize resamples the polyline described by points so that consecutive
// output points are minSpacing apart when measured along the polyline. The
// first input point is always kept. The last input point is appended unless
// it coincides with the last emitted point and opts.KeepLast is false.
//
// It returns an error wrapping [ErrInvalidArgument] if points is nil, if any
// coordinate is infinite or NaN, or if minSpacing is not greater than
// [Epsilon].
func Linearize(points []Point, minSpacing float64, opts LinearizeOptions) ([]Point, error) {
	if points == nil {
		return nil, fmt.Errorf("linearize: nil points: %w", ErrInvalidArgument)
	}
	if err := checkFinite("linearize", points); err != nil {
		return nil, err
	}
	l, err := NewLinearizer(minSpacing, opts)
	if err != nil {
		return nil, err
	}
	l.collect = true
	l.dst = make([]Point, 0, len(points))
	for _, p := range points {
		l.Add(p)
	}
	l.Finish()
	if l.err != nil {
		return nil, l.err
	}
	return l.dst, nil
}

// Linearizer incrementally resamples a polyline, such as a stroke that is
// still being drawn. Feeding all points to Add and then calling Finish
// produces the same points as [Linearize].
//
// A Linearizer only resamples; fitting the result is still done in one
// call to [Fit] once all points are known.
type Linearizer struct {
	spacing float64
	opts    LinearizeOptions

	started bool
	prev    Point // previous input point
	last    Point // last emitted point
	cd      float64
	err     error

	// dst holds the emitted points. Unless collect is set, it only holds
	// those of the latest call to Add or Finish.
	dst     []Point
	collect bool
}

// NewLinearizer returns a Linearizer that emits points minSpacing apart.
// It returns an error wrapping [ErrInvalidArgument] if minSpacing is not
// greater than [Epsilon].
func NewLinearizer(minSpacing float64, opts LinearizeOptions) (*Linearizer, error) {
	if !(minSpacing > Epsilon) {
		return nil, fmt.Errorf("linearize: spacing %g not greater than %g: %w", minSpacing, Epsilon, ErrInvalidArgument)
	}
	return &Linearizer{spacing: minSpacing, opts: opts}, nil
}

// Add feeds the next polyline point and returns the points emitted because
// of it. The returned slice is only valid until the next call to Add or
// Finish.
//
// Points with an infinite or NaN coordinate, or too far from the previous
// point for their distance to be representable, are dropped and recorded;
// see [Linearizer.Err].
func (l *Linearizer) Add(p Point) []Point {
	l.reset()
	start := len(l.dst)
	if p.IsNaN() || p.IsInf() {
		if l.err == nil {
			l.err = fmt.Errorf("linearize: point %s: %w", p, ErrInvalidArgument)
		}
		return l.dst[start:]
	}
	if !l.started {
		l.started = true
		l.prev = p
		l.last = p
		l.dst = append(l.dst, p)
		return l.dst[start:]
	}

	p0, p1 := l.prev, p
	md := l.spacing
	td := p0.Distance(p1)
	if math.IsInf(td, 0) {
		if l.err == nil {
			l.err = fmt.Errorf("linearize: distance from %s to %s overflows: %w", p0, p1, ErrInvalidArgument)
		}
		return l.dst[start:]
	}
	l.prev = p
	if l.cd+td <= md {
		l.cd += td
		return l.dst[start:]
	}

	pd := md - l.cd
	l.emit(p0.Lerp(p1, pd/td))
	rd := td - pd
	if l.opts.EmitAll {
		for rd > md {
			rd -= md
			if np := p0.Lerp(p1, (td-rd)/td); !np.NearlyEqual(l.last) {
				l.emit(np)
			}
		}
	} else if rd > md {
		// Skip the crossings in one step, leaving rd in (0, md].
		rd -= (math.Ceil(rd/md) - 1) * md
	}
	l.cd = rd
	return l.dst[start:]
}

// Finish ends the polyline and returns the final point, if one is emitted.
// Finish must be called exactly once, after the last call to Add.
func (l *Linearizer) Finish() []Point {
	l.reset()
	start := len(l.dst)
	if !l.started {
		return nil
	}
	if l.opts.KeepLast || !l.prev.NearlyEqual(l.last) {
		l.emit(l.prev)
	}
	return l.dst[start:]
}

// Err returns an error wrapping [ErrInvalidArgument] if any point passed to
// Add had an infinite or NaN coordinate, and nil otherwise.
func (l *Linearizer) Err() error {
	return l.err
}

func (l *Linearizer) reset() {
	if !l.collect {
		l.dst = l.dst[:0]
	}
}

func (l *Linearizer) emit(p Point) {
	l.dst = append(l.dst, p)
	l.last = p
}

// RemoveDuplicates collapses runs of consecutive points that are
// [Point.NearlyEqual], keeping the first point of each run. The same point
// may still appear more than once if the occurrences aren't adjacent.
//
// If there are no duplicates, points itself is returned. Otherwise a new
// slice is returned and points is not modified.
func RemoveDuplicates(points []Point) []Point {
	if len(points) < 2 {
		return points
	}

	prev := points[0]
	nDup := 0
	for _, cur := range points[1:] {
		if prev.NearlyEqual(cur) {
			nDup++
		} else {
			prev = cur
		}
	}
	if nDup == 0 {
		return points
	}

	dst := make([]Point, 0, len(points)-nDup)
	prev = points[0]
	dst = append(dst, prev)
	for _, cur := range points[1:] {
		if !prev.NearlyEqual(cur) {
			dst = append(dst, cur)
			prev = cur
		}
	}
	return dst
}

// RDPReduce simplifies a polyline using the Ramer–Douglas–Peucker
// algorithm. Points deviating at most tolerance from the chord of the
// sub-polyline they belong to are dropped. Consecutive duplicates are
// removed first. The result is always a new slice.
//
// Low tolerances, around 2 to 4, work well for pointer input in pixels.
//
// It returns an error wrapping [ErrInvalidArgument] if points is nil, if any
// coordinate is infinite or NaN, or if tolerance is negative or NaN.
func RDPReduce(points []Point, tolerance float64) ([]Point, error) {
	if points == nil {
		return nil, fmt.Errorf("rdp: nil points: %w", ErrInvalidArgument)
	}
	if err := checkFinite("rdp", points); err != nil {
		return nil, err
	}
	if !(tolerance >= 0) {
		return nil, fmt.Errorf("rdp: invalid tolerance %g: %w", tolerance, ErrInvalidArgument)
	}
	points = RemoveDuplicates(points)
	if len(points) < 3 {
		return slices.Clone(points), nil
	}

	keep := make([]int, 0, max(len(points)/2, 16))
	keep = append(keep, 0, len(points)-1)

	type window struct{ first, last int }
	stack := []window{{0, len(points) - 1}}
	for len(stack) > 0 {
		w := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		split, dist := farthestFromChord(points, w.first, w.last)
		if split > w.first && dist > tolerance {
			keep = append(keep, split)
			stack = append(stack, window{split, w.last}, window{w.first, split})
		}
	}

	slices.Sort(keep)
	out := make([]Point, len(keep))
	for i, idx := range keep {
		out[i] = points[idx]
	}
	return out, nil
}

func checkFinite(op string, points []Point) error {
	for i, pt := range points {
		if pt.IsNaN() || pt.IsInf() {
			return fmt.Errorf("%s: point %d is %s: %w", op, i, pt, ErrInvalidArgument)
		}
	}
	return nil
}

// farthestFromChord returns the index of the interior point of
// points[first:last+1] farthest from the line through points[first] and
// points[last], and its distance. It returns first if there are no interior
// points.
func farthestFromChord(points []Point, first, last int) (int, float64) {
	a, b := points[first], points[last]
	abDist := a.Distance(b)
	aCrossB := a.X*b.Y - b.X*a.Y

	split := first
	maxDist := math.Inf(-1)
	for i := first + 1; i < last; i++ {
		var d float64
		if abDist <= Epsilon {
			// Closed chord, for example a loop back to the start.
			d = points[i].Distance(a)
		} else {
			d = PerpendicularDistance(a, b, abDist, aCrossB, points[i])
		}
		if d > maxDist {
			maxDist = d
			split = i
		}
	}
	return split, maxDist
}
