package curvefit

import (
	"context"
	"log/slog"
	"math"
)

// fitState is the working storage of a single call to [FitOpt]. It is never
// shared between calls.
type fitState struct {
	pts    []Point
	arclen []float64 // cumulative distance from pts[0]
	u      []float64 // parameters of the current window, u[0] = 0
	sqErr  float64   // maxError²
	opts   FitOptions
	result []CubicBez

	ctx context.Context
	log *slog.Logger
}

type fitWindow struct {
	first, last int
	tanL, tanR  Vec2
}

func newFitState(ctx context.Context, pts []Point, maxError float64, opts FitOptions) *fitState {
	s := &fitState{
		pts:    pts,
		arclen: make([]float64, len(pts)),
		u:      make([]float64, 0, len(pts)),
		sqErr:  maxError * maxError,
		opts:   opts,
		ctx:    ctx,
		log:    Logger(),
	}
	var clen float64
	for i := 1; i < len(pts); i++ {
		clen += pts[i-1].Distance(pts[i])
		s.arclen[i] = clen
	}
	return s
}

// run fits the whole polyline. Windows that fail to fit are split in two;
// instead of recursing, the halves are pushed onto a stack, right half
// first, so that curves are produced from left to right.
func (s *fitState) run() ([]CubicBez, error) {
	last := len(s.pts) - 1
	stack := []fitWindow{{0, last, s.leftTangent(last), s.rightTangent(0)}}
	for len(stack) > 0 {
		if err := s.ctx.Err(); err != nil {
			return nil, err
		}
		w := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		curve, split, maxSq, ok := s.fitCurve(w.first, w.last, w.tanL, w.tanR)
		if ok {
			s.result = append(s.result, curve)
			continue
		}

		tanM1 := s.centerTangent(w.first, w.last, split)
		tanM2 := tanM1.Negate()

		// Points near the ends of the polyline influenced the end tangents.
		// Recompute them over the narrower window.
		tanL, tanR := w.tanL, w.tanR
		n := len(s.pts)
		if w.first == 0 && split < s.opts.EndTangentPoints {
			tanL = s.leftTangent(split)
		}
		if w.last == n-1 && split > n-(s.opts.EndTangentPoints+1) {
			tanR = s.rightTangent(split)
		}

		if s.log.Enabled(s.ctx, slog.LevelDebug) {
			s.log.DebugContext(s.ctx, "split window",
				"first", w.first, "last", w.last, "split", split, "error", math.Sqrt(maxSq))
		}
		stack = append(stack,
			fitWindow{split, w.last, tanM2, tanR},
			fitWindow{w.first, split, tanL, tanM1})
	}
	return s.result, nil
}

// fitCurve attempts to fit a single cubic to pts[first:last+1]. If it
// fails, it returns the best attempt, the index at which to split the
// window, and the maximum squared error.
func (s *fitState) fitCurve(first, last int, tanL, tanR Vec2) (curve CubicBez, split int, maxSq float64, ok bool) {
	nPts := last - first + 1
	if nPts < 2 {
		panic("internal error: window with fewer than 2 points")
	}
	if nPts == 2 {
		return wuBarsky(s.pts[first], s.pts[last], tanL, tanR), 0, 0, true
	}

	s.arcLengthParameterize(first, last)
	for i := 0; i <= s.opts.MaxIterations; i++ {
		if i != 0 {
			s.reparameterize(first, last, curve)
		}
		curve = s.generateBezier(first, last, tanL, tanR)
		maxSq, split = s.findMaxSquaredError(first, last, curve)
		if maxSq < s.sqErr {
			return curve, split, maxSq, true
		}
	}
	return curve, split, maxSq, false
}

// wuBarsky places the inner control points a third of the chord length
// along the tangents.
func wuBarsky(p0, p3 Point, tanL, tanR Vec2) CubicBez {
	alpha := p0.Distance(p3) / 3
	return CubicBez{
		P0: p0,
		P1: p0.Translate(tanL.Mul(alpha)),
		P2: p3.Translate(tanR.Mul(alpha)),
		P3: p3,
	}
}

// arcLengthParameterize initializes u with each point's fraction of the
// window's arc length.
func (s *fitState) arcLengthParameterize(first, last int) {
	nPts := last - first
	start := s.arclen[first]
	diff := s.arclen[last] - start
	u := s.u[:0]
	u = append(u, 0)
	for i := 1; i < nPts; i++ {
		if diff > Epsilon {
			u = append(u, (s.arclen[first+i]-start)/diff)
		} else {
			// All points coincide.
			u = append(u, float64(i)/float64(nPts))
		}
	}
	u = append(u, 1)
	s.u = u
}

// generateBezier computes the tangent-constrained least-squares cubic for
// the window, using the current parameterization.
func (s *fitState) generateBezier(first, last int, tanL, tanR Vec2) CubicBez {
	pts := s.pts
	u := s.u
	nPts := last - first + 1
	p0, p3 := pts[first], pts[last]

	// Normal equations. C is symmetric, so C[0][1] == C[1][0] is stored
	// once as c01.
	var c00, c01, c11, x0, x1 float64
	for i := 1; i < nPts; i++ {
		t := u[i]
		ti := 1 - t
		t0 := ti * ti * ti
		t1 := 3 * ti * ti * t
		t2 := 3 * ti * t * t
		t3 := t * t * t

		// The curve at t if P1 = P0 and P2 = P3.
		q := Vec2(p0).Mul(t0 + t1).Add(Vec2(p3).Mul(t2 + t3))
		v := Vec2(pts[first+i]).Sub(q)

		a0 := tanL.Mul(t1)
		a1 := tanR.Mul(t2)
		c00 += a0.Dot(a0)
		c01 += a0.Dot(a1)
		c11 += a1.Dot(a1)
		x0 += a0.Dot(v)
		x1 += a1.Dot(v)
	}

	detC0C1 := c00*c11 - c01*c01
	detC0X := c00*x1 - c01*x0
	detXC1 := x0*c11 - x1*c01
	alphaL := detXC1 / detC0C1
	alphaR := detC0X / detC0C1

	linDist := p0.Distance(p3)
	eps2 := Epsilon * linDist
	if math.Abs(detC0C1) < Epsilon || !(alphaL >= eps2) || !(alphaR >= eps2) {
		if s.log.Enabled(s.ctx, slog.LevelDebug) {
			s.log.DebugContext(s.ctx, "least squares fallback",
				"first", first, "last", last, "det", detC0C1, "alphaL", alphaL, "alphaR", alphaR)
		}
		return wuBarsky(p0, p3, tanL, tanR)
	}
	return CubicBez{
		P0: p0,
		P1: p0.Translate(tanL.Mul(alphaL)),
		P2: p3.Translate(tanR.Mul(alphaR)),
		P3: p3,
	}
}

// findMaxSquaredError returns the largest squared distance between a point
// of the window and the curve at that point's parameter, and the index of
// that point clamped to the window's interior.
func (s *fitState) findMaxSquaredError(first, last int, curve CubicBez) (float64, int) {
	nPts := last - first + 1
	sIdx := nPts / 2
	var maxSq float64
	for i := 1; i < nPts; i++ {
		d := s.pts[first+i].DistanceSquared(curve.Eval(s.u[i]))
		if d > maxSq {
			maxSq = d
			sIdx = i
		}
	}
	split := sIdx + first
	if split <= first {
		split = first + 1
	}
	if split >= last {
		split = last - 1
	}
	return maxSq, split
}

// reparameterize performs one Newton-Raphson step per interior point,
// moving u[i] towards the parameter of the point on the curve closest to
// pts[first+i]. Steps that would leave [0, 1] or whose derivative is
// degenerate are skipped.
func (s *fitState) reparameterize(first, last int, curve CubicBez) {
	nPts := last - first
	for i := 1; i < nPts; i++ {
		p := s.pts[first+i]
		t := s.u[i]

		d := curve.Eval(t).Sub(p)
		d1 := curve.Deriv(t)
		d2 := curve.Deriv2(t)
		num := d.Dot(d1)
		den := d1.Dot(d1) + d.Dot(d2)
		if math.Abs(den) <= Epsilon {
			continue
		}
		if newU := t - num/den; newU >= 0 && newU <= 1 {
			s.u[i] = newU
		}
	}
}

// direction returns the unit vector from a to b, or false if a and b are
// too close for the direction to be meaningful.
func direction(a, b Point) (Vec2, bool) {
	v := b.Sub(a)
	if v.IsNearlyZero() {
		return Vec2{}, false
	}
	return v.Normalize(), true
}

// leftTangent estimates the tangent at the start of the polyline from up to
// EndTangentPoints points following it, but no further than last-1. Nearer
// points weigh more. If the weighted directions cancel out, the direction to
// the nearest distinct point is used.
func (s *fitState) leftTangent(last int) Vec2 {
	pts := s.pts
	totalLen := s.arclen[len(s.arclen)-1]
	p0 := pts[0]
	end := min(s.opts.EndTangentPoints, last-1)

	var nearest, total Vec2
	var found bool
	var weightTotal float64
	for i := 1; i <= max(end, 1); i++ {
		v, ok := direction(p0, pts[i])
		if !ok {
			continue
		}
		weight := 1.0
		if i > 1 {
			ti := 1 - s.arclen[i]/totalLen
			weight = ti * ti * ti
		}
		if !found {
			nearest, found = v, true
		}
		total = total.Add(v.Mul(weight))
		weightTotal += weight
	}
	if total.Hypot() > Epsilon && weightTotal > Epsilon {
		return total.Div(weightTotal).Normalize()
	}
	if !found {
		s.tangentFallback("left", 0)
		return s.fallbackDirection(0, 1)
	}
	return nearest
}

// rightTangent is the mirror image of leftTangent for the end of the
// polyline, considering points no earlier than first+1.
func (s *fitState) rightTangent(first int) Vec2 {
	pts := s.pts
	n := len(pts)
	totalLen := s.arclen[len(s.arclen)-1]
	p3 := pts[n-1]
	start := max(n-(s.opts.EndTangentPoints+1), first+1)

	var nearest, total Vec2
	var found bool
	var weightTotal float64
	for i := n - 2; i >= min(start, n-2); i-- {
		v, ok := direction(p3, pts[i])
		if !ok {
			continue
		}
		weight := 1.0
		if i < n-2 {
			t := s.arclen[i] / totalLen
			weight = t * t * t
		}
		if !found {
			nearest, found = v, true
		}
		total = total.Add(v.Mul(weight))
		weightTotal += weight
	}
	if total.Hypot() > Epsilon && weightTotal > Epsilon {
		return total.Div(weightTotal).Normalize()
	}
	if !found {
		s.tangentFallback("right", n-1)
		return s.fallbackDirection(n-1, -1)
	}
	return nearest
}

// fallbackDirection walks from pts[from] in the given direction and returns
// the direction to the first distinct point, or the zero vector if every
// point coincides with pts[from].
func (s *fitState) fallbackDirection(from, step int) Vec2 {
	for i := from + step; i >= 0 && i < len(s.pts); i += step {
		if v, ok := direction(s.pts[from], s.pts[i]); ok {
			return v
		}
	}
	return Vec2{}
}

func (s *fitState) tangentFallback(which string, idx int) {
	if s.log.Enabled(s.ctx, slog.LevelDebug) {
		s.log.DebugContext(s.ctx, "tangent fallback", "tangent", which, "index", idx)
	}
}

// centerTangent estimates the tangent at pts[split], pointing towards the
// start of the polyline, from up to MidTangentPoints points on either side.
// The window ending at split uses it as its right tangent, and the window
// starting at split uses its negation as its left tangent, which makes the
// joined curves C1 continuous.
func (s *fitState) centerTangent(first, last, split int) Vec2 {
	pts := s.pts
	arclen := s.arclen
	nMid := s.opts.MidTangentPoints
	splitLen := arclen[split]
	pSplit := pts[split]

	firstLen := arclen[first]
	partLen := splitLen - firstLen
	var total Vec2
	var weightTotal float64
	if partLen > Epsilon {
		for i := max(first, split-nMid); i < split; i++ {
			v, ok := direction(pSplit, pts[i])
			if !ok {
				continue
			}
			t := (arclen[i] - firstLen) / partLen
			weight := t * t * t
			total = total.Add(v.Mul(weight))
			weightTotal += weight
		}
	}
	var tanL Vec2
	if total.Hypot() > Epsilon && weightTotal > Epsilon {
		tanL = total.Div(weightTotal).Normalize()
	} else {
		tanL, _ = direction(pSplit, pts[split-1])
	}

	partLen = arclen[last] - splitLen
	total = Vec2{}
	weightTotal = 0
	if partLen > Epsilon {
		for i := split + 1; i <= min(last, split+nMid); i++ {
			v, ok := direction(pts[i], pSplit)
			if !ok {
				continue
			}
			ti := 1 - (arclen[i]-splitLen)/partLen
			weight := ti * ti * ti
			total = total.Add(v.Mul(weight))
			weightTotal += weight
		}
	}
	var tanR Vec2
	if total.Hypot() > Epsilon && weightTotal > Epsilon {
		tanR = total.Div(weightTotal).Normalize()
	} else {
		tanR, _ = direction(pts[split+1], pSplit)
	}

	total = tanL.Add(tanR)
	if total.Hypot2() >= Epsilon {
		return total.Div(2).Normalize()
	}

	// The two sides point in opposite directions, for example at a cusp.
	s.tangentFallback("center", split)
	tanL, _ = direction(pSplit, pts[split-1])
	tanR, _ = direction(pts[split+1], pSplit)
	total = tanL.Add(tanR)
	if total.Hypot2() < Epsilon {
		return tanL
	}
	return total.Div(2).Normalize()
}
