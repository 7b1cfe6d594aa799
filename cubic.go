package curvefit

import (
	"fmt"
	"iter"
)

// CubicBez is a cubic Bézier segment with end points P0 and P3 and off-curve
// control points P1 and P2.
//
// Values of CubicBez are never modified in place by this package; segments
// returned from [Fit] can be retained and shared freely.
type CubicBez struct {
	P0 Point
	P1 Point
	P2 Point
	P3 Point
}

func (c CubicBez) String() string {
	return fmt.Sprintf("CubicBez(%s, %s, %s, %s)", c.P0, c.P1, c.P2, c.P3)
}

func (c CubicBez) IsInf() bool {
	return c.P0.IsInf() || c.P1.IsInf() || c.P2.IsInf() || c.P3.IsInf()
}

func (c CubicBez) IsNaN() bool {
	return c.P0.IsNaN() || c.P1.IsNaN() || c.P2.IsNaN() || c.P3.IsNaN()
}

// Eval evaluates the curve at parameter t using the Bernstein form
//
//	(1-t)³ P0 + 3(1-t)²t P1 + 3(1-t)t² P2 + t³ P3
func (c CubicBez) Eval(t float64) Point {
	mt := 1.0 - t
	a := Vec2(c.P0).Mul(mt * mt * mt)
	b := Vec2(c.P1).Mul(mt * mt * 3.0)
	cc := Vec2(c.P2).Mul(mt * 3.0)
	d := Vec2(c.P3)
	v := a.Add(b.Add(cc.Add(d.Mul(t)).Mul(t)).Mul(t))
	return Point(v)
}

// Deriv evaluates the first derivative of the curve at parameter t.
func (c CubicBez) Deriv(t float64) Vec2 {
	// Control points of the derivative, a quadratic Bézier.
	q0 := c.P1.Sub(c.P0).Mul(3)
	q1 := c.P2.Sub(c.P1).Mul(3)
	q2 := c.P3.Sub(c.P2).Mul(3)
	mt := 1.0 - t
	return q0.Mul(mt * mt).Add(q1.Mul(2 * mt * t)).Add(q2.Mul(t * t))
}

// Deriv2 evaluates the second derivative of the curve at parameter t.
func (c CubicBez) Deriv2(t float64) Vec2 {
	q0 := c.P1.Sub(c.P0).Mul(3)
	q1 := c.P2.Sub(c.P1).Mul(3)
	q2 := c.P3.Sub(c.P2).Mul(3)
	// Control points of the second derivative, a line.
	r0 := q1.Sub(q0).Mul(2)
	r1 := q2.Sub(q1).Mul(2)
	return r0.Mul(1.0 - t).Add(r1.Mul(t))
}

// Subdivide splits the curve at t = 0.5 into two curves that together
// trace the same path.
func (c CubicBez) Subdivide() (CubicBez, CubicBez) {
	p01 := c.P0.Midpoint(c.P1)
	p12 := c.P1.Midpoint(c.P2)
	p23 := c.P2.Midpoint(c.P3)
	p012 := p01.Midpoint(p12)
	p123 := p12.Midpoint(p23)
	pm := p012.Midpoint(p123)
	return CubicBez{c.P0, p01, p012, pm}, CubicBez{pm, p123, p23, c.P3}
}

// IsFlat reports whether the curve deviates less than tol from the line
// segment between its end points, traversed at uniform speed. Its control
// points are then within tol of the line's control points.
func (c CubicBez) IsFlat(tol float64) bool {
	l := lineCubic(c.P0, c.P3)
	return c.P1.DistanceSquared(l.P1) <= tol*tol && c.P2.DistanceSquared(l.P2) <= tol*tol
}

func (c CubicBez) Start() Point {
	return c.P0
}

func (c CubicBez) End() Point {
	return c.P3
}

// Tangents returns the control arms of the curve: the vector from P0 to P1
// and the vector from P3 to P2. For fitted segments these point along the
// left and right tangents the segment was fitted with.
func (c CubicBez) Tangents() (Vec2, Vec2) {
	return c.P1.Sub(c.P0), c.P2.Sub(c.P3)
}

func (c CubicBez) Transform(aff Affine) CubicBez {
	return CubicBez{
		P0: c.P0.Transform(aff),
		P1: c.P1.Transform(aff),
		P2: c.P2.Transform(aff),
		P3: c.P3.Transform(aff),
	}
}

// ControlBox returns the rectangle enclosing all four control points. Because
// a Bézier curve lies within the convex hull of its control points, this
// conservatively encloses the curve.
func (c CubicBez) ControlBox() Rect {
	return NewRectFromPoints(c.P0, c.P1).UnionPoint(c.P2).UnionPoint(c.P3)
}

// PathElements returns the curve as a MoveTo followed by a CubicTo.
func (c CubicBez) PathElements() iter.Seq[PathElement] {
	return func(yield func(PathElement) bool) {
		_ = yield(MoveTo(c.P0)) &&
			yield(CubicTo(c.P1, c.P2, c.P3))
	}
}
