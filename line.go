package curvefit

import "math"

// Line represents a line segment.
type Line struct {
	// The line's start point.
	P0 Point
	// The line's end point.
	P1 Point
}

// Length returns the length of the line.
func (l Line) Length() float64 {
	return l.P1.Sub(l.P0).Hypot()
}

func (l Line) Eval(t float64) Point {
	return l.P0.Lerp(l.P1, t)
}

// Nearest returns the squared distance from pt to the closest point on the
// segment, and that point's parameter.
func (l Line) Nearest(pt Point) (distSq, t float64) {
	d := l.P1.Sub(l.P0)
	dotp := d.Dot(pt.Sub(l.P0))
	dSquared := d.Dot(d)
	if dotp <= 0.0 {
		return pt.Sub(l.P0).Hypot2(), 0.0
	} else if dotp >= dSquared {
		return pt.Sub(l.P1).Hypot2(), 1.0
	} else {
		t := dotp / dSquared
		dist := pt.Sub(l.Eval(t)).Hypot2()
		return dist, t
	}
}

// LineDistance returns the distance from pt to the infinite line through
// the segment's end points. For a segment of length zero, it returns the
// distance to P0.
func (l Line) LineDistance(pt Point) float64 {
	abDist := l.Length()
	if abDist <= Epsilon {
		return pt.Distance(l.P0)
	}
	return PerpendicularDistance(l.P0, l.P1, abDist, Vec2(l.P0).Cross(Vec2(l.P1)), pt)
}

func (l Line) IsNaN() bool {
	return l.P0.IsNaN() || l.P1.IsNaN()
}

func (l Line) Transform(aff Affine) Line {
	return Line{
		P0: l.P0.Transform(aff),
		P1: l.P1.Transform(aff),
	}
}

// PerpendicularDistance returns the distance from p to the infinite line
// through a and b.
//
// abDist must be the distance between a and b, and aCrossB must be
// a.X*b.Y − b.X*a.Y. Both are passed in so that callers measuring many
// points against the same line compute them only once. The result is twice
// the area of the triangle (a, b, p) divided by its base.
func PerpendicularDistance(a, b Point, abDist, aCrossB float64, p Point) float64 {
	area := math.Abs(aCrossB + b.X*p.Y + p.X*a.Y - p.X*b.Y - a.X*p.Y)
	return area / abDist
}
