package curvefit

import (
	"bytes"
	"slices"
	"testing"
)

func TestCurvesToPath(t *testing.T) {
	curves := []CubicBez{
		{Pt(10, 10), Pt(20, 20), Pt(30, 30), Pt(40, 40)},
		{Pt(40, 40), Pt(30, 30), Pt(20, 20), Pt(10, 10)},
		{Pt(50, 50), Pt(30, 30), Pt(20, 20), Pt(10, 10)},
	}
	got := CurvesToPath(curves)
	want := BezPath{
		MoveTo(Pt(10, 10)),
		CubicTo(Pt(20, 20), Pt(30, 30), Pt(40, 40)),
		CubicTo(Pt(30, 30), Pt(20, 20), Pt(10, 10)),
		MoveTo(Pt(50, 50)),
		CubicTo(Pt(30, 30), Pt(20, 20), Pt(10, 10)),
	}
	diff(t, want, got)
	diff(t, curves, slices.Collect(got.Curves()))

	if p := CurvesToPath(nil); p != nil {
		t.Errorf("got %v, want nil", p)
	}
}

func TestPathCurvesLines(t *testing.T) {
	var p BezPath
	p.MoveTo(Pt(0, 0))
	p.LineTo(Pt(3, 0))
	p.LineTo(Pt(3, 3))
	p.ClosePath()

	got := slices.Collect(p.Curves())
	want := []CubicBez{
		{Pt(0, 0), Pt(1, 0), Pt(2, 0), Pt(3, 0)},
		{Pt(3, 0), Pt(3, 1), Pt(3, 2), Pt(3, 3)},
		{Pt(3, 3), Pt(2, 2), Pt(1, 1), Pt(0, 0)},
	}
	diff(t, want, got)
}

func TestControlBox(t *testing.T) {
	var path BezPath
	if _, ok := path.ControlBox(); ok {
		t.Error("empty path should have no control box")
	}
	path.MoveTo(Pt(0, 0))
	path.CubicTo(Pt(-5, 10), Pt(10, -3), Pt(4, 4))
	path.LineTo(Pt(2, 20))
	got, ok := path.ControlBox()
	if !ok {
		t.Fatal("no control box")
	}
	diff(t, Rect{-5, -3, 10, 20}, got)
}

func TestPathElementEndPoint(t *testing.T) {
	tests := []struct {
		el PathElement
		pt Point
		ok bool
	}{
		{MoveTo(Pt(1, 2)), Pt(1, 2), true},
		{LineTo(Pt(3, 4)), Pt(3, 4), true},
		{CubicTo(Pt(0, 0), Pt(0, 0), Pt(5, 6)), Pt(5, 6), true},
		{ClosePath(), Point{}, false},
	}
	for _, tt := range tests {
		pt, ok := tt.el.EndPoint()
		if pt != tt.pt || ok != tt.ok {
			t.Errorf("%s.EndPoint() = (%s, %t), want (%s, %t)", tt.el, pt, ok, tt.pt, tt.ok)
		}
	}
}

func TestPathTransform(t *testing.T) {
	path := BezPath{
		MoveTo(Pt(1, 1)),
		CubicTo(Pt(2, 2), Pt(3, 3), Pt(4, 4)),
		ClosePath(),
	}
	got := path.Transform(Scale(2, -1))
	want := BezPath{
		MoveTo(Pt(2, -1)),
		CubicTo(Pt(4, -2), Pt(6, -3), Pt(8, -4)),
		ClosePath(),
	}
	diff(t, want, got)
}

func TestSVGSingle(t *testing.T) {
	path := CurvesToPath([]CubicBez{{
		Pt(10.0, 10.0),
		Pt(20.0, 20.0),
		Pt(30.0, 30.0),
		Pt(40.0, 40.0),
	}})
	want := "M10,10 C20,20 30,30 40,40"
	got := path.SVG(SVGOptions{})
	diff(t, want, got)
}

func TestSVGTwoMove(t *testing.T) {
	path := CurvesToPath([]CubicBez{
		{Pt(10.0, 10.0), Pt(20.0, 20.0), Pt(30.0, 30.0), Pt(40.0, 40.0)},
		{Pt(50.0, 50.0), Pt(30.0, 30.0), Pt(20.0, 20.0), Pt(10.0, 10.0)},
	})
	want := "M10,10 C20,20 30,30 40,40 M50,50 C30,30 20,20 10,10"
	got := path.SVG(SVGOptions{})
	diff(t, want, got)
}

func TestSVGPrecision(t *testing.T) {
	path := BezPath{
		MoveTo(Pt(1.04, -0.01)),
		LineTo(Pt(2.26, 3)),
		CubicTo(Pt(0.333333, 1.96), Pt(-4.5, 12.0), Pt(7.123, 8)),
		ClosePath(),
	}
	want := "M1,0 L2.3,3 C0.3,2 -4.5,12 7.1,8 Z"
	var buf bytes.Buffer
	if err := path.WriteSVG(&buf, SVGOptions{MaxPrecision: 1}); err != nil {
		t.Fatal(err)
	}
	diff(t, want, buf.String())
}
