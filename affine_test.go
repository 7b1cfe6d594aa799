package curvefit

import (
	"slices"
	"testing"
)

func TestAffineBasic(t *testing.T) {
	const epsilon = 1e-9
	p := Pt(3, 4)

	assertNear(t, p.Transform(Identity), p, epsilon)
	assertNear(t, p.Transform(Scale(2, 2)), Pt(6, 8), epsilon)
	assertNear(t, p.Transform(Translate(Vec(5, 6))), Pt(8, 10), epsilon)
	assertNear(t, p.Transform(FlipY), Pt(3, -4), epsilon)
}

func TestAffineMul(t *testing.T) {
	const epsilon = 1e-9
	a1 := Affine{1, 2, 3, 4, 5, 6}
	a2 := Affine{0.1, 1.2, 2.3, 3.4, 4.5, 5.6}

	px := Pt(1, 0)
	py := Pt(0, 1)
	pxy := Pt(1, 1)

	assertNear(t, px.Transform(a2).Transform(a1), px.Transform(a1.Mul(a2)), epsilon)
	assertNear(t, py.Transform(a2).Transform(a1), py.Transform(a1.Mul(a2)), epsilon)
	assertNear(t, pxy.Transform(a2).Transform(a1), pxy.Transform(a1.Mul(a2)), epsilon)
}

func TestAffineInvert(t *testing.T) {
	const epsilon = 1e-9
	a := Affine{0.1, 1.2, 2.3, 3.4, 4.5, 5.6}
	aInv := a.Invert()

	px := Pt(1, 0)
	py := Pt(0, 1)
	pxy := Pt(1, 1)

	assertNear(t, px.Transform(aInv).Transform(a), px, epsilon)
	assertNear(t, py.Transform(aInv).Transform(a), py, epsilon)
	assertNear(t, pxy.Transform(aInv).Transform(a), pxy, epsilon)
	assertNear(t, px.Transform(a).Transform(aInv), px, epsilon)
	assertNear(t, py.Transform(a).Transform(aInv), py, epsilon)
	assertNear(t, pxy.Transform(a).Transform(aInv), pxy, epsilon)

	if !(Affine{1, 2, 2, 4, 0, 0}).Invert().IsNaN() {
		t.Error("inverting a singular transform should produce NaN")
	}
}

func TestFitInto(t *testing.T) {
	const epsilon = 1e-9
	dst := Rect{0, 0, 100, 100}
	tests := []struct {
		name string
		src  Rect
		in   []Point
		want []Point
	}{
		{
			"wide",
			Rect{10, 10, 30, 20},
			[]Point{{10, 10}, {30, 20}, {20, 15}},
			[]Point{{0, 25}, {100, 75}, {50, 50}},
		},
		{
			"tall",
			Rect{0, 0, 1, 4},
			[]Point{{0, 0}, {1, 4}},
			[]Point{{37.5, 0}, {62.5, 100}},
		},
		{
			"horizontal line",
			Rect{-5, 3, 5, 3},
			[]Point{{-5, 3}, {5, 3}},
			[]Point{{0, 50}, {100, 50}},
		},
		{
			"single point",
			Rect{7, 7, 7, 7},
			[]Point{{7, 7}},
			[]Point{{50, 50}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			aff := FitInto(tt.src, dst)
			for i, p := range tt.in {
				assertNear(t, p.Transform(aff), tt.want[i], epsilon)
			}
		})
	}
}

func TestTransformSeq(t *testing.T) {
	pts := []Point{{1, 2}, {3, 4}}
	got := slices.Collect(Transform(slices.Values(pts), Scale(2, -1)))
	diff(t, []Point{{2, -2}, {6, -4}}, got)
}
