package curvefit

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestLinearizeStraightSegment(t *testing.T) {
	got, err := Linearize([]Point{{0, 0}, {20, 0}}, 8, DefaultLinearizeOptions)
	if err != nil {
		t.Fatal(err)
	}
	want := []Point{{0, 0}, {8, 0}, {16, 0}, {20, 0}}
	diff(t, want, got, cmpopts.EquateApprox(0, 1e-12))
}

func TestLinearize(t *testing.T) {
	tests := []struct {
		name    string
		points  []Point
		spacing float64
		opts    LinearizeOptions
		want    []Point
	}{
		{
			"empty",
			[]Point{},
			1,
			DefaultLinearizeOptions,
			[]Point{},
		},
		{
			"single point",
			[]Point{{5, 5}},
			1,
			DefaultLinearizeOptions,
			[]Point{{5, 5}},
		},
		{
			"single point keep last",
			[]Point{{5, 5}},
			1,
			LinearizeOptions{KeepLast: true, EmitAll: true},
			[]Point{{5, 5}, {5, 5}},
		},
		{
			"only first crossing",
			[]Point{{0, 0}, {20, 0}},
			8,
			LinearizeOptions{EmitAll: false},
			[]Point{{0, 0}, {8, 0}, {20, 0}},
		},
		{
			"skipped crossings carry over",
			[]Point{{0, 0}, {20, 0}, {25, 0}},
			8,
			LinearizeOptions{EmitAll: false},
			[]Point{{0, 0}, {8, 0}, {24, 0}, {25, 0}},
		},
		{
			"long segment only first crossing",
			[]Point{{0, 0}, {1e12, 0}},
			1,
			LinearizeOptions{EmitAll: false},
			[]Point{{0, 0}, {1, 0}, {1e12, 0}},
		},
		{
			"across corners",
			[]Point{{0, 0}, {5, 0}, {5, 5}, {10, 5}},
			4,
			DefaultLinearizeOptions,
			[]Point{{0, 0}, {4, 0}, {5, 3}, {7, 5}, {10, 5}},
		},
		{
			"short polyline",
			[]Point{{0, 0}, {1, 0}, {1, 1}},
			10,
			DefaultLinearizeOptions,
			[]Point{{0, 0}, {1, 1}},
		},
		{
			"last point coincides",
			[]Point{{0, 0}, {8 + 1e-10, 0}},
			8,
			DefaultLinearizeOptions,
			[]Point{{0, 0}, {8, 0}},
		},
		{
			"last point coincides keep last",
			[]Point{{0, 0}, {8 + 1e-10, 0}},
			8,
			LinearizeOptions{KeepLast: true, EmitAll: true},
			[]Point{{0, 0}, {8, 0}, {8 + 1e-10, 0}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Linearize(tt.points, tt.spacing, tt.opts)
			if err != nil {
				t.Fatal(err)
			}
			diff(t, tt.want, got, cmpopts.EquateApprox(0, 1e-9), cmpopts.EquateEmpty())
		})
	}
}

func TestLinearizeSpacing(t *testing.T) {
	// Points on a circle, densely sampled. The chords of the output
	// approximate the requested spacing.
	var pts []Point
	for i := range 1000 {
		a := float64(i) / 1000 * 2 * math.Pi
		pts = append(pts, Pt(100*math.Cos(a), 100*math.Sin(a)))
	}
	const spacing = 5.0
	got, err := Linearize(pts, spacing, DefaultLinearizeOptions)
	if err != nil {
		t.Fatal(err)
	}
	for i := 1; i < len(got)-1; i++ {
		if d := got[i-1].Distance(got[i]); math.Abs(d-spacing) > 0.01 {
			t.Errorf("points %d and %d are %g apart, want %g", i-1, i, d, spacing)
		}
	}
}

func TestLinearizeInvalid(t *testing.T) {
	for _, spacing := range []float64{0, Epsilon, -1, math.NaN()} {
		if _, err := Linearize([]Point{{0, 0}, {1, 1}}, spacing, DefaultLinearizeOptions); !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("spacing %g: got error %v, want ErrInvalidArgument", spacing, err)
		}
		if _, err := NewLinearizer(spacing, DefaultLinearizeOptions); !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("spacing %g: got error %v, want ErrInvalidArgument", spacing, err)
		}
	}
	if _, err := Linearize(nil, 1, DefaultLinearizeOptions); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("nil points: got error %v, want ErrInvalidArgument", err)
	}
	far := []Point{{0, 0}, {math.MaxFloat64, math.MaxFloat64}}
	if _, err := Linearize(far, 1, LinearizeOptions{}); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("overflowing distance: got error %v, want ErrInvalidArgument", err)
	}
	for _, bad := range []Point{{math.Inf(1), 0}, {0, math.Inf(-1)}, {math.NaN(), 0}} {
		for _, opts := range []LinearizeOptions{DefaultLinearizeOptions, {}} {
			pts := []Point{{0, 0}, bad, {20, 0}}
			if _, err := Linearize(pts, 1, opts); !errors.Is(err, ErrInvalidArgument) {
				t.Errorf("point %s: got error %v, want ErrInvalidArgument", bad, err)
			}
		}
	}
}

func TestLinearizerNonFinite(t *testing.T) {
	l, err := NewLinearizer(8, DefaultLinearizeOptions)
	if err != nil {
		t.Fatal(err)
	}
	var got []Point
	for _, p := range []Point{{0, 0}, {math.Inf(1), 0}, {math.NaN(), 1}, {20, 0}} {
		got = append(got, l.Add(p)...)
	}
	got = append(got, l.Finish()...)
	if !errors.Is(l.Err(), ErrInvalidArgument) {
		t.Errorf("got error %v, want ErrInvalidArgument", l.Err())
	}
	// Invalid points are dropped, the rest is resampled as usual.
	want := []Point{{0, 0}, {8, 0}, {16, 0}, {20, 0}}
	diff(t, want, got, cmpopts.EquateApprox(0, 1e-12))

	l, _ = NewLinearizer(8, DefaultLinearizeOptions)
	l.Add(Pt(0, 0))
	l.Add(Pt(1, 1))
	l.Finish()
	if err := l.Err(); err != nil {
		t.Errorf("got error %v for finite points", err)
	}
}

func TestLinearizerMatchesLinearize(t *testing.T) {
	var pts []Point
	for i := range 200 {
		x := float64(i) * 0.7
		pts = append(pts, Pt(x, 10*math.Sin(x/5)+float64(i%3)))
	}
	for _, opts := range []LinearizeOptions{
		DefaultLinearizeOptions,
		{KeepLast: true, EmitAll: true},
		{KeepLast: false, EmitAll: false},
	} {
		t.Run(fmt.Sprintf("%+v", opts), func(t *testing.T) {
			want, err := Linearize(pts, 3, opts)
			if err != nil {
				t.Fatal(err)
			}
			l, err := NewLinearizer(3, opts)
			if err != nil {
				t.Fatal(err)
			}
			var got []Point
			for _, p := range pts {
				got = append(got, l.Add(p)...)
			}
			got = append(got, l.Finish()...)
			diff(t, want, got)
		})
	}
}

func TestLinearizerFinishEmpty(t *testing.T) {
	l, err := NewLinearizer(1, DefaultLinearizeOptions)
	if err != nil {
		t.Fatal(err)
	}
	if got := l.Finish(); len(got) != 0 {
		t.Errorf("got %v, want no points", got)
	}
}

func TestRemoveDuplicates(t *testing.T) {
	noDups := []Point{{0, 0}, {1, 0}, {0, 0}, {1, 1}}
	got := RemoveDuplicates(noDups)
	if &got[0] != &noDups[0] || len(got) != len(noDups) {
		t.Error("input without duplicates should be returned as is")
	}

	in := []Point{{0, 0}, {0, 0}, {1, 0}, {1, 1e-10}, {1, 1}, {1, 1}, {1, 1}}
	orig := append([]Point(nil), in...)
	got = RemoveDuplicates(in)
	diff(t, []Point{{0, 0}, {1, 0}, {1, 1}}, got)
	diff(t, orig, in)

	single := []Point{{3, 3}}
	if got := RemoveDuplicates(single); &got[0] != &single[0] {
		t.Error("single point should be returned as is")
	}
}

func TestRDPReduce(t *testing.T) {
	tests := []struct {
		name      string
		points    []Point
		tolerance float64
		want      []Point
	}{
		{
			"noisy line",
			[]Point{{0, 0}, {1, 0.1}, {2, -0.1}, {3, 0.05}, {4, 0}},
			0.5,
			[]Point{{0, 0}, {4, 0}},
		},
		{
			"peak",
			[]Point{{0, 0}, {1, 1}, {2, 2}, {3, 1}, {4, 0}},
			0.5,
			[]Point{{0, 0}, {2, 2}, {4, 0}},
		},
		{
			"zero tolerance keeps corners",
			[]Point{{0, 0}, {1, 0}, {2, 0}, {2, 1}, {2, 2}},
			0,
			[]Point{{0, 0}, {2, 0}, {2, 2}},
		},
		{
			"closed loop",
			[]Point{{0, 0}, {10, 0}, {10, 10}, {0, 10}, {0, 0}},
			1,
			[]Point{{0, 0}, {10, 0}, {10, 10}, {0, 10}, {0, 0}},
		},
		{
			"duplicates only",
			[]Point{{1, 1}, {1, 1}, {1, 1}},
			1,
			[]Point{{1, 1}},
		},
		{
			"two points",
			[]Point{{0, 0}, {5, 5}},
			1,
			[]Point{{0, 0}, {5, 5}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RDPReduce(tt.points, tt.tolerance)
			if err != nil {
				t.Fatal(err)
			}
			diff(t, tt.want, got)
		})
	}
}

func TestRDPReduceCopies(t *testing.T) {
	in := []Point{{0, 0}, {5, 5}}
	got, err := RDPReduce(in, 1)
	if err != nil {
		t.Fatal(err)
	}
	got[0] = Pt(9, 9)
	if in[0] != Pt(0, 0) {
		t.Error("RDPReduce returned its input")
	}
}

func TestRDPReduceIdempotent(t *testing.T) {
	var pts []Point
	for i := range 300 {
		x := float64(i) * 0.5
		pts = append(pts, Pt(x, 20*math.Sin(x/7)+3*math.Sin(x*1.3)))
	}
	for _, tol := range []float64{0, 0.5, 2, 10} {
		once, err := RDPReduce(pts, tol)
		if err != nil {
			t.Fatal(err)
		}
		twice, err := RDPReduce(once, tol)
		if err != nil {
			t.Fatal(err)
		}
		diff(t, once, twice)
		if len(once) > len(pts) || once[0] != pts[0] || once[len(once)-1] != pts[len(pts)-1] {
			t.Errorf("tolerance %g: end points not kept", tol)
		}
	}
}

func TestRDPReduceInvalid(t *testing.T) {
	if _, err := RDPReduce(nil, 1); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("nil points: got error %v, want ErrInvalidArgument", err)
	}
	for _, tol := range []float64{-1, math.NaN()} {
		if _, err := RDPReduce([]Point{{0, 0}}, tol); !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("tolerance %g: got error %v, want ErrInvalidArgument", tol, err)
		}
	}
	for _, bad := range []Point{{math.Inf(1), 0}, {math.NaN(), 0}} {
		if _, err := RDPReduce([]Point{{0, 0}, bad, {2, 0}}, 1); !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("point %s: got error %v, want ErrInvalidArgument", bad, err)
		}
	}
}

func BenchmarkRDPReduce(b *testing.B) {
	var pts []Point
	for i := range 10000 {
		x := float64(i) * 0.1
		pts = append(pts, Pt(x, 50*math.Sin(x/13)))
	}
	for _, tol := range []float64{0.1, 1, 4} {
		b.Run(fmt.Sprintf("%g", tol), func(b *testing.B) {
			for range b.N {
				RDPReduce(pts, tol)
			}
		})
	}
}
