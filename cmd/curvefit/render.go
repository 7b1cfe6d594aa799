package main

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"slices"

	"golang.org/x/image/vector"

	"honnef.co/go/curvefit"
)

var (
	previewBackground = color.White
	previewStroke     = color.Black
	previewPoints     = color.RGBA{0xd0, 0x30, 0x30, 0xff}
)

type previewOptions struct {
	Size        int
	StrokeWidth float64
	FlipY       bool
}

// previewTransform maps the union of the curves' and points' bounds into a
// square image of the given size, leaving a margin on all sides.
func previewTransform(curves []curvefit.CubicBez, pts []curvefit.Point, opts previewOptions) curvefit.Affine {
	pre := curvefit.Identity
	if opts.FlipY {
		pre = curvefit.FlipY
	}
	tcurves := slices.Collect(curvefit.Transform(slices.Values(curves), pre))
	tpts := slices.Collect(curvefit.Transform(slices.Values(pts), pre))
	box, ok := curvefit.CurvesBoundingBox(tcurves)
	if pbox, pok := curvefit.PointsBoundingBox(tpts); pok {
		if ok {
			box = box.Union(pbox)
		} else {
			box = pbox
		}
	}
	size := float64(opts.Size)
	margin := max(opts.StrokeWidth*2, size/32)
	dst := curvefit.Rect{X0: 0, Y0: 0, X1: size, Y1: size}.Inflate(-margin, -margin)
	return curvefit.FitInto(box, dst).Mul(pre)
}

// renderPreview rasterizes the fitted curves as a stroke on a white
// background and marks the input points.
func renderPreview(curves []curvefit.CubicBez, pts []curvefit.Point, opts previewOptions) *image.RGBA {
	size := opts.Size
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.Draw(img, img.Bounds(), image.NewUniform(previewBackground), image.Point{}, draw.Src)

	aff := previewTransform(curves, pts, opts)
	r := vector.NewRasterizer(size, size)
	hw := opts.StrokeWidth / 2
	for _, c := range curves {
		flatten(c.Transform(aff), flatness, func(p0, p1 curvefit.Point) {
			strokeSegment(r, p0, p1, hw)
		})
	}
	r.Draw(img, img.Bounds(), image.NewUniform(previewStroke), image.Point{})

	r.Reset(size, size)
	for _, p := range pts {
		p = p.Transform(aff)
		square(r, p, hw+1)
	}
	r.Draw(img, img.Bounds(), image.NewUniform(previewPoints), image.Point{})
	return img
}

// flatness is the maximum distance in pixels between a curve and the line
// segments it is drawn with.
const flatness = 0.25

// flatten calls fn for each line segment of a polyline approximating c
// within tol, in order from c.P0 to c.P3.
func flatten(c curvefit.CubicBez, tol float64, fn func(p0, p1 curvefit.Point)) {
	type piece struct {
		c     curvefit.CubicBez
		depth int
	}
	stack := []piece{{c, 0}}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if p.depth >= 16 || p.c.IsFlat(tol) || p.c.IsNaN() {
			fn(p.c.P0, p.c.P3)
			continue
		}
		left, right := p.c.Subdivide()
		stack = append(stack, piece{right, p.depth + 1}, piece{left, p.depth + 1})
	}
}

// strokeSegment adds a rectangle of half width hw around the segment p0-p1,
// extended by hw at both ends so consecutive segments overlap at joins. All
// rectangles have the same orientation, so overlaps don't cancel out.
func strokeSegment(r *vector.Rasterizer, p0, p1 curvefit.Point, hw float64) {
	d := p1.Sub(p0)
	if d.IsNearlyZero() {
		square(r, p0, hw)
		return
	}
	d = d.Normalize().Mul(hw)
	n := curvefit.Vec(-d.Y, d.X)
	a := p0.Translate(d.Negate())
	b := p1.Translate(d)
	quad(r, a.Translate(n), b.Translate(n), b.Translate(n.Negate()), a.Translate(n.Negate()))
}

func square(r *vector.Rasterizer, c curvefit.Point, hw float64) {
	half := curvefit.Vec(hw, hw)
	quad(r,
		c.Translate(half.MulVec(curvefit.Vec(-1, 1))),
		c.Translate(half),
		c.Translate(half.MulVec(curvefit.Vec(1, -1))),
		c.Translate(half.Negate()))
}

func quad(r *vector.Rasterizer, p0, p1, p2, p3 curvefit.Point) {
	r.MoveTo(float32(p0.X), float32(p0.Y))
	r.LineTo(float32(p1.X), float32(p1.Y))
	r.LineTo(float32(p2.X), float32(p2.Y))
	r.LineTo(float32(p3.X), float32(p3.Y))
	r.ClosePath()
}

func writePNG(w io.Writer, img image.Image) error {
	return png.Encode(w, img)
}
