package visualdiff

import (
	"math"

	"github.com/giovanni-mariano/aleagit/internal/bmpwriter"
	"github.com/giovanni-mariano/aleagit/pkg/geom"
)

// sliceView maps a rectangular (u, v) region of a slice plane onto a
// width x height pixel grid. Pixel (0, 0) is the top-left corner; v
// increases upward (toward vMax), matching the contour overlay's
// screen-space convention.
type sliceView struct {
	width, height  int
	uMin, uMax     float64
	vMin, vMax     float64
}

// pixelSize returns the size in (u or v) units of one pixel step along
// a range of n pixels.
func pixelSize(rangeMin, rangeMax float64, n int) float64 {
	if n <= 0 {
		return 0
	}
	return (rangeMax - rangeMin) / float64(n)
}

func (v sliceView) pixelU() float64 { return pixelSize(v.uMin, v.uMax, v.width) }
func (v sliceView) pixelV() float64 { return pixelSize(v.vMin, v.vMax, v.height) }

// stampPixel maps a (u, v) point into pixel space and sets it, silently
// ignoring points outside the view (Image.Set already clamps-by-ignoring).
func (v sliceView) stampPixel(img *bmpwriter.Image, u, vv float64, c RGB) {
	if v.uMax == v.uMin || v.vMax == v.vMin {
		return
	}
	x := int(math.Round((u - v.uMin) / (v.uMax - v.uMin) * float64(v.width-1)))
	y := int(math.Round((v.vMax - vv) / (v.vMax - v.vMin) * float64(v.height-1)))
	img.Set(x, y, c.R, c.G, c.B)
}

// clipAxis narrows [tLo, tHi] to the sub-range where p0+t*d stays inside
// [lo, hi], the one-axis step of a Liang-Barsky clip.
func clipAxis(p0, d, lo, hi, tLo, tHi float64) (float64, float64, bool) {
	if math.Abs(d) <= 1e-15 {
		if p0 < lo || p0 > hi {
			return tLo, tHi, false
		}
		return tLo, tHi, true
	}
	t1, t2 := (lo-p0)/d, (hi-p0)/d
	if t1 > t2 {
		t1, t2 = t2, t1
	}
	if t1 > tLo {
		tLo = t1
	}
	if t2 < tHi {
		tHi = t2
	}
	return tLo, tHi, tLo < tHi
}

// clipLine clips the infinite line point+t*dir against the view's (u, v)
// viewport, returning the t-range still inside the viewport. ok is false
// if the line misses the viewport entirely.
func (v sliceView) clipLine(point, dir [2]float64) (tLo, tHi float64, ok bool) {
	tLo, tHi = -math.MaxFloat64, math.MaxFloat64
	var okU, okV bool
	tLo, tHi, okU = clipAxis(point[0], dir[0], v.uMin, v.uMax, tLo, tHi)
	if !okU {
		return 0, 0, false
	}
	tLo, tHi, okV = clipAxis(point[1], dir[1], v.vMin, v.vMax, tLo, tHi)
	if !okV {
		return 0, 0, false
	}
	return tLo, tHi, true
}

func (v sliceView) rasterizeSegment(img *bmpwriter.Image, point, dir [2]float64, tMin, tMax float64, c RGB) {
	if tMax <= tMin {
		return
	}
	step := math.Min(v.pixelU(), v.pixelV()) * 0.5
	if step <= 0 {
		step = 1e-6
	}
	n := int((tMax-tMin)/step) + 1
	if n < 1 {
		n = 1
	}
	for i := 0; i <= n; i++ {
		t := tMin + (tMax-tMin)*float64(i)/float64(n)
		v.stampPixel(img, point[0]+dir[0]*t, point[1]+dir[1]*t, c)
	}
}

// stampContours rasterizes every curve in curves onto img in color,
// dispatching on the curve's type exactly as the original's per-type
// step-count formulas do.
func (v sliceView) stampContours(img *bmpwriter.Image, curves []geom.Curve, c RGB) {
	for _, curve := range curves {
		v.stampCurve(img, curve, c)
	}
}

func (v sliceView) stampCurve(img *bmpwriter.Image, curve geom.Curve, c RGB) {
	step := math.Min(v.pixelU(), v.pixelV()) * 0.5
	if step <= 0 {
		step = 1e-6
	}

	switch curve.Type {
	case geom.CurveLine:
		if tLo, tHi, ok := v.clipLine(curve.Point, curve.Direction); ok {
			v.rasterizeSegment(img, curve.Point, curve.Direction, tLo, tHi, c)
		}

	case geom.CurveLineSegment:
		v.rasterizeSegment(img, curve.Point, curve.Direction, curve.TMin, curve.TMax, c)

	case geom.CurveParallelLines:
		if tLo, tHi, ok := v.clipLine(curve.Point, curve.Direction); ok {
			v.rasterizeSegment(img, curve.Point, curve.Direction, tLo, tHi, c)
		}
		if tLo, tHi, ok := v.clipLine(curve.Point2, curve.Direction); ok {
			v.rasterizeSegment(img, curve.Point2, curve.Direction, tLo, tHi, c)
		}

	case geom.CurveCircle:
		n := int(2*math.Pi*curve.Radius/step) + 1
		if n < 32 {
			n = 32
		}
		for i := 0; i <= n; i++ {
			theta := 2 * math.Pi * float64(i) / float64(n)
			u := curve.Center[0] + curve.Radius*math.Cos(theta)
			vv := curve.Center[1] + curve.Radius*math.Sin(theta)
			v.stampPixel(img, u, vv, c)
		}

	case geom.CurveArc:
		n := int(curve.Radius*math.Abs(curve.TMax-curve.TMin)/step) + 1
		if n < 16 {
			n = 16
		}
		for i := 0; i <= n; i++ {
			theta := curve.TMin + (curve.TMax-curve.TMin)*float64(i)/float64(n)
			u := curve.Center[0] + curve.Radius*math.Cos(theta)
			vv := curve.Center[1] + curve.Radius*math.Sin(theta)
			v.stampPixel(img, u, vv, c)
		}

	case geom.CurveEllipse:
		a, b := curve.SemiA, curve.SemiB
		circumference := math.Pi * (3*(a+b) - math.Sqrt((3*a+b)*(a+3*b)))
		n := int(circumference/step) + 1
		if n < 64 {
			n = 64
		}
		cosA, sinA := math.Cos(curve.Angle), math.Sin(curve.Angle)
		for i := 0; i <= n; i++ {
			theta := 2 * math.Pi * float64(i) / float64(n)
			lx, ly := a*math.Cos(theta), b*math.Sin(theta)
			u := curve.Center[0] + lx*cosA - ly*sinA
			vv := curve.Center[1] + lx*sinA + ly*cosA
			v.stampPixel(img, u, vv, c)
		}

	case geom.CurveEllipseArc:
		avgR := (curve.SemiA + curve.SemiB) / 2
		arcLen := avgR * math.Abs(curve.TMax-curve.TMin)
		n := int(arcLen/step) + 1
		if n < 16 {
			n = 16
		}
		cosA, sinA := math.Cos(curve.Angle), math.Sin(curve.Angle)
		for i := 0; i <= n; i++ {
			theta := curve.TMin + (curve.TMax-curve.TMin)*float64(i)/float64(n)
			lx, ly := curve.SemiA*math.Cos(theta), curve.SemiB*math.Sin(theta)
			u := curve.Center[0] + lx*cosA - ly*sinA
			vv := curve.Center[1] + lx*sinA + ly*cosA
			v.stampPixel(img, u, vv, c)
		}

	case geom.CurvePolygon:
		n := len(curve.Vertices)
		edges := n
		if !curve.Closed {
			edges = n - 1
		}
		for i := 0; i < edges; i++ {
			p0 := curve.Vertices[i]
			p1 := curve.Vertices[(i+1)%n]
			dir := [2]float64{p1[0] - p0[0], p1[1] - p0[1]}
			v.rasterizeSegment(img, p0, dir, 0, 1, c)
		}
	}
}
