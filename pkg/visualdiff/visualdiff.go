// Package visualdiff renders a 2D slice comparison of two geometry
// revisions to BMP images: one image of the old system, one of the new
// system, and one diff overlay highlighting added, removed, and changed
// cells. It does not do any geometric containment math itself — that is
// delegated to a geom.PointInCellQuery the caller supplies — but it picks
// which slice best exposes a diff, renders the coarse color grids, and
// stamps surface contours on top.
package visualdiff

import (
	"fmt"

	"github.com/giovanni-mariano/aleagit/internal/bmpwriter"
	"github.com/giovanni-mariano/aleagit/pkg/geom"
)

// System bundles one revision's geometry with the external collaborators
// needed to render it: a point-in-cell query for the color grid, and an
// optional contour extractor (nil disables contour overlay for that
// system).
type System struct {
	Geometry geom.Geometry
	Query    geom.PointInCellQuery
	Contours geom.SliceContourExtractor // optional
}

// Options pins the slice to render instead of auto-selecting one. Width,
// if nonzero, overrides the default 800px image width (height still
// follows the slice's aspect ratio).
type Options struct {
	Axis     geom.Axis
	SlicePos float64
	Width    int
}

const (
	defaultWidth  = 800
	minDimension  = 100
	maxDimension  = 4000
	paddingFrac   = 0.10
)

// Render is one rendered slice: three images (before, after, diff) at
// the chosen axis and position.
type Render struct {
	Axis     geom.Axis
	SlicePos float64
	Before   *bmpwriter.Image
	After    *bmpwriter.Image
	Diff     *bmpwriter.Image
}

// VisualDiff renders a single slice comparing oldSys and newSys. If opts
// is nil, the slice axis and position are auto-selected from the pair's
// combined inner bounding box; otherwise the caller's exact axis/position
// is used. The three rendered images are written to
// <prefix>_<AXIS>_before.bmp, _after.bmp, and _diff.bmp.
func VisualDiff(oldSys, newSys System, prefix string, opts *Options) (Render, error) {
	var axis geom.Axis
	var slicePos float64
	var uMin, uMax, vMin, vMax float64
	overrideWidth := 0

	if opts != nil {
		axis = opts.Axis
		slicePos = opts.SlicePos
		overrideWidth = opts.Width
		bbox := InnerBBox(oldSys.Geometry).Union(InnerBBox(newSys.Geometry))
		uMin, uMax, vMin, vMax = UVRange(bbox, axis)
	} else {
		bbox := InnerBBox(oldSys.Geometry).Union(InnerBBox(newSys.Geometry))
		axis, slicePos = autoSelect(oldSys.Query, newSys.Query, bbox)
		uMin, uMax, vMin, vMax = UVRange(bbox, axis)
	}

	uMin, uMax = pad(uMin, uMax)
	vMin, vMax = pad(vMin, vMax)
	width, height := dimensionsFor(uMin, uMax, vMin, vMax)
	if overrideWidth > 0 {
		aspect := 1.0
		if width > 0 {
			aspect = float64(height) / float64(width)
		}
		width = overrideWidth
		height = clampDimension(int(float64(width) * aspect))
	}

	render, err := renderOneAxis(oldSys, newSys, axis, slicePos, uMin, uMax, vMin, vMax, width, height, true)
	if err != nil {
		return Render{}, err
	}
	if err := writeRender(prefix, axis, render); err != nil {
		return Render{}, err
	}
	return render, nil
}

// VisualDiffAll renders all three axes unconditionally (9 images total),
// each auto-selecting its own best slice position.
func VisualDiffAll(oldSys, newSys System, prefix string) ([]Render, error) {
	bbox := InnerBBox(oldSys.Geometry).Union(InnerBBox(newSys.Geometry))

	var renders []Render
	for _, axis := range []geom.Axis{geom.AxisX, geom.AxisY, geom.AxisZ} {
		lo, hi := AxisRange(bbox, axis)
		uMin, uMax, vMin, vMax := UVRange(bbox, axis)
		slicePos, _, _ := findBestSliceForAxis(oldSys.Query, newSys.Query, axis, lo, hi, uMin, uMax, vMin, vMax)

		uMin, uMax = pad(uMin, uMax)
		vMin, vMax = pad(vMin, vMax)
		width, height := dimensionsFor(uMin, uMax, vMin, vMax)

		render, err := renderOneAxis(oldSys, newSys, axis, slicePos, uMin, uMax, vMin, vMax, width, height, true)
		if err != nil {
			return nil, err
		}
		if err := writeRender(prefix, axis, render); err != nil {
			return nil, err
		}
		renders = append(renders, render)
	}
	return renders, nil
}

func pad(lo, hi float64) (float64, float64) {
	span := hi - lo
	if span <= 0 {
		return lo - 1, hi + 1
	}
	p := span * paddingFrac
	return lo - p, hi + p
}

func dimensionsFor(uMin, uMax, vMin, vMax float64) (width, height int) {
	width = defaultWidth
	uSpan, vSpan := uMax-uMin, vMax-vMin
	aspect := 1.0
	if uSpan > 0 {
		aspect = vSpan / uSpan
	}
	height = int(float64(width) * aspect)
	if height < minDimension {
		height = minDimension
	}
	if height > maxDimension {
		height = maxDimension
	}
	return width, height
}

func clampDimension(h int) int {
	if h < minDimension {
		return minDimension
	}
	if h > maxDimension {
		return maxDimension
	}
	return h
}

// renderOneAxis renders the old system, new system, and their diff
// overlay at one fixed slice, optionally stamping both systems' contours
// onto all three images.
func renderOneAxis(oldSys, newSys System, axis geom.Axis, slicePos, uMin, uMax, vMin, vMax float64, width, height int, drawContours bool) (Render, error) {
	if oldSys.Query == nil || newSys.Query == nil {
		return Render{}, fmt.Errorf("visualdiff: both systems need a PointInCellQuery")
	}

	view := sliceView{width: width, height: height, uMin: uMin, uMax: uMax, vMin: vMin, vMax: vMax}

	oldCells, oldMats := sampleGridFull(oldSys.Query, axis, slicePos, view)
	newCells, newMats := sampleGridFull(newSys.Query, axis, slicePos, view)

	before := bmpwriter.NewImage(width, height)
	after := bmpwriter.NewImage(width, height)
	diff := bmpwriter.NewImage(width, height)

	for i := 0; i < width*height; i++ {
		oc, om := oldCells[i], oldMats[i]
		nc, nm := newCells[i], newMats[i]
		x, y := i%width, i/width

		bc := idToColor(om)
		before.Set(x, y, bc.R, bc.G, bc.B)
		ac := idToColor(nm)
		after.Set(x, y, ac.R, ac.G, ac.B)
		dc := computeDiffOverlay(oc, om, nc, nm)
		diff.Set(x, y, dc.R, dc.G, dc.B)
	}

	if drawContours {
		for _, sys := range []System{oldSys, newSys} {
			if sys.Contours == nil {
				continue
			}
			curves := sys.Contours.SliceCurves(axis, slicePos, uMin, uMax, vMin, vMax)
			view.stampContours(before, curves, colContour)
			view.stampContours(after, curves, colContour)
			view.stampContours(diff, curves, colContour)
		}
	}

	return Render{Axis: axis, SlicePos: slicePos, Before: before, After: after, Diff: diff}, nil
}

// sampleGridFull renders a full width x height (cell, material) grid,
// one sample per output pixel, matching the view's pixel centers.
func sampleGridFull(query geom.PointInCellQuery, axis geom.Axis, slicePos float64, view sliceView) (cells, mats []int) {
	cells = make([]int, view.width*view.height)
	mats = make([]int, view.width*view.height)
	for y := 0; y < view.height; y++ {
		v := view.vMax - (view.vMax-view.vMin)*(float64(y)+0.5)/float64(view.height)
		for x := 0; x < view.width; x++ {
			u := view.uMin + (view.uMax-view.uMin)*(float64(x)+0.5)/float64(view.width)
			c, m := query.CellAt(axis, slicePos, u, v)
			idx := y*view.width + x
			cells[idx] = c
			mats[idx] = m
		}
	}
	return cells, mats
}

func writeRender(prefix string, axis geom.Axis, r Render) error {
	suffix := axis.String()
	if err := bmpwriter.WriteFile(fmt.Sprintf("%s_%s_before.bmp", prefix, suffix), r.Before); err != nil {
		return err
	}
	if err := bmpwriter.WriteFile(fmt.Sprintf("%s_%s_after.bmp", prefix, suffix), r.After); err != nil {
		return err
	}
	if err := bmpwriter.WriteFile(fmt.Sprintf("%s_%s_diff.bmp", prefix, suffix), r.Diff); err != nil {
		return err
	}
	return nil
}
