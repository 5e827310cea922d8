package visualdiff

import (
	"testing"

	"github.com/giovanni-mariano/aleagit/internal/bmpwriter"
	"github.com/giovanni-mariano/aleagit/internal/geomtest"
	"github.com/giovanni-mariano/aleagit/pkg/geom"
)

// halfPlaneQuery answers CellAt with one of two cells split at x == 0 on
// a Z-axis slice (u == x, v == y), so a diff rendered along Z has a
// sharp, predictable boundary.
type halfPlaneQuery struct {
	leftCell, leftMat   int
	rightCell, rightMat int
}

func (q halfPlaneQuery) CellAt(axis geom.Axis, slicePos, u, v float64) (int, int) {
	if u < 0 {
		return q.leftCell, q.leftMat
	}
	return q.rightCell, q.rightMat
}

func fixtureGeometry(t *testing.T, rightMaterial int) *geomtest.Geometry {
	t.Helper()
	g := geomtest.New()
	g.AddLeaf(0, 1, 1)
	g.SimpleCell(1, 1, 1.0, 0)
	g.Cells[0].BBox = geom.BBox{MinX: -10, MaxX: 0, MinY: -10, MaxY: 10, MinZ: -10, MaxZ: 10}

	g.AddLeaf(1, 2, 1)
	g.SimpleCell(2, rightMaterial, 1.0, 1)
	g.Cells[1].BBox = geom.BBox{MinX: 0, MaxX: 10, MinY: -10, MaxY: 10, MinZ: -10, MaxZ: 10}

	return g
}

func TestInnerBBoxExcludesGraveyard(t *testing.T) {
	g := fixtureGeometry(t, 2)
	g.AddLeaf(2, 3, 1)
	g.Cells = append(g.Cells, geom.CellInfo{
		CellID: 99, MaterialID: 0, FillUniverse: -1, UniverseID: 0, Root: 2,
		BBox: geom.BBox{MinX: -500, MaxX: 500, MinY: -500, MaxY: 500, MinZ: -500, MaxZ: 500},
	})

	bbox := InnerBBox(g)
	if bbox.MaxX != 10 || bbox.MinX != -10 {
		t.Errorf("InnerBBox included the graveyard cell: %+v", bbox)
	}
}

func TestInnerBBoxClampsToExtent(t *testing.T) {
	g := geomtest.New()
	g.AddLeaf(0, 1, 1)
	g.SimpleCell(1, 1, 1.0, 0)
	g.Cells[0].BBox = geom.BBox{MinX: -5000, MaxX: 5000, MinY: -5000, MaxY: 5000, MinZ: -5000, MaxZ: 5000}

	bbox := InnerBBox(g)
	if bbox.MaxX != clampExtent || bbox.MinX != -clampExtent {
		t.Errorf("InnerBBox did not clamp: %+v", bbox)
	}
}

func TestInnerBBoxFallsBackToAllCellsWhenAllGraveyard(t *testing.T) {
	g := geomtest.New()
	g.AddLeaf(0, 1, 1)
	g.Cells = append(g.Cells, geom.CellInfo{
		CellID: 1, MaterialID: 0, FillUniverse: -1, UniverseID: 0, Root: 0,
		BBox: geom.BBox{MinX: -1, MaxX: 1, MinY: -1, MaxY: 1, MinZ: -1, MaxZ: 1},
	})

	bbox := InnerBBox(g)
	if bbox.Empty() {
		t.Fatal("InnerBBox should fall back to the all-graveyard union, not come back empty")
	}
}

func TestIDToColorIsStableAndBackgroundIsGray(t *testing.T) {
	c1 := idToColor(5)
	c2 := idToColor(5)
	if c1 != c2 {
		t.Errorf("idToColor not stable: %+v vs %+v", c1, c2)
	}
	if idToColor(0) != colEmpty || idToColor(-3) != colEmpty {
		t.Errorf("idToColor(<=0) should be the background gray")
	}
}

func TestComputeDiffOverlayBranches(t *testing.T) {
	cases := []struct {
		name                   string
		oc, om, nc, nm         int
		want                   RGB
	}{
		{"unchanged", 1, 1, 1, 1, dim(idToColor(1))},
		{"added", 0, 0, 2, 5, colAdded},
		{"removed", 2, 5, 0, 0, colRemoved},
		{"both differ", 1, 1, 2, 2, colMaterial},
		{"cell only", 1, 1, 2, 1, colStructure},
		{"material only", 1, 1, 1, 2, colMaterial},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := computeDiffOverlay(c.oc, c.om, c.nc, c.nm)
			if got != c.want {
				t.Errorf("computeDiffOverlay(%d,%d,%d,%d) = %+v, want %+v", c.oc, c.om, c.nc, c.nm, got, c.want)
			}
		})
	}
}

func TestFindBestSliceForAxisPrefersTheDiffRegion(t *testing.T) {
	oldQuery := halfPlaneQuery{leftCell: 1, leftMat: 1, rightCell: 2, rightMat: 2}
	newQuery := halfPlaneQuery{leftCell: 1, leftMat: 1, rightCell: 2, rightMat: 9}

	pos, diffCount, geomCount := findBestSliceForAxis(oldQuery, newQuery, geom.AxisZ, -10, 10, -10, 10, -10, 10)
	if diffCount <= 0 {
		t.Fatalf("expected a nonzero diff count, got %d at pos %v", diffCount, pos)
	}
	if geomCount <= 0 {
		t.Errorf("expected nonzero geometry coverage, got %d", geomCount)
	}
}

func TestVisualDiffRendersThreeImagesOfRequestedSize(t *testing.T) {
	oldSys := System{
		Geometry: fixtureGeometry(t, 2),
		Query:    halfPlaneQuery{leftCell: 1, leftMat: 1, rightCell: 2, rightMat: 2},
	}
	newSys := System{
		Geometry: fixtureGeometry(t, 9),
		Query:    halfPlaneQuery{leftCell: 1, leftMat: 1, rightCell: 2, rightMat: 9},
	}

	render, err := renderOneAxis(oldSys, newSys, geom.AxisZ, 0, -10, 10, -10, 10, 64, 64, false)
	if err != nil {
		t.Fatalf("renderOneAxis: %v", err)
	}
	if render.Before.Width != 64 || render.Before.Height != 64 {
		t.Errorf("before image size = %dx%d, want 64x64", render.Before.Width, render.Before.Height)
	}
	if render.After.Width != 64 || render.After.Height != 64 {
		t.Errorf("after image size = %dx%d, want 64x64", render.After.Width, render.After.Height)
	}
	if render.Diff.Width != 64 || render.Diff.Height != 64 {
		t.Errorf("diff image size = %dx%d, want 64x64", render.Diff.Width, render.Diff.Height)
	}

	// Somewhere on the right half (x > 0) the material changed, so the
	// diff overlay must contain the material-change color.
	found := false
	for x := 33; x < 64; x++ {
		r, g, b := render.Diff.At(x, 32)
		if (RGB{r, g, b}) == colMaterial {
			found = true
			break
		}
	}
	if !found {
		t.Error("diff overlay never shows the material-change color on the changed half")
	}
}

func TestRenderOneAxisColorsBySameMaterialNotCellID(t *testing.T) {
	// Two distinct cell ids sharing one material id: the before/after
	// images must come out a uniform color across both halves, since
	// spec.md requires single-system pixels to be colored by material,
	// not by cell.
	sys := System{
		Geometry: fixtureGeometry(t, 7),
		Query:    halfPlaneQuery{leftCell: 1, leftMat: 7, rightCell: 2, rightMat: 7},
	}

	render, err := renderOneAxis(sys, sys, geom.AxisZ, 0, -10, 10, -10, 10, 64, 64, false)
	if err != nil {
		t.Fatalf("renderOneAxis: %v", err)
	}

	lr, lg, lb := render.Before.At(10, 32)
	rr, rg, rb := render.Before.At(54, 32)
	if (RGB{lr, lg, lb}) != (RGB{rr, rg, rb}) {
		t.Errorf("before image colors = %+v and %+v, want equal for cells sharing a material", RGB{lr, lg, lb}, RGB{rr, rg, rb})
	}
	if (RGB{lr, lg, lb}) != idToColor(7) {
		t.Errorf("before image color = %+v, want idToColor(7) = %+v", RGB{lr, lg, lb}, idToColor(7))
	}
}

func TestDimensionsForRespectsAspectAndClamps(t *testing.T) {
	w, h := dimensionsFor(0, 100, 0, 100)
	if w != defaultWidth || h != defaultWidth {
		t.Errorf("square region: got %dx%d, want %dx%d", w, h, defaultWidth, defaultWidth)
	}

	w, h = dimensionsFor(0, 100, 0, 1)
	if h != minDimension {
		t.Errorf("flat region height = %d, want clamped to %d", h, minDimension)
	}

	w, h = dimensionsFor(0, 1, 0, 1000)
	if h != maxDimension {
		t.Errorf("tall region height = %d, want clamped to %d", h, maxDimension)
	}
}

func TestStampCurveCircleStampsRightmostPoint(t *testing.T) {
	view := sliceView{width: 100, height: 100, uMin: -10, uMax: 10, vMin: -10, vMax: 10}
	img := bmpwriter.NewImage(100, 100)
	curve := geom.Curve{Type: geom.CurveCircle, Center: [2]float64{0, 0}, Radius: 5}
	view.stampCurve(img, curve, colContour)

	// Spot check the rightmost point on the circle lands near (5, 0) in
	// u/v space, i.e. near pixel x = 75 (midpoint 50 + 5/10*50).
	hit := false
	for x := 70; x <= 80; x++ {
		r, g, b := img.At(x, 50)
		if (RGB{r, g, b}) == colContour {
			hit = true
			break
		}
	}
	if !hit {
		t.Error("circle contour did not stamp near its rightmost point")
	}
}
