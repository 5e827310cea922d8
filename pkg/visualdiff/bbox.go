package visualdiff

import (
	"github.com/dhconnelly/rtreego"

	"github.com/giovanni-mariano/aleagit/pkg/geom"
)

// boxedCell adapts a cell's bounding box to rtreego.Spatial so the
// bounding-box union below can go through an R-tree round-trip instead
// of a hand-rolled min/max sweep.
type boxedCell struct {
	bb geom.BBox
}

func (b boxedCell) Bounds() rtreego.Rect {
	rect, err := rtreego.NewRect(
		rtreego.Point{b.bb.MinX, b.bb.MinY, b.bb.MinZ},
		[]float64{
			nonZero(b.bb.MaxX - b.bb.MinX),
			nonZero(b.bb.MaxY - b.bb.MinY),
			nonZero(b.bb.MaxZ - b.bb.MinZ),
		},
	)
	if err != nil {
		// A degenerate (zero-volume) box is still a valid cell bbox;
		// nonZero already guards the common cause, so this can only
		// happen for a NaN/Inf coordinate, which a parser should never
		// produce. Treat it as a point at the origin rather than panic.
		rect, _ = rtreego.NewRect(rtreego.Point{0, 0, 0}, []float64{1e-9, 1e-9, 1e-9})
	}
	return rect
}

// nonZero nudges a zero-length dimension to a tiny positive value:
// rtreego rejects zero-length rectangle sides.
func nonZero(d float64) float64 {
	if d <= 0 {
		return 1e-9
	}
	return d
}

const clampExtent = 1000.0

func clamp(v float64) float64 {
	if v < -clampExtent {
		return -clampExtent
	}
	if v > clampExtent {
		return clampExtent
	}
	return v
}

// InnerBBox returns the union of every non-graveyard cell's bounding box
// in g, clamped to +-1000 in each axis. If every cell is a graveyard
// cell (or g has no cells), it falls back to the union of all cells'
// bounding boxes unclamped-then-clamped the same way.
func InnerBBox(g geom.Geometry) geom.BBox {
	tree := rtreego.NewTree(3, 4, 16)

	any := false
	for i := 0; i < g.CellCount(); i++ {
		cell := g.Cell(i)
		if cell.IsGraveyard() {
			continue
		}
		tree.Insert(boxedCell{cell.BBox})
		any = true
	}

	if !any {
		for i := 0; i < g.CellCount(); i++ {
			tree.Insert(boxedCell{g.Cell(i).BBox})
		}
	}

	union := geom.EmptyBBox
	hugeRect, _ := rtreego.NewRect(
		rtreego.Point{-1e18, -1e18, -1e18},
		[]float64{2e18, 2e18, 2e18},
	)
	for _, sp := range tree.SearchIntersect(hugeRect) {
		union = union.Union(sp.(boxedCell).bb)
	}

	if union.Empty() {
		// No cells at all: return a zero box rather than the
		// all-positive-infinity sentinel EmptyBBox.
		return geom.BBox{}
	}

	return geom.BBox{
		MinX: clamp(union.MinX), MaxX: clamp(union.MaxX),
		MinY: clamp(union.MinY), MaxY: clamp(union.MaxY),
		MinZ: clamp(union.MinZ), MaxZ: clamp(union.MaxZ),
	}
}

// AxisRange returns bb's extent along axis.
func AxisRange(bb geom.BBox, axis geom.Axis) (lo, hi float64) {
	switch axis {
	case geom.AxisX:
		return bb.MinX, bb.MaxX
	case geom.AxisY:
		return bb.MinY, bb.MaxY
	default:
		return bb.MinZ, bb.MaxZ
	}
}

// UVRange returns bb's extent along the two in-plane axes for a slice
// normal to axis: Z-slices use (x, y), Y-slices use (x, z), X-slices use
// (y, z).
func UVRange(bb geom.BBox, axis geom.Axis) (uMin, uMax, vMin, vMax float64) {
	switch axis {
	case geom.AxisZ:
		return bb.MinX, bb.MaxX, bb.MinY, bb.MaxY
	case geom.AxisY:
		return bb.MinX, bb.MaxX, bb.MinZ, bb.MaxZ
	default: // AxisX
		return bb.MinY, bb.MaxY, bb.MinZ, bb.MaxZ
	}
}
