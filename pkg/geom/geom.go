// Package geom defines the contract between aleagit's core (fingerprinting,
// diffing, blame, visual diff) and the geometry parsers, point-in-cell query
// engine, and slice-contour extractor that produce and consume it.
//
// Those collaborators are out of scope for this module (spec.md §1): aleagit
// never parses MCNP or OpenMC input decks itself in the general case, and
// never runs a CSG point-containment test. It only reads the shapes below.
package geom

import "math"

// Operation tags the kind of a CSG internal tree node.
type Operation int

const (
	OpUnion Operation = iota
	OpIntersection
	OpComplement
)

// NodeID addresses a node in a cell's CSG tree. InvalidNode denotes the
// absence of a node (an empty tree, or a missing child).
type NodeID int32

// InvalidNode is the sentinel for "no node here", mirroring the original's
// UINT32_MAX / ALEA_NODE_ID_INVALID sentinel.
const InvalidNode NodeID = -1

// MaxPrimitiveSlots bounds the number of float64 "slots" a surface's
// primitive-data struct may carry. Reference parsers zero-initialise unused
// slots so that the fingerprint's "hash padding as zeroes" rule (spec.md
// §4.1) holds without reflection over an external struct layout.
const MaxPrimitiveSlots = 12

// PrimitiveData is a fixed-size float64 buffer big enough to hold any
// supported surface's coefficients, re-interpreted by the fingerprint
// builder as a sequence of double slots (spec.md §4.1).
type PrimitiveData [MaxPrimitiveSlots]float64

// TreeNode is either a primitive leaf (referencing a surface id and a
// sense) or an internal node (an operation over up to two children).
type TreeNode struct {
	IsLeaf bool

	// Leaf fields.
	SurfaceID int
	Sense     int // +1 or -1

	// Internal fields.
	Op          Operation
	Left, Right NodeID
}

// BBox is an axis-aligned bounding box in the geometry's native units.
type BBox struct {
	MinX, MinY, MinZ float64
	MaxX, MaxY, MaxZ float64
}

// Union returns the smallest BBox containing both b and o.
func (b BBox) Union(o BBox) BBox {
	return BBox{
		MinX: min(b.MinX, o.MinX), MaxX: max(b.MaxX, o.MaxX),
		MinY: min(b.MinY, o.MinY), MaxY: max(b.MaxY, o.MaxY),
		MinZ: min(b.MinZ, o.MinZ), MaxZ: max(b.MaxZ, o.MaxZ),
	}
}

// Empty reports whether the box has never been extended (used as the
// identity element for a running Union).
func (b BBox) Empty() bool {
	return b.MinX > b.MaxX
}

// EmptyBBox is the identity element for Union: unioning it with any box
// yields that box unchanged.
var EmptyBBox = BBox{
	MinX: math.MaxFloat64, MinY: math.MaxFloat64, MinZ: math.MaxFloat64,
	MaxX: -math.MaxFloat64, MaxY: -math.MaxFloat64, MaxZ: -math.MaxFloat64,
}

// LatticeInfo captures a cell's optional lattice tiling. LatType == 0 means
// the cell is not a lattice and the remaining fields are meaningless.
type LatticeInfo struct {
	LatType    int
	Dims       [6]int     // lattice extents along its three index axes (lo/hi pairs)
	Pitch      [3]float64 // tile pitch per axis
	LowerLeft  [3]float64 // coordinate of the lattice's (0,0,0) tile corner
	Fill       []int      // flattened fill-universe array, row-major; nil if absent
}

// CellInfo is the metadata a parsed geometry exposes for one cell slot.
type CellInfo struct {
	CellID       int
	MaterialID   int
	UniverseID   int
	FillUniverse int // -1 = none
	Density      float64
	Root         NodeID
	BBox         BBox
	Lattice      LatticeInfo
}

// IsGraveyard reports whether this cell is the distinguished unbounded
// outer cell (spec.md §4.6, GLOSSARY).
func (c CellInfo) IsGraveyard() bool {
	return c.UniverseID == 0 && c.MaterialID == 0 && c.FillUniverse == -1
}

// SurfaceInfo is the metadata a parsed geometry exposes for one surface
// slot.
type SurfaceInfo struct {
	SurfaceID     int
	PrimitiveType int
	BoundaryType  int
	Data          PrimitiveData
}

// Geometry is a read-only parsed geometry: ordered cell and surface slots,
// a CSG tree forest addressed by NodeID, and a universe count. This is the
// "parsed geometry (external)" of spec.md §3 — produced by a geometry
// parser, consumed by the fingerprint builder and the visual differ.
type Geometry interface {
	CellCount() int
	Cell(i int) CellInfo

	SurfaceCount() int
	Surface(i int) SurfaceInfo

	UniverseCount() int

	// TreeNode returns the node addressed by id. Calling it with
	// InvalidNode is a programmer error; callers must check id first.
	TreeNode(id NodeID) TreeNode
}

// PointInCellQuery is the external point-in-cell query engine (spec.md §1,
// §4.6): given a sampling point, which cell (and its material) contains it.
// The visual differ consumes this; aleagit does not implement it.
type PointInCellQuery interface {
	// CellAt returns the cell id and material id containing the point
	// (u, v, slicePos) projected back into 3-space per the axis
	// convention in spec.md §4.6. Returns (0, 0) if no cell contains the
	// point (rendered as empty/background).
	CellAt(axis Axis, slicePos, u, v float64) (cellID, materialID int)
}

// Axis is a slicing normal for the visual differ.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "X"
	case AxisY:
		return "Y"
	case AxisZ:
		return "Z"
	}
	return "?"
}

// Coord returns the lowercase coordinate name this axis slices along.
func (a Axis) Coord() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	}
	return "?"
}

// SliceContourExtractor is the external collaborator that, given a plane,
// returns the curves where the geometry's surfaces intersect it (spec.md
// §4.6 "Contour overlay"). aleagit does not implement curve extraction; it
// only rasterises whatever curves this interface returns.
type SliceContourExtractor interface {
	SliceCurves(axis Axis, slicePos, uMin, uMax, vMin, vMax float64) []Curve
}

// CurveType tags the kind of a Curve (a tagged sum, dispatched by the
// visual differ's rasteriser).
type CurveType int

const (
	CurveLine CurveType = iota
	CurveLineSegment
	CurveCircle
	CurveArc
	CurveEllipse
	CurveEllipseArc
	CurvePolygon
	CurveParallelLines
)

// Curve is one parametric curve in a slice plane's in-plane (u, v)
// coordinates. Only the fields relevant to Type are meaningful.
type Curve struct {
	Type CurveType

	// Line / LineSegment / ParallelLines: a point and direction.
	Point, Direction [2]float64
	// ParallelLines: the second line's point (shares Direction).
	Point2 [2]float64

	// LineSegment / Arc / EllipseArc: parametric range.
	TMin, TMax float64

	// Circle / Arc: centre and radius.
	Center [2]float64
	Radius float64

	// Ellipse / EllipseArc: semi-axes and rotation (radians).
	SemiA, SemiB, Angle float64

	// Polygon: vertices in order, and whether the last->first edge closes it.
	Vertices [][2]float64
	Closed   bool
}
