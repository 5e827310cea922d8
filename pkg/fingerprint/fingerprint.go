package fingerprint

import (
	"math"
	"sort"

	"github.com/giovanni-mariano/aleagit/pkg/geom"
)

// CellChange is a bitmask of the fields that differ between two CellFP
// values believed to represent "the same" cell across two geometries.
type CellChange uint32

const (
	CellChgMaterial CellChange = 1 << iota
	CellChgDensity
	CellChgRegion
	CellChgUniverse
	CellChgFill
	CellChgLattice
)

// SurfaceChange is a bitmask of the fields that differ between two
// SurfaceFP values believed to represent "the same" surface.
type SurfaceChange uint32

const (
	SurfChgType SurfaceChange = 1 << iota
	SurfChgData
	SurfChgBoundary
)

// CellFP is the order-independent fingerprint of one cell: everything
// needed to detect whether the cell changed, without retaining its full
// CSG tree.
type CellFP struct {
	CellID       int
	MaterialID   int
	Density      float64
	UniverseID   int
	FillUniverse int
	LatType      int
	TreeHash     uint64
	LatticeHash  uint64
}

// SurfaceFP is the order-independent fingerprint of one surface.
type SurfaceFP struct {
	SurfaceID     int
	PrimitiveType int
	BoundaryType  int
	DataHash      uint64
}

// Set is a geometry's complete fingerprint: its cells and surfaces,
// sorted ascending by id so two Sets can be compared by a linear merge.
type Set struct {
	Cells    []CellFP
	Surfaces []SurfaceFP
}

// Build computes the fingerprint set of g. The result's Cells and
// Surfaces slices are sorted ascending by id.
func Build(g geom.Geometry) Set {
	nc := g.CellCount()
	cells := make([]CellFP, nc)
	for i := 0; i < nc; i++ {
		info := g.Cell(i)
		cells[i] = CellFP{
			CellID:       info.CellID,
			MaterialID:   info.MaterialID,
			Density:      info.Density,
			UniverseID:   info.UniverseID,
			FillUniverse: info.FillUniverse,
			LatType:      info.Lattice.LatType,
			TreeHash:     hashTree(g, info.Root),
			LatticeHash:  hashLattice(info.Lattice),
		}
	}
	sort.Slice(cells, func(i, j int) bool { return cells[i].CellID < cells[j].CellID })

	ns := g.SurfaceCount()
	surfaces := make([]SurfaceFP, ns)
	for i := 0; i < ns; i++ {
		info := g.Surface(i)
		surfaces[i] = SurfaceFP{
			SurfaceID:     info.SurfaceID,
			PrimitiveType: info.PrimitiveType,
			BoundaryType:  info.BoundaryType,
			DataHash:      hashSurfaceData(info.PrimitiveType, info.Data),
		}
	}
	sort.Slice(surfaces, func(i, j int) bool { return surfaces[i].SurfaceID < surfaces[j].SurfaceID })

	return Set{Cells: cells, Surfaces: surfaces}
}

// densityEqual reports whether two densities are equal within tolerance:
// |a-b| <= max(1e-6, 1e-6*|a|). The tolerance is asymmetric in a and b by
// construction (it scales off a, not off max(|a|,|b|)) to match the
// original comparator exactly.
func densityEqual(a, b float64) bool {
	dd := math.Abs(a - b)
	return !(dd > 1e-6 && dd > math.Abs(a)*1e-6)
}

// CellEqual reports whether a and b (believed to be the same cell id)
// are indistinguishable: same material, universe, fill, lattice type,
// tree hash, and lattice hash, and density within tolerance.
func CellEqual(a, b CellFP) bool {
	return CellDiff(a, b) == 0
}

// CellDiff returns the bitmask of fields that differ between a and b.
func CellDiff(a, b CellFP) CellChange {
	var flags CellChange
	if a.MaterialID != b.MaterialID {
		flags |= CellChgMaterial
	}
	if !densityEqual(a.Density, b.Density) {
		flags |= CellChgDensity
	}
	if a.TreeHash != b.TreeHash {
		flags |= CellChgRegion
	}
	if a.UniverseID != b.UniverseID {
		flags |= CellChgUniverse
	}
	if a.FillUniverse != b.FillUniverse {
		flags |= CellChgFill
	}
	if a.LatticeHash != b.LatticeHash {
		flags |= CellChgLattice
	}
	return flags
}

// SurfaceEqual reports whether a and b (believed to be the same surface
// id) are indistinguishable.
func SurfaceEqual(a, b SurfaceFP) bool {
	return SurfaceDiff(a, b) == 0
}

// SurfaceDiff returns the bitmask of fields that differ between a and b.
func SurfaceDiff(a, b SurfaceFP) SurfaceChange {
	var flags SurfaceChange
	if a.PrimitiveType != b.PrimitiveType {
		flags |= SurfChgType
	}
	if a.DataHash != b.DataHash {
		flags |= SurfChgData
	}
	if a.BoundaryType != b.BoundaryType {
		flags |= SurfChgBoundary
	}
	return flags
}
