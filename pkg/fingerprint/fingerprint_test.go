package fingerprint

import (
	"testing"

	"github.com/giovanni-mariano/aleagit/internal/geomtest"
	"github.com/giovanni-mariano/aleagit/pkg/geom"
)

func twoCellFixture() *geomtest.Geometry {
	g := geomtest.New()
	g.AddLeaf(0, 1, +1)
	g.AddLeaf(1, 2, -1)
	g.AddOp(2, geom.OpIntersection, 0, 1)
	g.SimpleCell(10, 100, 1.5, 2)

	g.AddLeaf(3, 3, +1)
	g.SimpleCell(20, 200, 2.5, 3)

	g.Surfaces = []geom.SurfaceInfo{
		{SurfaceID: 1, PrimitiveType: 1, Data: geom.PrimitiveData{0: 0, 1: 0, 2: 1, 3: 5}},
		{SurfaceID: 2, PrimitiveType: 1, Data: geom.PrimitiveData{0: 0, 1: 0, 2: 1, 3: 10}},
		{SurfaceID: 3, PrimitiveType: 5, Data: geom.PrimitiveData{0: 1, 1: 2, 2: 3, 3: 4}},
	}
	return g
}

func TestBuildIsDeterministic(t *testing.T) {
	g := twoCellFixture()
	a := Build(g)
	b := Build(g)

	if len(a.Cells) != len(b.Cells) || len(a.Surfaces) != len(b.Surfaces) {
		t.Fatalf("length mismatch across repeated builds")
	}
	for i := range a.Cells {
		if a.Cells[i] != b.Cells[i] {
			t.Errorf("cell %d differs across repeated builds: %+v vs %+v", i, a.Cells[i], b.Cells[i])
		}
	}
	for i := range a.Surfaces {
		if a.Surfaces[i] != b.Surfaces[i] {
			t.Errorf("surface %d differs across repeated builds: %+v vs %+v", i, a.Surfaces[i], b.Surfaces[i])
		}
	}
}

func TestBuildSortsByID(t *testing.T) {
	g := geomtest.New()
	g.AddLeaf(0, 1, +1)
	g.SimpleCell(30, 1, 1.0, 0)
	g.SimpleCell(10, 1, 1.0, 0)
	g.SimpleCell(20, 1, 1.0, 0)
	g.Surfaces = []geom.SurfaceInfo{{SurfaceID: 1, PrimitiveType: 1}}

	fp := Build(g)
	want := []int{10, 20, 30}
	for i, id := range want {
		if fp.Cells[i].CellID != id {
			t.Errorf("cell[%d].CellID = %d, want %d", i, fp.Cells[i].CellID, id)
		}
	}
}

func TestUnionOperandOrderChangesHash(t *testing.T) {
	// Positional hashing is intentional: swapping a union's operands
	// must change the tree hash even though the operation is
	// semantically commutative.
	g := geomtest.New()
	g.AddLeaf(0, 1, +1)
	g.AddLeaf(1, 2, +1)
	g.AddOp(2, geom.OpUnion, 0, 1)
	g.AddOp(3, geom.OpUnion, 1, 0)
	g.SimpleCell(1, 1, 1.0, 2)
	g.SimpleCell(2, 1, 1.0, 3)
	g.Surfaces = []geom.SurfaceInfo{{SurfaceID: 1, PrimitiveType: 1}, {SurfaceID: 2, PrimitiveType: 1}}

	fp := Build(g)
	if fp.Cells[0].TreeHash == fp.Cells[1].TreeHash {
		t.Error("swapping union operands should change the tree hash, but hashes matched")
	}
}

func TestDensityToleranceNearExact(t *testing.T) {
	a := CellFP{CellID: 1, Density: 1.0}
	b := CellFP{CellID: 1, Density: 1.0 + 5e-7}
	if !CellEqual(a, b) {
		t.Errorf("densities within tolerance reported as different: %+v vs %+v", a, b)
	}

	c := CellFP{CellID: 1, Density: 1.0 + 1e-5}
	if CellEqual(a, c) {
		t.Errorf("densities outside tolerance reported as equal: %+v vs %+v", a, c)
	}
}

func TestCellDiffFlagsMaterialOnly(t *testing.T) {
	a := CellFP{CellID: 1, MaterialID: 100, Density: 1.0, TreeHash: 5, LatticeHash: 9}
	b := a
	b.MaterialID = 200

	flags := CellDiff(a, b)
	if flags != CellChgMaterial {
		t.Errorf("CellDiff = %b, want only CellChgMaterial", flags)
	}
}

func TestCellDiffFlagsRegionOnly(t *testing.T) {
	a := CellFP{CellID: 1, MaterialID: 100, Density: 1.0, TreeHash: 5, LatticeHash: 9}
	b := a
	b.TreeHash = 6

	flags := CellDiff(a, b)
	if flags != CellChgRegion {
		t.Errorf("CellDiff = %b, want only CellChgRegion", flags)
	}
}

func TestSurfaceDiffFlagsTypeChange(t *testing.T) {
	a := SurfaceFP{SurfaceID: 1, PrimitiveType: 1, BoundaryType: 0, DataHash: 7}
	b := a
	b.PrimitiveType = 4

	flags := SurfaceDiff(a, b)
	if flags != SurfChgType {
		t.Errorf("SurfaceDiff = %b, want only SurfChgType", flags)
	}
}

func TestEmptyTreeHashIsStable(t *testing.T) {
	g := geomtest.New()
	h1 := hashTree(g, geom.InvalidNode)
	h2 := hashTree(g, geom.InvalidNode)
	if h1 != h2 || h1 != fnvInit() {
		t.Errorf("empty-tree hash should always equal the FNV offset basis")
	}
}
