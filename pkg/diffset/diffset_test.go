package diffset

import (
	"testing"

	"github.com/giovanni-mariano/aleagit/pkg/fingerprint"
)

func TestDiffAddedRemovedModified(t *testing.T) {
	oldFP := fingerprint.Set{
		Cells: []fingerprint.CellFP{
			{CellID: 1, MaterialID: 10, Density: 1.0},
			{CellID: 2, MaterialID: 20, Density: 2.0},
		},
		Surfaces: []fingerprint.SurfaceFP{
			{SurfaceID: 1, PrimitiveType: 1, DataHash: 100},
		},
	}
	newFP := fingerprint.Set{
		Cells: []fingerprint.CellFP{
			{CellID: 1, MaterialID: 10, Density: 1.0}, // unchanged
			{CellID: 3, MaterialID: 30, Density: 3.0},  // added
		},
		Surfaces: []fingerprint.SurfaceFP{
			{SurfaceID: 1, PrimitiveType: 1, DataHash: 999}, // modified
		},
	}

	r := Diff(oldFP, newFP)

	if r.CellsAdded != 1 || r.CellsRemoved != 1 || r.CellsModified != 0 {
		t.Fatalf("cell counters = added:%d removed:%d modified:%d, want 1,1,0",
			r.CellsAdded, r.CellsRemoved, r.CellsModified)
	}
	if len(r.Cells) != 2 {
		t.Fatalf("len(Cells) = %d, want 2 (cell 1 unchanged should be omitted)", len(r.Cells))
	}
	if r.SurfsModified != 1 {
		t.Fatalf("SurfsModified = %d, want 1", r.SurfsModified)
	}
	if r.Surfaces[0].Flags&fingerprint.SurfChgData == 0 {
		t.Error("expected SurfChgData flag on the modified surface")
	}
}

func TestDiffNoChanges(t *testing.T) {
	fp := fingerprint.Set{
		Cells:    []fingerprint.CellFP{{CellID: 1, Density: 1.0}},
		Surfaces: []fingerprint.SurfaceFP{{SurfaceID: 1}},
	}
	r := Diff(fp, fp)
	if r.HasChanges() {
		t.Errorf("diffing a fingerprint set against itself should report no changes, got %+v", r)
	}
}

func TestDiffIsAntisymmetric(t *testing.T) {
	oldFP := fingerprint.Set{Cells: []fingerprint.CellFP{{CellID: 1, Density: 1.0}}}
	newFP := fingerprint.Set{Cells: []fingerprint.CellFP{{CellID: 2, Density: 1.0}}}

	forward := Diff(oldFP, newFP)
	backward := Diff(newFP, oldFP)

	if forward.CellsAdded != backward.CellsRemoved {
		t.Errorf("forward.CellsAdded=%d should equal backward.CellsRemoved=%d",
			forward.CellsAdded, backward.CellsRemoved)
	}
	if forward.CellsRemoved != backward.CellsAdded {
		t.Errorf("forward.CellsRemoved=%d should equal backward.CellsAdded=%d",
			forward.CellsRemoved, backward.CellsAdded)
	}
}

func TestDiffDensityOnlyFlagsDensity(t *testing.T) {
	oldFP := fingerprint.Set{Cells: []fingerprint.CellFP{{CellID: 1, MaterialID: 5, Density: 1.0}}}
	newFP := fingerprint.Set{Cells: []fingerprint.CellFP{{CellID: 1, MaterialID: 5, Density: 1.5}}}

	r := Diff(oldFP, newFP)
	if len(r.Cells) != 1 {
		t.Fatalf("expected one modified cell, got %d", len(r.Cells))
	}
	if r.Cells[0].Flags != fingerprint.CellChgDensity {
		t.Errorf("Flags = %b, want only CellChgDensity", r.Cells[0].Flags)
	}
}
