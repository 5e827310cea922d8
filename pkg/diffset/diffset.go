// Package diffset compares two fingerprint sets and reports the cells and
// surfaces that were added, removed, or modified between them.
package diffset

import "github.com/giovanni-mariano/aleagit/pkg/fingerprint"

// Change is the kind of structural change a ResultEntry records.
type Change int

const (
	Unchanged Change = iota
	Added
	Removed
	Modified
)

// CellEntry is one cell's diff outcome.
type CellEntry struct {
	Change Change
	ID     int
	Flags  fingerprint.CellChange
	Old    fingerprint.CellFP
	New    fingerprint.CellFP
}

// SurfaceEntry is one surface's diff outcome.
type SurfaceEntry struct {
	Change Change
	ID     int
	Flags  fingerprint.SurfaceChange
	Old    fingerprint.SurfaceFP
	New    fingerprint.SurfaceFP
}

// Result is a complete structural diff between two fingerprint sets.
// Cells and Surfaces contain only entries that actually changed; an
// unchanged id that appears in both sets is skipped entirely.
type Result struct {
	Cells    []CellEntry
	Surfaces []SurfaceEntry

	CellsAdded, CellsRemoved, CellsModified       int
	SurfsAdded, SurfsRemoved, SurfsModified       int
}

// HasChanges reports whether anything differs at all.
func (r Result) HasChanges() bool {
	return len(r.Cells) > 0 || len(r.Surfaces) > 0
}

// Diff compares oldFP against newFP and returns the structural diff
// between them. Both inputs must already be sorted ascending by id, as
// fingerprint.Build guarantees.
func Diff(oldFP, newFP fingerprint.Set) Result {
	var r Result

	oi, ni := 0, 0
	for oi < len(oldFP.Surfaces) || ni < len(newFP.Surfaces) {
		var o *fingerprint.SurfaceFP
		var n *fingerprint.SurfaceFP
		if oi < len(oldFP.Surfaces) {
			o = &oldFP.Surfaces[oi]
		}
		if ni < len(newFP.Surfaces) {
			n = &newFP.Surfaces[ni]
		}

		switch {
		case o != nil && n != nil && o.SurfaceID == n.SurfaceID:
			if !fingerprint.SurfaceEqual(*o, *n) {
				r.Surfaces = append(r.Surfaces, SurfaceEntry{
					Change: Modified, ID: o.SurfaceID,
					Flags: fingerprint.SurfaceDiff(*o, *n),
					Old:   *o, New: *n,
				})
				r.SurfsModified++
			}
			oi++
			ni++
		case n == nil || (o != nil && o.SurfaceID < n.SurfaceID):
			r.Surfaces = append(r.Surfaces, SurfaceEntry{Change: Removed, ID: o.SurfaceID, Old: *o})
			r.SurfsRemoved++
			oi++
		default:
			r.Surfaces = append(r.Surfaces, SurfaceEntry{Change: Added, ID: n.SurfaceID, New: *n})
			r.SurfsAdded++
			ni++
		}
	}

	oi, ni = 0, 0
	for oi < len(oldFP.Cells) || ni < len(newFP.Cells) {
		var o *fingerprint.CellFP
		var n *fingerprint.CellFP
		if oi < len(oldFP.Cells) {
			o = &oldFP.Cells[oi]
		}
		if ni < len(newFP.Cells) {
			n = &newFP.Cells[ni]
		}

		switch {
		case o != nil && n != nil && o.CellID == n.CellID:
			if !fingerprint.CellEqual(*o, *n) {
				r.Cells = append(r.Cells, CellEntry{
					Change: Modified, ID: o.CellID,
					Flags: fingerprint.CellDiff(*o, *n),
					Old:   *o, New: *n,
				})
				r.CellsModified++
			}
			oi++
			ni++
		case n == nil || (o != nil && o.CellID < n.CellID):
			r.Cells = append(r.Cells, CellEntry{Change: Removed, ID: o.CellID, Old: *o})
			r.CellsRemoved++
			oi++
		default:
			r.Cells = append(r.Cells, CellEntry{Change: Added, ID: n.CellID, New: *n})
			r.CellsAdded++
			ni++
		}
	}

	return r
}
