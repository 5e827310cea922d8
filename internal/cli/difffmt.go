package cli

import (
	"fmt"
	"io"

	"github.com/giovanni-mariano/aleagit/internal/style"
	"github.com/giovanni-mariano/aleagit/pkg/diffset"
	"github.com/giovanni-mariano/aleagit/pkg/fingerprint"
)

// primTypeName maps aleagit's internal primitive-type numbering to a
// human-readable name, for diff and commit-trailer detail lines.
func primTypeName(ptype int) string {
	names := map[int]string{
		1: "plane", 2: "sphere",
		3: "cylinder_z", 4: "cylinder_y", 5: "cylinder_x",
		6: "cone_x", 7: "cone_y", 8: "cone_z",
		9: "box", 10: "quadric",
		11: "torus_x", 12: "torus_y", 13: "torus_z",
		14: "rcc", 15: "box_general", 16: "sph", 17: "trc",
		18: "ell", 19: "rec", 20: "wed", 21: "rhp", 22: "arb",
	}
	if n, ok := names[ptype]; ok {
		return n
	}
	return "unknown"
}

// cellChangeDetails renders a cell's change-mask bits in the fixed
// reporting order MATERIAL -> DENSITY -> REGION -> UNIVERSE -> FILL ->
// LATTICE, one "field old -> new" string per changed field. Region and
// lattice are tree/lattice hashes rather than readable values, so they
// report only that they changed, matching cmd_commit.c's
// format_diff_details.
func cellChangeDetails(flags fingerprint.CellChange, old, new fingerprint.CellFP) []string {
	var lines []string
	if flags&fingerprint.CellChgMaterial != 0 {
		lines = append(lines, fmt.Sprintf("material %d -> %d", old.MaterialID, new.MaterialID))
	}
	if flags&fingerprint.CellChgDensity != 0 {
		lines = append(lines, fmt.Sprintf("density %.4g -> %.4g", old.Density, new.Density))
	}
	if flags&fingerprint.CellChgRegion != 0 {
		lines = append(lines, "region changed")
	}
	if flags&fingerprint.CellChgUniverse != 0 {
		lines = append(lines, fmt.Sprintf("universe %d -> %d", old.UniverseID, new.UniverseID))
	}
	if flags&fingerprint.CellChgFill != 0 {
		lines = append(lines, fmt.Sprintf("fill %d -> %d", old.FillUniverse, new.FillUniverse))
	}
	if flags&fingerprint.CellChgLattice != 0 {
		lines = append(lines, "lattice changed")
	}
	return lines
}

// surfaceChangeDetails renders a surface's change-mask bits in the fixed
// reporting order TYPE -> DATA -> BOUNDARY. Coefficient data is a hash
// rather than a readable value, so it reports only that it changed.
func surfaceChangeDetails(flags fingerprint.SurfaceChange, old, new fingerprint.SurfaceFP) []string {
	var lines []string
	if flags&fingerprint.SurfChgType != 0 {
		lines = append(lines, fmt.Sprintf("type %s -> %s", primTypeName(old.PrimitiveType), primTypeName(new.PrimitiveType)))
	}
	if flags&fingerprint.SurfChgData != 0 {
		lines = append(lines, "coefficients changed")
	}
	if flags&fingerprint.SurfChgBoundary != 0 {
		lines = append(lines, "boundary changed")
	}
	return lines
}

// printCountsBracket writes the bracketed "+A -B ~C" style summary
// cmd_status.c prints for a modified geometry file, or
// "[no structural changes]" if nothing differs.
func printCountsBracket(w io.Writer, r diffset.Result) {
	if !r.HasChanges() {
		style.Dim(w, "[no structural changes]")
		fmt.Fprintln(w)
		return
	}
	fmt.Fprint(w, "[")
	style.Green(w, "cells: +%d", r.CellsAdded)
	fmt.Fprint(w, " ")
	style.Red(w, "-%d", r.CellsRemoved)
	fmt.Fprint(w, " ")
	style.Yellow(w, "~%d", r.CellsModified)
	fmt.Fprint(w, " | ")
	style.Green(w, "surfaces: +%d", r.SurfsAdded)
	fmt.Fprint(w, " ")
	style.Red(w, "-%d", r.SurfsRemoved)
	fmt.Fprint(w, " ")
	style.Yellow(w, "~%d", r.SurfsModified)
	fmt.Fprintln(w, "]")
}

// printDiffDetail writes one line per changed surface then cell (surfaces
// first, matching the original's detail ordering), stopping after maxLines
// lines and reporting how many more were elided. maxLines <= 0 means no
// limit.
func printDiffDetail(w io.Writer, r diffset.Result, maxLines int) {
	total := len(r.Surfaces) + len(r.Cells)
	printed := 0
	emit := func(line string) bool {
		if maxLines > 0 && printed >= maxLines {
			return false
		}
		fmt.Fprintln(w, line)
		printed++
		return true
	}

	for _, s := range r.Surfaces {
		switch s.Change {
		case diffset.Added:
			emit(fmt.Sprintf("  + surface %d (%s)", s.ID, primTypeName(s.New.PrimitiveType)))
		case diffset.Removed:
			emit(fmt.Sprintf("  - surface %d (%s)", s.ID, primTypeName(s.Old.PrimitiveType)))
		case diffset.Modified:
			emit(fmt.Sprintf("  ~ surface %d: %s", s.ID, joinDetails(surfaceChangeDetails(s.Flags, s.Old, s.New))))
		}
	}
	for _, c := range r.Cells {
		switch c.Change {
		case diffset.Added:
			emit(fmt.Sprintf("  + cell %d", c.ID))
		case diffset.Removed:
			emit(fmt.Sprintf("  - cell %d", c.ID))
		case diffset.Modified:
			emit(fmt.Sprintf("  ~ cell %d: %s", c.ID, joinDetails(cellChangeDetails(c.Flags, c.Old, c.New))))
		}
	}

	if maxLines > 0 && total > maxLines {
		fmt.Fprintf(w, "  ... and %d more\n", total-maxLines)
	}
}

func joinDetails(names []string) string {
	out := ""
	for i, n := range names {
		if i > 0 {
			out += ", "
		}
		out += n
	}
	return out
}

// maxDetailLines is the commit-trailer detail cap (spec.md §6).
const maxDetailLines = 30
