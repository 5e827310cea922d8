package visualdiff

// RGB is a packed 8-bit-per-channel color.
type RGB struct {
	R, G, B byte
}

// Diff overlay colors, one constant per compute_diff_overlay branch.
var (
	colAdded     = RGB{50, 200, 50}
	colRemoved   = RGB{200, 50, 50}
	colMaterial  = RGB{200, 200, 50}
	colStructure = RGB{50, 200, 200}
	colContour   = RGB{20, 20, 20}
	colEmpty     = RGB{40, 40, 40}
)

// idToColor maps an id (the renderers pass material ids) to a stable
// pseudo-random color so adjacent regions with unrelated ids read as
// visually distinct. Ids <= 0 (void / background) render as a flat dark
// gray.
func idToColor(id int) RGB {
	if id <= 0 {
		return colEmpty
	}
	h := uint32(id) * 2654435761
	return RGB{
		R: byte(80 + (h & 0x7F)),
		G: byte(80 + ((h >> 8) & 0x7F)),
		B: byte(80 + ((h >> 16) & 0x7F)),
	}
}

// dim divides each channel by 3, used for pixels unchanged between the
// old and new system in a diff overlay.
func dim(c RGB) RGB {
	return RGB{c.R / 3, c.G / 3, c.B / 3}
}

// computeDiffOverlay decides one pixel's diff-overlay color given the
// old and new system's cell and material ids at that pixel, in the
// exact branch order the original tool evaluates them: an outright
// presence change (added/removed) takes priority over a same-cell
// material swap, and a cell-identity change with no material change is
// reported as a structural change distinct from one with a material
// change too.
func computeDiffOverlay(oldCell, oldMat, newCell, newMat int) RGB {
	switch {
	case oldCell == newCell && oldMat == newMat:
		return dim(idToColor(oldMat))
	case oldCell <= 0 && newCell > 0:
		return colAdded
	case oldCell > 0 && newCell <= 0:
		return colRemoved
	case oldCell != newCell && oldMat != newMat:
		return colMaterial
	case oldCell != newCell:
		return colStructure
	default:
		return colMaterial
	}
}
