package visualdiff

import "github.com/giovanni-mariano/aleagit/pkg/geom"

const (
	sampleRes = 32
	nSamples  = 20
)

// sampleGrid renders a sampleRes x sampleRes coarse grid of (cell, material)
// ids over the given plane, sampling pixel centers.
func sampleGrid(query geom.PointInCellQuery, axis geom.Axis, slicePos float64, uMin, uMax, vMin, vMax float64, res int) (cells, mats []int) {
	cells = make([]int, res*res)
	mats = make([]int, res*res)
	for j := 0; j < res; j++ {
		v := vMin + (vMax-vMin)*(float64(j)+0.5)/float64(res)
		for i := 0; i < res; i++ {
			u := uMin + (uMax-uMin)*(float64(i)+0.5)/float64(res)
			c, m := query.CellAt(axis, slicePos, u, v)
			cells[j*res+i] = c
			mats[j*res+i] = m
		}
	}
	return cells, mats
}

// scoreGrids counts, over two same-shaped coarse grids, the pixels that
// differ (cell or material) and the pixels where either side has any
// geometry at all.
func scoreGrids(oldCells, oldMats, newCells, newMats []int) (diffCount, geomCount int) {
	for i := range oldCells {
		if oldCells[i] != newCells[i] || oldMats[i] != newMats[i] {
			diffCount++
		}
		if oldCells[i] > 0 || newCells[i] > 0 {
			geomCount++
		}
	}
	return diffCount, geomCount
}

// findBestSliceForAxis samples nSamples evenly spaced positions along
// [axisLo, axisHi] and picks the one whose coarse diff grid maximizes
// (diffCount, geomCount) lexicographically, defaulting to the midpoint
// if no sample beats the initial score.
func findBestSliceForAxis(oldQuery, newQuery geom.PointInCellQuery, axis geom.Axis, axisLo, axisHi, uMin, uMax, vMin, vMax float64) (pos float64, diffCount, geomCount int) {
	pos = (axisLo + axisHi) / 2
	diffCount, geomCount = -1, -1

	for s := 0; s < nSamples; s++ {
		t := 0.5
		if nSamples > 1 {
			t = float64(s) / float64(nSamples-1)
		}
		candidate := axisLo + (axisHi-axisLo)*t

		oldCells, oldMats := sampleGrid(oldQuery, axis, candidate, uMin, uMax, vMin, vMax, sampleRes)
		newCells, newMats := sampleGrid(newQuery, axis, candidate, uMin, uMax, vMin, vMax, sampleRes)
		d, g := scoreGrids(oldCells, oldMats, newCells, newMats)

		if d > diffCount || (d == diffCount && g > geomCount) {
			diffCount, geomCount, pos = d, g, candidate
		}
	}
	return pos, diffCount, geomCount
}

// autoSelect runs findBestSliceForAxis on all three axes and returns the
// axis and position with the best score across all of them.
func autoSelect(oldQuery, newQuery geom.PointInCellQuery, bbox geom.BBox) (axis geom.Axis, pos float64) {
	bestDiff, bestGeom := -1, -1
	axis, pos = geom.AxisZ, 0

	for _, a := range []geom.Axis{geom.AxisX, geom.AxisY, geom.AxisZ} {
		lo, hi := AxisRange(bbox, a)
		uMin, uMax, vMin, vMax := UVRange(bbox, a)
		candidatePos, d, g := findBestSliceForAxis(oldQuery, newQuery, a, lo, hi, uMin, uMax, vMin, vMax)
		if d > bestDiff || (d == bestDiff && g > bestGeom) {
			bestDiff, bestGeom = d, g
			axis, pos = a, candidatePos
		}
	}
	return axis, pos
}
