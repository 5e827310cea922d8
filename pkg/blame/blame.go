// Package blame attributes each cell and surface in a geometry file's
// current revision to the oldest ancestor commit at which that element's
// fingerprint still matches its current one.
package blame

import (
	"time"

	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/giovanni-mariano/aleagit/pkg/fingerprint"
	"github.com/giovanni-mariano/aleagit/pkg/geom"
	"github.com/giovanni-mariano/aleagit/pkg/history"
)

// Loader parses the geometry recorded for path at a given commit. It is
// the seam between this package and the geometry-format parsers
// (internal/mcnpfmt, internal/openmcfmt); blame.Run never reads file
// bytes itself.
type Loader interface {
	Load(commit *object.Commit, path string) (geom.Geometry, error)
}

// Attribution is the blamed commit for one element.
type Attribution struct {
	Commit   *object.Commit
	ShortSHA string
	Author   string
	Date     time.Time
}

// CellResult pairs a cell id with its attribution and its current
// (HEAD) fingerprint.
type CellResult struct {
	CellID int
	fingerprint.CellFP
	Attribution
}

// SurfaceResult pairs a surface id with its attribution and its current
// (HEAD) fingerprint.
type SurfaceResult struct {
	SurfaceID int
	fingerprint.SurfaceFP
	Attribution
}

// Result is the complete blame for a file at its tip revision.
type Result struct {
	Cells    []CellResult
	Surfaces []SurfaceResult
}

// Run computes blame for path, starting the history walk at fromRev
// (typically "HEAD") and loading each revision's geometry through
// loader.
func Run(store history.CommitSource, loader Loader, fromRev, path string) (Result, error) {
	tipCommit, err := store.Resolve(fromRev)
	if err != nil {
		return Result{}, err
	}
	tipGeom, err := loader.Load(tipCommit, path)
	if err != nil {
		return Result{}, err
	}
	tipFP := fingerprint.Build(tipGeom)

	cells := make([]CellResult, len(tipFP.Cells))
	for i, c := range tipFP.Cells {
		cells[i] = CellResult{CellID: c.CellID, CellFP: c}
	}
	surfaces := make([]SurfaceResult, len(tipFP.Surfaces))
	for i, s := range tipFP.Surfaces {
		surfaces[i] = SurfaceResult{SurfaceID: s.SurfaceID, SurfaceFP: s}
	}

	first := true
	walkErr := history.Walk(store, fromRev, path, func(e history.Entry) bool {
		sig := e.Commit.Author
		attr := Attribution{
			Commit:   e.Commit,
			ShortSHA: history.ShortHash(e.Commit.Hash),
			Author:   sig.Name,
			Date:     sig.When,
		}

		if first {
			for i := range cells {
				cells[i].Attribution = attr
			}
			for i := range surfaces {
				surfaces[i].Attribution = attr
			}
			first = false
			return true
		}

		g, err := loader.Load(e.Commit, path)
		if err != nil {
			return true
		}
		oldFP := fingerprint.Build(g)

		for i := range cells {
			old, ok := findCellFP(oldFP.Cells, cells[i].CellID)
			if ok && fingerprint.CellEqual(cells[i].CellFP, old) {
				cells[i].Attribution = attr
			}
		}
		for i := range surfaces {
			old, ok := findSurfaceFP(oldFP.Surfaces, surfaces[i].SurfaceID)
			if ok && fingerprint.SurfaceEqual(surfaces[i].SurfaceFP, old) {
				surfaces[i].Attribution = attr
			}
		}
		return true
	})
	if walkErr != nil {
		return Result{}, walkErr
	}

	return Result{Cells: cells, Surfaces: surfaces}, nil
}

func findCellFP(cells []fingerprint.CellFP, id int) (fingerprint.CellFP, bool) {
	for _, c := range cells {
		if c.CellID == id {
			return c, true
		}
	}
	return fingerprint.CellFP{}, false
}

func findSurfaceFP(surfaces []fingerprint.SurfaceFP, id int) (fingerprint.SurfaceFP, bool) {
	for _, s := range surfaces {
		if s.SurfaceID == id {
			return s, true
		}
	}
	return fingerprint.SurfaceFP{}, false
}

// ShortHash is history.ShortHash re-exported for callers that only
// import pkg/blame.
var ShortHash = history.ShortHash
