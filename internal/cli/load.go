// Package cli wires aleagit's core engine (pkg/fingerprint, pkg/diffset,
// pkg/blame, pkg/visualdiff) and its revision store (internal/revstore)
// into the command-line tool described by the original aleagit's
// cmd_*.c files, using github.com/spf13/cobra for flag parsing and
// dispatch.
package cli

import (
	"fmt"
	"io"

	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/giovanni-mariano/aleagit/internal/geomformat"
	"github.com/giovanni-mariano/aleagit/internal/mcnpfmt"
	"github.com/giovanni-mariano/aleagit/internal/openmcfmt"
	"github.com/giovanni-mariano/aleagit/internal/revstore"
	"github.com/giovanni-mariano/aleagit/pkg/geom"
)

// parseGeometry detects path's format (falling back to content sniffing)
// and dispatches to the matching reference parser.
func parseGeometry(path string, data []byte) (geom.Geometry, error) {
	switch geomformat.Detect(path, data) {
	case geomformat.OpenMC:
		g, err := openmcfmt.Parse(data)
		if err != nil {
			return nil, fmt.Errorf("parsing %q: %w", path, err)
		}
		return g, nil
	default:
		g, err := mcnpfmt.Parse(data)
		if err != nil {
			return nil, fmt.Errorf("parsing %q: %w", path, err)
		}
		return g, nil
	}
}

// loadAtCommit loads and parses path as recorded in commit's tree.
func loadAtCommit(store *revstore.Store, commit *object.Commit, path string) (geom.Geometry, error) {
	data, err := store.ReadBlob(commit, path)
	if err != nil {
		return nil, err
	}
	return parseGeometry(path, data)
}

// loadStaged loads and parses path from the index.
func loadStaged(store *revstore.Store, path string) (geom.Geometry, error) {
	data, err := store.ReadStagedBlob(path)
	if err != nil {
		return nil, err
	}
	return parseGeometry(path, data)
}

// loadWorkdir loads and parses path from the working tree.
func loadWorkdir(store *revstore.Store, path string) (geom.Geometry, error) {
	data, err := store.ReadWorkdir(path)
	if err != nil {
		return nil, err
	}
	return parseGeometry(path, data)
}

// commitLoader adapts loadAtCommit to pkg/blame.Loader.
type commitLoader struct {
	store *revstore.Store
}

func (l commitLoader) Load(commit *object.Commit, path string) (geom.Geometry, error) {
	return loadAtCommit(l.store, commit, path)
}

// openStore opens the revision store rooted at the current directory,
// the environment-error boundary every subcommand but init passes
// through first.
func openStore() (*revstore.Store, error) {
	return revstore.Open(".")
}

// printSummary writes a geometry's cell/surface/universe counts, the
// same three numbers the original's alea_print_summary reports.
func printSummary(w io.Writer, g geom.Geometry) {
	fmt.Fprintf(w, "  %d cells, %d surfaces, %d universes\n", g.CellCount(), g.SurfaceCount(), g.UniverseCount())
}
