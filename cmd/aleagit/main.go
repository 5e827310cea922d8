// Command aleagit is a geometry-aware version control front end for
// nuclear-simulation CSG geometries, wrapping a Git revision store with
// commands that understand cells, surfaces, and universes instead of
// just lines of text.
package main

import (
	"os"

	"github.com/giovanni-mariano/aleagit/internal/cli"
	"github.com/giovanni-mariano/aleagit/internal/style"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		style.Errorf("%s", err)
		os.Exit(1)
	}
}
