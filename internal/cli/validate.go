package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/giovanni-mariano/aleagit/internal/revstore"
	"github.com/giovanni-mariano/aleagit/internal/style"
	"github.com/giovanni-mariano/aleagit/pkg/geom"
)

// newValidateCmd builds the validate command. It only performs parsing
// and reports counts: the original tool's overlap detection (building a
// universe/spatial index and running point-in-cell queries against it)
// depends on the external point-in-cell query engine spec.md §1 names
// as out of this module's scope, so this port does not reimplement it.
// A parse failure still counts as a validation error, per spec.md §7.
func newValidateCmd() *cobra.Command {
	var preCommit bool
	cmd := &cobra.Command{
		Use:   "validate [--pre-commit] [-- <file>]",
		Short: "Parse geometry files and report validation errors",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			file := fileArg(cmd, args)
			return runValidate(cmd, preCommit, file)
		},
	}
	cmd.Flags().BoolVar(&preCommit, "pre-commit", false, "validate the staged contents of geometry files instead of HEAD or disk")
	return cmd
}

func runValidate(cmd *cobra.Command, preCommit bool, file string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	errCount := 0

	validateOne := func(path string, g geom.Geometry, loadErr error) {
		style.Bold(out, "Validating %s", path)
		fmt.Fprintln(out)
		if loadErr != nil {
			style.Red(out, "  parse error: %s", loadErr)
			fmt.Fprintln(out)
			errCount++
			return
		}
		printSummary(out, g)
	}

	switch {
	case preCommit:
		idx, err := store.Repository().Storer.Index()
		if err != nil {
			return fmt.Errorf("reading index: %w", err)
		}
		for _, entry := range idx.Entries {
			if !revstore.IsGeometryFile(entry.Name) {
				continue
			}
			g, loadErr := loadStaged(store, entry.Name)
			validateOne(entry.Name, g, loadErr)
		}

	case file != "":
		g, loadErr := loadWorkdir(store, file)
		validateOne(file, g, loadErr)

	default:
		head, err := store.Resolve("HEAD")
		if err != nil {
			return err
		}
		paths, err := store.FindGeometryFiles(head)
		if err != nil {
			return err
		}
		for _, path := range paths {
			g, loadErr := loadAtCommit(store, head, path)
			validateOne(path, g, loadErr)
		}
	}

	if errCount > 0 {
		return fmt.Errorf("validation failed with %d error(s)", errCount)
	}
	fmt.Fprintln(out, "Validation passed.")
	return nil
}
