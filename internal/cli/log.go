package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/giovanni-mariano/aleagit/internal/style"
	"github.com/giovanni-mariano/aleagit/pkg/fingerprint"
	"github.com/giovanni-mariano/aleagit/pkg/history"
)

func newLogCmd() *cobra.Command {
	var cellID, surfaceID int
	var cellSet, surfaceSet bool
	var maxEntries int

	cmd := &cobra.Command{
		Use:   "log [--cell N] [--surface N] [-n K] [-- <file>]",
		Short: "Walk a geometry file's content-changing history",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			file := fileArg(cmd, args)
			cellSet = cmd.Flags().Changed("cell")
			surfaceSet = cmd.Flags().Changed("surface")
			return runLog(cmd, file, cellID, cellSet, surfaceID, surfaceSet, maxEntries)
		},
	}

	cmd.Flags().IntVar(&cellID, "cell", 0, "only show commits whose version of the file contains this cell id")
	cmd.Flags().IntVar(&surfaceID, "surface", 0, "only show commits whose version of the file contains this surface id")
	cmd.Flags().IntVarP(&maxEntries, "n", "n", 50, "maximum number of commits to show")

	return cmd
}

func runLog(cmd *cobra.Command, file string, cellID int, cellSet bool, surfaceID int, surfaceSet bool, maxEntries int) error {
	store, err := openStore()
	if err != nil {
		return err
	}

	if file == "" {
		head, err := store.Resolve("HEAD")
		if err != nil {
			return err
		}
		paths, err := store.FindGeometryFiles(head)
		if err != nil {
			return err
		}
		if len(paths) == 0 {
			return fmt.Errorf("no geometry files found at HEAD")
		}
		file = paths[0]
	}

	out := cmd.OutOrStdout()
	found := 0
	loader := commitLoader{store: store}

	walkErr := history.Walk(store, "HEAD", file, func(e history.Entry) bool {
		if found >= maxEntries {
			return false
		}
		g, err := loader.Load(e.Commit, file)
		if err != nil {
			return true
		}
		fp := fingerprint.Build(g)

		if cellSet && !hasCellID(fp, cellID) {
			return true
		}
		if surfaceSet && !hasSurfaceID(fp, surfaceID) {
			return true
		}

		style.Yellow(out, "%s", history.ShortHash(e.Commit.Hash))
		fmt.Fprintf(out, " %s ", e.Commit.Author.When.Format("2006-01-02 15:04"))
		style.Bold(out, "%s", e.Commit.Author.Name)
		fmt.Fprintf(out, " %s\n", firstLine(e.Commit.Message))
		found++
		return true
	})
	if walkErr != nil {
		return walkErr
	}

	if found == 0 {
		fmt.Fprintln(out, "(no commits found)")
	}
	return nil
}

func hasCellID(fp fingerprint.Set, id int) bool {
	for _, c := range fp.Cells {
		if c.CellID == id {
			return true
		}
	}
	return false
}

func hasSurfaceID(fp fingerprint.Set, id int) bool {
	for _, s := range fp.Surfaces {
		if s.SurfaceID == id {
			return true
		}
	}
	return false
}

func firstLine(msg string) string {
	if i := strings.IndexByte(msg, '\n'); i >= 0 {
		return msg[:i]
	}
	return msg
}
