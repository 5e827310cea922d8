package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/giovanni-mariano/aleagit/internal/style"
	"github.com/giovanni-mariano/aleagit/pkg/blame"
)

func newBlameCmd() *cobra.Command {
	var cellID, surfaceID int

	cmd := &cobra.Command{
		Use:   "blame [--cell N | --surface N] [-- <file>]",
		Short: "Attribute each cell and surface to the commit that last changed it",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			file := fileArg(cmd, args)
			cellSet := cmd.Flags().Changed("cell")
			surfaceSet := cmd.Flags().Changed("surface")
			return runBlame(cmd, file, cellID, cellSet, surfaceID, surfaceSet)
		},
	}

	cmd.Flags().IntVar(&cellID, "cell", 0, "only show this cell id")
	cmd.Flags().IntVar(&surfaceID, "surface", 0, "only show this surface id")
	return cmd
}

func runBlame(cmd *cobra.Command, file string, cellID int, cellSet bool, surfaceID int, surfaceSet bool) error {
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

	result, err := blame.Run(store, commitLoader{store: store}, "HEAD", file)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if !surfaceSet {
		for _, c := range result.Cells {
			if cellSet && c.CellID != cellID {
				continue
			}
			printBlameLine(out, fmt.Sprintf("cell %d", c.CellID), c.Attribution)
		}
	}
	if !cellSet {
		for _, s := range result.Surfaces {
			if surfaceSet && s.SurfaceID != surfaceID {
				continue
			}
			printBlameLine(out, fmt.Sprintf("surface %d", s.SurfaceID), s.Attribution)
		}
	}
	return nil
}

func printBlameLine(out io.Writer, label string, attr blame.Attribution) {
	style.Yellow(out, "%s", attr.ShortSHA)
	fmt.Fprintf(out, " %-20s ", label)
	style.Bold(out, "%s", attr.Author)
	fmt.Fprintf(out, " %s\n", attr.Date.Format("2006-01-02 15:04"))
}
