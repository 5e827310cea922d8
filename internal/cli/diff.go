package cli

import (
	"fmt"

	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/spf13/cobra"

	"github.com/giovanni-mariano/aleagit/internal/style"
	"github.com/giovanni-mariano/aleagit/pkg/diffset"
	"github.com/giovanni-mariano/aleagit/pkg/fingerprint"
	"github.com/giovanni-mariano/aleagit/pkg/geom"
)

func newDiffCmd() *cobra.Command {
	var visual bool
	var axisFlag string
	var xVal, yVal, zVal float64
	var xSet, ySet, zSet bool
	var all bool
	var noContours bool
	var width int
	var prefix string

	cmd := &cobra.Command{
		Use:   "diff [rev1 [rev2]] [--visual|-v] [-- <file>]",
		Short: "Show a structural or visual diff between two revisions",
		Args:  cobra.MaximumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			revArgs, file := splitDashArgs(cmd, args)
			if visual {
				opts := visualCLIOptions{
					axisFlag:   axisFlag,
					x:          xVal, xSet: xSet,
					y: yVal, ySet: ySet,
					z: zVal, zSet: zSet,
					all:        all,
					noContours: noContours,
					width:      width,
					prefix:     prefix,
				}
				return runDiffVisual(cmd, revArgs, file, opts)
			}
			return runDiffText(cmd, revArgs, file)
		},
	}

	cmd.Flags().BoolVarP(&visual, "visual", "v", false, "render a visual (bitmap) diff instead of a textual one")
	cmd.Flags().StringVar(&axisFlag, "axis", "", "force the slice axis (X, Y, or Z)")
	cmd.Flags().Float64Var(&xVal, "x", 0, "force an X-axis slice at this position")
	cmd.Flags().Float64Var(&yVal, "y", 0, "force a Y-axis slice at this position")
	cmd.Flags().Float64Var(&zVal, "z", 0, "force a Z-axis slice at this position")
	cmd.Flags().BoolVar(&all, "all", false, "render all three axes")
	cmd.Flags().BoolVar(&noContours, "no-contours", false, "omit surface contour overlay")
	cmd.Flags().IntVar(&width, "width", 0, "image width in pixels (default 800, height from aspect ratio)")
	cmd.Flags().StringVarP(&prefix, "prefix", "o", "aleagit_diff", "output file prefix for rendered bitmaps")

	cmd.PreRun = func(cmd *cobra.Command, args []string) {
		xSet = cmd.Flags().Changed("x")
		ySet = cmd.Flags().Changed("y")
		zSet = cmd.Flags().Changed("z")
	}

	return cmd
}

// resolveDiffRevs maps the positional revision args to (oldRev, newRev,
// newIsWorkdir), matching cmd_diff.c's three modes: no revs (HEAD vs
// workdir), one rev (rev vs workdir), two revs (rev1 vs rev2).
func resolveDiffRevs(revArgs []string) (oldRev, newRev string, newIsWorkdir bool) {
	switch len(revArgs) {
	case 0:
		return "HEAD", "", true
	case 1:
		return revArgs[0], "", true
	default:
		return revArgs[0], revArgs[1], false
	}
}

func runDiffText(cmd *cobra.Command, revArgs []string, file string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	oldRev, newRev, newIsWorkdir := resolveDiffRevs(revArgs)

	oldCommit, err := store.Resolve(oldRev)
	if err != nil {
		return err
	}
	var newCommit *object.Commit
	if !newIsWorkdir {
		c, err := store.Resolve(newRev)
		if err != nil {
			return err
		}
		newCommit = c
	}

	out := cmd.OutOrStdout()
	paths := []string{file}
	if file == "" {
		paths, err = store.FindGeometryFiles(oldCommit)
		if err != nil {
			return err
		}
	}

	for _, path := range paths {
		oldGeom, oldErr := loadAtCommit(store, oldCommit, path)

		var newGeom geom.Geometry
		var newErr error
		if newIsWorkdir {
			newGeom, newErr = loadWorkdir(store, path)
		} else {
			newGeom, newErr = loadAtCommit(store, newCommit, path)
		}

		switch {
		case oldErr != nil && newErr == nil:
			style.Bold(out, "%s", path)
			fmt.Fprint(out, " ")
			style.Green(out, "New file")
			fmt.Fprintln(out)
		case oldErr == nil && newErr != nil:
			style.Bold(out, "%s", path)
			fmt.Fprint(out, " ")
			style.Red(out, "Deleted file")
			fmt.Fprintln(out)
		case oldErr != nil && newErr != nil:
			style.Warnf("%s: %s", path, oldErr)
			continue
		default:
			result := diffset.Diff(fingerprint.Build(oldGeom), fingerprint.Build(newGeom))
			if !result.HasChanges() {
				continue
			}
			style.Bold(out, "%s", path)
			fmt.Fprintln(out)
			printDiffDetail(out, result, 0)
			fmt.Fprintln(out)
		}
	}
	return nil
}

type visualCLIOptions struct {
	axisFlag   string
	x          float64
	xSet       bool
	y          float64
	ySet       bool
	z          float64
	zSet       bool
	all        bool
	noContours bool
	width      int
	prefix     string
}

func runDiffVisual(cmd *cobra.Command, revArgs []string, file string, opts visualCLIOptions) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	oldRev, newRev, newIsWorkdir := resolveDiffRevs(revArgs)

	oldCommit, err := store.Resolve(oldRev)
	if err != nil {
		return err
	}
	var newCommit *object.Commit
	if !newIsWorkdir {
		c, err := store.Resolve(newRev)
		if err != nil {
			return err
		}
		newCommit = c
	}

	if file == "" {
		paths, err := store.FindGeometryFiles(oldCommit)
		if err != nil {
			return err
		}
		if len(paths) == 0 {
			return fmt.Errorf("no geometry files found at %s", oldRev)
		}
		file = paths[0]
	}

	oldGeom, err := loadAtCommit(store, oldCommit, file)
	if err != nil {
		return err
	}
	var newGeom geom.Geometry
	if newIsWorkdir {
		newGeom, err = loadWorkdir(store, file)
	} else {
		newGeom, err = loadAtCommit(store, newCommit, file)
	}
	if err != nil {
		return err
	}

	return renderVisualDiff(cmd, oldGeom, newGeom, opts)
}
