package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/giovanni-mariano/aleagit/pkg/geom"
	"github.com/giovanni-mariano/aleagit/pkg/visualdiff"
)

// asSystem builds a visualdiff.System from a parsed geometry, picking up
// a point-in-cell query and a slice-contour extractor if the concrete
// parser happens to implement them. Neither reference parser
// (internal/mcnpfmt, internal/openmcfmt) does: both interfaces name the
// external point-in-cell query engine and slice-contour extractor
// spec.md §1 places outside this module's scope. The type assertions
// below are the seam a future engine would plug into; today they always
// miss, and renderVisualDiff reports that plainly instead of pretending
// to render something it can't.
func asSystem(g geom.Geometry) visualdiff.System {
	sys := visualdiff.System{Geometry: g}
	if q, ok := g.(geom.PointInCellQuery); ok {
		sys.Query = q
	}
	if c, ok := g.(geom.SliceContourExtractor); ok {
		sys.Contours = c
	}
	return sys
}

func parseAxis(s string) (geom.Axis, error) {
	switch strings.ToUpper(s) {
	case "X":
		return geom.AxisX, nil
	case "Y":
		return geom.AxisY, nil
	case "Z":
		return geom.AxisZ, nil
	default:
		return 0, fmt.Errorf("unknown --axis %q (want X, Y, or Z)", s)
	}
}

func renderVisualDiff(cmd *cobra.Command, oldGeom, newGeom geom.Geometry, opts visualCLIOptions) error {
	oldSys := asSystem(oldGeom)
	newSys := asSystem(newGeom)
	if opts.noContours {
		oldSys.Contours = nil
		newSys.Contours = nil
	}

	if oldSys.Query == nil || newSys.Query == nil {
		return fmt.Errorf("visual diff requires a point-in-cell query engine; neither reference geometry parser implements one (spec out-of-scope external collaborator)")
	}

	if opts.all {
		_, err := visualdiff.VisualDiffAll(oldSys, newSys, opts.prefix)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s_{X,Y,Z}_{before,after,diff}.bmp\n", opts.prefix)
		return nil
	}

	visualOpts, err := buildVisualOptions(oldSys, newSys, opts)
	if err != nil {
		return err
	}

	render, err := visualdiff.VisualDiff(oldSys, newSys, opts.prefix, visualOpts)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s_%s_{before,after,diff}.bmp\n", opts.prefix, render.Axis.String())
	return nil
}

// buildVisualOptions mirrors cmd_diff_visual.c: an explicit axis forces
// an explicit slice (defaulting its position to the combined inner
// bounding box's midpoint along that axis if no --x/--y/--z value was
// given); with no axis forced, nil lets pkg/visualdiff auto-select both
// axis and position.
func buildVisualOptions(oldSys, newSys visualdiff.System, opts visualCLIOptions) (*visualdiff.Options, error) {
	if opts.axisFlag == "" && !opts.xSet && !opts.ySet && !opts.zSet {
		return nil, nil
	}

	axis := geom.AxisZ
	slicePos := 0.0
	posSet := false

	if opts.axisFlag != "" {
		a, err := parseAxis(opts.axisFlag)
		if err != nil {
			return nil, err
		}
		axis = a
	}
	switch {
	case opts.xSet:
		axis, slicePos, posSet = geom.AxisX, opts.x, true
	case opts.ySet:
		axis, slicePos, posSet = geom.AxisY, opts.y, true
	case opts.zSet:
		axis, slicePos, posSet = geom.AxisZ, opts.z, true
	}

	if !posSet {
		bbox := visualdiff.InnerBBox(oldSys.Geometry).Union(visualdiff.InnerBBox(newSys.Geometry))
		lo, hi := visualdiff.AxisRange(bbox, axis)
		slicePos = (lo + hi) / 2
	}

	return &visualdiff.Options{Axis: axis, SlicePos: slicePos, Width: opts.width}, nil
}
