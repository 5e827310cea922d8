package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/giovanni-mariano/aleagit/internal/revstore"
	"github.com/giovanni-mariano/aleagit/internal/style"
)

// splitDashArgs splits cobra args into the revision-spec positionals and
// the "-- <file>" tail, following every original cmd_*.c's convention of
// a literal "--" separating revisions from a path.
func splitDashArgs(cmd *cobra.Command, args []string) (revArgs []string, file string) {
	dash := cmd.ArgsLenAtDash()
	if dash < 0 {
		return args, ""
	}
	revArgs = args[:dash]
	if dash < len(args) {
		file = args[dash]
	}
	return revArgs, file
}

// fileArg resolves a command's single file positional, for subcommands
// (log, blame) that take no revision positionals: either "-- <file>" or
// a bare positional.
func fileArg(cmd *cobra.Command, args []string) string {
	if dash := cmd.ArgsLenAtDash(); dash >= 0 {
		if dash < len(args) {
			return args[dash]
		}
		return ""
	}
	if len(args) > 0 {
		return args[0]
	}
	return ""
}

func newSummaryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summary [rev] [-- <file>]",
		Short: "Print cell/surface/universe counts for geometry files at a revision",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			revArgs, file := splitDashArgs(cmd, args)
			rev := "HEAD"
			if len(revArgs) == 1 {
				rev = revArgs[0]
			}
			return runSummary(cmd, rev, file)
		},
	}
	return cmd
}

func runSummary(cmd *cobra.Command, rev, file string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	commit, err := store.Resolve(rev)
	if err != nil {
		return err
	}

	paths := []string{file}
	if file == "" {
		paths, err = store.FindGeometryFiles(commit)
		if err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	for _, path := range paths {
		g, err := loadAtCommit(store, commit, path)
		if err != nil {
			style.Warnf("%s", err)
			continue
		}
		style.Bold(out, "%s", path)
		fmt.Fprintf(out, " @ %s\n", revstore.ShortHash(commit.Hash))
		printSummary(out, g)
		fmt.Fprintln(out)
	}
	return nil
}
