package cli

import (
	"fmt"

	"github.com/go-git/go-git/v5"
	"github.com/spf13/cobra"

	"github.com/giovanni-mariano/aleagit/internal/revstore"
	"github.com/giovanni-mariano/aleagit/internal/style"
	"github.com/giovanni-mariano/aleagit/pkg/diffset"
	"github.com/giovanni-mariano/aleagit/pkg/fingerprint"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show geometry file changes between HEAD, the index, and the working tree",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(cmd)
		},
	}
}

func runStatus(cmd *cobra.Command) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	head, err := store.Resolve("HEAD")
	if err != nil {
		fmt.Fprintln(out, "No commits yet.")
		return nil
	}

	wt, err := store.Repository().Worktree()
	if err != nil {
		return fmt.Errorf("opening worktree: %w", err)
	}
	gitStatus, err := wt.Status()
	if err != nil {
		return fmt.Errorf("computing status: %w", err)
	}

	anyChange := false
	for path, fs := range gitStatus {
		if !revstore.IsGeometryFile(path) {
			continue
		}
		label, needsDiff := classifyStatus(*fs)
		if label == "" {
			continue
		}
		anyChange = true

		style.Bold(out, "%s", path)
		fmt.Fprintf(out, " %s ", label)

		if !needsDiff {
			fmt.Fprintln(out)
			continue
		}

		oldGeom, err := loadAtCommit(store, head, path)
		if err != nil {
			fmt.Fprintln(out)
			style.Warnf("%s", err)
			continue
		}
		newGeom, err := loadWorkdir(store, path)
		if err != nil {
			fmt.Fprintln(out)
			style.Warnf("%s", err)
			continue
		}
		result := diffset.Diff(fingerprint.Build(oldGeom), fingerprint.Build(newGeom))
		printCountsBracket(out, result)
	}

	if !anyChange {
		fmt.Fprintln(out, "No geometry file changes.")
	}
	return nil
}

// classifyStatus labels one path's status entry the way cmd_status.c
// does, and reports whether that label warrants a structural diff
// (only "modified" variants do; new/deleted/untracked files have no
// useful old-vs-new comparison).
func classifyStatus(fs git.FileStatus) (label string, needsDiff bool) {
	switch {
	case fs.Staging == git.Untracked && fs.Worktree == git.Untracked:
		return "untracked", false
	case fs.Staging == git.Added:
		return "new file", false
	case fs.Staging == git.Deleted:
		return "deleted", false
	case fs.Staging == git.Modified:
		return "modified (staged)", true
	case fs.Worktree == git.Modified:
		return "modified", true
	case fs.Worktree == git.Deleted:
		return "deleted", false
	default:
		return "", false
	}
}
