package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/spf13/cobra"

	"github.com/giovanni-mariano/aleagit/internal/revstore"
	"github.com/giovanni-mariano/aleagit/internal/style"
	"github.com/giovanni-mariano/aleagit/pkg/diffset"
	"github.com/giovanni-mariano/aleagit/pkg/fingerprint"
)

func newCommitCmd() *cobra.Command {
	var message string
	var stageAll bool
	cmd := &cobra.Command{
		Use:   "commit -m <msg> [-a]",
		Short: "Record staged changes, annotating geometry diffs in the commit trailer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if message == "" {
				return fmt.Errorf("a commit message is required (-m)")
			}
			return runCommit(cmd, message, stageAll)
		},
	}
	cmd.Flags().StringVarP(&message, "message", "m", "", "commit message")
	cmd.Flags().BoolVarP(&stageAll, "all", "a", false, "stage all modified tracked files before committing")
	return cmd
}

func runCommit(cmd *cobra.Command, message string, stageAll bool) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	repo := store.Repository()
	wt, err := repo.Worktree()
	if err != nil {
		return fmt.Errorf("opening worktree: %w", err)
	}

	if stageAll {
		if err := stageAllTracked(wt); err != nil {
			return err
		}
	}

	status, err := wt.Status()
	if err != nil {
		return fmt.Errorf("computing status: %w", err)
	}
	if !anyStaged(status) {
		return fmt.Errorf("nothing to commit")
	}

	headCommit, headErr := store.Resolve("HEAD")

	out := cmd.OutOrStdout()
	var trailer strings.Builder
	for path, fs := range status {
		if !revstore.IsGeometryFile(path) || fs.Staging == git.Untracked || fs.Staging == git.Unmodified {
			continue
		}
		writeFileTrailer(&trailer, out, store, headCommit, headErr, path, fs.Staging)
	}

	finalMessage := message
	if trailer.Len() > 0 {
		finalMessage = message + "\n\n" + trailer.String()
	}

	sig := commitSignature(repo)
	hash, err := wt.Commit(finalMessage, &git.CommitOptions{Author: &sig})
	if err != nil {
		return fmt.Errorf("creating commit: %w", err)
	}

	style.Bold(out, "[%s]", revstore.ShortHash(hash))
	fmt.Fprintf(out, " %s\n", firstLine(message))
	return nil
}

// stageAllTracked replicates `git commit -a`: every tracked file whose
// working-tree copy is modified or deleted is staged, but untracked
// files are left alone.
func stageAllTracked(wt *git.Worktree) error {
	status, err := wt.Status()
	if err != nil {
		return fmt.Errorf("computing status: %w", err)
	}
	for path, fs := range status {
		if fs.Staging == git.Untracked {
			continue
		}
		if fs.Worktree == git.Modified || fs.Worktree == git.Deleted {
			if _, err := wt.Add(path); err != nil {
				return fmt.Errorf("staging %q: %w", path, err)
			}
		}
	}
	return nil
}

func anyStaged(status git.Status) bool {
	for _, fs := range status {
		if fs.Staging != git.Unmodified && fs.Staging != git.Untracked {
			return true
		}
	}
	return false
}

// writeFileTrailer appends one file's Geometry-New/Geometry-Deleted/
// Geometry-Change trailer block to trailer, and prints the same summary
// to the console, matching cmd_commit.c's format_*_trailer functions.
func writeFileTrailer(trailer *strings.Builder, w io.Writer, store *revstore.Store, headCommit *object.Commit, headErr error, path string, staging git.StatusCode) {
	switch staging {
	case git.Added:
		g, err := loadStaged(store, path)
		if err != nil {
			style.Warnf("%s", err)
			return
		}
		style.Bold(w, "%s", path)
		fmt.Fprint(w, " ")
		style.Green(w, "new file")
		fmt.Fprintln(w)
		fmt.Fprintf(trailer, "Geometry-New: %s (%d cells, %d surfaces)\n", path, g.CellCount(), g.SurfaceCount())

	case git.Deleted:
		style.Bold(w, "%s", path)
		fmt.Fprint(w, " ")
		style.Red(w, "deleted")
		fmt.Fprintln(w)
		fmt.Fprintf(trailer, "Geometry-Deleted: %s\n", path)

	default: // git.Modified, git.Renamed, git.Copied, git.UpdatedButUnmerged
		if headErr != nil {
			return
		}
		oldGeom, oldErr := loadAtCommit(store, headCommit, path)
		newGeom, newErr := loadStaged(store, path)
		if oldErr != nil || newErr != nil {
			style.Warnf("%s: could not diff for commit trailer", path)
			return
		}
		result := diffset.Diff(fingerprint.Build(oldGeom), fingerprint.Build(newGeom))
		if !result.HasChanges() {
			return
		}
		style.Bold(w, "%s", path)
		fmt.Fprint(w, " ")
		printCountsBracket(w, result)

		fmt.Fprintf(trailer, "Geometry-Change: %s\n", path)
		fmt.Fprintf(trailer, "  cells: +%d -%d ~%d | surfaces: +%d -%d ~%d\n",
			result.CellsAdded, result.CellsRemoved, result.CellsModified,
			result.SurfsAdded, result.SurfsRemoved, result.SurfsModified)
		printDiffDetail(trailer, result, maxDetailLines)
	}
}

// commitSignature builds the commit author from the repository's Git
// config (user.name / user.email), falling back to a generic identity
// when neither is configured.
func commitSignature(repo *git.Repository) object.Signature {
	name, email := "aleagit", "aleagit@localhost"
	if cfg, err := repo.Config(); err == nil {
		if cfg.User.Name != "" {
			name = cfg.User.Name
		}
		if cfg.User.Email != "" {
			email = cfg.User.Email
		}
	}
	return object.Signature{Name: name, Email: email, When: time.Now()}
}
