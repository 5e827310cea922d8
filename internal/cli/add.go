package cli

import (
	"fmt"

	"github.com/go-git/go-git/v5"
	"github.com/spf13/cobra"

	"github.com/giovanni-mariano/aleagit/internal/style"
)

func newAddCmd() *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "add <file>... | -A",
		Short: "Stage geometry file changes",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdd(cmd, args, all)
		},
	}
	cmd.Flags().BoolVarP(&all, "all", "A", false, "stage every change in the working tree")
	return cmd
}

func runAdd(cmd *cobra.Command, files []string, all bool) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	wt, err := store.Repository().Worktree()
	if err != nil {
		return fmt.Errorf("opening worktree: %w", err)
	}

	if all {
		if err := wt.AddWithOptions(&git.AddOptions{All: true}); err != nil {
			return fmt.Errorf("staging all changes: %w", err)
		}
		style.Green(cmd.OutOrStdout(), "Staged all changes.")
		fmt.Fprintln(cmd.OutOrStdout())
		return nil
	}

	if len(files) == 0 {
		return fmt.Errorf("nothing to stage: pass one or more files, or -A")
	}
	for _, f := range files {
		if _, err := wt.Add(f); err != nil {
			return fmt.Errorf("staging %q: %w", f, err)
		}
	}
	style.Green(cmd.OutOrStdout(), "Staged %d file(s).", len(files))
	fmt.Fprintln(cmd.OutOrStdout())
	return nil
}
