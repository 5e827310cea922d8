package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/giovanni-mariano/aleagit/internal/revstore"
	"github.com/giovanni-mariano/aleagit/internal/style"
)

// gitattributesContent assigns aleagit's structural differs to the
// recognized geometry extensions so `git diff` can use them too.
const gitattributesContent = `*.inp diff=mcnp
*.i diff=mcnp
*.mcnp diff=mcnp
*.xml diff=openmc
`

const preCommitHook = `#!/bin/sh
# Installed by aleagit init --hook.
exec aleagit validate --pre-commit
`

func newInitCmd() *cobra.Command {
	var installHook bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a geometry-aware repository",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd, installHook)
		},
	}
	cmd.Flags().BoolVar(&installHook, "hook", false, "install a pre-commit hook that runs aleagit validate")
	return cmd
}

func runInit(cmd *cobra.Command, installHook bool) error {
	if _, err := revstore.Init("."); err != nil {
		return err
	}

	if err := ensureGitattributes("."); err != nil {
		return fmt.Errorf("writing .gitattributes: %w", err)
	}

	if installHook {
		if err := installPreCommitHook("."); err != nil {
			return fmt.Errorf("installing pre-commit hook: %w", err)
		}
	}

	style.Green(cmd.OutOrStdout(), "Initialized geometry-aware repository.")
	fmt.Fprintln(cmd.OutOrStdout())
	return nil
}

func ensureGitattributes(dir string) error {
	path := filepath.Join(dir, ".gitattributes")
	existing, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	if strings.Contains(string(existing), "diff=mcnp") {
		return nil
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.WriteString(gitattributesContent)
	return err
}

func installPreCommitHook(dir string) error {
	hooksDir := filepath.Join(dir, ".git", "hooks")
	if err := os.MkdirAll(hooksDir, 0755); err != nil {
		return err
	}
	path := filepath.Join(hooksDir, "pre-commit")
	if err := os.WriteFile(path, []byte(preCommitHook), 0755); err != nil {
		return err
	}
	return os.Chmod(path, 0755)
}
