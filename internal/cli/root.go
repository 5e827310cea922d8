package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is aleagit's reported version string.
const Version = "0.1.0"

const usageTemplate = `Usage:
  {{.UseLine}}

{{if .HasAvailableSubCommands}}Commands:{{range .Commands}}{{if .IsAvailableCommand}}
  {{rpad .Name .NamePadding}} {{.Short}}{{end}}{{end}}
{{end}}
Flags:
{{.LocalFlags.FlagUsages}}`

// NewRootCmd builds the aleagit command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "aleagit",
		Short:         fmt.Sprintf("aleagit %s - geometry-aware version control for nuclear models", Version),
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			showVersion, _ := cmd.Flags().GetBool("version")
			if showVersion {
				fmt.Fprintf(cmd.OutOrStdout(), "aleagit %s - geometry-aware version control for nuclear models\n", Version)
				return nil
			}
			if len(args) > 0 {
				cmd.Help()
				return fmt.Errorf("unknown command %q", args[0])
			}
			return cmd.Help()
		},
	}

	root.PersistentFlags().BoolP("version", "V", false, "print the version and exit")
	root.SetUsageTemplate(usageTemplate)

	root.AddCommand(
		newInitCmd(),
		newSummaryCmd(),
		newStatusCmd(),
		newDiffCmd(),
		newLogCmd(),
		newBlameCmd(),
		newValidateCmd(),
		newAddCmd(),
		newCommitCmd(),
	)
	return root
}
