package main

import (
	"github.com/spf13/cobra"
)

type rootFlags struct {
	verbose bool
	dryRun  bool
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:           "platformctl",
		Short:         "platformctl bootstraps and operates the internal developer platform",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().BoolVar(&flags.dryRun, "dry-run", false, "Preview actions without touching the cluster")

	cmd.AddCommand(newBootstrapCmd(flags))
	cmd.AddCommand(newOperateCmd(flags))
	cmd.AddCommand(newVersionCmd())

	return cmd
}
