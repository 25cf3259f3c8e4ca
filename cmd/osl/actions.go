package main

import (
	"github.com/aretw0/osl/internal/cli"
	"github.com/aretw0/osl/pkg/workflow"
	"github.com/spf13/cobra"
)

var actionsCmd = &cobra.Command{
	Use:   "actions",
	Short: "List the available actions and their fields",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cli.PrintActions(cmd.OutOrStdout(), workflow.Commands())
	},
}

func init() {
	rootCmd.AddCommand(actionsCmd)
}
