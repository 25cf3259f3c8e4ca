package main

import (
	"github.com/aretw0/osl/internal/cli"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run <action> [field=value ...]",
	Short: "Invoke any action by name",
	Long: `Invokes an action from the command table. Field values are given as
key=value pairs using either the short parameter name (qty=3) or the full
field name (order.qty=3). Run "osl actions" for the list.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		overrides, err := cli.ParseAssignments(args[1:])
		if err != nil {
			return err
		}
		return cli.RunAction(globalOpts, args[0], overrides)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}
