package main

import (
	"os"

	"github.com/aretw0/osl/internal/cli"
	"github.com/spf13/cobra"
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start an interactive console session",
	Long: `Starts a line-oriented console. Form fields and credentials live for the
whole session, so identifiers chain from one action into the next.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := globalOpts
		opts.MetricsAddr, _ = cmd.Flags().GetString("metrics-addr")
		return cli.RunShell(opts, os.Stdin)
	},
}

func init() {
	rootCmd.AddCommand(shellCmd)
	shellCmd.Flags().String("metrics-addr", "", "Serve Prometheus metrics on this address (e.g. :9090)")
}
