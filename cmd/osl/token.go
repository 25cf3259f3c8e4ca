package main

import (
	"os"

	"github.com/aretw0/osl/internal/cli"
	"github.com/aretw0/osl/pkg/presenter"
	"github.com/spf13/cobra"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Manage the API token sent as X-Api-Token",
}

var tokenSetCmd = &cobra.Command{
	Use:   "set [token]",
	Short: "Set and persist the API token (prompts when omitted)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 {
			return cli.SetToken(globalOpts, args[0])
		}
		token, err := presenter.ReadSecret(os.Stdin, os.Stderr, "API token: ")
		if err != nil {
			return err
		}
		return cli.SetToken(globalOpts, token)
	},
}

var tokenClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove the persisted API token",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cli.SetToken(globalOpts, "")
	},
}

func init() {
	rootCmd.AddCommand(tokenCmd)
	tokenCmd.AddCommand(tokenSetCmd)
	tokenCmd.AddCommand(tokenClearCmd)
}
