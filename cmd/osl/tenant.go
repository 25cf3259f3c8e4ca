package main

import (
	"github.com/aretw0/osl/internal/cli"
	"github.com/spf13/cobra"
)

var tenantCmd = &cobra.Command{
	Use:   "tenant",
	Short: "Manage the active tenant",
}

var tenantSetCmd = &cobra.Command{
	Use:   "set <tenant-id>",
	Short: "Set and persist the tenant id sent as X-Tenant-Id",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return cli.SetTenant(globalOpts, args[0])
	},
}

var tenantShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the tenant and API token status",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cli.ShowStatus(globalOpts)
	},
}

func init() {
	rootCmd.AddCommand(tenantCmd)
	tenantCmd.AddCommand(tenantSetCmd)
	tenantCmd.AddCommand(tenantShowCmd)
	tenantCmd.AddCommand(actionCommand("create", "Create a tenant and make it active (requires an API token)", "create_tenant"))
}
