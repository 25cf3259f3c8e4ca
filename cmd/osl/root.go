package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/aretw0/osl/internal/cli"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "osl",
	Short: "osl is an operator console for a multi-tenant commerce backend",
	Long: `osl drives tenants, products, customers, warehouses, orders and stock events
through named actions. Identifiers returned by one action chain into the next.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// globalOpts is filled by the persistent flags before any RunE executes.
var globalOpts cli.Options

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		// Failed outcomes were already rendered.
		if !errors.Is(err, cli.ErrActionFailed) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&globalOpts.ConfigPath, "config", "", "Configuration file (default ./osl.yaml when present)")
	flags.StringVar(&globalOpts.BaseURL, "base-url", "", "Backend base URL")
	flags.StringVar(&globalOpts.Store, "store", "", "Credential store backend: memory, file or redis")
	flags.StringVar(&globalOpts.StorePath, "store-path", "", "State file for the file store")
	flags.StringVar(&globalOpts.RedisURL, "redis-url", "", "Redis URL for the redis store")
	flags.StringVar(&globalOpts.DefaultTenant, "default-tenant", "", "Tenant used when none is cached")
	flags.BoolVar(&globalOpts.JSON, "json", false, "Emit NDJSON records instead of text")
	flags.BoolVar(&globalOpts.Debug, "debug", false, "Enable debug logs")
}
