package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/osl"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of osl",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "osl version %s\n", strings.TrimSpace(osl.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
