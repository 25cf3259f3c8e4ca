package main

import (
	"github.com/spf13/cobra"
)

var orderCmd = &cobra.Command{
	Use:   "order",
	Short: "Create, allocate and release orders",
}

func init() {
	rootCmd.AddCommand(orderCmd)

	orderCmd.AddCommand(actionCommand("create", "Create a single-line order", "create_order"))
	orderCmd.AddCommand(actionCommand("allocate", "Allocate stock for an order", "allocate"))
	orderCmd.AddCommand(actionCommand("release", "Release an order's allocation", "release"))
}
