package main

import (
	"github.com/spf13/cobra"
)

var stockCmd = &cobra.Command{
	Use:   "stock",
	Short: "Record stock events and query current stock",
}

func init() {
	rootCmd.AddCommand(stockCmd)

	stockCmd.AddCommand(actionCommand("event", "Record a stock ledger event (RECEIPT, SHIP, ADJUST_IN, ADJUST_OUT)", "create_stock_event"))
	stockCmd.AddCommand(actionCommand("refresh", "Refresh the current stock projection", "refresh_current_stock"))
	stockCmd.AddCommand(actionCommand("current", "Show current stock for a product", "current_stock"))
}
