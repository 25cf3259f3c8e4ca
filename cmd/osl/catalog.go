package main

import (
	"github.com/spf13/cobra"
)

var productCmd = &cobra.Command{
	Use:   "product",
	Short: "Create, update and search products",
}

var customerCmd = &cobra.Command{
	Use:   "customer",
	Short: "Create and update customers",
}

var warehouseCmd = &cobra.Command{
	Use:   "warehouse",
	Short: "Create and update warehouses",
}

func init() {
	rootCmd.AddCommand(productCmd, customerCmd, warehouseCmd)

	productCmd.AddCommand(actionCommand("create", "Create a product; its id becomes the order product", "create_product"))
	productCmd.AddCommand(actionCommand("update", "Update a product (defaults to the order product)", "update_product"))
	productCmd.AddCommand(actionCommand("search", "Search products by SKU or name", "search_products"))
	customerCmd.AddCommand(actionCommand("create", "Create a customer; its id becomes the order customer", "create_customer"))
	customerCmd.AddCommand(actionCommand("update", "Update a customer (defaults to the order customer)", "update_customer"))
	warehouseCmd.AddCommand(actionCommand("create", "Create a warehouse; its id becomes the stock warehouse", "create_warehouse"))
	warehouseCmd.AddCommand(actionCommand("update", "Update a warehouse (defaults to the stock warehouse)", "update_warehouse"))
}
