package main

import (
	"testing"

	"github.com/aretw0/osl/pkg/workflow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandTree_CoversEveryAction(t *testing.T) {
	paths := map[string][]string{
		"create_tenant":         {"tenant", "create"},
		"create_product":        {"product", "create"},
		"search_products":       {"product", "search"},
		"create_customer":       {"customer", "create"},
		"create_warehouse":      {"warehouse", "create"},
		"update_product":        {"product", "update"},
		"update_customer":       {"customer", "update"},
		"update_warehouse":      {"warehouse", "update"},
		"health":                {"health"},
		"create_order":          {"order", "create"},
		"allocate":              {"order", "allocate"},
		"release":               {"order", "release"},
		"create_stock_event":    {"stock", "event"},
		"refresh_current_stock": {"stock", "refresh"},
		"current_stock":         {"stock", "current"},
	}

	for _, def := range workflow.Commands() {
		path, ok := paths[def.Name()]
		require.True(t, ok, "no command for %s", def.Name())

		cmd, rest, err := rootCmd.Find(path)
		require.NoError(t, err)
		assert.Empty(t, rest)
		for _, in := range def.Inputs {
			assert.NotNil(t, cmd.Flags().Lookup(flagName(in)), "%s: missing flag for %s", def.Name(), in.Field)
		}
	}
}

func TestFlagName(t *testing.T) {
	assert.Equal(t, "customer-id", flagName(workflow.Input{Field: workflow.FieldOrderCustomerID}))
	assert.Equal(t, "event-type", flagName(workflow.Input{Field: workflow.FieldStockEventType}))
	assert.Equal(t, "qty", flagName(workflow.Input{Field: workflow.FieldOrderQty}))
}

func TestLookupCommand(t *testing.T) {
	_, ok := lookupCommand("allocate")
	assert.True(t, ok)
	_, ok = lookupCommand("bogus")
	assert.False(t, ok)
}
