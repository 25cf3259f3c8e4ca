package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/osl/internal/cli"
	"github.com/aretw0/osl/pkg/workflow"
	"github.com/spf13/cobra"
)

// actionCommand builds a command whose flags mirror the action's inputs.
// Only flags given on the command line override the stored form fields, so
// chained identifiers survive between invocations.
func actionCommand(use, short, action string) *cobra.Command {
	def, ok := lookupCommand(action)
	if !ok {
		panic(fmt.Sprintf("osl: action %q is not in the command table", action))
	}

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
	}
	for _, in := range def.Inputs {
		cmd.Flags().String(flagName(in), "", in.Description)
	}
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		overrides := make(map[string]string)
		for _, in := range def.Inputs {
			name := flagName(in)
			if !cmd.Flags().Changed(name) {
				continue
			}
			v, _ := cmd.Flags().GetString(name)
			overrides[in.Param()] = v
		}
		return cli.RunAction(globalOpts, action, overrides)
	}
	return cmd
}

func lookupCommand(action string) (workflow.Command, bool) {
	for _, c := range workflow.Commands() {
		if c.Name() == action {
			return c, true
		}
	}
	return workflow.Command{}, false
}

func flagName(in workflow.Input) string {
	return strings.ReplaceAll(in.Param(), "_", "-")
}
