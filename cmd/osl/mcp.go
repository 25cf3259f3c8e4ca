package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/aretw0/osl/internal/cli"
	"github.com/aretw0/osl/pkg/adapters/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Exposes every console action as an MCP tool, plus set_tenant, set_token
and get_status.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		transport, _ := cmd.Flags().GetString("transport")
		port, _ := cmd.Flags().GetInt("port")

		// Ensure nothing but JSON-RPC reaches stdout
		opts := globalOpts
		opts.Quiet = true
		opts.Stdout = os.Stderr
		log.SetOutput(os.Stderr)

		sess, err := cli.NewSession(opts)
		if err != nil {
			return err
		}
		defer sess.Close()

		ctx := cli.NewSignalContext(context.Background())
		defer ctx.Cancel()
		sess.Restore(ctx, false)

		srv := mcp.NewServer(sess.Console, mcp.WithLogger(sess.Logger))

		switch transport {
		case "stdio":
			sess.Logger.Info("Starting osl MCP Server (Stdio)")
			return srv.ServeStdio()
		case "sse":
			sess.Logger.Info("Starting osl MCP Server (SSE)", "port", port)
			if err := srv.ServeSSE(ctx, port); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			sess.Logger.Info("MCP Server stopped gracefully")
			return nil
		default:
			return fmt.Errorf("unknown transport: %s. Supported: stdio, sse", transport)
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)

	mcpCmd.Flags().String("transport", "stdio", "Transport protocol to use: 'stdio' or 'sse'")
	mcpCmd.Flags().Int("port", 8080, "Port to listen on (only for SSE)")
}
