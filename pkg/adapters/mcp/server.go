package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/aretw0/osl"
	"github.com/aretw0/osl/internal/logging"
	"github.com/aretw0/osl/pkg/domain"
	"github.com/aretw0/osl/pkg/workflow"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// ActionsURI is the resource listing the command table.
const ActionsURI = "osl://actions"

// Console is the part of osl.Console the server drives.
type Console interface {
	Invoke(ctx context.Context, action string, overrides map[string]string) (domain.Outcome, error)
	Actions() []workflow.Command
	SetTenant(ctx context.Context, raw string) (string, error)
	SetToken(ctx context.Context, raw string) string
	Identity() domain.Identity
	Status() *domain.StatusBoard
}

// StatusResponse is returned by the get_status tool. The token itself is never exposed.
type StatusResponse struct {
	TenantID string        `json:"tenant_id"`
	HasToken bool          `json:"has_token"`
	Tenant   domain.Status `json:"tenant_status"`
	API      domain.Status `json:"api_status"`
}

type tool struct {
	def     mcp.Tool
	handler server.ToolHandlerFunc
}

// Server exposes a Console as an MCP server: one tool per action plus
// credential tools.
type Server struct {
	console   Console
	mcpServer *server.MCPServer
	logger    *slog.Logger
	tools     []tool
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(console Console, opts ...Option) *Server {
	s := &Server{
		console:   console,
		mcpServer: server.NewMCPServer("osl-mcp", strings.TrimSpace(osl.Version)),
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE and stops when ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	for _, cmd := range s.console.Actions() {
		s.tools = append(s.tools, tool{def: actionTool(cmd), handler: s.handleAction(cmd.Name())})
	}

	s.tools = append(s.tools,
		tool{
			def: mcp.NewTool("set_tenant",
				mcp.WithDescription("Set the active tenant id used by every tenant-scoped action. An empty value clears it."),
				mcp.WithString("tenant_id", mcp.Required(), mcp.Description("Tenant UUID")),
			),
			handler: s.handleSetTenant,
		},
		tool{
			def: mcp.NewTool("set_token",
				mcp.WithDescription("Set the API token sent with token-protected actions. An empty value clears it."),
				mcp.WithString("token", mcp.Required(), mcp.Description("API token")),
			),
			handler: s.handleSetToken,
		},
		tool{
			def:     mcp.NewTool("get_status", mcp.WithDescription("Show the active tenant and the status lines.")),
			handler: s.handleStatus,
		},
	)

	for _, t := range s.tools {
		s.mcpServer.AddTool(t.def, t.handler)
	}
}

func actionTool(cmd workflow.Command) mcp.Tool {
	desc := cmd.Summary
	switch {
	case cmd.Descriptor.RequireTenant && cmd.Descriptor.RequireToken:
		desc += ". Needs a tenant and an API token."
	case cmd.Descriptor.RequireTenant:
		desc += ". Needs a tenant."
	case cmd.Descriptor.RequireToken:
		desc += ". Needs an API token."
	}

	opts := []mcp.ToolOption{mcp.WithDescription(desc)}
	for _, in := range cmd.Inputs {
		text := in.Description
		if in.Required {
			text += " (required; defaults to the value chained from earlier actions)"
		}
		opts = append(opts, mcp.WithString(in.Param(), mcp.Description(text)))
	}
	return mcp.NewTool(cmd.Name(), opts...)
}

func (s *Server) handleAction(action string) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		overrides := make(map[string]string)
		for key, val := range request.GetArguments() {
			switch v := val.(type) {
			case nil:
			case string:
				overrides[key] = v
			default:
				overrides[key] = fmt.Sprint(v)
			}
		}

		out, err := s.console.Invoke(ctx, action, overrides)
		if err != nil {
			if errors.Is(err, workflow.ErrUnknownField) || errors.Is(err, domain.ErrUnknownAction) {
				return mcp.NewToolResultError(err.Error()), nil
			}
			s.logger.Warn("MCP action failed", "action", action, "error", err)
		}

		panel, _ := json.Marshal(out.Panel())
		if !out.OK() {
			return mcp.NewToolResultError(string(panel)), nil
		}
		return mcp.NewToolResultText(string(panel)), nil
	}
}

func (s *Server) handleSetTenant(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, _ := request.GetArguments()["tenant_id"].(string)
	if _, err := s.console.SetTenant(ctx, raw); err != nil {
		return mcp.NewToolResultError(domain.MsgTenantPrompt), nil
	}
	return mcp.NewToolResultText(s.console.Status().Get(domain.IndicatorTenant).Message), nil
}

func (s *Server) handleSetToken(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, _ := request.GetArguments()["token"].(string)
	s.console.SetToken(ctx, raw)
	return mcp.NewToolResultText(s.console.Status().Get(domain.IndicatorAPI).Message), nil
}

func (s *Server) handleStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := s.console.Identity()
	board := s.console.Status()
	resp := StatusResponse{
		TenantID: id.TenantID,
		HasToken: id.HasToken(),
		Tenant:   board.Get(domain.IndicatorTenant),
		API:      board.Get(domain.IndicatorAPI),
	}
	data, _ := json.Marshal(resp)
	return mcp.NewToolResultText(string(data)), nil
}

// toolNames lists registered tools, sorted.
func (s *Server) toolNames() []string {
	names := make([]string, 0, len(s.tools))
	for _, t := range s.tools {
		names = append(names, t.def.Name)
	}
	sort.Strings(names)
	return names
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(ActionsURI, "Command table",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		data, err := json.Marshal(s.console.Actions())
		if err != nil {
			return nil, fmt.Errorf("failed to encode actions: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      ActionsURI,
				MIMEType: "application/json",
				Text:     string(data),
			},
		}, nil
	})
}
