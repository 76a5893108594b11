package main

import (
	"context"

	"github.com/spf13/cobra"

	"whodunit/internal/logging"
	mcpserver "whodunit/internal/mcp"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server over stdio",
		Long: `Serve exposes generate_case, load_case, solve_case, case_report,
list_fixtures and calibrate as MCP tools over stdin/stdout. Cases and
solutions are kept in the case store.

The server exits when its parent process goes away.`,
		RunE: runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	srv := mcpserver.NewServer(
		mcpserver.WithStore(st),
		mcpserver.WithSolverOptions(resolved.SolverOptions()...),
		mcpserver.WithAccuracy(resolved.Accuracy),
	)
	defer srv.Shutdown()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	mcpserver.WatchParent(ctx, cancel)

	logging.New("mcp").Info("starting whodunit MCP server over stdio", "db", resolved.DBPath.Value)
	return srv.MCPServer.Run(ctx, &sdkmcp.StdioTransport{})
}
