package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"dictation/internal/mcp"
	"dictation/internal/server"
)

func newMCPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Run the MCP server on stdio",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := requireApp()
			if err != nil {
				return err
			}
			return mcp.NewServer(a.svc, server.BuildVersion(), slog.Default()).Serve(cmd.Context())
		},
	}
}
