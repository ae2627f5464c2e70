package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start an MCP server exposing tappval tools",
	Long: `Start a Model Context Protocol (MCP) server that exposes the viewer as
tools: analyze, load_result, summary, overlay, hover, leave, scroll, resize
and screenshot. AI agents can call tools directly without shell overhead.

Supported transports:
  stdio             Standard I/O (default, for MCP clients)
  streamable-http   Streamable HTTP transport (for remote agents)

Examples:
  tappval serve
  tappval serve --transport streamable-http --port 8080
  tappval serve --result result.json --cache-ttl 5m`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("transport", "stdio", "Transport: stdio, streamable-http")
	serveCmd.Flags().Int("port", 8080, "HTTP port for streamable-http transport")
	serveCmd.Flags().String("result", "", "Result file to show on startup")
	serveCmd.Flags().Duration("cache-ttl", 0, "Result cache TTL, 0 to disable (default from config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	transport, _ := cmd.Flags().GetString("transport")
	port, _ := cmd.Flags().GetInt("port")

	host, err := newHost(cmd)
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}

	return serveMCP(host, MCPConfig{Transport: transport, Port: port})
}
