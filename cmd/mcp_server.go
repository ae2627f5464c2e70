package cmd

import (
	"fmt"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/tahmarrrr23/tappval/internal/server"
	"github.com/tahmarrrr23/tappval/internal/version"
)

// MCPConfig holds MCP server configuration.
type MCPConfig struct {
	Transport string
	Port      int
}

// serveMCP starts the MCP server for host with the configured transport.
func serveMCP(host *server.Host, cfg MCPConfig) error {
	s := server.NewMCPServer(host, version.Version)
	switch cfg.Transport {
	case "stdio":
		return mcpserver.ServeStdio(s)
	case "streamable-http":
		logger.Info("MCP server listening", "port", cfg.Port)
		httpServer := mcpserver.NewStreamableHTTPServer(s)
		return httpServer.Start(fmt.Sprintf(":%d", cfg.Port))
	default:
		return fmt.Errorf("unsupported transport: %s (use stdio or streamable-http)", cfg.Transport)
	}
}
