package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	mcpadapter "orbnaments/internal/adapters/mcp"
	"orbnaments/internal/app"
	"orbnaments/internal/config"
)

func main() {
	vaultFlag := flag.String("vault", "", "path to the vault (default $"+config.EnvPrefix+"_VAULT or "+config.DefaultVaultPath+")")
	logLevel := flag.String("log-level", "", "log level (debug, info, warn, error)")
	flag.Parse()

	if err := config.LoadEnvFile(".env"); err != nil {
		log.Fatalf("orbnaments-mcp: %v", err)
	}

	// stdout carries the MCP protocol, so logs go to stderr
	vault, err := app.New(app.Options{
		VaultPath: *vaultFlag,
		LogLevel:  *logLevel,
		LogOutput: os.Stderr,
	})
	if err != nil {
		log.Fatalf("orbnaments-mcp: %v", err)
	}
	defer vault.Close()

	mcpServer := server.NewMCPServer(
		"orbnaments-mcp",
		"0.1.0",
		server.WithToolCapabilities(true),
	)

	mcpServer.AddTool(
		mcp.NewTool("ping",
			mcp.WithDescription("Health check, returns pong"),
		),
		func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return mcp.NewToolResultText("pong"), nil
		},
	)

	mcpadapter.RegisterTools(mcpServer, vault)

	if err := server.ServeStdio(mcpServer); err != nil {
		vault.Logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
