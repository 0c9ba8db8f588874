package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	mcpadapter "nestedset/internal/adapters/mcp"
	"nestedset/internal/config"
	"nestedset/internal/wire"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("nestedset-mcp: %v", err)
	}
	flag.StringVar(&cfg.Database, "db", cfg.Database, "path to the sqlite database")
	flag.StringVar(&cfg.Driver, "driver", cfg.Driver, "store driver: sqlite, sqlite3 (cgo) or memory")
	flag.StringVar(&cfg.List, "list", cfg.List, "list (table) holding the records")
	flag.StringVar(&cfg.Field, "field", cfg.Field, "hierarchy field of the list")
	flag.Parse()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("nestedset-mcp: %v", err)
	}

	// stdout carries the protocol; logs go to stderr.
	env, err := wire.Open(context.Background(), cfg, cfg.Logger(os.Stderr))
	if err != nil {
		log.Fatalf("nestedset-mcp: %v", err)
	}
	defer env.Close()

	mcpServer := server.NewMCPServer(
		"nestedset-mcp",
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

	mcpadapter.RegisterReadTools(mcpServer, env.Tree)
	mcpadapter.RegisterWriteTools(mcpServer, env.Tree)

	if err := server.ServeStdio(mcpServer); err != nil {
		log.Fatalf("nestedset-mcp: %v", err)
	}
}
