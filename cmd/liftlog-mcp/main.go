package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/claude/liftlog/internal/mcp"
	"github.com/claude/liftlog/internal/remote"
	"github.com/claude/liftlog/internal/syncer"
	"github.com/claude/liftlog/internal/template"
	"github.com/claude/liftlog/internal/workout"
	"github.com/mark3labs/mcp-go/server"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	serverURL := flag.String("server", "", "LiftLog server URL (e.g. https://liftlog.tail1234.ts.net)")
	apiKey := flag.String("api-key", os.Getenv("LIFTLOG_API_KEY"), "API key (defaults to LIFTLOG_API_KEY)")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println("liftlog-mcp", Version)
		return
	}

	// stdout carries the MCP protocol; logs go to stderr.
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if *serverURL == "" {
		fmt.Fprintf(os.Stderr, "Usage: liftlog-mcp -server <URL> [-api-key KEY]\n\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	client := remote.NewClient(*serverURL, *apiKey)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	me, err := client.Me(ctx)
	cancel()
	if err != nil {
		log.Error("failed to resolve identity", "server", *serverURL, "error", err)
		os.Exit(1)
	}
	log.Info("connected", "server", *serverURL, "user", me.Login)

	tracker := workout.NewTracker(syncer.New(client, log), log)
	loader := template.NewLoader(client)

	s := mcp.New(tracker, loader, client, me.ID, Version, log)
	if err := server.ServeStdio(s); err != nil {
		log.Error("mcp server error", "error", err)
		os.Exit(1)
	}
}
