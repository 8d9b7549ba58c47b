package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/a3tai/trade-doc-match/internal/api"
	"github.com/a3tai/trade-doc-match/internal/config"
	"github.com/a3tai/trade-doc-match/internal/fields"
	"github.com/a3tai/trade-doc-match/internal/mcp"
	"github.com/a3tai/trade-doc-match/internal/tradedoc"
)

var (
	version   = "dev"     // This will be set by build flags
	buildTime = "unknown" // This will be set by build flags
	gitCommit = "unknown" // This will be set by build flags
)

// setupLogging builds the process logger based on the server mode
func setupLogging(cfg *config.Config) *slog.Logger {
	// In stdio mode stdout carries the MCP protocol, so logs go to
	// stderr and are dropped entirely unless debug is enabled
	var out io.Writer = os.Stdout
	if cfg.IsStdioMode() {
		out = os.Stderr
		if !cfg.IsDebug() {
			out = io.Discard
		}
	}

	level := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	logger := slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger
}

// loadCatalog builds the field catalog, from a rule file if configured
func loadCatalog(cfg *config.Config) (*fields.Catalog, error) {
	if cfg.RulesPath == "" {
		return fields.DefaultCatalog(), nil
	}
	return fields.LoadRuleFile(cfg.RulesPath)
}

// runServerMode handles HTTP server mode execution with signal handling
func runServerMode(ctx context.Context, cancel context.CancelFunc, server *api.Server, logger *slog.Logger) {
	// Set up signal handling for graceful shutdown
	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	// Start server in a goroutine
	serverErrCh := make(chan error, 1)
	go func() {
		serverErrCh <- server.Start(ctx)
	}()

	// Wait for shutdown signal or server error
	select {
	case sig := <-signalCh:
		logger.Info("shutdown.signal", "signal", sig.String())
		cancel()

		// Wait for server to shutdown
		if err := <-serverErrCh; err != nil {
			logger.Error("shutdown.error", "error", err)
			os.Exit(1)
		}

	case err := <-serverErrCh:
		if err != nil {
			logger.Error("server.error", "error", err)
			os.Exit(1)
		}
	}

	logger.Info("server.stopped")
}

// runStdioMode handles stdio mode execution
func runStdioMode(ctx context.Context, _ context.CancelFunc, server *mcp.Server, cfg *config.Config) {
	// In stdio mode, the parent process controls our lifecycle
	// We should exit cleanly when stdin is closed or we get an error
	if err := server.Run(ctx); err != nil {
		// Only log to stderr in debug mode to avoid protocol interference
		if cfg.IsDebug() {
			fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		}
		os.Exit(1)
	}
}

func main() {
	// Check for version flag before parsing other flags
	for _, arg := range os.Args[1:] {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			printVersion()
			return
		}
	}

	// Load configuration from flags first
	cfg, err := config.LoadFromFlags()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Set up logging based on mode
	logger := setupLogging(cfg)

	// Set version if it was provided during build
	if version != "dev" {
		cfg.Version = version
	}

	if cfg.IsDebug() && cfg.IsServerMode() {
		logger.Debug("config.loaded", "config", cfg.String())
	}

	catalog, err := loadCatalog(cfg)
	if err != nil {
		log.Fatalf("Failed to load field rules: %v", err)
	}

	// Create the trade document service
	service := tradedoc.NewService(cfg.ServerName, cfg.Version, cfg.MaxFileSize, catalog, cfg.TablePath, logger)

	// Set up context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle different modes
	if cfg.IsServerMode() {
		server := api.NewServer(cfg.Address(), cfg.MaxFileSize, service, logger)
		runServerMode(ctx, cancel, server, logger)
	} else {
		server, err := mcp.NewServer(cfg, service)
		if err != nil {
			log.Fatalf("Failed to create MCP server: %v", err)
		}
		runStdioMode(ctx, cancel, server, cfg)
	}
}

// printVersion prints version information
func printVersion() {
	fmt.Printf("Trade Doc Match\n")
	fmt.Printf("Version: %s\n", version)
	fmt.Printf("Build Time: %s\n", buildTime)
	fmt.Printf("Git Commit: %s\n", gitCommit)
	fmt.Printf("Built with: %s\n", runtime.Version())
}
