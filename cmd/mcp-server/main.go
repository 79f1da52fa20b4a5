// cmd/mcp-server/main.go — Standalone HTTP MCP server for gopoisson
//
// Exposes the Poisson series tools as an HTTP endpoint for AI agent frameworks.
//
// Usage:
//
//	go run ./cmd/mcp-server --port 8080
//	go run ./cmd/mcp-server --config gopoisson.toml --threads 8
//
// Tool call endpoint: POST /tool
// Schema endpoint:    GET  /schema
// Health endpoint:    GET  /health
// Metrics endpoint:   GET  /metrics
package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/njchilds90/gopoisson/internal/logging"
	"github.com/njchilds90/gopoisson/settings"
)

var (
	cfgFile   string
	port      int
	threads   int
	debugMode bool
)

var rootCmd = &cobra.Command{
	Use:   "mcp-server",
	Short: "HTTP MCP server for Poisson series calculus",
	Long: `mcp-server exposes the gopoisson tools over HTTP.

Configuration is read from --config (YAML, JSON or TOML), then from
GOPOISSON_* environment variables, then from the flags below.`,
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	rootCmd.Flags().StringVar(&cfgFile, "config", "", "config file (.yaml, .json or .toml)")
	rootCmd.Flags().IntVar(&port, "port", 0, "port to listen on (overrides config)")
	rootCmd.Flags().IntVar(&threads, "threads", 0, "worker threads for bulk buffer population (overrides config)")
	rootCmd.Flags().BoolVar(&debugMode, "debug", false, "enable debug logging and gin debug mode")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, _ []string) error {
	cfg, err := settings.Load(cfgFile)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("port") {
		cfg.Server.Port = port
	}
	if cmd.Flags().Changed("threads") {
		cfg.Threads = threads
	}
	if debugMode {
		cfg.Server.Debug = true
		cfg.Log.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := settings.Apply(cfg); err != nil {
		return err
	}

	logger := logging.New(logging.Config{Level: cfg.Log.Level, JSON: cfg.Log.JSON, Service: "gopoisson-mcp"})
	slog.SetDefault(logger)

	if cfg.Server.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	logger.Info("gopoisson MCP server listening",
		slog.String("address", addr),
		slog.Int("threads", settings.NThreads()),
		slog.Int("parallel_threshold", settings.ParallelThreshold()))
	logger.Info("  POST /tool    — execute a tool call")
	logger.Info("  GET  /schema  — tool schema for agent registration")
	logger.Info("  GET  /health  — health check")
	logger.Info("  GET  /metrics — Prometheus metrics")

	srv := &http.Server{
		Addr:              addr,
		Handler:           newRouter(logger),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
