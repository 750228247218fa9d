// Analyza server: receives Slack mentions, orchestrates LLM tool-calling
// runs against the analytics warehouse, and delivers answers and charts back
// to the channel.
package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/analyza-ai/analyza/pkg/api"
	"github.com/analyza-ai/analyza/pkg/config"
	"github.com/analyza-ai/analyza/pkg/database"
	"github.com/analyza-ai/analyza/pkg/llm"
	"github.com/analyza-ai/analyza/pkg/orchestrator"
	"github.com/analyza-ai/analyza/pkg/prompt"
	"github.com/analyza-ai/analyza/pkg/query"
	"github.com/analyza-ai/analyza/pkg/session"
	"github.com/analyza-ai/analyza/pkg/slack"
	"github.com/analyza-ai/analyza/pkg/tools"
	"github.com/analyza-ai/analyza/pkg/version"
)

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	configDir := flag.String("config-dir",
		getEnv("CONFIG_DIR", "./deploy/config"),
		"Path to configuration directory")
	flag.Parse()

	envPath := filepath.Join(*configDir, ".env")
	if err := godotenv.Load(envPath); err != nil {
		slog.Warn("Could not load .env file, continuing with existing environment",
			"path", envPath, "error", err)
	} else {
		slog.Info("Loaded environment", "path", envPath)
	}

	httpPort := getEnv("HTTP_PORT", "8080")

	ctx := context.Background()

	// 1. Initialize configuration
	cfg, err := config.Initialize(ctx, *configDir)
	if err != nil {
		slog.Error("Failed to initialize configuration", "error", err)
		os.Exit(1)
	}
	slog.Info("Starting "+cfg.Bot.Name,
		"version", version.Full(),
		"http_port", httpPort,
		"config_dir", *configDir,
		"platform", cfg.Bot.Platform)

	// 2. Connect to the warehouse
	dbConfig, err := database.LoadConfigFromEnv()
	if err != nil {
		slog.Error("Failed to load database config", "error", err)
		os.Exit(1)
	}
	dbClient, err := database.NewClient(ctx, dbConfig)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbClient.Close()
	slog.Info("Connected to PostgreSQL warehouse")

	// 3. Load table descriptors and build the tool registry
	descriptors, err := prompt.LoadDescriptors(cfg.Tables.DescriptorDir)
	if err != nil {
		slog.Error("Failed to load table descriptors", "dir", cfg.Tables.DescriptorDir, "error", err)
		os.Exit(1)
	}
	slog.Info("Loaded table descriptors", "count", len(descriptors))

	executor := query.NewExecutor(dbClient)
	registry, err := tools.NewBuiltinRegistry(executor, prompt.DescribeTables(descriptors))
	if err != nil {
		slog.Error("Failed to build tool registry", "error", err)
		os.Exit(1)
	}
	slog.Info("Tool registry initialized", "tools", registry.Names())

	// 4. Create the LLM client and verify connectivity
	providerCfg, err := cfg.ActiveProvider()
	if err != nil {
		slog.Error("Failed to resolve LLM provider", "error", err)
		os.Exit(1)
	}
	llmClient, err := llm.NewOpenAIClient(providerCfg)
	if err != nil {
		slog.Error("Failed to initialize LLM client", "provider", providerCfg.Provider, "error", err)
		os.Exit(1)
	}
	probeCtx, probeCancel := context.WithTimeout(ctx, 30*time.Second)
	if err := llmClient.TestConnection(probeCtx); err != nil {
		slog.Error("LLM provider is not reachable", "provider", providerCfg.Provider, "error", err)
	}
	probeCancel()

	// 5. Sessions, orchestrator, Slack delivery
	sessions := session.NewManager(
		session.WithMaxHistory(cfg.History.MaxMessages),
		session.WithUserDefaults(
			getEnv("USER_ROLE", "a growth analyst"),
			getEnv("USER_CONTEXT", "a fintech startup operating in retail lending in Philippines"),
		),
	)
	orch := orchestrator.New(llmClient, registry)

	slackClient, err := slack.NewClient(os.Getenv(cfg.Slack.TokenEnv))
	if err != nil {
		slog.Error("Failed to initialize Slack client", "error", err)
		os.Exit(1)
	}

	// 6. HTTP server
	httpServer := api.NewServer(cfg, dbClient, sessions, orch, slackClient)

	errCh := make(chan error, 1)
	go func() {
		addr := ":" + httpPort
		slog.Info("HTTP server listening", "addr", addr)
		if err := httpServer.Start(addr); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server error", "error", err)
			errCh <- err
		}
	}()

	slog.Info(cfg.Bot.Name+" started successfully",
		"provider", providerCfg.Provider,
		"model", llmClient.Model(),
		"max_depth", cfg.Orchestrator.MaxDepth)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)

	select {
	case sig := <-sigCh:
		slog.Info("Shutdown signal received", "signal", sig)
	case err := <-errCh:
		slog.Error("Server error triggered shutdown", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	slog.Info("Shutdown complete")
}
