// Package main runs a reference chat thread server: thread state and items
// live in a pluggable store, model turns stream over SSE, and demo tools
// show off widget streaming and client-side tool calls.
//
// Configuration is via environment variables:
//
//	CHATKIT_PORT       - Server port (default: 8000)
//	CHATKIT_LOG_LEVEL  - Log level: debug, info, warn, error (default: info)
//	CHATKIT_PROVIDER   - Provider: anthropic or openai (required)
//	CHATKIT_MODEL      - Model override (optional, uses provider default)
//	CHATKIT_DATA_DIR   - Pebble database directory (default: in-memory)
//	CHATKIT_DEMO_TOOLS - Enable demo tools (default: true)
//	ANTHROPIC_API_KEY  - Anthropic API key
//	OPENAI_API_KEY     - OpenAI API key
//
// Usage:
//
//	CHATKIT_PROVIDER=anthropic go run ./cmd/chatkitd
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	chatkit "github.com/Timestep-AI/timestep-ai-sub001"
	"github.com/Timestep-AI/timestep-ai-sub001/internal/engine"
	"github.com/Timestep-AI/timestep-ai-sub001/server"
	"github.com/Timestep-AI/timestep-ai-sub001/store"
	"github.com/Timestep-AI/timestep-ai-sub001/store/pebblestore"
)

func main() {
	cfg, err := LoadConfig()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	setupLogging(cfg.LogLevel)

	st, attachments, cleanup, err := openStore(cfg)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer cleanup()

	streamer, err := createStreamer(cfg)
	if err != nil {
		log.Fatalf("Failed to create provider: %v", err)
	}

	responder := NewResponder(streamer, cfg.EnableDemoTools, slog.Default())

	opts := []server.Option{server.WithLogger(slog.Default())}
	if attachments != nil {
		opts = append(opts, server.WithAttachmentStore(attachments))
	}
	srv := server.New(st, opts...)
	srv.Respond = responder.Respond
	srv.Feedback = func(ctx context.Context, rc chatkit.RequestContext, threadID string, itemIDs []string, kind chatkit.FeedbackKind) error {
		slog.Info("feedback received", "thread_id", threadID, "items", itemIDs, "kind", kind)
		return nil
	}

	handler := server.NewHandler(srv, nil)

	mux := http.NewServeMux()
	mux.Handle("/chatkit", corsMiddleware(handler))
	mux.HandleFunc("/health", healthHandler)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 0, // SSE needs no write timeout
		IdleTimeout:  120 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(ctx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	slog.Info("server starting",
		"port", cfg.Port,
		"provider", cfg.Provider,
		"endpoint", fmt.Sprintf("POST http://localhost:%s/chatkit", cfg.Port),
	)

	if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}

	slog.Info("server stopped")
}

func setupLogging(level string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))
}

// openStore picks pebble when a data dir is configured, memory otherwise.
func openStore(cfg *Config) (store.Store, store.AttachmentStore, func(), error) {
	if cfg.DataDir == "" {
		mem := store.NewMemory()
		return mem, mem, func() {}, nil
	}
	db, err := pebblestore.Open(cfg.DataDir)
	if err != nil {
		return nil, nil, nil, err
	}
	return db, db, func() { db.Close() }, nil
}

func createStreamer(cfg *Config) (engine.Streamer, error) {
	switch cfg.Provider {
	case "anthropic":
		return engine.WithRetry(engine.NewAnthropic(cfg.AnthropicKey, cfg.Model)), nil
	case "openai":
		return engine.WithRetry(engine.NewOpenAI(cfg.OpenAIKey, cfg.Model)), nil
	default:
		return nil, fmt.Errorf("unknown provider: %s", cfg.Provider)
	}
}

// corsMiddleware adds CORS headers for cross-origin frontend requests.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// healthHandler returns a simple health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
