package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/coder/websocket"
	"github.com/gorilla/mux"

	"github.com/inamate/fractal/internal/config"
	"github.com/inamate/fractal/internal/export"
	mw "github.com/inamate/fractal/internal/middleware"
	"github.com/inamate/fractal/internal/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel})))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := session.NewHub(slog.Default())
	hubDone := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(hubDone)
	}()

	exportHandler := export.NewHandler(cfg.EngineOptions())
	origins := cfg.Origins()

	r := mux.NewRouter()

	// Global middleware
	r.Use(mw.Recovery)
	r.Use(mw.Logger)
	r.Use(mw.CORS(origins))

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"status":"ok","sessions":%d}`, hub.Count())
	}).Methods("GET")

	// Offline renders
	r.HandleFunc("/render.png", exportHandler.PNG).Methods("GET", "OPTIONS")
	r.HandleFunc("/render.svg", exportHandler.SVG).Methods("GET", "OPTIONS")

	// WebSocket endpoint
	r.HandleFunc("/ws/view", func(w http.ResponseWriter, r *http.Request) {
		handleWebSocket(w, r, hub, cfg, origins)
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down server")

		// Close viewer sessions first so their handlers return
		cancel()
		<-hubDone

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		srv.Shutdown(shutdownCtx)
	}()

	slog.Info("server starting", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

func handleWebSocket(w http.ResponseWriter, r *http.Request, hub *session.Hub, cfg *config.Config, origins []string) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: origins,
	})
	if err != nil {
		slog.Error("websocket accept", "error", err)
		return
	}

	// The client reports its canvas size up front; view.resize changes it later.
	opts := cfg.EngineOptions()
	width, werr := strconv.Atoi(r.URL.Query().Get("w"))
	height, herr := strconv.Atoi(r.URL.Query().Get("h"))
	if werr == nil && herr == nil && width > 0 && height > 0 {
		opts.Width, opts.Height = float64(width), float64(height)
	}

	if err := hub.Serve(r.Context(), conn, opts); err != nil {
		slog.Warn("viewer session", "error", err)
	}
}
