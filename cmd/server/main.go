package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"wellness-portal/internal/api"
	"wellness-portal/internal/config"
	httpserver "wellness-portal/internal/http"
	"wellness-portal/internal/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)
	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sessions := session.NewStore(cfg.SessionTTL)
	go sessions.RunJanitor(ctx, time.Minute)

	backend := api.NewClient(cfg.BackendURL, cfg.BackendTimeout)
	srv, err := httpserver.NewServer(backend, sessions, httpserver.Options{
		MaxBodyBytes:   cfg.MaxUploadBytes,
		AllowedOrigins: cfg.CORSAllowedOrigins,
		SecureCookies:  cfg.SecureCookies,
	})
	if err != nil {
		slog.Error("failed to construct server", "error", err)
		os.Exit(1)
	}

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       time.Minute,
		WriteTimeout:      2 * time.Minute,
		IdleTimeout:       time.Minute,
	}

	go func() {
		slog.Info("listening", "addr", server.Addr, "backend", cfg.BackendURL)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
	}
	slog.Info("server stopped")
}
