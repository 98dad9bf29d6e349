// Command hearthside runs the content API server behind the cooking
// site: public read routes plus the authenticated admin surface.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/linmei/hearthside/pkg/api"
	"github.com/linmei/hearthside/pkg/blob"
	"github.com/linmei/hearthside/pkg/config"
	"github.com/linmei/hearthside/pkg/content"
	"github.com/linmei/hearthside/pkg/images"
	"github.com/linmei/hearthside/pkg/session"
)

func main() {
	cfg := config.Load()
	setupLogging(cfg.LogLevel)

	ctx := context.Background()

	// A missing store is not fatal: public pages render empty and only
	// writes fail, loudly, at request time.
	var store blob.Store
	if storeCfg, ok := cfg.Store(); ok {
		s, err := blob.NewStore(ctx, storeCfg)
		if err != nil {
			slog.Error("failed to initialize object store", "error", err)
			os.Exit(1)
		}
		store = s
	} else {
		slog.Warn("object store is not configured; serving empty content, writes disabled")
	}

	if !cfg.AdminConfigured() {
		slog.Warn("admin credential is not configured; admin login disabled")
	}

	guard := session.NewGuard(session.Options{
		Secret:            cfg.SessionSecret,
		AdminUsername:     cfg.AdminUsername,
		AdminPassword:     cfg.AdminPassword,
		AdminPasswordHash: cfg.AdminPasswordHash,
		Production:        cfg.IsProduction(),
	})

	handlers := api.New(
		cfg,
		guard,
		content.NewBlogRepository(store, cfg),
		content.NewRecipeRepository(store, cfg),
		content.NewHomeKitchenRepository(store, cfg),
		content.NewActivityRepository(store, cfg),
		images.StdConverter{},
	)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handlers.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("server listening", "port", cfg.Port, "env", cfg.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown failed", "error", err)
	}
}

func setupLogging(level string) {
	var lvl slog.Level
	switch strings.ToUpper(level) {
	case "DEBUG":
		lvl = slog.LevelDebug
	case "WARN":
		lvl = slog.LevelWarn
	case "ERROR":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))
}
