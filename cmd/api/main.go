package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/pulse/internal/auth"
	"github.com/MrJamesThe3rd/pulse/internal/call"
	callStore "github.com/MrJamesThe3rd/pulse/internal/call/store"
	"github.com/MrJamesThe3rd/pulse/internal/config"
	"github.com/MrJamesThe3rd/pulse/internal/dashboard"
	"github.com/MrJamesThe3rd/pulse/internal/database"
	"github.com/MrJamesThe3rd/pulse/internal/export"
	"github.com/MrJamesThe3rd/pulse/internal/goal"
	goalStore "github.com/MrJamesThe3rd/pulse/internal/goal/store"
	pulseHttp "github.com/MrJamesThe3rd/pulse/internal/http"
	callHandler "github.com/MrJamesThe3rd/pulse/internal/http/call"
	dashboardHandler "github.com/MrJamesThe3rd/pulse/internal/http/dashboard"
	exportHandler "github.com/MrJamesThe3rd/pulse/internal/http/export"
	goalHandler "github.com/MrJamesThe3rd/pulse/internal/http/goal"
	importHandler "github.com/MrJamesThe3rd/pulse/internal/http/importcsv"
	insightHandler "github.com/MrJamesThe3rd/pulse/internal/http/insight"
	saleHandler "github.com/MrJamesThe3rd/pulse/internal/http/sale"
	"github.com/MrJamesThe3rd/pulse/internal/importer"
	"github.com/MrJamesThe3rd/pulse/internal/insight"
	"github.com/MrJamesThe3rd/pulse/internal/sale"
	saleStore "github.com/MrJamesThe3rd/pulse/internal/sale/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := database.Migrate(ctx, db); err != nil {
		slog.Error("failed to migrate database", "error", err)
		os.Exit(1)
	}

	loc := cfg.Location()

	var (
		saleService      = sale.NewService(saleStore.New(db))
		goalService      = goal.NewService(goalStore.New(db))
		callService      = call.NewService(callStore.New(db))
		dashboardService = dashboard.NewService(saleService, goalService, callService, loc)
		importService    = importer.NewService(saleService, loc)
		exportService    = export.NewService(saleService, loc)
		insightTask      = insight.NewTask(insight.NewGemini(cfg.Gemini.APIKey, cfg.Gemini.Model), cfg.Gemini.Timeout)
	)

	authenticator := auth.New(cfg.Auth.Secret, cfg.Auth.TokenTTL)
	if !authenticator.Enabled() {
		slog.Warn("AUTH_SECRET not set, API is open")
	}

	router := pulseHttp.New(pulseHttp.Handlers{
		Dashboard: dashboardHandler.NewHandler(dashboardService),
		Sales:     saleHandler.NewHandler(saleService, loc),
		Goals:     goalHandler.NewHandler(goalService),
		Calls:     callHandler.NewHandler(callService),
		Insights:  insightHandler.NewHandler(dashboardService, insightTask),
		Import:    importHandler.NewHandler(importService),
		Export:    exportHandler.NewHandler(exportService, loc),
	}, authenticator, cfg.Server.AllowedOrigins)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown failed", "error", err)
		}
	}()

	slog.Info("starting server", "app", cfg.App.Name, "addr", srv.Addr, "timezone", loc.String())

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
