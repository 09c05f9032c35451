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

	"github.com/MrJamesThe3rd/pricewatch/internal/alias"
	aliasStore "github.com/MrJamesThe3rd/pricewatch/internal/alias/store"
	"github.com/MrJamesThe3rd/pricewatch/internal/config"
	"github.com/MrJamesThe3rd/pricewatch/internal/database"
	pwHttp "github.com/MrJamesThe3rd/pricewatch/internal/http"
	aliasHandler "github.com/MrJamesThe3rd/pricewatch/internal/http/alias"
	importHandler "github.com/MrJamesThe3rd/pricewatch/internal/http/importcsv"
	obsHandler "github.com/MrJamesThe3rd/pricewatch/internal/http/observation"
	priceHandler "github.com/MrJamesThe3rd/pricewatch/internal/http/price"
	reportHandler "github.com/MrJamesThe3rd/pricewatch/internal/http/report"
	"github.com/MrJamesThe3rd/pricewatch/internal/observation"
	obsStore "github.com/MrJamesThe3rd/pricewatch/internal/observation/store"
	"github.com/MrJamesThe3rd/pricewatch/internal/pricelist"
	"github.com/MrJamesThe3rd/pricewatch/internal/report"
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

	if cfg.App.JWTSecret == "" {
		slog.Warn("APP_JWT_SECRET is empty, write routes are unauthenticated")
	}

	var (
		observationService = observation.NewService(obsStore.New(db))
		aliasService       = alias.NewService(aliasStore.New(db))
		priceListService   = pricelist.NewService()
		reportService      = report.NewService(observationService)
	)

	var (
		priceH       = priceHandler.NewHandler()
		observationH = obsHandler.NewHandler(observationService)
		importH      = importHandler.NewHandler(priceListService, observationService, aliasService)
		aliasH       = aliasHandler.NewHandler(aliasService)
		reportH      = reportHandler.NewHandler(reportService)
	)

	router := pwHttp.New(pwHttp.Options{
		JWTSecret:      cfg.App.JWTSecret,
		AllowedOrigins: cfg.App.AllowedOrigins,
	}, priceH, observationH, importH, aliasH, reportH)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.Server.Timeout,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.Timeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown failed", "error", err)
		}
	}()

	slog.Info("starting server", "name", cfg.App.Name, "port", srv.Addr)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
