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

	"github.com/MrJamesThe3rd/timepulse/internal/config"
	"github.com/MrJamesThe3rd/timepulse/internal/database"
	"github.com/MrJamesThe3rd/timepulse/internal/directory"
	dirStore "github.com/MrJamesThe3rd/timepulse/internal/directory/store"
	"github.com/MrJamesThe3rd/timepulse/internal/fieldcrypt"
	tpHttp "github.com/MrJamesThe3rd/timepulse/internal/http"
	dirHandler "github.com/MrJamesThe3rd/timepulse/internal/http/directory"
	invoiceHandler "github.com/MrJamesThe3rd/timepulse/internal/http/invoice"
	tsHandler "github.com/MrJamesThe3rd/timepulse/internal/http/timesheet"
	"github.com/MrJamesThe3rd/timepulse/internal/invoice"
	invoiceStore "github.com/MrJamesThe3rd/timepulse/internal/invoice/store"
	"github.com/MrJamesThe3rd/timepulse/internal/timesheet"
	tsStore "github.com/MrJamesThe3rd/timepulse/internal/timesheet/store"
)

func main() {
	// .env is optional.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

	if cfg.Auth.JWTSecret == "" {
		slog.Error("JWT_SECRET must be set")
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(context.Background(), db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	key, err := fieldcrypt.LoadKey(cfg.Encryption.Key, cfg.Encryption.Salt)
	if err != nil {
		slog.Error("failed to derive encryption key", "error", err)
		os.Exit(1)
	}

	codec, err := fieldcrypt.New(key, fieldcrypt.WithLegacyPassphrases(cfg.LegacyPassphrases()...))
	if err != nil {
		slog.Error("failed to create field codec", "error", err)
		os.Exit(1)
	}

	var (
		directoryService = directory.NewService(dirStore.New(db, codec))
		timesheetService = timesheet.NewService(tsStore.New(db, codec))
		invoiceService   = invoice.NewService(
			invoiceStore.New(db, codec),
			timesheetService,
			directoryService,
			invoice.WithDueDays(cfg.Invoice.DueDays),
		)
	)

	var (
		timesheetH = tsHandler.NewHandler(timesheetService, invoiceService)
		invoiceH   = invoiceHandler.NewHandler(invoiceService)
		directoryH = dirHandler.NewHandler(directoryService)
	)

	router := tpHttp.New(tpHttp.Options{
		JWTSecret:      []byte(cfg.Auth.JWTSecret),
		AllowedOrigins: cfg.CORS.AllowedOrigins,
	}, timesheetH, invoiceH, directoryH)

	port := fmt.Sprintf(":%d", cfg.App.Port)

	srv := &http.Server{
		Addr:         port,
		Handler:      router,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown failed", "error", err)
		}
	}()

	slog.Info("starting server", "port", port, "env", cfg.App.Env)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
