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

	"github.com/msomdec/finledger/internal/config"
	"github.com/msomdec/finledger/internal/domain"
	"github.com/msomdec/finledger/internal/handler"
	"github.com/msomdec/finledger/internal/repository/sqlite"
	"github.com/msomdec/finledger/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	level, _ := config.ParseLevel(cfg.LogLevel)
	logOpts := &slog.HandlerOptions{Level: level}
	logger := slog.New(slog.NewMultiHandler(
		slog.NewTextHandler(os.Stdout, logOpts),
		slog.NewJSONHandler(os.Stderr, logOpts),
	))
	slog.SetDefault(logger)

	tokens, err := service.NewTokenCodec(cfg.JWTSecret)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidKey) {
			slog.Error("JWT_SECRET must be base64 and decode to at least 32 bytes", "error", err)
		} else {
			slog.Error("failed to initialise token codec", "error", err)
		}
		os.Exit(1)
	}

	db, err := sqlite.New(cfg.DatabasePath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Migrate(context.Background()); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("database migrations applied")

	users := db.Users()
	verifier := service.NewBcryptVerifier(cfg.BcryptCost)
	guard := service.NewAccessGuard(users, db.Ownership())
	limiter := service.NewLoginLimiter(cfg.Login.RatePerMinute, cfg.Login.Burst)
	defer limiter.Stop()

	router := handler.NewRouter(handler.Services{
		Database:     db,
		Auth:         service.NewAuthService(users, tokens, verifier),
		Tokens:       tokens,
		Identities:   users,
		Users:        service.NewUserService(users, guard, verifier),
		Banks:        service.NewBankService(db.Banks()),
		Accounts:     service.NewAccountService(db.Accounts(), db.Banks(), guard),
		FixedEntries: service.NewFixedEntryService(db.Incomes(), db.Expenses(), guard),
		Transactions: service.NewTransactionService(db.Transactions(), db.Accounts(), guard),
		LoginLimiter: limiter,
	}, handler.Routes())

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1MB
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}
