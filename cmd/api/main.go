package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/entradahq/entrada/internal/app"
	"github.com/entradahq/entrada/internal/clock"
	"github.com/entradahq/entrada/internal/config"
	"github.com/entradahq/entrada/internal/payment"
	"github.com/entradahq/entrada/internal/storage/postgres"
	transporthttp "github.com/entradahq/entrada/internal/transport/http"
	"github.com/entradahq/entrada/migrations"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	cfg := config.Load()

	startupCtx, cancel := context.WithTimeout(context.Background(), cfg.StartupTimeout)
	defer cancel()

	pool, err := pgxpool.New(startupCtx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("connect to db", zap.Error(err))
	}
	defer pool.Close()

	if err := pool.Ping(startupCtx); err != nil {
		logger.Fatal("db ping", zap.Error(err))
	}
	if err := migrations.Apply(startupCtx, pool); err != nil {
		logger.Fatal("apply migrations", zap.Error(err))
	}

	purchaseRepo := postgres.NewPurchaseRepository(pool)
	eventRepo := postgres.NewEventRepository(pool)

	purchaseSvc := app.NewPurchaseService(purchaseRepo, payment.NewSimulatedGateway(), clock.NewSystem(), logger)
	ticketSvc := app.NewTicketService(purchaseRepo)
	adminSvc := app.NewAdminService(eventRepo, clock.NewSystem())

	handler := transporthttp.NewRouter(purchaseSvc, ticketSvc, adminSvc, logger, cfg.CORSOrigins)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: handler,
	}

	logger.Info("api listening", zap.String("port", cfg.Port))

	srvErr := make(chan error, 1)
	go func() {
		srvErr <- server.ListenAndServe()
	}()

	stopCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", zap.Error(err))
		}
	case <-stopCtx.Done():
		logger.Info("shutdown signal received, stopping server")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server shutdown error", zap.Error(err))
	}
	logger.Info("server stopped")
}
