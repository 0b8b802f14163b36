package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/triptally/triptally-backend/config"
	"github.com/triptally/triptally-backend/db"
	"github.com/triptally/triptally-backend/handlers"
	"github.com/triptally/triptally-backend/internal/store/postgres"
	"github.com/triptally/triptally-backend/internal/utils"
	"github.com/triptally/triptally-backend/logger"
	billingservice "github.com/triptally/triptally-backend/models/billing/service"
	ledgerservice "github.com/triptally/triptally-backend/models/ledger/service"
	reconservice "github.com/triptally/triptally-backend/models/reconciliation/service"
	tripservice "github.com/triptally/triptally-backend/models/trip/service"
	"github.com/triptally/triptally-backend/router"
)

func main() {
	logger.InitLogger()
	defer func() { _ = logger.Close() }()
	log := logger.GetLogger()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalw("Failed to load configuration", "error", err)
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := db.RunMigrations(cfg.Database.URL()); err != nil {
		log.Fatalw("Failed to run migrations", "error", err)
	}

	poolConfig, err := pgxpool.ParseConfig(cfg.Database.ConnectionString())
	if err != nil {
		log.Fatalw("Failed to parse database config", "error", err)
	}
	poolConfig.MaxConns = int32(cfg.Database.MaxConnections)

	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		log.Fatalw("Failed to connect to database", "error", err)
	}
	defer pool.Close()

	defaultBufferRate, err := decimal.NewFromString(cfg.Trip.DefaultBufferRate)
	if err != nil {
		log.Fatalw("Invalid default buffer rate", "value", cfg.Trip.DefaultBufferRate, "error", err)
	}

	dataStore := postgres.New(pool)
	tripLocks := utils.NewKeyedMutex()

	tripSvc := tripservice.NewTripService(dataStore.Trips(), dataStore.Participants(), dataStore.Expenses(), defaultBufferRate)
	ledgerSvc := ledgerservice.NewLedgerService(dataStore.Expenses(), dataStore.Participants(), dataStore.Invoices(), dataStore.Trips(), tripLocks)
	invoiceSvc := billingservice.NewInvoiceService(dataStore.Invoices(), dataStore.Expenses(), dataStore.Participants(), tripLocks)
	receiptSvc := billingservice.NewReceiptService(dataStore.Receipts(), dataStore.Invoices(), dataStore.Participants(), tripLocks)
	reconSvc := reconservice.NewReconciliationService(dataStore.Trips(), dataStore.Participants(), dataStore.Expenses())

	engine := router.SetupRouter(router.Dependencies{
		Config:                cfg,
		TripHandler:           handlers.NewTripHandler(tripSvc),
		ExpenseHandler:        handlers.NewExpenseHandler(ledgerSvc),
		InvoiceHandler:        handlers.NewInvoiceHandler(invoiceSvc),
		ReceiptHandler:        handlers.NewReceiptHandler(receiptSvc),
		ReconciliationHandler: handlers.NewReconciliationHandler(reconSvc),
		AuthHandler:           handlers.NewAuthHandler(cfg.Server.AdminToken),
		HealthHandler:         handlers.NewHealthHandler(pool, cfg.Server.Version),
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("Starting server", "port", cfg.Server.Port, "environment", cfg.Server.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("Server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("Forced shutdown", "error", err)
	}
	log.Info("Server exited")
}
