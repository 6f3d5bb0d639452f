package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/nivesh-app/nivesh-backend/internal/adapter/httpapi"
	"github.com/nivesh-app/nivesh-backend/internal/adapter/repository/postgres"
	"github.com/nivesh-app/nivesh-backend/internal/config"
	"github.com/nivesh-app/nivesh-backend/internal/logger"
	"github.com/nivesh-app/nivesh-backend/internal/usecase/dashboard"
	"github.com/nivesh-app/nivesh-backend/internal/usecase/portfolio"
	"github.com/nivesh-app/nivesh-backend/internal/usecase/pricing"
)

const configFile = "config.yaml"

func main() {
	// 1. Load configuration (.env is optional, env vars win over the file)
	_ = godotenv.Load()

	cfg, err := config.Load(configFile)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logg, err := logger.New(cfg.Log.Level)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logg.Sync()

	// 2. Setup database
	db, err := postgres.NewDB(cfg.ConnString())
	if err != nil {
		logg.Fatalw("Failed to connect to database", "error", err)
	}
	defer db.Close()

	ctx := context.Background()
	if err := db.Migrate(ctx); err != nil {
		logg.Fatalw("Failed to run migrations", "error", err)
	}

	// 3. Initialize repositories
	walletRepo := postgres.NewWalletRepository(db)
	holdingRepo := postgres.NewHoldingRepository(db)
	priceCacheRepo := postgres.NewPriceCacheRepository(db)

	// Seed the singleton wallet with the opening balance
	openingBalance, err := cfg.OpeningBalance()
	if err != nil {
		logg.Fatalw("Invalid opening balance", "error", err)
	}
	if err := walletRepo.EnsureExists(ctx, openingBalance); err != nil {
		logg.Fatalw("Failed to seed wallet", "error", err)
	}

	// 4. Initialize price oracle and services
	table := pricing.DefaultReferenceTable()
	if len(cfg.Pricing.Stocks) > 0 || len(cfg.Pricing.Bonds) > 0 {
		table, err = pricing.ReferenceTableFromStrings(cfg.Pricing.Stocks, cfg.Pricing.Bonds)
		if err != nil {
			logg.Fatalw("Invalid reference price table", "error", err)
		}
	}

	cacheTTL := time.Duration(cfg.Pricing.CacheTTLMinutes) * time.Minute
	oracle := pricing.NewOracle(table, priceCacheRepo, cacheTTL)

	portfolioService := portfolio.NewPortfolioService(walletRepo, holdingRepo, oracle)
	dashboardService := dashboard.NewDashboardService(holdingRepo, oracle)

	// 5. Start HTTP server
	api := httpapi.NewServer(portfolioService, dashboardService, oracle, db, logg, cfg.Server.AllowedOrigins)

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      api.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logg.Infow("HTTP server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logg.Fatalw("HTTP server failed", "error", err)
		}
	}()

	// Graceful shutdown
	waitForShutdown(srv, logg.Infow)
}

// waitForShutdown waits for SIGTERM or SIGINT and gracefully shuts down the server
func waitForShutdown(srv *http.Server, logf func(msg string, kv ...interface{})) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	sig := <-sigChan
	logf("Shutting down gracefully", "signal", sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logf("Forced shutdown", "error", err)
	}
	logf("HTTP server stopped")
}
