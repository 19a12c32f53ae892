package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/dcosta/invest-snapshot-backend/internal/api"
	"github.com/dcosta/invest-snapshot-backend/internal/config"
	"github.com/dcosta/invest-snapshot-backend/internal/database"
	"github.com/dcosta/invest-snapshot-backend/internal/repository"
	"github.com/dcosta/invest-snapshot-backend/internal/service"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Open database connection
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	log.Printf("Connected to database: %s", cfg.Database.Path)

	// Apply schema migrations
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// Create repositories
	assetRepo := repository.NewAssetRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)
	snapshotRepo := repository.NewSnapshotRepository(db)

	// Create services
	systemService := service.NewSystemService(db)
	recomputeService := service.NewRecomputeService(
		db,
		snapshotRepo,
		transactionRepo,
		assetRepo,
	)
	valuationService := service.NewValuationService(
		snapshotRepo,
	)
	transactionService := service.NewTransactionService(
		transactionRepo,
		assetRepo,
		valuationService,
		recomputeService,
	)
	roiService := service.NewROIService(
		snapshotRepo,
		transactionRepo,
		assetRepo,
	)

	// Monthly roll-forward: extend buffer snapshots into a newly started month.
	scheduler := cron.New()
	_, err = scheduler.AddFunc(cfg.Snapshot.RollForwardSchedule, func() {
		if err := recomputeService.RollForwardActive(context.Background()); err != nil {
			log.Printf("Roll-forward job failed: %v", err)
		}
	})
	if err != nil {
		log.Fatalf("Failed to schedule roll-forward job: %v", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	// Create router
	router := api.NewRouter(systemService, transactionService, valuationService, recomputeService, roiService, cfg)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Starting server on %s", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
