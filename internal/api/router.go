package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dcosta/invest-snapshot-backend/internal/api/handlers"
	custommiddleware "github.com/dcosta/invest-snapshot-backend/internal/api/middleware"
	"github.com/dcosta/invest-snapshot-backend/internal/config"
	"github.com/dcosta/invest-snapshot-backend/internal/service"
)

// NewRouter creates and configures the HTTP router
func NewRouter(
	systemService *service.SystemService,
	transactionService *service.TransactionService,
	valuationService *service.ValuationService,
	recomputeService *service.RecomputeService,
	roiService *service.ROIService,
	cfg *config.Config,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// System namespace
		r.Route("/system", func(r chi.Router) {
			systemHandler := handlers.NewSystemHandler(systemService)
			r.Get("/health", systemHandler.Health)
		})

		r.Route("/invest", func(r chi.Router) {
			transactionHandler := handlers.NewTransactionHandler(transactionService)
			snapshotHandler := handlers.NewSnapshotHandler(valuationService, recomputeService, roiService)
			statsHandler := handlers.NewStatsHandler(roiService)

			r.Route("/transaction", func(r chi.Router) {
				r.Post("/", transactionHandler.CreateTransaction)

				r.Route("/{uuid}", func(r chi.Router) {
					r.Use(custommiddleware.ValidateUUIDMiddleware)
					r.Get("/", transactionHandler.GetTransaction)
					r.Put("/", transactionHandler.UpdateTransaction)
					r.Delete("/", transactionHandler.DeleteTransaction)
				})
			})

			r.Route("/asset/{uuid}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateUUIDMiddleware)
				r.Get("/snapshot", snapshotHandler.LatestSnapshot)
				r.Put("/value", snapshotHandler.MarkValue)
				r.Post("/recompute", snapshotHandler.Recompute)
			})

			r.Route("/user/{uuid}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateUUIDMiddleware)
				r.Get("/transactions", transactionHandler.TransactionsPerUser)
				r.Get("/snapshots", snapshotHandler.SnapshotsPerUser)

				r.Route("/stats", func(r chi.Router) {
					r.Get("/balance", statsHandler.CombinedBalance)
					r.Get("/invested-withdrawn", statsHandler.InvestedAndWithdrawn)
					r.Get("/distribution", statsHandler.Distribution)
					r.Get("/top", statsHandler.TopPerforming)
					r.Get("/evolution", statsHandler.Evolution)
					r.Get("/roi-by-year", statsHandler.PerformanceByYear)
				})
			})
		})
	})

	return r
}
