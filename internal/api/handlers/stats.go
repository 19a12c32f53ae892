package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dcosta/invest-snapshot-backend/internal/api/response"
	"github.com/dcosta/invest-snapshot-backend/internal/apperrors"
	"github.com/dcosta/invest-snapshot-backend/internal/service"
)

// StatsHandler handles HTTP requests for the portfolio statistics endpoints.
type StatsHandler struct {
	roiService *service.ROIService
}

// NewStatsHandler creates a new StatsHandler with the provided service dependency.
func NewStatsHandler(roiService *service.ROIService) *StatsHandler {
	return &StatsHandler{
		roiService: roiService,
	}
}

// parseWindow reads optional from/to query parameters in YYYY-MM-DD format.
// Missing values default to the epoch and the end of today.
func parseWindow(r *http.Request) (from, to time.Time, err error) {
	from = time.Unix(0, 0).UTC()
	to = time.Now().UTC()

	if v := r.URL.Query().Get("from"); v != "" {
		from, err = time.Parse("2006-01-02", v)
		if err != nil {
			return from, to, err
		}
	}
	if v := r.URL.Query().Get("to"); v != "" {
		to, err = time.Parse("2006-01-02", v)
		if err != nil {
			return from, to, err
		}
		// Make the day inclusive.
		to = to.Add(24*time.Hour - time.Second)
	}
	return from, to, nil
}

// CombinedBalance handles GET requests for the user's net invested balance
// (buys minus sells) over an optional date window, in major currency units.
//
// Endpoint: GET /api/invest/user/{uuid}/stats/balance?from=YYYY-MM-DD&to=YYYY-MM-DD
// Response: 200 OK with {"balance": float}
// Error: 400 Bad Request if user ID or dates are invalid
// Error: 500 Internal Server Error if the computation fails
func (h *StatsHandler) CombinedBalance(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "uuid")

	from, to, err := parseWindow(r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid date parameter", err.Error())
		return
	}

	balance, err := h.roiService.CombinedInvestedBalance(userID, from, to)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToComputeStats.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, map[string]float64{"balance": balance})
}

// InvestedAndWithdrawn handles GET requests for the separate buy-side and
// sell-side totals over an optional date window, in major currency units.
//
// Endpoint: GET /api/invest/user/{uuid}/stats/invested-withdrawn?from=YYYY-MM-DD&to=YYYY-MM-DD
// Response: 200 OK with InvestedAndWithdrawn
// Error: 400 Bad Request if user ID or dates are invalid
// Error: 500 Internal Server Error if the computation fails
func (h *StatsHandler) InvestedAndWithdrawn(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "uuid")

	from, to, err := parseWindow(r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid date parameter", err.Error())
		return
	}

	totals, err := h.roiService.CombinedInvestedAndWithdrawn(userID, from, to)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToComputeStats.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, totals)
}

// Distribution handles GET requests for each active asset's share of the
// portfolio's total marked value.
//
// Endpoint: GET /api/invest/user/{uuid}/stats/distribution
// Response: 200 OK with array of DistributionSlice
// Error: 400 Bad Request if user ID is invalid (validated by middleware)
// Error: 500 Internal Server Error if the computation fails
func (h *StatsHandler) Distribution(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "uuid")

	slices, err := h.roiService.PortfolioDistribution(userID)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToComputeStats.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, slices)
}

// TopPerforming handles GET requests for the user's best performing assets by
// absolute return. The optional limit query parameter caps the list.
//
// Endpoint: GET /api/invest/user/{uuid}/stats/top?limit=N
// Response: 200 OK with array of AssetROI, best first
// Error: 400 Bad Request if user ID or limit is invalid
// Error: 500 Internal Server Error if the computation fails
func (h *StatsHandler) TopPerforming(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "uuid")

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			response.RespondError(w, http.StatusBadRequest, "invalid limit parameter", v)
			return
		}
		limit = n
	}

	rois, err := h.roiService.TopPerforming(userID, limit)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToComputeStats.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, rois)
}

// Evolution handles GET requests for the portfolio-wide marked value per
// calendar month, ordered chronologically, for the evolution chart.
//
// Endpoint: GET /api/invest/user/{uuid}/stats/evolution
// Response: 200 OK with array of MonthlyPoint
// Error: 400 Bad Request if user ID is invalid (validated by middleware)
// Error: 500 Internal Server Error if the computation fails
func (h *StatsHandler) Evolution(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "uuid")

	points, err := h.roiService.MonthlyAggregateSeries(userID)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToComputeStats.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, points)
}

// PerformanceByYear handles GET requests for portfolio performance per
// calendar year, separating value growth from money moved in or out.
//
// Endpoint: GET /api/invest/user/{uuid}/stats/roi-by-year
// Response: 200 OK with array of YearPerformance
// Error: 400 Bad Request if user ID is invalid (validated by middleware)
// Error: 500 Internal Server Error if the computation fails
func (h *StatsHandler) PerformanceByYear(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "uuid")

	years, err := h.roiService.CombinedPerformanceByYear(userID)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToComputeStats.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, years)
}
