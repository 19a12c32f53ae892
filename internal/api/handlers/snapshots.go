package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dcosta/invest-snapshot-backend/internal/api/request"
	"github.com/dcosta/invest-snapshot-backend/internal/api/response"
	"github.com/dcosta/invest-snapshot-backend/internal/apperrors"
	"github.com/dcosta/invest-snapshot-backend/internal/model"
	"github.com/dcosta/invest-snapshot-backend/internal/service"
	"github.com/dcosta/invest-snapshot-backend/internal/validation"
)

// SnapshotHandler handles HTTP requests for the snapshot endpoints: reading
// an asset's series, marking valuations and triggering recomputes.
type SnapshotHandler struct {
	valuationService *service.ValuationService
	recomputeService *service.RecomputeService
	roiService       *service.ROIService
}

// NewSnapshotHandler creates a new SnapshotHandler with the provided service dependencies.
func NewSnapshotHandler(
	valuationService *service.ValuationService,
	recomputeService *service.RecomputeService,
	roiService *service.ROIService,
) *SnapshotHandler {
	return &SnapshotHandler{
		valuationService: valuationService,
		recomputeService: recomputeService,
		roiService:       roiService,
	}
}

// LatestSnapshot handles GET requests for an asset's most recent snapshot.
//
// Endpoint: GET /api/invest/asset/{uuid}/snapshot
// Response: 200 OK with Snapshot
// Error: 400 Bad Request if asset ID is invalid (validated by middleware)
// Error: 404 Not Found if the asset has no snapshots
// Error: 500 Internal Server Error if retrieval fails
func (h *SnapshotHandler) LatestSnapshot(w http.ResponseWriter, r *http.Request) {
	assetID := chi.URLParam(r, "uuid")

	snapshot, err := h.valuationService.LatestSnapshot(assetID)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveSnapshots.Error(), err.Error())
		return
	}
	if snapshot == nil {
		response.RespondError(w, http.StatusNotFound, "asset has no snapshots", "")
		return
	}

	response.RespondJSON(w, http.StatusOK, snapshot)
}

// SnapshotsPerUser handles GET requests for all of a user's snapshots,
// joined with asset metadata and ordered chronologically.
//
// Endpoint: GET /api/invest/user/{uuid}/snapshots
// Response: 200 OK with array of AssetSnapshot
// Error: 400 Bad Request if user ID is invalid (validated by middleware)
// Error: 500 Internal Server Error if retrieval fails
func (h *SnapshotHandler) SnapshotsPerUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "uuid")

	snapshots, err := h.roiService.SnapshotsForUser(userID)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveSnapshots.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, snapshots)
}

// MarkValue handles PUT requests to record a mark-to-market valuation for an
// asset's month. Only the current value of an existing snapshot is replaced;
// running totals are preserved.
//
// Endpoint: PUT /api/invest/asset/{uuid}/value
// Request Body: MarkValueRequest (month, year, units, withdrawnAmount, currentValue)
// Response: 200 OK
// Error: 400 Bad Request if asset ID is invalid (validated by middleware) or validation fails
// Error: 500 Internal Server Error if the update fails
func (h *SnapshotHandler) MarkValue(w http.ResponseWriter, r *http.Request) {
	assetID := chi.URLParam(r, "uuid")

	req, err := parseJSON[request.MarkValueRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateMarkValue(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	month := model.MonthYear{Month: req.Month, Year: req.Year}
	if month.IsZero() {
		month = model.MonthYearOf(time.Now())
	}

	err = h.valuationService.MarkCurrentValue(r.Context(), assetID, month, req.Units, req.WithdrawnAmount, req.CurrentValue)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToMarkValue.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Recompute handles POST requests to rebuild an asset's snapshot series over
// a date window by replaying its transactions.
//
// Endpoint: POST /api/invest/asset/{uuid}/recompute
// Request Body: RecomputeRequest (from, optional to)
// Response: 200 OK with the final running Snapshot
// Error: 400 Bad Request if asset ID is invalid (validated by middleware) or validation fails
// Error: 500 Internal Server Error if the recompute fails
func (h *SnapshotHandler) Recompute(w http.ResponseWriter, r *http.Request) {
	assetID := chi.URLParam(r, "uuid")

	req, err := parseJSON[request.RecomputeRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateRecompute(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	from, err := time.Parse("2006-01-02", req.From)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	to := time.Now()
	if req.To != "" {
		to, err = time.Parse("2006-01-02", req.To)
		if err != nil {
			response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
			return
		}
	}

	snapshot, err := h.recomputeService.RecomputeRange(r.Context(), assetID, from, to)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidDateRange) {
			response.RespondError(w, http.StatusBadRequest, apperrors.ErrInvalidDateRange.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRecompute.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, snapshot)
}
