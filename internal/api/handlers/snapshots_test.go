package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dcosta/invest-snapshot-backend/internal/model"
	"github.com/dcosta/invest-snapshot-backend/internal/testutil"
)

// newJSONRequest builds a request with a JSON body and a chi uuid parameter.
func newJSONRequest(t *testing.T, method, path, uuid string, payload any) *http.Request {
	t.Helper()

	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("Failed to marshal request body: %v", err)
	}

	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("uuid", uuid)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

// TestSnapshotHandler_LatestSnapshot tests the asset snapshot read endpoint.
func TestSnapshotHandler_LatestSnapshot(t *testing.T) {
	t.Run("returns the most recent snapshot", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		handler := NewSnapshotHandler(
			testutil.NewTestValuationService(t, db),
			testutil.NewTestRecomputeService(t, db),
			testutil.NewTestROIService(t, db),
		)
		asset := testutil.NewAsset().Build(t, db)
		testutil.NewSnapshot(asset.ID, 1, 2024).WithTotals(10, 100000, 0).WithCurrentValue(110000).Build(t, db)
		testutil.NewSnapshot(asset.ID, 3, 2024).WithTotals(12, 120000, 0).WithCurrentValue(130000).Build(t, db)

		req := testutil.NewRequestWithURLParams(http.MethodGet, "/api/invest/asset/"+asset.ID+"/snapshot",
			map[string]string{"uuid": asset.ID})
		w := httptest.NewRecorder()

		// Execute
		handler.LatestSnapshot(w, req)

		// Assert
		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var got model.Snapshot
		if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if got.Month != 3 || got.Year != 2024 || got.CurrentValue != 130000 {
			t.Errorf("Expected 3/2024 snapshot with value 130000, got %+v", got)
		}
	})

	t.Run("returns 404 when the asset has no history", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := NewSnapshotHandler(
			testutil.NewTestValuationService(t, db),
			testutil.NewTestRecomputeService(t, db),
			testutil.NewTestROIService(t, db),
		)
		asset := testutil.NewAsset().Build(t, db)

		req := testutil.NewRequestWithURLParams(http.MethodGet, "/api/invest/asset/"+asset.ID+"/snapshot",
			map[string]string{"uuid": asset.ID})
		w := httptest.NewRecorder()

		handler.LatestSnapshot(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d", w.Code)
		}
	})
}

// TestSnapshotHandler_MarkValue tests the valuation endpoint.
func TestSnapshotHandler_MarkValue(t *testing.T) {
	t.Run("marks the value and returns 200", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		handler := NewSnapshotHandler(
			testutil.NewTestValuationService(t, db),
			testutil.NewTestRecomputeService(t, db),
			testutil.NewTestROIService(t, db),
		)
		asset := testutil.NewAsset().Build(t, db)
		testutil.NewSnapshot(asset.ID, 2, 2024).WithTotals(10, 100000, 0).WithCurrentValue(100000).Build(t, db)

		req := newJSONRequest(t, http.MethodPut, "/api/invest/asset/"+asset.ID+"/value", asset.ID, map[string]any{
			"month":        2,
			"year":         2024,
			"units":        10,
			"currentValue": 115000,
		})
		w := httptest.NewRecorder()

		// Execute
		handler.MarkValue(w, req)

		// Assert
		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var value int64
		err := db.QueryRow("SELECT current_value FROM invest_asset_snapshot WHERE asset_id = ? AND month = 2 AND year = 2024", asset.ID).Scan(&value)
		if err != nil {
			t.Fatalf("Failed to read snapshot: %v", err)
		}
		if value != 115000 {
			t.Errorf("Expected marked value 115000, got %d", value)
		}
	})

	t.Run("rejects an invalid month", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := NewSnapshotHandler(
			testutil.NewTestValuationService(t, db),
			testutil.NewTestRecomputeService(t, db),
			testutil.NewTestROIService(t, db),
		)
		asset := testutil.NewAsset().Build(t, db)

		req := newJSONRequest(t, http.MethodPut, "/api/invest/asset/"+asset.ID+"/value", asset.ID,
			map[string]any{"month": 13, "year": 2024, "currentValue": 100})
		w := httptest.NewRecorder()

		handler.MarkValue(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", w.Code)
		}
	})
}

// TestSnapshotHandler_Recompute tests the manual recompute endpoint.
func TestSnapshotHandler_Recompute(t *testing.T) {
	t.Run("rebuilds the series and returns the final state", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		handler := NewSnapshotHandler(
			testutil.NewTestValuationService(t, db),
			testutil.NewTestRecomputeService(t, db),
			testutil.NewTestROIService(t, db),
		)
		asset := testutil.NewAsset().Build(t, db)
		testutil.NewTransaction(asset.ID).Buy(10, 100000).OnDate(2024, time.January, 15).Build(t, db)

		req := newJSONRequest(t, http.MethodPost, "/api/invest/asset/"+asset.ID+"/recompute", asset.ID,
			map[string]string{"from": "2024-01-01", "to": "2024-03-31"})
		w := httptest.NewRecorder()

		// Execute
		handler.Recompute(w, req)

		// Assert
		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var got model.Snapshot
		if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if got.Units != 10 || got.InvestedAmount != 100000 {
			t.Errorf("Expected final state 10/100000, got %+v", got)
		}
	})

	t.Run("rejects a missing from date", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := NewSnapshotHandler(
			testutil.NewTestValuationService(t, db),
			testutil.NewTestRecomputeService(t, db),
			testutil.NewTestROIService(t, db),
		)
		asset := testutil.NewAsset().Build(t, db)

		req := newJSONRequest(t, http.MethodPost, "/api/invest/asset/"+asset.ID+"/recompute", asset.ID,
			map[string]string{})
		w := httptest.NewRecorder()

		handler.Recompute(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", w.Code)
		}
	})
}
