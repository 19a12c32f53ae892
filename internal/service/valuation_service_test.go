package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dcosta/invest-snapshot-backend/internal/apperrors"
	"github.com/dcosta/invest-snapshot-backend/internal/model"
	"github.com/dcosta/invest-snapshot-backend/internal/repository"
	"github.com/dcosta/invest-snapshot-backend/internal/testutil"
)

// TestValuationService_MarkCurrentValue tests mark-to-market writes.
//
// WHY: A valuation must never disturb the running totals the replay
// maintains, and a valuation on a month without a snapshot must carry the
// cost basis forward instead of zeroing it.
func TestValuationService_MarkCurrentValue(t *testing.T) {
	t.Run("replaces only the value on an existing snapshot", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestValuationService(t, db)
		snapshots := repository.NewSnapshotRepository(db)
		asset := testutil.NewAsset().Build(t, db)

		testutil.NewSnapshot(asset.ID, 4, 2024).
			WithTotals(10, 100000, 20000).
			WithCurrentValue(95000).
			Build(t, db)

		// Execute
		err := svc.MarkCurrentValue(context.Background(), asset.ID, model.MonthYear{Month: 4, Year: 2024}, 10, 20000, 102000)

		// Assert
		if err != nil {
			t.Fatalf("MarkCurrentValue() returned unexpected error: %v", err)
		}

		got, err := snapshots.GetExact(asset.ID, 4, 2024)
		if err != nil {
			t.Fatalf("GetExact() returned unexpected error: %v", err)
		}
		if got.CurrentValue != 102000 {
			t.Errorf("Expected value 102000, got %d", got.CurrentValue)
		}
		if got.Units != 10 || got.InvestedAmount != 100000 || got.WithdrawnAmount != 20000 {
			t.Errorf("Running totals disturbed: %+v", got)
		}
	})

	t.Run("seeds a new month and carries the invested amount forward", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestValuationService(t, db)
		snapshots := repository.NewSnapshotRepository(db)
		asset := testutil.NewAsset().Build(t, db)

		testutil.NewSnapshot(asset.ID, 2, 2024).
			WithTotals(10, 100000, 0).
			WithCurrentValue(95000).
			Build(t, db)

		// Execute: mark a later month that has no snapshot yet
		err := svc.MarkCurrentValue(context.Background(), asset.ID, model.MonthYear{Month: 5, Year: 2024}, 10, 0, 110000)

		// Assert
		if err != nil {
			t.Fatalf("MarkCurrentValue() returned unexpected error: %v", err)
		}

		got, err := snapshots.GetExact(asset.ID, 5, 2024)
		if err != nil {
			t.Fatalf("GetExact() returned unexpected error: %v", err)
		}
		if got == nil {
			t.Fatal("Expected seeded snapshot at 5/2024")
		}
		if got.CurrentValue != 110000 {
			t.Errorf("Expected value 110000, got %d", got.CurrentValue)
		}
		if got.InvestedAmount != 100000 {
			t.Errorf("Expected carried invested amount 100000, got %d", got.InvestedAmount)
		}
	})

	t.Run("rejects an invalid month", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestValuationService(t, db)
		asset := testutil.NewAsset().Build(t, db)

		err := svc.MarkCurrentValue(context.Background(), asset.ID, model.MonthYear{Month: 13, Year: 2024}, 0, 0, 100)
		if !errors.Is(err, apperrors.ErrInvalidMonth) {
			t.Errorf("Expected ErrInvalidMonth, got %v", err)
		}
	})

	t.Run("rejects negative amounts", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestValuationService(t, db)
		asset := testutil.NewAsset().Build(t, db)

		err := svc.MarkCurrentValue(context.Background(), asset.ID, model.MonthYear{Month: 4, Year: 2024}, 0, 0, -1)
		if !errors.Is(err, apperrors.ErrNegativeAmount) {
			t.Errorf("Expected ErrNegativeAmount, got %v", err)
		}
	})
}

// TestValuationService_ApplyIncremental tests the same-month fast path.
//
// WHY: The fast path must match what a full replay would produce for a
// same-month transaction: seed from the latest snapshot, fold in the deltas,
// and adjust the marked value by the transaction amount.
func TestValuationService_ApplyIncremental(t *testing.T) {
	t.Run("seeds the month from the previous snapshot on a buy", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestValuationService(t, db)
		snapshots := repository.NewSnapshotRepository(db)
		asset := testutil.NewAsset().Build(t, db)

		testutil.NewSnapshot(asset.ID, 3, 2024).
			WithTotals(10, 100000, 0).
			WithCurrentValue(105000).
			Build(t, db)

		// Execute: buy in April, which has no snapshot yet
		err := svc.ApplyIncremental(context.Background(), asset.ID, date(2024, time.April, 10), 2, 25000, false)

		// Assert
		if err != nil {
			t.Fatalf("ApplyIncremental() returned unexpected error: %v", err)
		}

		got, err := snapshots.GetExact(asset.ID, 4, 2024)
		if err != nil {
			t.Fatalf("GetExact() returned unexpected error: %v", err)
		}
		if got == nil {
			t.Fatal("Expected snapshot at 4/2024")
		}
		if got.Units != 12 || got.InvestedAmount != 125000 {
			t.Errorf("Expected 12 units / 125000 invested, got %v / %d", got.Units, got.InvestedAmount)
		}
		if got.CurrentValue != 130000 {
			t.Errorf("Expected value 105000+25000=130000, got %d", got.CurrentValue)
		}
	})

	t.Run("updates the month in place when a snapshot exists", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestValuationService(t, db)
		snapshots := repository.NewSnapshotRepository(db)
		asset := testutil.NewAsset().Build(t, db)

		testutil.NewSnapshot(asset.ID, 4, 2024).
			WithTotals(12, 125000, 0).
			WithCurrentValue(130000).
			Build(t, db)

		// Execute: sell in the same month
		err := svc.ApplyIncremental(context.Background(), asset.ID, date(2024, time.April, 20), 4, 50000, true)

		// Assert
		if err != nil {
			t.Fatalf("ApplyIncremental() returned unexpected error: %v", err)
		}

		got, err := snapshots.GetExact(asset.ID, 4, 2024)
		if err != nil {
			t.Fatalf("GetExact() returned unexpected error: %v", err)
		}
		if got.Units != 8 || got.WithdrawnAmount != 50000 {
			t.Errorf("Expected 8 units / 50000 withdrawn, got %v / %d", got.Units, got.WithdrawnAmount)
		}
		if got.CurrentValue != 80000 {
			t.Errorf("Expected value 130000-50000=80000, got %d", got.CurrentValue)
		}

		testutil.AssertRowCount(t, db, "invest_asset_snapshot", 1)
	})

	t.Run("first transaction for an asset starts from zero", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestValuationService(t, db)
		snapshots := repository.NewSnapshotRepository(db)
		asset := testutil.NewAsset().Build(t, db)

		// Execute
		err := svc.ApplyIncremental(context.Background(), asset.ID, date(2024, time.April, 1), 5, 50000, false)

		// Assert
		if err != nil {
			t.Fatalf("ApplyIncremental() returned unexpected error: %v", err)
		}

		got, err := snapshots.GetExact(asset.ID, 4, 2024)
		if err != nil {
			t.Fatalf("GetExact() returned unexpected error: %v", err)
		}
		if got == nil || got.Units != 5 || got.InvestedAmount != 50000 || got.CurrentValue != 50000 {
			t.Errorf("Expected fresh 5/50000/50000 row, got %+v", got)
		}
	})

	t.Run("rejects non-positive deltas", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestValuationService(t, db)
		asset := testutil.NewAsset().Build(t, db)

		err := svc.ApplyIncremental(context.Background(), asset.ID, date(2024, time.April, 1), 0, 100, false)
		if !errors.Is(err, apperrors.ErrNegativeAmount) {
			t.Errorf("Expected ErrNegativeAmount, got %v", err)
		}
	})
}
