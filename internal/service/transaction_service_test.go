package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dcosta/invest-snapshot-backend/internal/apperrors"
	"github.com/dcosta/invest-snapshot-backend/internal/model"
	"github.com/dcosta/invest-snapshot-backend/internal/repository"
	"github.com/dcosta/invest-snapshot-backend/internal/service"
	"github.com/dcosta/invest-snapshot-backend/internal/testutil"
)

// monthDate returns noon UTC on the given day of a calendar month.
func monthDate(m model.MonthYear, day int) time.Time {
	return time.Date(m.Year, time.Month(m.Month), day, 12, 0, 0, 0, time.UTC)
}

// TestTransactionService_CreateTransaction tests ledger writes and their
// snapshot side effects.
//
// WHY: Creating a transaction is the main entry point of the engine. A
// same-month transaction must hit the incremental fast path; a backdated one
// must replay the whole affected window, because every snapshot after its
// month is stale.
func TestTransactionService_CreateTransaction(t *testing.T) {
	t.Run("same-month buy takes the fast path", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestTransactionService(t, db)
		snapshots := repository.NewSnapshotRepository(db)
		asset := testutil.NewAsset().Build(t, db)

		now := model.MonthYearOf(time.Now())
		testutil.NewSnapshot(asset.ID, now.Month, now.Year).
			WithTotals(5, 50000, 0).
			WithCurrentValue(50000).
			Build(t, db)

		// Execute
		trx, err := svc.CreateTransaction(context.Background(), service.TransactionInput{
			AssetID:     asset.ID,
			Date:        monthDate(now, 15),
			Type:        model.TransactionTypeBuy,
			Units:       10,
			TotalAmount: 100000,
		})

		// Assert
		if err != nil {
			t.Fatalf("CreateTransaction() returned unexpected error: %v", err)
		}
		if trx.ID == "" {
			t.Error("Expected generated transaction ID")
		}

		testutil.AssertRowCount(t, db, "invest_transaction", 1)

		// Fast path updates the current month's row in place
		got, err := snapshots.GetExact(asset.ID, now.Month, now.Year)
		if err != nil {
			t.Fatalf("GetExact() returned unexpected error: %v", err)
		}
		if got == nil || got.Units != 15 || got.InvestedAmount != 150000 {
			t.Errorf("Expected current-month snapshot 15/150000, got %+v", got)
		}
		testutil.AssertRowCount(t, db, "invest_asset_snapshot", 1)
	})

	t.Run("same-month buy with a stale latest snapshot recomputes the gap", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestTransactionService(t, db)
		snapshots := repository.NewSnapshotRepository(db)
		asset := testutil.NewAsset().Build(t, db)

		now := model.MonthYearOf(time.Now())
		stale := now.AddMonths(-3)
		for m := stale; !m.After(now.AddMonths(-2)); m = m.Next() {
			testutil.NewSnapshot(asset.ID, m.Month, m.Year).
				WithTotals(5, 50000, 0).
				WithCurrentValue(50000).
				Build(t, db)
		}

		// Execute
		_, err := svc.CreateTransaction(context.Background(), service.TransactionInput{
			AssetID:     asset.ID,
			Date:        monthDate(now, 15),
			Type:        model.TransactionTypeBuy,
			Units:       10,
			TotalAmount: 100000,
		})

		// Assert
		if err != nil {
			t.Fatalf("CreateTransaction() returned unexpected error: %v", err)
		}

		// The months between the stale snapshot and now must all carry rows,
		// so the series stays contiguous.
		for m := stale.Next(); !m.After(now); m = m.Next() {
			got, err := snapshots.GetExact(asset.ID, m.Month, m.Year)
			if err != nil {
				t.Fatalf("GetExact() returned unexpected error: %v", err)
			}
			if got == nil {
				t.Fatalf("Expected snapshot at %d/%d, got none", m.Month, m.Year)
			}
		}

		got, err := snapshots.GetExact(asset.ID, now.Month, now.Year)
		if err != nil {
			t.Fatalf("GetExact() returned unexpected error: %v", err)
		}
		if got == nil || got.Units != 15 || got.InvestedAmount != 150000 {
			t.Errorf("Expected current-month snapshot 15/150000, got %+v", got)
		}
	})

	t.Run("backdated buy triggers a full recompute up to now", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestTransactionService(t, db)
		snapshots := repository.NewSnapshotRepository(db)
		asset := testutil.NewAsset().Build(t, db)

		past := model.MonthYearOf(time.Now()).AddMonths(-3)

		// Execute
		_, err := svc.CreateTransaction(context.Background(), service.TransactionInput{
			AssetID:     asset.ID,
			Date:        monthDate(past, 15),
			Type:        model.TransactionTypeBuy,
			Units:       4,
			TotalAmount: 40000,
		})

		// Assert
		if err != nil {
			t.Fatalf("CreateTransaction() returned unexpected error: %v", err)
		}

		// Every month from the transaction through now carries the position
		for m := past; !m.After(model.MonthYearOf(time.Now())); m = m.Next() {
			got, err := snapshots.GetExact(asset.ID, m.Month, m.Year)
			if err != nil {
				t.Fatalf("GetExact() returned unexpected error: %v", err)
			}
			if got == nil || got.Units != 4 || got.InvestedAmount != 40000 {
				t.Errorf("Month %d/%d: expected 4/40000, got %+v", m.Month, m.Year, got)
			}
		}
	})

	t.Run("rejects an unknown asset", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestTransactionService(t, db)

		_, err := svc.CreateTransaction(context.Background(), service.TransactionInput{
			AssetID:     testutil.MakeID(),
			Date:        time.Now(),
			Type:        model.TransactionTypeBuy,
			Units:       1,
			TotalAmount: 100,
		})
		if !errors.Is(err, apperrors.ErrAssetNotFound) {
			t.Errorf("Expected ErrAssetNotFound, got %v", err)
		}

		// Nothing was written
		testutil.AssertRowCount(t, db, "invest_transaction", 0)
	})
}

// TestTransactionService_UpdateTransaction tests edits and window recompute.
//
// WHY: Moving a transaction between months must clean up the month it left;
// recomputing only around the new date would leave the old month's snapshot
// stale.
func TestTransactionService_UpdateTransaction(t *testing.T) {
	t.Run("moving a transaction forward cleans the old month", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestTransactionService(t, db)
		snapshots := repository.NewSnapshotRepository(db)
		asset := testutil.NewAsset().Build(t, db)

		old := model.MonthYearOf(time.Now()).AddMonths(-4)
		trx := testutil.NewTransaction(asset.ID).Buy(10, 100000).
			OnDate(old.Year, time.Month(old.Month), 15).Build(t, db)

		// Execute: move the buy two months later
		moved := old.AddMonths(2)
		_, err := svc.UpdateTransaction(context.Background(), trx.ID, service.TransactionInput{
			AssetID:     trx.AssetID,
			Date:        monthDate(moved, 15),
			Type:        trx.Type,
			Units:       trx.Units,
			TotalAmount: trx.TotalAmount,
		})

		// Assert
		if err != nil {
			t.Fatalf("UpdateTransaction() returned unexpected error: %v", err)
		}

		oldSnap, err := snapshots.GetExact(asset.ID, old.Month, old.Year)
		if err != nil {
			t.Fatalf("GetExact() returned unexpected error: %v", err)
		}
		if oldSnap == nil || oldSnap.Units != 0 || oldSnap.InvestedAmount != 0 {
			t.Errorf("Expected old month %d/%d reset to zero, got %+v", old.Month, old.Year, oldSnap)
		}

		newSnap, err := snapshots.GetExact(asset.ID, moved.Month, moved.Year)
		if err != nil {
			t.Fatalf("GetExact() returned unexpected error: %v", err)
		}
		if newSnap == nil || newSnap.Units != 10 || newSnap.InvestedAmount != 100000 {
			t.Errorf("Expected new month %d/%d to carry 10/100000, got %+v", moved.Month, moved.Year, newSnap)
		}
	})

	t.Run("returns not found for unknown transaction", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestTransactionService(t, db)

		_, err := svc.UpdateTransaction(context.Background(), testutil.MakeID(), service.TransactionInput{
			Date:        time.Now(),
			Type:        model.TransactionTypeBuy,
			Units:       1,
			TotalAmount: 100,
		})
		if !errors.Is(err, apperrors.ErrTransactionNotFound) {
			t.Errorf("Expected ErrTransactionNotFound, got %v", err)
		}
	})
}

// TestTransactionService_DeleteTransaction tests removal and recompute.
func TestTransactionService_DeleteTransaction(t *testing.T) {
	t.Run("deleting a buy removes it from the series", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestTransactionService(t, db)
		snapshots := repository.NewSnapshotRepository(db)
		asset := testutil.NewAsset().Build(t, db)

		m := model.MonthYearOf(time.Now()).AddMonths(-2)
		keep := testutil.NewTransaction(asset.ID).Buy(5, 50000).
			OnDate(m.Year, time.Month(m.Month), 5).Build(t, db)
		drop := testutil.NewTransaction(asset.ID).Buy(3, 30000).
			OnDate(m.Year, time.Month(m.Month), 20).Build(t, db)
		_ = keep

		// Execute
		if err := svc.DeleteTransaction(context.Background(), drop.ID); err != nil {
			t.Fatalf("DeleteTransaction() returned unexpected error: %v", err)
		}

		// Assert
		testutil.AssertRowCount(t, db, "invest_transaction", 1)

		got, err := snapshots.GetExact(asset.ID, m.Month, m.Year)
		if err != nil {
			t.Fatalf("GetExact() returned unexpected error: %v", err)
		}
		if got == nil || got.Units != 5 || got.InvestedAmount != 50000 {
			t.Errorf("Expected month to carry only the remaining buy 5/50000, got %+v", got)
		}
	})

	t.Run("returns not found for unknown transaction", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestTransactionService(t, db)

		err := svc.DeleteTransaction(context.Background(), testutil.MakeID())
		if !errors.Is(err, apperrors.ErrTransactionNotFound) {
			t.Errorf("Expected ErrTransactionNotFound, got %v", err)
		}
	})
}
