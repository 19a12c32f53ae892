package service

import (
	"context"
	"time"

	"github.com/dcosta/invest-snapshot-backend/internal/apperrors"
	"github.com/dcosta/invest-snapshot-backend/internal/model"
	"github.com/dcosta/invest-snapshot-backend/internal/repository"
)

// ValuationService writes market valuations into the snapshot series and
// applies the incremental fast path for same-month transactions.
type ValuationService struct {
	snapshotRepo *repository.SnapshotRepository
}

// NewValuationService creates a new ValuationService with the provided dependencies.
func NewValuationService(snapshotRepo *repository.SnapshotRepository) *ValuationService {
	return &ValuationService{snapshotRepo: snapshotRepo}
}

// LatestSnapshot retrieves the asset's most recent snapshot at or before the
// current calendar month. Returns (nil, nil) when the asset has no history.
func (s *ValuationService) LatestSnapshot(assetID string) (*model.Snapshot, error) {
	return s.snapshotRepo.GetLatestAtOrBefore(assetID, model.MonthYear{})
}

// MarkCurrentValue records a mark-to-market valuation for the asset at the
// given month. When a snapshot already exists at that key only its
// current_value is replaced; running totals stay intact. When none exists the
// row is seeded with the caller's units and withdrawn amount, and the
// invested amount is carried forward from the latest snapshot at or before
// the month so a valuation on a fresh month does not zero out cost basis.
func (s *ValuationService) MarkCurrentValue(ctx context.Context, assetID string, month model.MonthYear, units float64, withdrawnAmount, newValue int64) error {
	if assetID == "" {
		return apperrors.ErrInvalidAssetID
	}
	if month.Month < 1 || month.Month > 12 || month.Year < 1 {
		return apperrors.ErrInvalidMonth
	}
	if newValue < 0 || withdrawnAmount < 0 {
		return apperrors.ErrNegativeAmount
	}

	var invested int64
	latest, err := s.snapshotRepo.GetLatestAtOrBefore(assetID, month)
	if err != nil {
		return err
	}
	if latest != nil {
		invested = latest.InvestedAmount
	}

	return s.snapshotRepo.UpsertCurrentValue(ctx, model.Snapshot{
		AssetID:         assetID,
		Month:           month.Month,
		Year:            month.Year,
		Units:           units,
		InvestedAmount:  invested,
		WithdrawnAmount: withdrawnAmount,
		CurrentValue:    newValue,
	})
}

// ApplyIncremental folds a single new transaction into the current month's
// snapshot without replaying the ledger. Only valid for transactions dated in
// the current calendar month; the caller routes anything backdated through a
// full recompute instead.
//
// The latest known snapshot is used as the base. If it already sits in the
// transaction's month its row is updated in place; otherwise a new row for
// the month is seeded from it. A buy adds to units, invested and current
// value; a sell subtracts units and value and adds to withdrawn.
func (s *ValuationService) ApplyIncremental(ctx context.Context, assetID string, ts time.Time, units float64, amount int64, isSell bool) error {
	if assetID == "" {
		return apperrors.ErrInvalidAssetID
	}
	if units <= 0 || amount <= 0 {
		return apperrors.ErrNegativeAmount
	}

	month := model.MonthYearOf(ts)

	latest, err := s.snapshotRepo.GetLatestAtOrBefore(assetID, month)
	if err != nil {
		return err
	}

	next := model.Snapshot{
		AssetID: assetID,
		Month:   month.Month,
		Year:    month.Year,
	}
	if latest != nil {
		next.Units = latest.Units
		next.InvestedAmount = latest.InvestedAmount
		next.WithdrawnAmount = latest.WithdrawnAmount
		next.CurrentValue = latest.CurrentValue
	}

	if isSell {
		next.Units -= units
		next.WithdrawnAmount += amount
		next.CurrentValue -= amount
	} else {
		next.Units += units
		next.InvestedAmount += amount
		next.CurrentValue += amount
	}

	if latest != nil && latest.MonthYear() == month {
		return s.snapshotRepo.UpdateSnapshot(ctx, next)
	}
	return s.snapshotRepo.InsertSnapshot(ctx, next)
}
