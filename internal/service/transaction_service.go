package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/dcosta/invest-snapshot-backend/internal/model"
	"github.com/dcosta/invest-snapshot-backend/internal/repository"
)

// TransactionInput carries the mutable fields of a buy or sell transaction
// as accepted from the API layer, already validated.
type TransactionInput struct {
	AssetID     string
	Date        time.Time
	Type        string
	Units       float64
	TotalAmount int64
	Note        string
}

// TransactionService owns the transaction ledger and keeps the snapshot
// series consistent with it. Every mutation ends with either the incremental
// fast path or a full recompute over the affected window.
type TransactionService struct {
	transactionRepo *repository.TransactionRepository
	assetRepo       *repository.AssetRepository
	valuation       *ValuationService
	recompute       *RecomputeService
}

// NewTransactionService creates a new TransactionService with the provided dependencies.
func NewTransactionService(
	transactionRepo *repository.TransactionRepository,
	assetRepo *repository.AssetRepository,
	valuation *ValuationService,
	recompute *RecomputeService,
) *TransactionService {
	return &TransactionService{
		transactionRepo: transactionRepo,
		assetRepo:       assetRepo,
		valuation:       valuation,
		recompute:       recompute,
	}
}

// CreateTransaction records a new buy or sell and updates the snapshot
// series. A transaction dated in the current calendar month takes the
// incremental fast path, but only when the asset's latest snapshot is also
// the current month; otherwise the fast path would leave a gap between the
// stale latest row and now. Every other case triggers a full recompute from
// the transaction's own month, since it invalidates every snapshot after it.
func (s *TransactionService) CreateTransaction(ctx context.Context, in TransactionInput) (*model.Transaction, error) {
	if _, err := s.assetRepo.GetAsset(in.AssetID); err != nil {
		return nil, err
	}

	t := &model.Transaction{
		ID:          uuid.New().String(),
		AssetID:     in.AssetID,
		Date:        in.Date,
		Type:        in.Type,
		Units:       in.Units,
		TotalAmount: in.TotalAmount,
		Note:        in.Note,
	}

	if err := s.transactionRepo.InsertTransaction(ctx, t); err != nil {
		return nil, err
	}

	if now := model.MonthYearOf(time.Now()); model.MonthYearOf(t.Date) == now {
		latest, err := s.valuation.LatestSnapshot(t.AssetID)
		if err != nil {
			return nil, err
		}
		if latest != nil && latest.MonthYear() == now {
			if err := s.valuation.ApplyIncremental(ctx, t.AssetID, t.Date, t.Units, t.TotalAmount, t.IsSell()); err != nil {
				return nil, err
			}
			return t, nil
		}
	}

	if _, err := s.recompute.RecomputeRange(ctx, t.AssetID, t.Date, time.Now()); err != nil {
		return nil, err
	}

	return t, nil
}

// UpdateTransaction replaces a transaction's fields and recomputes the
// snapshot window spanning both the old and the new date, so moving a
// transaction between months cleans up the month it left.
func (s *TransactionService) UpdateTransaction(ctx context.Context, transactionID string, in TransactionInput) (*model.Transaction, error) {
	existing, err := s.transactionRepo.GetTransaction(transactionID)
	if err != nil {
		return nil, err
	}

	updated := existing
	updated.Date = in.Date
	updated.Type = in.Type
	updated.Units = in.Units
	updated.TotalAmount = in.TotalAmount
	updated.Note = in.Note

	if err := s.transactionRepo.UpdateTransaction(ctx, &updated); err != nil {
		return nil, err
	}

	from, to := windowAround(existing.Date, updated.Date)
	if _, err := s.recompute.RecomputeRange(ctx, updated.AssetID, from, to); err != nil {
		return nil, err
	}

	return &updated, nil
}

// DeleteTransaction removes a transaction and recomputes the snapshot series
// from its month forward.
func (s *TransactionService) DeleteTransaction(ctx context.Context, transactionID string) error {
	existing, err := s.transactionRepo.GetTransaction(transactionID)
	if err != nil {
		return err
	}

	if err := s.transactionRepo.DeleteTransaction(ctx, transactionID); err != nil {
		return err
	}

	from, to := windowAround(existing.Date, time.Now())
	_, err = s.recompute.RecomputeRange(ctx, existing.AssetID, from, to)
	return err
}

// GetTransaction retrieves a single transaction by its ID.
func (s *TransactionService) GetTransaction(transactionID string) (model.Transaction, error) {
	return s.transactionRepo.GetTransaction(transactionID)
}

// ListForUser retrieves all transactions across the user's assets, newest first.
func (s *TransactionService) ListForUser(userID string) ([]model.TransactionResponse, error) {
	return s.transactionRepo.ListForUser(userID)
}

// windowAround orders two dates into a recompute window, extended to at
// least the present so buffer months past the change stay consistent.
func windowAround(a, b time.Time) (from, to time.Time) {
	from, to = a, b
	if to.Before(from) {
		from, to = to, from
	}
	if now := time.Now(); to.Before(now) {
		to = now
	}
	return from, to
}
