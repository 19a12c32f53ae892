package service

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dcosta/invest-snapshot-backend/internal/apperrors"
	"github.com/dcosta/invest-snapshot-backend/internal/model"
	"github.com/dcosta/invest-snapshot-backend/internal/repository"
)

// bufferMonths is the number of forward calendar months pre-populated with the
// running total after each replayed transaction. The buffer guarantees that
// months without transactions still carry the last known totals; later
// transactions overwrite the buffered rows as the replay moves forward.
const bufferMonths = 6

// rollForwardConcurrency bounds how many assets the roll-forward job
// recomputes at once. Passes for distinct assets are independent.
const rollForwardConcurrency = 4

// RecomputeService rebuilds a contiguous run of monthly snapshots for an
// asset after any change to its transaction history.
//
// A pass for a single asset runs under a per-asset mutex and inside a single
// database transaction: the pass reads a baseline and then performs a
// sequence of dependent upserts, so overlapping passes for the same asset
// would race, and a failure partway through must not leave a partially
// rebuilt month series. Passes for different assets may run concurrently.
type RecomputeService struct {
	db              *sql.DB
	snapshotRepo    *repository.SnapshotRepository
	transactionRepo *repository.TransactionRepository
	assetRepo       *repository.AssetRepository

	mu         sync.Mutex
	assetLocks map[string]*sync.Mutex
}

// NewRecomputeService creates a new RecomputeService with the provided dependencies.
func NewRecomputeService(
	db *sql.DB,
	snapshotRepo *repository.SnapshotRepository,
	transactionRepo *repository.TransactionRepository,
	assetRepo *repository.AssetRepository,
) *RecomputeService {
	return &RecomputeService{
		db:              db,
		snapshotRepo:    snapshotRepo,
		transactionRepo: transactionRepo,
		assetRepo:       assetRepo,
		assetLocks:      make(map[string]*sync.Mutex),
	}
}

// lockFor returns the mutex serializing recompute passes for the given asset.
func (s *RecomputeService) lockFor(assetID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.assetLocks[assetID]
	if !ok {
		lock = &sync.Mutex{}
		s.assetLocks[assetID] = lock
	}
	return lock
}

// RecomputeRange replays the asset's transactions around [from, to] and
// rebuilds the monthly snapshot series for that window. It returns the final
// running total, i.e. the asset's current cumulative state.
//
// The pass:
//  1. Reads a baseline: the latest snapshot at or before the pivot, two
//     calendar months before from (zero totals when none exists).
//  2. Writes the baseline to the month preceding from, establishing a floor.
//  3. Writes two buffer snapshots with the same baseline, for from's month
//     and the following one, so a window without transactions still carries
//     the last known totals.
//  4. Replays all transactions with timestamps in [from - 1 month, to + 1
//     month] in chronological order, writing the running total to each
//     transaction's own month and to the next bufferMonths months. The replay
//     starts one month after the baseline cutoff: every transaction writes a
//     snapshot into its own month, so a snapshot at or before the pivot
//     already accounts for all transactions up to and including the pivot
//     month, and replaying those again would double-count them.
//
// All writes happen in one database transaction; on any error the pass rolls
// back and prior snapshot state stays untouched. Re-running the same pass
// over the same ledger is idempotent.
func (s *RecomputeService) RecomputeRange(ctx context.Context, assetID string, from, to time.Time) (model.Snapshot, error) {
	if assetID == "" {
		return model.Snapshot{}, apperrors.ErrInvalidAssetID
	}
	if to.Before(from) {
		return model.Snapshot{}, apperrors.ErrInvalidDateRange
	}

	lock := s.lockFor(assetID)
	lock.Lock()
	defer lock.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return model.Snapshot{}, fmt.Errorf("failed to begin recompute transaction: %w", err)
	}
	// No-op once committed; guarantees rollback on every early return.
	defer tx.Rollback() //nolint:errcheck

	running, err := s.recomputeInTx(ctx, tx, assetID, from, to)
	if err != nil {
		return model.Snapshot{}, err
	}

	if err := tx.Commit(); err != nil {
		return model.Snapshot{}, fmt.Errorf("failed to commit recompute transaction: %w", err)
	}

	return running, nil
}

func (s *RecomputeService) recomputeInTx(ctx context.Context, tx *sql.Tx, assetID string, from, to time.Time) (model.Snapshot, error) {
	snapshots := s.snapshotRepo.WithTx(tx)
	transactions := s.transactionRepo.WithTx(tx)

	fromMonth := model.MonthYearOf(from)
	toMonth := model.MonthYearOf(to)
	pivot := fromMonth.AddMonths(-2)

	running := model.Snapshot{AssetID: assetID}

	baseline, err := snapshots.GetLatestAtOrBefore(assetID, pivot)
	if err != nil {
		return model.Snapshot{}, err
	}
	if baseline != nil {
		running.Units = baseline.Units
		running.InvestedAmount = baseline.InvestedAmount
		running.WithdrawnAmount = baseline.WithdrawnAmount
		running.CurrentValue = baseline.CurrentValue
	}

	// Floor value before the window, plus two buffer months covering the
	// start of the window itself.
	for _, m := range []model.MonthYear{fromMonth.AddMonths(-1), fromMonth, fromMonth.Next()} {
		if err := snapshots.UpsertRunningTotals(ctx, snapshotAt(running, m)); err != nil {
			return model.Snapshot{}, err
		}
	}

	// Replay starts the month after the baseline cutoff; transactions in or
	// before the pivot month are already folded into the baseline snapshot.
	trxList, err := transactions.ListForAssetBetween(assetID, fromMonth.AddMonths(-1).Start(), toMonth.AddMonths(2).Start())
	if err != nil {
		return model.Snapshot{}, err
	}

	for _, trx := range trxList {
		if trx.IsSell() {
			running.Units -= trx.Units
			running.WithdrawnAmount += trx.TotalAmount
		} else {
			running.Units += trx.Units
			running.InvestedAmount += trx.TotalAmount
		}

		// The transaction's own month plus the forward buffer, all carrying
		// the running total as of this transaction. Later transactions in
		// the chronological replay overwrite the buffered months.
		month := model.MonthYearOf(trx.Date)
		for i := 0; i <= bufferMonths; i++ {
			if err := snapshots.UpsertRunningTotals(ctx, snapshotAt(running, month.AddMonths(i))); err != nil {
				return model.Snapshot{}, err
			}
		}
	}

	running.Month = toMonth.Month
	running.Year = toMonth.Year

	return running, nil
}

// snapshotAt returns a copy of the running total keyed to the given month.
func snapshotAt(running model.Snapshot, m model.MonthYear) model.Snapshot {
	running.Month = m.Month
	running.Year = m.Year
	return running
}

// RollForwardActive recomputes the current month for every active asset,
// extending each asset's buffer snapshots into a newly started month.
// Assets are processed concurrently; the per-asset lock inside RecomputeRange
// keeps individual passes serialized.
func (s *RecomputeService) RollForwardActive(ctx context.Context) error {
	assets, err := s.assetRepo.ListActive()
	if err != nil {
		return err
	}

	now := time.Now()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(rollForwardConcurrency)
	for _, asset := range assets {
		g.Go(func() error {
			if _, err := s.RecomputeRange(ctx, asset.ID, now, now); err != nil {
				return fmt.Errorf("roll-forward failed for asset %s: %w", asset.ID, err)
			}
			return nil
		})
	}

	return g.Wait()
}
