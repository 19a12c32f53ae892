package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dcosta/invest-snapshot-backend/internal/apperrors"
	"github.com/dcosta/invest-snapshot-backend/internal/model"
)

// SnapshotRepository provides data access methods for the invest_asset_snapshot
// table, the durable store of one record per (asset, month, year).
//
// Two different upsert statements exist because the two writers have different
// contracts:
//   - the recompute pass fully replaces the running totals but must never
//     overwrite a manually marked current_value on an existing row
//     (UpsertRunningTotals);
//   - a mark-to-market only replaces current_value on an existing row
//     (UpsertCurrentValue).
//
// Lookups that find nothing return a nil snapshot and a nil error; a missing
// snapshot is a zero baseline, not a failure.
type SnapshotRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewSnapshotRepository creates a new SnapshotRepository with the provided database connection.
func NewSnapshotRepository(db *sql.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

// WithTx returns a new SnapshotRepository scoped to the provided transaction.
func (r *SnapshotRepository) WithTx(tx *sql.Tx) *SnapshotRepository {
	return &SnapshotRepository{
		db: r.db,
		tx: tx,
	}
}

// getQuerier returns the active transaction if one is set, otherwise the database connection.
func (r *SnapshotRepository) getQuerier() interface {
	Query(query string, args ...any) (*sql.Rows, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	Exec(query string, args ...any) (sql.Result, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
} {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

// UpsertRunningTotals inserts the snapshot or, if a row already exists for the
// (asset, month, year) key, replaces its units, invested_amount and
// withdrawn_amount. The existing row's current_value is left untouched; the
// provided CurrentValue is only used when a new row is created (baseline
// carry-forward).
func (r *SnapshotRepository) UpsertRunningTotals(ctx context.Context, snap model.Snapshot) error {
	query := `
		INSERT INTO invest_asset_snapshot
			(id, asset_id, month, year, units, invested_amount, withdrawn_amount, current_value, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(asset_id, month, year) DO UPDATE SET
			units = excluded.units,
			invested_amount = excluded.invested_amount,
			withdrawn_amount = excluded.withdrawn_amount,
			updated_at = excluded.updated_at
	`

	now := FormatTime(time.Now())
	_, err := r.getQuerier().ExecContext(ctx, query,
		uuid.New().String(),
		snap.AssetID,
		snap.Month,
		snap.Year,
		snap.Units,
		snap.InvestedAmount,
		snap.WithdrawnAmount,
		snap.CurrentValue,
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert snapshot running totals: %w", err)
	}

	return nil
}

// UpsertCurrentValue inserts the snapshot or, if a row already exists for the
// (asset, month, year) key, replaces only its current_value. Units,
// invested_amount and withdrawn_amount of an existing row are preserved; the
// provided values seed a new row when none exists yet.
func (r *SnapshotRepository) UpsertCurrentValue(ctx context.Context, snap model.Snapshot) error {
	query := `
		INSERT INTO invest_asset_snapshot
			(id, asset_id, month, year, units, invested_amount, withdrawn_amount, current_value, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(asset_id, month, year) DO UPDATE SET
			current_value = excluded.current_value,
			updated_at = excluded.updated_at
	`

	now := FormatTime(time.Now())
	_, err := r.getQuerier().ExecContext(ctx, query,
		uuid.New().String(),
		snap.AssetID,
		snap.Month,
		snap.Year,
		snap.Units,
		snap.InvestedAmount,
		snap.WithdrawnAmount,
		snap.CurrentValue,
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert snapshot current value: %w", err)
	}

	return nil
}

// InsertSnapshot inserts a fully populated snapshot row.
// Used by the incremental fast path when seeding a month that has no row yet.
func (r *SnapshotRepository) InsertSnapshot(ctx context.Context, snap model.Snapshot) error {
	query := `
		INSERT INTO invest_asset_snapshot
			(id, asset_id, month, year, units, invested_amount, withdrawn_amount, current_value, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	now := FormatTime(time.Now())
	_, err := r.getQuerier().ExecContext(ctx, query,
		uuid.New().String(),
		snap.AssetID,
		snap.Month,
		snap.Year,
		snap.Units,
		snap.InvestedAmount,
		snap.WithdrawnAmount,
		snap.CurrentValue,
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to insert snapshot: %w", err)
	}

	return nil
}

// UpdateSnapshot replaces all value fields of the row at the snapshot's
// (asset, month, year) key, including current_value.
// Used by the incremental fast path, which computes the merged row itself.
func (r *SnapshotRepository) UpdateSnapshot(ctx context.Context, snap model.Snapshot) error {
	query := `
		UPDATE invest_asset_snapshot
		SET units = ?, invested_amount = ?, withdrawn_amount = ?, current_value = ?, updated_at = ?
		WHERE asset_id = ? AND month = ? AND year = ?
	`

	_, err := r.getQuerier().ExecContext(ctx, query,
		snap.Units,
		snap.InvestedAmount,
		snap.WithdrawnAmount,
		snap.CurrentValue,
		FormatTime(time.Now()),
		snap.AssetID,
		snap.Month,
		snap.Year,
	)
	if err != nil {
		return fmt.Errorf("failed to update snapshot: %w", err)
	}

	return nil
}

// GetExact retrieves the snapshot at exactly (asset, month, year).
// Returns (nil, nil) when no snapshot exists at that key.
func (r *SnapshotRepository) GetExact(assetID string, month, year int) (*model.Snapshot, error) {
	if assetID == "" {
		return nil, apperrors.ErrInvalidAssetID
	}

	query := `
		SELECT id, asset_id, month, year, units, invested_amount, withdrawn_amount, current_value, created_at, updated_at
		FROM invest_asset_snapshot
		WHERE asset_id = ? AND month = ? AND year = ?
	`

	return r.scanOne(r.getQuerier().QueryRow(query, assetID, month, year))
}

// GetLatestAtOrBefore retrieves the snapshot with the greatest (year, month)
// pair not exceeding the cutoff. A zero cutoff defaults to the current
// calendar month. Returns (nil, nil) when the asset has no snapshot at or
// before the cutoff.
func (r *SnapshotRepository) GetLatestAtOrBefore(assetID string, cutoff model.MonthYear) (*model.Snapshot, error) {
	if assetID == "" {
		return nil, apperrors.ErrInvalidAssetID
	}

	if cutoff.IsZero() {
		cutoff = model.MonthYearOf(time.Now())
	}

	query := `
		SELECT id, asset_id, month, year, units, invested_amount, withdrawn_amount, current_value, created_at, updated_at
		FROM invest_asset_snapshot
		WHERE asset_id = ?
		AND (year < ? OR (year = ? AND month <= ?))
		ORDER BY year DESC, month DESC
		LIMIT 1
	`

	return r.scanOne(r.getQuerier().QueryRow(query, assetID, cutoff.Year, cutoff.Year, cutoff.Month))
}

// scanOne scans a single snapshot row, mapping sql.ErrNoRows to (nil, nil).
func (r *SnapshotRepository) scanOne(row *sql.Row) (*model.Snapshot, error) {
	var s model.Snapshot
	var createdAtStr, updatedAtStr string

	err := row.Scan(
		&s.ID,
		&s.AssetID,
		&s.Month,
		&s.Year,
		&s.Units,
		&s.InvestedAmount,
		&s.WithdrawnAmount,
		&s.CurrentValue,
		&createdAtStr,
		&updatedAtStr,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan snapshot row: %w", err)
	}

	if s.CreatedAt, err = ParseTime(createdAtStr); err != nil {
		return nil, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if s.UpdatedAt, err = ParseTime(updatedAtStr); err != nil {
		return nil, fmt.Errorf("failed to parse updated_at: %w", err)
	}

	return &s, nil
}

// ListForUserUpTo retrieves all snapshots joined with asset metadata for
// assets owned by the user, filtered to (year, month) <= cutoff and ordered
// ascending by (year, month). A zero cutoff defaults to the current calendar
// month. Used for charting.
func (r *SnapshotRepository) ListForUserUpTo(userID string, cutoff model.MonthYear) ([]model.AssetSnapshot, error) {
	if userID == "" {
		return nil, apperrors.ErrInvalidUserID
	}

	if cutoff.IsZero() {
		cutoff = model.MonthYearOf(time.Now())
	}

	query := `
		SELECT s.asset_id, s.month, s.year, s.units, s.invested_amount, s.withdrawn_amount, s.current_value,
		       a.name, a.ticker, a.broker
		FROM invest_asset_snapshot s
		INNER JOIN asset a ON a.id = s.asset_id
		WHERE a.user_id = ?
		AND (s.year < ? OR (s.year = ? AND s.month <= ?))
		ORDER BY s.year ASC, s.month ASC
	`

	rows, err := r.getQuerier().Query(query, userID, cutoff.Year, cutoff.Year, cutoff.Month)
	if err != nil {
		return nil, fmt.Errorf("failed to query invest_asset_snapshot table: %w", err)
	}
	defer rows.Close()

	snapshots := []model.AssetSnapshot{}

	for rows.Next() {
		var s model.AssetSnapshot
		var ticker, broker sql.NullString

		err := rows.Scan(
			&s.AssetID,
			&s.Month,
			&s.Year,
			&s.Units,
			&s.InvestedAmount,
			&s.WithdrawnAmount,
			&s.CurrentValue,
			&s.AssetName,
			&ticker,
			&broker,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan invest_asset_snapshot results: %w", err)
		}

		s.AssetTicker = ticker.String
		s.AssetBroker = broker.String

		snapshots = append(snapshots, s)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating invest_asset_snapshot table: %w", err)
	}

	return snapshots, nil
}
