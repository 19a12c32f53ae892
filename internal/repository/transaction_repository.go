package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dcosta/invest-snapshot-backend/internal/apperrors"
	"github.com/dcosta/invest-snapshot-backend/internal/model"
)

// TransactionRepository provides data access methods for the invest_transaction
// table: the append/editable buy-sell ledger the snapshot engine replays.
type TransactionRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewTransactionRepository creates a new TransactionRepository with the provided database connection.
func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// WithTx returns a new TransactionRepository scoped to the provided transaction.
func (r *TransactionRepository) WithTx(tx *sql.Tx) *TransactionRepository {
	return &TransactionRepository{
		db: r.db,
		tx: tx,
	}
}

// getQuerier returns the active transaction if one is set, otherwise the database connection.
func (r *TransactionRepository) getQuerier() interface {
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

// ListForAssetBetween retrieves all transactions for the asset with a
// timestamp in [from, to), ordered ascending by timestamp. Chronological
// order is the contract the recompute replay depends on.
func (r *TransactionRepository) ListForAssetBetween(assetID string, from, to time.Time) ([]model.Transaction, error) {
	if assetID == "" {
		return nil, apperrors.ErrInvalidAssetID
	}

	query := `
		SELECT id, asset_id, date_timestamp, type, units, total_amount, note
		FROM invest_transaction
		WHERE asset_id = ?
		AND date_timestamp >= ?
		AND date_timestamp < ?
		ORDER BY date_timestamp ASC
	`

	rows, err := r.getQuerier().Query(query, assetID, FormatTime(from), FormatTime(to))
	if err != nil {
		return nil, fmt.Errorf("failed to query invest_transaction table: %w", err)
	}
	defer rows.Close()

	transactions := []model.Transaction{}

	for rows.Next() {
		var t model.Transaction
		var dateStr string
		var note sql.NullString

		err := rows.Scan(
			&t.ID,
			&t.AssetID,
			&dateStr,
			&t.Type,
			&t.Units,
			&t.TotalAmount,
			&note,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan invest_transaction results: %w", err)
		}

		t.Date, err = ParseTime(dateStr)
		if err != nil || t.Date.IsZero() {
			return nil, fmt.Errorf("failed to parse date: %w", err)
		}
		t.Note = note.String

		transactions = append(transactions, t)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating invest_transaction table: %w", err)
	}

	return transactions, nil
}

// GetTransaction retrieves a single transaction by its ID.
// Returns ErrTransactionNotFound if no transaction with the given ID exists.
func (r *TransactionRepository) GetTransaction(transactionID string) (model.Transaction, error) {
	if transactionID == "" {
		return model.Transaction{}, apperrors.ErrInvalidTransactionID
	}

	query := `
		SELECT id, asset_id, date_timestamp, type, units, total_amount, note
		FROM invest_transaction
		WHERE id = ?
	`

	var t model.Transaction
	var dateStr string
	var note sql.NullString

	err := r.getQuerier().QueryRow(query, transactionID).Scan(
		&t.ID,
		&t.AssetID,
		&dateStr,
		&t.Type,
		&t.Units,
		&t.TotalAmount,
		&note,
	)
	if err == sql.ErrNoRows {
		return model.Transaction{}, apperrors.ErrTransactionNotFound
	}
	if err != nil {
		return model.Transaction{}, fmt.Errorf("failed to scan invest_transaction results: %w", err)
	}

	t.Date, err = ParseTime(dateStr)
	if err != nil || t.Date.IsZero() {
		return model.Transaction{}, fmt.Errorf("failed to parse date: %w", err)
	}
	t.Note = note.String

	return t, nil
}

// ListForUser retrieves all transactions for the user's assets joined with
// asset metadata, ordered descending by timestamp.
func (r *TransactionRepository) ListForUser(userID string) ([]model.TransactionResponse, error) {
	if userID == "" {
		return nil, apperrors.ErrInvalidUserID
	}

	query := `
		SELECT t.id, t.asset_id, a.name, a.ticker, t.date_timestamp, t.type, t.units, t.total_amount, t.note
		FROM invest_transaction t
		INNER JOIN asset a ON a.id = t.asset_id
		WHERE a.user_id = ?
		ORDER BY t.date_timestamp DESC
	`

	rows, err := r.getQuerier().Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query invest_transaction table: %w", err)
	}
	defer rows.Close()

	transactions := []model.TransactionResponse{}

	for rows.Next() {
		var t model.TransactionResponse
		var dateStr string
		var ticker, note sql.NullString

		err := rows.Scan(
			&t.ID,
			&t.AssetID,
			&t.AssetName,
			&ticker,
			&dateStr,
			&t.Type,
			&t.Units,
			&t.TotalAmount,
			&note,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan invest_transaction results: %w", err)
		}

		t.Date, err = ParseTime(dateStr)
		if err != nil || t.Date.IsZero() {
			return nil, fmt.Errorf("failed to parse date: %w", err)
		}
		t.AssetTicker = ticker.String
		t.Note = note.String

		transactions = append(transactions, t)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating invest_transaction table: %w", err)
	}

	return transactions, nil
}

// InsertTransaction inserts a new transaction row.
func (r *TransactionRepository) InsertTransaction(ctx context.Context, t *model.Transaction) error {
	query := `
		INSERT INTO invest_transaction (id, asset_id, date_timestamp, type, units, total_amount, note, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	now := FormatTime(time.Now())
	_, err := r.getQuerier().ExecContext(ctx, query,
		t.ID,
		t.AssetID,
		FormatTime(t.Date),
		t.Type,
		t.Units,
		t.TotalAmount,
		t.Note,
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}

	return nil
}

// UpdateTransaction replaces the mutable fields of an existing transaction.
// Returns ErrTransactionNotFound if no row with the transaction's ID exists.
func (r *TransactionRepository) UpdateTransaction(ctx context.Context, t *model.Transaction) error {
	query := `
		UPDATE invest_transaction
		SET date_timestamp = ?, type = ?, units = ?, total_amount = ?, note = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := r.getQuerier().ExecContext(ctx, query,
		FormatTime(t.Date),
		t.Type,
		t.Units,
		t.TotalAmount,
		t.Note,
		FormatTime(time.Now()),
		t.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update transaction: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return apperrors.ErrTransactionNotFound
	}

	return nil
}

// DeleteTransaction removes a transaction row.
// Returns ErrTransactionNotFound if no row with the given ID exists.
func (r *TransactionRepository) DeleteTransaction(ctx context.Context, transactionID string) error {
	if transactionID == "" {
		return apperrors.ErrInvalidTransactionID
	}

	result, err := r.getQuerier().ExecContext(ctx, "DELETE FROM invest_transaction WHERE id = ?", transactionID)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return apperrors.ErrTransactionNotFound
	}

	return nil
}

// CombinedBalanceBetween sums transaction amounts across all of the user's
// assets within [from, to], with sell amounts negated. The result is in minor
// currency units; the caller applies the display scale.
func (r *TransactionRepository) CombinedBalanceBetween(userID string, from, to time.Time) (int64, error) {
	if userID == "" {
		return 0, apperrors.ErrInvalidUserID
	}

	query := `
		SELECT COALESCE(SUM(CASE WHEN t.type = ? THEN -t.total_amount ELSE t.total_amount END), 0)
		FROM invest_transaction t
		INNER JOIN asset a ON a.id = t.asset_id
		WHERE a.user_id = ?
		AND t.date_timestamp >= ?
		AND t.date_timestamp <= ?
	`

	var balance int64
	err := r.getQuerier().QueryRow(query,
		model.TransactionTypeSell, userID, FormatTime(from), FormatTime(to),
	).Scan(&balance)
	if err != nil {
		return 0, fmt.Errorf("failed to sum combined invested balance: %w", err)
	}

	return balance, nil
}

// InvestedAndWithdrawnBetween separately sums buy-only and sell-only amounts
// across all of the user's assets within [from, to], in minor currency units.
func (r *TransactionRepository) InvestedAndWithdrawnBetween(userID string, from, to time.Time) (invested, withdrawn int64, err error) {
	if userID == "" {
		return 0, 0, apperrors.ErrInvalidUserID
	}

	query := `
		SELECT COALESCE(SUM(CASE WHEN t.type = ? THEN t.total_amount ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN t.type = ? THEN t.total_amount ELSE 0 END), 0)
		FROM invest_transaction t
		INNER JOIN asset a ON a.id = t.asset_id
		WHERE a.user_id = ?
		AND t.date_timestamp >= ?
		AND t.date_timestamp <= ?
	`

	err = r.getQuerier().QueryRow(query,
		model.TransactionTypeBuy, model.TransactionTypeSell,
		userID, FormatTime(from), FormatTime(to),
	).Scan(&invested, &withdrawn)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to sum invested and withdrawn amounts: %w", err)
	}

	return invested, withdrawn, nil
}
