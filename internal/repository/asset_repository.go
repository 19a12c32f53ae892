package repository

import (
	"database/sql"
	"fmt"

	"github.com/dcosta/invest-snapshot-backend/internal/apperrors"
	"github.com/dcosta/invest-snapshot-backend/internal/model"
)

// AssetRepository provides read access to the asset registry.
// Asset lifecycle (create/update/delete) is owned externally; the snapshot
// engine only needs metadata for joins, ROI labels and the roll-forward job.
type AssetRepository struct {
	db *sql.DB
}

// NewAssetRepository creates a new AssetRepository with the provided database connection.
func NewAssetRepository(db *sql.DB) *AssetRepository {
	return &AssetRepository{db: db}
}

// GetAsset retrieves a single asset by its ID.
// Returns ErrAssetNotFound if no asset with the given ID exists.
func (r *AssetRepository) GetAsset(assetID string) (model.Asset, error) {
	if assetID == "" {
		return model.Asset{}, apperrors.ErrInvalidAssetID
	}

	query := `
		SELECT id, user_id, name, ticker, type, broker, status
		FROM asset
		WHERE id = ?
	`

	var a model.Asset
	var ticker, broker sql.NullString
	err := r.db.QueryRow(query, assetID).Scan(
		&a.ID,
		&a.UserID,
		&a.Name,
		&ticker,
		&a.Type,
		&broker,
		&a.Status,
	)
	if err == sql.ErrNoRows {
		return model.Asset{}, apperrors.ErrAssetNotFound
	}
	if err != nil {
		return model.Asset{}, fmt.Errorf("failed to query asset table: %w", err)
	}

	a.Ticker = ticker.String
	a.Broker = broker.String

	return a, nil
}

// ListActiveForUser retrieves all active assets owned by the given user.
func (r *AssetRepository) ListActiveForUser(userID string) ([]model.Asset, error) {
	if userID == "" {
		return nil, apperrors.ErrInvalidUserID
	}

	query := `
		SELECT id, user_id, name, ticker, type, broker, status
		FROM asset
		WHERE user_id = ? AND status = ?
		ORDER BY name ASC
	`

	return r.listAssets(query, userID, model.AssetStatusActive)
}

// ListActive retrieves all active assets across all users.
// Used by the monthly roll-forward job.
func (r *AssetRepository) ListActive() ([]model.Asset, error) {
	query := `
		SELECT id, user_id, name, ticker, type, broker, status
		FROM asset
		WHERE status = ?
		ORDER BY name ASC
	`

	return r.listAssets(query, model.AssetStatusActive)
}

func (r *AssetRepository) listAssets(query string, args ...any) ([]model.Asset, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query asset table: %w", err)
	}
	defer rows.Close()

	assets := []model.Asset{}

	for rows.Next() {
		var a model.Asset
		var ticker, broker sql.NullString

		err := rows.Scan(
			&a.ID,
			&a.UserID,
			&a.Name,
			&ticker,
			&a.Type,
			&broker,
			&a.Status,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan asset table results: %w", err)
		}

		a.Ticker = ticker.String
		a.Broker = broker.String

		assets = append(assets, a)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating asset table: %w", err)
	}

	return assets, nil
}
