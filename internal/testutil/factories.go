package testutil

import (
	"database/sql"
	"testing"
	"time"

	"github.com/dcosta/invest-snapshot-backend/internal/model"
	"github.com/dcosta/invest-snapshot-backend/internal/repository"
)

// AssetBuilder provides a fluent interface for creating test assets.
//
// Example usage:
//
//	// Simple creation with defaults
//	asset := testutil.NewAsset().Build(t, db)
//
//	// Customized asset
//	asset := testutil.NewAsset().
//	    WithName("World ETF").
//	    WithUserID(userID).
//	    Inactive().
//	    Build(t, db)
type AssetBuilder struct {
	ID     string
	UserID string
	Name   string
	Ticker string
	Type   string
	Broker string
	Status string
}

// NewAsset creates an AssetBuilder with sensible defaults.
func NewAsset() *AssetBuilder {
	return &AssetBuilder{
		ID:     MakeID(),
		UserID: MakeID(),
		Name:   MakeAssetName("Test Asset"),
		Ticker: "TST",
		Type:   "etf",
		Broker: "Test Broker",
		Status: model.AssetStatusActive,
	}
}

// WithID sets a custom ID.
func (b *AssetBuilder) WithID(id string) *AssetBuilder {
	b.ID = id
	return b
}

// WithUserID sets a custom owner.
func (b *AssetBuilder) WithUserID(userID string) *AssetBuilder {
	b.UserID = userID
	return b
}

// WithName sets a custom name.
func (b *AssetBuilder) WithName(name string) *AssetBuilder {
	b.Name = name
	return b
}

// WithTicker sets a custom ticker.
func (b *AssetBuilder) WithTicker(ticker string) *AssetBuilder {
	b.Ticker = ticker
	return b
}

// Inactive marks the asset as inactive.
func (b *AssetBuilder) Inactive() *AssetBuilder {
	b.Status = model.AssetStatusInactive
	return b
}

// Build creates the asset in the database and returns it.
func (b *AssetBuilder) Build(t *testing.T, db *sql.DB) model.Asset {
	t.Helper()

	query := `
		INSERT INTO asset (id, user_id, name, ticker, type, broker, status)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query, b.ID, b.UserID, b.Name, b.Ticker, b.Type, b.Broker, b.Status)
	if err != nil {
		t.Fatalf("Failed to create test asset: %v", err)
	}

	return model.Asset{
		ID:     b.ID,
		UserID: b.UserID,
		Name:   b.Name,
		Ticker: b.Ticker,
		Type:   b.Type,
		Broker: b.Broker,
		Status: b.Status,
	}
}

// TransactionBuilder provides a fluent interface for creating test transactions.
//
// Example usage:
//
//	trx := testutil.NewTransaction(asset.ID).
//	    Buy(10, 100000).
//	    OnDate(2024, time.January, 15).
//	    Build(t, db)
type TransactionBuilder struct {
	ID          string
	AssetID     string
	Date        time.Time
	Type        string
	Units       float64
	TotalAmount int64
	Note        string
}

// NewTransaction creates a TransactionBuilder with sensible defaults: a buy
// of 1 unit for 100.00 dated today.
func NewTransaction(assetID string) *TransactionBuilder {
	return &TransactionBuilder{
		ID:          MakeID(),
		AssetID:     assetID,
		Date:        time.Now().UTC(),
		Type:        model.TransactionTypeBuy,
		Units:       1,
		TotalAmount: 10000,
	}
}

// Buy makes the transaction a buy of the given units and amount (minor units).
func (b *TransactionBuilder) Buy(units float64, totalAmount int64) *TransactionBuilder {
	b.Type = model.TransactionTypeBuy
	b.Units = units
	b.TotalAmount = totalAmount
	return b
}

// Sell makes the transaction a sell of the given units and amount (minor units).
func (b *TransactionBuilder) Sell(units float64, totalAmount int64) *TransactionBuilder {
	b.Type = model.TransactionTypeSell
	b.Units = units
	b.TotalAmount = totalAmount
	return b
}

// OnDate sets the transaction date to noon UTC on the given day.
func (b *TransactionBuilder) OnDate(year int, month time.Month, day int) *TransactionBuilder {
	b.Date = time.Date(year, month, day, 12, 0, 0, 0, time.UTC)
	return b
}

// WithNote attaches a free-form note.
func (b *TransactionBuilder) WithNote(note string) *TransactionBuilder {
	b.Note = note
	return b
}

// Build creates the transaction in the database and returns it.
func (b *TransactionBuilder) Build(t *testing.T, db *sql.DB) model.Transaction {
	t.Helper()

	query := `
		INSERT INTO invest_transaction (id, asset_id, date_timestamp, type, units, total_amount, note)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query, b.ID, b.AssetID, repository.FormatTime(b.Date), b.Type, b.Units, b.TotalAmount, b.Note)
	if err != nil {
		t.Fatalf("Failed to create test transaction: %v", err)
	}

	return model.Transaction{
		ID:          b.ID,
		AssetID:     b.AssetID,
		Date:        b.Date.UTC(),
		Type:        b.Type,
		Units:       b.Units,
		TotalAmount: b.TotalAmount,
		Note:        b.Note,
	}
}

// SnapshotBuilder provides a fluent interface for seeding snapshot rows
// directly, bypassing the recompute engine.
//
// Example usage:
//
//	snap := testutil.NewSnapshot(asset.ID, 3, 2024).
//	    WithTotals(10, 100000, 0).
//	    WithCurrentValue(110000).
//	    Build(t, db)
type SnapshotBuilder struct {
	ID              string
	AssetID         string
	Month           int
	Year            int
	Units           float64
	InvestedAmount  int64
	WithdrawnAmount int64
	CurrentValue    int64
}

// NewSnapshot creates a SnapshotBuilder for the given asset and month.
func NewSnapshot(assetID string, month, year int) *SnapshotBuilder {
	return &SnapshotBuilder{
		ID:      MakeID(),
		AssetID: assetID,
		Month:   month,
		Year:    year,
	}
}

// WithTotals sets units, invested and withdrawn amounts (minor units).
func (b *SnapshotBuilder) WithTotals(units float64, invested, withdrawn int64) *SnapshotBuilder {
	b.Units = units
	b.InvestedAmount = invested
	b.WithdrawnAmount = withdrawn
	return b
}

// WithCurrentValue sets the marked value (minor units).
func (b *SnapshotBuilder) WithCurrentValue(value int64) *SnapshotBuilder {
	b.CurrentValue = value
	return b
}

// Build creates the snapshot in the database and returns it.
func (b *SnapshotBuilder) Build(t *testing.T, db *sql.DB) model.Snapshot {
	t.Helper()

	query := `
		INSERT INTO invest_asset_snapshot (id, asset_id, month, year, units, invested_amount, withdrawn_amount, current_value)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query, b.ID, b.AssetID, b.Month, b.Year, b.Units, b.InvestedAmount, b.WithdrawnAmount, b.CurrentValue)
	if err != nil {
		t.Fatalf("Failed to create test snapshot: %v", err)
	}

	return model.Snapshot{
		ID:              b.ID,
		AssetID:         b.AssetID,
		Month:           b.Month,
		Year:            b.Year,
		Units:           b.Units,
		InvestedAmount:  b.InvestedAmount,
		WithdrawnAmount: b.WithdrawnAmount,
		CurrentValue:    b.CurrentValue,
	}
}
