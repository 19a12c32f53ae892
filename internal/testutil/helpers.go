package testutil

import (
	"database/sql"
	"math/rand"
	"testing"

	"github.com/google/uuid"

	"github.com/dcosta/invest-snapshot-backend/internal/repository"
	"github.com/dcosta/invest-snapshot-backend/internal/service"
)

func NewTestRecomputeService(t *testing.T, db *sql.DB) *service.RecomputeService {
	t.Helper()

	snapshotRepo := repository.NewSnapshotRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)
	assetRepo := repository.NewAssetRepository(db)

	return service.NewRecomputeService(
		db,
		snapshotRepo,
		transactionRepo,
		assetRepo,
	)
}

func NewTestValuationService(t *testing.T, db *sql.DB) *service.ValuationService {
	t.Helper()

	snapshotRepo := repository.NewSnapshotRepository(db)

	return service.NewValuationService(
		snapshotRepo,
	)
}

func NewTestTransactionService(t *testing.T, db *sql.DB) *service.TransactionService {
	t.Helper()

	transactionRepo := repository.NewTransactionRepository(db)
	assetRepo := repository.NewAssetRepository(db)
	valuationService := NewTestValuationService(t, db)
	recomputeService := NewTestRecomputeService(t, db)

	return service.NewTransactionService(
		transactionRepo,
		assetRepo,
		valuationService,
		recomputeService,
	)
}

func NewTestROIService(t *testing.T, db *sql.DB) *service.ROIService {
	t.Helper()

	snapshotRepo := repository.NewSnapshotRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)
	assetRepo := repository.NewAssetRepository(db)

	return service.NewROIService(
		snapshotRepo,
		transactionRepo,
		assetRepo,
	)
}

func NewTestSystemService(t *testing.T, db *sql.DB) *service.SystemService {
	t.Helper()

	return service.NewSystemService(db)
}

// MakeID generates a UUID string for use in tests.
//
// Example usage:
//
//	id := testutil.MakeID()
//	// Returns: "550e8400-e29b-41d4-a716-446655440000"
func MakeID() string {
	return uuid.New().String()
}

// MakeAssetName generates a unique asset name for testing.
//
// Example usage:
//
//	name := testutil.MakeAssetName("World ETF")
//	// Returns: "World ETF ABC123"
func MakeAssetName(base string) string {
	if base == "" {
		base = "Asset"
	}
	return base + " " + randomAlphanumeric(6)
}

// randomAlphanumeric generates a random alphanumeric string of specified length.
func randomAlphanumeric(length int) string {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	result := make([]byte, length)
	for i := range result {
		result[i] = charset[rand.Intn(len(charset))]
	}
	return string(result)
}
