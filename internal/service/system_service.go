package service

import (
	"database/sql"

	"github.com/dcosta/invest-snapshot-backend/internal/database"
)

// SystemService provides system-level operations
type SystemService struct {
	db *sql.DB
}

// NewSystemService creates a new SystemService with the provided database connection.
func NewSystemService(db *sql.DB) *SystemService {
	return &SystemService{db: db}
}

// CheckHealth verifies the database connection is alive.
func (s *SystemService) CheckHealth() error {
	return database.HealthCheck(s.db)
}
