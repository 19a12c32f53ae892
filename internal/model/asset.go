package model

import "time"

// Asset statuses. Inactive assets are excluded from distribution and
// performance aggregations but keep their snapshot history.
const (
	AssetStatusActive   = "active"
	AssetStatusInactive = "inactive"
)

// Asset represents an investment asset (stock, ETF, crypto, ...) owned by a user.
// The snapshot engine only reads asset metadata; asset lifecycle management is
// owned by an external registry.
type Asset struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Name      string    `json:"name"`
	Ticker    string    `json:"ticker"`
	Type      string    `json:"type"`
	Broker    string    `json:"broker"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
}
