package model

import "time"

// Transaction types.
const (
	TransactionTypeBuy  = "buy"
	TransactionTypeSell = "sell"
)

// Transaction represents a single buy or sell of an asset.
// TotalAmount is expressed in integer minor currency units (cents); Units is
// the unsigned magnitude of the position change.
type Transaction struct {
	ID          string    `json:"id"`
	AssetID     string    `json:"assetId"`
	Date        time.Time `json:"date"`
	Type        string    `json:"type"`
	Units       float64   `json:"units"`
	TotalAmount int64     `json:"totalAmount"`
	Note        string    `json:"note,omitempty"`
	CreatedAt   time.Time `json:"createdAt,omitempty"`
	UpdatedAt   time.Time `json:"updatedAt,omitempty"`
}

// IsSell reports whether the transaction reduces the position.
func (t Transaction) IsSell() bool {
	return t.Type == TransactionTypeSell
}

// TransactionResponse represents a transaction enriched with asset metadata
// for API responses.
type TransactionResponse struct {
	ID          string    `json:"id"`
	AssetID     string    `json:"assetId"`
	AssetName   string    `json:"assetName"`
	AssetTicker string    `json:"assetTicker"`
	Date        time.Time `json:"date"`
	Type        string    `json:"type"`
	Units       float64   `json:"units"`
	TotalAmount int64     `json:"totalAmount"`
	Note        string    `json:"note,omitempty"`
}
