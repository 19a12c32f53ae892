package model

import "time"

// Snapshot is the per-asset, per-calendar-month record of the position at
// month end. InvestedAmount, WithdrawnAmount and CurrentValue are integer
// minor currency units. Units is a signed running total; it can go negative
// when recorded sells exceed recorded buys, which the engine stores as-is.
//
// CurrentValue is a manually marked valuation. It is never derived from Units
// and the recompute pass never overwrites it on existing rows; it is only
// seeded on newly created rows as a carry-forward of the baseline.
type Snapshot struct {
	ID              string    `json:"id,omitempty"`
	AssetID         string    `json:"assetId"`
	Month           int       `json:"month"`
	Year            int       `json:"year"`
	Units           float64   `json:"units"`
	InvestedAmount  int64     `json:"investedAmount"`
	WithdrawnAmount int64     `json:"withdrawnAmount"`
	CurrentValue    int64     `json:"currentValue"`
	CreatedAt       time.Time `json:"createdAt,omitempty"`
	UpdatedAt       time.Time `json:"updatedAt,omitempty"`
}

// MonthYear returns the calendar month the snapshot belongs to.
func (s Snapshot) MonthYear() MonthYear {
	return MonthYear{Month: s.Month, Year: s.Year}
}

// AssetSnapshot is a snapshot joined with asset metadata, used by the
// charting and distribution endpoints.
type AssetSnapshot struct {
	Snapshot
	AssetName   string `json:"assetName"`
	AssetTicker string `json:"assetTicker"`
	AssetBroker string `json:"assetBroker"`
}
