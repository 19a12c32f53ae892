package model

// AssetROI is the realized-plus-unrealized return of a single asset,
// computed from its most recent snapshot as
// current_value - invested_amount + withdrawn_amount.
type AssetROI struct {
	AssetID         string  `json:"assetId"`
	AssetName       string  `json:"assetName"`
	AssetTicker     string  `json:"assetTicker"`
	Units           float64 `json:"units"`
	InvestedAmount  int64   `json:"investedAmount"`
	WithdrawnAmount int64   `json:"withdrawnAmount"`
	CurrentValue    int64   `json:"currentValue"`
	ROIAmount       int64   `json:"roiAmount"`
	ROIPercentage   float64 `json:"roiPercentage"`
}

// DistributionSlice is one asset's share of the portfolio's total marked value.
type DistributionSlice struct {
	AssetID      string  `json:"assetId"`
	AssetName    string  `json:"assetName"`
	AssetTicker  string  `json:"assetTicker"`
	CurrentValue int64   `json:"currentValue"`
	Percentage   float64 `json:"percentage"`
}

// MonthlyPoint is the portfolio-wide marked value for one calendar month,
// used for the evolution chart.
type MonthlyPoint struct {
	Month        int   `json:"month"`
	Year         int   `json:"year"`
	CurrentValue int64 `json:"currentValue"`
}

// YearPerformance is the combined portfolio performance over one calendar year.
// ROIAmount = closing - opening - invested + withdrawn, in minor units.
type YearPerformance struct {
	Year            int     `json:"year"`
	OpeningValue    int64   `json:"openingValue"`
	ClosingValue    int64   `json:"closingValue"`
	InvestedAmount  int64   `json:"investedAmount"`
	WithdrawnAmount int64   `json:"withdrawnAmount"`
	ROIAmount       int64   `json:"roiAmount"`
	ROIPercentage   float64 `json:"roiPercentage"`
}

// InvestedAndWithdrawn holds the separate buy-side and sell-side totals over
// a time window, in major currency units.
type InvestedAndWithdrawn struct {
	InvestedAmount  float64 `json:"investedAmount"`
	WithdrawnAmount float64 `json:"withdrawnAmount"`
}
