package request

// MarkValueRequest is the body of PUT /api/invest/asset/{uuid}/value.
// A zero month and year default to the current calendar month. Amounts are
// in minor currency units (cents).
type MarkValueRequest struct {
	Month           int     `json:"month"`
	Year            int     `json:"year"`
	Units           float64 `json:"units"`
	WithdrawnAmount int64   `json:"withdrawnAmount"`
	CurrentValue    int64   `json:"currentValue"`
}

// RecomputeRequest is the body of POST /api/invest/asset/{uuid}/recompute.
// Dates are YYYY-MM-DD; an empty To defaults to today.
type RecomputeRequest struct {
	From string `json:"from"`
	To   string `json:"to,omitempty"`
}
