package request

// CreateTransactionRequest is the body of POST /api/invest/transaction.
// TotalAmount is in minor currency units (cents).
type CreateTransactionRequest struct {
	AssetID     string  `json:"assetId"`
	Date        string  `json:"date"`
	Type        string  `json:"type"`
	Units       float64 `json:"units"`
	TotalAmount int64   `json:"totalAmount"`
	Note        string  `json:"note,omitempty"`
}

// UpdateTransactionRequest is the body of PUT /api/invest/transaction/{uuid}.
// Omitted fields keep their current value.
type UpdateTransactionRequest struct {
	Date        *string  `json:"date,omitempty"`
	Type        *string  `json:"type,omitempty"`
	Units       *float64 `json:"units,omitempty"`
	TotalAmount *int64   `json:"totalAmount,omitempty"`
	Note        *string  `json:"note,omitempty"`
}
