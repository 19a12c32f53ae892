package validation

import (
	"strings"
	"time"

	"github.com/dcosta/invest-snapshot-backend/internal/api/request"
)

// ValidateMarkValue validates a mark-to-market request.
// Month and year must either both be zero (defaulting to the current month)
// or form a valid calendar month; amounts must not be negative.
func ValidateMarkValue(req request.MarkValueRequest) error {
	errors := make(map[string]string)

	if req.Month != 0 || req.Year != 0 {
		if req.Month < 1 || req.Month > 12 {
			errors["month"] = "month must be between 1 and 12"
		}
		if req.Year < 1 {
			errors["year"] = "year is required when month is set"
		}
	}

	if req.CurrentValue < 0 {
		errors["currentValue"] = "currentValue must not be negative"
	}
	if req.WithdrawnAmount < 0 {
		errors["withdrawnAmount"] = "withdrawnAmount must not be negative"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}

// ValidateRecompute validates a recompute request. From is required and both
// dates must be in YYYY-MM-DD format, with from not after to.
func ValidateRecompute(req request.RecomputeRequest) error {
	errors := make(map[string]string)

	if strings.TrimSpace(req.From) == "" {
		errors["from"] = "from is required"
	}
	from, err := time.Parse("2006-01-02", req.From)
	if err != nil {
		errors["from"] = err.Error()
	}

	if strings.TrimSpace(req.To) != "" {
		to, err := time.Parse("2006-01-02", req.To)
		if err != nil {
			errors["to"] = err.Error()
		} else if to.Before(from) {
			errors["to"] = ErrInvalidDateRange.Error()
		}
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}
