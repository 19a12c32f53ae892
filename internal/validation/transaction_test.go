package validation_test

import (
	"errors"
	"testing"

	"github.com/dcosta/invest-snapshot-backend/internal/api/request"
	"github.com/dcosta/invest-snapshot-backend/internal/testutil"
	"github.com/dcosta/invest-snapshot-backend/internal/validation"
)

func validCreateRequest() request.CreateTransactionRequest {
	return request.CreateTransactionRequest{
		AssetID:     testutil.MakeID(),
		Date:        "2024-03-15",
		Type:        "buy",
		Units:       10,
		TotalAmount: 100000,
	}
}

// TestValidateCreateTransaction tests transaction creation validation.
//
// WHY: The engine stores whatever passes validation, so this is the only
// gate against malformed ledger entries: bad dates, unknown types and
// non-positive quantities.
func TestValidateCreateTransaction(t *testing.T) {
	t.Run("accepts a valid request", func(t *testing.T) {
		if err := validation.ValidateCreateTransaction(validCreateRequest()); err != nil {
			t.Errorf("Expected no error, got %v", err)
		}
	})

	t.Run("rejects an invalid asset ID", func(t *testing.T) {
		req := validCreateRequest()
		req.AssetID = "not-a-uuid"

		if err := validation.ValidateCreateTransaction(req); err == nil {
			t.Error("Expected error for invalid asset ID")
		}
	})

	tests := []struct {
		name   string
		mutate func(*request.CreateTransactionRequest)
		field  string
	}{
		{"rejects empty date", func(r *request.CreateTransactionRequest) { r.Date = "" }, "date"},
		{"rejects malformed date", func(r *request.CreateTransactionRequest) { r.Date = "15-03-2024" }, "date"},
		{"rejects empty type", func(r *request.CreateTransactionRequest) { r.Type = "" }, "transactionType"},
		{"rejects unknown type", func(r *request.CreateTransactionRequest) { r.Type = "dividend" }, "transactionType"},
		{"rejects zero units", func(r *request.CreateTransactionRequest) { r.Units = 0 }, "units"},
		{"rejects negative units", func(r *request.CreateTransactionRequest) { r.Units = -1 }, "units"},
		{"rejects zero amount", func(r *request.CreateTransactionRequest) { r.TotalAmount = 0 }, "totalAmount"},
		{"rejects negative amount", func(r *request.CreateTransactionRequest) { r.TotalAmount = -100 }, "totalAmount"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validCreateRequest()
			tt.mutate(&req)

			err := validation.ValidateCreateTransaction(req)
			if err == nil {
				t.Fatal("Expected validation error, got nil")
			}

			var vErr *validation.Error
			if !errors.As(err, &vErr) {
				t.Fatalf("Expected *validation.Error, got %T", err)
			}
			if _, ok := vErr.Fields[tt.field]; !ok {
				t.Errorf("Expected error on field %q, got %v", tt.field, vErr.Fields)
			}
		})
	}
}

// TestValidateUpdateTransaction tests that optional fields validate when set.
func TestValidateUpdateTransaction(t *testing.T) {
	t.Run("accepts an empty update", func(t *testing.T) {
		if err := validation.ValidateUpdateTransaction(request.UpdateTransactionRequest{}); err != nil {
			t.Errorf("Expected no error, got %v", err)
		}
	})

	t.Run("rejects a provided invalid field", func(t *testing.T) {
		badType := "swap"
		err := validation.ValidateUpdateTransaction(request.UpdateTransactionRequest{Type: &badType})
		if err == nil {
			t.Error("Expected error for unknown type")
		}
	})

	t.Run("accepts provided valid fields", func(t *testing.T) {
		date := "2024-06-01"
		units := 2.5
		err := validation.ValidateUpdateTransaction(request.UpdateTransactionRequest{Date: &date, Units: &units})
		if err != nil {
			t.Errorf("Expected no error, got %v", err)
		}
	})
}
