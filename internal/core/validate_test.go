package core

import (
	"errors"
	"strings"
	"testing"
)

func validTransactionInput() TransactionInput {
	return TransactionInput{
		Type:        Expense,
		Amount:      Money{Cents: 1250},
		Category:    "Food & Dining",
		Description: "Lunch",
		Date:        NewDate(2025, 3, 2),
	}
}

func TestValidateTransaction(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*TransactionInput)
		wantField string
		wantErr   error
	}{
		{"valid", func(*TransactionInput) {}, "", nil},
		{"missing description", func(in *TransactionInput) { in.Description = "" }, "description", ErrMissingField},
		{"missing category", func(in *TransactionInput) { in.Category = "" }, "category", ErrMissingField},
		{"missing date", func(in *TransactionInput) { in.Date = Date{} }, "date", ErrMissingField},
		{"zero amount", func(in *TransactionInput) { in.Amount = Money{} }, "amount", ErrInvalidAmount},
		{"negative amount", func(in *TransactionInput) { in.Amount = Money{Cents: -5} }, "amount", ErrInvalidAmount},
		{"bad type", func(in *TransactionInput) { in.Type = "transfer" }, "type", ErrInvalidType},
		{"long description", func(in *TransactionInput) { in.Description = strings.Repeat("x", 201) }, "description", ErrDescriptionLong},
		{"unknown category", func(in *TransactionInput) { in.Category = "Groceries" }, "category", ErrUnknownCategory},
		{"category of other type", func(in *TransactionInput) { in.Category = "Salary" }, "category", ErrUnknownCategory},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validTransactionInput()
			tt.mutate(&in)

			err := ValidateTransaction(in, DefaultCategories)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}

			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Field != tt.wantField {
				t.Errorf("field = %q, want %q", verr.Field, tt.wantField)
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error %v does not wrap %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateTransaction_UserMessages(t *testing.T) {
	in := validTransactionInput()
	in.Description = ""
	var verr *ValidationError
	if !errors.As(ValidateTransaction(in, DefaultCategories), &verr) {
		t.Fatal("expected ValidationError")
	}
	if verr.Message != "Please fill in all fields" {
		t.Errorf("message = %q", verr.Message)
	}

	in = validTransactionInput()
	in.Amount = Money{}
	if !errors.As(ValidateTransaction(in, DefaultCategories), &verr) {
		t.Fatal("expected ValidationError")
	}
	if verr.Message != "Please enter a valid amount" {
		t.Errorf("message = %q", verr.Message)
	}
}

func TestValidateBudget(t *testing.T) {
	existing := []Budget{{ID: "b1", Category: "Food & Dining", Limit: Money{Cents: 150000}, Period: Monthly}}
	valid := BudgetInput{Category: "Transportation", Limit: Money{Cents: 100000}, Period: Monthly}

	tests := []struct {
		name    string
		mutate  func(*BudgetInput)
		wantErr error
		wantMsg string
	}{
		{"valid", func(*BudgetInput) {}, nil, ""},
		{"duplicate category", func(in *BudgetInput) { in.Category = "Food & Dining" }, ErrDuplicateBudget, "Budget already exists for this category"},
		{"zero limit", func(in *BudgetInput) { in.Limit = Money{} }, ErrInvalidAmount, "Please enter a valid budget limit"},
		{"missing category", func(in *BudgetInput) { in.Category = "" }, ErrMissingField, "Please fill in all fields"},
		{"bad period", func(in *BudgetInput) { in.Period = "daily" }, ErrInvalidPeriod, ""},
		{"income category", func(in *BudgetInput) { in.Category = "Salary" }, ErrUnknownCategory, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.mutate(&in)

			err := ValidateBudget(in, DefaultCategories, existing)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("got %v, want %v", err, tt.wantErr)
			}
			var verr *ValidationError
			if errors.As(err, &verr) && tt.wantMsg != "" && verr.Message != tt.wantMsg {
				t.Errorf("message = %q, want %q", verr.Message, tt.wantMsg)
			}
		})
	}
}

func TestNormalizeTrims(t *testing.T) {
	in := TransactionInput{Category: "  Shopping ", Description: "\tShoes  "}.Normalize()
	if in.Category != "Shopping" || in.Description != "Shoes" {
		t.Errorf("got %q / %q", in.Category, in.Description)
	}
}
