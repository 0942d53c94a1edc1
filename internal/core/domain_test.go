package core

import (
	"errors"
	"testing"
	"time"
)

func TestTransactionValidate(t *testing.T) {
	good := Transaction{
		Amount:   Money{Cents: 100},
		Category: "Food",
		Type:     Expense,
		Date:     NewDate(2025, 6, 5),
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	cases := []struct {
		name string
		txn  Transaction
		want error
	}{
		{"zero amount", Transaction{Category: "Food", Type: Expense, Date: NewDate(2025, 6, 5)}, ErrInvalidAmount},
		{"empty category", Transaction{Amount: Money{Cents: 1}, Type: Expense, Date: NewDate(2025, 6, 5)}, ErrEmptyCategory},
		{"bad type", Transaction{Amount: Money{Cents: 1}, Category: "Food", Type: "transfer", Date: NewDate(2025, 6, 5)}, ErrInvalidType},
		{"zero date", Transaction{Amount: Money{Cents: 1}, Category: "Food", Type: Expense}, ErrInvalidDate},
	}
	for _, tc := range cases {
		if err := tc.txn.Validate(); !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
}

func TestBudgetValidate(t *testing.T) {
	if err := (Budget{Category: "Food", Limit: Money{Cents: 0}}).Validate(); err != nil {
		t.Fatalf("zero limit should be valid, got %v", err)
	}
	if err := (Budget{Category: "", Limit: Money{Cents: 100}}).Validate(); !errors.Is(err, ErrEmptyCategory) {
		t.Fatalf("expected ErrEmptyCategory, got %v", err)
	}
	if err := (Budget{Category: "Food", Limit: Money{Cents: -1}}).Validate(); !errors.Is(err, ErrInvalidLimit) {
		t.Fatalf("expected ErrInvalidLimit, got %v", err)
	}
}

func TestLoanValidate(t *testing.T) {
	good := Loan{
		Lender:  "Bank B",
		Amount:  Money{Cents: 50000},
		DueDate: NewDate(2026, 1, 15),
		Status:  Unpaid,
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []struct {
		name string
		loan Loan
		want error
	}{
		{"empty lender", Loan{Amount: Money{Cents: 1}, DueDate: NewDate(2026, 1, 1), Status: Unpaid}, ErrEmptyLender},
		{"zero amount", Loan{Lender: "x", DueDate: NewDate(2026, 1, 1), Status: Unpaid}, ErrInvalidAmount},
		{"negative rate", Loan{Lender: "x", Amount: Money{Cents: 1}, InterestRate: -1, DueDate: NewDate(2026, 1, 1), Status: Unpaid}, ErrInvalidInterestRate},
		{"no due date", Loan{Lender: "x", Amount: Money{Cents: 1}, Status: Unpaid}, ErrInvalidDate},
		{"bad status", Loan{Lender: "x", Amount: Money{Cents: 1}, DueDate: NewDate(2026, 1, 1), Status: "pending"}, ErrInvalidStatus},
	}
	for _, tc := range bads {
		if err := tc.loan.Validate(); !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
}

func TestLoanStatusToggle(t *testing.T) {
	if Paid.Toggle() != Unpaid || Unpaid.Toggle() != Paid {
		t.Fatalf("toggle is not an involution")
	}
}

func TestDateValidate(t *testing.T) {
	if err := NewDate(2025, 12, 31).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (Date{Time: time.Time{}}).Validate(); err == nil {
		t.Fatalf("expected error for zero date")
	}
}
