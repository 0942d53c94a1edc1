package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/raj-kalepu/SpendWise/internal/core"
	"github.com/raj-kalepu/SpendWise/internal/records"
)

func TestTransactionCRUD(t *testing.T) {
	ctx := context.Background()
	s := New()

	created, err := s.CreateTransaction(ctx, core.Transaction{
		Amount:   core.Money{Cents: 100},
		Category: "Food",
		Type:     core.Expense,
		Date:     core.NewDate(2025, 6, 5),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == "" {
		t.Fatalf("expected assigned id")
	}
	if created.CreatedAt.IsZero() {
		t.Fatalf("expected created timestamp")
	}

	created.Category = "Transport"
	updated, err := s.UpdateTransaction(ctx, created)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Category != "Transport" {
		t.Fatalf("update did not apply")
	}

	list, err := s.ListTransactions(ctx)
	if err != nil || len(list) != 1 {
		t.Fatalf("list: %v len=%d", err, len(list))
	}

	if err := s.DeleteTransaction(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	list, _ = s.ListTransactions(ctx)
	if len(list) != 0 {
		t.Fatalf("expected empty after delete")
	}
}

func TestVanishedIDsReportNotFound(t *testing.T) {
	ctx := context.Background()
	s := New()

	if _, err := s.UpdateTransaction(ctx, core.Transaction{ID: "gone"}); !errors.Is(err, records.ErrNotFound) {
		t.Fatalf("update: expected ErrNotFound, got %v", err)
	}
	if err := s.DeleteTransaction(ctx, "gone"); !errors.Is(err, records.ErrNotFound) {
		t.Fatalf("delete: expected ErrNotFound, got %v", err)
	}
	if _, err := s.UpdateBudget(ctx, core.Budget{ID: "gone"}); !errors.Is(err, records.ErrNotFound) {
		t.Fatalf("budget update: expected ErrNotFound, got %v", err)
	}
	if err := s.DeleteLoan(ctx, "gone"); !errors.Is(err, records.ErrNotFound) {
		t.Fatalf("loan delete: expected ErrNotFound, got %v", err)
	}
}

func TestProfileLifecycle(t *testing.T) {
	ctx := context.Background()
	s := New()

	if _, err := s.GetProfile(ctx); !errors.Is(err, records.ErrNotFound) {
		t.Fatalf("expected ErrNotFound before onboarding, got %v", err)
	}

	p := core.UserProfile{Username: "John Doe", Email: "john.doe@example.com", Currency: "INR"}
	if err := s.SaveProfile(ctx, p); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := s.GetProfile(ctx)
	if err != nil || got != p {
		t.Fatalf("get after save: %v %+v", err, got)
	}
}

func TestListReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := NewSeeded()

	list, _ := s.ListTransactions(ctx)
	if len(list) == 0 {
		t.Fatalf("seeded store is empty")
	}
	list[0].Category = "tampered"

	again, _ := s.ListTransactions(ctx)
	if again[0].Category == "tampered" {
		t.Fatalf("list exposes internal slice")
	}
}

func TestSeededDemoData(t *testing.T) {
	ctx := context.Background()
	s := NewSeeded()

	txns, _ := s.ListTransactions(ctx)
	budgets, _ := s.ListBudgets(ctx)
	loans, _ := s.ListLoans(ctx)
	if len(txns) != 7 || len(budgets) != 3 || len(loans) != 2 {
		t.Fatalf("unexpected seed sizes: %d %d %d", len(txns), len(budgets), len(loans))
	}
}
