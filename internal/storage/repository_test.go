package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/raj-kalepu/SpendWise/internal/core"
	"github.com/raj-kalepu/SpendWise/internal/records"
)

func newTestRepository(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "spendwise.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func mustDate(t *testing.T, s string) core.Date {
	t.Helper()
	d, err := core.ParseDate(s)
	if err != nil {
		t.Fatalf("ParseDate(%q): %v", s, err)
	}
	return d
}

func TestTransactionLifecycle(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	created, err := repo.CreateTransaction(ctx, core.Transaction{
		Amount:      core.Money{Cents: 5075},
		Category:    "Food",
		Type:        core.Expense,
		Date:        mustDate(t, "2025-01-15"),
		Description: "Groceries",
	})
	if err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected generated id")
	}
	if created.CreatedAt.IsZero() {
		t.Fatal("expected CreatedAt to be set")
	}

	list, err := repo.ListTransactions(ctx)
	if err != nil {
		t.Fatalf("ListTransactions: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(list))
	}
	got := list[0]
	if got.Amount.Cents != 5075 || got.Category != "Food" || got.Type != core.Expense {
		t.Errorf("unexpected transaction: %+v", got)
	}
	if got.Date.Storage() != "2025-01-15" {
		t.Errorf("date = %q, want 2025-01-15", got.Date.Storage())
	}

	created.Amount = core.Money{Cents: 6000}
	created.Description = "Groceries and snacks"
	if _, err := repo.UpdateTransaction(ctx, created); err != nil {
		t.Fatalf("UpdateTransaction: %v", err)
	}
	list, _ = repo.ListTransactions(ctx)
	if list[0].Amount.Cents != 6000 || list[0].Description != "Groceries and snacks" {
		t.Errorf("update not persisted: %+v", list[0])
	}

	if err := repo.DeleteTransaction(ctx, created.ID); err != nil {
		t.Fatalf("DeleteTransaction: %v", err)
	}
	list, _ = repo.ListTransactions(ctx)
	if len(list) != 0 {
		t.Fatalf("expected empty list after delete, got %d", len(list))
	}
}

func TestTransactionsOrderedByDateDesc(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	for _, day := range []string{"2025-01-10", "2025-01-20", "2025-01-05"} {
		_, err := repo.CreateTransaction(ctx, core.Transaction{
			Amount:    core.Money{Cents: 1000},
			Category:  "Misc",
			Type:      core.Expense,
			Date:      mustDate(t, day),
			CreatedAt: time.Now().UTC(),
		})
		if err != nil {
			t.Fatalf("CreateTransaction: %v", err)
		}
	}

	list, err := repo.ListTransactions(ctx)
	if err != nil {
		t.Fatalf("ListTransactions: %v", err)
	}
	want := []string{"2025-01-20", "2025-01-10", "2025-01-05"}
	for i, w := range want {
		if got := list[i].Date.Storage(); got != w {
			t.Errorf("list[%d].Date = %s, want %s", i, got, w)
		}
	}
}

func TestBudgetLifecycle(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	created, err := repo.CreateBudget(ctx, core.Budget{Category: "Food", Limit: core.Money{Cents: 30000}})
	if err != nil {
		t.Fatalf("CreateBudget: %v", err)
	}

	created.Limit = core.Money{Cents: 35000}
	if _, err := repo.UpdateBudget(ctx, created); err != nil {
		t.Fatalf("UpdateBudget: %v", err)
	}

	list, err := repo.ListBudgets(ctx)
	if err != nil {
		t.Fatalf("ListBudgets: %v", err)
	}
	if len(list) != 1 || list[0].Limit.Cents != 35000 {
		t.Fatalf("unexpected budgets: %+v", list)
	}

	if err := repo.DeleteBudget(ctx, created.ID); err != nil {
		t.Fatalf("DeleteBudget: %v", err)
	}
}

func TestZeroLimitBudgetPersists(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	if _, err := repo.CreateBudget(ctx, core.Budget{Category: "Buffer", Limit: core.Money{}}); err != nil {
		t.Fatalf("CreateBudget: %v", err)
	}
	list, err := repo.ListBudgets(ctx)
	if err != nil {
		t.Fatalf("ListBudgets: %v", err)
	}
	if len(list) != 1 || list[0].Limit.Cents != 0 {
		t.Fatalf("unexpected budgets: %+v", list)
	}
}

func TestLoanLifecycle(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	created, err := repo.CreateLoan(ctx, core.Loan{
		Lender:       "Bank B",
		Amount:       core.Money{Cents: 50000},
		InterestRate: 4.5,
		DueDate:      mustDate(t, "2025-06-01"),
		Status:       core.Unpaid,
	})
	if err != nil {
		t.Fatalf("CreateLoan: %v", err)
	}

	created.Status = created.Status.Toggle()
	if _, err := repo.UpdateLoan(ctx, created); err != nil {
		t.Fatalf("UpdateLoan: %v", err)
	}

	list, err := repo.ListLoans(ctx)
	if err != nil {
		t.Fatalf("ListLoans: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 loan, got %d", len(list))
	}
	if list[0].Status != core.Paid || list[0].InterestRate != 4.5 {
		t.Errorf("unexpected loan: %+v", list[0])
	}

	if err := repo.DeleteLoan(ctx, created.ID); err != nil {
		t.Fatalf("DeleteLoan: %v", err)
	}
}

func TestMissingRecordsReturnNotFound(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	if err := repo.DeleteTransaction(ctx, "nope"); !errors.Is(err, records.ErrNotFound) {
		t.Errorf("DeleteTransaction error = %v, want ErrNotFound", err)
	}
	if _, err := repo.UpdateBudget(ctx, core.Budget{ID: "nope", Category: "Food"}); !errors.Is(err, records.ErrNotFound) {
		t.Errorf("UpdateBudget error = %v, want ErrNotFound", err)
	}
	if err := repo.DeleteLoan(ctx, "nope"); !errors.Is(err, records.ErrNotFound) {
		t.Errorf("DeleteLoan error = %v, want ErrNotFound", err)
	}
	if _, err := repo.GetProfile(ctx); !errors.Is(err, records.ErrNotFound) {
		t.Errorf("GetProfile error = %v, want ErrNotFound", err)
	}
}

func TestProfileUpsert(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	first := core.UserProfile{Username: "raj", Email: "raj@example.com", Currency: "INR"}
	if err := repo.SaveProfile(ctx, first); err != nil {
		t.Fatalf("SaveProfile: %v", err)
	}

	got, err := repo.GetProfile(ctx)
	if err != nil {
		t.Fatalf("GetProfile: %v", err)
	}
	if got != first {
		t.Errorf("profile = %+v, want %+v", got, first)
	}

	second := first
	second.Currency = "USD"
	if err := repo.SaveProfile(ctx, second); err != nil {
		t.Fatalf("SaveProfile (update): %v", err)
	}
	got, _ = repo.GetProfile(ctx)
	if got.Currency != "USD" {
		t.Errorf("currency = %q, want USD", got.Currency)
	}
}
