package services

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/raj-kalepu/SpendWise/internal/core"
	"github.com/raj-kalepu/SpendWise/internal/records"
	"github.com/raj-kalepu/SpendWise/internal/records/memory"
	"github.com/raj-kalepu/SpendWise/internal/store"
)

type publishedEvent struct {
	Entity   string
	Action   string
	RecordID string
}

type fakePublisher struct {
	events []publishedEvent
}

func (f *fakePublisher) PublishRecordChange(ctx context.Context, entity, action, recordID string) error {
	f.events = append(f.events, publishedEvent{Entity: entity, Action: action, RecordID: recordID})
	return nil
}

func newTestService(t *testing.T) (*LedgerService, *fakePublisher) {
	t.Helper()
	repo := memory.New()
	snap := store.New(repo)
	pub := &fakePublisher{}
	svc := NewLedgerService(repo, snap, pub, 0.8)
	if err := snap.Refresh(context.Background()); err != nil {
		t.Fatalf("initial refresh: %v", err)
	}
	return svc, pub
}

func date(t *testing.T, s string) core.Date {
	t.Helper()
	d, err := core.ParseDate(s)
	if err != nil {
		t.Fatalf("ParseDate(%q): %v", s, err)
	}
	return d
}

func TestAddTransactionRefreshesSnapshotAndPublishes(t *testing.T) {
	svc, pub := newTestService(t)
	ctx := context.Background()

	created, err := svc.AddTransaction(ctx, core.Transaction{
		Amount:   core.Money{Cents: 5075},
		Category: "Food",
		Type:     core.Expense,
		Date:     date(t, "2025-01-15"),
	})
	if err != nil {
		t.Fatalf("AddTransaction: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected generated id")
	}

	if got := svc.Store().Transactions(); len(got) != 1 {
		t.Errorf("snapshot has %d transactions, want 1", len(got))
	}

	if len(pub.events) != 1 {
		t.Fatalf("published %d events, want 1", len(pub.events))
	}
	want := publishedEvent{Entity: "transaction", Action: "created", RecordID: created.ID}
	if pub.events[0] != want {
		t.Errorf("event = %+v, want %+v", pub.events[0], want)
	}
}

// ctxAwareRepo fails list calls once the context is done, like the sqlite
// and rest backends do.
type ctxAwareRepo struct {
	records.Repository
}

func (r ctxAwareRepo) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return r.Repository.ListTransactions(ctx)
}

func TestMutationRefreshSurvivesClientDisconnect(t *testing.T) {
	repo := ctxAwareRepo{Repository: memory.New()}
	snap := store.New(repo)
	svc := NewLedgerService(repo, snap, nil, 0.8)
	if err := snap.Refresh(context.Background()); err != nil {
		t.Fatalf("initial refresh: %v", err)
	}

	// The client goes away right after the write; the snapshot must still
	// pick up the new record.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := svc.AddTransaction(ctx, core.Transaction{
		Amount:   core.Money{Cents: 5075},
		Category: "Food",
		Type:     core.Expense,
		Date:     date(t, "2025-01-15"),
	}); err != nil {
		t.Fatalf("AddTransaction: %v", err)
	}

	if got := snap.Transactions(); len(got) != 1 {
		t.Errorf("snapshot has %d transactions after disconnect, want 1", len(got))
	}
}

func TestAddTransactionRejectsInvalidInput(t *testing.T) {
	svc, pub := newTestService(t)

	_, err := svc.AddTransaction(context.Background(), core.Transaction{
		Amount:   core.Money{Cents: 0},
		Category: "Food",
		Type:     core.Expense,
		Date:     date(t, "2025-01-15"),
	})
	if !errors.Is(err, core.ErrInvalidAmount) {
		t.Errorf("error = %v, want ErrInvalidAmount", err)
	}
	if len(pub.events) != 0 {
		t.Errorf("published %d events for a rejected transaction", len(pub.events))
	}
}

func TestAddBudgetRejectsDuplicateCategory(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.AddBudget(ctx, core.Budget{Category: "Food", Limit: core.Money{Cents: 30000}}); err != nil {
		t.Fatalf("AddBudget: %v", err)
	}

	_, err := svc.AddBudget(ctx, core.Budget{Category: "food", Limit: core.Money{Cents: 10000}})
	if !errors.Is(err, core.ErrDuplicateBudget) {
		t.Errorf("error = %v, want ErrDuplicateBudget", err)
	}
}

func TestUpdateBudgetAllowsKeepingOwnCategory(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	food, err := svc.AddBudget(ctx, core.Budget{Category: "Food", Limit: core.Money{Cents: 30000}})
	if err != nil {
		t.Fatalf("AddBudget: %v", err)
	}
	if _, err := svc.AddBudget(ctx, core.Budget{Category: "Transport", Limit: core.Money{Cents: 15000}}); err != nil {
		t.Fatalf("AddBudget: %v", err)
	}

	food.Limit = core.Money{Cents: 40000}
	if _, err := svc.UpdateBudget(ctx, food); err != nil {
		t.Errorf("UpdateBudget keeping category: %v", err)
	}

	food.Category = "Transport"
	if _, err := svc.UpdateBudget(ctx, food); !errors.Is(err, core.ErrDuplicateBudget) {
		t.Errorf("error = %v, want ErrDuplicateBudget", err)
	}
}

func TestToggleLoan(t *testing.T) {
	svc, pub := newTestService(t)
	ctx := context.Background()

	loan, err := svc.AddLoan(ctx, core.Loan{
		Lender:  "Friend A",
		Amount:  core.Money{Cents: 20000},
		DueDate: date(t, "2025-06-01"),
	})
	if err != nil {
		t.Fatalf("AddLoan: %v", err)
	}
	if loan.Status != core.Unpaid {
		t.Fatalf("new loan status = %v, want Unpaid", loan.Status)
	}

	toggled, err := svc.ToggleLoan(ctx, loan.ID)
	if err != nil {
		t.Fatalf("ToggleLoan: %v", err)
	}
	if toggled.Status != core.Paid {
		t.Errorf("status = %v, want Paid", toggled.Status)
	}

	if _, err := svc.ToggleLoan(ctx, "missing"); !errors.Is(err, records.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}

	// create + update events
	if len(pub.events) != 2 {
		t.Errorf("published %d events, want 2", len(pub.events))
	}
}

func TestSummaryUsesProfileCurrency(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.AddTransaction(ctx, core.Transaction{
		Amount:   core.Money{Cents: 123456},
		Category: "Salary",
		Type:     core.Income,
		Date:     date(t, "2025-01-01"),
	}); err != nil {
		t.Fatalf("AddTransaction: %v", err)
	}

	view := svc.Summary(time.Now())
	if view.Currency != "INR" {
		t.Errorf("currency = %q, want INR before onboarding", view.Currency)
	}
	if view.TotalIncome != "₹1,234.56" {
		t.Errorf("TotalIncome = %q, want ₹1,234.56", view.TotalIncome)
	}

	if err := svc.SaveProfile(ctx, core.UserProfile{Username: "raj", Currency: "USD"}); err != nil {
		t.Fatalf("SaveProfile: %v", err)
	}

	view = svc.Summary(time.Now())
	if view.Currency != "USD" {
		t.Errorf("currency = %q, want USD", view.Currency)
	}
	if view.TotalIncome != "$1,234.56" {
		t.Errorf("TotalIncome = %q, want $1,234.56", view.TotalIncome)
	}
}

func TestSummaryIncludesAlerts(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.AddBudget(ctx, core.Budget{Category: "Food", Limit: core.Money{Cents: 10000}}); err != nil {
		t.Fatalf("AddBudget: %v", err)
	}
	if _, err := svc.AddTransaction(ctx, core.Transaction{
		Amount:   core.Money{Cents: 15000},
		Category: "Food",
		Type:     core.Expense,
		Date:     date(t, "2025-01-15"),
	}); err != nil {
		t.Fatalf("AddTransaction: %v", err)
	}

	view := svc.Summary(time.Now())
	if len(view.Alerts) != 1 {
		t.Fatalf("alerts = %d, want 1", len(view.Alerts))
	}
	if view.Alerts[0].Kind != core.AlertOverrun {
		t.Errorf("alert kind = %v, want overrun", view.Alerts[0].Kind)
	}
}

func TestExportTransactionsCSV(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.AddTransaction(ctx, core.Transaction{
		Amount:      core.Money{Cents: 5075},
		Category:    "Food",
		Type:        core.Expense,
		Date:        date(t, "2025-01-15"),
		Description: "Groceries",
	}); err != nil {
		t.Fatalf("AddTransaction: %v", err)
	}

	var buf bytes.Buffer
	if err := svc.ExportTransactionsCSV(&buf, core.TransactionFilter{}); err != nil {
		t.Fatalf("ExportTransactionsCSV: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("csv lines = %d, want 2", len(lines))
	}
	if lines[0] != "date,type,category,description,amount" {
		t.Errorf("header = %q", lines[0])
	}
	if lines[1] != "15-01-2025,Expense,Food,Groceries,50.75" {
		t.Errorf("row = %q", lines[1])
	}
}

func TestNilPublisherIsSkipped(t *testing.T) {
	repo := memory.New()
	snap := store.New(repo)
	svc := NewLedgerService(repo, snap, nil, 0.8)

	if _, err := svc.AddTransaction(context.Background(), core.Transaction{
		Amount:   core.Money{Cents: 1000},
		Category: "Misc",
		Type:     core.Expense,
		Date:     date(t, "2025-01-15"),
	}); err != nil {
		t.Fatalf("AddTransaction with nil publisher: %v", err)
	}
}
