package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/raj-kalepu/SpendWise/internal/amqp"
	"github.com/raj-kalepu/SpendWise/internal/core"
	applog "github.com/raj-kalepu/SpendWise/internal/log"
	"github.com/raj-kalepu/SpendWise/internal/records"
	"github.com/raj-kalepu/SpendWise/internal/store"
)

// afterMutationTimeout bounds the post-write snapshot refresh and event
// publish once the request context's cancellation has been dropped.
const afterMutationTimeout = 10 * time.Second

// EventPublisher publishes record change notifications. The AMQP client
// satisfies it; a nil publisher disables events.
type EventPublisher interface {
	PublishRecordChange(ctx context.Context, entity, action, recordID string) error
}

// LedgerService orchestrates record mutations across the repository, the
// snapshot store and the optional event publisher.
type LedgerService struct {
	repo           records.Repository
	store          *store.Store
	events         EventPublisher
	nearLimitRatio float64
}

func NewLedgerService(repo records.Repository, snap *store.Store, events EventPublisher, nearLimitRatio float64) *LedgerService {
	return &LedgerService{
		repo:           repo,
		store:          snap,
		events:         events,
		nearLimitRatio: nearLimitRatio,
	}
}

// Store exposes the snapshot store for read paths.
func (s *LedgerService) Store() *store.Store {
	return s.store
}

// AddTransaction validates and saves a transaction, then refreshes the snapshot
func (s *LedgerService) AddTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}

	created, err := s.repo.CreateTransaction(ctx, t)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("save transaction: %w", err)
	}

	s.afterMutation(ctx, amqp.EntityTransaction, amqp.ActionCreated, created.ID)
	return created, nil
}

// UpdateTransaction validates and replaces an existing transaction
func (s *LedgerService) UpdateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}

	updated, err := s.repo.UpdateTransaction(ctx, t)
	if err != nil {
		return core.Transaction{}, err
	}

	s.afterMutation(ctx, amqp.EntityTransaction, amqp.ActionUpdated, updated.ID)
	return updated, nil
}

// DeleteTransaction removes a transaction
func (s *LedgerService) DeleteTransaction(ctx context.Context, id string) error {
	if err := s.repo.DeleteTransaction(ctx, id); err != nil {
		return err
	}

	s.afterMutation(ctx, amqp.EntityTransaction, amqp.ActionDeleted, id)
	return nil
}

// AddBudget validates and saves a budget. Budget categories are unique, a
// second budget for the same category is rejected.
func (s *LedgerService) AddBudget(ctx context.Context, b core.Budget) (core.Budget, error) {
	if err := b.Validate(); err != nil {
		return core.Budget{}, err
	}

	existing, err := s.repo.ListBudgets(ctx)
	if err != nil {
		return core.Budget{}, fmt.Errorf("list budgets: %w", err)
	}
	for _, other := range existing {
		if strings.EqualFold(other.Category, b.Category) {
			return core.Budget{}, core.ErrDuplicateBudget
		}
	}

	created, err := s.repo.CreateBudget(ctx, b)
	if err != nil {
		return core.Budget{}, fmt.Errorf("save budget: %w", err)
	}

	s.afterMutation(ctx, amqp.EntityBudget, amqp.ActionCreated, created.ID)
	return created, nil
}

// UpdateBudget validates and replaces an existing budget
func (s *LedgerService) UpdateBudget(ctx context.Context, b core.Budget) (core.Budget, error) {
	if err := b.Validate(); err != nil {
		return core.Budget{}, err
	}

	existing, err := s.repo.ListBudgets(ctx)
	if err != nil {
		return core.Budget{}, fmt.Errorf("list budgets: %w", err)
	}
	for _, other := range existing {
		if other.ID != b.ID && strings.EqualFold(other.Category, b.Category) {
			return core.Budget{}, core.ErrDuplicateBudget
		}
	}

	updated, err := s.repo.UpdateBudget(ctx, b)
	if err != nil {
		return core.Budget{}, err
	}

	s.afterMutation(ctx, amqp.EntityBudget, amqp.ActionUpdated, updated.ID)
	return updated, nil
}

// DeleteBudget removes a budget
func (s *LedgerService) DeleteBudget(ctx context.Context, id string) error {
	if err := s.repo.DeleteBudget(ctx, id); err != nil {
		return err
	}

	s.afterMutation(ctx, amqp.EntityBudget, amqp.ActionDeleted, id)
	return nil
}

// AddLoan validates and saves a loan
func (s *LedgerService) AddLoan(ctx context.Context, l core.Loan) (core.Loan, error) {
	if l.Status == "" {
		l.Status = core.Unpaid
	}
	if err := l.Validate(); err != nil {
		return core.Loan{}, err
	}

	created, err := s.repo.CreateLoan(ctx, l)
	if err != nil {
		return core.Loan{}, fmt.Errorf("save loan: %w", err)
	}

	s.afterMutation(ctx, amqp.EntityLoan, amqp.ActionCreated, created.ID)
	return created, nil
}

// UpdateLoan validates and replaces an existing loan
func (s *LedgerService) UpdateLoan(ctx context.Context, l core.Loan) (core.Loan, error) {
	if err := l.Validate(); err != nil {
		return core.Loan{}, err
	}

	updated, err := s.repo.UpdateLoan(ctx, l)
	if err != nil {
		return core.Loan{}, err
	}

	s.afterMutation(ctx, amqp.EntityLoan, amqp.ActionUpdated, updated.ID)
	return updated, nil
}

// DeleteLoan removes a loan
func (s *LedgerService) DeleteLoan(ctx context.Context, id string) error {
	if err := s.repo.DeleteLoan(ctx, id); err != nil {
		return err
	}

	s.afterMutation(ctx, amqp.EntityLoan, amqp.ActionDeleted, id)
	return nil
}

// ToggleLoan flips the paid status of a loan
func (s *LedgerService) ToggleLoan(ctx context.Context, id string) (core.Loan, error) {
	loans, err := s.repo.ListLoans(ctx)
	if err != nil {
		return core.Loan{}, fmt.Errorf("list loans: %w", err)
	}

	for _, l := range loans {
		if l.ID != id {
			continue
		}
		l.Status = l.Status.Toggle()
		updated, err := s.repo.UpdateLoan(ctx, l)
		if err != nil {
			return core.Loan{}, err
		}
		slog.InfoContext(ctx, "Loan status toggled",
			applog.FieldComponent, applog.ComponentLedger,
			applog.FieldOperation, applog.OpToggle,
			applog.FieldRecordID, id,
			"status", string(updated.Status))
		s.afterMutation(ctx, amqp.EntityLoan, amqp.ActionUpdated, id)
		return updated, nil
	}

	return core.Loan{}, records.ErrNotFound
}

// SaveProfile validates and stores the user profile
func (s *LedgerService) SaveProfile(ctx context.Context, p core.UserProfile) error {
	if p.Currency == "" {
		p.Currency = core.DefaultCurrency
	}
	if err := p.Validate(); err != nil {
		return err
	}

	if err := s.repo.SaveProfile(ctx, p); err != nil {
		return fmt.Errorf("save profile: %w", err)
	}

	s.afterMutation(ctx, amqp.EntityProfile, amqp.ActionUpdated, p.Username)
	return nil
}

// SummaryView is the aggregated dashboard payload with totals formatted in
// the profile currency.
type SummaryView struct {
	Summary      core.DerivedSummary
	Currency     string
	TotalIncome  string
	TotalExpense string
	Balance      string
	Alerts       []core.Alert
}

// Summary builds the dashboard view from the current snapshot.
func (s *LedgerService) Summary(now time.Time) SummaryView {
	snap := s.store.Snapshot()

	currency := core.DefaultCurrency
	if snap.HasProfile && snap.Profile.Currency != "" {
		currency = snap.Profile.Currency
	}

	summary := core.Summarize(snap.Transactions)

	return SummaryView{
		Summary:      summary,
		Currency:     currency,
		TotalIncome:  core.FormatCurrency(summary.TotalIncome, currency),
		TotalExpense: core.FormatCurrency(summary.TotalExpense, currency),
		Balance:      core.FormatCurrency(summary.Balance, currency),
		Alerts:       core.EvaluateAlerts(snap.Budgets, snap.Transactions, snap.Loans, now, s.nearLimitRatio),
	}
}

// Alerts evaluates budget and loan alerts against the current snapshot.
func (s *LedgerService) Alerts(now time.Time) []core.Alert {
	snap := s.store.Snapshot()
	return core.EvaluateAlerts(snap.Budgets, snap.Transactions, snap.Loans, now, s.nearLimitRatio)
}

// FilterTransactions applies the filter to the current snapshot.
func (s *LedgerService) FilterTransactions(f core.TransactionFilter) []core.Transaction {
	return core.FilterTransactions(s.store.Transactions(), f)
}

// ExportTransactionsCSV writes the current transactions as CSV. Dates use
// the display format, amounts the plain decimal form.
func (s *LedgerService) ExportTransactionsCSV(w io.Writer, f core.TransactionFilter) error {
	txns := s.FilterTransactions(f)

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"date", "type", "category", "description", "amount"}); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, t := range txns {
		row := []string{
			t.Date.Display(),
			string(t.Type),
			t.Category,
			t.Description,
			t.Amount.Decimal(),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportLoansCSV writes the current loans as CSV.
func (s *LedgerService) ExportLoansCSV(w io.Writer) error {
	loans := s.store.Loans()

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"lender", "amount", "interest_rate", "due_date", "status", "description"}); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, l := range loans {
		row := []string{
			l.Lender,
			l.Amount.Decimal(),
			strconv.FormatFloat(l.InterestRate, 'f', -1, 64),
			l.DueDate.Display(),
			string(l.Status),
			l.Description,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// afterMutation refreshes the snapshot and publishes the change event. Both
// are best effort: the repository write already succeeded. The request
// context's cancellation is dropped so a client disconnect right after the
// write cannot leave the snapshot stale.
func (s *LedgerService) afterMutation(ctx context.Context, entity, action, recordID string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), afterMutationTimeout)
	defer cancel()

	if err := s.store.Refresh(ctx); err != nil {
		slog.ErrorContext(ctx, "Snapshot refresh after mutation failed",
			applog.FieldComponent, applog.ComponentLedger,
			"entity", entity,
			applog.FieldOperation, action,
			applog.FieldRecordID, recordID,
			applog.FieldError, err)
	}

	if s.events == nil {
		return
	}
	if err := s.events.PublishRecordChange(ctx, entity, action, recordID); err != nil {
		slog.ErrorContext(ctx, "Failed to publish record change",
			applog.FieldComponent, applog.ComponentLedger,
			"entity", entity,
			applog.FieldOperation, action,
			applog.FieldRecordID, recordID,
			applog.FieldError, err)
	}
}
