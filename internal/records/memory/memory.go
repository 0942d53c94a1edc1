package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/raj-kalepu/SpendWise/internal/core"
	"github.com/raj-kalepu/SpendWise/internal/records"
)

// Store is an in-memory Repository for local sessions and tests. All
// methods copy records on the way in and out so callers never share
// slices with the store.
type Store struct {
	mu         sync.Mutex
	txns       []core.Transaction
	budgets    []core.Budget
	loans      []core.Loan
	profile    core.UserProfile
	hasProfile bool
}

func New() *Store {
	return &Store{}
}

// NewSeeded returns a store preloaded with the demo starter data the app
// ships with for first-time sessions.
func NewSeeded() *Store {
	s := New()
	ctx := context.Background()

	seedTxns := []core.Transaction{
		{Amount: core.Money{Cents: 120000}, Category: "Salary", Type: core.Income, Date: core.NewDate(2025, 6, 1), Description: "Monthly Salary"},
		{Amount: core.Money{Cents: 5075}, Category: "Food", Type: core.Expense, Date: core.NewDate(2025, 6, 5), Description: "Groceries"},
		{Amount: core.Money{Cents: 3000}, Category: "Transport", Type: core.Expense, Date: core.NewDate(2025, 6, 7), Description: "Bus fare"},
		{Amount: core.Money{Cents: 15000}, Category: "Shopping", Type: core.Expense, Date: core.NewDate(2025, 6, 10), Description: "New clothes"},
		{Amount: core.Money{Cents: 80000}, Category: "Rent", Type: core.Expense, Date: core.NewDate(2025, 6, 1), Description: "Monthly Rent"},
		{Amount: core.Money{Cents: 7500}, Category: "Entertainment", Type: core.Expense, Date: core.NewDate(2025, 6, 15), Description: "Movie tickets"},
		{Amount: core.Money{Cents: 20000}, Category: "Salary", Type: core.Income, Date: core.NewDate(2025, 6, 15), Description: "Freelance work"},
	}
	for _, t := range seedTxns {
		s.CreateTransaction(ctx, t)
	}

	seedBudgets := []core.Budget{
		{Category: "Food", Limit: core.Money{Cents: 20000}},
		{Category: "Transport", Limit: core.Money{Cents: 10000}},
		{Category: "Entertainment", Limit: core.Money{Cents: 15000}},
	}
	for _, b := range seedBudgets {
		s.CreateBudget(ctx, b)
	}

	seedLoans := []core.Loan{
		{Lender: "Friend A", Amount: core.Money{Cents: 50000}, InterestRate: 10, DueDate: core.NewDate(2025, 9, 30), Status: core.Unpaid, Description: "Borrowed for emergency"},
		{Lender: "Bank B", Amount: core.Money{Cents: 200000}, InterestRate: 5, DueDate: core.NewDate(2026, 1, 15), Status: core.Unpaid, Description: "Car loan downpayment"},
	}
	for _, l := range seedLoans {
		s.CreateLoan(ctx, l)
	}

	return s
}

var _ records.Repository = (*Store)(nil)

func (s *Store) ListTransactions(_ context.Context) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Transaction(nil), s.txns...), nil
}

func (s *Store) CreateTransaction(_ context.Context, t core.Transaction) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t.ID = uuid.NewString()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}
	s.txns = append(s.txns, t)
	return t, nil
}

func (s *Store) UpdateTransaction(_ context.Context, t core.Transaction) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.txns {
		if s.txns[i].ID == t.ID {
			t.CreatedAt = s.txns[i].CreatedAt
			s.txns[i] = t
			return t, nil
		}
	}
	return core.Transaction{}, records.ErrNotFound
}

func (s *Store) DeleteTransaction(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.txns {
		if s.txns[i].ID == id {
			s.txns = append(s.txns[:i], s.txns[i+1:]...)
			return nil
		}
	}
	return records.ErrNotFound
}

func (s *Store) ListBudgets(_ context.Context) ([]core.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Budget(nil), s.budgets...), nil
}

func (s *Store) CreateBudget(_ context.Context, b core.Budget) (core.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b.ID = uuid.NewString()
	s.budgets = append(s.budgets, b)
	return b, nil
}

func (s *Store) UpdateBudget(_ context.Context, b core.Budget) (core.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.budgets {
		if s.budgets[i].ID == b.ID {
			s.budgets[i] = b
			return b, nil
		}
	}
	return core.Budget{}, records.ErrNotFound
}

func (s *Store) DeleteBudget(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.budgets {
		if s.budgets[i].ID == id {
			s.budgets = append(s.budgets[:i], s.budgets[i+1:]...)
			return nil
		}
	}
	return records.ErrNotFound
}

func (s *Store) ListLoans(_ context.Context) ([]core.Loan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Loan(nil), s.loans...), nil
}

func (s *Store) CreateLoan(_ context.Context, l core.Loan) (core.Loan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l.ID = uuid.NewString()
	s.loans = append(s.loans, l)
	return l, nil
}

func (s *Store) UpdateLoan(_ context.Context, l core.Loan) (core.Loan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.loans {
		if s.loans[i].ID == l.ID {
			s.loans[i] = l
			return l, nil
		}
	}
	return core.Loan{}, records.ErrNotFound
}

func (s *Store) DeleteLoan(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.loans {
		if s.loans[i].ID == id {
			s.loans = append(s.loans[:i], s.loans[i+1:]...)
			return nil
		}
	}
	return records.ErrNotFound
}

func (s *Store) GetProfile(_ context.Context) (core.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hasProfile {
		return core.UserProfile{}, records.ErrNotFound
	}
	return s.profile, nil
}

func (s *Store) SaveProfile(_ context.Context, p core.UserProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profile = p
	s.hasProfile = true
	return nil
}
