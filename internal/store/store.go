// Package store keeps an in-memory snapshot of all records so reads never
// block on the backend. Refresh replaces the snapshot only when every fetch
// succeeds; a failed refresh leaves the last good snapshot in place.
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/raj-kalepu/SpendWise/internal/core"
	applog "github.com/raj-kalepu/SpendWise/internal/log"
	"github.com/raj-kalepu/SpendWise/internal/records"
)

// Snapshot is one consistent view of all records.
type Snapshot struct {
	Transactions []core.Transaction
	Budgets      []core.Budget
	Loans        []core.Loan
	Profile      core.UserProfile
	HasProfile   bool
	RefreshedAt  time.Time
}

// Store holds the current snapshot and the repository it refreshes from.
type Store struct {
	repo records.Repository

	mu   sync.RWMutex
	snap Snapshot
}

func New(repo records.Repository) *Store {
	return &Store{repo: repo}
}

// Refresh fetches all collections concurrently and swaps in the new snapshot.
// A missing profile is not an error, the user simply has not onboarded yet.
// Any other failure aborts the swap and keeps the previous snapshot.
func (s *Store) Refresh(ctx context.Context) error {
	var next Snapshot

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		txns, err := s.repo.ListTransactions(gctx)
		if err != nil {
			return fmt.Errorf("refresh transactions: %w", err)
		}
		next.Transactions = txns
		return nil
	})
	g.Go(func() error {
		budgets, err := s.repo.ListBudgets(gctx)
		if err != nil {
			return fmt.Errorf("refresh budgets: %w", err)
		}
		next.Budgets = budgets
		return nil
	})
	g.Go(func() error {
		loans, err := s.repo.ListLoans(gctx)
		if err != nil {
			return fmt.Errorf("refresh loans: %w", err)
		}
		next.Loans = loans
		return nil
	})
	g.Go(func() error {
		profile, err := s.repo.GetProfile(gctx)
		if errors.Is(err, records.ErrNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("refresh profile: %w", err)
		}
		next.Profile = profile
		next.HasProfile = true
		return nil
	})

	if err := g.Wait(); err != nil {
		slog.WarnContext(ctx, "Snapshot refresh failed, keeping previous snapshot",
			applog.FieldComponent, applog.ComponentStore,
			applog.FieldOperation, applog.OpRefresh,
			applog.FieldError, err)
		return err
	}

	next.RefreshedAt = time.Now().UTC()

	s.mu.Lock()
	s.snap = next
	s.mu.Unlock()

	slog.DebugContext(ctx, "Snapshot refreshed",
		applog.FieldComponent, applog.ComponentStore,
		applog.FieldOperation, applog.OpRefresh,
		"transactions", len(next.Transactions),
		"budgets", len(next.Budgets),
		"loans", len(next.Loans),
		"has_profile", next.HasProfile)

	return nil
}

// Snapshot returns a copy of the current snapshot. Callers may mutate the
// returned slices freely.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := s.snap
	out.Transactions = append([]core.Transaction(nil), s.snap.Transactions...)
	out.Budgets = append([]core.Budget(nil), s.snap.Budgets...)
	out.Loans = append([]core.Loan(nil), s.snap.Loans...)
	return out
}

// Transactions returns a copy of the current transaction list.
func (s *Store) Transactions() []core.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]core.Transaction(nil), s.snap.Transactions...)
}

// Budgets returns a copy of the current budget list.
func (s *Store) Budgets() []core.Budget {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]core.Budget(nil), s.snap.Budgets...)
}

// Loans returns a copy of the current loan list.
func (s *Store) Loans() []core.Loan {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]core.Loan(nil), s.snap.Loans...)
}

// Profile returns the stored profile and whether one exists.
func (s *Store) Profile() (core.UserProfile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.Profile, s.snap.HasProfile
}

// RefreshedAt reports when the snapshot was last replaced. Zero means no
// successful refresh has happened yet.
func (s *Store) RefreshedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.RefreshedAt
}
