package records

import (
	"context"
	"errors"

	"github.com/raj-kalepu/SpendWise/internal/core"
)

// ErrNotFound reports an update or delete against an id that is no longer
// in the backing store.
var ErrNotFound = errors.New("record not found")

// Ports for the persistence collaborators. Updates take the full record
// with its id set; the stored record is replaced wholesale, which is how
// the edit forms work.
type (
	TransactionRepository interface {
		ListTransactions(ctx context.Context) ([]core.Transaction, error)
		CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error)
		UpdateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error)
		DeleteTransaction(ctx context.Context, id string) error
	}

	BudgetRepository interface {
		ListBudgets(ctx context.Context) ([]core.Budget, error)
		CreateBudget(ctx context.Context, b core.Budget) (core.Budget, error)
		UpdateBudget(ctx context.Context, b core.Budget) (core.Budget, error)
		DeleteBudget(ctx context.Context, id string) error
	}

	LoanRepository interface {
		ListLoans(ctx context.Context) ([]core.Loan, error)
		CreateLoan(ctx context.Context, l core.Loan) (core.Loan, error)
		UpdateLoan(ctx context.Context, l core.Loan) (core.Loan, error)
		DeleteLoan(ctx context.Context, id string) error
	}

	// ProfileRepository handles the singleton user profile. GetProfile
	// returns ErrNotFound until onboarding has saved one.
	ProfileRepository interface {
		GetProfile(ctx context.Context) (core.UserProfile, error)
		SaveProfile(ctx context.Context, p core.UserProfile) error
	}

	// Repository is the full persistence surface a backend provides.
	Repository interface {
		TransactionRepository
		BudgetRepository
		LoanRepository
		ProfileRepository
	}
)
