package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/raj-kalepu/SpendWise/internal/core"
	applog "github.com/raj-kalepu/SpendWise/internal/log"
	"github.com/raj-kalepu/SpendWise/internal/records"

	_ "modernc.org/sqlite"
)

// SQLiteRepository is the local-persistence Repository. It keeps the
// session's records on disk so the app works without the remote API.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

var _ records.Repository = (*SQLiteRepository)(nil)

func (r *SQLiteRepository) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, amount_cents, category, type, date, description, created_at
		FROM transactions
		ORDER BY date DESC, created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	out := make([]core.Transaction, 0)
	for rows.Next() {
		var (
			t       core.Transaction
			dateStr string
			typ     string
		)
		if err := rows.Scan(&t.ID, &t.Amount.Cents, &t.Category, &typ, &dateStr, &t.Description, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		t.Type = core.TransactionType(typ)
		if t.Date, err = core.ParseDate(dateStr); err != nil {
			return nil, fmt.Errorf("transaction %s has bad date %q: %w", t.ID, dateStr, err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	t.ID = uuid.NewString()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO transactions (id, amount_cents, category, type, date, description, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Amount.Cents, t.Category, string(t.Type), t.Date.Storage(), t.Description, t.CreatedAt)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("create transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved",
		applog.FieldComponent, applog.ComponentStorage,
		applog.FieldOperation, applog.OpCreate,
		applog.FieldRecordID, t.ID,
		"type", string(t.Type),
		applog.FieldCategory, t.Category,
		applog.FieldAmountCents, t.Amount.Cents)
	return t, nil
}

func (r *SQLiteRepository) UpdateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE transactions
		SET amount_cents = ?, category = ?, type = ?, date = ?, description = ?
		WHERE id = ?`,
		t.Amount.Cents, t.Category, string(t.Type), t.Date.Storage(), t.Description, t.ID)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("update transaction: %w", err)
	}
	if err := oneRowAffected(res); err != nil {
		return core.Transaction{}, err
	}

	slog.DebugContext(ctx, "Transaction updated",
		applog.FieldComponent, applog.ComponentStorage,
		applog.FieldOperation, applog.OpUpdate,
		applog.FieldRecordID, t.ID)
	return t, nil
}

func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if err := oneRowAffected(res); err != nil {
		return err
	}

	slog.DebugContext(ctx, "Transaction deleted",
		applog.FieldComponent, applog.ComponentStorage,
		applog.FieldOperation, applog.OpDelete,
		applog.FieldRecordID, id)
	return nil
}

func (r *SQLiteRepository) ListBudgets(ctx context.Context) ([]core.Budget, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, category, limit_cents FROM budgets ORDER BY category`)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	defer rows.Close()

	out := make([]core.Budget, 0)
	for rows.Next() {
		var b core.Budget
		if err := rows.Scan(&b.ID, &b.Category, &b.Limit.Cents); err != nil {
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) CreateBudget(ctx context.Context, b core.Budget) (core.Budget, error) {
	b.ID = uuid.NewString()
	_, err := r.db.ExecContext(ctx, `INSERT INTO budgets (id, category, limit_cents) VALUES (?, ?, ?)`,
		b.ID, b.Category, b.Limit.Cents)
	if err != nil {
		return core.Budget{}, fmt.Errorf("create budget: %w", err)
	}
	return b, nil
}

func (r *SQLiteRepository) UpdateBudget(ctx context.Context, b core.Budget) (core.Budget, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE budgets SET category = ?, limit_cents = ? WHERE id = ?`,
		b.Category, b.Limit.Cents, b.ID)
	if err != nil {
		return core.Budget{}, fmt.Errorf("update budget: %w", err)
	}
	if err := oneRowAffected(res); err != nil {
		return core.Budget{}, err
	}
	return b, nil
}

func (r *SQLiteRepository) DeleteBudget(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM budgets WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete budget: %w", err)
	}
	return oneRowAffected(res)
}

func (r *SQLiteRepository) ListLoans(ctx context.Context) ([]core.Loan, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, lender, amount_cents, interest_rate, due_date, status, description
		FROM loans
		ORDER BY due_date, status`)
	if err != nil {
		return nil, fmt.Errorf("list loans: %w", err)
	}
	defer rows.Close()

	out := make([]core.Loan, 0)
	for rows.Next() {
		var (
			l      core.Loan
			dueStr string
			status string
		)
		if err := rows.Scan(&l.ID, &l.Lender, &l.Amount.Cents, &l.InterestRate, &dueStr, &status, &l.Description); err != nil {
			return nil, fmt.Errorf("scan loan: %w", err)
		}
		l.Status = core.LoanStatus(status)
		if l.DueDate, err = core.ParseDate(dueStr); err != nil {
			return nil, fmt.Errorf("loan %s has bad due date %q: %w", l.ID, dueStr, err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) CreateLoan(ctx context.Context, l core.Loan) (core.Loan, error) {
	l.ID = uuid.NewString()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO loans (id, lender, amount_cents, interest_rate, due_date, status, description)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		l.ID, l.Lender, l.Amount.Cents, l.InterestRate, l.DueDate.Storage(), string(l.Status), l.Description)
	if err != nil {
		return core.Loan{}, fmt.Errorf("create loan: %w", err)
	}
	return l, nil
}

func (r *SQLiteRepository) UpdateLoan(ctx context.Context, l core.Loan) (core.Loan, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE loans
		SET lender = ?, amount_cents = ?, interest_rate = ?, due_date = ?, status = ?, description = ?
		WHERE id = ?`,
		l.Lender, l.Amount.Cents, l.InterestRate, l.DueDate.Storage(), string(l.Status), l.Description, l.ID)
	if err != nil {
		return core.Loan{}, fmt.Errorf("update loan: %w", err)
	}
	if err := oneRowAffected(res); err != nil {
		return core.Loan{}, err
	}
	return l, nil
}

func (r *SQLiteRepository) DeleteLoan(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM loans WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete loan: %w", err)
	}
	return oneRowAffected(res)
}

func (r *SQLiteRepository) GetProfile(ctx context.Context) (core.UserProfile, error) {
	var p core.UserProfile
	err := r.db.QueryRowContext(ctx,
		`SELECT username, email, mobile, currency FROM profile WHERE id = 1`).
		Scan(&p.Username, &p.Email, &p.Mobile, &p.Currency)
	if errors.Is(err, sql.ErrNoRows) {
		return core.UserProfile{}, records.ErrNotFound
	}
	if err != nil {
		return core.UserProfile{}, fmt.Errorf("get profile: %w", err)
	}
	return p, nil
}

func (r *SQLiteRepository) SaveProfile(ctx context.Context, p core.UserProfile) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO profile (id, username, email, mobile, currency)
		VALUES (1, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			username = excluded.username,
			email = excluded.email,
			mobile = excluded.mobile,
			currency = excluded.currency`,
		p.Username, p.Email, p.Mobile, p.Currency)
	if err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}

func oneRowAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return records.ErrNotFound
	}
	return nil
}
