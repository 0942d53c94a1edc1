package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/raj-kalepu/SpendWise/internal/core"
	applog "github.com/raj-kalepu/SpendWise/internal/log"
)

const summaryCacheKey = "summary"

// invalidateViews drops cached dashboard views after a mutation.
func (s *Server) invalidateViews() {
	s.summaryCache.Purge()
}

// --- wire types ---

type transactionJSON struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Amount      string    `json:"amount"`
	Date        string    `json:"date"`
	CreatedAt   time.Time `json:"created_at"`
}

type transactionRequest struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Amount      string `json:"amount"`
	Date        string `json:"date"`
}

type budgetJSON struct {
	ID       string `json:"id"`
	Category string `json:"category"`
	Amount   string `json:"amount"`
}

type budgetRequest struct {
	Category string `json:"category"`
	Amount   string `json:"amount"`
}

type loanJSON struct {
	ID           string  `json:"id"`
	Lender       string  `json:"lender"`
	Amount       string  `json:"amount"`
	InterestRate float64 `json:"interest_rate"`
	DueDate      string  `json:"due_date"`
	Paid         bool    `json:"paid"`
	Description  string  `json:"description"`
}

type loanRequest struct {
	Lender       string  `json:"lender"`
	Amount       string  `json:"amount"`
	InterestRate float64 `json:"interest_rate"`
	DueDate      string  `json:"due_date"`
	Paid         bool    `json:"paid"`
	Description  string  `json:"description"`
}

type profileJSON struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Mobile   string `json:"mobile"`
	Currency string `json:"currency"`
}

type categoryAmountJSON struct {
	Category string `json:"category"`
	Amount   string `json:"amount"`
}

type monthBucketJSON struct {
	Year    int    `json:"year"`
	Month   int    `json:"month"`
	Income  string `json:"income"`
	Expense string `json:"expense"`
}

type alertJSON struct {
	Kind     string `json:"kind"`
	Category string `json:"category,omitempty"`
	Spent    string `json:"spent,omitempty"`
	Limit    string `json:"limit,omitempty"`
	Overage  string `json:"overage,omitempty"`
	Lender   string `json:"lender,omitempty"`
	Amount   string `json:"amount,omitempty"`
	DueDate  string `json:"due_date,omitempty"`
}

type summaryJSON struct {
	Currency         string               `json:"currency"`
	TotalIncome      string               `json:"total_income"`
	TotalExpense     string               `json:"total_expense"`
	Balance          string               `json:"balance"`
	PerCategorySpend []categoryAmountJSON `json:"per_category_spend"`
	MonthlyBuckets   []monthBucketJSON    `json:"monthly_buckets"`
	Alerts           []alertJSON          `json:"alerts"`
}

func toTransactionJSON(t core.Transaction) transactionJSON {
	return transactionJSON{
		ID:          t.ID,
		Type:        string(t.Type),
		Description: t.Description,
		Category:    t.Category,
		Amount:      t.Amount.Decimal(),
		Date:        t.Date.Storage(),
		CreatedAt:   t.CreatedAt,
	}
}

func toBudgetJSON(b core.Budget) budgetJSON {
	return budgetJSON{
		ID:       b.ID,
		Category: b.Category,
		Amount:   b.Limit.Decimal(),
	}
}

func toLoanJSON(l core.Loan) loanJSON {
	return loanJSON{
		ID:           l.ID,
		Lender:       l.Lender,
		Amount:       l.Amount.Decimal(),
		InterestRate: l.InterestRate,
		DueDate:      l.DueDate.Storage(),
		Paid:         l.Status == core.Paid,
		Description:  l.Description,
	}
}

func toAlertJSON(a core.Alert) alertJSON {
	out := alertJSON{Kind: string(a.Kind)}
	switch a.Kind {
	case core.AlertDueSoon:
		out.Lender = a.Lender
		out.Amount = a.Amount.Decimal()
		out.DueDate = a.DueDate.Storage()
	default:
		out.Category = a.Category
		out.Spent = a.Spent.Decimal()
		out.Limit = a.Limit.Decimal()
		if a.Kind == core.AlertOverrun {
			out.Overage = a.Overage.Decimal()
		}
	}
	return out
}

func (r transactionRequest) toCore() (core.Transaction, error) {
	cents, err := core.ParseDecimalToCents(r.Amount)
	if err != nil {
		return core.Transaction{}, err
	}
	date, err := parseRequestDate(r.Date)
	if err != nil {
		return core.Transaction{}, err
	}
	return core.Transaction{
		Type:        core.TransactionType(r.Type),
		Description: sanitizeInput(r.Description),
		Category:    sanitizeInput(r.Category),
		Amount:      core.Money{Cents: cents},
		Date:        date,
	}, nil
}

func (r budgetRequest) toCore() (core.Budget, error) {
	cents, err := core.ParseLimitToCents(r.Amount)
	if err != nil {
		return core.Budget{}, err
	}
	return core.Budget{
		Category: sanitizeInput(r.Category),
		Limit:    core.Money{Cents: cents},
	}, nil
}

func (r loanRequest) toCore() (core.Loan, error) {
	cents, err := core.ParseDecimalToCents(r.Amount)
	if err != nil {
		return core.Loan{}, err
	}
	date, err := parseRequestDate(r.DueDate)
	if err != nil {
		return core.Loan{}, err
	}
	status := core.Unpaid
	if r.Paid {
		status = core.Paid
	}
	return core.Loan{
		Lender:       sanitizeInput(r.Lender),
		Amount:       core.Money{Cents: cents},
		InterestRate: r.InterestRate,
		DueDate:      date,
		Status:       status,
		Description:  sanitizeInput(r.Description),
	}, nil
}

// --- summary ---

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	view, cached := s.summaryCache.Get(summaryCacheKey)
	if !cached {
		view = s.ledger.Summary(time.Now())
		s.summaryCache.Set(summaryCacheKey, view)
	}

	out := summaryJSON{
		Currency:         view.Currency,
		TotalIncome:      view.TotalIncome,
		TotalExpense:     view.TotalExpense,
		Balance:          view.Balance,
		PerCategorySpend: make([]categoryAmountJSON, 0, len(view.Summary.PerCategorySpend)),
		MonthlyBuckets:   make([]monthBucketJSON, 0, len(view.Summary.MonthlyBuckets)),
		Alerts:           make([]alertJSON, 0, len(view.Alerts)),
	}
	for _, c := range view.Summary.PerCategorySpend {
		out.PerCategorySpend = append(out.PerCategorySpend, categoryAmountJSON{
			Category: c.Category,
			Amount:   c.Amount.Decimal(),
		})
	}
	for _, b := range view.Summary.MonthlyBuckets {
		out.MonthlyBuckets = append(out.MonthlyBuckets, monthBucketJSON{
			Year:    b.Year,
			Month:   b.Month,
			Income:  b.Income.Decimal(),
			Expense: b.Expense.Decimal(),
		})
	}
	for _, a := range view.Alerts {
		out.Alerts = append(out.Alerts, toAlertJSON(a))
	}

	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleAlerts(w http.ResponseWriter, r *http.Request) {
	alerts := s.ledger.Alerts(time.Now())
	out := make([]alertJSON, 0, len(alerts))
	for _, a := range alerts {
		out = append(out, toAlertJSON(a))
	}
	writeJSON(w, http.StatusOK, out)
}

// --- transactions ---

func filterFromQuery(r *http.Request) (core.TransactionFilter, error) {
	var f core.TransactionFilter

	if v := r.URL.Query().Get("from"); v != "" {
		d, err := parseRequestDate(v)
		if err != nil {
			return f, fmt.Errorf("from: %w", err)
		}
		f.From = d
	}
	if v := r.URL.Query().Get("to"); v != "" {
		d, err := parseRequestDate(v)
		if err != nil {
			return f, fmt.Errorf("to: %w", err)
		}
		f.To = d
	}
	f.Keyword = r.URL.Query().Get("q")

	return f, nil
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	filter, err := filterFromQuery(r)
	if err != nil {
		writeError(w, err)
		return
	}

	txns := s.ledger.FilterTransactions(filter)
	out := make([]transactionJSON, 0, len(txns))
	for _, t := range txns {
		out = append(out, toTransactionJSON(t))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
		return
	}

	t, err := req.toCore()
	if err != nil {
		writeError(w, err)
		return
	}

	created, err := s.ledger.AddTransaction(r.Context(), t)
	if err != nil {
		writeError(w, err)
		return
	}

	s.invalidateViews()
	writeJSON(w, http.StatusCreated, toTransactionJSON(created))
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
		return
	}

	t, err := req.toCore()
	if err != nil {
		writeError(w, err)
		return
	}
	t.ID = r.PathValue("id")

	updated, err := s.ledger.UpdateTransaction(r.Context(), t)
	if err != nil {
		writeError(w, err)
		return
	}

	s.invalidateViews()
	writeJSON(w, http.StatusOK, toTransactionJSON(updated))
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	if err := s.ledger.DeleteTransaction(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	s.invalidateViews()
	w.WriteHeader(http.StatusNoContent)
}

// --- budgets ---

func (s *Server) handleListBudgets(w http.ResponseWriter, r *http.Request) {
	budgets := s.snap.Budgets()
	out := make([]budgetJSON, 0, len(budgets))
	for _, b := range budgets {
		out = append(out, toBudgetJSON(b))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateBudget(w http.ResponseWriter, r *http.Request) {
	var req budgetRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
		return
	}

	b, err := req.toCore()
	if err != nil {
		writeError(w, err)
		return
	}

	created, err := s.ledger.AddBudget(r.Context(), b)
	if err != nil {
		writeError(w, err)
		return
	}

	s.invalidateViews()
	writeJSON(w, http.StatusCreated, toBudgetJSON(created))
}

func (s *Server) handleUpdateBudget(w http.ResponseWriter, r *http.Request) {
	var req budgetRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
		return
	}

	b, err := req.toCore()
	if err != nil {
		writeError(w, err)
		return
	}
	b.ID = r.PathValue("id")

	updated, err := s.ledger.UpdateBudget(r.Context(), b)
	if err != nil {
		writeError(w, err)
		return
	}

	s.invalidateViews()
	writeJSON(w, http.StatusOK, toBudgetJSON(updated))
}

func (s *Server) handleDeleteBudget(w http.ResponseWriter, r *http.Request) {
	if err := s.ledger.DeleteBudget(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	s.invalidateViews()
	w.WriteHeader(http.StatusNoContent)
}

// --- loans ---

func (s *Server) handleListLoans(w http.ResponseWriter, r *http.Request) {
	loans := s.snap.Loans()
	out := make([]loanJSON, 0, len(loans))
	for _, l := range loans {
		out = append(out, toLoanJSON(l))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateLoan(w http.ResponseWriter, r *http.Request) {
	var req loanRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
		return
	}

	l, err := req.toCore()
	if err != nil {
		writeError(w, err)
		return
	}

	created, err := s.ledger.AddLoan(r.Context(), l)
	if err != nil {
		writeError(w, err)
		return
	}

	s.invalidateViews()
	writeJSON(w, http.StatusCreated, toLoanJSON(created))
}

func (s *Server) handleUpdateLoan(w http.ResponseWriter, r *http.Request) {
	var req loanRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
		return
	}

	l, err := req.toCore()
	if err != nil {
		writeError(w, err)
		return
	}
	l.ID = r.PathValue("id")

	updated, err := s.ledger.UpdateLoan(r.Context(), l)
	if err != nil {
		writeError(w, err)
		return
	}

	s.invalidateViews()
	writeJSON(w, http.StatusOK, toLoanJSON(updated))
}

func (s *Server) handleDeleteLoan(w http.ResponseWriter, r *http.Request) {
	if err := s.ledger.DeleteLoan(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	s.invalidateViews()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleToggleLoan(w http.ResponseWriter, r *http.Request) {
	toggled, err := s.ledger.ToggleLoan(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	s.invalidateViews()
	writeJSON(w, http.StatusOK, toLoanJSON(toggled))
}

// --- profile ---

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	profile, ok := s.snap.Profile()
	if !ok {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "not found"})
		return
	}
	writeJSON(w, http.StatusOK, profileJSON{
		Username: profile.Username,
		Email:    profile.Email,
		Mobile:   profile.Mobile,
		Currency: profile.Currency,
	})
}

func (s *Server) handleSaveProfile(w http.ResponseWriter, r *http.Request) {
	var req profileJSON
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
		return
	}

	profile := core.UserProfile{
		Username: sanitizeInput(req.Username),
		Email:    sanitizeInput(req.Email),
		Mobile:   sanitizeInput(req.Mobile),
		Currency: req.Currency,
	}
	if err := s.ledger.SaveProfile(r.Context(), profile); err != nil {
		writeError(w, err)
		return
	}

	s.invalidateViews()
	writeJSON(w, http.StatusOK, req)
}

// --- export ---

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	kind := r.URL.Query().Get("data")
	if kind == "" {
		kind = "transactions"
	}

	applog.FromContext(r.Context()).InfoContext(r.Context(), "Export requested",
		applog.FieldOperation, applog.OpExport,
		"data", kind)

	switch kind {
	case "transactions":
		filter, err := filterFromQuery(r)
		if err != nil {
			writeError(w, err)
			return
		}
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="transactions.csv"`)
		if err := s.ledger.ExportTransactionsCSV(w, filter); err != nil {
			writeError(w, err)
		}
	case "loans":
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="loans.csv"`)
		if err := s.ledger.ExportLoansCSV(w); err != nil {
			writeError(w, err)
		}
	default:
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "unknown export: " + kind})
	}
}
