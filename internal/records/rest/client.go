package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/raj-kalepu/SpendWise/internal/core"
	"github.com/raj-kalepu/SpendWise/internal/records"
)

// Client is the Repository backed by the remote SpendWise REST API. Ids on
// the wire are numeric; amounts are decimal strings; loan status is a
// "paid" boolean; dates are canonical YYYY-MM-DD.
type Client struct {
	baseURL string
	http    *http.Client
}

// APIError is a non-2xx response from the remote API.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api returned %d: %s", e.Status, e.Body)
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

var _ records.Repository = (*Client)(nil)

type transactionDTO struct {
	ID          json.Number `json:"id,omitempty"`
	Type        string      `json:"type"`
	Description string      `json:"description"`
	Category    string      `json:"category"`
	Amount      string      `json:"amount"`
	Date        string      `json:"date"`
	CreatedAt   string      `json:"created_at,omitempty"`
}

type budgetDTO struct {
	ID       json.Number `json:"id,omitempty"`
	Category string      `json:"category"`
	Amount   string      `json:"amount"`
}

type loanDTO struct {
	ID          json.Number `json:"id,omitempty"`
	Lender      string      `json:"lender"`
	Amount      string      `json:"amount"`
	Interest    string      `json:"interest_rate,omitempty"`
	DueDate     string      `json:"due_date"`
	Paid        bool        `json:"paid"`
	Description string      `json:"description,omitempty"`
	CreatedAt   string      `json:"created_at,omitempty"`
}

type profileDTO struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Mobile   string `json:"mobile"`
	Currency string `json:"currency"`
}

func (c *Client) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	var dtos []transactionDTO
	if err := c.do(ctx, http.MethodGet, "/api/transactions/", nil, &dtos); err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	out := make([]core.Transaction, 0, len(dtos))
	for _, d := range dtos {
		t, err := d.toCore()
		if err != nil {
			return nil, fmt.Errorf("decode transaction %s: %w", d.ID, err)
		}
		out = append(out, t)
	}
	return out, nil
}

func (c *Client) CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	var created transactionDTO
	if err := c.do(ctx, http.MethodPost, "/api/transactions/", transactionToDTO(t), &created); err != nil {
		return core.Transaction{}, fmt.Errorf("create transaction: %w", err)
	}
	return created.toCore()
}

func (c *Client) UpdateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	var updated transactionDTO
	path := "/api/transactions/" + url.PathEscape(t.ID) + "/"
	if err := c.do(ctx, http.MethodPut, path, transactionToDTO(t), &updated); err != nil {
		return core.Transaction{}, fmt.Errorf("update transaction: %w", err)
	}
	return updated.toCore()
}

func (c *Client) DeleteTransaction(ctx context.Context, id string) error {
	if err := c.do(ctx, http.MethodDelete, "/api/transactions/"+url.PathEscape(id)+"/", nil, nil); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	return nil
}

func (c *Client) ListBudgets(ctx context.Context) ([]core.Budget, error) {
	var dtos []budgetDTO
	if err := c.do(ctx, http.MethodGet, "/api/budgets/", nil, &dtos); err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	out := make([]core.Budget, 0, len(dtos))
	for _, d := range dtos {
		b, err := d.toCore()
		if err != nil {
			return nil, fmt.Errorf("decode budget %s: %w", d.ID, err)
		}
		out = append(out, b)
	}
	return out, nil
}

func (c *Client) CreateBudget(ctx context.Context, b core.Budget) (core.Budget, error) {
	var created budgetDTO
	if err := c.do(ctx, http.MethodPost, "/api/budgets/", budgetToDTO(b), &created); err != nil {
		return core.Budget{}, fmt.Errorf("create budget: %w", err)
	}
	return created.toCore()
}

func (c *Client) UpdateBudget(ctx context.Context, b core.Budget) (core.Budget, error) {
	var updated budgetDTO
	path := "/api/budgets/" + url.PathEscape(b.ID) + "/"
	if err := c.do(ctx, http.MethodPut, path, budgetToDTO(b), &updated); err != nil {
		return core.Budget{}, fmt.Errorf("update budget: %w", err)
	}
	return updated.toCore()
}

func (c *Client) DeleteBudget(ctx context.Context, id string) error {
	if err := c.do(ctx, http.MethodDelete, "/api/budgets/"+url.PathEscape(id)+"/", nil, nil); err != nil {
		return fmt.Errorf("delete budget: %w", err)
	}
	return nil
}

func (c *Client) ListLoans(ctx context.Context) ([]core.Loan, error) {
	var dtos []loanDTO
	if err := c.do(ctx, http.MethodGet, "/api/loans/", nil, &dtos); err != nil {
		return nil, fmt.Errorf("list loans: %w", err)
	}
	out := make([]core.Loan, 0, len(dtos))
	for _, d := range dtos {
		l, err := d.toCore()
		if err != nil {
			return nil, fmt.Errorf("decode loan %s: %w", d.ID, err)
		}
		out = append(out, l)
	}
	return out, nil
}

func (c *Client) CreateLoan(ctx context.Context, l core.Loan) (core.Loan, error) {
	var created loanDTO
	if err := c.do(ctx, http.MethodPost, "/api/loans/", loanToDTO(l), &created); err != nil {
		return core.Loan{}, fmt.Errorf("create loan: %w", err)
	}
	return created.toCore()
}

func (c *Client) UpdateLoan(ctx context.Context, l core.Loan) (core.Loan, error) {
	var updated loanDTO
	path := "/api/loans/" + url.PathEscape(l.ID) + "/"
	if err := c.do(ctx, http.MethodPut, path, loanToDTO(l), &updated); err != nil {
		return core.Loan{}, fmt.Errorf("update loan: %w", err)
	}
	return updated.toCore()
}

func (c *Client) DeleteLoan(ctx context.Context, id string) error {
	if err := c.do(ctx, http.MethodDelete, "/api/loans/"+url.PathEscape(id)+"/", nil, nil); err != nil {
		return fmt.Errorf("delete loan: %w", err)
	}
	return nil
}

func (c *Client) GetProfile(ctx context.Context) (core.UserProfile, error) {
	var dto profileDTO
	if err := c.do(ctx, http.MethodGet, "/api/profile/", nil, &dto); err != nil {
		return core.UserProfile{}, fmt.Errorf("get profile: %w", err)
	}
	return core.UserProfile(dto), nil
}

func (c *Client) SaveProfile(ctx context.Context, p core.UserProfile) error {
	if err := c.do(ctx, http.MethodPut, "/api/profile/", profileDTO(p), nil); err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}

// do performs one JSON round trip. A 404 is mapped to records.ErrNotFound
// so callers can trigger a resync; any other non-2xx status becomes an
// APIError.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("call api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return records.ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &APIError{Status: resp.StatusCode, Body: strings.TrimSpace(string(snippet))}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (d transactionDTO) toCore() (core.Transaction, error) {
	cents, err := core.ParseDecimalToCents(d.Amount)
	if err != nil {
		return core.Transaction{}, err
	}
	date, err := core.ParseDate(d.Date)
	if err != nil {
		return core.Transaction{}, err
	}
	t := core.Transaction{
		ID:          d.ID.String(),
		Amount:      core.Money{Cents: cents},
		Category:    d.Category,
		Type:        core.TransactionType(d.Type),
		Date:        date,
		Description: d.Description,
	}
	if d.CreatedAt != "" {
		if created, err := time.Parse(time.RFC3339, d.CreatedAt); err == nil {
			t.CreatedAt = created
		}
	}
	return t, nil
}

func transactionToDTO(t core.Transaction) transactionDTO {
	return transactionDTO{
		Type:        string(t.Type),
		Description: t.Description,
		Category:    t.Category,
		Amount:      t.Amount.Decimal(),
		Date:        t.Date.Storage(),
	}
}

func (d budgetDTO) toCore() (core.Budget, error) {
	cents, err := core.ParseLimitToCents(d.Amount)
	if err != nil {
		return core.Budget{}, err
	}
	return core.Budget{
		ID:       d.ID.String(),
		Category: d.Category,
		Limit:    core.Money{Cents: cents},
	}, nil
}

func budgetToDTO(b core.Budget) budgetDTO {
	return budgetDTO{
		Category: b.Category,
		Amount:   b.Limit.Decimal(),
	}
}

func (d loanDTO) toCore() (core.Loan, error) {
	cents, err := core.ParseDecimalToCents(d.Amount)
	if err != nil {
		return core.Loan{}, err
	}
	due, err := core.ParseDate(d.DueDate)
	if err != nil {
		return core.Loan{}, err
	}
	status := core.Unpaid
	if d.Paid {
		status = core.Paid
	}
	var rate float64
	if d.Interest != "" {
		rate, err = strconv.ParseFloat(d.Interest, 64)
		if err != nil {
			return core.Loan{}, core.ErrInvalidInterestRate
		}
	}
	return core.Loan{
		ID:           d.ID.String(),
		Lender:       d.Lender,
		Amount:       core.Money{Cents: cents},
		InterestRate: rate,
		DueDate:      due,
		Status:       status,
		Description:  d.Description,
	}, nil
}

func loanToDTO(l core.Loan) loanDTO {
	d := loanDTO{
		Lender:      l.Lender,
		Amount:      l.Amount.Decimal(),
		DueDate:     l.DueDate.Storage(),
		Paid:        l.Status == core.Paid,
		Description: l.Description,
	}
	if l.InterestRate != 0 {
		d.Interest = strconv.FormatFloat(l.InterestRate, 'f', -1, 64)
	}
	return d
}
