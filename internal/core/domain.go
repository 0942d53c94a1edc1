package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Income  TransactionType = "Income"
	Expense TransactionType = "Expense"

	Paid   LoanStatus = "Paid"
	Unpaid LoanStatus = "Unpaid"
)

type (
	TransactionType string

	LoanStatus string

	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	Transaction struct {
		ID          string
		Amount      Money
		Category    string
		Type        TransactionType
		Date        Date
		Description string
		CreatedAt   time.Time
	}

	Budget struct {
		ID       string
		Category string
		Limit    Money
	}

	Loan struct {
		ID           string
		Lender       string
		Amount       Money
		InterestRate float64 // annual percentage, 0 means not set
		DueDate      Date
		Status       LoanStatus
		Description  string
	}

	UserProfile struct {
		Username string
		Email    string
		Mobile   string
		Currency string
	}
)

var (
	ErrInvalidDate         = errors.New("invalid date")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrInvalidLimit        = errors.New("invalid budget limit")
	ErrInvalidType         = errors.New("invalid transaction type")
	ErrInvalidStatus       = errors.New("invalid loan status")
	ErrInvalidInterestRate = errors.New("invalid interest rate")
	ErrEmptyCategory       = errors.New("empty category")
	ErrEmptyLender         = errors.New("empty lender")
	ErrEmptyUsername       = errors.New("empty username")
	ErrDuplicateBudget     = errors.New("budget for category already exists")
	ErrDescriptionTooLong  = errors.New("description too long (max 255 characters)")
)

// NewDate creates a date-only value from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// Day returns the day of the month
func (d Date) Day() int {
	return d.Time.Day()
}

// Month returns the month as 1-12
func (d Date) Month() int {
	return int(d.Time.Month())
}

// Year returns the year
func (d Date) Year() int {
	return d.Time.Year()
}

func (t TransactionType) Validate() error {
	switch t {
	case Income, Expense:
		return nil
	default:
		return ErrInvalidType
	}
}

func (s LoanStatus) Validate() error {
	switch s {
	case Paid, Unpaid:
		return nil
	default:
		return ErrInvalidStatus
	}
}

// Toggle flips a loan between Paid and Unpaid.
func (s LoanStatus) Toggle() LoanStatus {
	if s == Paid {
		return Unpaid
	}
	return Paid
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (t Transaction) Validate() error {
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(t.Category) == "" {
		return ErrEmptyCategory
	}
	if err := t.Type.Validate(); err != nil {
		return err
	}
	if err := t.Date.Validate(); err != nil {
		return err
	}
	if len(t.Description) > 255 {
		return ErrDescriptionTooLong
	}
	return nil
}

func (b Budget) Validate() error {
	if strings.TrimSpace(b.Category) == "" {
		return ErrEmptyCategory
	}
	// A zero limit is allowed; any spend against it overruns immediately.
	if b.Limit.Cents < 0 {
		return ErrInvalidLimit
	}
	return nil
}

func (l Loan) Validate() error {
	if strings.TrimSpace(l.Lender) == "" {
		return ErrEmptyLender
	}
	if err := l.Amount.Validate(); err != nil {
		return err
	}
	if l.InterestRate < 0 {
		return ErrInvalidInterestRate
	}
	if err := l.DueDate.Validate(); err != nil {
		return err
	}
	if err := l.Status.Validate(); err != nil {
		return err
	}
	if len(l.Description) > 255 {
		return ErrDescriptionTooLong
	}
	return nil
}

func (p UserProfile) Validate() error {
	if strings.TrimSpace(p.Username) == "" {
		return ErrEmptyUsername
	}
	return nil
}
