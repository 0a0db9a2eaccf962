package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

const (
	Weekly  BudgetPeriod = "weekly"
	Monthly BudgetPeriod = "monthly"
	Yearly  BudgetPeriod = "yearly"
)

// DateLayout is the calendar-date form used for Transaction.Date on disk.
const DateLayout = "2006-01-02"

type (
	TransactionType string

	BudgetPeriod string

	// Date is a calendar date without time of day, stored at UTC midnight.
	Date struct {
		time.Time
	}

	Transaction struct {
		ID          string          `json:"id"`
		Type        TransactionType `json:"type"`
		Amount      Money           `json:"amount"`
		Category    string          `json:"category"`
		Description string          `json:"description"`
		Date        Date            `json:"date"`
		CreatedAt   time.Time       `json:"createdAt"`
	}

	Budget struct {
		ID        string       `json:"id"`
		Category  string       `json:"category"`
		Limit     Money        `json:"limit"`
		Period    BudgetPeriod `json:"period"`
		Color     string       `json:"color"`
		CreatedAt time.Time    `json:"createdAt"`
	}

	// TransactionInput is a transaction as submitted by a caller, before an
	// id and creation time are assigned.
	TransactionInput struct {
		Type        TransactionType `json:"type" validate:"required,oneof=income expense"`
		Amount      Money           `json:"amount" validate:"gt=0"`
		Category    string          `json:"category" validate:"required"`
		Description string          `json:"description" validate:"required,max=200"`
		Date        Date            `json:"date" validate:"required"`
	}

	BudgetInput struct {
		Category string       `json:"category" validate:"required"`
		Limit    Money        `json:"limit" validate:"gt=0"`
		Period   BudgetPeriod `json:"period" validate:"required,oneof=weekly monthly yearly"`
		Color    string       `json:"color"`
	}
)

var (
	ErrInvalidDay   = errors.New("invalid day")
	ErrInvalidMonth = errors.New("invalid month")
	ErrZeroDate     = errors.New("date cannot be zero")
)

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf returns the calendar date of t in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, int(m), d)
}

// ParseDate accepts "YYYY-MM-DD" and, for older records, a full RFC 3339
// timestamp whose date portion is kept.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(DateLayout, s); err == nil {
		return Date{Time: t}, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return Date{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return DateOf(t), nil
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrZeroDate
	}
	_, month, day := d.Date()
	if day < 1 || day > 31 {
		return ErrInvalidDay
	}
	if month < 1 || month > 12 {
		return ErrInvalidMonth
	}
	return nil
}

// AddDays returns the date n calendar days later (earlier when n < 0).
func (d Date) AddDays(n int) Date {
	return Date{Time: d.Time.AddDate(0, 0, n)}
}

// Within reports whether d lies in [from, to], both ends inclusive.
func (d Date) Within(from, to Date) bool {
	return !d.Before(from.Time) && !d.After(to.Time)
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	if s == "" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// MonthBounds returns the first and last calendar day of the month containing now.
func MonthBounds(now time.Time) (first, last Date) {
	y, m, _ := now.Date()
	first = NewDate(y, int(m), 1)
	last = Date{Time: first.AddDate(0, 1, -1)}
	return first, last
}

func (t TransactionType) IsValid() bool {
	return t == Income || t == Expense
}

func (p BudgetPeriod) IsValid() bool {
	switch p {
	case Weekly, Monthly, Yearly:
		return true
	default:
		return false
	}
}

// Normalize trims the free-text fields of the input.
func (in TransactionInput) Normalize() TransactionInput {
	in.Category = strings.TrimSpace(in.Category)
	in.Description = strings.TrimSpace(in.Description)
	return in
}

func (in BudgetInput) Normalize() BudgetInput {
	in.Category = strings.TrimSpace(in.Category)
	in.Color = strings.TrimSpace(in.Color)
	return in
}

// NewTransaction stamps a validated input with its identity.
func NewTransaction(id string, in TransactionInput, createdAt time.Time) Transaction {
	return Transaction{
		ID:          id,
		Type:        in.Type,
		Amount:      in.Amount,
		Category:    in.Category,
		Description: in.Description,
		Date:        in.Date,
		CreatedAt:   createdAt,
	}
}

func NewBudget(id string, in BudgetInput, createdAt time.Time) Budget {
	return Budget{
		ID:        id,
		Category:  in.Category,
		Limit:     in.Limit,
		Period:    in.Period,
		Color:     in.Color,
		CreatedAt: createdAt,
	}
}
