package core

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type (
	// ExpenseFields is an expense as submitted, before the ledger assigns an id.
	ExpenseFields struct {
		Amount      decimal.Decimal `json:"amount"`
		Description string          `json:"description"`
		Category    Category        `json:"category"`
		Date        time.Time       `json:"date"`
	}

	Expense struct {
		ID string `json:"id"`
		ExpenseFields
	}

	// IncomeFields is an income as submitted, before the ledger assigns an id.
	IncomeFields struct {
		Amount decimal.Decimal `json:"amount"`
		Source string          `json:"source"`
		Date   time.Time       `json:"date"`
	}

	Income struct {
		ID string `json:"id"`
		IncomeFields
	}
)

const maxTextLength = 200

var (
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidDate      = errors.New("invalid date")
	ErrEmptyDescription = errors.New("empty description")
	ErrEmptySource      = errors.New("empty source")
	ErrTextTooLong      = errors.New("text too long (max 200 characters)")
	ErrUnknownCategory  = errors.New("unknown category")
)

// Validate checks an expense at the draft boundary. The ledger assumes
// fields that reach it have passed this check.
func (e ExpenseFields) Validate() error {
	if err := validateAmount(e.Amount); err != nil {
		return err
	}
	if err := validateText(e.Description, ErrEmptyDescription); err != nil {
		return err
	}
	if !e.Category.Valid() {
		return ErrUnknownCategory
	}
	return validateDate(e.Date)
}

// Validate checks an income at the draft boundary.
func (i IncomeFields) Validate() error {
	if err := validateAmount(i.Amount); err != nil {
		return err
	}
	if err := validateText(i.Source, ErrEmptySource); err != nil {
		return err
	}
	return validateDate(i.Date)
}

func validateAmount(d decimal.Decimal) error {
	if !d.IsPositive() {
		return ErrInvalidAmount
	}
	return nil
}

func validateText(s string, empty error) error {
	if strings.TrimSpace(s) == "" {
		return empty
	}
	if len([]rune(s)) > maxTextLength {
		return ErrTextTooLong
	}
	return nil
}

func validateDate(t time.Time) error {
	if t.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// ParseDate accepts a calendar day (2006-01-02, interpreted as midnight UTC)
// or a full RFC 3339 timestamp.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ErrInvalidDate
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}

// Today returns midnight UTC of the current day.
func Today() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
