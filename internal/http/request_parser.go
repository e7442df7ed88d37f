// Package http provides the JSON API server and its handlers.
//
// This file holds the request-side helpers: body decoding, input
// sanitizing and conversion of request payloads into domain values.
package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
)

const maxBodyBytes = 64 << 10

var errBadRequest = errors.New("malformed request")

// flexString accepts a JSON string or a bare number, so amounts may be
// sent either as "12.30" or 12.30.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

type expenseRequest struct {
	Amount      flexString `json:"amount"`
	Description string     `json:"description"`
	Category    string     `json:"category"`
	Date        string     `json:"date"`
}

type incomeRequest struct {
	Amount flexString `json:"amount"`
	Source string     `json:"source"`
	Date   string     `json:"date"`
}

type categoryRequest struct {
	Category string `json:"category"`
}

type descriptionRequest struct {
	Description string `json:"description"`
}

type submitRequest struct {
	Amount flexString `json:"amount"`
	Date   string     `json:"date"`
}

// decodeJSON reads a bounded JSON body into dst, rejecting unknown fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: trailing data after JSON body", errBadRequest)
	}
	return nil
}

// sanitizeInput removes control characters (except tab and newlines) and trims whitespace.
func sanitizeInput(s string) string {
	return strings.TrimSpace(strings.Map(func(r rune) rune {
		if r < 32 && r != '\t' && r != '\n' && r != '\r' {
			return -1
		}
		return r
	}, s))
}

// parseCategory maps an empty value to the default category.
func parseCategory(s string) (core.Category, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return core.DefaultCategory, nil
	}
	c, ok := core.ParseCategory(s)
	if !ok {
		return "", core.ErrUnknownCategory
	}
	return c, nil
}

// parseOptionalDate maps an empty value to today (UTC).
func parseOptionalDate(s string) (time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return core.Today(), nil
	}
	return core.ParseDate(s)
}

func (req expenseRequest) fields() (core.ExpenseFields, error) {
	amount, err := core.ParseAmount(string(req.Amount))
	if err != nil {
		return core.ExpenseFields{}, err
	}
	category, err := parseCategory(req.Category)
	if err != nil {
		return core.ExpenseFields{}, err
	}
	date, err := parseOptionalDate(req.Date)
	if err != nil {
		return core.ExpenseFields{}, err
	}
	return core.ExpenseFields{
		Amount:      amount,
		Description: sanitizeInput(req.Description),
		Category:    category,
		Date:        date,
	}, nil
}

func (req incomeRequest) fields() (core.IncomeFields, error) {
	amount, err := core.ParseAmount(string(req.Amount))
	if err != nil {
		return core.IncomeFields{}, err
	}
	date, err := parseOptionalDate(req.Date)
	if err != nil {
		return core.IncomeFields{}, err
	}
	return core.IncomeFields{
		Amount: amount,
		Source: sanitizeInput(req.Source),
		Date:   date,
	}, nil
}

func (req submitRequest) values() (decimal.Decimal, time.Time, error) {
	amount, err := core.ParseAmount(string(req.Amount))
	if err != nil {
		return decimal.Zero, time.Time{}, err
	}
	date, err := parseOptionalDate(req.Date)
	if err != nil {
		return decimal.Zero, time.Time{}, err
	}
	return amount, date, nil
}

// parseReferenceDate reads ?date=, defaulting to today (UTC).
func parseReferenceDate(r *http.Request) (time.Time, error) {
	return parseOptionalDate(r.URL.Query().Get("date"))
}
