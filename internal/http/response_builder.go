// Package http provides the JSON API server and its handlers.
//
// This file builds responses: JSON encoding, error mapping and the wire
// shapes of ledger entries and aggregates.
package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/middleware/trace"
	"fintrack/internal/services"
)

type errorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

type categoryResponse struct {
	Name  core.Category `json:"name"`
	Color string        `json:"color"`
}

type expenseResponse struct {
	ID          string        `json:"id"`
	Amount      string        `json:"amount"`
	Description string        `json:"description"`
	Category    core.Category `json:"category"`
	Date        string        `json:"date"`
}

type incomeResponse struct {
	ID     string `json:"id"`
	Amount string `json:"amount"`
	Source string `json:"source"`
	Date   string `json:"date"`
}

type summaryResponse struct {
	Period  string `json:"period"`
	Year    int    `json:"year"`
	Month   int    `json:"month"`
	Income  string `json:"income"`
	Expense string `json:"expense"`
	Balance string `json:"balance"`
	Display struct {
		Income  string `json:"income"`
		Expense string `json:"expense"`
		Balance string `json:"balance"`
	} `json:"display"`
}

type breakdownEntry struct {
	Category core.Category `json:"category"`
	Total    string        `json:"total"`
	Color    string        `json:"color"`
}

type breakdownResponse struct {
	Entries []breakdownEntry `json:"entries"`
	Empty   bool             `json:"empty"`
}

func fixed(d decimal.Decimal) string {
	return d.StringFixedBank(2)
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func newExpenseResponse(e core.Expense) expenseResponse {
	return expenseResponse{
		ID:          e.ID,
		Amount:      fixed(e.Amount),
		Description: e.Description,
		Category:    e.Category,
		Date:        formatTime(e.Date),
	}
}

func newIncomeResponse(in core.Income) incomeResponse {
	return incomeResponse{
		ID:     in.ID,
		Amount: fixed(in.Amount),
		Source: in.Source,
		Date:   formatTime(in.Date),
	}
}

func newSummaryResponse(p core.PeriodTotals) summaryResponse {
	resp := summaryResponse{
		Period:  p.Label(),
		Year:    p.Year,
		Month:   int(p.Month),
		Income:  fixed(p.Income),
		Expense: fixed(p.Expense),
		Balance: fixed(p.Balance),
	}
	resp.Display.Income = core.FormatAmount(p.Income)
	resp.Display.Expense = core.FormatAmount(p.Expense)
	resp.Display.Balance = core.FormatAmount(p.Balance)
	return resp
}

func newBreakdownResponse(totals []core.CategoryTotal) breakdownResponse {
	entries := make([]breakdownEntry, len(totals))
	for i, t := range totals {
		entries[i] = breakdownEntry{Category: t.Category, Total: fixed(t.Total), Color: t.Category.Color()}
	}
	return breakdownResponse{Entries: entries, Empty: len(entries) == 0}
}

// writeJSON encodes v with the given status.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Failed to encode response", log.FieldError, err)
	}
}

// writeError writes {"error": msg} with the request id attached.
func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, errorResponse{Error: msg, RequestID: trace.GetRequestID(r.Context())})
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrDraftNotFound):
		return http.StatusNotFound
	case errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrInvalidDate),
		errors.Is(err, core.ErrEmptyDescription),
		errors.Is(err, core.ErrEmptySource),
		errors.Is(err, core.ErrTextTooLong),
		errors.Is(err, core.ErrUnknownCategory):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// writeErr maps err to a status and logs server-side failures.
func writeErr(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		log.LogError(r.Context(), "Request failed", err, r.Method, nil)
		msg = "internal error"
	}
	writeError(w, r, status, msg)
}
