package core

import (
	"cmp"
	"fmt"
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// breakdownPlaces is the currency precision of category totals.
// Rounding is half-even (banker's rounding).
const breakdownPlaces = 2

// PeriodTotals is the income/expense summary for one calendar month.
type PeriodTotals struct {
	Year    int             `json:"year"`
	Month   time.Month      `json:"month"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Balance decimal.Decimal `json:"balance"`
}

// CategoryTotal is the spend of one category.
type CategoryTotal struct {
	Category Category        `json:"category"`
	Total    decimal.Decimal `json:"total"`
}

// Label returns the period as shown in the summary header, e.g. "July 2024".
func (p PeriodTotals) Label() string {
	return fmt.Sprintf("%s %d", p.Month, p.Year)
}

// SamePeriod reports whether a and b fall in the same UTC calendar month.
func SamePeriod(a, b time.Time) bool {
	a, b = a.UTC(), b.UTC()
	return a.Year() == b.Year() && a.Month() == b.Month()
}

// CurrentPeriodTotals sums the entries dated in the UTC calendar month of ref.
// Entries from any other month are excluded entirely.
func CurrentPeriodTotals(expenses []Expense, incomes []Income, ref time.Time) PeriodTotals {
	ref = ref.UTC()
	totals := PeriodTotals{
		Year:    ref.Year(),
		Month:   ref.Month(),
		Income:  decimal.Zero,
		Expense: decimal.Zero,
	}
	for _, in := range incomes {
		if SamePeriod(in.Date, ref) {
			totals.Income = totals.Income.Add(in.Amount)
		}
	}
	for _, e := range expenses {
		if SamePeriod(e.Date, ref) {
			totals.Expense = totals.Expense.Add(e.Amount)
		}
	}
	totals.Balance = totals.Income.Sub(totals.Expense)
	return totals
}

// CategoryBreakdown sums expenses per category over the whole ledger.
//
// Totals are rounded half-even to cents, ordered by total descending with
// ties in catalog order. Categories without spend are omitted, so an empty
// ledger yields an empty slice.
func CategoryBreakdown(expenses []Expense) []CategoryTotal {
	sums := make(map[Category]decimal.Decimal, len(catalog))
	for _, e := range expenses {
		sums[e.Category] = sums[e.Category].Add(e.Amount)
	}

	out := make([]CategoryTotal, 0, len(sums))
	for _, c := range catalog {
		sum, ok := sums[c]
		if !ok {
			continue
		}
		total := sum.RoundBank(breakdownPlaces)
		if total.IsZero() {
			continue
		}
		out = append(out, CategoryTotal{Category: c, Total: total})
	}

	slices.SortStableFunc(out, func(a, b CategoryTotal) int {
		if c := b.Total.Cmp(a.Total); c != 0 {
			return c
		}
		return cmp.Compare(a.Category.Index(), b.Category.Index())
	})
	return out
}
