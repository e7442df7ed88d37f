package core

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func expense(amount string, c Category, date time.Time) Expense {
	return Expense{ExpenseFields: ExpenseFields{
		Amount:      decimal.RequireFromString(amount),
		Description: "x",
		Category:    c,
		Date:        date,
	}}
}

func income(amount string, date time.Time) Income {
	return Income{IncomeFields: IncomeFields{
		Amount: decimal.RequireFromString(amount),
		Source: "x",
		Date:   date,
	}}
}

func TestCurrentPeriodTotals_Scenario(t *testing.T) {
	expenses := []Expense{expense("65", Food, time.Date(2024, 7, 20, 19, 0, 0, 0, time.UTC))}
	incomes := []Income{income("3000", time.Date(2024, 7, 1, 9, 0, 0, 0, time.UTC))}

	got := CurrentPeriodTotals(expenses, incomes, day(2024, time.July, 20))

	assert.True(t, got.Income.Equal(decimal.NewFromInt(3000)), "income %s", got.Income)
	assert.True(t, got.Expense.Equal(decimal.NewFromInt(65)), "expense %s", got.Expense)
	assert.True(t, got.Balance.Equal(decimal.NewFromInt(2935)), "balance %s", got.Balance)
	assert.Equal(t, "July 2024", got.Label())
}

func TestCurrentPeriodTotals_ExcludesOtherMonths(t *testing.T) {
	expenses := []Expense{
		expense("10", Food, day(2024, time.July, 31)),
		expense("20", Food, day(2024, time.June, 30)),
		expense("40", Food, day(2023, time.July, 15)),
		expense("80", Food, time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC)),
	}
	incomes := []Income{
		income("100", day(2024, time.July, 1)),
		income("999", day(2024, time.August, 1)),
	}

	got := CurrentPeriodTotals(expenses, incomes, day(2024, time.July, 5))

	assert.True(t, got.Expense.Equal(decimal.NewFromInt(10)))
	assert.True(t, got.Income.Equal(decimal.NewFromInt(100)))
	assert.True(t, got.Balance.Equal(got.Income.Sub(got.Expense)))
}

func TestCurrentPeriodTotals_UsesUTCMonth(t *testing.T) {
	// 2024-08-01 01:00 in UTC+2 is still July in UTC.
	zone := time.FixedZone("UTC+2", 2*60*60)
	late := time.Date(2024, 8, 1, 1, 0, 0, 0, zone)

	got := CurrentPeriodTotals([]Expense{expense("5", Bills, late)}, nil, day(2024, time.July, 1))
	assert.True(t, got.Expense.Equal(decimal.NewFromInt(5)))
}

func TestCurrentPeriodTotals_Empty(t *testing.T) {
	got := CurrentPeriodTotals(nil, nil, day(2024, time.July, 1))
	assert.True(t, got.Balance.IsZero())
	assert.Equal(t, 2024, got.Year)
	assert.Equal(t, time.July, got.Month)
}

func TestCategoryBreakdown(t *testing.T) {
	d := day(2024, time.July, 1)
	expenses := []Expense{
		expense("65", Food, d),
		expense("12", Food, d),
		expense("30", Transport, d),
		expense("250", Shopping, d),
		expense("80", Bills, d),
		expense("45", Entertainment, day(2023, time.January, 1)),
	}

	got := CategoryBreakdown(expenses)

	require.Len(t, got, 5)
	want := []struct {
		c     Category
		total string
	}{
		{Shopping, "250"}, {Bills, "80"}, {Food, "77"}, {Entertainment, "45"}, {Transport, "30"},
	}
	sum := decimal.Zero
	for i, w := range want {
		assert.Equal(t, w.c, got[i].Category)
		assert.True(t, got[i].Total.Equal(decimal.RequireFromString(w.total)), "%s total %s", w.c, got[i].Total)
		sum = sum.Add(got[i].Total)
	}
	assert.True(t, sum.Equal(decimal.NewFromInt(482)))
	for _, ct := range got {
		assert.NotEqual(t, Health, ct.Category, "zero categories must be omitted")
	}
}

func TestCategoryBreakdown_TiesFollowCatalogOrder(t *testing.T) {
	d := day(2024, time.July, 1)
	got := CategoryBreakdown([]Expense{
		expense("10", Other, d),
		expense("10", Health, d),
		expense("10", Food, d),
	})

	require.Len(t, got, 3)
	assert.Equal(t, []Category{Food, Health, Other},
		[]Category{got[0].Category, got[1].Category, got[2].Category})
}

func TestCategoryBreakdown_RoundsHalfEven(t *testing.T) {
	d := day(2024, time.July, 1)
	got := CategoryBreakdown([]Expense{
		expense("0.125", Food, d),
		expense("0.135", Bills, d),
		expense("0.004", Health, d),
	})

	require.Len(t, got, 2, "totals rounding to zero are omitted")
	assert.Equal(t, Bills, got[0].Category)
	assert.Equal(t, "0.14", got[0].Total.StringFixed(2))
	assert.Equal(t, Food, got[1].Category)
	assert.Equal(t, "0.12", got[1].Total.StringFixed(2))
}

func TestCategoryBreakdown_EmptyMeansNoData(t *testing.T) {
	got := CategoryBreakdown(nil)
	require.NotNil(t, got)
	assert.Empty(t, got)
}
