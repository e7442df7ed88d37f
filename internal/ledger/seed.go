package ledger

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"fintrack/internal/core"
)

// Seed is the initial content of a ledger, read from a YAML file at startup.
// It is never written back.
type Seed struct {
	Expenses []SeedExpense `yaml:"expenses"`
	Incomes  []SeedIncome  `yaml:"incomes"`
}

type SeedExpense struct {
	Amount      string `yaml:"amount"`
	Description string `yaml:"description"`
	Category    string `yaml:"category"`
	Date        string `yaml:"date"`
}

type SeedIncome struct {
	Amount string `yaml:"amount"`
	Source string `yaml:"source"`
	Date   string `yaml:"date"`
}

// ReadSeed parses and validates a seed file. An invalid entry fails the whole file.
func ReadSeed(path string) (*Seed, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	var seed Seed
	if err := yaml.Unmarshal(raw, &seed); err != nil {
		return nil, fmt.Errorf("parse seed file %s: %w", path, err)
	}
	for i, e := range seed.Expenses {
		if _, err := e.fields(); err != nil {
			return nil, fmt.Errorf("seed expense %d: %w", i, err)
		}
	}
	for i, in := range seed.Incomes {
		if _, err := in.fields(); err != nil {
			return nil, fmt.Errorf("seed income %d: %w", i, err)
		}
	}
	return &seed, nil
}

// Apply adds every seed entry to the store in file order.
func (s *Seed) Apply(store *Store) (expenses, incomes int) {
	for _, e := range s.Expenses {
		if f, err := e.fields(); err == nil {
			store.AddExpense(f)
			expenses++
		}
	}
	for _, in := range s.Incomes {
		if f, err := in.fields(); err == nil {
			store.AddIncome(f)
			incomes++
		}
	}
	return expenses, incomes
}

func (e SeedExpense) fields() (core.ExpenseFields, error) {
	amount, err := core.ParseAmount(e.Amount)
	if err != nil {
		return core.ExpenseFields{}, err
	}
	date, err := core.ParseDate(e.Date)
	if err != nil {
		return core.ExpenseFields{}, err
	}
	c, ok := core.ParseCategory(e.Category)
	if !ok {
		return core.ExpenseFields{}, fmt.Errorf("%w: %q", core.ErrUnknownCategory, e.Category)
	}
	f := core.ExpenseFields{Amount: amount, Description: e.Description, Category: c, Date: date}
	return f, f.Validate()
}

func (in SeedIncome) fields() (core.IncomeFields, error) {
	amount, err := core.ParseAmount(in.Amount)
	if err != nil {
		return core.IncomeFields{}, err
	}
	date, err := core.ParseDate(in.Date)
	if err != nil {
		return core.IncomeFields{}, err
	}
	f := core.IncomeFields{Amount: amount, Source: in.Source, Date: date}
	return f, f.Validate()
}
