// Package ledger holds the process-lifetime collections of expenses and incomes.
package ledger

import (
	"slices"
	"sync"

	"github.com/google/uuid"

	"fintrack/internal/core"
)

// Store owns the expense and income collections in insertion order.
//
// Fields passed to the Add methods must already be validated; the store never
// rejects a well-formed call. Each mutation is applied under the store lock,
// so readers never observe a partially applied change.
type Store struct {
	mu       sync.RWMutex
	expenses []core.Expense
	incomes  []core.Income
	newID    func() string
}

// Snapshot is an immutable copy of the ledger in insertion order.
type Snapshot struct {
	Expenses []core.Expense
	Incomes  []core.Income
}

func New() *Store {
	return &Store{newID: uuid.NewString}
}

// AddExpense appends the expense and returns its fresh id.
func (s *Store) AddExpense(f core.ExpenseFields) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.newID()
	s.expenses = append(s.expenses, core.Expense{ID: id, ExpenseFields: f})
	return id
}

// DeleteExpense removes the expense with the given id. It reports whether an
// entry was removed; deleting an unknown id is a no-op.
func (s *Store) DeleteExpense(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := slices.IndexFunc(s.expenses, func(e core.Expense) bool { return e.ID == id })
	if i < 0 {
		return false
	}
	s.expenses = slices.Delete(s.expenses, i, i+1)
	return true
}

// UpdateExpenseCategory replaces the category of an expense. Unknown ids and
// categories outside the catalog are ignored.
func (s *Store) UpdateExpenseCategory(id string, c core.Category) bool {
	if !c.Valid() {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.expenses {
		if s.expenses[i].ID == id {
			s.expenses[i].Category = c
			return true
		}
	}
	return false
}

// AddIncome appends the income and returns its fresh id.
func (s *Store) AddIncome(f core.IncomeFields) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.newID()
	s.incomes = append(s.incomes, core.Income{ID: id, IncomeFields: f})
	return id
}

// DeleteIncome removes the income with the given id, if present.
func (s *Store) DeleteIncome(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := slices.IndexFunc(s.incomes, func(in core.Income) bool { return in.ID == id })
	if i < 0 {
		return false
	}
	s.incomes = slices.Delete(s.incomes, i, i+1)
	return true
}

// Expense returns the expense with the given id.
func (s *Store) Expense(id string) (core.Expense, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range s.expenses {
		if e.ID == id {
			return e, true
		}
	}
	return core.Expense{}, false
}

// Snapshot copies both collections in insertion order.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		Expenses: slices.Clone(s.expenses),
		Incomes:  slices.Clone(s.incomes),
	}
}

// ListExpensesByDateDesc returns the expenses newest first. Entries with the
// same date keep their insertion order. The stored order is not changed.
func (s *Store) ListExpensesByDateDesc() []core.Expense {
	s.mu.RLock()
	out := slices.Clone(s.expenses)
	s.mu.RUnlock()
	slices.SortStableFunc(out, func(a, b core.Expense) int { return b.Date.Compare(a.Date) })
	return nonNil(out)
}

// ListIncomesByDateDesc returns the incomes newest first, stable on insertion order.
func (s *Store) ListIncomesByDateDesc() []core.Income {
	s.mu.RLock()
	out := slices.Clone(s.incomes)
	s.mu.RUnlock()
	slices.SortStableFunc(out, func(a, b core.Income) int { return b.Date.Compare(a.Date) })
	return nonNil(out)
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
