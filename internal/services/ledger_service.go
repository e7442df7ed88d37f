package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
	"fintrack/internal/ledger"
	"fintrack/internal/log"
)

// Publisher announces ledger mutations. *amqp.Client satisfies it.
type Publisher interface {
	Publish(ctx context.Context, event *amqp.LedgerEvent) error
}

// LedgerService validates input at the form boundary, applies it to the
// in-memory ledger and publishes an event for each mutation. Publishing is
// best-effort and never fails the mutation.
type LedgerService struct {
	store     *ledger.Store
	publisher Publisher
}

// NewLedgerService returns a service over store. publisher may be nil.
func NewLedgerService(store *ledger.Store, publisher Publisher) *LedgerService {
	return &LedgerService{store: store, publisher: publisher}
}

// AddExpense validates f and stores it.
func (s *LedgerService) AddExpense(ctx context.Context, f core.ExpenseFields) (core.Expense, error) {
	if err := f.Validate(); err != nil {
		return core.Expense{}, fmt.Errorf("validate expense: %w", err)
	}
	e := core.Expense{ID: s.store.AddExpense(f), ExpenseFields: f}

	slog.InfoContext(ctx, "Expense added", log.NewFields().
		WithComponent(log.ComponentLedger).
		WithOperation(log.OpCreate).
		WithExpense(e.ID, e.Description, e.Amount.String(), e.Category.String()).
		ToSlice()...)

	event := amqp.NewLedgerEvent(amqp.EventExpenseCreated, e.ID).WithAmount(e.Amount, e.Date)
	event.Description = e.Description
	event.Category = e.Category.String()
	s.publish(ctx, event)
	return e, nil
}

// DeleteExpense removes an expense. A missing id is a no-op that returns false.
func (s *LedgerService) DeleteExpense(ctx context.Context, id string) bool {
	if !s.store.DeleteExpense(id) {
		slog.DebugContext(ctx, "Delete of unknown expense ignored", "component", log.ComponentLedger, "id", id)
		return false
	}
	slog.InfoContext(ctx, "Expense deleted", "component", log.ComponentLedger, "id", id)
	s.publish(ctx, amqp.NewLedgerEvent(amqp.EventExpenseDeleted, id))
	return true
}

// RecategorizeExpense moves an expense to c. An unknown category is an
// error; a missing id is a no-op that returns false.
func (s *LedgerService) RecategorizeExpense(ctx context.Context, id string, c core.Category) (bool, error) {
	if !c.Valid() {
		return false, core.ErrUnknownCategory
	}
	if !s.store.UpdateExpenseCategory(id, c) {
		return false, nil
	}
	slog.InfoContext(ctx, "Expense recategorized",
		"component", log.ComponentLedger, "operation", log.OpRecategory, "id", id, "category", c)

	event := amqp.NewLedgerEvent(amqp.EventExpenseRecategorized, id)
	event.Category = c.String()
	s.publish(ctx, event)
	return true, nil
}

// AddIncome validates f and stores it.
func (s *LedgerService) AddIncome(ctx context.Context, f core.IncomeFields) (core.Income, error) {
	if err := f.Validate(); err != nil {
		return core.Income{}, fmt.Errorf("validate income: %w", err)
	}
	in := core.Income{ID: s.store.AddIncome(f), IncomeFields: f}

	slog.InfoContext(ctx, "Income added", log.NewFields().
		WithComponent(log.ComponentLedger).
		WithOperation(log.OpCreate).
		WithIncome(in.ID, in.Source, in.Amount.String()).
		ToSlice()...)

	event := amqp.NewLedgerEvent(amqp.EventIncomeCreated, in.ID).WithAmount(in.Amount, in.Date)
	event.Source = in.Source
	s.publish(ctx, event)
	return in, nil
}

// DeleteIncome removes an income. A missing id is a no-op that returns false.
func (s *LedgerService) DeleteIncome(ctx context.Context, id string) bool {
	if !s.store.DeleteIncome(id) {
		return false
	}
	slog.InfoContext(ctx, "Income deleted", "component", log.ComponentLedger, "id", id)
	s.publish(ctx, amqp.NewLedgerEvent(amqp.EventIncomeDeleted, id))
	return true
}

// Expenses lists expenses newest first.
func (s *LedgerService) Expenses() []core.Expense {
	return s.store.ListExpensesByDateDesc()
}

// Incomes lists incomes newest first.
func (s *LedgerService) Incomes() []core.Income {
	return s.store.ListIncomesByDateDesc()
}

// Summary totals the calendar month of ref.
func (s *LedgerService) Summary(ref time.Time) core.PeriodTotals {
	snap := s.store.Snapshot()
	return core.CurrentPeriodTotals(snap.Expenses, snap.Incomes, ref)
}

// Breakdown totals spend per category over the whole ledger.
func (s *LedgerService) Breakdown() []core.CategoryTotal {
	return core.CategoryBreakdown(s.store.Snapshot().Expenses)
}

func (s *LedgerService) publish(ctx context.Context, event *amqp.LedgerEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		// The ledger already changed; the event is lost, not the mutation.
		slog.ErrorContext(ctx, "Failed to publish ledger event",
			"component", log.ComponentAMQP, "type", event.Type, "id", event.ID, "error", err)
	}
}
