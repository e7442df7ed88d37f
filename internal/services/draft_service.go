package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"fintrack/internal/cache"
	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/suggest"
)

var ErrDraftNotFound = errors.New("draft not found")

// Classifier suggests a category for a description.
type Classifier interface {
	Classify(ctx context.Context, description string) (core.Category, bool)
}

// Draft is the client view of an expense form in progress.
type Draft struct {
	ID string `json:"id"`
	suggest.State
}

// DraftService keeps one suggestion session per open expense form. Sessions
// live in an LRU cache with sliding expiry and are closed when they leave it.
type DraftService struct {
	ledger   *LedgerService
	classify suggest.ClassifyFunc
	opts     suggest.Options
	sessions *cache.LRUCache[*suggest.Session]
	logger   *slog.Logger
	newID    func() string
}

// NewDraftService wires drafts to the ledger. classifier may be nil, in
// which case drafts never receive suggestions.
func NewDraftService(ledger *LedgerService, classifier Classifier, opts suggest.Options, ttl time.Duration, maxDrafts int) *DraftService {
	s := &DraftService{
		ledger: ledger,
		opts:   opts,
		logger: slog.Default().With(log.FieldComponent, log.ComponentDrafts),
		newID:  uuid.NewString,
	}
	if classifier != nil {
		s.classify = classifier.Classify
	}
	s.sessions = cache.NewLRUCacheWithOptions(maxDrafts, ttl, cache.Options[*suggest.Session]{
		Sliding: true,
		OnEvict: s.evicted,
	})
	return s
}

// Sessions exposes the session cache so a cache.Manager can expire it.
func (s *DraftService) Sessions() cache.Cleaner {
	return s.sessions
}

// Open starts a fresh draft: category Other, no text, no suggestion.
func (s *DraftService) Open() Draft {
	id := s.newID()
	session := suggest.NewSession(s.classify, s.opts, s.logger)
	s.sessions.Set(id, session)
	s.logger.Debug("Draft opened", log.FieldDraftID, id)
	return Draft{ID: id, State: session.State()}
}

// Get returns the current state of a draft.
func (s *DraftService) Get(id string) (Draft, error) {
	session, ok := s.sessions.Get(id)
	if !ok {
		return Draft{}, ErrDraftNotFound
	}
	return Draft{ID: id, State: session.State()}, nil
}

// Describe feeds a description edit to the draft's debouncer.
func (s *DraftService) Describe(id, text string) (Draft, error) {
	session, ok := s.sessions.Get(id)
	if !ok {
		return Draft{}, ErrDraftNotFound
	}
	session.Describe(text)
	return Draft{ID: id, State: session.State()}, nil
}

// Choose records a manual category selection.
func (s *DraftService) Choose(id string, c core.Category) (Draft, error) {
	if !c.Valid() {
		return Draft{}, core.ErrUnknownCategory
	}
	session, ok := s.sessions.Get(id)
	if !ok {
		return Draft{}, ErrDraftNotFound
	}
	session.SelectCategory(c)
	return Draft{ID: id, State: session.State()}, nil
}

// Submit turns the draft into an expense using its description and current
// category. A zero date means today. On success the draft is closed; on a
// validation error it stays open for correction. Submission never waits on
// an outstanding suggestion.
func (s *DraftService) Submit(ctx context.Context, id string, amount decimal.Decimal, date time.Time) (core.Expense, error) {
	session, ok := s.sessions.Get(id)
	if !ok {
		return core.Expense{}, ErrDraftNotFound
	}
	if date.IsZero() {
		date = core.Today()
	}

	st := session.State()
	e, err := s.ledger.AddExpense(ctx, core.ExpenseFields{
		Amount:      amount,
		Description: st.Text,
		Category:    st.Category,
		Date:        date,
	})
	if err != nil {
		return core.Expense{}, err
	}

	s.sessions.Delete(id)
	slog.InfoContext(ctx, "Draft submitted",
		log.FieldComponent, log.ComponentDrafts, log.FieldDraftID, id, log.FieldID, e.ID,
		"suggested", st.HasSuggestion && st.Suggestion == st.Category)
	return e, nil
}

// Discard closes a draft without submitting it.
func (s *DraftService) Discard(id string) bool {
	if _, ok := s.sessions.Get(id); !ok {
		return false
	}
	s.sessions.Delete(id)
	return true
}

// Len returns the number of open drafts.
func (s *DraftService) Len() int {
	return s.sessions.Size()
}

// Close closes every open draft.
func (s *DraftService) Close() error {
	if n := s.sessions.Clear(); n > 0 {
		s.logger.Info("Closed open drafts", "count", n)
	}
	return nil
}

func (s *DraftService) evicted(id string, session *suggest.Session, reason cache.EvictReason) {
	session.Close()
	if reason != cache.EvictDeleted {
		s.logger.Debug("Draft evicted", log.FieldDraftID, id, "reason", reason.String())
	}
}
