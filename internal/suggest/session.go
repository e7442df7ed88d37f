// Package suggest debounces description edits on an expense draft and keeps
// the category suggestion in step with the most recent text.
//
// A Session moves through four phases:
//
//	Idle -> Waiting (text long enough, timer armed)
//	Waiting -> InFlight (timer fired for the text that armed it)
//	InFlight -> Settled (response for the latest request)
//
// Every text change, reset or close bumps a token. Timers and responses
// carry the token they were issued with and are dropped when it is stale,
// so a late answer for older text can never overwrite newer state.
package suggest

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"fintrack/internal/core"
)

const (
	DefaultDelay     = 800 * time.Millisecond
	DefaultMinLength = 3
)

// Phase is the debouncer state.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseWaiting
	PhaseInFlight
	PhaseSettled
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseWaiting:
		return "waiting"
	case PhaseInFlight:
		return "in_flight"
	case PhaseSettled:
		return "settled"
	default:
		return "unknown"
	}
}

// MarshalText encodes the phase by name.
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText decodes a phase name written by MarshalText.
func (p *Phase) UnmarshalText(text []byte) error {
	for q := PhaseIdle; q <= PhaseSettled; q++ {
		if q.String() == string(text) {
			*p = q
			return nil
		}
	}
	return fmt.Errorf("unknown phase %q", text)
}

// ClassifyFunc returns a category for text, or false for no suggestion.
// It must honour ctx cancellation where it can, but a result returned after
// cancellation is tolerated and ignored.
type ClassifyFunc func(ctx context.Context, text string) (core.Category, bool)

// Options tunes a Session.
type Options struct {
	// Delay is the quiet period after the last edit before classifying.
	Delay time.Duration
	// MinLength is the rune count the trimmed text must exceed.
	MinLength int
	// OnSettled, if set, is called outside the session lock each time the
	// latest request settles.
	OnSettled func(State)
}

func (o Options) withDefaults() Options {
	if o.Delay <= 0 {
		o.Delay = DefaultDelay
	}
	if o.MinLength < 0 {
		o.MinLength = 0
	}
	return o
}

// State is a point-in-time copy of a session.
type State struct {
	Phase         Phase         `json:"phase"`
	Text          string        `json:"text"`
	Pending       bool          `json:"pending"`
	Suggestion    core.Category `json:"suggestion,omitempty"`
	HasSuggestion bool          `json:"has_suggestion"`
	Category      core.Category `json:"category"`
	Closed        bool          `json:"closed"`
}

// Session is the debouncer for one draft form. It is safe for concurrent use.
type Session struct {
	classify ClassifyFunc
	opts     Options
	logger   *slog.Logger

	mu            sync.Mutex
	phase         Phase
	text          string
	token         uint64
	timer         *time.Timer
	cancel        context.CancelFunc
	suggestion    core.Category
	hasSuggestion bool
	category      core.Category
	closed        bool
}

// NewSession returns an idle session whose category starts at the default.
func NewSession(classify ClassifyFunc, opts Options, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{
		classify: classify,
		opts:     opts.withDefaults(),
		logger:   logger.With("component", "suggest"),
		category: core.DefaultCategory,
	}
}

// Describe records a description edit. Text at or under the length threshold
// drops back to Idle and clears the suggestion; longer text (re)arms the timer.
// Repeating the current text is a no-op.
func (s *Session) Describe(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || text == s.text {
		return
	}
	s.invalidateLocked()
	s.text = text
	s.suggestion, s.hasSuggestion = "", false

	if utf8.RuneCountInString(strings.TrimSpace(text)) <= s.opts.MinLength || s.classify == nil {
		s.phase = PhaseIdle
		return
	}

	s.phase = PhaseWaiting
	token := s.token
	s.timer = time.AfterFunc(s.opts.Delay, func() { s.fire(token) })
}

// SelectCategory records a manual category choice. It does not cancel an
// outstanding request: whichever of the two arrives last wins.
func (s *Session) SelectCategory(c core.Category) bool {
	if !c.Valid() {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.category = c
	return true
}

// Reset abandons any outstanding work and returns the session to a fresh draft.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.invalidateLocked()
	s.phase = PhaseIdle
	s.text = ""
	s.suggestion, s.hasSuggestion = "", false
	s.category = core.DefaultCategory
}

// Close abandons outstanding work. A closed session ignores every later event.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.invalidateLocked()
	s.closed = true
	s.phase = PhaseIdle
}

// State returns a snapshot of the session.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

func (s *Session) stateLocked() State {
	return State{
		Phase:         s.phase,
		Text:          s.text,
		Pending:       s.phase == PhaseInFlight,
		Suggestion:    s.suggestion,
		HasSuggestion: s.hasSuggestion,
		Category:      s.category,
		Closed:        s.closed,
	}
}

// invalidateLocked makes every timer and request issued so far stale.
func (s *Session) invalidateLocked() {
	s.token++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

func (s *Session) fire(armed uint64) {
	s.mu.Lock()
	if s.closed || armed != s.token || s.phase != PhaseWaiting {
		s.mu.Unlock()
		return
	}
	s.timer = nil
	s.token++
	token := s.token
	text := s.text
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.phase = PhaseInFlight
	s.mu.Unlock()

	s.logger.Debug("Requesting category suggestion", "token", token, "text_length", utf8.RuneCountInString(text))
	category, ok := s.classify(ctx, text)
	s.settle(token, category, ok)
}

func (s *Session) settle(token uint64, category core.Category, ok bool) {
	s.mu.Lock()
	if s.closed || token != s.token {
		s.mu.Unlock()
		s.logger.Debug("Discarding superseded suggestion", "token", token)
		return
	}
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.phase = PhaseSettled
	if ok && category.Valid() {
		s.suggestion, s.hasSuggestion = category, true
		s.category = category
	}
	state := s.stateLocked()
	s.mu.Unlock()

	if s.opts.OnSettled != nil {
		s.opts.OnSettled(state)
	}
}
