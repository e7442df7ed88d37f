// Package classifier suggests an expense category for a free-text description
// by asking a remote text-completion model.
//
// The feature is best-effort: every failure path yields "no suggestion".
package classifier

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"fintrack/internal/core"
)

// DefaultTimeout bounds a single classification call.
const DefaultTimeout = 10 * time.Second

// Generator sends a prompt to a completion model and returns its raw answer.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Client validates generator answers against the category catalog.
type Client struct {
	gen     Generator
	timeout time.Duration
	logger  *slog.Logger
}

// New returns a client for gen. A nil generator means no credential is
// configured: Classify then returns no suggestion without any call.
func New(gen Generator, timeout time.Duration, logger *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{gen: gen, timeout: timeout, logger: logger.With("component", "classifier")}
}

// Enabled reports whether a generator is configured.
func (c *Client) Enabled() bool {
	return c != nil && c.gen != nil
}

// Classify returns the suggested category for description, or false when
// there is no usable suggestion.
func (c *Client) Classify(ctx context.Context, description string) (core.Category, bool) {
	if !c.Enabled() {
		return "", false
	}
	description = strings.TrimSpace(description)
	if description == "" {
		return "", false
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	answer, err := c.gen.Generate(ctx, BuildPrompt(description))
	if err != nil {
		level := slog.LevelError
		if errors.Is(err, context.Canceled) {
			level = slog.LevelDebug
		}
		c.logger.Log(ctx, level, "Category suggestion failed",
			"error", err,
			"timeout", errors.Is(err, context.DeadlineExceeded),
			"duration_ms", time.Since(start).Milliseconds())
		return "", false
	}

	answer = strings.TrimSpace(answer)
	category, ok := core.ParseCategory(answer)
	if !ok {
		c.logger.Warn("Model returned an invalid category", "answer", answer)
		return "", false
	}

	c.logger.Debug("Category suggested",
		"category", category,
		"duration_ms", time.Since(start).Milliseconds())
	return category, true
}

// Close releases the generator if it holds resources.
func (c *Client) Close() error {
	if c == nil || c.gen == nil {
		return nil
	}
	if closer, ok := c.gen.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// BuildPrompt asks for exactly one catalog label and nothing else.
func BuildPrompt(description string) string {
	return fmt.Sprintf(`Based on the expense description %q, what is the most appropriate category?
Please choose exactly one from the following list: %s.
Respond with only the category name and nothing else.`,
		description, strings.Join(core.CategoryNames(), ", "))
}
