package classifier

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Provider names a completion backend.
type Provider string

const (
	ProviderGemini Provider = "gemini"
	ProviderOpenAI Provider = "openai"
)

// IsValid returns true if the provider is known
func (p Provider) IsValid() bool {
	switch p {
	case ProviderGemini, ProviderOpenAI:
		return true
	default:
		return false
	}
}

// Settings selects and configures the generator behind a Client.
type Settings struct {
	Provider      Provider
	GeminiAPIKey  string
	OpenAIAPIKey  string
	OpenAIBaseURL string
	Model         string
	Timeout       time.Duration
}

// APIKey returns the credential for the selected provider.
func (s Settings) APIKey() string {
	if s.Provider == ProviderOpenAI {
		return s.OpenAIAPIKey
	}
	return s.GeminiAPIKey
}

// NewFromSettings builds a Client. Without a credential the client is
// returned disabled, which is a valid operating mode.
func NewFromSettings(ctx context.Context, s Settings, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if !s.Provider.IsValid() {
		return nil, fmt.Errorf("unsupported classifier provider: %q", s.Provider)
	}
	if s.APIKey() == "" {
		logger.Info("Classifier API key not configured, category suggestions disabled",
			"provider", s.Provider)
		return New(nil, s.Timeout, logger), nil
	}

	var (
		gen Generator
		err error
	)
	switch s.Provider {
	case ProviderOpenAI:
		gen, err = NewOpenAIGenerator(s.OpenAIAPIKey, s.OpenAIBaseURL, s.Model)
	default:
		gen, err = NewGeminiGenerator(ctx, s.GeminiAPIKey, s.Model)
	}
	if err != nil {
		return nil, fmt.Errorf("initialize %s classifier: %w", s.Provider, err)
	}

	logger.Info("Initialized classifier", "provider", s.Provider, "model", s.Model, "timeout", s.Timeout)
	return New(gen, s.Timeout, logger), nil
}
