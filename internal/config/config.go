package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"

	"fintrack/internal/classifier"
	"fintrack/internal/suggest"
)

type Config struct {
	// HTTP Server
	Port               string `env:"PORT" envDefault:"8081"`
	RateLimitPerMinute int    `env:"RATE_LIMIT_PER_MINUTE" envDefault:"60"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`

	// Classifier
	ClassifierProvider string        `env:"CLASSIFIER_PROVIDER" envDefault:"gemini"`
	APIKey             string        `env:"API_KEY"`
	GeminiAPIKey       string        `env:"GEMINI_API_KEY"`
	OpenAIAPIKey       string        `env:"OPENAI_API_KEY"`
	OpenAIBaseURL      string        `env:"OPENAI_BASE_URL"`
	ClassifierModel    string        `env:"CLASSIFIER_MODEL"`
	ClassifierTimeout  time.Duration `env:"CLASSIFIER_TIMEOUT" envDefault:"10s"`

	// Suggestion debouncer and draft sessions
	SuggestDelay     time.Duration `env:"SUGGEST_DELAY" envDefault:"800ms"`
	SuggestMinLength int           `env:"SUGGEST_MIN_LENGTH" envDefault:"3"`
	DraftTTL         time.Duration `env:"DRAFT_TTL" envDefault:"30m"`
	MaxDrafts        int           `env:"MAX_DRAFTS" envDefault:"256"`

	// AMQP (optional; empty URL disables event publishing)
	AMQPURL      string `env:"AMQP_URL"`
	AMQPExchange string `env:"AMQP_EXCHANGE" envDefault:"fintrack"`
	AMQPQueue    string `env:"AMQP_QUEUE" envDefault:"ledger_events"`

	// Initial ledger contents
	SeedFile string `env:"SEED_FILE"`
}

// Load reads the configuration from the process environment.
func Load() (*Config, error) {
	return load(env.Options{})
}

// LoadFrom reads the configuration from the given variables only.
func LoadFrom(vars map[string]string) (*Config, error) {
	return load(env.Options{Environment: vars})
}

func load(opts env.Options) (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg, opts); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errs []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errs = append(errs, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errs = append(errs, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.RateLimitPerMinute < 1 {
		errs = append(errs, fmt.Sprintf("invalid rate limit %d: must be positive", c.RateLimitPerMinute))
	}

	if _, err := ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err.Error())
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		errs = append(errs, fmt.Sprintf("invalid log format '%s': must be one of [text json]", c.LogFormat))
	}

	if !classifier.Provider(c.ClassifierProvider).IsValid() {
		errs = append(errs, fmt.Sprintf("invalid classifier provider '%s': must be one of [gemini openai]", c.ClassifierProvider))
	}
	if c.ClassifierTimeout <= 0 {
		errs = append(errs, fmt.Sprintf("invalid classifier timeout %s: must be positive", c.ClassifierTimeout))
	}
	if c.OpenAIBaseURL != "" {
		if u, err := url.Parse(c.OpenAIBaseURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			errs = append(errs, fmt.Sprintf("invalid OpenAI base URL '%s': must be an http(s) URL", c.OpenAIBaseURL))
		}
	}

	if c.SuggestDelay <= 0 {
		errs = append(errs, fmt.Sprintf("invalid suggest delay %s: must be positive", c.SuggestDelay))
	}
	if c.SuggestMinLength < 0 {
		errs = append(errs, fmt.Sprintf("invalid suggest min length %d: must not be negative", c.SuggestMinLength))
	}
	if c.DraftTTL <= 0 {
		errs = append(errs, fmt.Sprintf("invalid draft TTL %s: must be positive", c.DraftTTL))
	}
	if c.MaxDrafts < 1 {
		errs = append(errs, fmt.Sprintf("invalid max drafts %d: must be positive", c.MaxDrafts))
	}

	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errs = append(errs, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errs = append(errs, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errs = append(errs, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errs = append(errs, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if len(errs) > 0 {
		return errors.New("configuration validation failed: " + strings.Join(errs, "; "))
	}
	return nil
}

// ClassifierSettings maps the configuration onto the classifier factory.
// API_KEY is honoured as a fallback for GEMINI_API_KEY.
func (c *Config) ClassifierSettings() classifier.Settings {
	geminiKey := c.GeminiAPIKey
	if geminiKey == "" {
		geminiKey = c.APIKey
	}
	return classifier.Settings{
		Provider:      classifier.Provider(c.ClassifierProvider),
		GeminiAPIKey:  geminiKey,
		OpenAIAPIKey:  c.OpenAIAPIKey,
		OpenAIBaseURL: c.OpenAIBaseURL,
		Model:         c.ClassifierModel,
		Timeout:       c.ClassifierTimeout,
	}
}

// SuggestOptions returns the debouncer tuning.
func (c *Config) SuggestOptions() suggest.Options {
	return suggest.Options{
		Delay:     c.SuggestDelay,
		MinLength: c.SuggestMinLength,
	}
}

// AMQPEnabled reports whether ledger events should be published.
func (c *Config) AMQPEnabled() bool {
	return c.AMQPURL != ""
}

// ParseLevel maps a LOG_LEVEL value to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid log level '%s': must be one of [debug info warn error]", s)
	}
}
