package log

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestNew_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelInfo, Format: "json", Component: ComponentLedger, Output: &buf})

	logger.Debug("hidden")
	logger.Info("Expense added", FieldID, "exp-1")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1: %q", len(lines), buf.String())
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("invalid JSON log line: %v", err)
	}
	if entry[FieldComponent] != ComponentLedger {
		t.Errorf("component = %v, want %s", entry[FieldComponent], ComponentLedger)
	}
	if entry[FieldID] != "exp-1" {
		t.Errorf("id = %v, want exp-1", entry[FieldID])
	}
}

func TestWithComponent_ReplacesComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Format: "text", Output: &buf}).WithComponent(ComponentHTTP)

	logger.Info("hello")

	out := buf.String()
	if strings.Count(out, "component=") != 1 {
		t.Errorf("expected exactly one component attribute, got %q", out)
	}
	if !strings.Contains(out, "component=http") {
		t.Errorf("expected component=http, got %q", out)
	}
	if logger.Component() != ComponentHTTP {
		t.Errorf("Component() = %s, want %s", logger.Component(), ComponentHTTP)
	}
}

func TestMiddleware_RequestID(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Format: "text", Output: &buf})

	handler := Middleware(logger)(RequestIDMiddleware(func(r *http.Request) string {
		return r.Header.Get("X-Request-ID")
	})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		FromContext(r.Context()).InfoContext(r.Context(), "inside")
	})))

	req := httptest.NewRequest(http.MethodGet, "/api/expenses", nil)
	req.Header.Set("X-Request-ID", "req-42")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if !strings.Contains(buf.String(), "request_id=req-42") {
		t.Errorf("expected request id in log, got %q", buf.String())
	}
}

func TestFromContext_Default(t *testing.T) {
	logger := FromContext(context.Background())
	if logger == nil || logger.Logger == nil {
		t.Fatal("FromContext should fall back to the default logger")
	}
	if logger.Component() != "unknown" {
		t.Errorf("Component() = %s, want unknown", logger.Component())
	}
}

func TestLogHTTPEnd_LevelByStatus(t *testing.T) {
	tests := []struct {
		status int
		level  string
	}{
		{200, "INFO"},
		{404, "WARN"},
		{500, "ERROR"},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		ctx := NewContext(context.Background(), New(Config{Format: "text", Output: &buf}))
		req := httptest.NewRequest(http.MethodGet, "/api/summary?date=2024-07-20", nil)

		LogHTTPEnd(ctx, req, tt.status, 3, "10.0.0.1")

		if !strings.Contains(buf.String(), "level="+tt.level) {
			t.Errorf("status %d: expected level %s, got %q", tt.status, tt.level, buf.String())
		}
	}
}

func TestLogFields(t *testing.T) {
	f := NewFields().
		WithComponent(ComponentLedger).
		WithOperation(OpCreate).
		WithExpense("exp-1", "Coffee", "4.50", "Food").
		WithError(errors.New("boom")).
		WithRequestID("")

	if f[FieldAmount] != "4.50" || f[FieldCategory] != "Food" {
		t.Errorf("expense fields missing: %v", f)
	}
	if f[FieldError] != "boom" {
		t.Errorf("error = %v, want boom", f[FieldError])
	}
	if _, ok := f[FieldRequestID]; ok {
		t.Error("empty request id should be skipped")
	}
	if got := len(f.ToSlice()); got != 2*len(f) {
		t.Errorf("ToSlice() len = %d, want %d", got, 2*len(f))
	}
}
