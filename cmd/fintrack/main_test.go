package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolateEnv(t *testing.T) []string {
	t.Helper()
	for _, key := range []string{"API_KEY", "GEMINI_API_KEY", "OPENAI_API_KEY", "AMQP_URL", "CLASSIFIER_PROVIDER", "PORT", "LOG_LEVEL", "LOG_FORMAT"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	return []string{"--env-file", filepath.Join(t.TempDir(), "absent.env")}
}

func TestRootCommand(t *testing.T) {
	root := newRootCmd()
	assert.Equal(t, "fintrack", root.Use)
	assert.Contains(t, root.Short, "expenses and income")

	names := make([]string, 0, len(root.Commands()))
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.Subset(t, names, []string{"serve", "classify", "events"})
}

func TestClassifyWithoutCredential(t *testing.T) {
	args := isolateEnv(t)

	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(append(args, "classify", "coffee", "beans"))

	require.NoError(t, root.Execute())
	assert.Equal(t, "no suggestion (classifier not configured)\n", out.String())
}

func TestClassifyRequiresDescription(t *testing.T) {
	args := isolateEnv(t)

	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(append(args, "classify"))

	assert.Error(t, root.Execute())
}

func TestInvalidConfigurationFails(t *testing.T) {
	args := isolateEnv(t)
	t.Setenv("PORT", "not-a-port")

	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(append(args, "classify", "coffee"))

	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid port")
}

func TestEventsRequiresBroker(t *testing.T) {
	args := isolateEnv(t)

	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(append(args, "events"))

	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AMQP_URL")
}

func TestCleanupInterval(t *testing.T) {
	assert.Equal(t, time.Minute, cleanupInterval(30*time.Minute))
	assert.Equal(t, 30*time.Second, cleanupInterval(2*time.Minute))
	assert.Equal(t, time.Second, cleanupInterval(time.Second))
	assert.Equal(t, time.Minute, cleanupInterval(0))
}
