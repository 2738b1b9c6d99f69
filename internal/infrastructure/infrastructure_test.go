package infrastructure

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nhanescli/internal/config"
)

func TestRunIDRoundTrip(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, RunID(ctx))

	ctx = WithRunID(ctx, "abc-123")
	assert.Equal(t, "abc-123", RunID(ctx))

	// An existing run ID is never replaced.
	assert.Equal(t, "abc-123", RunID(EnsureRunID(ctx)))
}

func TestEnsureRunIDGeneratesUniqueIDs(t *testing.T) {
	a := RunID(EnsureRunID(context.Background()))
	b := RunID(EnsureRunID(context.Background()))
	require.NotEmpty(t, a)
	assert.NotEqual(t, a, b)
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"debug", "DEBUG"},
		{"info", "INFO"},
		{"warning", "WARN"},
		{"error", "ERROR"},
		{"unknown", "INFO"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseLogLevel(tt.in).String(), tt.in)
	}
}

func TestInitializeLoggerIsIdempotent(t *testing.T) {
	ResetLoggerForTesting()
	defer ResetLoggerForTesting()

	cfg := config.LoggingConfig{Level: "debug", Format: "text"}
	first := InitializeLogger(cfg)
	second := InitializeLogger(config.LoggingConfig{Level: "error", Format: "json"})

	require.NotNil(t, first)
	assert.Same(t, first, second)
	assert.Same(t, first, GetLogger())
}
