package logger

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInit(t *testing.T) {
	Init("development", "")
	assert.NotNil(t, Log)
	assert.Equal(t, Log, slog.Default())
	assert.True(t, Log.Enabled(t.Context(), slog.LevelDebug))
	assert.False(t, sentryEnabled)

	Init("production", "")
	assert.False(t, Log.Enabled(t.Context(), slog.LevelDebug))
	Flush()
}
