package logger

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelWarn, parseLevel("WARN", slog.LevelInfo))
	assert.Equal(t, slog.LevelError, parseLevel(" error ", slog.LevelInfo))
	assert.Equal(t, slog.LevelInfo, parseLevel("", slog.LevelInfo))
	assert.Equal(t, slog.LevelDebug, parseLevel("verbose", slog.LevelDebug))
}

func TestNewHandler(t *testing.T) {
	_, isJSON := newHandler("production", "").(*slog.JSONHandler)
	assert.True(t, isJSON)

	_, isText := newHandler("development", "").(*slog.TextHandler)
	assert.True(t, isText)
}

func TestFromContext(t *testing.T) {
	assert.Equal(t, Default(), FromContext(context.Background()))

	custom := With("component", "test")
	ctx := WithContext(context.Background(), custom)
	assert.Equal(t, custom, FromContext(ctx))
}
