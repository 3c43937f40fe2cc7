package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJSONByDefault(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Options{Writer: &buf, Attrs: []slog.Attr{slog.String("env", "test")}})

	logger.Info("hello", "n", 1)

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "hello", record["msg"])
	assert.Equal(t, "test", record["env"])
	assert.EqualValues(t, 1, record["n"])
}

func TestNewTextAndLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Options{Writer: &buf, Format: "Console", Level: slog.LevelWarn})

	logger.Info("quiet")
	assert.Empty(t, buf.String())

	logger.Warn("loud")
	assert.Contains(t, buf.String(), "msg=loud")
}

func TestDiscard(t *testing.T) {
	logger := Discard()
	assert.False(t, logger.Enabled(context.Background(), slog.LevelError))
}
