package logger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLoggerAdapter_StructuredFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := NewFromZap(zap.New(core))

	log.Named("live").
		WithField("backend", "selenium").
		WithFields(map[string]any{"source": "https://example.com"}).
		Info("page loaded", "elements", 3)

	entries := logs.All()
	require.Len(t, entries, 1)

	e := entries[0]
	assert.Equal(t, "page loaded", e.Message)
	assert.Equal(t, "live", e.LoggerName)
	ctx := e.ContextMap()
	assert.Equal(t, "selenium", ctx["backend"])
	assert.Equal(t, "https://example.com", ctx["source"])
	assert.EqualValues(t, 3, ctx["elements"])
}

func TestLoggerAdapter_Levels(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	log := NewFromZap(zap.New(core))

	log.Debug("d")
	log.Info("i")
	log.Warn("w")
	log.Error("e")

	var msgs []string
	for _, e := range logs.All() {
		msgs = append(msgs, e.Message)
	}
	assert.Equal(t, []string{"w", "e"}, msgs)
}

func TestNewLoggerAdapter_WritesFile(t *testing.T) {
	dir := t.TempDir()

	log, err := NewLoggerAdapter(Config{Level: "debug", Dir: dir, Name: "query p.x"})
	require.NoError(t, err)

	log.Debug("hello", "key", "value")
	require.NoError(t, log.Close())

	files, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.True(t, strings.HasSuffix(files[0].Name(), "_query_p_x.log"))

	data, err := os.ReadFile(filepath.Join(dir, files[0].Name()))
	require.NoError(t, err)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(string(data))), &entry))
	assert.Equal(t, "DEBUG", entry["level"])
	assert.Equal(t, "hello", entry["message"])
	assert.Equal(t, "value", entry["key"])
	assert.Contains(t, entry, "timestamp")
}

func TestNewLoggerAdapter_BadLevel(t *testing.T) {
	_, err := NewLoggerAdapter(Config{Level: "loud"})
	assert.Error(t, err)
}

func TestNewNop(t *testing.T) {
	log := NewNop()
	log.Info("ignored")
	assert.NoError(t, log.Close())
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"query", "query"},
		{"a b/c", "a_b_c"},
		{"///", "run"},
		{"", "run"},
		{strings.Repeat("x", 80), strings.Repeat("x", 60)},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, sanitize(tt.in))
		})
	}
}
