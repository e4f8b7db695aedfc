package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewWritesJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "exambank.log")
	var console bytes.Buffer

	log, err := New(Options{Level: "debug", File: path, Console: &console})
	require.NoError(t, err)
	log.Info("exam approved", zap.String("exam", "Midterm"), zap.Int("questions", 12))
	log.Debug("pool sorted")
	require.NoError(t, log.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "exam approved", entry["msg"])
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "Midterm", entry["exam"])
	assert.EqualValues(t, 12, entry["questions"])

	assert.Contains(t, console.String(), "exam approved")
}

func TestNewLevelFilters(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exambank.log")
	log, err := New(Options{Level: "warn", File: path})
	require.NoError(t, err)
	log.Info("hidden")
	log.Warn("shown")
	require.NoError(t, log.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "hidden")
	assert.Contains(t, string(data), "shown")
}

func TestNewRejectsBadLevel(t *testing.T) {
	_, err := New(Options{Level: "loud", File: filepath.Join(t.TempDir(), "x.log")})
	require.Error(t, err)
}

func TestDefaultPath(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_STATE_HOME", dir)
	p, err := DefaultPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "exambank", "exambank.log"), p)
}
