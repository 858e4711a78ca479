package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "finwise.log")
	logger, err := New(Config{File: path, Level: "info"})
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Info("lesson completed")
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	assert.True(t, strings.Contains(out, `"msg":"lesson completed"`))
	assert.False(t, strings.Contains(out, "hidden"))
}

func TestNewRejectsBadLevel(t *testing.T) {
	_, err := New(Config{File: filepath.Join(t.TempDir(), "x.log"), Level: "loud"})
	assert.Error(t, err)
}

func TestNewWithoutFileIsNop(t *testing.T) {
	logger, err := New(Config{})
	require.NoError(t, err)
	logger.Info("dropped")
}

func TestDefaultFileHonorsXDG(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", "/tmp/state")
	got, err := DefaultFile()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/state/finwise/finwise.log", got)
}
