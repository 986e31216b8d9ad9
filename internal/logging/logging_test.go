package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_WritesFile(t *testing.T) {
	dir := t.TempDir()

	logger, err := New(Options{Dir: dir, Level: "debug"})
	require.NoError(t, err)

	logger.Infow("task added", "id", "abc")
	_ = logger.Sync()

	data, err := os.ReadFile(filepath.Join(dir, "taskman.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "task added")
	assert.Contains(t, string(data), `"id":"abc"`)
}

func TestNew_InvalidLevel(t *testing.T) {
	_, err := New(Options{Level: "loud"})
	assert.Error(t, err)
}

func TestNew_NopWhenUnconfigured(t *testing.T) {
	logger, err := New(Options{})
	require.NoError(t, err)
	logger.Info("goes nowhere")
}

func TestOrNop(t *testing.T) {
	assert.NotNil(t, OrNop(nil))
}
