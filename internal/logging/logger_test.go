package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildRejectsLevel(t *testing.T) {
	_, err := Build("loud", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"loud"`)
}

func TestBuildWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "mt5.log")

	log, err := Build("info", path)
	require.NoError(t, err)
	log.Info("terminal_initialized")
	log.Debug("hidden")
	_ = log.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"terminal_initialized"`)
	assert.NotContains(t, string(data), "hidden")
}
