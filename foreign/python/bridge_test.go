package python

import (
	"context"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

const fakeModule = `
print("fakemt5 loaded")

def chatty():
    print("hello from the terminal")
    return 42

def odd_floats():
    return [float("nan"), float("inf"), float("-inf"), 0.5]
`

// startBridge runs bridge.py under a real interpreter against a stand-in
// vendor module.
func startBridge(t *testing.T) (*Runtime, *observer.ObservedLogs) {
	t.Helper()
	py, err := exec.LookPath("python3")
	if err != nil {
		t.Skip("python3 not installed")
	}
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "fakemt5.py"), []byte(fakeModule), 0o600))

	core, logs := observer.New(zap.WarnLevel)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	r, err := Start(ctx, Options{Python: py, SitePackages: dir, Module: "fakemt5", Logger: zap.New(core)})
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })
	return r, logs
}

func TestBridgePrintsGoToLog(t *testing.T) {
	r, logs := startBridge(t)

	v, err := r.Call(context.Background(), "chatty", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(42), v)

	assert.Eventually(t, func() bool {
		return logs.FilterMessage("hello from the terminal").Len() == 1 &&
			logs.FilterMessage("fakemt5 loaded").Len() == 1
	}, 5*time.Second, 10*time.Millisecond)
}

func TestBridgeNonFiniteFloats(t *testing.T) {
	r, _ := startBridge(t)

	v, err := r.Call(context.Background(), "odd_floats", nil, nil)
	require.NoError(t, err)

	list, ok := v.([]any)
	require.True(t, ok)
	require.Len(t, list, 4)
	assert.True(t, math.IsNaN(list[0].(float64)))
	assert.Equal(t, math.Inf(1), list[1])
	assert.Equal(t, math.Inf(-1), list[2])
	assert.Equal(t, 0.5, list[3])
}
