package shellexec

import (
	"bytes"
	"context"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func skipOnWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("POSIX shell assumptions do not hold on Windows")
	}
}

func TestRunSuccess(t *testing.T) {
	skipOnWindows(t)

	res, err := Run(context.Background(), Options{Command: "echo hello world"})
	require.NoError(t, err)
	assert.Equal(t, "hello world", res.Stdout)
	assert.Equal(t, "", res.Stderr)
	assert.Equal(t, 0, res.ExitCode)
}

func TestRunNonZeroExit(t *testing.T) {
	skipOnWindows(t)

	res, err := Run(context.Background(), Options{Command: "echo boom >&2; exit 3"})
	require.Error(t, err)
	assert.Equal(t, "boom", res.Stderr)
	assert.Equal(t, 3, res.ExitCode)
	assert.Equal(t, "boom", PrimaryOutput(res))
}

func TestRunCustomEnvAndWorkDir(t *testing.T) {
	skipOnWindows(t)

	dir := t.TempDir()
	res, err := Run(context.Background(), Options{
		Command: "echo $MATRIX_CHANNEL; pwd",
		WorkDir: dir,
		Env:     map[string]string{"MATRIX_CHANNEL": "nightly"},
	})
	require.NoError(t, err)
	assert.Contains(t, res.Stdout, "nightly")
	assert.Contains(t, res.Stdout, dir)
}

func TestRunStreamsToWriters(t *testing.T) {
	skipOnWindows(t)

	var stdout bytes.Buffer
	res, err := Run(context.Background(), Options{Command: "echo piped", Stdout: &stdout})
	require.NoError(t, err)
	assert.Equal(t, "piped", res.Stdout)
	assert.Equal(t, "piped\n", stdout.String())
}

func TestRunContextCancellation(t *testing.T) {
	skipOnWindows(t)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := Run(ctx, Options{Command: "sleep 5"})
	require.Error(t, err)
}

func TestRunMissingShell(t *testing.T) {
	skipOnWindows(t)

	res, err := Run(context.Background(), Options{Command: "echo hi", Shell: "/nonexistent/shell"})
	require.Error(t, err)
	assert.Equal(t, -1, res.ExitCode)
}
