package main

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"

	griderrors "github.com/alexisbeaulieu97/gridrun/pkg/errors"
)

func skipOnWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("POSIX shell assumptions do not hold on Windows")
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gridrun.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func runOpts(t *testing.T, configPath string) (runOptions, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	return runOptions{
		ConfigPath:     configPath,
		Event:          "push",
		RepoDir:        t.TempDir(),
		Parallel:       -1,
		Timeout:        -1,
		NonInteractive: true,
		Out:            &buf,
	}, &buf
}

const toleratedFailureConfig = `version: "1.0"
name: tolerant-matrix
on: [push]
matrix:
  axes:
    - name: channel
      values: [stable, nightly]
  include:
    - where: {channel: nightly}
      tolerant: true
steps:
  - id: build
    command: test "$MATRIX_CHANNEL" != nightly
`

func TestRunToleratedFailurePasses(t *testing.T) {
	skipOnWindows(t)
	t.Parallel()

	opts, buf := runOpts(t, writeConfig(t, toleratedFailureConfig))
	require.NoError(t, runRun(opts))

	out := buf.String()
	require.Contains(t, out, "(allowed to fail)")
	require.Contains(t, out, "PASSED")
}

func TestRunRequiredFailureFails(t *testing.T) {
	skipOnWindows(t)
	t.Parallel()

	config := `version: "1.0"
name: strict-matrix
on: [push]
matrix:
  axes:
    - name: channel
      values: [stable, nightly]
  include:
    - where: {channel: nightly}
      tolerant: true
steps:
  - id: build
    command: test "$MATRIX_CHANNEL" = nightly
`
	opts, buf := runOpts(t, writeConfig(t, config))

	err := runRun(opts)
	require.Error(t, err)
	require.Contains(t, err.Error(), "1 required job(s) failed")
	require.Contains(t, buf.String(), "FAILED")
}

func TestRunAllJobsReportedDespiteFailure(t *testing.T) {
	skipOnWindows(t)
	t.Parallel()

	config := `version: "1.0"
name: fail-open
on: [push]
matrix:
  axes:
    - name: channel
      values: [stable, beta, nightly]
steps:
  - id: build
    command: test "$MATRIX_CHANNEL" != beta
`
	opts, buf := runOpts(t, writeConfig(t, config))

	require.Error(t, runRun(opts))

	out := buf.String()
	require.Contains(t, out, "stable")
	require.Contains(t, out, "beta")
	require.Contains(t, out, "nightly")
	require.Contains(t, out, "3 jobs: 2 passed, 1 failed")
}

func TestRunUnknownEvent(t *testing.T) {
	t.Parallel()

	opts, _ := runOpts(t, writeConfig(t, toleratedFailureConfig))
	opts.Event = "cron"

	err := runRun(opts)
	var validationErr *griderrors.ValidationError
	require.ErrorAs(t, err, &validationErr)
}

func TestRunEventNotAccepted(t *testing.T) {
	t.Parallel()

	opts, _ := runOpts(t, writeConfig(t, toleratedFailureConfig))
	opts.Event = "pull_request"

	err := runRun(opts)
	var validationErr *griderrors.ValidationError
	require.ErrorAs(t, err, &validationErr)
}

func TestRunConfigurationErrorBeforeDispatch(t *testing.T) {
	t.Parallel()

	config := `version: "1.0"
name: broken
on: [push]
matrix:
  axes:
    - name: channel
      values: []
steps:
  - id: build
    command: echo should never run
`
	opts, buf := runOpts(t, writeConfig(t, config))

	err := runRun(opts)
	var validationErr *griderrors.ValidationError
	require.ErrorAs(t, err, &validationErr)
	require.Empty(t, buf.String())
}

func TestRunHonorsParallelOverride(t *testing.T) {
	skipOnWindows(t)
	t.Parallel()

	opts, buf := runOpts(t, writeConfig(t, toleratedFailureConfig))
	opts.Parallel = 1

	require.NoError(t, runRun(opts))
	require.Contains(t, buf.String(), "PASSED")
}
