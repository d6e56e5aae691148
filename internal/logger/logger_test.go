package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewRejectsUnknownLevel(t *testing.T) {
	t.Parallel()

	_, err := New(Options{Level: "chatty"})
	require.Error(t, err)
}

func TestLoggerWritesStructuredFields(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log, err := New(Options{Level: "debug", Writer: &buf})
	require.NoError(t, err)

	log.WithField("job", "channel-nightly").Info("job started")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, "channel-nightly", entry["job"])
	require.Equal(t, "job started", entry["message"])
	require.Equal(t, "info", entry["level"])
}

func TestLoggerLevelFiltersDebug(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log, err := New(Options{Level: "info", Writer: &buf})
	require.NoError(t, err)

	log.Debug("hidden")
	require.Zero(t, buf.Len())

	log.WithFields(map[string]any{"step": "build"}).Warn("slow step")
	require.Contains(t, buf.String(), "slow step")
}

func TestNilLoggerIsSafe(t *testing.T) {
	t.Parallel()

	var log *Logger
	require.Nil(t, log.WithField("k", "v"))
	log.Info("ignored")
	log.Error(nil, "ignored")
}
