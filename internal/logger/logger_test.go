package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jask/casescope/internal/config"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()
	require.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	require.Equal(t, slog.LevelWarn, ParseLevel(" warn "))
	require.Equal(t, slog.LevelError, ParseLevel("error"))
	require.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestSetupJSON(t *testing.T) {
	var buf bytes.Buffer
	l := Setup(config.LogConfig{Level: "info", Format: "json"}, &buf)

	l.Debug("hidden")
	l.Info("dataset_loaded", "rows", 3)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	require.Equal(t, "dataset_loaded", rec["msg"])
	require.EqualValues(t, 3, rec["rows"])
}
