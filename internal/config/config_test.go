package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("CASESCOPE_CONFIG", "")
	return home
}

func TestLoadDefaults(t *testing.T) {
	home := isolate(t)

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, SourceCSV, cfg.Data.Source)
	require.Equal(t, "Province_State", cfg.Data.RegionColumn)
	require.Equal(t, 11, cfg.Data.ConfirmedLeadingColumns)
	require.Equal(t, 12, cfg.Data.DeathsLeadingColumns)
	require.Equal(t, []string{"name", "NAME", "Province_State"}, cfg.Data.BoundaryKeys)
	require.Equal(t, "1/2/06", cfg.Data.DateLayout)
	require.Equal(t, time.Duration(0), cfg.Data.LoadTimeout)
	require.Equal(t, filepath.Join(home, ".local", "share", "casescope", "casescope.db"), cfg.Database.Path)
	require.Equal(t, int64(100000), cfg.UI.ShadeScale)
	require.Equal(t, filepath.Join(home, ".local", "share", "casescope", "casescope.log"), cfg.LogPath())
}

func TestLoadFileAndEnvOverride(t *testing.T) {
	home := isolate(t)
	path := filepath.Join(home, "custom.toml")
	body := `
[data]
source = "sqlite"
date_layout = "2006-01-02"
load_timeout = "30s"

[log]
level = "debug"
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	t.Setenv("CASESCOPE_CONFIG", path)
	t.Setenv("CASESCOPE_LOG_FORMAT", "json")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, SourceSQLite, cfg.Data.Source)
	require.Equal(t, "2006-01-02", cfg.Data.DateLayout)
	require.Equal(t, 30*time.Second, cfg.Data.LoadTimeout)
	require.Equal(t, "debug", cfg.Log.Level)
	require.Equal(t, "json", cfg.Log.Format)
}

func TestLoadRejectsUnknownSource(t *testing.T) {
	isolate(t)
	t.Setenv("CASESCOPE_DATA_SOURCE", "parquet")

	_, err := Load()
	require.ErrorContains(t, err, "data.source")
}

func TestLoadMissingExplicitFile(t *testing.T) {
	home := isolate(t)
	t.Setenv("CASESCOPE_CONFIG", filepath.Join(home, "nope.toml"))

	_, err := Load()
	require.Error(t, err)
}
