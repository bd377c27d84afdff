package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Data     DataConfig     `mapstructure:"data"`
	Database DatabaseConfig `mapstructure:"database"`
	Log      LogConfig      `mapstructure:"log"`
	UI       UIConfig       `mapstructure:"ui"`
}

// DataConfig describes where the source tables and boundaries come from and how to read them.
type DataConfig struct {
	Source                  string        `mapstructure:"source"`
	ConfirmedPath           string        `mapstructure:"confirmed_path"`
	DeathsPath              string        `mapstructure:"deaths_path"`
	BoundariesPath          string        `mapstructure:"boundaries_path"`
	BoundaryObject          string        `mapstructure:"boundary_object"`
	BoundaryKeys            []string      `mapstructure:"boundary_keys"`
	RegionColumn            string        `mapstructure:"region_column"`
	ConfirmedLeadingColumns int           `mapstructure:"confirmed_leading_columns"`
	DeathsLeadingColumns    int           `mapstructure:"deaths_leading_columns"`
	DateLayout              string        `mapstructure:"date_layout"`
	LoadTimeout             time.Duration `mapstructure:"load_timeout"`
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// LogConfig holds slog settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Path   string `mapstructure:"path"`
}

// UIConfig holds presentation settings.
type UIConfig struct {
	ShadeScale      int64   `mapstructure:"shade_scale"`
	SearchThreshold float64 `mapstructure:"search_threshold"`
}

const (
	SourceCSV    = "csv"
	SourceSQLite = "sqlite"
)

func dataDir() string {
	return filepath.Join(os.Getenv("HOME"), ".local", "share", "casescope")
}

// Load reads configuration from file and env. Env var overrides use prefix CASESCOPE_.
func Load() (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType("toml")

	cfgPath := os.Getenv("CASESCOPE_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "casescope"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("CASESCOPE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// an explicitly named file must exist; the default location is optional
	if err := v.ReadInConfig(); err != nil && cfgPath != "" {
		return Config{}, fmt.Errorf("read config %s: %w", cfgPath, err)
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("data.source", SourceCSV)
	v.SetDefault("data.confirmed_path", filepath.Join("data", "time_series_covid19_confirmed_US.csv"))
	v.SetDefault("data.deaths_path", filepath.Join("data", "time_series_covid19_deaths_US.csv"))
	v.SetDefault("data.boundaries_path", "https://d3js.org/us-10m.v1.json")
	v.SetDefault("data.boundary_object", "states")
	v.SetDefault("data.boundary_keys", []string{"name", "NAME", "Province_State"})
	v.SetDefault("data.region_column", "Province_State")
	v.SetDefault("data.confirmed_leading_columns", 11)
	v.SetDefault("data.deaths_leading_columns", 12)
	v.SetDefault("data.date_layout", "1/2/06")
	v.SetDefault("data.load_timeout", "0s")
	v.SetDefault("database.path", filepath.Join(dataDir(), "casescope.db"))
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.path", "")
	v.SetDefault("ui.shade_scale", 100000)
	v.SetDefault("ui.search_threshold", 0.4)
}

// Validate rejects settings the loaders cannot work with.
func (c Config) Validate() error {
	switch c.Data.Source {
	case SourceCSV, SourceSQLite:
	default:
		return fmt.Errorf("config: data.source %q: want %q or %q", c.Data.Source, SourceCSV, SourceSQLite)
	}
	if c.Data.ConfirmedLeadingColumns <= 0 || c.Data.DeathsLeadingColumns <= 0 {
		return fmt.Errorf("config: leading column counts must be positive")
	}
	if strings.TrimSpace(c.Data.RegionColumn) == "" {
		return fmt.Errorf("config: data.region_column is required")
	}
	if strings.TrimSpace(c.Data.DateLayout) == "" {
		return fmt.Errorf("config: data.date_layout is required")
	}
	if len(c.Data.BoundaryKeys) == 0 {
		return fmt.Errorf("config: data.boundary_keys must name at least one property")
	}
	if c.Data.LoadTimeout < 0 {
		return fmt.Errorf("config: data.load_timeout must not be negative")
	}
	if c.UI.ShadeScale <= 0 {
		return fmt.Errorf("config: ui.shade_scale must be positive")
	}
	return nil
}

// LogPath returns where the interactive UI should write its log.
func (c Config) LogPath() string {
	if c.Log.Path != "" {
		return c.Log.Path
	}
	return filepath.Join(filepath.Dir(c.Database.Path), "casescope.log")
}
