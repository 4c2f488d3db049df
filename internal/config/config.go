package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	UI      UIConfig      `mapstructure:"ui"`
	Table   TableConfig   `mapstructure:"table"`
	Console ConsoleConfig `mapstructure:"console"`
	Data    DataConfig    `mapstructure:"data"`
	History HistoryConfig `mapstructure:"history"`
	Presets PresetsConfig `mapstructure:"presets"`
	Log     LogConfig     `mapstructure:"log"`
}

type UIConfig struct {
	Theme        string `mapstructure:"theme"`
	MouseEnabled bool   `mapstructure:"mouse_enabled"`
}

type TableConfig struct {
	PageSize     int `mapstructure:"page_size"`
	MaxCellWidth int `mapstructure:"max_cell_width"`
	MinCellWidth int `mapstructure:"min_cell_width"`
}

type ConsoleConfig struct {
	Capacity        int    `mapstructure:"capacity"`
	IntervalMs      int    `mapstructure:"interval_ms"`
	HeaderText      string `mapstructure:"header_text"`
	ClearButtonText string `mapstructure:"clear_button_text"`
}

type DataConfig struct {
	Driver   string `mapstructure:"driver"`
	DSN      string `mapstructure:"dsn"`
	Table    string `mapstructure:"table"`
	SeedDemo bool   `mapstructure:"seed_demo"`
}

type HistoryConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

type PresetsConfig struct {
	Path string `mapstructure:"path"`
}

type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

// GetDefaults returns a Config with all default values
func GetDefaults() *Config {
	return &Config{
		UI: UIConfig{
			Theme:        "default",
			MouseEnabled: true,
		},
		Table: TableConfig{
			PageSize:     20,
			MaxCellWidth: 40,
			MinCellWidth: 6,
		},
		Console: ConsoleConfig{
			Capacity:        8,
			IntervalMs:      2000,
			HeaderText:      "System Monitor",
			ClearButtonText: "Clear",
		},
		Data: DataConfig{
			Driver:   "sqlite",
			DSN:      "file:lazykit-demo?mode=memory&cache=shared",
			Table:    "people",
			SeedDemo: true,
		},
		History: HistoryConfig{
			Enabled: true,
			Path:    "",
		},
		Presets: PresetsConfig{
			Path: "",
		},
		Log: LogConfig{
			Level:      "info",
			Format:     "text",
			File:       "",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
			Compress:   false,
		},
	}
}

func setDefaults(v *viper.Viper) {
	d := GetDefaults()
	v.SetDefault("ui.theme", d.UI.Theme)
	v.SetDefault("ui.mouse_enabled", d.UI.MouseEnabled)
	v.SetDefault("table.page_size", d.Table.PageSize)
	v.SetDefault("table.max_cell_width", d.Table.MaxCellWidth)
	v.SetDefault("table.min_cell_width", d.Table.MinCellWidth)
	v.SetDefault("console.capacity", d.Console.Capacity)
	v.SetDefault("console.interval_ms", d.Console.IntervalMs)
	v.SetDefault("console.header_text", d.Console.HeaderText)
	v.SetDefault("console.clear_button_text", d.Console.ClearButtonText)
	v.SetDefault("data.driver", d.Data.Driver)
	v.SetDefault("data.dsn", d.Data.DSN)
	v.SetDefault("data.table", d.Data.Table)
	v.SetDefault("data.seed_demo", d.Data.SeedDemo)
	v.SetDefault("history.enabled", d.History.Enabled)
	v.SetDefault("history.path", d.History.Path)
	v.SetDefault("presets.path", d.Presets.Path)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("log.file", d.Log.File)
	v.SetDefault("log.max_size_mb", d.Log.MaxSizeMB)
	v.SetDefault("log.max_backups", d.Log.MaxBackups)
	v.SetDefault("log.max_age_days", d.Log.MaxAgeDays)
	v.SetDefault("log.compress", d.Log.Compress)
}

// Load loads configuration from the default search paths
func Load() (*Config, error) {
	return LoadFrom("")
}

// LoadFrom loads configuration from file, or from the default search
// paths when file is empty. Environment variables prefixed LAZYKIT_
// override file values; a .env file in the working directory is read
// first when present.
func LoadFrom(file string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("error reading .env: %w", err)
	}

	v := viper.New()

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		// 1. User config directory
		if dir, err := GetConfigPath(); err == nil {
			v.AddConfigPath(dir)
		}
		// 2. Current directory
		v.AddConfigPath(".")
		// 3. Default config directory
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix("LAZYKIT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Read config (it's okay if file doesn't exist, we have defaults)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks values that have no usable fallback
func (c *Config) Validate() error {
	switch strings.ToLower(c.Data.Driver) {
	case "sqlite", "sqlite3", "postgres", "postgresql", "pgx":
	default:
		return fmt.Errorf("invalid data.driver %q", c.Data.Driver)
	}
	if c.Data.Table == "" {
		return fmt.Errorf("data.table must not be empty")
	}
	if c.Table.PageSize <= 0 {
		return fmt.Errorf("table.page_size must be positive, got %d", c.Table.PageSize)
	}
	if c.Console.Capacity <= 0 {
		return fmt.Errorf("console.capacity must be positive, got %d", c.Console.Capacity)
	}
	return nil
}

// GetConfigPath returns the user config directory path
func GetConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "lazykit"), nil
}

// ResolvePath returns p, or name inside the config directory when p is
// empty.
func ResolvePath(p, name string) (string, error) {
	if p != "" {
		return p, nil
	}
	dir, err := GetConfigPath()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}
