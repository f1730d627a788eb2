package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/sadopc/due/internal/store"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFile     = "config.yaml"

	keyStatePath     = "state_path"
	keyHistoryPath   = "history_path"
	keyTickMs        = "tick_ms"
	keyAccentColor   = "accent_color"
	keyConfirmDelete = "confirm_delete"
	keyLogLevel      = "log_level"
)

// defaultConfigYAML is written to config.yaml on first run.
const defaultConfigYAML = `# due configuration

# Where timer state and finish history live.
# Empty means ~/.local/share/due.
# state_path:
# history_path:

# UI tick interval in milliseconds.
tick_ms: 1000

# Accent color (ANSI 256 index or hex).
accent_color: "212"

# Ask before deleting a timer.
confirm_delete: true

# Log verbosity: debug, info, warn, error.
log_level: info
`

// Config is the resolved application configuration. Fields are plain
// values; Save writes them back to the file they were loaded from.
type Config struct {
	StatePath     string
	HistoryPath   string
	TickMs        int
	AccentColor   string
	ConfirmDelete bool
	LogLevel      string

	v    *viper.Viper
	path string
}

// Dir resolves the config directory: $DUE_CONFIG_DIR if set, otherwise
// the user config dir (~/.config/due).
func Dir() string {
	if dir := os.Getenv("DUE_CONFIG_DIR"); dir != "" {
		return dir
	}
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "."
	}
	return filepath.Join(cfg, "due")
}

// Default is the built-in configuration, used when loading fails.
func Default() *Config {
	return &Config{
		StatePath:     store.DefaultStatePath(),
		HistoryPath:   store.DefaultHistoryPath(),
		TickMs:        1000,
		AccentColor:   "212",
		ConfirmDelete: true,
		LogLevel:      "info",
	}
}

// Load reads the config from the default directory, creating the
// directory and a commented default file on first run.
func Load() (*Config, error) {
	return LoadFrom(Dir())
}

// LoadFrom reads the config from dir. Environment variables with the
// DUE_ prefix override file values (DUE_TICK_MS, DUE_LOG_LEVEL, ...).
func LoadFrom(dir string) (*Config, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create config dir: %w", err)
	}
	path := filepath.Join(dir, configFile)
	if err := ensureDefaultConfigFile(path); err != nil {
		return nil, fmt.Errorf("write default config: %w", err)
	}

	v := viper.New()
	v.SetDefault(keyStatePath, store.DefaultStatePath())
	v.SetDefault(keyHistoryPath, store.DefaultHistoryPath())
	v.SetDefault(keyTickMs, 1000)
	v.SetDefault(keyAccentColor, "212")
	v.SetDefault(keyConfirmDelete, true)
	v.SetDefault(keyLogLevel, "info")
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(dir)
	v.SetEnvPrefix("DUE")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	c := &Config{
		StatePath:     v.GetString(keyStatePath),
		HistoryPath:   v.GetString(keyHistoryPath),
		TickMs:        v.GetInt(keyTickMs),
		AccentColor:   v.GetString(keyAccentColor),
		ConfirmDelete: v.GetBool(keyConfirmDelete),
		LogLevel:      v.GetString(keyLogLevel),
		v:             v,
		path:          path,
	}
	if c.StatePath == "" {
		c.StatePath = store.DefaultStatePath()
	}
	if c.HistoryPath == "" {
		c.HistoryPath = store.DefaultHistoryPath()
	}
	if c.TickMs <= 0 {
		c.TickMs = 1000
	}
	if c.AccentColor == "" {
		c.AccentColor = "212"
	}
	return c, nil
}

// Save writes the current values back to the config file.
func (c *Config) Save() error {
	if c.v == nil {
		c.v = viper.New()
		c.v.SetConfigType(configFileType)
		c.path = filepath.Join(Dir(), configFile)
	}
	c.v.Set(keyStatePath, c.StatePath)
	c.v.Set(keyHistoryPath, c.HistoryPath)
	c.v.Set(keyTickMs, c.TickMs)
	c.v.Set(keyAccentColor, c.AccentColor)
	c.v.Set(keyConfirmDelete, c.ConfirmDelete)
	c.v.Set(keyLogLevel, c.LogLevel)

	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := c.v.WriteConfigAs(c.path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// TickInterval is the UI reconciliation period.
func (c *Config) TickInterval() time.Duration {
	return time.Duration(c.TickMs) * time.Millisecond
}

// SlogLevel maps log_level onto its slog value, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ensureDefaultConfigFile creates a commented config.yaml if none
// exists yet.
func ensureDefaultConfigFile(path string) error {
	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}
	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}
