package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config holds the resolved application configuration.
type Config struct {
	// Theme name: "dark" (default) or "light".
	Theme string `mapstructure:"theme"`
	// Editor to use when opening a file externally (falls back to $EDITOR).
	Editor string `mapstructure:"editor"`
	// ConfirmDestructive prompts before force push, discard, stash drop.
	ConfirmDestructive bool `mapstructure:"confirm_destructive"`
	// DiffContextLines is the number of context lines in diffs.
	DiffContextLines int `mapstructure:"diff_context_lines"`
	// SideBySideDiff enables side-by-side diff mode by default.
	SideBySideDiff bool `mapstructure:"side_by_side_diff"`
	// ShowIcons toggles devicon glyphs next to file names.
	ShowIcons bool `mapstructure:"show_icons"`
	// CacheTTLMs is how long git query results stay fresh, in milliseconds.
	CacheTTLMs int `mapstructure:"cache_ttl_ms"`
	// RefreshDebounceMs coalesces filesystem events, in milliseconds.
	RefreshDebounceMs int `mapstructure:"refresh_debounce_ms"`
	// DebugLog is a file path for the debug trace. Empty disables it.
	DebugLog string `mapstructure:"debug_log"`

	// Keys is the action-to-key mapping. Not read from the config file
	// yet; always the defaults.
	Keys KeyBindings `mapstructure:"-"`
}

// CacheTTL returns the git cache TTL as a duration.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLMs) * time.Millisecond
}

// RefreshDebounce returns the watcher debounce window as a duration.
func (c *Config) RefreshDebounce() time.Duration {
	return time.Duration(c.RefreshDebounceMs) * time.Millisecond
}

// Load reads configuration from ~/.config/scmview/config.yaml, with
// SCMVIEW_* environment variables taking precedence.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	configDir := configDirectory()
	v.AddConfigPath(configDir)
	v.AddConfigPath(".")

	setDefaults(v)

	v.SetEnvPrefix("SCMVIEW")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// Config file not found is fine — use defaults.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	cfg.Keys = DefaultKeyBindings()
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("theme", "dark")
	v.SetDefault("editor", "")
	v.SetDefault("confirm_destructive", true)
	v.SetDefault("diff_context_lines", 3)
	v.SetDefault("side_by_side_diff", false)
	v.SetDefault("show_icons", true)
	v.SetDefault("cache_ttl_ms", 2000)
	v.SetDefault("refresh_debounce_ms", 500)
	v.SetDefault("debug_log", "")
}

func configDirectory() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "scmview")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "scmview")
}
