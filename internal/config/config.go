package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Lang   LangConfig
	Report ReportConfig
	Window WindowConfig
	Debug  DebugConfig
}

// LangConfig holds language negotiation settings.
type LangConfig struct {
	Default  string
	Fallback string
}

// ReportConfig holds size-reporter settings.
type ReportConfig struct {
	Debounce int // milliseconds
}

// WindowConfig holds placement settings.
type WindowConfig struct {
	Margin int
}

// DebugConfig holds diagnostics settings. The TUI owns stdout, so debug
// logging goes to a file when set and is discarded otherwise.
type DebugConfig struct {
	Logfile string
}

// Load reads configuration from file and env. Env var overrides use prefix
// NOTIBRIDGE_.
func Load() (Config, error) {
	v := viper.New()

	// default values
	v.SetDefault("lang.default", "en")
	v.SetDefault("lang.fallback", "en")
	v.SetDefault("report.debounce", 40)
	v.SetDefault("window.margin", 1)
	v.SetDefault("debug.logfile", "")

	v.SetConfigType("toml")

	cfgPath := os.Getenv("NOTIBRIDGE_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "notibridge"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("NOTIBRIDGE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	_ = v.ReadInConfig()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}
