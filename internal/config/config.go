// Package config loads scraper settings from defaults, a dotenv file, the
// environment and command-line flags, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/iksnae/playlist-scraper/internal"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment key, e.g. PLAYLIST_COOKIES_PATH
const EnvPrefix = "PLAYLIST"

// Config holds all scraper settings
type Config struct {
	CookiesPath  string `mapstructure:"cookies_path"`
	DownloadsDir string `mapstructure:"downloads_dir"`
	HistoryPath  string `mapstructure:"history_path"`

	MatchPattern   string `mapstructure:"match_pattern"`
	ListSelector   string `mapstructure:"list_selector"`
	AnchorSelector string `mapstructure:"anchor_selector"`
	PopupSelector  string `mapstructure:"popup_selector"`

	PopupGrace       time.Duration `mapstructure:"popup_grace"`
	DiscoveryTimeout time.Duration `mapstructure:"discovery_timeout"`
	PageTimeout      time.Duration `mapstructure:"page_timeout"`
	CaptureGrace     time.Duration `mapstructure:"capture_grace"`

	Headless   bool   `mapstructure:"headless"`
	BrowserBin string `mapstructure:"browser_bin"`
	LogLevel   string `mapstructure:"log_level"`
}

// Default returns the settings for the supported site template
func Default() *Config {
	opts := internal.DefaultOptions()
	return &Config{
		CookiesPath:      "cookies.json",
		DownloadsDir:     opts.DownloadsDir,
		HistoryPath:      "history.db",
		MatchPattern:     opts.MatchPattern,
		ListSelector:     opts.ListSelector,
		AnchorSelector:   opts.AnchorSelector,
		PopupSelector:    opts.PopupSelector,
		PopupGrace:       opts.PopupGrace,
		DiscoveryTimeout: opts.DiscoveryTimeout,
		PageTimeout:      opts.PageTimeout,
		CaptureGrace:     opts.CaptureGrace,
		Headless:         true,
		LogLevel:         "info",
	}
}

// SetDefaults registers defaults and environment lookup on the global viper
func SetDefaults() {
	defaults := Default()

	viper.SetDefault("cookies_path", defaults.CookiesPath)
	viper.SetDefault("downloads_dir", defaults.DownloadsDir)
	viper.SetDefault("history_path", defaults.HistoryPath)

	viper.SetDefault("match_pattern", defaults.MatchPattern)
	viper.SetDefault("list_selector", defaults.ListSelector)
	viper.SetDefault("anchor_selector", defaults.AnchorSelector)
	viper.SetDefault("popup_selector", defaults.PopupSelector)

	viper.SetDefault("popup_grace", defaults.PopupGrace)
	viper.SetDefault("discovery_timeout", defaults.DiscoveryTimeout)
	viper.SetDefault("page_timeout", defaults.PageTimeout)
	viper.SetDefault("capture_grace", defaults.CaptureGrace)

	viper.SetDefault("headless", defaults.Headless)
	viper.SetDefault("browser_bin", defaults.BrowserBin)
	viper.SetDefault("log_level", defaults.LogLevel)

	viper.SetEnvPrefix(EnvPrefix)
	viper.AutomaticEnv()
}

// Load reads the configuration from viper into a Config struct and validates it
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// ToOptions converts the settings into orchestrator options
func (c *Config) ToOptions() internal.Options {
	return internal.Options{
		DownloadsDir:     c.DownloadsDir,
		MatchPattern:     c.MatchPattern,
		ListSelector:     c.ListSelector,
		AnchorSelector:   c.AnchorSelector,
		PopupSelector:    c.PopupSelector,
		PopupGrace:       c.PopupGrace,
		DiscoveryTimeout: c.DiscoveryTimeout,
		PageTimeout:      c.PageTimeout,
		CaptureGrace:     c.CaptureGrace,
	}
}

// LoadDotEnv exports the KEY=VALUE pairs of path into the process
// environment. Variables that are already set win. A missing file is not an
// error.
func LoadDotEnv(path string) (int, error) {
	if path == "" {
		return 0, nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return 0, nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")
	if err := v.ReadInConfig(); err != nil {
		return 0, fmt.Errorf("failed to read env file %s: %w", path, err)
	}

	set := 0
	for _, key := range v.AllKeys() {
		name := strings.ToUpper(key)
		if _, exists := os.LookupEnv(name); exists {
			continue
		}
		if err := os.Setenv(name, v.GetString(key)); err != nil {
			return set, fmt.Errorf("failed to set %s: %w", name, err)
		}
		set++
	}
	return set, nil
}
