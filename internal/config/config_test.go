package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/iksnae/playlist-scraper/testutil"
	"github.com/spf13/viper"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.CookiesPath != "cookies.json" {
		t.Errorf("CookiesPath = %q, want cookies.json", cfg.CookiesPath)
	}
	if cfg.DownloadsDir != "downloads" {
		t.Errorf("DownloadsDir = %q, want downloads", cfg.DownloadsDir)
	}
	if cfg.MatchPattern != "/allocate/playlist/" {
		t.Errorf("MatchPattern = %q", cfg.MatchPattern)
	}
	if cfg.ListSelector != "ul.play-list" || cfg.AnchorSelector != "ul.play-list a" {
		t.Errorf("selectors = %q, %q", cfg.ListSelector, cfg.AnchorSelector)
	}
	if cfg.PopupSelector != ".pop-close-btn" || cfg.PopupGrace != 3*time.Second {
		t.Errorf("popup = %q, %v", cfg.PopupSelector, cfg.PopupGrace)
	}
	if !cfg.Headless {
		t.Error("Headless should be true by default")
	}
	if errs := cfg.Validate(); len(errs) != 0 {
		t.Errorf("Default().Validate() = %v", errs)
	}
}

func TestLoadDefaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	SetDefaults()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if *cfg != *Default() {
		t.Errorf("Load() = %+v, want defaults %+v", cfg, Default())
	}
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	t.Setenv("PLAYLIST_COOKIES_PATH", "/tmp/state/cookies.json")
	t.Setenv("PLAYLIST_PAGE_TIMEOUT", "45s")
	t.Setenv("PLAYLIST_HEADLESS", "false")
	t.Setenv("PLAYLIST_LOG_LEVEL", "debug")
	SetDefaults()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.CookiesPath != "/tmp/state/cookies.json" {
		t.Errorf("CookiesPath = %q", cfg.CookiesPath)
	}
	if cfg.PageTimeout != 45*time.Second {
		t.Errorf("PageTimeout = %v, want 45s", cfg.PageTimeout)
	}
	if cfg.Headless {
		t.Error("Headless should be false from the environment")
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q", cfg.LogLevel)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	t.Setenv("PLAYLIST_DOWNLOADS_DIR", " ")
	t.Setenv("PLAYLIST_CAPTURE_GRACE", "-1s")
	t.Setenv("PLAYLIST_LOG_LEVEL", "chatty")
	SetDefaults()

	_, err := Load()
	var verrs ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("Load() error = %v, want ValidationErrors", err)
	}
	if len(verrs) != 3 {
		t.Errorf("got %d validation errors, want 3: %v", len(verrs), verrs)
	}
	if !strings.Contains(err.Error(), "3 validation errors") {
		t.Errorf("error message = %q", err.Error())
	}
}

func TestToOptions(t *testing.T) {
	cfg := Default()
	cfg.DownloadsDir = "out"
	cfg.CaptureGrace = time.Second

	opts := cfg.ToOptions()
	if opts.DownloadsDir != "out" || opts.CaptureGrace != time.Second {
		t.Errorf("ToOptions() = %+v", opts)
	}
	if opts.MatchPattern != cfg.MatchPattern || opts.PopupGrace != cfg.PopupGrace {
		t.Errorf("ToOptions() did not copy defaults: %+v", opts)
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := testutil.CreateTempDir(t)
	path := testutil.CreateEnvFixture(t, dir, strings.Join([]string{
		"# scraper settings",
		"PLAYLIST_TEST_DOWNLOADS=from-file",
		"PLAYLIST_TEST_EXISTING=from-file",
		`PLAYLIST_TEST_QUOTED="with spaces"`,
	}, "\n"))

	// registered with t.Setenv so they are restored afterwards
	t.Setenv("PLAYLIST_TEST_EXISTING", "from-env")
	t.Setenv("PLAYLIST_TEST_DOWNLOADS", "")
	t.Setenv("PLAYLIST_TEST_QUOTED", "")
	os.Unsetenv("PLAYLIST_TEST_DOWNLOADS")
	os.Unsetenv("PLAYLIST_TEST_QUOTED")

	n, err := LoadDotEnv(path)
	if err != nil {
		t.Fatalf("LoadDotEnv() error = %v", err)
	}
	if n != 2 {
		t.Errorf("LoadDotEnv() set %d variables, want 2", n)
	}
	if got := os.Getenv("PLAYLIST_TEST_DOWNLOADS"); got != "from-file" {
		t.Errorf("PLAYLIST_TEST_DOWNLOADS = %q", got)
	}
	if got := os.Getenv("PLAYLIST_TEST_EXISTING"); got != "from-env" {
		t.Errorf("existing variable overwritten: %q", got)
	}
	if got := os.Getenv("PLAYLIST_TEST_QUOTED"); got != "with spaces" {
		t.Errorf("PLAYLIST_TEST_QUOTED = %q", got)
	}
}

func TestLoadDotEnvMissingFile(t *testing.T) {
	n, err := LoadDotEnv(filepath.Join(testutil.CreateTempDir(t), ".env"))
	if err != nil || n != 0 {
		t.Errorf("LoadDotEnv() = %d, %v; want 0, nil", n, err)
	}
	if n, err := LoadDotEnv(""); err != nil || n != 0 {
		t.Errorf("LoadDotEnv(\"\") = %d, %v; want 0, nil", n, err)
	}
}

func TestValidationErrorsFormatting(t *testing.T) {
	single := ValidationErrors{{Field: "page_timeout", Value: -1, Message: "must not be negative"}}
	if got := single.Error(); got != "page_timeout: must not be negative (got: -1)" {
		t.Errorf("Error() = %q", got)
	}
	if got := (ValidationErrors{}).Error(); got != "" {
		t.Errorf("empty Error() = %q", got)
	}
}
