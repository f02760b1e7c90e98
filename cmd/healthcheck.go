package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/playlist-scraper/internal"
	"github.com/iksnae/playlist-scraper/internal/config"
	"github.com/iksnae/playlist-scraper/internal/rodbrowser"
	"github.com/spf13/cobra"
)

var (
	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39"))

	sectionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("62")).
			Bold(true).
			Underline(true)
)

// lookBrowser is replaced in tests
var lookBrowser = rodbrowser.LookPath

// healthcheckCmd represents the healthcheck command
var healthcheckCmd = &cobra.Command{
	Use:   "healthcheck",
	Short: "Check that a run has everything it needs",
	Long: `Check the environment a run depends on:
  • Browser binary discovery
  • Cookie record readability
  • Downloads directory writability
  • Capture history database

A missing browser or cookie record is only a warning: rod downloads Chromium
on first launch and the first run creates the record.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, sectionStyle.Render("🔍 Playlist Scraper Health Check"))
		fmt.Fprintln(out)

		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintln(out, errorStyle.Render("❌ Invalid configuration:"), err)
			return fmt.Errorf("health check failed: %w", err)
		}

		failed := 0

		// Step 1: Browser
		fmt.Fprintln(out, infoStyle.Render("Step 1: Locating browser..."))
		if cfg.BrowserBin != "" {
			if _, err := os.Stat(cfg.BrowserBin); err != nil {
				fmt.Fprintln(out, errorStyle.Render("❌ Configured browser not found:"), cfg.BrowserBin)
				failed++
			} else {
				fmt.Fprintln(out, successStyle.Render("✅ Using configured browser"))
				if verbose {
					fmt.Fprintf(out, "   Binary: %s\n", cfg.BrowserBin)
				}
			}
		} else if path, ok := lookBrowser(); ok {
			fmt.Fprintln(out, successStyle.Render("✅ System browser found"))
			if verbose {
				fmt.Fprintf(out, "   Binary: %s\n", path)
			}
		} else {
			fmt.Fprintln(out, warningStyle.Render("⚠️  No system browser found, Chromium will be downloaded on first run"))
		}
		fmt.Fprintln(out)

		// Step 2: Cookie record
		fmt.Fprintln(out, infoStyle.Render("Step 2: Reading cookie record..."))
		store := internal.NewSessionStore(cfg.CookiesPath)
		cookies, found, err := store.Read()
		var corrupt *internal.SessionCorruptionError
		switch {
		case errors.As(err, &corrupt):
			fmt.Fprintln(out, errorStyle.Render("❌ Cookie record is corrupted:"), err)
			fmt.Fprintf(out, "   Run 'playlist-scraper cookies clear' to start a fresh session\n")
			failed++
		case err != nil:
			fmt.Fprintln(out, errorStyle.Render("❌ Cookie record unreadable:"), err)
			failed++
		case !found:
			fmt.Fprintln(out, warningStyle.Render("⚠️  No cookie record yet, the first run creates it"))
			if verbose {
				fmt.Fprintf(out, "   Expected: %s\n", store.Path())
			}
		default:
			fmt.Fprintln(out, successStyle.Render(fmt.Sprintf("✅ Cookie record holds %d cookie(s)", len(cookies))))
			if verbose {
				fmt.Fprintf(out, "   Path: %s\n", store.Path())
			}
		}
		fmt.Fprintln(out)

		// Step 3: Downloads directory
		fmt.Fprintln(out, infoStyle.Render("Step 3: Checking downloads directory..."))
		if err := checkWritable(cfg.DownloadsDir); err != nil {
			fmt.Fprintln(out, errorStyle.Render("❌ Downloads directory not writable:"), err)
			failed++
		} else {
			fmt.Fprintln(out, successStyle.Render("✅ Downloads directory writable"))
			if verbose {
				fmt.Fprintf(out, "   Directory: %s\n", cfg.DownloadsDir)
			}
		}
		fmt.Fprintln(out)

		// Step 4: History
		fmt.Fprintln(out, infoStyle.Render("Step 4: Opening capture history..."))
		if cfg.HistoryPath == "" {
			fmt.Fprintln(out, warningStyle.Render("⚠️  Capture history disabled"))
		} else if err := checkHistory(cmd.Context(), cfg.HistoryPath); err != nil {
			fmt.Fprintln(out, warningStyle.Render("⚠️  Capture history unavailable:"), err)
		} else {
			fmt.Fprintln(out, successStyle.Render("✅ Capture history available"))
		}
		fmt.Fprintln(out)

		// Summary
		fmt.Fprintln(out, sectionStyle.Render("📊 Summary"))
		fmt.Fprintln(out)
		if failed > 0 {
			fmt.Fprintln(out, errorStyle.Render(fmt.Sprintf("❌ Health check failed (%d problem(s))", failed)))
			return fmt.Errorf("health check failed: %d problem(s)", failed)
		}
		fmt.Fprintln(out, successStyle.Render("✅ Health check passed!"))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(healthcheckCmd)
}

func checkWritable(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, ".healthcheck-*")
	if err != nil {
		return err
	}
	name := f.Name()
	_ = f.Close()
	return os.Remove(name)
}

func checkHistory(ctx context.Context, path string) error {
	history, err := internal.OpenHistory(path)
	if err != nil {
		return err
	}
	defer history.Close()
	_, err = history.Recent(ctx, internal.HistoryFilter{Limit: 1})
	return err
}
