package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/iksnae/playlist-scraper/internal"
	"github.com/iksnae/playlist-scraper/internal/config"
	"github.com/iksnae/playlist-scraper/internal/export"
	"github.com/iksnae/playlist-scraper/internal/rodbrowser"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	summaryFormat string
)

// launchBrowser is replaced in tests
var launchBrowser = func(ctx context.Context, cfg *config.Config) (internal.Browser, error) {
	b, err := rodbrowser.Launch(ctx, rodbrowser.Options{
		Headless: cfg.Headless,
		Bin:      cfg.BrowserBin,
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run <url> <series>",
	Short: "Capture every playlist of a series",
	Long: `Open the series page at <url>, collect its episode links and visit each
episode in turn, saving the playlist manifest the page requests.

Manifests are written to <downloads>/<series>/<episode>.m3u8 and indexed in
<downloads>/<series>/list.txt. Episodes whose page never requested a playlist
are skipped with a log message.`,
	Example: `  playlist-scraper run https://example.com/series/show show
  playlist-scraper run https://example.com/series/show show --headless=false
  playlist-scraper run https://example.com/series/show show --summary yaml`,
	Args:         cobra.MaximumNArgs(2),
	SilenceUsage: true,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return bindFlags(cmd, map[string]string{
			"headless":      "headless",
			"page-timeout":  "page_timeout",
			"capture-grace": "capture_grace",
			"out":           "downloads_dir",
			"cookies":       "cookies_path",
			"history":       "history_path",
		})
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		seriesURL, series := argAt(args, 0), argAt(args, 1)
		if err := internal.ValidateArguments(seriesURL, series); err != nil {
			return err
		}

		cfg, err := config.Load()
		if err != nil {
			return err
		}

		var summary export.Exporter
		if summaryFormat != "" {
			summary, err = export.NewExporter(summaryFormat)
			if err != nil {
				return err
			}
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		var browser internal.Browser
		err = internal.ShowProgress(ctx, "Launching browser", func() error {
			var launchErr error
			browser, launchErr = launchBrowser(ctx, cfg)
			return launchErr
		})
		if err != nil {
			return fmt.Errorf("failed to start browser: %w", err)
		}
		defer func() {
			if err := browser.Close(); err != nil {
				internal.LogWarn("Failed to close browser: %v", err)
			}
		}()

		store := internal.NewSessionStore(cfg.CookiesPath)
		orch := internal.NewOrchestrator(browser, store, cfg.ToOptions()).
			WithObserver(internal.NewStepPrinter(cmd.ErrOrStderr()).Observe)
		if summary != nil {
			orch.WithSummary(summary)
		}

		if cfg.HistoryPath != "" {
			history := internal.NewHistory(cfg.HistoryPath)
			defer history.Close()
			orch.WithHistory(history)
		}

		result, err := orch.Run(ctx, seriesURL, series)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		internal.PrintSuccess(out, fmt.Sprintf("Captured %d of %d playlist(s)", len(result.Entries), len(result.Refs)))
		if missing := len(result.Refs) - len(result.Entries); missing > 0 {
			internal.PrintWarning(out, fmt.Sprintf("%d episode(s) had no playlist data", missing))
		}
		fmt.Fprintf(out, "Index: %s\n", result.IndexPath)
		if result.SummaryPath != "" {
			fmt.Fprintf(out, "Summary: %s\n", result.SummaryPath)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	defaults := config.Default()
	runCmd.Flags().Bool("headless", defaults.Headless, "Run the browser without a window")
	runCmd.Flags().Duration("page-timeout", defaults.PageTimeout, "Time budget per episode page (0 disables)")
	runCmd.Flags().Duration("capture-grace", defaults.CaptureGrace, "How long to wait for a late playlist response")
	runCmd.Flags().String("out", defaults.DownloadsDir, "Downloads root directory")
	runCmd.Flags().String("cookies", defaults.CookiesPath, "Cookie record path")
	runCmd.Flags().String("history", defaults.HistoryPath, "Capture history database path (empty disables)")
	runCmd.Flags().StringVar(&summaryFormat, "summary", "", fmt.Sprintf("Also write summary.<ext> (%v)", export.Formats()))
}

// bindFlags binds command flags to config keys
func bindFlags(cmd *cobra.Command, keys map[string]string) error {
	for flag, key := range keys {
		if err := viper.BindPFlag(key, cmd.Flag(flag)); err != nil {
			return fmt.Errorf("failed to bind --%s: %w", flag, err)
		}
	}
	return nil
}

func argAt(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}
