package cmd

import (
	"fmt"
	"os"

	"github.com/iksnae/playlist-scraper/internal"
	"github.com/iksnae/playlist-scraper/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	verbose bool
	envFile string
	version string = "dev"
	commit  string = "unknown"
	date    string = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "playlist-scraper",
	Short: "Capture HLS playlist manifests from a video series site",
	Long: `A CLI tool that drives a headless browser through every episode page of a
series and saves the HLS playlist manifest each page requests.

The browser session (cookies) is kept in cookies.json and carried from page
to page and from run to run. Captured manifests are written to
downloads/<series>/<episode>.m3u8 together with a list.txt index.

Quick Start:
  playlist-scraper run https://example.com/series/show show   # Capture a series
  playlist-scraper history --series show                        # Past capture attempts
  playlist-scraper cookies show                                 # Inspect the session

Settings are read from .env and PLAYLIST_* environment variables.`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		internal.PrintError(os.Stderr, fmt.Sprintf("Error: %v", err))
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Environment file loaded at startup (existing variables win)")

	// Set version template to ensure --version flag works
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
}

func initConfig() error {
	n, err := config.LoadDotEnv(envFile)
	if err != nil {
		return err
	}

	config.SetDefaults()

	if verbose {
		internal.SetVerbose(true)
	} else {
		internal.SetLogLevel(internal.ParseLogLevel(viper.GetString("log_level")))
	}
	if n > 0 {
		internal.LogDebug("Loaded %d variable(s) from %s", n, envFile)
	}
	return nil
}
