package cmd

import (
	"fmt"
	"strconv"

	"github.com/iksnae/playlist-scraper/internal"
	"github.com/iksnae/playlist-scraper/internal/config"
	"github.com/spf13/cobra"
)

var (
	historySeries string
	historyLimit  int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show past capture attempts",
	Long: `Show the most recent capture attempts recorded by 'run', newest first.

Each row is one episode visit: captured (manifest saved), absent (the page
never requested a playlist) or failed (the visit itself errored).`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return bindFlags(cmd, map[string]string{"history": "history_path"})
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if cfg.HistoryPath == "" {
			return fmt.Errorf("capture history is disabled (history_path is empty)")
		}

		history, err := internal.OpenHistory(cfg.HistoryPath)
		if err != nil {
			return err
		}
		defer history.Close()

		records, err := history.Recent(cmd.Context(), internal.HistoryFilter{
			Series: historySeries,
			Limit:  historyLimit,
		})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(records) == 0 {
			fmt.Fprintln(out, "No capture history")
			return nil
		}

		rows := make([][]string, 0, len(records))
		for _, rec := range records {
			rows = append(rows, []string{
				rec.CapturedAt.Local().Format("2006-01-02 15:04:05"),
				rec.Series,
				rec.Name,
				rec.Status,
				strconv.Itoa(rec.Bytes),
				shortRunID(rec.RunID),
			})
		}
		fmt.Fprintln(out, renderTable(
			[]string{"When", "Series", "Episode", "Status", "Bytes", "Run"},
			rows,
			[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
		))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().StringVar(&historySeries, "series", "", "Only show this series")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum number of rows")
	historyCmd.Flags().String("history", config.Default().HistoryPath, "Capture history database path")
}

func shortRunID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
