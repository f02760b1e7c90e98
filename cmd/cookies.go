package cmd

import (
	"fmt"
	"strings"

	"github.com/iksnae/playlist-scraper/internal"
	"github.com/iksnae/playlist-scraper/internal/config"
	"github.com/spf13/cobra"
)

var cookiesCmd = &cobra.Command{
	Use:   "cookies",
	Short: "Inspect or reset the saved browser session",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := initConfig(); err != nil {
			return err
		}
		return bindFlags(cmd, map[string]string{"cookies": "cookies_path"})
	},
}

var cookiesShowCmd = &cobra.Command{
	Use:   "show",
	Short: "List the cookies in the session record",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		store := internal.NewSessionStore(cfg.CookiesPath)
		cookies, found, err := store.Read()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if !found {
			fmt.Fprintf(out, "No cookie record at %s\n", store.Path())
			return nil
		}
		if len(cookies) == 0 {
			fmt.Fprintf(out, "Cookie record %s is empty\n", store.Path())
			return nil
		}

		rows := make([][]string, 0, len(cookies))
		for _, c := range cookies {
			rows = append(rows, []string{c.Name, c.Domain, c.Path, formatExpiry(c), cookieFlags(c)})
		}
		fmt.Fprintln(out, renderTable(
			[]string{"Name", "Domain", "Path", "Expires", "Flags"},
			rows,
			[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft},
		))
		fmt.Fprintf(out, "%d cookie(s) in %s\n", len(cookies), store.Path())
		return nil
	},
}

var cookiesClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the session record so the next run starts fresh",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		store := internal.NewSessionStore(cfg.CookiesPath)
		if err := store.Clear(); err != nil {
			return err
		}
		internal.PrintSuccess(cmd.OutOrStdout(), fmt.Sprintf("Cleared %s", store.Path()))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cookiesCmd)
	cookiesCmd.AddCommand(cookiesShowCmd, cookiesClearCmd)
	cookiesCmd.PersistentFlags().String("cookies", config.Default().CookiesPath, "Cookie record path")
}

func formatExpiry(c internal.Cookie) string {
	at := c.ExpiresAt()
	if at.IsZero() {
		return "session"
	}
	return at.UTC().Format("2006-01-02 15:04")
}

func cookieFlags(c internal.Cookie) string {
	var flags []string
	if c.HTTPOnly {
		flags = append(flags, "httpOnly")
	}
	if c.Secure {
		flags = append(flags, "secure")
	}
	if c.SameSite != "" {
		flags = append(flags, "sameSite="+c.SameSite)
	}
	return strings.Join(flags, " ")
}
