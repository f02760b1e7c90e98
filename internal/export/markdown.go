package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/iksnae/playlist-scraper/internal"
)

// MarkdownExporter exports the series index as a Markdown report
type MarkdownExporter struct{}

// Export exports an index to Markdown format
func (e *MarkdownExporter) Export(index *internal.SeriesIndex, w io.Writer) error {
	// Header
	_, _ = fmt.Fprintf(w, "# %s\n\n", escapeMarkdown(index.Series))

	if index.SourceURL != "" {
		_, _ = fmt.Fprintf(w, "**Source:** %s  \n", index.SourceURL)
	}
	if index.RunID != "" {
		_, _ = fmt.Fprintf(w, "**Run:** %s  \n", index.RunID)
	}
	if !index.GeneratedAt.IsZero() {
		_, _ = fmt.Fprintf(w, "**Generated:** %s  \n", index.GeneratedAt.Format("2006-01-02 15:04:05 MST"))
	}
	_, _ = fmt.Fprintf(w, "**Playlists:** %d\n\n", len(index.Entries))

	_, _ = fmt.Fprintf(w, "## Playlists\n\n")
	if len(index.Entries) == 0 {
		_, _ = fmt.Fprintf(w, "_none captured_\n")
	} else {
		_, _ = fmt.Fprintf(w, "| # | Name | File | Size |\n|---|------|------|------|\n")
		for i, entry := range index.Entries {
			_, _ = fmt.Fprintf(w, "| %d | [%s](%s) | `%s` | %d B |\n",
				i+1, escapeMarkdown(entry.Name), entry.URL, entry.Path, entry.Bytes)
		}
	}

	if len(index.Missing) > 0 {
		_, _ = fmt.Fprintf(w, "\n## Missing\n\n")
		for _, name := range index.Missing {
			_, _ = fmt.Fprintf(w, "- %s\n", escapeMarkdown(name))
		}
	}

	return nil
}

// escapeMarkdown escapes characters that would break emphasis or table cells
func escapeMarkdown(text string) string {
	return strings.NewReplacer(
		"|", "\\|",
		"**", "\\*\\*",
		"__", "\\_\\_",
		"\n", " ",
	).Replace(text)
}

// Extension returns the file extension for this format
func (e *MarkdownExporter) Extension() string {
	return "md"
}
