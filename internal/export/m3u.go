package export

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/iksnae/playlist-scraper/internal"
)

// M3UExporter writes an extended M3U playlist that chains the captured
// manifests in discovery order. Entries are relative to the series directory.
type M3UExporter struct{}

// Export exports an index as an M3U playlist
func (e *M3UExporter) Export(index *internal.SeriesIndex, w io.Writer) error {
	if _, err := fmt.Fprintf(w, "#EXTM3U\n#PLAYLIST:%s\n", oneLine(index.Series)); err != nil {
		return err
	}
	for _, entry := range index.Entries {
		if _, err := fmt.Fprintf(w, "#EXTINF:-1,%s\n%s\n", oneLine(entry.Name), filepath.Base(entry.Path)); err != nil {
			return err
		}
	}
	return nil
}

func oneLine(s string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(s)
}

// Extension returns the file extension for this format
func (e *M3UExporter) Extension() string {
	return "m3u"
}
