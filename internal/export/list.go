package export

import (
	"io"

	"github.com/iksnae/playlist-scraper/internal"
)

// ListExporter writes the same <label>-<path> lines as list.txt
type ListExporter struct{}

// Export exports an index in list.txt format
func (e *ListExporter) Export(index *internal.SeriesIndex, w io.Writer) error {
	_, err := io.WriteString(w, internal.FormatIndex(index.Entries))
	return err
}

// Extension returns the file extension for this format
func (e *ListExporter) Extension() string {
	return "txt"
}
