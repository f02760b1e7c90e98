package export

import (
	"encoding/json"
	"io"

	"github.com/iksnae/playlist-scraper/internal"
)

// JSONExporter exports the series index as pretty JSON
type JSONExporter struct{}

// Export exports an index to JSON format
func (e *JSONExporter) Export(index *internal.SeriesIndex, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(index)
}

// Extension returns the file extension for this format
func (e *JSONExporter) Extension() string {
	return "json"
}
