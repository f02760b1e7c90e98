package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/iksnae/playlist-scraper/internal"
)

// JSONLExporter exports one captured entry per line
type JSONLExporter struct{}

// Export exports an index to JSONL format
func (e *JSONLExporter) Export(index *internal.SeriesIndex, w io.Writer) error {
	enc := json.NewEncoder(w)

	for _, entry := range index.Entries {
		obj := map[string]interface{}{
			"series": index.Series,
			"name":   entry.Name,
			"path":   entry.Path,
			"url":    entry.URL,
			"bytes":  entry.Bytes,
		}
		if index.RunID != "" {
			obj["run_id"] = index.RunID
		}

		if err := enc.Encode(obj); err != nil {
			return fmt.Errorf("failed to encode entry: %w", err)
		}
	}

	return nil
}

// Extension returns the file extension for this format
func (e *JSONLExporter) Extension() string {
	return "jsonl"
}
