package export

import (
	"fmt"
	"io"

	"github.com/iksnae/playlist-scraper/internal"
)

// Exporter defines the interface for all series summary formats
type Exporter interface {
	Export(index *internal.SeriesIndex, w io.Writer) error
	Extension() string
}

// NewExporter creates a new exporter based on format
func NewExporter(format string) (Exporter, error) {
	switch format {
	case "txt", "list":
		return &ListExporter{}, nil
	case "jsonl":
		return &JSONLExporter{}, nil
	case "md", "markdown":
		return &MarkdownExporter{}, nil
	case "yaml":
		return &YAMLExporter{}, nil
	case "json":
		return &JSONExporter{}, nil
	case "m3u":
		return &M3UExporter{}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s (supported: txt, jsonl, md, yaml, json, m3u)", format)
	}
}

// Formats lists the accepted format names
func Formats() []string {
	return []string{"txt", "jsonl", "md", "yaml", "json", "m3u"}
}
