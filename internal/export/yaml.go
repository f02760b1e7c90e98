package export

import (
	"io"

	"github.com/iksnae/playlist-scraper/internal"
	"gopkg.in/yaml.v3"
)

// YAMLExporter exports the series index in YAML format
type YAMLExporter struct{}

// Export exports an index to YAML format
func (e *YAMLExporter) Export(index *internal.SeriesIndex, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	defer func() { _ = enc.Close() }()

	return enc.Encode(index)
}

// Extension returns the file extension for this format
func (e *YAMLExporter) Extension() string {
	return "yaml"
}
