package internal

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	DefaultDownloadsDir = "downloads"
	IndexFileName       = "list.txt"
	ManifestExtension   = ".m3u8"
)

// SeriesWriter lays out the output set of one series under the downloads root
type SeriesWriter struct {
	root   string
	series string
}

// NewSeriesWriter creates a writer for downloads/<series>
func NewSeriesWriter(root, series string) *SeriesWriter {
	return &SeriesWriter{
		root:   root,
		series: series,
	}
}

// Dir returns the series directory
func (w *SeriesWriter) Dir() string {
	return filepath.Join(w.root, w.series)
}

// EnsureDir ensures the series directory exists
func (w *SeriesWriter) EnsureDir() error {
	dir := w.Dir()
	if _, err := os.Stat(dir); err == nil {
		LogInfo("Directory already exists: %s", dir)
		return nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return &FilesystemError{Path: dir, Op: "mkdir", Err: err}
	}
	LogInfo("Directory created: %s", dir)
	return nil
}

// ManifestPath returns the manifest file path for a display name. The name is
// used verbatim.
func (w *SeriesWriter) ManifestPath(name string) string {
	return filepath.Join(w.Dir(), name+ManifestExtension)
}

// IndexPath returns the path to list.txt
func (w *SeriesWriter) IndexPath() string {
	return filepath.Join(w.Dir(), IndexFileName)
}

// WriteManifest writes a captured body and returns the index entry for it
func (w *SeriesWriter) WriteManifest(ref PlaylistRef, body string) (IndexEntry, error) {
	path := w.ManifestPath(ref.Name)
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		return IndexEntry{}, &FilesystemError{Path: path, Op: "write", Err: err}
	}
	LogInfo("Playlist saved to %s", path)
	return IndexEntry{
		Name:  ref.Name,
		Label: SanitizeLabel(ref.Name),
		Path:  path,
		URL:   ref.URL,
		Bytes: len(body),
	}, nil
}

// WriteIndex writes list.txt. It is called once per run.
func (w *SeriesWriter) WriteIndex(entries []IndexEntry) error {
	path := w.IndexPath()
	if err := os.WriteFile(path, []byte(FormatIndex(entries)), 0644); err != nil {
		return &FilesystemError{Path: path, Op: "write", Err: err}
	}
	return nil
}

// WriteSummary writes summary.<ext> with the given exporter
func (w *SeriesWriter) WriteSummary(exporter SummaryExporter, index *SeriesIndex) (string, error) {
	path := filepath.Join(w.Dir(), fmt.Sprintf("summary.%s", exporter.Extension()))
	file, err := os.Create(path)
	if err != nil {
		return "", &FilesystemError{Path: path, Op: "write", Err: err}
	}
	if err := exporter.Export(index, file); err != nil {
		_ = file.Close()
		return "", &FilesystemError{Path: path, Op: "write", Err: err}
	}
	if err := file.Close(); err != nil {
		return "", &FilesystemError{Path: path, Op: "write", Err: err}
	}
	return path, nil
}

// SanitizeLabel replaces the first hyphen only, so the label never contains
// the hyphen that separates it from the path on an index line.
func SanitizeLabel(name string) string {
	return strings.Replace(name, "-", "_", 1)
}

// FormatIndexLine renders one index line: <label>-<path>
func FormatIndexLine(e IndexEntry) string {
	return e.Label + "-" + e.Path
}

// FormatIndex renders list.txt: newline separated, no trailing newline
func FormatIndex(entries []IndexEntry) string {
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, FormatIndexLine(e))
	}
	return strings.Join(lines, "\n")
}
