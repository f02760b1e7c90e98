package export

import (
	"bytes"
	"testing"

	"github.com/iksnae/playlist-scraper/internal"
	"gopkg.in/yaml.v3"
)

func TestYAMLExporter_Export(t *testing.T) {
	index := internal.CreateTestIndex("show")

	var buf bytes.Buffer
	exporter := &YAMLExporter{}
	if err := exporter.Export(index, &buf); err != nil {
		t.Fatalf("YAMLExporter.Export() error = %v", err)
	}

	var decoded internal.SeriesIndex
	if err := yaml.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("Output is not valid YAML: %v\nOutput: %s", err, buf.String())
	}

	if decoded.RunID != index.RunID {
		t.Errorf("run_id = %q, want %q", decoded.RunID, index.RunID)
	}
	if len(decoded.Entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(decoded.Entries))
	}
	if decoded.Entries[1].Label != "Episode_Two" {
		t.Errorf("entries[1].label = %q, want %q", decoded.Entries[1].Label, "Episode_Two")
	}
	if len(decoded.Missing) != 1 || decoded.Missing[0] != "Episode Three" {
		t.Errorf("missing = %v, want [Episode Three]", decoded.Missing)
	}
}

func TestYAMLExporter_Extension(t *testing.T) {
	if got := (&YAMLExporter{}).Extension(); got != "yaml" {
		t.Errorf("Extension() = %q, want yaml", got)
	}
}
