package export

import (
	"bufio"
	"bytes"
	"encoding/json"
	"testing"

	"github.com/iksnae/playlist-scraper/internal"
)

func TestJSONLExporter_Export(t *testing.T) {
	tests := []struct {
		name      string
		index     *internal.SeriesIndex
		wantLines int
	}{
		{
			name:      "two entries",
			index:     internal.CreateTestIndex("show"),
			wantLines: 2,
		},
		{
			name:      "no entries",
			index:     &internal.SeriesIndex{Series: "empty"},
			wantLines: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := (&JSONLExporter{}).Export(tt.index, &buf); err != nil {
				t.Fatalf("JSONLExporter.Export() error = %v", err)
			}

			scanner := bufio.NewScanner(&buf)
			lines := 0
			for scanner.Scan() {
				var obj map[string]interface{}
				if err := json.Unmarshal(scanner.Bytes(), &obj); err != nil {
					t.Fatalf("line %d is not valid JSON: %v", lines+1, err)
				}
				if obj["series"] != tt.index.Series {
					t.Errorf("line %d series = %v, want %q", lines+1, obj["series"], tt.index.Series)
				}
				if obj["name"] != tt.index.Entries[lines].Name {
					t.Errorf("line %d name = %v, want %q", lines+1, obj["name"], tt.index.Entries[lines].Name)
				}
				lines++
			}
			if lines != tt.wantLines {
				t.Errorf("lines = %d, want %d", lines, tt.wantLines)
			}
		})
	}
}
