package internal

import (
	"path/filepath"
	"testing"

	"github.com/iksnae/playlist-scraper/testutil"
)

func TestOpenDatabase(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(t *testing.T) string
		wantErr bool
	}{
		{
			name: "existing database",
			setup: func(t *testing.T) string {
				tmpDir := testutil.CreateTempDir(t)
				dbPath := filepath.Join(tmpDir, "history.db")
				testutil.CreateHistoryFixture(t, dbPath, []testutil.HistoryRow{
					{RunID: "r1", Series: "s", Name: "Episode 1", URL: "https://site.test/1", Status: StatusCaptured},
				})
				return dbPath
			},
		},
		{
			name: "new database in missing directory",
			setup: func(t *testing.T) string {
				return filepath.Join(testutil.CreateTempDir(t), "nested", "dir", "history.db")
			},
		},
		{
			name: "in memory",
			setup: func(t *testing.T) string {
				return ":memory:"
			},
		},
		{
			name: "directory in the way",
			setup: func(t *testing.T) string {
				return testutil.CreateTempDir(t)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dbPath := tt.setup(t)
			db, err := OpenDatabase(dbPath)
			if (err != nil) != tt.wantErr {
				t.Errorf("OpenDatabase() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr {
				return
			}
			defer db.Close()

			var count int
			if err := db.QueryRow("SELECT COUNT(*) FROM captures").Scan(&count); err != nil {
				t.Errorf("captures table not usable: %v", err)
			}
		})
	}
}

func TestOpenDatabaseKeepsExistingRows(t *testing.T) {
	dbPath := filepath.Join(testutil.CreateTempDir(t), "history.db")
	testutil.CreateHistoryFixture(t, dbPath, []testutil.HistoryRow{
		{RunID: "r1", Series: "s", Name: "Episode 1", URL: "https://site.test/1", Status: StatusCaptured, Bytes: 10},
		{RunID: "r1", Series: "s", Name: "Episode 2", URL: "https://site.test/2", Status: StatusAbsent},
	})

	db, err := OpenDatabase(dbPath)
	if err != nil {
		t.Fatalf("OpenDatabase() error = %v", err)
	}
	defer db.Close()

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM captures").Scan(&count); err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 2 {
		t.Errorf("count = %d, want 2", count)
	}
}
