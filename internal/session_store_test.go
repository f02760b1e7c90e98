package internal

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/iksnae/playlist-scraper/testutil"
)

func newTestStore(t *testing.T) *SessionStore {
	t.Helper()
	return NewSessionStore(filepath.Join(testutil.CreateTempDir(t), "cookies.json"))
}

func TestSessionStoreRoundTrip(t *testing.T) {
	store := newTestStore(t)
	want := CreateTestCookies()

	if err := store.Write(want); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	got, found, err := store.Read()
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if !found {
		t.Fatal("Read() found = false after Write")
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Read() = %+v, want %+v", got, want)
	}

	// the record is pretty-printed with two-space indentation
	data := testutil.ReadFile(t, store.Path())
	if !strings.HasPrefix(data, "[\n  {\n    \"name\": \"sid\"") {
		t.Errorf("record not indented as expected:\n%s", data)
	}
}

func TestSessionStoreSaveThenLoad(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	browser := NewFakeBrowser(nil)

	first, _ := browser.NewPage(ctx)
	if err := first.SetCookies(ctx, CreateTestCookies()); err != nil {
		t.Fatal(err)
	}
	if err := store.Save(ctx, first); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	second, _ := browser.NewPage(ctx)
	if err := store.Load(ctx, second); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := second.(*FakePage).Jar(); !reflect.DeepEqual(got, CreateTestCookies()) {
		t.Errorf("loaded jar = %+v, want %+v", got, CreateTestCookies())
	}
}

func TestSessionStoreLoad(t *testing.T) {
	tests := []struct {
		name        string
		content     *string
		wantErr     bool
		wantCorrupt bool
		wantSet     bool
	}{
		{name: "missing record", content: nil},
		{name: "empty list", content: strPtr("[]")},
		{name: "browser record", content: strPtr(testutil.BrowserCookieRecord), wantSet: true},
		{name: "empty file", content: strPtr("  \n"), wantErr: true, wantCorrupt: true},
		{name: "truncated JSON", content: strPtr(`[{"name":"sid"`), wantErr: true, wantCorrupt: true},
		{name: "wrong shape", content: strPtr(`{"name":"sid"}`), wantErr: true, wantCorrupt: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := testutil.CreateTempDir(t)
			path := filepath.Join(dir, "cookies.json")
			if tt.content != nil {
				path = testutil.CreateCookieFixture(t, dir, *tt.content)
			}
			store := NewSessionStore(path)
			browser := NewFakeBrowser(nil)
			page, _ := browser.NewPage(context.Background())

			err := store.Load(context.Background(), page)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Load() error = %v, wantErr %v", err, tt.wantErr)
			}
			var corrupt *SessionCorruptionError
			if errors.As(err, &corrupt) != tt.wantCorrupt {
				t.Errorf("Load() error = %v, want SessionCorruptionError = %v", err, tt.wantCorrupt)
			}
			set := browser.Log.IndexOf("page1:set-cookies") >= 0
			if set != tt.wantSet {
				t.Errorf("SetCookies called = %v, want %v", set, tt.wantSet)
			}
		})
	}
}

func TestSessionStoreWriteLeavesNoTempFiles(t *testing.T) {
	store := newTestStore(t)
	for i := 2; i >= 0; i-- {
		if err := store.Write(CreateTestCookies()[:i]); err != nil {
			t.Fatalf("Write() error = %v", err)
		}
	}
	if err := store.Write(nil); err != nil {
		t.Fatalf("Write(nil) error = %v", err)
	}

	entries, err := os.ReadDir(filepath.Dir(store.Path()))
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".tmp") {
			t.Errorf("temporary file left behind: %s", e.Name())
		}
	}

	// nil and empty both persist as an empty list
	got, found, err := store.Read()
	if err != nil || !found || len(got) != 0 {
		t.Errorf("Read() = %v, %v, %v; want empty list", got, found, err)
	}
	if data := testutil.ReadFile(t, store.Path()); data != "[]" {
		t.Errorf("record = %q, want []", data)
	}
}

func TestSessionStoreClear(t *testing.T) {
	store := newTestStore(t)
	if err := store.Clear(); err != nil {
		t.Fatalf("Clear() on missing record error = %v", err)
	}
	if err := store.Write(CreateTestCookies()); err != nil {
		t.Fatal(err)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	testutil.AssertNotExists(t, store.Path())

	_, found, err := store.Read()
	if err != nil || found {
		t.Errorf("Read() after Clear = found %v, err %v", found, err)
	}
}

func TestSessionStoreMissingRecordCreatesNoFiles(t *testing.T) {
	dir := filepath.Join(testutil.CreateTempDir(t), "state")
	store := NewSessionStore(filepath.Join(dir, "cookies.json"))

	if _, found, err := store.Read(); err != nil || found {
		t.Errorf("Read() found = %v, err = %v; want fresh session", found, err)
	}
	if err := store.Clear(); err != nil {
		t.Errorf("Clear() error = %v", err)
	}
	testutil.AssertNotExists(t, dir)
}

func TestSessionStoreCreatesParentDirectory(t *testing.T) {
	path := filepath.Join(testutil.CreateTempDir(t), "state", "cookies.json")
	store := NewSessionStore(path)
	if err := store.Write(CreateTestCookies()); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("record not written: %v", err)
	}
}

func strPtr(s string) *string {
	return &s
}
