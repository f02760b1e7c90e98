package internal

import (
	"errors"
	"strings"
	"testing"
)

func TestArgumentError(t *testing.T) {
	originalErr := errors.New("missing scheme")
	err := &ArgumentError{
		Arg:     "url",
		Value:   "not a url",
		Message: "Invalid URL provided. Please provide a valid URL.",
		Err:     originalErr,
	}

	// Message is shown verbatim to the user
	if err.Error() != "Invalid URL provided. Please provide a valid URL." {
		t.Errorf("ArgumentError.Error() = %q", err.Error())
	}
	if !errors.Is(err, originalErr) {
		t.Error("ArgumentError.Unwrap() should return original error")
	}

	bare := &ArgumentError{Arg: "series", Value: "", Err: originalErr}
	if !strings.Contains(bare.Error(), "series") {
		t.Errorf("ArgumentError.Error() should contain arg, got: %q", bare.Error())
	}
}

func TestStorageError(t *testing.T) {
	originalErr := errors.New("permission denied")
	err := &StorageError{
		Path: "/test/cookies.json",
		Op:   "write",
		Err:  originalErr,
	}

	errorMsg := err.Error()
	if !strings.Contains(errorMsg, "storage error") {
		t.Errorf("StorageError.Error() should contain 'storage error', got: %q", errorMsg)
	}
	if !strings.Contains(errorMsg, "/test/cookies.json") {
		t.Errorf("StorageError.Error() should contain path, got: %q", errorMsg)
	}
	if !errors.Is(err, originalErr) {
		t.Error("StorageError.Unwrap() should return original error")
	}
}

func TestSessionCorruptionError(t *testing.T) {
	originalErr := errors.New("unexpected end of JSON input")
	err := &SessionCorruptionError{Path: "cookies.json", Err: originalErr}

	errorMsg := err.Error()
	if !strings.Contains(errorMsg, "corrupted") {
		t.Errorf("SessionCorruptionError.Error() should contain 'corrupted', got: %q", errorMsg)
	}
	if !strings.Contains(errorMsg, "cookies.json") {
		t.Errorf("SessionCorruptionError.Error() should contain path, got: %q", errorMsg)
	}
	if !errors.Is(err, originalErr) {
		t.Error("SessionCorruptionError.Unwrap() should return original error")
	}
}

func TestDiscoveryError(t *testing.T) {
	originalErr := errors.New("timed out")

	tests := []struct {
		name     string
		err      *DiscoveryError
		contains []string
	}{
		{
			name:     "with selector",
			err:      &DiscoveryError{URL: "https://site.test/s", Selector: "ul.play-list", Err: originalErr},
			contains: []string{"discovery error", "https://site.test/s", "ul.play-list", "timed out"},
		},
		{
			name:     "without selector",
			err:      &DiscoveryError{URL: "https://site.test/s", Err: originalErr},
			contains: []string{"discovery error", "https://site.test/s", "timed out"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, want := range tt.contains {
				if !strings.Contains(msg, want) {
					t.Errorf("DiscoveryError.Error() = %q, should contain %q", msg, want)
				}
			}
			if !errors.Is(tt.err, originalErr) {
				t.Error("DiscoveryError.Unwrap() should return original error")
			}
		})
	}
}

func TestPageCaptureError(t *testing.T) {
	originalErr := errors.New("net::ERR_CONNECTION_RESET")
	err := &PageCaptureError{
		Name:  "Episode 1",
		URL:   "https://site.test/ep/1",
		Stage: "navigate",
		Err:   originalErr,
	}

	errorMsg := err.Error()
	for _, want := range []string{"capture error", "Episode 1", "navigate"} {
		if !strings.Contains(errorMsg, want) {
			t.Errorf("PageCaptureError.Error() should contain %q, got: %q", want, errorMsg)
		}
	}
	if !errors.Is(err, originalErr) {
		t.Error("PageCaptureError.Unwrap() should return original error")
	}
}

func TestFilesystemError(t *testing.T) {
	originalErr := errors.New("no space left on device")
	err := &FilesystemError{Path: "downloads/s/list.txt", Op: "write", Err: originalErr}

	errorMsg := err.Error()
	if !strings.Contains(errorMsg, "filesystem error") {
		t.Errorf("FilesystemError.Error() should contain 'filesystem error', got: %q", errorMsg)
	}
	if !strings.Contains(errorMsg, "list.txt") {
		t.Errorf("FilesystemError.Error() should contain path, got: %q", errorMsg)
	}
	if !errors.Is(err, originalErr) {
		t.Error("FilesystemError.Unwrap() should return original error")
	}
}

func TestErrorWrapping(t *testing.T) {
	baseErr := errors.New("base error")
	wrapped := &PageCaptureError{
		Name:  "Episode 1",
		Stage: "session",
		Err:   &StorageError{Path: "cookies.json", Op: "read", Err: baseErr},
	}

	if !errors.Is(wrapped, baseErr) {
		t.Error("Nested error unwrapping should work")
	}

	var storageErr *StorageError
	if !errors.As(wrapped, &storageErr) {
		t.Error("errors.As should find StorageError in chain")
	}
	if storageErr.Op != "read" {
		t.Errorf("StorageError.Op = %q, want %q", storageErr.Op, "read")
	}
}
