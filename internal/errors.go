package internal

import "fmt"

// ArgumentError represents a bad or missing command argument
type ArgumentError struct {
	Arg     string // "url", "series"
	Value   string
	Message string
	Err     error
}

func (e *ArgumentError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("invalid argument %s %q: %v", e.Arg, e.Value, e.Err)
}

func (e *ArgumentError) Unwrap() error {
	return e.Err
}

// StorageError represents errors accessing the cookie record on disk
type StorageError struct {
	Path string
	Op   string // "open", "read", "write", "lock"
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// SessionCorruptionError represents an unreadable cookie record. It is never
// downgraded to a per-page failure.
type SessionCorruptionError struct {
	Path string
	Err  error
}

func (e *SessionCorruptionError) Error() string {
	return fmt.Sprintf("session record corrupted %s: %v", e.Path, e.Err)
}

func (e *SessionCorruptionError) Unwrap() error {
	return e.Err
}

// DiscoveryError represents a series page whose playlist container never rendered
type DiscoveryError struct {
	URL      string
	Selector string
	Err      error
}

func (e *DiscoveryError) Error() string {
	if e.Selector == "" {
		return fmt.Sprintf("discovery error [%s]: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("discovery error [%s] waiting for %q: %v", e.URL, e.Selector, e.Err)
}

func (e *DiscoveryError) Unwrap() error {
	return e.Err
}

// PageCaptureError represents a recoverable failure while visiting one episode page
type PageCaptureError struct {
	Name  string
	URL   string
	Stage string // "open", "session", "navigate", "persist"
	Err   error
}

func (e *PageCaptureError) Error() string {
	return fmt.Sprintf("capture error [%s] %s (%s): %v", e.Name, e.URL, e.Stage, e.Err)
}

func (e *PageCaptureError) Unwrap() error {
	return e.Err
}

// FilesystemError represents a failed manifest or index write
type FilesystemError struct {
	Path string
	Op   string // "mkdir", "write"
	Err  error
}

func (e *FilesystemError) Error() string {
	return fmt.Sprintf("filesystem error: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FilesystemError) Unwrap() error {
	return e.Err
}
