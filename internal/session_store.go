package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// SessionStore persists the cookie jar between page instances and between runs
type SessionStore struct {
	path string
	lock *flock.Flock
}

// NewSessionStore creates a store backed by the JSON record at path
func NewSessionStore(path string) *SessionStore {
	return &SessionStore{
		path: path,
		lock: flock.New(path + ".lock"),
	}
}

// Path returns the cookie record location
func (s *SessionStore) Path() string {
	return s.path
}

// Load installs the stored cookies on page. A missing record is not an error.
func (s *SessionStore) Load(ctx context.Context, page Page) error {
	cookies, found, err := s.Read()
	if err != nil {
		return err
	}
	if !found {
		LogDebug("No cookie record at %s, starting a fresh session", s.path)
		return nil
	}
	if len(cookies) == 0 {
		return nil
	}
	if err := page.SetCookies(ctx, cookies); err != nil {
		return fmt.Errorf("failed to install cookies: %w", err)
	}
	LogDebug("Cookies loaded from %s (%d)", s.path, len(cookies))
	return nil
}

// Save overwrites the record with the page's current cookie set
func (s *SessionStore) Save(ctx context.Context, page Page) error {
	cookies, err := page.Cookies(ctx)
	if err != nil {
		return fmt.Errorf("failed to read page cookies: %w", err)
	}
	if err := s.Write(cookies); err != nil {
		return err
	}
	LogDebug("Cookies saved to %s (%d)", s.path, len(cookies))
	return nil
}

// Read decodes the record. found is false when no record exists yet.
func (s *SessionStore) Read() (cookies []Cookie, found bool, err error) {
	// no lock file is created for a record that does not exist yet
	if !s.exists() {
		return nil, false, nil
	}
	if err := s.acquire(); err != nil {
		return nil, false, err
	}
	defer s.release()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, &StorageError{Path: s.path, Op: "read", Err: err}
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, true, &SessionCorruptionError{Path: s.path, Err: errors.New("empty record")}
	}
	if err := json.Unmarshal(data, &cookies); err != nil {
		return nil, true, &SessionCorruptionError{Path: s.path, Err: err}
	}
	return cookies, true, nil
}

// Write replaces the record atomically
func (s *SessionStore) Write(cookies []Cookie) error {
	if cookies == nil {
		cookies = []Cookie{}
	}
	data, err := json.MarshalIndent(cookies, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal cookies: %w", err)
	}

	if err := s.acquire(); err != nil {
		return err
	}
	defer s.release()

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return &StorageError{Path: s.path, Op: "write", Err: err}
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return &StorageError{Path: s.path, Op: "write", Err: err}
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return &StorageError{Path: s.path, Op: "write", Err: err}
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return &StorageError{Path: s.path, Op: "write", Err: err}
	}
	return nil
}

// Clear removes the record so the next run starts a fresh session
func (s *SessionStore) Clear() error {
	if !s.exists() {
		return nil
	}
	if err := s.acquire(); err != nil {
		return err
	}
	defer s.release()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return &StorageError{Path: s.path, Op: "remove", Err: err}
	}
	return nil
}

func (s *SessionStore) exists() bool {
	_, err := os.Stat(s.path)
	return !errors.Is(err, os.ErrNotExist)
}

func (s *SessionStore) acquire() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return &StorageError{Path: s.path, Op: "lock", Err: err}
	}
	if err := s.lock.Lock(); err != nil {
		return &StorageError{Path: s.path, Op: "lock", Err: err}
	}
	return nil
}

func (s *SessionStore) release() {
	if err := s.lock.Unlock(); err != nil {
		LogWarn("Failed to release cookie lock %s: %v", s.lock.Path(), err)
	}
}
