package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// FileMedium persists values to a JSON file. Every operation reads the file
// so that several stores pointed at the same path observe each other's
// writes; concurrent writers are last-write-wins.
type FileMedium struct {
	mu   sync.Mutex
	path string
	now  func() time.Time
}

// NewFileMedium creates a medium backed by path, creating parent directories.
func NewFileMedium(path string) (*FileMedium, error) {
	if path == "" {
		return nil, errors.New("file medium: path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("file medium: create directory: %w", err)
	}
	return &FileMedium{path: path, now: time.Now}, nil
}

func (f *FileMedium) load() (map[string]record, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return make(map[string]record), nil
	}
	if err != nil {
		return nil, fmt.Errorf("file medium: read: %w", err)
	}
	records := make(map[string]record)
	if len(data) == 0 {
		return records, nil
	}
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("file medium: decode: %w", err)
	}
	return records, nil
}

// save writes records through a temp file and rename so readers never see a partial file.
func (f *FileMedium) save(records map[string]record) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("file medium: encode: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".store-*.tmp")
	if err != nil {
		return fmt.Errorf("file medium: create temp: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("file medium: write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("file medium: close: %w", err)
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("file medium: chmod: %w", err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("file medium: rename: %w", err)
	}
	return nil
}

// Set implements Medium.
func (f *FileMedium) Set(name, value string, opts Options) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	records, err := f.load()
	if err != nil {
		return err
	}
	expiresAt, remove := opts.expiry(f.now())
	if remove {
		delete(records, name)
	} else {
		records[name] = newRecord(value, opts, expiresAt)
	}
	return f.save(records)
}

// Get implements Medium.
func (f *FileMedium) Get(name string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	records, err := f.load()
	if err != nil {
		return "", false, err
	}
	r, ok := records[name]
	if !ok || r.expired(f.now()) {
		return "", false, nil
	}
	return r.Value, true, nil
}

// Remove implements Medium.
func (f *FileMedium) Remove(name string, _ Options) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	records, err := f.load()
	if err != nil {
		return err
	}
	if _, ok := records[name]; !ok {
		return nil
	}
	delete(records, name)
	return f.save(records)
}

// All implements Medium. Expired values are pruned from the file.
func (f *FileMedium) All() (map[string]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	records, err := f.load()
	if err != nil {
		return nil, err
	}
	now := f.now()
	out := make(map[string]string, len(records))
	pruned := false
	for name, r := range records {
		if r.expired(now) {
			delete(records, name)
			pruned = true
			continue
		}
		out[name] = r.Value
	}
	if pruned {
		if err := f.save(records); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Close implements Medium.
func (f *FileMedium) Close() error {
	return nil
}
