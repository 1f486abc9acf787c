package kv

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// File is a Store backed by a single JSON object on disk. Each key is a
// top-level member and each value is kept as raw JSON.
//
// The document is re-read on every Get so that writes made by other
// processes are observed on the next read.
type File struct {
	path string
	mu   sync.Mutex
}

// OpenFile returns a store for the JSON document at path. The file does not
// have to exist yet; its parent directory is created.
func OpenFile(path string) (*File, error) {
	if path == "" {
		return nil, fmt.Errorf("open file store: empty path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	return &File{path: path}, nil
}

// Get implements Reader. A missing document behaves as an empty store.
func (f *File) Get(key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.read()
	if err != nil {
		return "", false, err
	}
	if len(doc) == 0 {
		return "", false, nil
	}
	if !gjson.ValidBytes(doc) {
		return "", false, fmt.Errorf("store %s: invalid JSON document", f.path)
	}

	res := gjson.GetBytes(doc, gjson.Escape(key))
	if !res.Exists() {
		return "", false, nil
	}
	return res.Raw, true, nil
}

// Set implements Store. value must be valid JSON since it is embedded in
// the document as is.
func (f *File) Set(key, value string) error {
	if !gjson.Valid(value) {
		return fmt.Errorf("set %q: %w", key, ErrInvalidJSON)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.read()
	if err != nil {
		return err
	}
	if len(doc) == 0 || !gjson.ValidBytes(doc) {
		doc = []byte("{}")
	}

	doc, err = sjson.SetRawBytes(doc, gjson.Escape(key), []byte(value))
	if err != nil {
		return fmt.Errorf("set %q: %w", key, err)
	}

	return f.write(doc)
}

// Close implements Store. It is a no-op.
func (f *File) Close() error { return nil }

func (f *File) read() ([]byte, error) {
	data, err := os.ReadFile(f.path) //nolint:gosec // user's store file
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read store: %w", err)
	}
	return data, nil
}

// write replaces the document atomically via a temp file in the same dir.
func (f *File) write(doc []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".store-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(doc); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace store: %w", err)
	}
	return nil
}
