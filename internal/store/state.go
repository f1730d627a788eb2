package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sadopc/due/internal/countdown"
)

var (
	// ErrReadFailed marks a state file that exists but could not be
	// loaded; the caller starts from an empty document and logs it.
	ErrReadFailed = errors.New("state read failed")
	// ErrWriteFailed marks a failed flush; in-memory state stands.
	ErrWriteFailed = errors.New("state write failed")
)

// StateFile persists the timer document as a single JSON file. Writes go
// through a temp file in the same directory and a rename, so a crash
// mid-write never truncates the previous state.
type StateFile struct {
	path string
}

func NewStateFile(path string) *StateFile {
	return &StateFile{path: path}
}

func (f *StateFile) Path() string { return f.path }

// Load reads the persisted document. A missing file is an empty
// document with no error; anything unreadable or unparsable is an empty
// document plus an ErrReadFailed-wrapped error.
func (f *StateFile) Load() (countdown.Document, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return countdown.Document{}, nil
	}
	if err != nil {
		return countdown.Document{}, fmt.Errorf("%w: %v", ErrReadFailed, err)
	}
	doc, err := decodeDocument(data)
	if err != nil {
		return countdown.Document{}, fmt.Errorf("%w: parse %s: %v", ErrReadFailed, f.path, err)
	}
	return doc, nil
}

// decodeDocument also accepts the legacy layout, a bare top-level array
// of timer records with no trash partition.
func decodeDocument(data []byte) (countdown.Document, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var flat []countdown.Record
		if err := json.Unmarshal(trimmed, &flat); err != nil {
			return countdown.Document{}, err
		}
		return countdown.Document{Timers: flat}, nil
	}
	var doc countdown.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return countdown.Document{}, err
	}
	return doc, nil
}

// Save writes the document atomically.
func (f *StateFile) Save(doc countdown.Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode: %v", ErrWriteFailed, err)
	}
	data = append(data, '\n')

	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return fmt.Errorf("%w: create state directory: %v", ErrWriteFailed, err)
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("%w: write %s: %v", ErrWriteFailed, tmp, err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("%w: replace %s: %v", ErrWriteFailed, f.path, err)
	}
	return nil
}
