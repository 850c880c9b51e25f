// Package store persists the command journal.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"tableflip.dev/fsh/pkg/entry"
)

// Journal is the durable, append-only record of executed commands.
type Journal interface {
	// Load returns every entry, oldest first.
	Load() ([]entry.Entry, error)
	// Append adds e at the tail.
	Append(e entry.Entry) error
	// Remove deletes the entry with the given id, if present.
	Remove(id string) error
}

// File is a Journal stored as a JSON array in one file. Every mutation reads
// the whole array, changes it and replaces the file through a rename. It does
// not lock: a second process writing the same file can lose updates.
type File struct {
	path string
	log  *zap.Logger
}

var _ Journal = (*File)(nil)

// Open returns a journal backed by path. The file is created on first write.
func Open(path string, log *zap.Logger) *File {
	if log == nil {
		log = zap.NewNop()
	}
	return &File{path: path, log: log}
}

// Path is the file the journal lives in.
func (f *File) Path() string {
	return f.path
}

func (f *File) Load() ([]entry.Entry, error) {
	return f.read()
}

func (f *File) Append(e entry.Entry) error {
	all, err := f.read()
	if err != nil {
		return err
	}
	return f.write(append(all, e))
}

func (f *File) Remove(id string) error {
	all, err := f.read()
	if err != nil {
		return err
	}
	kept := make([]entry.Entry, 0, len(all))
	for _, e := range all {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	if len(kept) == len(all) {
		return nil
	}
	return f.write(kept)
}

// read treats a missing, empty or malformed file as an empty journal. Only an
// unreadable file is an error.
func (f *File) read() ([]entry.Entry, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []entry.Entry{}, nil
		}
		return nil, fmt.Errorf("store: read journal: %w", err)
	}
	if len(data) == 0 {
		return []entry.Entry{}, nil
	}
	var all []entry.Entry
	if err := json.Unmarshal(data, &all); err != nil {
		f.log.Warn("journal is malformed, starting empty",
			zap.String("path", f.path), zap.Error(err))
		return []entry.Entry{}, nil
	}
	return all, nil
}

func (f *File) write(all []entry.Entry) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return fmt.Errorf("store: ensure journal directory: %w", err)
	}
	data, err := json.MarshalIndent(all, "", "  ")
	if err != nil {
		return fmt.Errorf("store: encode journal: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("store: create temp journal: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("store: write temp journal: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("store: sync temp journal: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("store: close temp journal: %w", err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		cleanup()
		return fmt.Errorf("store: replace journal: %w", err)
	}
	return nil
}
