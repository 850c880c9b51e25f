// Package session holds the mutable state of one shell session: the working
// directory and the in-memory mirror of the journal.
package session

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"

	"tableflip.dev/fsh/pkg/entry"
)

// Session is owned by the command loop and passed explicitly to every
// operation. It is not safe for concurrent use.
type Session struct {
	Cwd     string
	History []entry.Entry
}

// New returns a session rooted at cwd with history as its journal mirror.
func New(cwd string, history []entry.Entry) *Session {
	return &Session{Cwd: filepath.Clean(cwd), History: history}
}

// FromWorkingDir starts a session in the process working directory.
func FromWorkingDir(history []entry.Entry) (*Session, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	return New(wd, history), nil
}

// Resolve turns p into an absolute, cleaned path. "~" and "~/..." expand to the
// home directory, absolute paths are kept and anything else is joined to Cwd.
func (s *Session) Resolve(p string) (string, error) {
	if p == "~" || strings.HasPrefix(p, "~/") || strings.HasPrefix(p, "~"+string(filepath.Separator)) {
		expanded, err := homedir.Expand(p)
		if err != nil {
			return "", err
		}
		return filepath.Clean(expanded), nil
	}
	if filepath.IsAbs(p) {
		return filepath.Clean(p), nil
	}
	return filepath.Join(s.Cwd, p), nil
}

// At returns a view of s that resolves relative paths against cwd. The view
// shares History with s.
func (s *Session) At(cwd string) *Session {
	if cwd == "" {
		return s
	}
	return &Session{Cwd: cwd, History: s.History}
}

// Record appends e to the history mirror.
func (s *Session) Record(e entry.Entry) {
	s.History = append(s.History, e)
}

// RemoveAt drops the entry at position i.
func (s *Session) RemoveAt(i int) {
	if i < 0 || i >= len(s.History) {
		return
	}
	s.History = append(s.History[:i:i], s.History[i+1:]...)
}
