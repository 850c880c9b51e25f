// Package search finds lines matching a regular expression in a file or a
// directory tree.
package search

import (
	"bufio"
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"regexp"
	"sort"
	"sync"

	"github.com/charlievieth/fastwalk"
	"github.com/gabriel-vasile/mimetype"
)

const maxLine = 1024 * 1024

// Match is one matching line. Spans are byte offsets of each match in Text.
type Match struct {
	Path  string
	Line  int
	Text  string
	Spans [][]int
}

// Compile builds the matcher for pattern.
func Compile(pattern string, ignoreCase bool) (*regexp.Regexp, error) {
	if ignoreCase {
		pattern = "(?i)" + pattern
	}
	return regexp.Compile(pattern)
}

// IsText reports whether the file at path looks like text.
func IsText(path string) (bool, error) {
	mt, err := mimetype.DetectFile(path)
	if err != nil {
		return false, err
	}
	for m := mt; m != nil; m = m.Parent() {
		if m.Is("text/plain") {
			return true, nil
		}
	}
	return false, nil
}

// File returns the matches in one file. Lines longer than maxLine are
// skipped.
func File(ctx context.Context, re *regexp.Regexp, path string) ([]Match, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []Match
	br := bufio.NewReaderSize(f, 64*1024)
	for n := 1; ; n++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		line, long, err := readLine(br)
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		if long {
			continue
		}
		if spans := re.FindAllStringIndex(line, -1); spans != nil {
			out = append(out, Match{Path: path, Line: n, Text: line, Spans: spans})
		}
	}
}

// readLine returns the next line without its terminator. long is set, and the
// text dropped, when the line exceeds maxLine.
func readLine(br *bufio.Reader) (string, bool, error) {
	var (
		buf  []byte
		long bool
		seen bool
	)
	for {
		frag, more, err := br.ReadLine()
		if err != nil {
			if errors.Is(err, io.EOF) && seen {
				return string(buf), long, nil
			}
			return "", false, err
		}
		seen = true
		if !long {
			if len(buf)+len(frag) > maxLine {
				long, buf = true, nil
			} else {
				buf = append(buf, frag...)
			}
		}
		if !more {
			return string(buf), long, nil
		}
	}
}

// Tree searches every text file under root. Files that cannot be read or are
// not text are skipped. Results are ordered by path, then line.
func Tree(ctx context.Context, re *regexp.Regexp, root string) ([]Match, error) {
	var (
		mu  sync.Mutex
		out []Match
	)
	conf := fastwalk.Config{Follow: false}
	err := fastwalk.Walk(&conf, root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if ok, err := IsText(path); err != nil || !ok {
			return nil
		}
		found, err := File(ctx, re, path)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return nil
		}
		if len(found) > 0 {
			mu.Lock()
			out = append(out, found...)
			mu.Unlock()
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Path != out[j].Path {
			return out[i].Path < out[j].Path
		}
		return out[i].Line < out[j].Line
	})
	return out, nil
}
