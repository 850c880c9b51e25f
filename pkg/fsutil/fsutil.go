// Package fsutil implements the raw filesystem primitives the shell operations
// are built on: copying trees, moving across devices and removing.
package fsutil

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/charlievieth/fastwalk"
)

// Exists reports whether path exists without following a final symlink.
func Exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

// IsDir reports whether path is a directory.
func IsDir(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.IsDir()
}

// IsNonEmptyDir reports whether path is a directory with at least one entry.
func IsNonEmptyDir(path string) (bool, error) {
	fi, err := os.Stat(path)
	if err != nil || !fi.IsDir() {
		return false, err
	}
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()
	_, err = f.Readdirnames(1)
	if errors.Is(err, io.EOF) {
		return false, nil
	}
	return err == nil, err
}

// Within reports whether path is dir itself or lies below it.
func Within(dir, path string) bool {
	rel, err := filepath.Rel(filepath.Clean(dir), filepath.Clean(path))
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

// Copy duplicates src at dst. Directories are copied recursively; dst must not
// exist. A copy interrupted by ctx or an error is left partially written.
func Copy(ctx context.Context, src, dst string) error {
	fi, err := os.Lstat(src)
	if err != nil {
		return err
	}
	if Exists(dst) {
		return fmt.Errorf("%s: %w", dst, fs.ErrExist)
	}
	if fi.IsDir() && Within(src, dst) {
		return fmt.Errorf("cannot copy %s into itself", src)
	}
	if !fi.IsDir() {
		return copyFile(src, dst, fi)
	}

	conf := fastwalk.Config{Follow: false}
	return fastwalk.Walk(&conf, src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		info, err := d.Info()
		if err != nil {
			return err
		}
		switch {
		case d.IsDir():
			return os.MkdirAll(target, info.Mode().Perm()|0o700)
		case info.Mode()&os.ModeSymlink != 0:
			link, err := os.Readlink(path)
			if err != nil {
				return err
			}
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return err
			}
			return os.Symlink(link, target)
		default:
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return err
			}
			return copyFile(path, target, info)
		}
	})
}

func copyFile(src, dst string, fi os.FileInfo) error {
	if fi.Mode()&os.ModeSymlink != 0 {
		link, err := os.Readlink(src)
		if err != nil {
			return err
		}
		return os.Symlink(link, dst)
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, fi.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	return os.Chtimes(dst, fi.ModTime(), fi.ModTime())
}

// Move renames src to dst, falling back to copy and remove when they are on
// different devices. dst must not exist.
func Move(ctx context.Context, src, dst string) error {
	if Exists(dst) {
		return fmt.Errorf("%s: %w", dst, fs.ErrExist)
	}
	err := os.Rename(src, dst)
	if err == nil {
		return nil
	}
	var le *os.LinkError
	if !errors.As(err, &le) || !errors.Is(le.Err, syscall.EXDEV) {
		return err
	}
	if err := Copy(ctx, src, dst); err != nil {
		return err
	}
	return os.RemoveAll(src)
}

// Remove deletes path, recursing into directories.
func Remove(path string) error {
	if !Exists(path) {
		return fmt.Errorf("%s: %w", path, fs.ErrNotExist)
	}
	return os.RemoveAll(path)
}
