// Package archive packs directories into zip and gzip-compressed tar files and
// unpacks them again.
package archive

import (
	"archive/tar"
	"bufio"
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/charlievieth/fastwalk"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zip"
)

type member struct {
	path string
	rel  string
	info fs.FileInfo
}

// collect walks root and returns its members sorted by relative path, so the
// archive layout does not depend on walk scheduling.
func collect(ctx context.Context, root string) ([]member, error) {
	var (
		mu      sync.Mutex
		members []member
	)
	conf := fastwalk.Config{Follow: false}
	err := fastwalk.Walk(&conf, root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if path == root {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		mu.Lock()
		members = append(members, member{path: path, rel: filepath.ToSlash(rel), info: info})
		mu.Unlock()
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(members, func(i, j int) bool { return members[i].rel < members[j].rel })
	return members, nil
}

// Zip writes the contents of dir to dest, paths relative to dir.
func Zip(ctx context.Context, dir, dest string) (err error) {
	members, err := collect(ctx, dir)
	if err != nil {
		return err
	}
	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); err == nil {
			err = cerr
		}
	}()

	zw := zip.NewWriter(out)
	for _, m := range members {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !m.info.IsDir() && !m.info.Mode().IsRegular() {
			continue
		}
		hdr, err := zip.FileInfoHeader(m.info)
		if err != nil {
			return err
		}
		hdr.Name = m.rel
		if m.info.IsDir() {
			hdr.Name += "/"
		} else {
			hdr.Method = zip.Deflate
		}
		w, err := zw.CreateHeader(hdr)
		if err != nil {
			return err
		}
		if m.info.IsDir() {
			continue
		}
		if err := copyFrom(w, m.path); err != nil {
			return err
		}
	}
	return zw.Close()
}

// Unzip extracts archive into dest, creating it.
func Unzip(ctx context.Context, archive, dest string) error {
	zr, err := zip.OpenReader(archive)
	if err != nil {
		return err
	}
	defer zr.Close()

	if err := os.MkdirAll(dest, 0o755); err != nil {
		return err
	}
	for _, f := range zr.File {
		if err := ctx.Err(); err != nil {
			return err
		}
		target, err := within(dest, f.Name)
		if err != nil {
			return err
		}
		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return err
			}
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return err
		}
		err = writeFile(target, rc, f.Mode().Perm())
		rc.Close()
		if err != nil {
			return err
		}
	}
	return nil
}

// Tar writes dir to dest as a gzip-compressed tar whose top-level entry is the
// directory's base name.
func Tar(ctx context.Context, dir, dest string) (err error) {
	members, err := collect(ctx, dir)
	if err != nil {
		return err
	}
	rootInfo, err := os.Stat(dir)
	if err != nil {
		return err
	}
	base := filepath.Base(dir)

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); err == nil {
			err = cerr
		}
	}()

	gz := gzip.NewWriter(out)
	tw := tar.NewWriter(gz)

	all := append([]member{{path: dir, rel: "", info: rootInfo}}, members...)
	for _, m := range all {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !m.info.IsDir() && !m.info.Mode().IsRegular() {
			continue
		}
		hdr, err := tar.FileInfoHeader(m.info, "")
		if err != nil {
			return err
		}
		hdr.Name = base
		if m.rel != "" {
			hdr.Name = base + "/" + m.rel
		}
		if m.info.IsDir() {
			hdr.Name += "/"
		}
		if err := tw.WriteHeader(hdr); err != nil {
			return err
		}
		if m.info.Mode().IsRegular() {
			if err := copyFrom(tw, m.path); err != nil {
				return err
			}
		}
	}
	if err := tw.Close(); err != nil {
		return err
	}
	return gz.Close()
}

// Untar extracts a tar archive, gzip-compressed or not, into dest.
func Untar(ctx context.Context, archive, dest string) error {
	f, err := os.Open(archive)
	if err != nil {
		return err
	}
	defer f.Close()

	br := bufio.NewReader(f)
	var r io.Reader = br
	if magic, err := br.Peek(2); err == nil && magic[0] == 0x1f && magic[1] == 0x8b {
		gz, err := gzip.NewReader(br)
		if err != nil {
			return err
		}
		defer gz.Close()
		r = gz
	}

	tr := tar.NewReader(r)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		target, err := within(dest, hdr.Name)
		if err != nil {
			return err
		}
		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0o755); err != nil {
				return err
			}
		case tar.TypeReg:
			if err := writeFile(target, tr, fs.FileMode(hdr.Mode).Perm()); err != nil {
				return err
			}
		}
	}
}

// within joins name onto dest and rejects names that would land outside it.
func within(dest, name string) (string, error) {
	target := filepath.Join(dest, filepath.FromSlash(name))
	clean := filepath.Clean(dest)
	if target != clean && !strings.HasPrefix(target, clean+string(os.PathSeparator)) {
		return "", fmt.Errorf("archive: entry %q escapes destination", name)
	}
	return target, nil
}

func copyFrom(w io.Writer, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = io.Copy(w, f)
	return err
}

func writeFile(path string, r io.Reader, perm fs.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	if perm == 0 {
		perm = 0o644
	}
	out, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, r); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
