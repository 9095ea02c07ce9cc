package download

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ContentTypeText tags saved rewrite results.
const ContentTypeText = "text/plain; charset=utf-8"

// Saver stores a named artifact. Implementations return the location the
// artifact was written to.
type Saver interface {
	Save(ctx context.Context, name, contentType string, r io.Reader) (string, error)
}

// ErrInvalidName is returned for names that are empty or not a single path
// element.
var ErrInvalidName = errors.New("download: invalid file name")

// DirSaver writes artifacts into a directory using a temporary file that is
// renamed into place, so readers never observe a partial file.
type DirSaver struct {
	dir      string
	permFile os.FileMode
	permDir  os.FileMode
}

// NewDirSaver returns a saver rooted at dir ("." when empty).
func NewDirSaver(dir string) *DirSaver {
	if dir == "" {
		dir = "."
	}
	return &DirSaver{dir: dir, permFile: 0o644, permDir: 0o755}
}

// Save writes r to dir/name. The temporary file is removed on every failure
// path.
func (s *DirSaver) Save(ctx context.Context, name, _ string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if name == "" || name != filepath.Base(name) || name == "." || name == ".." {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	if err := os.MkdirAll(s.dir, s.permDir); err != nil {
		return "", fmt.Errorf("download: mkdir %s: %w", s.dir, err)
	}
	dest := filepath.Join(s.dir, name)

	tmp, err := os.CreateTemp(s.dir, ".tmp-*")
	if err != nil {
		return "", fmt.Errorf("download: create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	cleanup := func(cause error) (string, error) {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("download: write %s: %w", dest, cause)
	}

	bw := bufio.NewWriter(tmp)
	if _, err := io.Copy(bw, r); err != nil {
		return cleanup(err)
	}
	if err := bw.Flush(); err != nil {
		return cleanup(err)
	}
	if err := tmp.Sync(); err != nil {
		return cleanup(err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("download: close %s: %w", tmpPath, err)
	}
	if err := os.Chmod(tmpPath, s.permFile); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("download: chmod %s: %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, dest); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("download: rename into %s: %w", dest, err)
	}
	return dest, nil
}
