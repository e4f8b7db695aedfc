package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Local writes files into a directory on disk.
type Local struct {
	Dir    string
	Prefix string
}

// NewLocal creates a sink rooted at dir. prefix, if set, is a
// subdirectory of dir.
func NewLocal(dir, prefix string) *Local {
	return &Local{Dir: dir, Prefix: prefix}
}

// Put writes r to a temp file next to the destination, then renames it
// into place.
func (l *Local) Put(_ context.Context, name string, r io.Reader, _ int64, _ string) (string, error) {
	if err := checkName(name); err != nil {
		return "", err
	}
	root := filepath.Join(l.Dir, l.Prefix)
	dst := filepath.Join(root, name)
	if rel, err := filepath.Rel(root, dst); err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %q is outside %s", ErrUnsafeName, name, root)
	}
	dir := filepath.Dir(dst)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(name)+".*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		return "", fmt.Errorf("rename %s: %w", name, err)
	}
	return dst, nil
}
