// Package storage writes exported files to a local folder or an
// S3-compatible bucket.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/abhisek/exambank/internal/config"
)

// Sink receives named export files.
type Sink interface {
	// Put stores the contents of r under name and returns where it ended up.
	Put(ctx context.Context, name string, r io.Reader, size int64, contentType string) (string, error)
}

// ErrUnsafeName is returned for names that would leave the sink's root.
var ErrUnsafeName = errors.New("unsafe export name")

// checkName rejects absolute names and names with ".." elements.
func checkName(name string) error {
	if name == "" || strings.HasPrefix(name, "/") || filepath.IsAbs(name) {
		return fmt.Errorf("%w: %q", ErrUnsafeName, name)
	}
	for _, part := range strings.FieldsFunc(name, func(r rune) bool { return r == '/' || r == '\\' }) {
		if part == ".." {
			return fmt.Errorf("%w: %q", ErrUnsafeName, name)
		}
	}
	return nil
}

// New returns the sink described by cfg. Local files go under dir.
func New(cfg config.StorageSettings, dir string) (Sink, error) {
	switch cfg.Type {
	case "", "fs":
		return NewLocal(dir, cfg.Prefix), nil
	case "minio":
		return NewMinio(cfg)
	default:
		return nil, fmt.Errorf("unknown storage type %q", cfg.Type)
	}
}
