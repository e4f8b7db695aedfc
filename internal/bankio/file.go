package bankio

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/abhisek/exambank/internal/bank"
)

// FileStore keeps a bank in a semicolon-separated file on disk.
type FileStore struct {
	Path string
}

var _ bank.Store = (*FileStore)(nil)

// NewFileStore creates a FileStore for path.
func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path}
}

// Load reads and validates the bank file. The file is closed on every
// return path, including validation failures.
func (s *FileStore) Load(_ context.Context) (*bank.Bank, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("open bank: %w", err)
	}
	defer f.Close()

	b, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("load bank %s: %w", s.Path, err)
	}
	return b, nil
}

// Save writes b to a temporary file next to Path and renames it into
// place, so a failed write never truncates the existing bank.
func (s *FileStore) Save(_ context.Context, b *bank.Bank) error {
	dir := filepath.Dir(s.Path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.Path)+".*")
	if err != nil {
		return fmt.Errorf("create temp bank file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := WriteCSV(tmp, b); err != nil {
		tmp.Close()
		return fmt.Errorf("write bank: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp bank file: %w", err)
	}
	if err := os.Rename(tmpName, s.Path); err != nil {
		return fmt.Errorf("replace bank file: %w", err)
	}
	return nil
}
