package hfledger

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FileStore persists a ledger snapshot in a single JSONL file.
type FileStore struct {
	Path string
}

// LoadSnapshot decodes the file. A missing file means no prior state.
func (s FileStore) LoadSnapshot() (*Snapshot, error) {
	f, err := os.Open(s.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not open ledger file %q: %w", s.Path, err)
	}
	defer f.Close()

	snap, err := DecodeSnapshot(f)
	if err != nil {
		return nil, fmt.Errorf("could not decode ledger file %q: %w", s.Path, err)
	}
	return snap, nil
}

// SaveSnapshot writes the snapshot next to the ledger file and renames it over
// the previous one, so that a failed save leaves the old file intact.
func (s FileStore) SaveSnapshot(snap *Snapshot) error {
	if s.Path == "" {
		return fmt.Errorf("cannot save ledger with an empty path")
	}
	dir := filepath.Dir(s.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("could not create directory for ledger %q: %w", s.Path, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.Path)+".*")
	if err != nil {
		return fmt.Errorf("error opening ledger file %q for writing: %w", s.Path, err)
	}
	defer os.Remove(tmp.Name()) // no-op once renamed.

	if err := EncodeSnapshot(tmp, snap); err != nil {
		tmp.Close()
		return fmt.Errorf("error writing ledger file %q: %w", s.Path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("error writing ledger file %q: %w", s.Path, err)
	}
	if err := os.Rename(tmp.Name(), s.Path); err != nil {
		return fmt.Errorf("error replacing ledger file %q: %w", s.Path, err)
	}
	return nil
}
