package cache

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/cespare/xxhash/v2"
)

// Disk stores one file per entry. Filenames are fixed-length hex digests of
// the logical key, so arbitrary key text never reaches the filesystem.
type Disk struct {
	dir string
}

func NewDisk(dir string) (*Disk, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cache: failed to create cache directory %q: %w", dir, err)
	}
	return &Disk{dir: dir}, nil
}

func (d *Disk) path(key string) string {
	return filepath.Join(d.dir, fmt.Sprintf("%016x.bin", xxhash.Sum64String(key)))
}

func (d *Disk) Get(key string) ([]byte, error) {
	data, err := os.ReadFile(d.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, &ReadError{Key: key, Err: err}
	}
	return data, nil
}

// Set writes through a temp file and renames it into place, so a crash
// mid-write never leaves a corrupt entry under the final name. Concurrent
// writers of the same key rename identical bytes, which is benign.
func (d *Disk) Set(key string, val []byte) error {
	tmp, err := os.CreateTemp(d.dir, "entry-*.tmp")
	if err != nil {
		return &WriteError{Key: key, Err: err}
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(val); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return &WriteError{Key: key, Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return &WriteError{Key: key, Err: err}
	}
	if err := os.Rename(tmpName, d.path(key)); err != nil {
		os.Remove(tmpName)
		return &WriteError{Key: key, Err: err}
	}
	return nil
}

func (d *Disk) Exists(key string) bool {
	_, err := os.Stat(d.path(key))
	return err == nil
}

// Clear removes every entry. It is the only reclamation path; entries are
// never auto-expired.
func (d *Disk) Clear() error {
	entries, err := filepath.Glob(filepath.Join(d.dir, "*.bin"))
	if err != nil {
		return fmt.Errorf("cache: failed to clear cache directory %q: %w", d.dir, err)
	}
	for _, entry := range entries {
		if err := os.Remove(entry); err != nil {
			return fmt.Errorf("cache: failed to clear cache directory %q: %w", d.dir, err)
		}
	}
	return nil
}
