package store

import (
	"fmt"
	"os"
	"path/filepath"
)

// Disk is a file-tree store, one JSON file per key. Writes go through
// a temp file plus rename so a record is never observable half-written.
type Disk struct {
	dir string
}

// NewDisk creates a disk store rooted at dir.
func NewDisk(dir string) *Disk {
	return &Disk{dir: dir}
}

// Get retrieves a record.
func (d *Disk) Get(key string) ([]byte, error) {
	data, err := os.ReadFile(d.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read record: %w", err)
	}
	return data, nil
}

// Put stores a record atomically.
func (d *Disk) Put(key string, value []byte) error {
	if err := os.MkdirAll(d.dir, 0755); err != nil {
		return fmt.Errorf("create store dir: %w", err)
	}

	tmp, err := os.CreateTemp(d.dir, key+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp record: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write record: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close record: %w", err)
	}

	if err := os.Rename(tmpName, d.path(key)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("publish record: %w", err)
	}
	return nil
}

// Exists reports whether the key has a record.
func (d *Disk) Exists(key string) bool {
	_, err := os.Stat(d.path(key))
	return err == nil
}

// Delete removes a record. Deleting a missing key is not an error.
func (d *Disk) Delete(key string) error {
	err := os.Remove(d.path(key))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (d *Disk) path(key string) string {
	return filepath.Join(d.dir, key+".json")
}
