package storage

import (
	"fmt"
	"os"
	"path/filepath"
)

// LocalDir is an Adapter backed by a local filesystem directory.
// Entry creation relies on O_EXCL, so create-if-absent is atomic on any
// POSIX filesystem and on NFS v3+.
type LocalDir struct {
	dir string
}

// Compile-time interface check.
var _ Adapter = (*LocalDir)(nil)

// NewLocalDir creates an adapter for the given directory.
// The directory is not created until Reset is called; List on a missing
// directory yields an empty result.
func NewLocalDir(dir string) *LocalDir {
	return &LocalDir{dir: dir}
}

// Dir returns the directory this adapter is bound to.
func (l *LocalDir) Dir() string {
	return l.dir
}

// CreateIfAbsent implements Adapter. The directory is materialized on first
// write if it does not exist yet.
func (l *LocalDir) CreateIfAbsent(name string) (bool, error) {
	path := filepath.Join(l.dir, name)
	madeDir := false
	for {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
		if err == nil {
			return true, f.Close()
		}
		if os.IsExist(err) {
			return false, nil
		}
		if os.IsNotExist(err) && !madeDir {
			if mkErr := os.MkdirAll(l.dir, 0o755); mkErr != nil {
				return false, fmt.Errorf("mkdir %s: %w", l.dir, mkErr)
			}
			madeDir = true
			continue
		}
		return false, fmt.Errorf("create %s: %w", name, err)
	}
}

// List implements Adapter. Subdirectories are not entries and are skipped.
func (l *LocalDir) List() ([]string, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("list %s: %w", l.dir, err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		names = append(names, e.Name())
	}
	return names, nil
}

// Delete implements Adapter.
func (l *LocalDir) Delete(name string) error {
	if err := os.Remove(filepath.Join(l.dir, name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete %s: %w", name, err)
	}
	return nil
}

// Exists implements Adapter.
func (l *LocalDir) Exists() (bool, error) {
	info, err := os.Stat(l.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("stat %s: %w", l.dir, err)
	}
	return info.IsDir(), nil
}

// Reset implements Adapter.
func (l *LocalDir) Reset() error {
	if err := os.RemoveAll(l.dir); err != nil {
		return fmt.Errorf("remove %s: %w", l.dir, err)
	}
	if err := os.MkdirAll(l.dir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", l.dir, err)
	}
	return nil
}

// Close implements Adapter. LocalDir holds no resources.
func (l *LocalDir) Close() error {
	return nil
}
