package storage

import (
	"database/sql"
	"fmt"
	"sync"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// SQLiteDir is an Adapter backed by SQLite. One database file can hold any
// number of logical directories, keyed by directory name.
//
// Useful when the pipeline already carries an embedded database and a plain
// filesystem directory is not available (the bus only needs a key-existence
// store, which a unique index provides).
type SQLiteDir struct {
	db  *sql.DB
	dir string

	mu     sync.RWMutex
	closed bool
}

// Compile-time interface check.
var _ Adapter = (*SQLiteDir)(nil)

// NewSQLiteDir opens (creating if needed) the database at path and binds an
// adapter to the logical directory dir. The path may be ":memory:" for
// testing.
func NewSQLiteDir(path, dir string) (*SQLiteDir, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Enable WAL mode for better concurrent read performance
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS dirs (
			dir TEXT NOT NULL,
			PRIMARY KEY (dir)
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create dirs table: %w", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS markers (
			dir TEXT NOT NULL,
			name TEXT NOT NULL,
			PRIMARY KEY (dir, name)
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create markers table: %w", err)
	}

	return &SQLiteDir{db: db, dir: dir}, nil
}

// CreateIfAbsent implements Adapter. The logical directory is materialized on
// first write, matching filesystem stores.
func (s *SQLiteDir) CreateIfAbsent(name string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false, ErrClosed
	}

	if _, err := s.db.Exec(`
		INSERT INTO dirs (dir) VALUES (?)
		ON CONFLICT(dir) DO NOTHING
	`, s.dir); err != nil {
		return false, fmt.Errorf("create dir row: %w", err)
	}

	res, err := s.db.Exec(`
		INSERT INTO markers (dir, name) VALUES (?, ?)
		ON CONFLICT(dir, name) DO NOTHING
	`, s.dir, name)
	if err != nil {
		return false, fmt.Errorf("create marker: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("create marker: %w", err)
	}
	return n > 0, nil
}

// List implements Adapter.
func (s *SQLiteDir) List() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrClosed
	}

	rows, err := s.db.Query(`
		SELECT name FROM markers WHERE dir = ? ORDER BY name
	`, s.dir)
	if err != nil {
		return nil, fmt.Errorf("list markers: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan marker name: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list markers: %w", err)
	}
	return names, nil
}

// Delete implements Adapter.
func (s *SQLiteDir) Delete(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}

	if _, err := s.db.Exec(`
		DELETE FROM markers WHERE dir = ? AND name = ?
	`, s.dir, name); err != nil {
		return fmt.Errorf("delete marker: %w", err)
	}
	return nil
}

// Exists implements Adapter.
func (s *SQLiteDir) Exists() (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return false, ErrClosed
	}

	var one int
	err := s.db.QueryRow(`SELECT 1 FROM dirs WHERE dir = ?`, s.dir).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query dir: %w", err)
	}
	return true, nil
}

// Reset implements Adapter.
func (s *SQLiteDir) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin reset: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM markers WHERE dir = ?`, s.dir); err != nil {
		return fmt.Errorf("clear markers: %w", err)
	}
	if _, err := tx.Exec(`
		INSERT INTO dirs (dir) VALUES (?)
		ON CONFLICT(dir) DO NOTHING
	`, s.dir); err != nil {
		return fmt.Errorf("create dir row: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit reset: %w", err)
	}
	return nil
}

// Close implements Adapter.
func (s *SQLiteDir) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}
