// Package sqlite stores records in SQLite. Each list is a table; each
// hierarchy field of a list is a triple of nullable integer columns on it.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

const schemaVersion = "1"

// DefaultDriver is the pure Go driver, available on every build.
const DefaultDriver = "sqlite"

type driverInfo struct {
	// dsn builds the connection string for a database file. Every driver
	// must open write transactions with BEGIN IMMEDIATE so that the reads a
	// mutator does before its first write already hold the write lock.
	dsn func(path string) string
}

var (
	driversMu sync.Mutex
	drivers   = map[string]driverInfo{}
)

func registerDriver(name string, info driverInfo) {
	driversMu.Lock()
	defer driversMu.Unlock()
	drivers[name] = info
}

// Drivers returns the names of the drivers compiled into this binary.
func Drivers() []string {
	driversMu.Lock()
	defer driversMu.Unlock()
	names := make([]string, 0, len(drivers))
	for name := range drivers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Database is an open SQLite database holding any number of lists.
type Database struct {
	db     *sql.DB
	path   string
	driver string
}

// Open opens or creates the database file at path with the named driver.
func Open(ctx context.Context, path, driver string) (*Database, error) {
	if driver == "" {
		driver = DefaultDriver
	}
	driversMu.Lock()
	info, ok := drivers[driver]
	driversMu.Unlock()
	if !ok {
		return nil, fmt.Errorf("sqlite driver %q not available (have %s)", driver, strings.Join(Drivers(), ", "))
	}

	path, err := expandHome(path)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open(driver, info.dsn(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	_, err = db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)
	`)
	if err == nil {
		_, err = db.ExecContext(ctx, `INSERT OR REPLACE INTO meta (key, value) VALUES ('schema_version', ?)`, schemaVersion)
	}
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to setup database: %w", err)
	}

	return &Database{db: db, path: path, driver: driver}, nil
}

// Close closes the database connection
func (d *Database) Close() error {
	if d.db != nil {
		return d.db.Close()
	}
	return nil
}

// Path returns the database file path
func (d *Database) Path() string { return d.path }

// Driver returns the name of the driver in use
func (d *Database) Driver() string { return d.driver }

// DefaultPath returns the database location under the XDG data directory.
func DefaultPath() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "nestedset", "nestedset.db")
}

func expandHome(path string) (string, error) {
	if path == "" {
		return DefaultPath(), nil
	}
	if path[0] != '~' {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, path[1:]), nil
}
