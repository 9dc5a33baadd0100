package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

var db *sql.DB

var dbInitialized bool

// GetDB returns the ledger database connection, initializing if needed.
// The ledger lives next to the project configuration in .classguard/.
func GetDB() (*sql.DB, error) {
	if db != nil {
		return db, nil
	}

	path, err := GetDBPath()
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create .classguard directory: %w", err)
	}

	db, err = sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	// Run schema init on first connection (but avoid recursion).
	if !dbInitialized {
		dbInitialized = true
		if err := InitSchema(); err != nil {
			return nil, fmt.Errorf("failed to initialize schema: %w", err)
		}
	}

	return db, nil
}

// Close closes the database connection.
func Close() error {
	if db != nil {
		return db.Close()
	}
	return nil
}

// GetDBPath returns the path to the ledger database file.
func GetDBPath() (string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}
	return filepath.Join(wd, ".classguard", "ledger.db"), nil
}

// InitSchema applies the authoritative schema, opening the connection if
// needed.
func InitSchema() error {
	conn, err := GetDB()
	if err != nil {
		return err
	}
	if _, err := conn.Exec(GetSchemaSQL()); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}
