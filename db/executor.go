package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

type DBExecutor interface {
	Exec(query string, args ...any) (sql.Result, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	Prepare(query string) (*sql.Stmt, error)
	PrepareContext(ctx context.Context, query string) (*sql.Stmt, error)
}

// Open opens the sqlite storage at path with foreign keys enforced and
// makes sure every table exists.
func Open(path string) (*sql.DB, error) {
	globalStorage, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("ERR: open %s: %w", path, err)
	}

	_, err = globalStorage.Exec("PRAGMA foreign_keys = ON;")
	if err != nil {
		globalStorage.Close()
		return nil, fmt.Errorf("ERR: enable foreign keys: %w", err)
	}

	if err = CheckAllTables(globalStorage); err != nil {
		globalStorage.Close()
		return nil, err
	}
	return globalStorage, nil
}
