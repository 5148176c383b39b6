package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"ideaboard/internal/board"
)

const schema = `
CREATE TABLE IF NOT EXISTS boards (
	name       TEXT PRIMARY KEY,
	data       TEXT NOT NULL,
	updated_at TEXT NOT NULL
)`

// SQLiteRepository keeps every board as one row of a SQLite database.
type SQLiteRepository struct {
	conn     *sql.DB
	path     string
	isMemory bool
}

func NewSQLiteRepository(path string, inMemory bool) (*SQLiteRepository, error) {
	dsn := path
	if inMemory {
		dsn = ":memory:"
	} else {
		if path == "" {
			return nil, errors.New("sqlite storage needs a database path")
		}
		if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One connection keeps an in-memory database alive and serialises writers.
	conn.SetMaxOpenConns(1)

	if !inMemory {
		if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
			conn.Close()
			return nil, fmt.Errorf("failed to enable WAL: %w", err)
		}
	}
	if _, err := conn.Exec(schema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &SQLiteRepository{conn: conn, path: path, isMemory: inMemory}, nil
}

func (r *SQLiteRepository) Save(ctx context.Context, name string, snap board.Snapshot) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to encode board: %w", err)
	}
	_, err = r.conn.ExecContext(ctx, `
		INSERT INTO boards (name, data, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at
	`, name, string(data), time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("failed to save board %s: %w", name, err)
	}
	return nil
}

func (r *SQLiteRepository) Load(ctx context.Context, name string) (board.Snapshot, error) {
	if err := ValidateName(name); err != nil {
		return board.Snapshot{}, err
	}
	var data string
	err := r.conn.QueryRowContext(ctx, `SELECT data FROM boards WHERE name = ?`, name).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return board.Snapshot{}, fmt.Errorf("%w: %s", ErrBoardNotFound, name)
	}
	if err != nil {
		return board.Snapshot{}, fmt.Errorf("failed to load board %s: %w", name, err)
	}
	var snap board.Snapshot
	if err := json.Unmarshal([]byte(data), &snap); err != nil {
		return board.Snapshot{}, fmt.Errorf("failed to decode board %s: %w", name, err)
	}
	return snap, nil
}

func (r *SQLiteRepository) List(ctx context.Context) ([]string, error) {
	rows, err := r.conn.QueryContext(ctx, `SELECT name FROM boards ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list boards: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (r *SQLiteRepository) Location() string {
	if r.isMemory {
		return ":memory:"
	}
	return r.path
}

func (r *SQLiteRepository) Close() error {
	return r.conn.Close()
}
