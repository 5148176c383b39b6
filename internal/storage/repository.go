// Package storage persists board snapshots under a name, either as JSON files
// in a directory or as rows of a SQLite database.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"ideaboard/internal/board"
)

var (
	ErrBoardNotFound  = errors.New("board not found")
	ErrInvalidName    = errors.New("invalid board name")
	ErrUnknownBackend = errors.New("unknown storage backend")
)

const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Repository stores whole boards. Save replaces any board of the same name.
type Repository interface {
	Save(ctx context.Context, name string, snap board.Snapshot) error
	Load(ctx context.Context, name string) (board.Snapshot, error)
	List(ctx context.Context) ([]string, error)
	// Location names where boards are kept, for logs and messages.
	Location() string
	Close() error
}

type Config struct {
	Backend  string // "file" (default) or "sqlite"
	Dir      string // directory for board files
	Database string // SQLite database path
	InMemory bool   // in-memory SQLite, for tests
}

// Open returns the repository selected by cfg.Backend.
func Open(cfg Config) (Repository, error) {
	switch strings.ToLower(cfg.Backend) {
	case "", BackendFile:
		return NewFileRepository(cfg.Dir)
	case BackendSQLite:
		return NewSQLiteRepository(cfg.Database, cfg.InMemory)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
}

// ValidateName rejects names that cannot be used as a file name.
func ValidateName(name string) error {
	switch {
	case strings.TrimSpace(name) == "", name == ".", name == "..":
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	case strings.ContainsAny(name, `/\`+"\x00"):
		return fmt.Errorf("%w: %q contains a path separator", ErrInvalidName, name)
	}
	return nil
}
