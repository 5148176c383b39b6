package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"ideaboard/internal/board"
)

const fileSuffix = ".board.json"

// FileRepository keeps one pretty-printed JSON file per board.
type FileRepository struct {
	dir string
}

func NewFileRepository(dir string) (*FileRepository, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create save directory: %w", err)
	}
	return &FileRepository{dir: dir}, nil
}

// Path returns the file a board is stored in.
func (r *FileRepository) Path(name string) string {
	return filepath.Join(r.dir, name+fileSuffix)
}

func (r *FileRepository) Save(ctx context.Context, name string, snap board.Snapshot) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode board: %w", err)
	}

	tmp, err := os.CreateTemp(r.dir, name+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write board: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write board: %w", err)
	}
	if err := os.Rename(tmp.Name(), r.Path(name)); err != nil {
		return fmt.Errorf("failed to replace board file: %w", err)
	}
	return nil
}

func (r *FileRepository) Load(ctx context.Context, name string) (board.Snapshot, error) {
	if err := ValidateName(name); err != nil {
		return board.Snapshot{}, err
	}
	if err := ctx.Err(); err != nil {
		return board.Snapshot{}, err
	}
	data, err := os.ReadFile(r.Path(name))
	if errors.Is(err, os.ErrNotExist) {
		return board.Snapshot{}, fmt.Errorf("%w: %s", ErrBoardNotFound, name)
	}
	if err != nil {
		return board.Snapshot{}, fmt.Errorf("failed to read board: %w", err)
	}
	var snap board.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return board.Snapshot{}, fmt.Errorf("failed to decode board %s: %w", name, err)
	}
	return snap, nil
}

func (r *FileRepository) List(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read save directory: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), fileSuffix) {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), fileSuffix))
	}
	slices.Sort(names)
	return names, nil
}

func (r *FileRepository) Location() string { return r.dir }

func (r *FileRepository) Close() error { return nil }
