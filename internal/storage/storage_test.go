package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ideaboard/internal/board"
)

func sampleSnapshot() board.Snapshot {
	return board.Snapshot{
		Cards: []board.Card{
			{ID: "a", Kind: board.KindText, Content: "hello", Size: board.Size{Width: 16, Height: 4}},
			{ID: "b", Kind: board.KindWebpage, Content: "https://example.com", Position: board.Point{X: 30}, Size: board.Size{Width: 16, Height: 4}, Color: "4"},
		},
		Connections: []board.Connection{{ID: "c", SourceID: "a", TargetID: "b", Label: "links"}},
		Groups: []board.Group{{
			ID:       "g",
			Name:     "pair",
			Members:  []string{"a", "b"},
			Position: board.Point{X: -1, Y: -2},
			Size:     board.Size{Width: 48, Height: 7},
		}},
	}
}

func repositories(t *testing.T) map[string]Repository {
	t.Helper()
	files, err := Open(Config{Backend: BackendFile, Dir: t.TempDir()})
	require.NoError(t, err)
	mem, err := Open(Config{Backend: BackendSQLite, InMemory: true})
	require.NoError(t, err)
	disk, err := Open(Config{Backend: BackendSQLite, Database: filepath.Join(t.TempDir(), "db", "boards.db")})
	require.NoError(t, err)

	repos := map[string]Repository{"file": files, "sqlite memory": mem, "sqlite file": disk}
	t.Cleanup(func() {
		for _, r := range repos {
			r.Close()
		}
	})
	return repos
}

func TestSaveLoad(t *testing.T) {
	ctx := context.Background()
	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			want := sampleSnapshot()
			require.NoError(t, repo.Save(ctx, "ideas", want))

			got, err := repo.Load(ctx, "ideas")
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestSaveReplaces(t *testing.T) {
	ctx := context.Background()
	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, repo.Save(ctx, "ideas", sampleSnapshot()))
			smaller := board.Snapshot{Cards: []board.Card{{ID: "z", Kind: board.KindNote, Size: board.Size{Width: 4, Height: 3}}}}
			require.NoError(t, repo.Save(ctx, "ideas", smaller))

			got, err := repo.Load(ctx, "ideas")
			require.NoError(t, err)
			assert.Equal(t, smaller.Cards, got.Cards)
			assert.Empty(t, got.Connections)

			names, err := repo.List(ctx)
			require.NoError(t, err)
			assert.Equal(t, []string{"ideas"}, names)
		})
	}
}

func TestLoadMissing(t *testing.T) {
	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			_, err := repo.Load(context.Background(), "nothing")
			assert.ErrorIs(t, err, ErrBoardNotFound)
		})
	}
}

func TestListSorted(t *testing.T) {
	ctx := context.Background()
	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			for _, n := range []string{"zeta", "alpha", "mid"} {
				require.NoError(t, repo.Save(ctx, n, sampleSnapshot()))
			}
			names, err := repo.List(ctx)
			require.NoError(t, err)
			assert.Equal(t, []string{"alpha", "mid", "zeta"}, names)
		})
	}
}

func TestInvalidNames(t *testing.T) {
	ctx := context.Background()
	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			for _, bad := range []string{"", " ", "..", "a/b", `a\b`} {
				assert.ErrorIs(t, repo.Save(ctx, bad, sampleSnapshot()), ErrInvalidName, "save %q", bad)
				_, err := repo.Load(ctx, bad)
				assert.ErrorIs(t, err, ErrInvalidName, "load %q", bad)
			}
		})
	}
}

func TestFileRepositoryLayout(t *testing.T) {
	dir := t.TempDir()
	repo, err := NewFileRepository(dir)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))

	require.NoError(t, repo.Save(context.Background(), "ideas", sampleSnapshot()))

	data, err := os.ReadFile(filepath.Join(dir, "ideas.board.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "\n  \"cards\": [")
	assert.Contains(t, string(data), `"sourceId": "a"`)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2, "no temp files left behind")

	names, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"ideas"}, names)
}

func TestFileRepositoryCorrupt(t *testing.T) {
	dir := t.TempDir()
	repo, err := NewFileRepository(dir)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(repo.Path("broken"), []byte("{"), 0644))

	_, err = repo.Load(context.Background(), "broken")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrBoardNotFound)
}

func TestCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, repo.Save(ctx, "ideas", sampleSnapshot()), context.Canceled)
		})
	}
}

func TestOpenUnknownBackend(t *testing.T) {
	_, err := Open(Config{Backend: "redis"})
	assert.ErrorIs(t, err, ErrUnknownBackend)

	_, err = Open(Config{Backend: BackendSQLite})
	assert.Error(t, err, "sqlite needs a path")
}

func TestLocation(t *testing.T) {
	dir := t.TempDir()
	files, err := Open(Config{Backend: BackendFile, Dir: dir})
	require.NoError(t, err)
	defer files.Close()
	assert.Equal(t, dir, files.Location())

	mem, err := Open(Config{Backend: BackendSQLite, InMemory: true, Database: "ignored.db"})
	require.NoError(t, err)
	defer mem.Close()
	assert.Equal(t, ":memory:", mem.Location())

	db := filepath.Join(t.TempDir(), "boards.db")
	disk, err := Open(Config{Backend: BackendSQLite, Database: db})
	require.NoError(t, err)
	defer disk.Close()
	assert.Equal(t, db, disk.Location())
}
