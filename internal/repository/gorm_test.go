package repository_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bigkaa/goartstore/source-registry/internal/config"
	"github.com/bigkaa/goartstore/source-registry/internal/database"
	"github.com/bigkaa/goartstore/source-registry/internal/domain/model"
	"github.com/bigkaa/goartstore/source-registry/internal/repository"
)

// newSQLiteRepo открывает SQLite во временном каталоге и применяет миграции.
func newSQLiteRepo(t *testing.T) repository.SourceFileRepository {
	t.Helper()

	cfg := &config.Config{
		DatabaseURL: "sqlite://" + filepath.Join(t.TempDir(), "registry.db"),
		DBBackend:   config.BackendSQLite,
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	db, err := database.Connect(context.Background(), cfg, logger)
	require.NoError(t, err)
	t.Cleanup(db.Close)

	require.NoError(t, database.Migrate(cfg, logger))
	return db.SourceFiles()
}

func TestGormSourceFileRepo_ListEmpty(t *testing.T) {
	repo := newSQLiteRepo(t)

	got, err := repo.List(context.Background())
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestGormSourceFileRepo_CreateReturnsStoredRow(t *testing.T) {
	repo := newSQLiteRepo(t)
	ctx := context.Background()

	nf := model.NewSourceFile{Path: "/a.txt", Hash: "abc123", Size: 42, DateCreated: "2024-01-01"}

	created, err := repo.Create(ctx, nf)
	require.NoError(t, err)
	assert.Equal(t, nf.Row(), created)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []model.SourceFile{nf.Row()}, list)
}

func TestGormSourceFileRepo_DuplicatesAllowed(t *testing.T) {
	repo := newSQLiteRepo(t)
	ctx := context.Background()

	nf := model.NewSourceFile{Path: "/dup.txt", Hash: "h", Size: 1, DateCreated: "d"}
	for range 2 {
		_, err := repo.Create(ctx, nf)
		require.NoError(t, err)
	}

	list, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestGormSourceFileRepo_ConcurrentCreates(t *testing.T) {
	repo := newSQLiteRepo(t)
	ctx := context.Background()

	const n = 20
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := range n {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := repo.Create(ctx, model.NewSourceFile{
				Path:        fmt.Sprintf("/file-%d", i),
				Hash:        fmt.Sprintf("hash-%d", i),
				Size:        int32(i),
				DateCreated: "2024-01-01",
			})
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, n)

	seen := make(map[string]bool, n)
	for _, f := range list {
		seen[f.Path] = true
	}
	for i := range n {
		assert.True(t, seen[fmt.Sprintf("/file-%d", i)], "нет записи /file-%d", i)
	}
}

func TestGormSourceFileRepo_ContextCanceled(t *testing.T) {
	repo := newSQLiteRepo(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.List(ctx)
	assert.Error(t, err)
}
