package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	schema "github.com/AtRiskMedia/logic-explorer/internal/infrastructure/database"
	"github.com/AtRiskMedia/logic-explorer/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/logic-explorer/internal/infrastructure/persistence/database"
)

func newTestRepository(t *testing.T) *SQLClientStorageRepository {
	t.Helper()
	dsn := "file:" + filepath.Join(t.TempDir(), "storage.db")
	db, err := database.NewConnectionWithLogger(database.DriverSQLite, dsn, database.Options{}, logging.NewDiscardLogger())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, schema.NewTableCreator().CreateSchema(db.DB))
	return NewSQLClientStorageRepository(db, logging.NewDiscardLogger())
}

func TestClientStorage_GetMissingKey(t *testing.T) {
	repo := newTestRepository(t)

	value, found, err := repo.Get(context.Background(), "client", "theme")

	require.NoError(t, err)
	assert.False(t, found)
	assert.Empty(t, value)
}

func TestClientStorage_SetOverwrites(t *testing.T) {
	// Arrange
	repo := newTestRepository(t)
	ctx := context.Background()

	// Act
	require.NoError(t, repo.Set(ctx, "client", "theme", "dark"))
	require.NoError(t, repo.Set(ctx, "client", "theme", "light"))
	value, found, err := repo.Get(ctx, "client", "theme")

	// Assert
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "light", value)
}

func TestClientStorage_ClientsAreIsolated(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	require.NoError(t, repo.Set(ctx, "a", "theme", "dark"))
	require.NoError(t, repo.Set(ctx, "a", "learningStats", `{"expressionsTested":1}`))
	require.NoError(t, repo.Set(ctx, "b", "theme", "light"))

	all, err := repo.LoadAll(ctx, "a")

	require.NoError(t, err)
	assert.Equal(t, map[string]string{"theme": "dark", "learningStats": `{"expressionsTested":1}`}, all)
}

func TestClientStorage_DeleteAndPurge(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	require.NoError(t, repo.Set(ctx, "a", "theme", "dark"))
	require.NoError(t, repo.Set(ctx, "b", "theme", "dark"))

	require.NoError(t, repo.Delete(ctx, "a", "theme"))
	require.NoError(t, repo.Delete(ctx, "a", "missing"))
	_, found, err := repo.Get(ctx, "a", "theme")
	require.NoError(t, err)
	assert.False(t, found)

	n, err := repo.PurgeBefore(ctx, time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestResolveDriver(t *testing.T) {
	assert.Equal(t, database.DriverLibSQL, database.ResolveDriver("sqlite3", "libsql://db.turso.io?authToken=x"))
	assert.Equal(t, database.DriverSQLite, database.ResolveDriver("", "file:x.db"))
	assert.Equal(t, database.DriverSQLite, database.ResolveDriver("sqlite3", "file:x.db"))
}
