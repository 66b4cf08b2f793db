package database

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(Config{Path: MemoryPath}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestLoad_OrdersByVersion(t *testing.T) {
	fsys := fstest.MapFS{
		"002_add_index.sql":      {Data: []byte("CREATE INDEX i ON t(a);")},
		"001_initial_schema.sql": {Data: []byte("CREATE TABLE t (a INTEGER);")},
		"README.md":              {Data: []byte("ignored")},
	}

	migrations, err := Load(fsys)
	require.NoError(t, err)
	require.Len(t, migrations, 2)
	assert.Equal(t, 1, migrations[0].Version)
	assert.Equal(t, "initial_schema", migrations[0].Name)
	assert.Equal(t, 2, migrations[1].Version)
}

func TestLoad_RejectsBadNames(t *testing.T) {
	_, err := Load(fstest.MapFS{"schema.sql": {Data: []byte("SELECT 1;")}})
	assert.Error(t, err)

	_, err = Load(fstest.MapFS{
		"001_a.sql": {Data: []byte("SELECT 1;")},
		"001_b.sql": {Data: []byte("SELECT 1;")},
	})
	assert.Error(t, err)
}

func TestMigrator_RunIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	m := NewMigrator(db, zap.NewNop())
	fsys := fstest.MapFS{
		"001_initial_schema.sql": {Data: []byte("CREATE TABLE notes (id INTEGER PRIMARY KEY, body TEXT);")},
	}

	ctx := context.Background()
	require.NoError(t, m.Run(ctx, fsys))
	require.NoError(t, m.Run(ctx, fsys))

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count))
	assert.Equal(t, 1, count)

	_, err := db.Exec("INSERT INTO notes (body) VALUES ('x')")
	assert.NoError(t, err)
}

func TestMigrator_FailedMigrationRollsBack(t *testing.T) {
	db := newTestDB(t)
	m := NewMigrator(db, zap.NewNop())

	err := m.Run(context.Background(), fstest.MapFS{
		"001_broken.sql": {Data: []byte("CREATE TABLE ok (id INTEGER); THIS IS NOT SQL;")},
	})
	require.Error(t, err)

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count))
	assert.Equal(t, 0, count)
}
