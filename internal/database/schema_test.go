package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureSchema_Idempotent(t *testing.T) {
	db, err := Open("sqlite::memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	ctx := context.Background()
	require.NoError(t, db.EnsureSchema(ctx))
	require.NoError(t, db.EnsureSchema(ctx))

	for _, table := range []string{"users", "tips", "challenges", "articles", "activities", "posts", "resources"} {
		var n int
		err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?", table).Scan(&n)
		require.NoError(t, err)
		assert.Equal(t, 1, n, table)
	}
}

func TestSchemaFiles_EveryDialect(t *testing.T) {
	for _, d := range []Dialect{Postgres, MySQL, SQLite} {
		raw, err := schemaFS.ReadFile("schema/" + string(d) + ".sql")
		require.NoError(t, err, d)
		assert.Contains(t, string(raw), "CREATE TABLE IF NOT EXISTS posts", d)
	}
}
