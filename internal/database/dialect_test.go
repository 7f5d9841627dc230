package database

import (
	"context"
	"errors"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRebind(t *testing.T) {
	tests := []struct {
		name    string
		dialect Dialect
		in      string
		want    string
	}{
		{"postgres numbers placeholders", Postgres, "SELECT * FROM t WHERE a = ? AND b = ?", "SELECT * FROM t WHERE a = $1 AND b = $2"},
		{"postgres skips quoted", Postgres, "SELECT '?' FROM t WHERE a = ?", "SELECT '?' FROM t WHERE a = $1"},
		{"mysql unchanged", MySQL, "SELECT ? ", "SELECT ? "},
		{"sqlite unchanged", SQLite, "a = ?", "a = ?"},
		{"no placeholders", Postgres, "SELECT 1", "SELECT 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.dialect.Rebind(tt.in))
		})
	}
}

func TestContains(t *testing.T) {
	assert.Equal(t, "strpos(title, $1) > 0", Postgres.Rebind(Postgres.Contains("title")))
	assert.Equal(t, "INSTR(CAST(title AS BINARY), CAST(? AS BINARY)) > 0", MySQL.Contains("title"))
	assert.Equal(t, "instr(title, ?) > 0", SQLite.Contains("title"))
}

func TestContains_SQLiteMatchesCase(t *testing.T) {
	db, err := Open("sqlite::memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	var n int
	for _, tt := range []struct {
		needle string
		want   int
	}{
		{"Compost", 1},
		{"compost", 0},
		{"50%", 1},
		{"5_%", 0},
	} {
		require.NoError(t, db.QueryRowContext(context.Background(),
			"SELECT COUNT(*) FROM (SELECT 'Compost 50% off' AS title) WHERE "+db.Dialect.Contains("title"), tt.needle).Scan(&n))
		assert.Equal(t, tt.want, n, tt.needle)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		dialect Dialect
		driver  string
	}{
		{"postgres://u:p@localhost:5432/eco?sslmode=disable", Postgres, "pgx"},
		{"postgresql://localhost/eco", Postgres, "pgx"},
		{"mysql://u:p@localhost/eco", MySQL, "mysql"},
		{"u:p@tcp(localhost:3306)/eco", MySQL, "mysql"},
		{"sqlite::memory:", SQLite, "sqlite"},
		{"file:eco.db", SQLite, "sqlite"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			d, drv, _, err := parse(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.dialect, d)
			assert.Equal(t, tt.driver, drv)
		})
	}

	_, _, _, err := parse("redis://localhost")
	assert.Error(t, err)
	_, _, _, err = parse("  ")
	assert.Error(t, err)
}

func TestMySQLDSN(t *testing.T) {
	dsn, err := mysqlDSN("mysql://eco:secret@db/eco?timeout=5s")
	require.NoError(t, err)
	cfg, err := mysql.ParseDSN(dsn)
	require.NoError(t, err)
	assert.Equal(t, "db:3306", cfg.Addr)
	assert.Equal(t, "eco", cfg.User)
	assert.Equal(t, "secret", cfg.Passwd)
	assert.Equal(t, "eco", cfg.DBName)
	assert.True(t, cfg.ParseTime)
}

func TestRedacted(t *testing.T) {
	assert.Equal(t, "postgres://eco@db:5432/eco", Redacted("postgres://eco:secret@db:5432/eco"))
	assert.Equal(t, "sqlite::memory:", Redacted("sqlite::memory:"))
}

func TestIsUniqueViolation(t *testing.T) {
	assert.False(t, IsUniqueViolation(nil))
	assert.True(t, IsUniqueViolation(&mysql.MySQLError{Number: 1062}))
	assert.False(t, IsUniqueViolation(&mysql.MySQLError{Number: 1045}))
	assert.True(t, IsUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.False(t, IsUniqueViolation(errors.New("boom")))
}

func TestOpenSQLite_UniqueViolation(t *testing.T) {
	db, err := Open("sqlite::memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	ctx := context.Background()
	_, err = db.ExecContext(ctx, "CREATE TABLE kv (id INTEGER PRIMARY KEY AUTOINCREMENT, k TEXT NOT NULL UNIQUE)")
	require.NoError(t, err)

	id, err := db.InsertID(ctx, "INSERT INTO kv (k) VALUES (?)", "a")
	require.NoError(t, err)
	assert.EqualValues(t, 1, id)

	_, err = db.InsertID(ctx, "INSERT INTO kv (k) VALUES (?)", "a")
	require.Error(t, err)
	assert.True(t, IsUniqueViolation(err))
}
