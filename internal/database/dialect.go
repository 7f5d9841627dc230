package database

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"
)

// Dialect names the SQL flavour behind a DB.
type Dialect string

const (
	Postgres Dialect = "postgres"
	MySQL    Dialect = "mysql"
	SQLite   Dialect = "sqlite"
)

// Contains returns a predicate that is true when column holds the bound
// argument as a case-sensitive substring.  The argument is matched
// literally, so "%" and "_" carry no pattern meaning.
func (d Dialect) Contains(column string) string {
	switch d {
	case Postgres:
		return "strpos(" + column + ", ?) > 0"
	case MySQL:
		return "INSTR(CAST(" + column + " AS BINARY), CAST(? AS BINARY)) > 0"
	default:
		return "instr(" + column + ", ?) > 0"
	}
}

// Rebind rewrites "?" placeholders to "$1, $2, ..." for postgres.  Question
// marks inside single-quoted literals are left alone.
func (d Dialect) Rebind(q string) string {
	if d != Postgres || !strings.Contains(q, "?") {
		return q
	}
	var b strings.Builder
	b.Grow(len(q) + 8)
	n := 0
	inQuote := false
	for i := 0; i < len(q); i++ {
		ch := q[i]
		switch {
		case ch == '\'':
			inQuote = !inQuote
			b.WriteByte(ch)
		case ch == '?' && !inQuote:
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
		default:
			b.WriteByte(ch)
		}
	}
	return b.String()
}

func (db *DB) ExecContext(ctx context.Context, q string, args ...any) (sql.Result, error) {
	return db.DB.ExecContext(ctx, db.Dialect.Rebind(q), args...)
}

func (db *DB) QueryContext(ctx context.Context, q string, args ...any) (*sql.Rows, error) {
	return db.DB.QueryContext(ctx, db.Dialect.Rebind(q), args...)
}

func (db *DB) QueryRowContext(ctx context.Context, q string, args ...any) *sql.Row {
	return db.DB.QueryRowContext(ctx, db.Dialect.Rebind(q), args...)
}

// InsertID runs an INSERT and returns the generated primary key.  Postgres
// has no LastInsertId, so the statement is extended with RETURNING id there.
func (db *DB) InsertID(ctx context.Context, q string, args ...any) (int64, error) {
	if db.Dialect == Postgres {
		var id int64
		err := db.DB.QueryRowContext(ctx, db.Dialect.Rebind(q)+" RETURNING id", args...).Scan(&id)
		return id, err
	}
	res, err := db.ExecContext(ctx, q, args...)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// sqliteConstraintUnique is SQLITE_CONSTRAINT_UNIQUE.
const sqliteConstraintUnique = 2067

// IsUniqueViolation reports whether err is a unique-key violation in any of
// the supported drivers.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var my *mysql.MySQLError
	if errors.As(err, &my) {
		return my.Number == 1062
	}
	var pg *pgconn.PgError
	if errors.As(err, &pg) {
		return pg.Code == "23505"
	}
	var lite *sqlite.Error
	if errors.As(err, &lite) {
		return lite.Code() == sqliteConstraintUnique
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint")
}
