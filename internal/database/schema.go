package database

import (
	"context"
	"embed"
	"fmt"
	"strings"
)

//go:embed schema/*.sql
var schemaFS embed.FS

// EnsureSchema applies the bootstrap DDL for the pool's dialect.  Every
// statement is CREATE ... IF NOT EXISTS, so running it against an existing
// database is a no-op.  Statements are sent one at a time because the
// MySQL driver rejects multi-statement strings by default.
func (db *DB) EnsureSchema(ctx context.Context) error {
	raw, err := schemaFS.ReadFile("schema/" + string(db.Dialect) + ".sql")
	if err != nil {
		return fmt.Errorf("schema for %s: %w", db.Dialect, err)
	}
	for _, stmt := range strings.Split(string(raw), ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := db.DB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}
