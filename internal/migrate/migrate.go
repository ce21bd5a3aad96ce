// Package migrate applies embedded SQL migrations on startup.
package migrate

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/and161185/contactbook/migrations"
)

// Up runs all pending Postgres migrations from the embedded filesystem.
func Up(ctx context.Context, dsn string) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return err
	}
	defer db.Close()
	return UpDB(ctx, db, "postgres")
}

// UpDB runs pending migrations for dialect ("postgres" or "sqlite3") on an open handle.
func UpDB(ctx context.Context, db *sql.DB, dialect string) error {
	dir := map[string]string{"postgres": "postgres", "sqlite3": "sqlite"}[dialect]
	if dir == "" {
		return fmt.Errorf("migrate: unsupported dialect %q", dialect)
	}

	goose.SetBaseFS(migrations.FS)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect(dialect); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, dir)
}
