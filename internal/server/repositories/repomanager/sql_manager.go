// Package repomanager provides RepositoryManager implementations for
// PostgreSQL and SQLite, wiring repository constructors together with the
// embedded goose migrations.
package repomanager

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"

	"github.com/dmitrijs2005/gophauth/internal/dbx"
	"github.com/dmitrijs2005/gophauth/internal/server/migrations"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/accounts"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

const (
	DriverPostgres = "pgx"
	DriverSQLite   = "sqlite"
)

// gooseUp is a seam for testing migrations without a database.
var gooseUp = func(ctx context.Context, db *sql.DB, dialect goose.Dialect, fsys fs.FS) error {
	p, err := goose.NewProvider(dialect, db, fsys)
	if err != nil {
		return err
	}
	_, err = p.Up(ctx)
	return err
}

// PostgresRepositoryManager vends PostgreSQL-backed repositories.
type PostgresRepositoryManager struct{}

// Accounts returns an accounts.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Accounts(db dbx.DBTX) accounts.Repository {
	return accounts.NewPostgresRepository(db)
}

// RunMigrations applies the embedded PostgreSQL migrations.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	return gooseUp(ctx, db, goose.DialectPostgres, migrations.Postgres())
}

// SQLiteRepositoryManager vends SQLite-backed repositories.
type SQLiteRepositoryManager struct{}

// Accounts returns an accounts.Repository bound to the provided DBTX.
func (m *SQLiteRepositoryManager) Accounts(db dbx.DBTX) accounts.Repository {
	return accounts.NewSQLiteRepository(db)
}

// RunMigrations applies the embedded SQLite migrations.
func (m *SQLiteRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	return gooseUp(ctx, db, goose.DialectSQLite3, migrations.SQLite())
}

// NewRepositoryManager returns the manager for a database/sql driver name.
func NewRepositoryManager(driver string) (RepositoryManager, error) {
	switch driver {
	case DriverPostgres:
		return &PostgresRepositoryManager{}, nil
	case DriverSQLite:
		return &SQLiteRepositoryManager{}, nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

// Open opens the database and returns it with the matching manager.
// SQLite is limited to a single connection so concurrent writers queue in
// the pool instead of failing with SQLITE_BUSY.
func Open(driver, dsn string) (*sql.DB, RepositoryManager, error) {
	m, err := NewRepositoryManager(driver)
	if err != nil {
		return nil, nil, err
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("db open error: %w", err)
	}
	if driver == DriverSQLite {
		db.SetMaxOpenConns(1)
	}
	return db, m, nil
}
