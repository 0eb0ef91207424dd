package dbx

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", "file:"+filepath.Join(t.TempDir(), "dbx.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS t (id INTEGER PRIMARY KEY, v TEXT);`)
	require.NoError(t, err)
	return db
}

func insert(ctx context.Context, h DBTX, v string) error {
	_, err := h.ExecContext(ctx, `INSERT INTO t(v) VALUES (?)`, v)
	return err
}

func count(ctx context.Context, h DBTX) (int, error) {
	var n int
	err := h.QueryRowContext(ctx, `SELECT COUNT(*) FROM t`).Scan(&n)
	return n, err
}

func TestDBTX_WorksWithDB(t *testing.T) {
	ctx := context.Background()
	db := setupDB(t)

	require.NoError(t, insert(ctx, db, "a"))
	n, err := count(ctx, db)
	require.NoError(t, err)
	require.Equal(t, 1, n)
}

func TestDBTX_WorksWithTx(t *testing.T) {
	ctx := context.Background()
	db := setupDB(t)

	tx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)
	require.NoError(t, insert(ctx, tx, "in-tx"))

	n, err := count(ctx, tx)
	require.NoError(t, err)
	require.Equal(t, 1, n, "visible inside the transaction")

	require.NoError(t, tx.Rollback())

	n, err = count(ctx, db)
	require.NoError(t, err)
	require.Equal(t, 0, n, "gone after rollback")
}
