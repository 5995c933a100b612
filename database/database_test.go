package database

import (
	"context"
	"errors"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openMemory(t *testing.T) *DB {
	t.Helper()
	db, err := Open(":memory:", nil)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestRebind(t *testing.T) {
	q := "SELECT * FROM t WHERE a = ? AND b = '?' AND c IN (?, ?)"

	assert.Equal(t, q, Rebind(DialectSQLite, q))
	assert.Equal(t,
		"SELECT * FROM t WHERE a = $1 AND b = '?' AND c IN ($2, $3)",
		Rebind(DialectPostgres, q),
	)
}

func TestSplitStatements(t *testing.T) {
	sql := `-- header; comment
CREATE TABLE a (x TEXT DEFAULT 'a;b');
INSERT INTO a VALUES ('it''s');
  ;
SELECT 1`

	stmts := splitStatements(sql)
	require.Len(t, stmts, 3)
	assert.Contains(t, stmts[0], "'a;b'")
	assert.Equal(t, "INSERT INTO a VALUES ('it''s')", stmts[1])
	assert.Equal(t, "SELECT 1", stmts[2])
}

func TestMigrateEmbedded(t *testing.T) {
	db := openMemory(t)
	ctx := context.Background()

	require.NoError(t, db.Migrate(ctx, Migrations()))
	// İkinci çalıştırma hiçbir şey yapmamalı.
	require.NoError(t, db.Migrate(ctx, Migrations()))

	var n int
	require.NoError(t, db.QueryRowContext(ctx, "SELECT COUNT(*) FROM schema_migrations").Scan(&n))
	assert.GreaterOrEqual(t, n, 1)

	require.NoError(t, db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&n))
	assert.Zero(t, n)
}

func TestMigrateRecoverable(t *testing.T) {
	db := openMemory(t)
	ctx := context.Background()

	fsys := fstest.MapFS{
		"001_a.sql": {Data: []byte("CREATE TABLE a (x TEXT);")},
		"002_b.sql": {Data: []byte("CREATE TABLE a (x TEXT); ALTER TABLE a ADD COLUMN y TEXT;")},
	}
	require.NoError(t, db.Migrate(ctx, fsys))

	_, err := db.ExecContext(ctx, "INSERT INTO a (x, y) VALUES (?, ?)", "1", "2")
	require.NoError(t, err)
}

func TestWithTx(t *testing.T) {
	db := openMemory(t)
	ctx := context.Background()

	_, err := db.ExecContext(ctx, "CREATE TABLE t (id TEXT PRIMARY KEY)")
	require.NoError(t, err)

	boom := errors.New("boom")
	err = WithTx(ctx, db, func(tx TxQuerier) error {
		if _, err := tx.ExecContext(ctx, "INSERT INTO t (id) VALUES (?)", "a"); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	err = WithTx(ctx, db, func(tx TxQuerier) error {
		_, err := tx.ExecContext(ctx, "INSERT INTO t (id) VALUES (?)", "b")
		return err
	})
	require.NoError(t, err)

	var ids []string
	rows, err := db.QueryContext(ctx, "SELECT id FROM t")
	require.NoError(t, err)
	defer rows.Close()
	for rows.Next() {
		var id string
		require.NoError(t, rows.Scan(&id))
		ids = append(ids, id)
	}
	assert.Equal(t, []string{"b"}, ids)
}

func TestWithTxPanicRollsBack(t *testing.T) {
	db := openMemory(t)
	ctx := context.Background()

	_, err := db.ExecContext(ctx, "CREATE TABLE t (id TEXT PRIMARY KEY)")
	require.NoError(t, err)

	assert.Panics(t, func() {
		_ = WithTx(ctx, db, func(tx TxQuerier) error {
			_, _ = tx.ExecContext(ctx, "INSERT INTO t (id) VALUES (?)", "a")
			panic("unexpected")
		})
	})

	var n int
	require.NoError(t, db.QueryRowContext(ctx, "SELECT COUNT(*) FROM t").Scan(&n))
	assert.Zero(t, n)
}

func TestIsUniqueViolation(t *testing.T) {
	db := openMemory(t)
	ctx := context.Background()

	_, err := db.ExecContext(ctx, "CREATE TABLE t (id TEXT PRIMARY KEY)")
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, "INSERT INTO t (id) VALUES (?)", "a")
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, "INSERT INTO t (id) VALUES (?)", "a")
	require.Error(t, err)

	assert.True(t, IsUniqueViolation(err))
	assert.False(t, IsUniqueViolation(errors.New("other")))
	assert.False(t, IsUniqueViolation(nil))
}
