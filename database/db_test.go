package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitemigration"
	"zombiezen.com/go/sqlite/sqlitex"
)

func openTestDB(t *testing.T) *Pool {
	t.Helper()
	p, err := Open(context.Background(), filepath.Join(t.TempDir(), "test.db"), 2)
	require.NoError(t, err)
	t.Cleanup(func() { p.Close() })
	return p
}

func TestOpenRequiresPath(t *testing.T) {
	_, err := Open(context.Background(), "", 1)
	assert.Error(t, err)
}

func TestOpenMigratesSchema(t *testing.T) {
	p := openTestDB(t)
	ctx := context.Background()

	conn, err := p.Take(ctx)
	require.NoError(t, err)
	defer p.Put(conn)

	var columns []string
	err = sqlitex.Execute(conn, "SELECT name FROM pragma_table_info('events') ORDER BY cid", &sqlitex.ExecOptions{
		ResultFunc: func(stmt *sqlite.Stmt) error {
			columns = append(columns, stmt.ColumnText(0))
			return nil
		},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "timestamp", "name"}, columns)

	var journalMode string
	err = sqlitex.Execute(conn, "PRAGMA journal_mode", &sqlitex.ExecOptions{
		ResultFunc: func(stmt *sqlite.Stmt) error {
			journalMode = stmt.ColumnText(0)
			return nil
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "wal", journalMode)
}

func timestampsNewestFirst(t *testing.T, conn *sqlite.Conn) []string {
	t.Helper()
	var out []string
	err := sqlitex.Execute(conn, "SELECT timestamp FROM events ORDER BY timestamp DESC", &sqlitex.ExecOptions{
		ResultFunc: func(stmt *sqlite.Stmt) error {
			out = append(out, stmt.ColumnText(0))
			return nil
		},
	})
	require.NoError(t, err)
	return out
}

func TestUpgradeNormalizesDefaultTimestamps(t *testing.T) {
	path := filepath.Join(t.TempDir(), "upgrade.db")
	ctx := context.Background()

	// A database created before timestamps were normalized.
	old, err := sqlite.OpenConn(path)
	require.NoError(t, err)
	require.NoError(t, sqlitemigration.Migrate(ctx, old, sqlitemigration.Schema{
		Migrations: schema.Migrations[:3],
	}))
	require.NoError(t, sqlitex.ExecuteTransient(old,
		"INSERT INTO events (timestamp) VALUES ('2024-07-21 23:00:00'), ('2024-07-21T08:00:00.000Z')", nil))
	require.NoError(t, old.Close())

	p, err := Open(ctx, path, 1)
	require.NoError(t, err)
	defer p.Close()
	conn, err := p.Take(ctx)
	require.NoError(t, err)
	defer p.Put(conn)

	assert.Equal(t, []string{"2024-07-21T23:00:00.000Z", "2024-07-21T08:00:00.000Z"}, timestampsNewestFirst(t, conn))
}

func TestDefaultTimestampIsNormalizedOnInsert(t *testing.T) {
	p := openTestDB(t)
	ctx := context.Background()
	conn, err := p.Take(ctx)
	require.NoError(t, err)
	defer p.Put(conn)

	require.NoError(t, sqlitex.ExecuteTransient(conn, "INSERT INTO events (name) VALUES ('default')", nil))
	require.NoError(t, sqlitex.ExecuteTransient(conn,
		"INSERT INTO events (timestamp) VALUES ('2024-07-21T08:00:00.000Z')", nil))

	got := timestampsNewestFirst(t, conn)
	require.Len(t, got, 2)
	assert.Regexp(t, `^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}\.\d{3}Z$`, got[0])
	assert.Equal(t, "2024-07-21T08:00:00.000Z", got[1])
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "twice.db")
	ctx := context.Background()

	first, err := Open(ctx, path, 1)
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := Open(ctx, path, 1)
	require.NoError(t, err)
	defer second.Close()
	assert.NoError(t, second.Ping(ctx))
}
