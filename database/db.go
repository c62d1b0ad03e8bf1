package database

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

// DB is the global SQLite pool, set by InitDB.
var DB *Pool

// Pool is a SQLite connection pool with the tracker schema applied.
// Individual connections are not safe for concurrent use; each goroutine
// must Take its own and Put it back.
type Pool struct {
	inner *sqlitex.Pool
	path  string
}

// Open creates the pool, applies pragmas to every connection and migrates
// the schema to the latest version.
func Open(ctx context.Context, path string, poolSize int) (*Pool, error) {
	if path == "" {
		return nil, fmt.Errorf("database: path is required")
	}
	if poolSize <= 0 {
		poolSize = 4
	}

	inner, err := sqlitex.NewPool(path, sqlitex.PoolOptions{
		PoolSize:    poolSize,
		PrepareConn: prepareConnection,
	})
	if err != nil {
		return nil, fmt.Errorf("database: opening %s: %w", path, err)
	}
	p := &Pool{inner: inner, path: path}

	conn, err := p.Take(ctx)
	if err != nil {
		inner.Close()
		return nil, err
	}
	err = migrate(ctx, conn)
	p.Put(conn)
	if err != nil {
		inner.Close()
		return nil, fmt.Errorf("database: migrating %s: %w", path, err)
	}
	return p, nil
}

// InitDB opens the database at path and stores it in DB.
func InitDB(ctx context.Context, path string) error {
	p, err := Open(ctx, path, 0)
	if err != nil {
		return err
	}
	DB = p
	zap.L().Info("Opened SQLite database", zap.String("path", path))
	return nil
}

// Take borrows a connection. The caller must Put it back.
func (p *Pool) Take(ctx context.Context) (*sqlite.Conn, error) {
	conn, err := p.inner.Take(ctx)
	if err != nil {
		return nil, fmt.Errorf("database: take: %w", err)
	}
	return conn, nil
}

// Put returns a connection to the pool. Safe to call with nil.
func (p *Pool) Put(conn *sqlite.Conn) {
	p.inner.Put(conn)
}

// Ping checks that a connection can be taken and used.
func (p *Pool) Ping(ctx context.Context) error {
	conn, err := p.Take(ctx)
	if err != nil {
		return err
	}
	defer p.Put(conn)
	return sqlitex.ExecuteTransient(conn, "SELECT 1", nil)
}

// Close closes every connection, waiting for borrowed ones to come back.
func (p *Pool) Close() error {
	if err := p.inner.Close(); err != nil {
		return fmt.Errorf("database: closing %s: %w", p.path, err)
	}
	return nil
}

func prepareConnection(conn *sqlite.Conn) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if err := sqlitex.ExecuteTransient(conn, pragma, nil); err != nil {
			return fmt.Errorf("database: %s: %w", pragma, err)
		}
	}
	return nil
}
