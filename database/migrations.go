package database

import (
	"context"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitemigration"
)

// schema lists migrations in order. Applied migrations are tracked in
// PRAGMA user_version, so entries must never be edited or reordered.
var schema = sqlitemigration.Schema{
	Migrations: []string{
		`CREATE TABLE events (
			id INTEGER PRIMARY KEY AUTOINCREMENT NOT NULL,
			timestamp TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE INDEX idx_events_timestamp ON events (timestamp);`,
		`ALTER TABLE events ADD COLUMN name TEXT;`,
		// Rows from the column default are "YYYY-MM-DD HH:MM:SS", which sorts
		// before any "...T...Z" row of the same date. Rewrite them, and keep
		// rewriting later inserts that rely on the default.
		`UPDATE events SET timestamp = ` + normalizeTimestamp("timestamp") + `
			WHERE timestamp NOT LIKE '` + timestampPattern + `'
			AND ` + normalizeTimestamp("timestamp") + ` IS NOT NULL;
		CREATE TRIGGER events_normalize_timestamp AFTER INSERT ON events
			WHEN NEW.timestamp NOT LIKE '` + timestampPattern + `'
			AND ` + normalizeTimestamp("NEW.timestamp") + ` IS NOT NULL
		BEGIN
			UPDATE events SET timestamp = ` + normalizeTimestamp("NEW.timestamp") + ` WHERE id = NEW.id;
		END;`,
	},
}

// timestampPattern is the LIKE pattern of a stored timestamp,
// e.g. 2024-07-21T15:30:00.000Z.
const timestampPattern = "____-__-__T__:__:__.___Z"

func normalizeTimestamp(column string) string {
	return "strftime('%Y-%m-%dT%H:%M:%fZ', " + column + ")"
}

func migrate(ctx context.Context, conn *sqlite.Conn) error {
	return sqlitemigration.Migrate(ctx, conn, schema)
}
