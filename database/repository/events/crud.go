package eventsRepo

import (
	"context"
	"fmt"
	"time"

	"habittracker/models"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

// timestampLayout is fixed width, so text order in SQLite matches time order.
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

// legacyLayout is what the column default CURRENT_TIMESTAMP produces.
const legacyLayout = "2006-01-02 15:04:05"

// FormatTimestamp renders t the way it is stored in the events table.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

// ParseTimestamp parses a stored timestamp.
func ParseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err == nil {
		return t.UTC(), nil
	}
	if legacy, lerr := time.ParseInLocation(legacyLayout, s, time.UTC); lerr == nil {
		return legacy, nil
	}
	return time.Time{}, fmt.Errorf("parse timestamp %q: %w", s, err)
}

// Record inserts an event and returns it with its assigned ID. A zero
// timestamp is replaced by the current time.
func (r *sqliteEventRepo) Record(ctx context.Context, event models.Event) (models.Event, error) {
	if event.Timestamp.IsZero() {
		event.Timestamp = r.now()
	}
	event.Timestamp = event.Timestamp.UTC().Truncate(time.Millisecond)

	conn, err := r.db.Take(ctx)
	if err != nil {
		return models.Event{}, err
	}
	defer r.db.Put(conn)

	var name any
	if event.Name != "" {
		name = event.Name
	}
	err = sqlitex.Execute(conn, "INSERT INTO events (timestamp, name) VALUES (?, ?)", &sqlitex.ExecOptions{
		Args: []any{FormatTimestamp(event.Timestamp), name},
	})
	if err != nil {
		return models.Event{}, fmt.Errorf("insert event: %w", err)
	}
	event.ID = conn.LastInsertRowID()
	return event, nil
}

// Get returns the event with the given ID.
func (r *sqliteEventRepo) Get(ctx context.Context, id int64) (*models.Event, error) {
	conn, err := r.db.Take(ctx)
	if err != nil {
		return nil, err
	}
	defer r.db.Put(conn)

	var found *models.Event
	err = sqlitex.Execute(conn, "SELECT id, timestamp, name FROM events WHERE id = ?", &sqlitex.ExecOptions{
		Args: []any{id},
		ResultFunc: func(stmt *sqlite.Stmt) error {
			ev, err := scanEvent(stmt)
			if err != nil {
				return err
			}
			found = &ev
			return nil
		},
	})
	if err != nil {
		return nil, fmt.Errorf("get event %d: %w", id, err)
	}
	if found == nil {
		return nil, ErrNotFound
	}
	return found, nil
}

// Before returns up to limit events strictly older than cursor, newest first.
func (r *sqliteEventRepo) Before(ctx context.Context, cursor Cursor, limit int) ([]models.Event, error) {
	conn, err := r.db.Take(ctx)
	if err != nil {
		return nil, err
	}
	defer r.db.Put(conn)

	const query = `
		SELECT id, timestamp, name FROM events
		WHERE timestamp < ?1 OR (timestamp = ?1 AND id < ?2)
		ORDER BY timestamp DESC, id DESC
		LIMIT ?3`

	events := make([]models.Event, 0, limit)
	err = sqlitex.Execute(conn, query, &sqlitex.ExecOptions{
		Args: []any{FormatTimestamp(cursor.Timestamp), cursor.ID, limit},
		ResultFunc: func(stmt *sqlite.Stmt) error {
			ev, err := scanEvent(stmt)
			if err != nil {
				return err
			}
			events = append(events, ev)
			return nil
		},
	})
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	return events, nil
}

// Count returns the total number of recorded events.
func (r *sqliteEventRepo) Count(ctx context.Context) (int64, error) {
	conn, err := r.db.Take(ctx)
	if err != nil {
		return 0, err
	}
	defer r.db.Put(conn)

	var count int64
	err = sqlitex.Execute(conn, "SELECT COUNT(*) FROM events", &sqlitex.ExecOptions{
		ResultFunc: func(stmt *sqlite.Stmt) error {
			count = stmt.ColumnInt64(0)
			return nil
		},
	})
	if err != nil {
		return 0, fmt.Errorf("count events: %w", err)
	}
	return count, nil
}

func (r *sqliteEventRepo) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}

func scanEvent(stmt *sqlite.Stmt) (models.Event, error) {
	ts, err := ParseTimestamp(stmt.ColumnText(1))
	if err != nil {
		return models.Event{}, err
	}
	ev := models.Event{
		ID:        stmt.ColumnInt64(0),
		Timestamp: ts,
	}
	if !stmt.ColumnIsNull(2) {
		ev.Name = stmt.ColumnText(2)
	}
	return ev, nil
}
