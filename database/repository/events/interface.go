package eventsRepo

import (
	"context"
	"errors"
	"math"
	"time"

	"habittracker/database"
	"habittracker/models"
)

var ErrNotFound = errors.New("event not found")

// Cursor marks a position in the event log ordered by (timestamp, id).
type Cursor struct {
	Timestamp time.Time
	ID        int64
}

// CursorAt returns a cursor that includes every event at or before t.
func CursorAt(t time.Time) Cursor {
	return Cursor{Timestamp: t, ID: math.MaxInt64}
}

// CursorFor returns the cursor just past ev, so paging from it resumes with
// the next older event.
func CursorFor(ev models.Event) Cursor {
	return Cursor{Timestamp: ev.Timestamp, ID: ev.ID}
}

type EventRepository interface {
	Record(ctx context.Context, event models.Event) (models.Event, error)
	Get(ctx context.Context, id int64) (*models.Event, error)
	// Before returns up to limit events strictly older than cursor, newest first.
	Before(ctx context.Context, cursor Cursor, limit int) ([]models.Event, error)
	Count(ctx context.Context) (int64, error)
	Ping(ctx context.Context) error
}

type sqliteEventRepo struct {
	db  *database.Pool
	now func() time.Time
}

// NewSQLiteEventRepo returns an EventRepository backed by the given pool.
func NewSQLiteEventRepo(db *database.Pool) EventRepository {
	return &sqliteEventRepo{db: db, now: time.Now}
}
