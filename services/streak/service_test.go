package streak

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"habittracker/database"
	eventsRepo "habittracker/database/repository/events"
	"habittracker/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T, now time.Time) *DefaultStreakService {
	t.Helper()
	db, err := database.Open(context.Background(), filepath.Join(t.TempDir(), "streak.db"), 2)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return &DefaultStreakService{
		Repo:     eventsRepo.NewSQLiteEventRepo(db),
		Cache:    NewMemoryReportCache(),
		CacheTTL: time.Minute,
		Now:      func() time.Time { return now },
	}
}

func recordAt(t *testing.T, svc *DefaultStreakService, times ...time.Time) {
	t.Helper()
	for _, ts := range times {
		_, err := svc.Repo.Record(context.Background(), models.Event{Timestamp: ts})
		require.NoError(t, err)
	}
}

func TestCurrentNoData(t *testing.T) {
	svc := newTestService(t, time.Now())
	s, err := svc.Current(context.Background(), time.UTC)
	require.NoError(t, err)
	assert.Nil(t, s)
}

func TestCurrentOneDay(t *testing.T) {
	now := utc(2024, 7, 21, 12, 0, 0)
	svc := newTestService(t, now)

	_, err := svc.Record(context.Background(), "")
	require.NoError(t, err)

	s, err := svc.Current(context.Background(), time.UTC)
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.Equal(t, 1, s.Count())
	assert.Equal(t, 1, s.Days(time.UTC))
	assert.Equal(t, 0, DaysBetween(time.UTC, s.Start(), now))
	assert.Equal(t, 0, DaysBetween(time.UTC, s.End(), now))
}

func TestCurrentStopsAtGap(t *testing.T) {
	now := utc(2024, 7, 21, 12, 0, 0)
	day := 24 * time.Hour
	svc := newTestService(t, now)
	recordAt(t, svc,
		now,
		now.Add(-1*day),
		// Gap here, streak ends
		now.Add(-3*day),
		now.Add(-4*day),
	)

	s, err := svc.Current(context.Background(), time.UTC)
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.Equal(t, 2, s.Count())
	assert.Equal(t, 0, DaysBetween(time.UTC, s.End(), now))
	assert.Equal(t, 0, DaysBetween(time.UTC, s.Start(), now.Add(-day)))
}

func TestCurrentSpansManyDays(t *testing.T) {
	now := utc(2024, 7, 21, 12, 0, 0)
	svc := newTestService(t, now)

	// More events than one page, one per day.
	var times []time.Time
	for i := 0; i < 150; i++ {
		times = append(times, now.Add(-time.Duration(i)*24*time.Hour))
	}
	recordAt(t, svc, times...)

	s, err := svc.Current(context.Background(), time.UTC)
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.Equal(t, 150, s.Count())
	assert.Equal(t, 150, s.Days(time.UTC))
}

func TestCurrentAliveFromYesterday(t *testing.T) {
	now := utc(2024, 7, 21, 12, 0, 0)
	svc := newTestService(t, now)
	recordAt(t, svc, utc(2024, 7, 20, 7, 0, 0), utc(2024, 7, 19, 7, 0, 0))

	s, err := svc.Current(context.Background(), time.UTC)
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.Equal(t, 2, s.Days(time.UTC))
	assert.False(t, s.ActiveOn(time.UTC, now))
}

func TestCurrentLapsed(t *testing.T) {
	now := utc(2024, 7, 21, 12, 0, 0)
	svc := newTestService(t, now)
	recordAt(t, svc, utc(2024, 7, 19, 7, 0, 0))

	s, err := svc.Current(context.Background(), time.UTC)
	require.NoError(t, err)
	assert.Nil(t, s)
}

func TestCurrentDependsOnTimezone(t *testing.T) {
	// 18:00 on the 19th in Pacific time, but the 20th in UTC.
	now := utc(2024, 7, 21, 12, 0, 0) // 05:00 on the 21st in Pacific time
	svc := newTestService(t, now)
	recordAt(t, svc, utc(2024, 7, 20, 1, 0, 0))

	inUTC, err := svc.Current(context.Background(), time.UTC)
	require.NoError(t, err)
	assert.NotNil(t, inUTC)

	inPacific, err := svc.Current(context.Background(), pacific(t))
	require.NoError(t, err)
	assert.Nil(t, inPacific)
}

func TestPrevious(t *testing.T) {
	now := utc(2024, 7, 21, 12, 0, 0)
	day := 24 * time.Hour
	svc := newTestService(t, now)
	recordAt(t, svc,
		now,
		now.Add(-1*day),
		now.Add(-4*day),
		now.Add(-5*day),
		now.Add(-6*day),
		now.Add(-9*day),
	)

	prev, err := svc.Previous(context.Background(), time.UTC)
	require.NoError(t, err)
	require.NotNil(t, prev)
	assert.Equal(t, 3, prev.Count())
	assert.Equal(t, 3, prev.Days(time.UTC))
	assert.Equal(t, 0, DaysBetween(time.UTC, prev.End(), now.Add(-4*day)))
}

func TestPreviousWhenNothingCurrent(t *testing.T) {
	now := utc(2024, 7, 21, 12, 0, 0)
	day := 24 * time.Hour
	svc := newTestService(t, now)
	recordAt(t, svc, now.Add(-3*day), now.Add(-4*day))

	cur, err := svc.Current(context.Background(), time.UTC)
	require.NoError(t, err)
	assert.Nil(t, cur)

	prev, err := svc.Previous(context.Background(), time.UTC)
	require.NoError(t, err)
	require.NotNil(t, prev)
	assert.Equal(t, 2, prev.Days(time.UTC))
}

func TestPreviousNone(t *testing.T) {
	now := utc(2024, 7, 21, 12, 0, 0)
	svc := newTestService(t, now)
	recordAt(t, svc, now)

	prev, err := svc.Previous(context.Background(), time.UTC)
	require.NoError(t, err)
	assert.Nil(t, prev)
}

func TestReportIsCachedUntilRecord(t *testing.T) {
	now := utc(2024, 7, 21, 12, 0, 0)
	svc := newTestService(t, now)
	ctx := context.Background()

	empty, err := svc.Report(ctx, time.UTC, KindCurrent)
	require.NoError(t, err)
	assert.False(t, empty.Active)

	// Written behind the service's back, so the cached report still wins.
	recordAt(t, svc, now)
	cached, err := svc.Report(ctx, time.UTC, KindCurrent)
	require.NoError(t, err)
	assert.False(t, cached.Active)

	_, err = svc.Record(ctx, "run")
	require.NoError(t, err)
	fresh, err := svc.Report(ctx, time.UTC, KindCurrent)
	require.NoError(t, err)
	assert.True(t, fresh.Active)
	assert.True(t, fresh.ActiveToday)
	require.NotNil(t, fresh.Count)
	assert.Equal(t, 2, *fresh.Count)
}

func TestReportUnknownKind(t *testing.T) {
	svc := newTestService(t, time.Now())
	_, err := svc.Report(context.Background(), time.UTC, Kind("best"))
	assert.Error(t, err)
}

func TestRecentEventsClampsLimit(t *testing.T) {
	now := utc(2024, 7, 21, 12, 0, 0)
	svc := newTestService(t, now)
	for i := 0; i < DefaultEventLimit+5; i++ {
		recordAt(t, svc, now.Add(-time.Duration(i)*time.Minute))
	}

	events, err := svc.RecentEvents(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, events, DefaultEventLimit)

	events, err = svc.RecentEvents(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.True(t, events[0].Timestamp.After(events[1].Timestamp))
}

type failingRepo struct {
	eventsRepo.EventRepository
}

func (failingRepo) Before(context.Context, eventsRepo.Cursor, int) ([]models.Event, error) {
	return nil, errors.New("disk on fire")
}

func TestCurrentPropagatesRepoError(t *testing.T) {
	svc := &DefaultStreakService{Repo: failingRepo{}}
	_, err := svc.Current(context.Background(), time.UTC)
	assert.ErrorContains(t, err, "disk on fire")
}
