package streak

import (
	"testing"
	"time"
	_ "time/tzdata"

	"habittracker/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func utc(y int, m time.Month, d, h, min, s int) time.Time {
	return time.Date(y, m, d, h, min, s, 0, time.UTC)
}

func pacific(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("US/Pacific")
	require.NoError(t, err)
	return loc
}

func TestSameOrAdjacentDayTimezone(t *testing.T) {
	loc := pacific(t)
	dt := utc(2024, 7, 21, 23, 30, 0)
	yesterday := dt.Add(-24 * time.Hour)

	assert.True(t, SameOrAdjacentDay(loc, dt, dt))
	assert.True(t, SameOrAdjacentDay(loc, dt, yesterday))
	assert.True(t, SameOrAdjacentDay(loc, yesterday, dt))

	// 06:30 on the 20th in Pacific time.
	assert.True(t, SameOrAdjacentDay(loc, utc(2024, 7, 20, 13, 30, 0), dt))
	// 20:30 on the 19th in Pacific time, two days before.
	assert.False(t, SameOrAdjacentDay(loc, utc(2024, 7, 20, 3, 30, 0), dt))

	eodPacific := utc(2024, 7, 22, 0, 59, 59)
	earlyPrevious := utc(2024, 7, 20, 8, 0, 0)
	assert.True(t, SameOrAdjacentDay(loc, eodPacific, earlyPrevious))
	assert.False(t, SameOrAdjacentDay(time.UTC, eodPacific, earlyPrevious))
}

func TestDaysBetweenAcrossDST(t *testing.T) {
	loc := pacific(t)
	// Spring forward happened on 2024-03-10.
	before := time.Date(2024, 3, 9, 12, 0, 0, 0, loc)
	after := time.Date(2024, 3, 11, 0, 30, 0, 0, loc)
	assert.Equal(t, 2, DaysBetween(loc, before, after))
	assert.Equal(t, 2, DaysBetween(loc, after, before))
}

func TestNewEmptyIsNil(t *testing.T) {
	assert.Nil(t, New(nil))
	assert.Nil(t, New([]models.Event{}))
}

func TestStreakAccessors(t *testing.T) {
	events := []models.Event{
		{ID: 4, Timestamp: utc(2024, 7, 21, 18, 0, 0)},
		{ID: 3, Timestamp: utc(2024, 7, 21, 8, 0, 0)},
		{ID: 2, Timestamp: utc(2024, 7, 20, 8, 0, 0)},
		{ID: 1, Timestamp: utc(2024, 7, 19, 8, 0, 0)},
	}
	s := New(events)
	require.NotNil(t, s)

	assert.Equal(t, 4, s.Count())
	assert.Equal(t, 3, s.Days(time.UTC))
	assert.Equal(t, events[0].Timestamp, s.End())
	assert.Equal(t, events[3].Timestamp, s.Start())
	assert.Equal(t, int64(1), s.Oldest().ID)
	assert.Len(t, s.Events(), 4)

	assert.True(t, s.ActiveOn(time.UTC, utc(2024, 7, 21, 23, 0, 0)))
	assert.False(t, s.ActiveOn(time.UTC, utc(2024, 7, 22, 0, 0, 1)))
}

func TestLoadLocation(t *testing.T) {
	loc, err := LoadLocation("US/Pacific")
	require.NoError(t, err)
	assert.Equal(t, "US/Pacific", loc.String())

	for _, name := range []string{"", "  ", "Local", "invalid", "Mars/Olympus"} {
		_, err := LoadLocation(name)
		assert.ErrorIs(t, err, ErrInvalidTimezone, name)
	}
}

func TestBuildReportNoData(t *testing.T) {
	report := BuildReport(nil, KindCurrent, time.UTC, time.Now())
	assert.False(t, report.Active)
	assert.False(t, report.ActiveToday)
	assert.Nil(t, report.Days)
	assert.Nil(t, report.Count)
	assert.Nil(t, report.End)
	assert.Equal(t, "UTC", report.Timezone)
}

func TestBuildReport(t *testing.T) {
	loc := pacific(t)
	s := New([]models.Event{
		{ID: 2, Timestamp: utc(2024, 7, 21, 23, 30, 0)},
		{ID: 1, Timestamp: utc(2024, 7, 20, 23, 30, 0)},
	})
	now := utc(2024, 7, 22, 1, 0, 0) // still the 21st in Pacific time

	report := BuildReport(s, KindCurrent, loc, now)
	assert.True(t, report.Active)
	assert.True(t, report.ActiveToday)
	require.NotNil(t, report.Days)
	assert.Equal(t, 2, *report.Days)
	require.NotNil(t, report.Count)
	assert.Equal(t, 2, *report.Count)
	require.NotNil(t, report.End)
	assert.Equal(t, "2024-07-21T16:30:00-07:00", *report.End)
	require.NotNil(t, report.Start)
	assert.Equal(t, "2024-07-20T16:30:00-07:00", *report.Start)

	previous := BuildReport(s, KindPrevious, loc, now)
	assert.True(t, previous.Active)
	assert.False(t, previous.ActiveToday)
}
