package display

import (
	"bytes"
	"errors"
	"image/png"
	"testing"
	"time"

	"habittracker/models"
	"habittracker/services/streak"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func testStreak(days int, end time.Time) *streak.Streak {
	var events []models.Event
	for i := 0; i < days; i++ {
		events = append(events, models.Event{ID: int64(days - i), Timestamp: end.Add(-time.Duration(i) * 24 * time.Hour)})
	}
	return streak.New(events)
}

func TestDayText(t *testing.T) {
	assert.Equal(t, "days", DayText(0))
	assert.Equal(t, "day", DayText(1))
	assert.Equal(t, "days", DayText(2))
}

func TestScreenText(t *testing.T) {
	end := time.Date(2024, 7, 21, 15, 0, 0, 0, time.UTC)

	assert.Equal(t, "0 days", CurrentText(time.UTC, nil))
	assert.Equal(t, "1 day", CurrentText(time.UTC, testStreak(1, end)))
	assert.Equal(t, "5 days", CurrentText(time.UTC, testStreak(5, end)))

	assert.Equal(t, "No previous streak", PreviousText(time.UTC, nil))
	assert.Equal(t, "Previous: 3 days", PreviousText(time.UTC, testStreak(3, end)))

	assert.Empty(t, PreviousEndedText(time.UTC, nil))
	assert.Equal(t, "Ended Sunday, July 21", PreviousEndedText(time.UTC, testStreak(3, end)))
	assert.Equal(t, "Ended Monday, July 01", PreviousEndedText(time.UTC, testStreak(1, time.Date(2024, 7, 1, 9, 0, 0, 0, time.UTC))))
}

func countInk(t *testing.T, d *ImageDisplay) int {
	t.Helper()
	ink := 0
	for _, px := range d.Frame().Pix {
		if px != 0 {
			ink++
		}
	}
	return ink
}

func TestImageDisplay(t *testing.T) {
	d := NewImageDisplay()
	assert.Zero(t, countInk(t, d))

	end := time.Date(2024, 7, 21, 15, 0, 0, 0, time.UTC)
	require.NoError(t, d.DisplayStreak(time.UTC, testStreak(2, end), testStreak(4, end.Add(-96*time.Hour))))
	assert.NotZero(t, countInk(t, d))

	data, err := EncodePNG(d.Frame())
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, FrameWidth, img.Bounds().Dx())
	assert.Equal(t, FrameHeight, img.Bounds().Dy())

	require.NoError(t, d.ClearAndShutdown())
	assert.Zero(t, countInk(t, d))
}

func TestLogDisplay(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	d := &LogDisplay{Logger: zap.New(core)}

	require.NoError(t, d.DisplayStreak(time.UTC, nil, nil))
	entries := logs.FilterMessage("Displaying streak").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "0 days", entries[0].ContextMap()["current"])
}

type failingDisplay struct{ calls int }

func (f *failingDisplay) DisplayStreak(*time.Location, *streak.Streak, *streak.Streak) error {
	f.calls++
	return errors.New("panel busy")
}

func (f *failingDisplay) ClearAndShutdown() error {
	f.calls++
	return nil
}

func TestMultiForwardsToAll(t *testing.T) {
	failing := &failingDisplay{}
	img := NewImageDisplay()
	m := Multi(failing, img)

	err := m.DisplayStreak(time.UTC, testStreak(1, time.Now()), nil)
	assert.ErrorContains(t, err, "panel busy")
	assert.Equal(t, 1, failing.calls)
	assert.NotZero(t, countInk(t, img))

	assert.NoError(t, m.ClearAndShutdown())
	assert.Equal(t, 2, failing.calls)
}
