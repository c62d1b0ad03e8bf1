package streak

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"habittracker/models"
)

var ErrInvalidTimezone = errors.New("invalid timezone")

// Streak is a non-empty run of events, newest first, in which every event
// falls on the same or an adjacent calendar day as the next newer one.
type Streak struct {
	events []models.Event
}

// New wraps events (newest first) in a Streak. It returns nil for an empty
// slice, which callers treat as "no data".
func New(events []models.Event) *Streak {
	if len(events) == 0 {
		return nil
	}
	return &Streak{events: events}
}

// Count is the number of events in the streak. It can exceed Days when
// several events land on one day.
func (s *Streak) Count() int {
	return len(s.events)
}

// Start is when the streak began.
func (s *Streak) Start() time.Time {
	return s.events[len(s.events)-1].Timestamp
}

// End is the most recent event of the streak.
func (s *Streak) End() time.Time {
	return s.events[0].Timestamp
}

// Oldest returns the first event of the streak.
func (s *Streak) Oldest() models.Event {
	return s.events[len(s.events)-1]
}

// Events returns the streak's events, newest first.
func (s *Streak) Events() []models.Event {
	out := make([]models.Event, len(s.events))
	copy(out, s.events)
	return out
}

// Days is the number of calendar days in loc the streak spans, inclusive.
func (s *Streak) Days(loc *time.Location) int {
	return DaysBetween(loc, s.Start(), s.End()) + 1
}

// ActiveOn reports whether the streak's last event is on now's calendar day.
func (s *Streak) ActiveOn(loc *time.Location, now time.Time) bool {
	return DaysBetween(loc, s.End(), now) == 0
}

// civilDate returns the calendar date of t in loc as midnight UTC, so that
// subtracting two of them is free of DST offsets.
func civilDate(loc *time.Location, t time.Time) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the absolute number of calendar days between a and b
// as seen in loc.
func DaysBetween(loc *time.Location, a, b time.Time) int {
	diff := civilDate(loc, a).Sub(civilDate(loc, b))
	if diff < 0 {
		diff = -diff
	}
	return int(diff / (24 * time.Hour))
}

// SameOrAdjacentDay reports whether a and b fall on the same calendar day in
// loc, or on consecutive days in either order.
func SameOrAdjacentDay(loc *time.Location, a, b time.Time) bool {
	return DaysBetween(loc, a, b) <= 1
}

// LoadLocation resolves an IANA zone name such as "US/Pacific". Empty names
// and "Local" are rejected because they depend on the host.
func LoadLocation(name string) (*time.Location, error) {
	name = strings.TrimSpace(name)
	if name == "" || name == "Local" {
		return nil, ErrInvalidTimezone
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTimezone, name)
	}
	return loc, nil
}
