package streak

import (
	"context"
	"fmt"
	"time"

	eventsRepo "habittracker/database/repository/events"
	"habittracker/models"

	"go.uber.org/zap"
)

// pageSize is how many events are fetched per query while walking back
// through the log.
const pageSize = 100

const (
	DefaultEventLimit = 20
	MaxEventLimit     = 500
)

type StreakService interface {
	Current(ctx context.Context, loc *time.Location) (*Streak, error)
	Previous(ctx context.Context, loc *time.Location) (*Streak, error)
	Report(ctx context.Context, loc *time.Location, kind Kind) (models.StreakReport, error)
	Record(ctx context.Context, name string) (models.Event, error)
	RecentEvents(ctx context.Context, limit int) ([]models.Event, error)
	FlushCache(ctx context.Context) error
}

// DefaultStreakService derives streaks from the event log.
type DefaultStreakService struct {
	Repo     eventsRepo.EventRepository
	Cache    ReportCache // optional
	CacheTTL time.Duration
	Now      func() time.Time // optional, defaults to time.Now
}

func (s *DefaultStreakService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Current returns the streak that is still alive: its newest event is today
// or yesterday in loc. It returns nil when there is none.
func (s *DefaultStreakService) Current(ctx context.Context, loc *time.Location) (*Streak, error) {
	end := s.now().Add(time.Second)
	return s.walk(ctx, loc, eventsRepo.CursorAt(end), &end)
}

// Previous returns the streak before the current one, or the most recent
// lapsed streak when nothing is current. It returns nil when there is none.
func (s *DefaultStreakService) Previous(ctx context.Context, loc *time.Location) (*Streak, error) {
	current, err := s.Current(ctx, loc)
	if err != nil {
		return nil, err
	}
	cursor := eventsRepo.CursorAt(s.now().Add(time.Second))
	if current != nil {
		cursor = eventsRepo.CursorFor(current.Oldest())
	}
	return s.walk(ctx, loc, cursor, nil)
}

// walk collects events older than cursor for as long as each one is on the
// same or an adjacent day as the last accepted event. A non-nil anchor must
// itself be adjacent to the first event, otherwise there is no streak.
func (s *DefaultStreakService) walk(ctx context.Context, loc *time.Location, cursor eventsRepo.Cursor, anchor *time.Time) (*Streak, error) {
	var accepted []models.Event
	for {
		page, err := s.Repo.Before(ctx, cursor, pageSize)
		if err != nil {
			return nil, err
		}

		for _, ev := range page {
			switch {
			case len(accepted) > 0:
				if !SameOrAdjacentDay(loc, ev.Timestamp, accepted[len(accepted)-1].Timestamp) {
					return New(accepted), nil
				}
			case anchor != nil:
				if !SameOrAdjacentDay(loc, ev.Timestamp, *anchor) {
					return nil, nil
				}
			}
			accepted = append(accepted, ev)
		}

		if len(page) < pageSize {
			return New(accepted), nil
		}
		cursor = eventsRepo.CursorFor(page[len(page)-1])
	}
}

// Report returns the rendered report for kind, served from the cache when
// possible.
func (s *DefaultStreakService) Report(ctx context.Context, loc *time.Location, kind Kind) (models.StreakReport, error) {
	key := fmt.Sprintf("%s:%s", kind, loc.String())
	if s.Cache != nil {
		report, ok, err := s.Cache.Get(ctx, key)
		if err != nil {
			zap.L().Warn("Report cache read failed", zap.String("key", key), zap.Error(err))
		} else if ok {
			return report, nil
		}
	}

	var (
		st  *Streak
		err error
	)
	switch kind {
	case KindCurrent:
		st, err = s.Current(ctx, loc)
	case KindPrevious:
		st, err = s.Previous(ctx, loc)
	default:
		return models.StreakReport{}, fmt.Errorf("unknown streak kind %q", kind)
	}
	if err != nil {
		return models.StreakReport{}, err
	}

	report := BuildReport(st, kind, loc, s.now())
	if s.Cache != nil && s.CacheTTL > 0 {
		if err := s.Cache.Set(ctx, key, report, s.CacheTTL); err != nil {
			zap.L().Warn("Report cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return report, nil
}

// Record stores a new event at the current time and invalidates cached
// reports.
func (s *DefaultStreakService) Record(ctx context.Context, name string) (models.Event, error) {
	ev, err := s.Repo.Record(ctx, models.Event{Timestamp: s.now(), Name: name})
	if err != nil {
		return models.Event{}, err
	}
	if err := s.FlushCache(ctx); err != nil {
		zap.L().Warn("Report cache flush failed", zap.Error(err))
	}
	return ev, nil
}

// RecentEvents returns up to limit of the newest events. Out-of-range
// limits are clamped.
func (s *DefaultStreakService) RecentEvents(ctx context.Context, limit int) ([]models.Event, error) {
	if limit <= 0 {
		limit = DefaultEventLimit
	}
	if limit > MaxEventLimit {
		limit = MaxEventLimit
	}
	return s.Repo.Before(ctx, eventsRepo.CursorAt(s.now().Add(time.Second)), limit)
}

func (s *DefaultStreakService) FlushCache(ctx context.Context) error {
	if s.Cache == nil {
		return nil
	}
	return s.Cache.Flush(ctx)
}
