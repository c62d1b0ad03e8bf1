package tracker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"habittracker/models"
	"habittracker/services/display"
	"habittracker/services/notification"
	"habittracker/services/streak"

	"go.uber.org/zap"
)

// Tracker drives the device: it records presses and keeps the screen and
// MQTT subscribers in step with the event log.
type Tracker struct {
	Streaks      streak.StreakService
	Display      display.TrackerDisplay
	Notification notification.NotificationService
	Location     *time.Location
	Logger       *zap.Logger
	Now          func() time.Time // optional, defaults to time.Now

	// The panel is slow and not reentrant, so refreshes are serialized.
	mu sync.Mutex
}

func (t *Tracker) now() time.Time {
	if t.Now != nil {
		return t.Now()
	}
	return time.Now()
}

// Press records an event for a button press and refreshes.
func (t *Tracker) Press(ctx context.Context) (models.Event, error) {
	return t.Record(ctx, "")
}

// Record stores a named event and refreshes. The event is returned even if
// the refresh fails, since it has already been stored.
func (t *Tracker) Record(ctx context.Context, name string) (models.Event, error) {
	ev, err := t.Streaks.Record(ctx, name)
	if err != nil {
		return models.Event{}, fmt.Errorf("record event: %w", err)
	}
	t.Logger.Info("Recorded event", zap.Int64("id", ev.ID), zap.Time("timestamp", ev.Timestamp))
	if err := t.Refresh(ctx); err != nil {
		t.Logger.Error("Refresh after record failed", zap.Error(err))
	}
	return ev, nil
}

// Refresh recomputes both streaks, redraws the display and publishes the
// current streak.
func (t *Tracker) Refresh(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	current, err := t.Streaks.Current(ctx, t.Location)
	if err != nil {
		return fmt.Errorf("current streak: %w", err)
	}
	previous, err := t.Streaks.Previous(ctx, t.Location)
	if err != nil {
		return fmt.Errorf("previous streak: %w", err)
	}

	var errs []error
	if err := t.Display.DisplayStreak(t.Location, current, previous); err != nil {
		errs = append(errs, fmt.Errorf("display streak: %w", err))
	}
	// Publish what was drawn. The report cache may still hold a pre-press
	// report stored by a concurrent poll.
	report := streak.BuildReport(current, streak.KindCurrent, t.Location, t.now())
	if err := t.Notification.PublishStreak(ctx, report); err != nil {
		errs = append(errs, fmt.Errorf("publish streak: %w", err))
	}
	return errors.Join(errs...)
}

// Run handles presses until ctx is done, then clears the display.
func (t *Tracker) Run(ctx context.Context, presses <-chan struct{}) error {
	if err := t.Refresh(ctx); err != nil {
		t.Logger.Error("Initial refresh failed", zap.Error(err))
	}

	for {
		select {
		case <-presses:
			t.Logger.Debug("Button pressed")
			if _, err := t.Press(ctx); err != nil {
				t.Logger.Error("Failed to record press", zap.Error(err))
			}
		case <-ctx.Done():
			t.Logger.Info("Tracker shutting down")
			t.mu.Lock()
			defer t.mu.Unlock()
			return t.Display.ClearAndShutdown()
		}
	}
}
