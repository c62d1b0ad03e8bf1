package display

import (
	"errors"
	"time"

	"habittracker/services/streak"
)

// TrackerDisplay shows the tracker's state to the person using it.
type TrackerDisplay interface {
	// DisplayStreak draws the current and previous streak. Either may be nil.
	DisplayStreak(loc *time.Location, current, previous *streak.Streak) error
	// ClearAndShutdown blanks the screen before the process exits. E-paper
	// keeps its last image without power, so this must run on shutdown.
	ClearAndShutdown() error
}

type multiDisplay []TrackerDisplay

// Multi returns a display that forwards to every given display, collecting
// all errors.
func Multi(displays ...TrackerDisplay) TrackerDisplay {
	return multiDisplay(displays)
}

func (m multiDisplay) DisplayStreak(loc *time.Location, current, previous *streak.Streak) error {
	var errs []error
	for _, d := range m {
		errs = append(errs, d.DisplayStreak(loc, current, previous))
	}
	return errors.Join(errs...)
}

func (m multiDisplay) ClearAndShutdown() error {
	var errs []error
	for _, d := range m {
		errs = append(errs, d.ClearAndShutdown())
	}
	return errors.Join(errs...)
}
