package display

import (
	"time"

	"habittracker/services/streak"

	"go.uber.org/zap"
)

// LogDisplay writes what would be on screen to the log. Used when no panel
// is attached.
type LogDisplay struct {
	Logger *zap.Logger
}

func (d *LogDisplay) DisplayStreak(loc *time.Location, current, previous *streak.Streak) error {
	d.Logger.Info("Displaying streak",
		zap.String("current", CurrentText(loc, current)),
		zap.String("previous", PreviousText(loc, previous)),
		zap.String("previous_end", PreviousEndedText(loc, previous)),
	)
	return nil
}

func (d *LogDisplay) ClearAndShutdown() error {
	d.Logger.Info("Clearing display for shutdown")
	return nil
}
