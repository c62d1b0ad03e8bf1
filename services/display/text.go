package display

import (
	"fmt"
	"time"

	"habittracker/services/streak"
)

func DayText(count int) string {
	if count == 1 {
		return "day"
	}
	return "days"
}

// CurrentText is the headline, e.g. "3 days". No streak reads "0 days".
func CurrentText(loc *time.Location, current *streak.Streak) string {
	days := 0
	if current != nil {
		days = current.Days(loc)
	}
	return fmt.Sprintf("%d %s", days, DayText(days))
}

func PreviousText(loc *time.Location, previous *streak.Streak) string {
	if previous == nil {
		return "No previous streak"
	}
	days := previous.Days(loc)
	return fmt.Sprintf("Previous: %d %s", days, DayText(days))
}

// PreviousEndedText is e.g. "Ended Sunday, July 21", or empty without a
// previous streak.
func PreviousEndedText(loc *time.Location, previous *streak.Streak) string {
	if previous == nil {
		return ""
	}
	return previous.End().In(loc).Format("Ended Monday, January 02")
}
