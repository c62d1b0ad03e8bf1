package streak

import (
	"time"

	"habittracker/models"
)

// Kind selects which streak a report describes.
type Kind string

const (
	KindCurrent  Kind = "current"
	KindPrevious Kind = "previous"
)

// BuildReport renders s as the JSON response served to clients. A nil
// streak yields an inactive report with null fields.
func BuildReport(s *Streak, kind Kind, loc *time.Location, now time.Time) models.StreakReport {
	report := models.StreakReport{Timezone: loc.String()}
	if s == nil {
		return report
	}

	days := s.Days(loc)
	count := s.Count()
	start := s.Start().In(loc).Format(time.RFC3339)
	end := s.End().In(loc).Format(time.RFC3339)

	report.Days = &days
	report.Count = &count
	report.Start = &start
	report.End = &end
	report.Active = true
	report.ActiveToday = kind == KindCurrent && s.ActiveOn(loc, now)
	return report
}
