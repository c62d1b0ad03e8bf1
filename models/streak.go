// File: models/streak.go
package models

// StreakReport is the JSON shape served on /api/current and /api/previous
// and published over MQTT. Pointer fields are null when there is no streak.
type StreakReport struct {
	Days        *int    `json:"days"`         // Calendar days covered, inclusive
	Count       *int    `json:"count"`        // Number of events in the streak
	Active      bool    `json:"active"`       // A streak exists
	ActiveToday bool    `json:"active_today"` // The streak's last event is today
	Start       *string `json:"start"`        // RFC 3339, in the requested zone
	End         *string `json:"end"`          // RFC 3339, in the requested zone
	Timezone    string  `json:"timezone"`
}
