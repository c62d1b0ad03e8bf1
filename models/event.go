// File: models/event.go
package models

import "time"

// Event is a single recorded completion of the habit.
type Event struct {
	ID        int64     `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Name      string    `json:"name,omitempty"` // Optional label, e.g. the workout done
}

// EventInput is the optional body of POST /api/events.
type EventInput struct {
	Name string `json:"name" binding:"max=200"`
}
