// File: habittracker/handlers/bundle.go
package handlers

import (
	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	// Token hash guarding write endpoints; empty leaves them open.
	APITokenHash string

	// Streak endpoints
	CurrentStreakHandler  gin.HandlerFunc
	PreviousStreakHandler gin.HandlerFunc

	// Event endpoints
	RecordEventHandler gin.HandlerFunc
	ListEventsHandler  gin.HandlerFunc

	// Display endpoints
	DisplayImageHandler gin.HandlerFunc
}
