package notification

import (
	"context"

	"habittracker/models"
)

// NotificationService pushes streak changes to home-automation consumers.
type NotificationService interface {
	PublishStreak(ctx context.Context, report models.StreakReport) error
	Connected() bool
	Close()
}

// NoopNotificationService is used when no broker is configured.
type NoopNotificationService struct{}

func (NoopNotificationService) PublishStreak(context.Context, models.StreakReport) error {
	return nil
}

func (NoopNotificationService) Connected() bool { return true }

func (NoopNotificationService) Close() {}
