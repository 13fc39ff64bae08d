package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/akumar/librarium/internal/entities"
)

// NotificationWriter persists delivered notifications.
type NotificationWriter interface {
	Create(userID uint, message string, typ entities.NotificationType) error
	CreateBatch(userIDs []uint, message string, typ entities.NotificationType) error
}

// NotifyUserTask delivers a single notification to one member.
type NotifyUserTask struct {
	UserID  uint                      `json:"userId"`
	Message string                    `json:"message"`
	Type    entities.NotificationType `json:"type"`
}

// Config returns the queue configuration for notification delivery.
func (t NotifyUserTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "notify_user",
		MaxAttempts: 3,
		Backoff:     time.Minute,
		Timeout:     time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// NotifyUserProcessor creates the processor for NotifyUserTask.
func NotifyUserProcessor(writer NotificationWriter) backlite.QueueProcessor[NotifyUserTask] {
	return func(ctx context.Context, task NotifyUserTask) error {
		if writer == nil {
			return fmt.Errorf("notification writer not configured")
		}
		if err := writer.Create(task.UserID, task.Message, task.Type); err != nil {
			return fmt.Errorf("notify user %d: %w", task.UserID, err)
		}
		return nil
	}
}

// NewNotifyUserQueue creates the backlite queue for NotifyUserTask.
func NewNotifyUserQueue(writer NotificationWriter) backlite.Queue {
	return backlite.NewQueue(NotifyUserProcessor(writer))
}
