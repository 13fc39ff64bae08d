package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/akumar/librarium/internal/entities"
	"github.com/akumar/librarium/internal/logging"
)

// MemberLister enumerates the accounts a broadcast goes to.
type MemberLister interface {
	ListUserIDs() ([]uint, error)
}

// BroadcastArrivalTask announces a newly arrived title to every member.
type BroadcastArrivalTask struct {
	BookTitle string `json:"bookTitle"`
	Author    string `json:"author"`
}

// Config returns the queue configuration for arrival broadcasts.
func (t BroadcastArrivalTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "broadcast_arrival",
		MaxAttempts: 3,
		Backoff:     time.Minute,
		Timeout:     5 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// BroadcastArrivalProcessor creates the processor for BroadcastArrivalTask.
func BroadcastArrivalProcessor(members MemberLister, writer NotificationWriter) backlite.QueueProcessor[BroadcastArrivalTask] {
	return func(ctx context.Context, task BroadcastArrivalTask) error {
		if members == nil || writer == nil {
			return fmt.Errorf("broadcast dependencies not configured")
		}

		userIDs, err := members.ListUserIDs()
		if err != nil {
			return fmt.Errorf("list members: %w", err)
		}
		if len(userIDs) == 0 {
			return nil
		}

		message := fmt.Sprintf("New arrival: %q by %s is now in the library.",
			task.BookTitle, task.Author)
		if err := writer.CreateBatch(userIDs, message, entities.NotificationArrival); err != nil {
			return fmt.Errorf("broadcast arrival: %w", err)
		}

		logging.Logger().WithField("recipients", len(userIDs)).
			WithField("title", task.BookTitle).
			Info("arrival broadcast delivered")
		return nil
	}
}

// NewBroadcastArrivalQueue creates the backlite queue for arrival broadcasts.
func NewBroadcastArrivalQueue(members MemberLister, writer NotificationWriter) backlite.Queue {
	return backlite.NewQueue(BroadcastArrivalProcessor(members, writer))
}
