package tasks

import (
	"github.com/akumar/librarium/internal/entities"
	"github.com/akumar/librarium/internal/logging"
)

// QueueSink enqueues lifecycle notifications for asynchronous
// delivery. Satisfies the loans service's NotificationSink.
type QueueSink struct {
	client *Client
}

// NewQueueSink creates a sink backed by the task queue.
func NewQueueSink(client *Client) *QueueSink {
	return &QueueSink{client: client}
}

// Emit enqueues the notification. Failures are logged and dropped so a
// queue hiccup never fails the borrow or return that triggered it.
func (s *QueueSink) Emit(userID uint, message string, typ entities.NotificationType) {
	_, err := s.client.Add(NotifyUserTask{
		UserID:  userID,
		Message: message,
		Type:    typ,
	}).Save()
	if err != nil {
		logging.Logger().WithError(err).
			WithField("userId", userID).
			Warn("failed to enqueue notification")
	}
}

// DirectSink writes notifications synchronously, bypassing the queue.
// Used when the task queue is disabled.
type DirectSink struct {
	writer NotificationWriter
}

// NewDirectSink creates a sink that writes straight to storage.
func NewDirectSink(writer NotificationWriter) *DirectSink {
	return &DirectSink{writer: writer}
}

func (s *DirectSink) Emit(userID uint, message string, typ entities.NotificationType) {
	if err := s.writer.Create(userID, message, typ); err != nil {
		logging.Logger().WithError(err).
			WithField("userId", userID).
			Warn("failed to write notification")
	}
}
