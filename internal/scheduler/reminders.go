// Package scheduler runs the periodic due-date scan that turns
// approaching and missed deadlines into reminder notifications.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/akumar/librarium/internal/config"
	"github.com/akumar/librarium/internal/database"
	"github.com/akumar/librarium/internal/entities"
	"github.com/akumar/librarium/internal/logging"
)

// NotificationSink receives the reminders produced by a scan.
type NotificationSink interface {
	Emit(userID uint, message string, typ entities.NotificationType)
}

// ReminderScheduler scans open loans on a cron schedule and notifies
// readers whose books are due soon or already overdue.
type ReminderScheduler struct {
	db     *database.Database
	sink   NotificationSink
	config config.Reminders

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	isScanning bool
	cancelFunc context.CancelFunc
}

// NewReminderScheduler creates a scheduler instance.
func NewReminderScheduler(db *database.Database, sink NotificationSink, cfg config.Reminders) *ReminderScheduler {
	return &ReminderScheduler{
		db:     db,
		sink:   sink,
		config: cfg,
		cron:   cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow))),
	}
}

// Start begins the scheduler if reminders are enabled.
func (s *ReminderScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if !s.config.Enabled {
		logging.Logger().Info("reminder scheduler: disabled")
		return nil
	}

	entryID, err := s.cron.AddFunc(s.config.Schedule, func() {
		s.runScan()
	})
	if err != nil {
		return fmt.Errorf("invalid reminder schedule %q: %w", s.config.Schedule, err)
	}
	s.entryID = entryID

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	logging.Logger().WithField("schedule", s.config.Schedule).
		Info("reminder scheduler: started")

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop gracefully stops the scheduler, waiting for a running scan.
func (s *ReminderScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()

	s.isRunning = false
	s.cancelFunc = nil

	logging.Logger().Info("reminder scheduler: stopped")
}

// RunNow triggers an immediate scan, used by tests and maintenance.
func (s *ReminderScheduler) RunNow() {
	s.runScan()
}

// IsRunning reports whether the scheduler is active.
func (s *ReminderScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// NextRunTime returns when the next scan will fire.
func (s *ReminderScheduler) NextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}
	for _, entry := range s.cron.Entries() {
		if entry.ID == s.entryID {
			t := entry.Next
			return &t
		}
	}
	return nil
}

// runScan walks all open loans once and emits one reminder per loan
// that is overdue or inside the due-soon window.
func (s *ReminderScheduler) runScan() {
	s.mu.Lock()
	if s.isScanning {
		s.mu.Unlock()
		logging.Logger().Debug("reminder scan: skipped, already running")
		return
	}
	s.isScanning = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.isScanning = false
		s.mu.Unlock()
	}()

	now := time.Now()
	horizon := now.Add(s.config.DueSoon)

	var loans []entities.Loan
	err := s.db.DB.Preload("Book").
		Where("status = ? AND due_date <= ?", entities.LoanStatusBorrowed, horizon).
		Find(&loans).Error
	if err != nil {
		logging.Logger().WithError(err).Error("reminder scan: failed to load open loans")
		return
	}

	var overdue, dueSoon int
	for _, loan := range loans {
		title := loan.Book.Title
		due := loan.DueDate.Format("02 Jan 2006")

		if loan.DueDate.Before(now) {
			s.sink.Emit(loan.UserID,
				fmt.Sprintf("%q was due on %s. Please return it to avoid further fines.", title, due),
				entities.NotificationReminder)
			overdue++
		} else {
			s.sink.Emit(loan.UserID,
				fmt.Sprintf("%q is due on %s.", title, due),
				entities.NotificationReminder)
			dueSoon++
		}
	}

	logging.Logger().WithField("overdue", overdue).
		WithField("dueSoon", dueSoon).
		Info("reminder scan complete")
}
