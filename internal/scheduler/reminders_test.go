package scheduler

import (
	"context"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akumar/librarium/internal/config"
	"github.com/akumar/librarium/internal/database"
	"github.com/akumar/librarium/internal/entities"
)

type recordingSink struct {
	mu     sync.Mutex
	events []string
	users  []uint
}

func (s *recordingSink) Emit(userID uint, message string, typ entities.NotificationType) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, message)
	s.users = append(s.users, userID)
}

func setupScheduler(t *testing.T) (*database.Database, *ReminderScheduler, *recordingSink, func()) {
	dbPath := "./test_scheduler_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"

	db, err := database.NewDatabase(dbPath)
	require.NoError(t, err)

	sink := &recordingSink{}
	sched := NewReminderScheduler(db, sink, config.Reminders{
		Enabled:  true,
		Schedule: "0 8 * * *",
		DueSoon:  48 * time.Hour,
	})

	cleanup := func() {
		db.Close()
		os.Remove(dbPath)
	}
	return db, sched, sink, cleanup
}

func seedLoan(t *testing.T, db *database.Database, title string, due time.Time, status entities.LoanStatus) uint {
	user := &entities.User{Name: "reader-" + title, Email: title + "@university.edu"}
	require.NoError(t, db.DB.Create(user).Error)

	book := &entities.Book{
		Title: title, Author: "A", ISBN: "isbn-" + title, CallNumber: "call-" + title,
		TotalCopies: 1, AvailableCopies: 0,
	}
	require.NoError(t, db.DB.Create(book).Error)

	loan := &entities.Loan{
		UserID: user.ID, BookID: book.ID,
		BorrowedDate: due.AddDate(0, 0, -14), DueDate: due,
		Status: status, LoanPeriodDays: 14,
	}
	require.NoError(t, db.DB.Create(loan).Error)
	return user.ID
}

func TestRunScan(t *testing.T) {
	t.Run("notifies overdue and due-soon loans only", func(t *testing.T) {
		db, sched, sink, cleanup := setupScheduler(t)
		defer cleanup()

		now := time.Now()
		overdueUser := seedLoan(t, db, "Overdue", now.AddDate(0, 0, -2), entities.LoanStatusBorrowed)
		dueSoonUser := seedLoan(t, db, "DueSoon", now.Add(24*time.Hour), entities.LoanStatusBorrowed)
		seedLoan(t, db, "FarOff", now.AddDate(0, 0, 10), entities.LoanStatusBorrowed)
		seedLoan(t, db, "Returned", now.AddDate(0, 0, -5), entities.LoanStatusReturned)

		sched.RunNow()

		require.Len(t, sink.events, 2)
		assert.ElementsMatch(t, []uint{overdueUser, dueSoonUser}, sink.users)
	})

	t.Run("overdue message asks for the return", func(t *testing.T) {
		db, sched, sink, cleanup := setupScheduler(t)
		defer cleanup()

		seedLoan(t, db, "VeryLate", time.Now().AddDate(0, 0, -7), entities.LoanStatusBorrowed)

		sched.RunNow()

		require.Len(t, sink.events, 1)
		assert.Contains(t, sink.events[0], "was due on")
	})
}

func TestStartStop(t *testing.T) {
	t.Run("disabled scheduler does not start", func(t *testing.T) {
		db, _, _, cleanup := setupScheduler(t)
		defer cleanup()

		sched := NewReminderScheduler(db, &recordingSink{}, config.Reminders{Enabled: false})
		require.NoError(t, sched.Start(context.Background()))
		assert.False(t, sched.IsRunning())
	})

	t.Run("starts and stops cleanly", func(t *testing.T) {
		db, _, _, cleanup := setupScheduler(t)
		defer cleanup()

		sched := NewReminderScheduler(db, &recordingSink{}, config.Reminders{
			Enabled: true, Schedule: "0 8 * * *", DueSoon: 48 * time.Hour,
		})
		require.NoError(t, sched.Start(context.Background()))
		assert.True(t, sched.IsRunning())
		assert.NotNil(t, sched.NextRunTime())

		sched.Stop()
		assert.False(t, sched.IsRunning())
	})

	t.Run("rejects a malformed schedule", func(t *testing.T) {
		db, _, _, cleanup := setupScheduler(t)
		defer cleanup()

		sched := NewReminderScheduler(db, &recordingSink{}, config.Reminders{
			Enabled: true, Schedule: "not a schedule",
		})
		assert.Error(t, sched.Start(context.Background()))
	})
}
