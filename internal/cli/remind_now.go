package cli

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/akumar/librarium/internal/config"
	"github.com/akumar/librarium/internal/database"
	"github.com/akumar/librarium/internal/database/notifications"
	"github.com/akumar/librarium/internal/scheduler"
	"github.com/akumar/librarium/internal/tasks"
)

// RemindNowCommand runs one due-date scan immediately instead of
// waiting for the cron schedule. Useful after downtime.
type RemindNowCommand struct {
	DatabasePath string
	DueSoon      time.Duration
}

// NewRemindNowCommand creates a new RemindNowCommand.
func NewRemindNowCommand() *RemindNowCommand {
	return &RemindNowCommand{}
}

// ParseFlags parses command line flags.
func (cmd *RemindNowCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("remind-now", flag.ExitOnError)

	fs.StringVar(&cmd.DatabasePath, "db", "", "Path to the database file (defaults to DATABASE_PATH)")
	fs.DurationVar(&cmd.DueSoon, "due-soon", 48*time.Hour, "Window ahead of the due date to warn about")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s remind-now [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Scan open loans once and write due-soon/overdue reminders.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	return fs.Parse(args)
}

// Run executes the remind-now command.
func (cmd *RemindNowCommand) Run() error {
	cfg := config.NewConfig()
	dbPath := cmd.DatabasePath
	if dbPath == "" {
		dbPath = cfg.Database.Path
	}

	db, err := database.NewDatabase(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	sink := tasks.NewDirectSink(notifications.NewRepository(db.DB))
	sched := scheduler.NewReminderScheduler(db, sink, config.Reminders{
		Enabled: true,
		DueSoon: cmd.DueSoon,
	})
	sched.RunNow()

	fmt.Println("Reminder scan complete.")
	return nil
}
