// Package cli implements the maintenance subcommands.
package cli

import (
	"flag"
	"fmt"
	"os"

	"github.com/akumar/librarium/internal/auth"
	"github.com/akumar/librarium/internal/config"
	"github.com/akumar/librarium/internal/database"
)

// CreateAdminCommand provisions an administrator account. Admins are
// never created over HTTP, only through this command.
type CreateAdminCommand struct {
	Name         string
	Email        string
	Password     string
	DatabasePath string
}

// NewCreateAdminCommand creates a new CreateAdminCommand.
func NewCreateAdminCommand() *CreateAdminCommand {
	return &CreateAdminCommand{}
}

// ParseFlags parses command line flags.
func (cmd *CreateAdminCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("create-admin", flag.ExitOnError)

	fs.StringVar(&cmd.Name, "name", "", "Administrator display name")
	fs.StringVar(&cmd.Email, "email", "", "Administrator email address")
	fs.StringVar(&cmd.Password, "password", "", "Administrator password (min 8 characters)")
	fs.StringVar(&cmd.DatabasePath, "db", "", "Path to the database file (defaults to DATABASE_PATH)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s create-admin [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Create a library administrator account.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExample:\n")
		fmt.Fprintf(os.Stderr, "  %s create-admin -name 'Head Librarian' -email admin@university.edu -password <password>\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.Name == "" || cmd.Email == "" || cmd.Password == "" {
		fs.Usage()
		return fmt.Errorf("name, email and password are all required")
	}
	return nil
}

// Run executes the create-admin command.
func (cmd *CreateAdminCommand) Run() error {
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

	service := auth.NewService(db.DB, cfg.Auth)
	admin, err := service.CreateAdmin(cmd.Name, cmd.Email, cmd.Password)
	if err != nil {
		return fmt.Errorf("failed to create admin: %w", err)
	}

	fmt.Printf("Administrator account created: %s <%s> (id %d)\n", admin.Name, admin.Email, admin.ID)
	return nil
}
