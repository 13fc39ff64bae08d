// Package database provides the data access layer for the application.
//
// # Architecture
//
// The database layer is organized into domain-specific sub-packages:
//
//	database/
//	├── database.go      # Connection setup, migrations
//	├── catalog/         # Book catalog, search counters, reviews
//	├── membership/      # User accounts, leaderboard
//	├── notifications/   # User-facing notification records
//	├── reports/         # Read-only admin aggregations
//	├── clubs/           # Book clubs and discussions
//	└── challenges/      # Reading challenges and per-user progress
//
// # Using Sub-packages
//
// Each sub-package provides a Repository type with domain-specific operations:
//
//	// Initialize database connection
//	db, err := database.NewDatabase("./librarium.db")
//
//	// Create domain-specific repositories
//	catalogRepo := catalog.NewRepository(db.DB)
//	memberRepo := membership.NewRepository(db.DB)
//
//	// Use repositories
//	book, err := catalogRepo.GetBookByID(123)
//
// The loan lifecycle service (internal/loans) works on db.DB directly so
// that it can run its two-sided writes inside a single transaction.
//
// # Adding a New Domain
//
//  1. Create a new sub-package: internal/database/<domain>/
//  2. Define a Repository struct with a *gorm.DB field
//  3. Add NewRepository(db *gorm.DB) constructor
//  4. Implement the controller-side store interface
//  5. Add compile-time interface check: var _ SomeInterface = (*Repository)(nil)
package database
