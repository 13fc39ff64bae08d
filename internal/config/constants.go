package config

const (
	// DefaultDatabasePath is the default path for the main application database
	DefaultDatabasePath = "./librarium.db"

	// DefaultFineRatePerDay is the overdue penalty charged per late day,
	// in the library's accounting currency.
	DefaultFineRatePerDay = 0.5
)
