package reports

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/akumar/librarium/internal/entities"
)

func setupTestDB(t *testing.T) (*Repository, *gorm.DB, func()) {
	dbPath := "./test_reports_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&entities.User{},
		&entities.Book{},
		&entities.Loan{},
		&entities.Reservation{},
	)
	require.NoError(t, err)

	repo := NewRepository(db)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return repo, db, cleanup
}

func seedBook(t *testing.T, db *gorm.DB, title string, borrowCount, searchCount int64) *entities.Book {
	t.Helper()
	book := &entities.Book{
		Title:       title,
		ISBN:        "isbn-" + title,
		CallNumber:  "call-" + title,
		TotalCopies: 1,
		BorrowCount: borrowCount,
		SearchCount: searchCount,
	}
	require.NoError(t, db.Create(book).Error)
	return book
}

func TestRepository_MostBorrowed(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	seedBook(t, db, "quiet", 1, 0)
	seedBook(t, db, "popular", 9, 0)

	books, err := repo.MostBorrowed(10)
	require.NoError(t, err)
	require.Len(t, books, 2)
	assert.Equal(t, "popular", books[0].Title)
}

func TestRepository_MostSearched(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	seedBook(t, db, "obscure", 0, 2)
	seedBook(t, db, "famous", 0, 20)

	books, err := repo.MostSearched(1)
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, "famous", books[0].Title)
}

func TestRepository_FineReport(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	user := &entities.User{Name: "alice", Email: "alice@university.edu"}
	require.NoError(t, db.Create(user).Error)
	first := seedBook(t, db, "first", 0, 0)
	second := seedBook(t, db, "second", 0, 0)

	require.NoError(t, db.Create(&entities.Loan{
		UserID: user.ID, BookID: first.ID, Fine: 2.50,
		Status: entities.LoanStatusReturned,
	}).Error)
	require.NoError(t, db.Create(&entities.Loan{
		UserID: user.ID, BookID: second.ID, Fine: 1.00,
		Status: entities.LoanStatusBorrowed,
	}).Error)

	report, err := repo.FineReport()
	require.NoError(t, err)
	require.Len(t, report, 1)
	assert.Equal(t, "alice", report[0].Name)
	assert.Len(t, report[0].Fines, 2)
	assert.InDelta(t, 3.50, report[0].Total, 0.001)
}

func TestRepository_BorrowedBooks(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	user := &entities.User{Name: "alice", Email: "alice@university.edu"}
	require.NoError(t, db.Create(user).Error)
	open := seedBook(t, db, "open", 0, 0)
	closed := seedBook(t, db, "closed", 0, 0)

	require.NoError(t, db.Create(&entities.Loan{
		UserID: user.ID, BookID: open.ID,
		DueDate: time.Now().AddDate(0, 0, 14),
		Status:  entities.LoanStatusBorrowed,
	}).Error)
	require.NoError(t, db.Create(&entities.Loan{
		UserID: user.ID, BookID: closed.ID,
		Status: entities.LoanStatusReturned,
	}).Error)

	entries, err := repo.BorrowedBooks()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "open", entries[0].BookTitle)
	assert.Equal(t, "alice", entries[0].Name)
}

func TestRepository_PendingReservations(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	require.NoError(t, db.Create(&entities.Reservation{
		UserID: 1, BookID: 1,
		ReservedDate: time.Now(),
		Status:       entities.ReservationStatusPending,
	}).Error)
	require.NoError(t, db.Create(&entities.Reservation{
		UserID: 1, BookID: 2,
		ReservedDate: time.Now(),
		Status:       entities.ReservationStatusFulfilled,
	}).Error)

	pending, err := repo.PendingReservations()
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, uint(1), pending[0].BookID)
}

func TestRepository_GetDashboard(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	now := time.Now()
	user := &entities.User{Name: "alice", Email: "alice@university.edu"}
	require.NoError(t, db.Create(user).Error)
	book := seedBook(t, db, "only", 0, 0)

	require.NoError(t, db.Create(&entities.Loan{
		UserID: user.ID, BookID: book.ID,
		BorrowedDate: now.AddDate(0, 0, -1),
		DueDate:      now.AddDate(0, 0, -2),
		Status:       entities.LoanStatusBorrowed,
		Fine:         1.50,
	}).Error)
	require.NoError(t, db.Create(&entities.Reservation{
		UserID: user.ID, BookID: book.ID,
		ReservedDate: now,
		Status:       entities.ReservationStatusPending,
	}).Error)

	d, err := repo.GetDashboard(now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), d.TotalBooks)
	assert.Equal(t, int64(1), d.TotalUsers)
	assert.Equal(t, int64(1), d.ActiveLoans)
	assert.Equal(t, int64(1), d.OverdueLoans)
	assert.Equal(t, int64(1), d.PendingReserves)
	assert.Equal(t, int64(1), d.BorrowsLastWeek)
	assert.InDelta(t, 1.50, d.OutstandingFines, 0.001)
}
