package membership

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
	dbPath := "./test_membership_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&entities.User{},
		&entities.Book{},
		&entities.Loan{},
		&entities.RenewalRecord{},
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

func seedUser(t *testing.T, db *gorm.DB, name string, booksRead int) *entities.User {
	t.Helper()
	user := &entities.User{
		Name:           name,
		Email:          name + "@university.edu",
		Role:           entities.UserRoleStudent,
		TotalBooksRead: booksRead,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func TestRepository_GetUserByID(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	user := seedUser(t, db, "alice", 0)
	require.NoError(t, db.Create(&entities.Loan{
		UserID:  user.ID,
		BookID:  1,
		DueDate: time.Now().AddDate(0, 0, 14),
		Status:  entities.LoanStatusBorrowed,
	}).Error)

	found, err := repo.GetUserByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", found.Name)
	assert.Len(t, found.BorrowedBooks, 1)
}

func TestRepository_GetUserByID_NotFound(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := repo.GetUserByID(99)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestRepository_ListUserIDs(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	a := seedUser(t, db, "alice", 0)
	b := seedUser(t, db, "bob", 0)

	ids, err := repo.ListUserIDs()
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{a.ID, b.ID}, ids)
}

func TestRepository_DeleteUser(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	user := seedUser(t, db, "alice", 0)

	require.NoError(t, repo.DeleteUser(user.ID))

	_, err := repo.GetUserByID(user.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestRepository_DeleteUser_NotFound(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	err := repo.DeleteUser(99)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestRepository_SetBlacklisted(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	user := seedUser(t, db, "alice", 0)

	require.NoError(t, repo.SetBlacklisted(user.ID, true))

	found, err := repo.GetUserByID(user.ID)
	require.NoError(t, err)
	assert.True(t, found.IsBlacklisted)

	require.NoError(t, repo.SetBlacklisted(user.ID, false))

	found, err = repo.GetUserByID(user.ID)
	require.NoError(t, err)
	assert.False(t, found.IsBlacklisted)
}

func TestRepository_SetBlacklisted_NotFound(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	err := repo.SetBlacklisted(99, true)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestRepository_Leaderboard(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	seedUser(t, db, "light", 2)
	seedUser(t, db, "heavy", 12)

	top, err := repo.Leaderboard(10)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "heavy", top[0].Name)
	assert.Equal(t, "light", top[1].Name)
}

func TestRepository_OpenLoans(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	user := seedUser(t, db, "alice", 0)
	now := time.Now()
	returned := now
	require.NoError(t, db.Create(&entities.Loan{
		UserID: user.ID, BookID: 1,
		DueDate: now.AddDate(0, 0, 14),
		Status:  entities.LoanStatusBorrowed,
	}).Error)
	require.NoError(t, db.Create(&entities.Loan{
		UserID: user.ID, BookID: 2,
		DueDate:    now.AddDate(0, 0, 7),
		Status:     entities.LoanStatusReturned,
		ReturnDate: &returned,
	}).Error)

	open, err := repo.OpenLoans(user.ID)
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, uint(1), open[0].BookID)
}

func TestRepository_RenewalHistory(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	user := seedUser(t, db, "alice", 0)
	loan := &entities.Loan{
		UserID: user.ID, BookID: 1,
		DueDate: time.Now().AddDate(0, 0, 14),
		Status:  entities.LoanStatusBorrowed,
	}
	require.NoError(t, db.Create(loan).Error)
	require.NoError(t, db.Create(&entities.RenewalRecord{
		LoanID:      loan.ID,
		RenewedDate: time.Now(),
		NewDueDate:  time.Now().AddDate(0, 0, 21),
	}).Error)

	records, err := repo.RenewalHistory(user.ID)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestRepository_Reservations(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	user := seedUser(t, db, "alice", 0)
	require.NoError(t, db.Create(&entities.Reservation{
		UserID: user.ID, BookID: 1,
		ReservedDate: time.Now(),
		Status:       entities.ReservationStatusPending,
	}).Error)

	reservations, err := repo.Reservations(user.ID)
	require.NoError(t, err)
	require.Len(t, reservations, 1)
	assert.Equal(t, entities.ReservationStatusPending, reservations[0].Status)
}
