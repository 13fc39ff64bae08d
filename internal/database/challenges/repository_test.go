package challenges

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

func setupTestDB(t *testing.T) (*Repository, func()) {
	dbPath := "./test_challenges_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&entities.ReadingChallenge{},
		&entities.UserChallenge{},
	)
	require.NoError(t, err)

	repo := NewRepository(db)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return repo, cleanup
}

func seedChallenge(t *testing.T, repo *Repository, title string, goal int, active bool) *entities.ReadingChallenge {
	t.Helper()
	challenge := &entities.ReadingChallenge{
		Title:     title,
		Type:      entities.ChallengeBooksCount,
		Goal:      goal,
		StartDate: time.Now().AddDate(0, 0, -1),
		EndDate:   time.Now().AddDate(0, 1, 0),
		IsActive:  active,
	}
	require.NoError(t, repo.Create(challenge))
	return challenge
}

func TestRepository_ListActive(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	seedChallenge(t, repo, "Running", 5, true)
	seedChallenge(t, repo, "Finished", 5, false)

	active, err := repo.ListActive()
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "Running", active[0].Title)
}

func TestRepository_GetByID(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	seeded := seedChallenge(t, repo, "Summer Marathon", 10, true)

	found, err := repo.GetByID(seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, "Summer Marathon", found.Title)
	assert.Equal(t, 10, found.Goal)
}

func TestRepository_GetByID_NotFound(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := repo.GetByID(99)
	assert.ErrorIs(t, err, ErrChallengeNotFound)
}

func TestRepository_Join(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	seeded := seedChallenge(t, repo, "Read 5", 5, true)

	enrollment, err := repo.Join(seeded.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, seeded.ID, enrollment.ChallengeID)
	assert.Equal(t, "Read 5", enrollment.Challenge.Title)

	_, err = repo.Join(seeded.ID, 1)
	assert.ErrorIs(t, err, ErrAlreadyJoined)
}

func TestRepository_Join_UnknownChallenge(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := repo.Join(99, 1)
	assert.ErrorIs(t, err, ErrChallengeNotFound)
}

func TestRepository_UpdateProgress(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	seeded := seedChallenge(t, repo, "Read 2", 2, true)
	_, err := repo.Join(seeded.ID, 1)
	require.NoError(t, err)

	enrollment, err := repo.UpdateProgress(seeded.ID, 1, 1)
	require.NoError(t, err)
	assert.False(t, enrollment.Completed)

	enrollment, err = repo.UpdateProgress(seeded.ID, 1, 2)
	require.NoError(t, err)
	assert.True(t, enrollment.Completed)
	require.NotNil(t, enrollment.CompletedAt)

	// Completion sticks even if the counter is lowered afterwards.
	enrollment, err = repo.UpdateProgress(seeded.ID, 1, 0)
	require.NoError(t, err)
	assert.True(t, enrollment.Completed)
}

func TestRepository_UpdateProgress_NotJoined(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	seeded := seedChallenge(t, repo, "Read 2", 2, true)

	_, err := repo.UpdateProgress(seeded.ID, 1, 1)
	assert.ErrorIs(t, err, ErrNotJoined)
}
