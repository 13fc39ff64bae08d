package auth

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/akumar/librarium/internal/config"
	"github.com/akumar/librarium/internal/entities"
)

func setupTestService(t *testing.T) (*Service, func()) {
	dbPath := "./test_auth_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&entities.User{})
	require.NoError(t, err)

	svc := NewService(db, config.Auth{
		JWTSecret:   "test-secret",
		TokenExpiry: time.Hour,
		BcryptCost:  bcrypt.MinCost,
	})

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return svc, cleanup
}

func TestRegister(t *testing.T) {
	t.Run("creates a student account", func(t *testing.T) {
		svc, cleanup := setupTestService(t)
		defer cleanup()

		user, err := svc.Register(RegisterInput{
			Name:      "Alice",
			Email:     "alice@university.edu",
			Password:  "reading-is-fun",
			StudentID: "S-1001",
		})
		require.NoError(t, err)

		assert.Equal(t, entities.UserRoleStudent, user.Role)
		require.NotNil(t, user.StudentID)
		assert.Equal(t, "S-1001", *user.StudentID)
		assert.NotEqual(t, "reading-is-fun", user.PasswordHash)
	})

	t.Run("rejects a duplicate email", func(t *testing.T) {
		svc, cleanup := setupTestService(t)
		defer cleanup()

		_, err := svc.Register(RegisterInput{
			Name: "Alice", Email: "alice@university.edu", Password: "reading-is-fun",
		})
		require.NoError(t, err)

		_, err = svc.Register(RegisterInput{
			Name: "Other Alice", Email: "alice@university.edu", Password: "also-a-reader",
		})
		assert.ErrorIs(t, err, ErrUserExists)
	})

	t.Run("rejects a malformed email", func(t *testing.T) {
		svc, cleanup := setupTestService(t)
		defer cleanup()

		_, err := svc.Register(RegisterInput{
			Name: "Bob", Email: "not-an-email", Password: "reading-is-fun",
		})
		assert.ErrorIs(t, err, ErrEmailInvalid)
	})

	t.Run("rejects registering as admin", func(t *testing.T) {
		svc, cleanup := setupTestService(t)
		defer cleanup()

		_, err := svc.Register(RegisterInput{
			Name: "Eve", Email: "eve@university.edu", Password: "reading-is-fun",
			Role: entities.UserRoleAdmin,
		})
		assert.ErrorIs(t, err, ErrInvalidRole)
	})
}

func TestAuthenticate(t *testing.T) {
	svc, cleanup := setupTestService(t)
	defer cleanup()

	_, err := svc.Register(RegisterInput{
		Name: "Alice", Email: "alice@university.edu", Password: "reading-is-fun",
	})
	require.NoError(t, err)

	t.Run("accepts valid credentials", func(t *testing.T) {
		user, err := svc.Authenticate("alice@university.edu", "reading-is-fun")
		require.NoError(t, err)
		assert.Equal(t, "Alice", user.Name)
	})

	t.Run("rejects a wrong password", func(t *testing.T) {
		_, err := svc.Authenticate("alice@university.edu", "wrong-password")
		assert.ErrorIs(t, err, ErrInvalidPassword)
	})

	t.Run("unknown email looks like a wrong password", func(t *testing.T) {
		_, err := svc.Authenticate("nobody@university.edu", "reading-is-fun")
		assert.ErrorIs(t, err, ErrInvalidPassword)
	})
}

func TestTokens(t *testing.T) {
	svc, cleanup := setupTestService(t)
	defer cleanup()

	user, err := svc.Register(RegisterInput{
		Name: "Alice", Email: "alice@university.edu", Password: "reading-is-fun",
	})
	require.NoError(t, err)

	t.Run("round-trips claims", func(t *testing.T) {
		token, err := svc.IssueToken(user)
		require.NoError(t, err)

		claims, err := svc.ParseToken(token)
		require.NoError(t, err)
		assert.Equal(t, user.ID, claims.UserID)
		assert.Equal(t, entities.UserRoleStudent, claims.Role)

		resolved, err := svc.User(claims)
		require.NoError(t, err)
		assert.Equal(t, user.Email, resolved.Email)
	})

	t.Run("rejects garbage", func(t *testing.T) {
		_, err := svc.ParseToken("not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("rejects a token signed with a different secret", func(t *testing.T) {
		other := *svc
		other.config.JWTSecret = "different-secret"
		token, err := other.IssueToken(user)
		require.NoError(t, err)

		_, err = svc.ParseToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("rejects an expired token", func(t *testing.T) {
		expired := *svc
		expired.config.TokenExpiry = -time.Hour
		token, err := expired.IssueToken(user)
		require.NoError(t, err)

		_, err = svc.ParseToken(token)
		assert.ErrorIs(t, err, ErrTokenExpired)
	})
}

func TestCreateAdmin(t *testing.T) {
	svc, cleanup := setupTestService(t)
	defer cleanup()

	admin, err := svc.CreateAdmin("Librarian", "librarian@university.edu", "shelves-and-stacks")
	require.NoError(t, err)
	assert.True(t, admin.IsAdmin())

	_, err = svc.CreateAdmin("Librarian", "librarian@university.edu", "shelves-and-stacks")
	assert.ErrorIs(t, err, ErrUserExists)
}
