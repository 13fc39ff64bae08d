package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/akumar/librarium/internal/auth"
	"github.com/akumar/librarium/internal/config"
	"github.com/akumar/librarium/internal/database"
	"github.com/akumar/librarium/internal/database/challenges"
	"github.com/akumar/librarium/internal/entities"
)

func setupChallengesTest(t *testing.T) (*gin.Engine, *challenges.Repository, string, func()) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dbPath := "./test_challenges_http_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"
	db, err := database.NewDatabase(dbPath)
	require.NoError(t, err)

	authService := auth.NewService(db.DB, config.Auth{
		JWTSecret:   "test-secret",
		TokenExpiry: time.Hour,
		BcryptCost:  bcrypt.MinCost,
	})
	user, err := authService.Register(auth.RegisterInput{
		Name:     "Challenger",
		Email:    "challenger@university.edu",
		Password: "password123",
	})
	require.NoError(t, err)
	token, err := authService.IssueToken(user)
	require.NoError(t, err)

	repo := challenges.NewRepository(db.DB)
	controller := NewChallengesController(repo)
	middleware := auth.NewMiddleware(authService)

	router := gin.New()
	group := router.Group("/api/challenges", middleware.RequireUser())
	group.GET("", controller.ListChallenges)
	group.GET("/mine", controller.MyChallenges)
	group.GET("/:id", controller.GetChallenge)
	group.POST("/:id/join", controller.JoinChallenge)
	group.PATCH("/:id/progress", controller.UpdateProgress)

	cleanup := func() {
		db.Close()
		os.Remove(dbPath)
	}
	return router, repo, token, cleanup
}

func seedChallenge(t *testing.T, repo *challenges.Repository, title string, goal int) *entities.ReadingChallenge {
	t.Helper()
	challenge := &entities.ReadingChallenge{
		Title:     title,
		Type:      entities.ChallengeBooksCount,
		Goal:      goal,
		StartDate: time.Now().Add(-24 * time.Hour),
		EndDate:   time.Now().Add(30 * 24 * time.Hour),
		IsActive:  true,
	}
	require.NoError(t, repo.Create(challenge))
	return challenge
}

func TestChallengesController_ListChallenges(t *testing.T) {
	router, repo, token, cleanup := setupChallengesTest(t)
	defer cleanup()

	seedChallenge(t, repo, "Read 5 Books", 5)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest("GET", "/api/challenges", token, ""))

	assert.Equal(t, http.StatusOK, w.Code)

	var list []entities.ReadingChallenge
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, "Read 5 Books", list[0].Title)
}

func TestChallengesController_GetChallenge(t *testing.T) {
	t.Run("returns the challenge", func(t *testing.T) {
		router, repo, token, cleanup := setupChallengesTest(t)
		defer cleanup()

		seeded := seedChallenge(t, repo, "Summer Marathon", 10)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, jsonRequest("GET", "/api/challenges/"+itoa(seeded.ID), token, ""))

		assert.Equal(t, http.StatusOK, w.Code)

		var challenge entities.ReadingChallenge
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &challenge))
		assert.Equal(t, "Summer Marathon", challenge.Title)
		assert.Equal(t, 10, challenge.Goal)
	})

	t.Run("404 for unknown challenge", func(t *testing.T) {
		router, _, token, cleanup := setupChallengesTest(t)
		defer cleanup()

		w := httptest.NewRecorder()
		router.ServeHTTP(w, jsonRequest("GET", "/api/challenges/42", token, ""))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestChallengesController_JoinChallenge(t *testing.T) {
	t.Run("joins once", func(t *testing.T) {
		router, repo, token, cleanup := setupChallengesTest(t)
		defer cleanup()

		seedChallenge(t, repo, "Genre Explorer", 3)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, jsonRequest("POST", "/api/challenges/1/join", token, ""))
		assert.Equal(t, http.StatusCreated, w.Code)

		w = httptest.NewRecorder()
		router.ServeHTTP(w, jsonRequest("POST", "/api/challenges/1/join", token, ""))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("404 for unknown challenge", func(t *testing.T) {
		router, _, token, cleanup := setupChallengesTest(t)
		defer cleanup()

		w := httptest.NewRecorder()
		router.ServeHTTP(w, jsonRequest("POST", "/api/challenges/9/join", token, ""))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestChallengesController_UpdateProgress(t *testing.T) {
	t.Run("records progress and completes at the goal", func(t *testing.T) {
		router, repo, token, cleanup := setupChallengesTest(t)
		defer cleanup()

		seedChallenge(t, repo, "Read 2 Books", 2)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, jsonRequest("POST", "/api/challenges/1/join", token, ""))
		require.Equal(t, http.StatusCreated, w.Code)

		w = httptest.NewRecorder()
		router.ServeHTTP(w, jsonRequest("PATCH", "/api/challenges/1/progress", token, `{"progress": 1}`))
		assert.Equal(t, http.StatusOK, w.Code)

		var enrollment entities.UserChallenge
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &enrollment))
		assert.Equal(t, 1, enrollment.Progress)
		assert.False(t, enrollment.Completed)

		w = httptest.NewRecorder()
		router.ServeHTTP(w, jsonRequest("PATCH", "/api/challenges/1/progress", token, `{"progress": 2}`))
		assert.Equal(t, http.StatusOK, w.Code)

		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &enrollment))
		assert.True(t, enrollment.Completed)
	})

	t.Run("rejects negative progress", func(t *testing.T) {
		router, repo, token, cleanup := setupChallengesTest(t)
		defer cleanup()

		seedChallenge(t, repo, "Read 2 Books", 2)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, jsonRequest("POST", "/api/challenges/1/join", token, ""))
		require.Equal(t, http.StatusCreated, w.Code)

		w = httptest.NewRecorder()
		router.ServeHTTP(w, jsonRequest("PATCH", "/api/challenges/1/progress", token, `{"progress": -1}`))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("rejects update before joining", func(t *testing.T) {
		router, repo, token, cleanup := setupChallengesTest(t)
		defer cleanup()

		seedChallenge(t, repo, "Unjoined", 2)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, jsonRequest("PATCH", "/api/challenges/1/progress", token, `{"progress": 1}`))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
