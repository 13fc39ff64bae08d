package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/akumar/librarium/internal/auth"
	"github.com/akumar/librarium/internal/database/challenges"
	"github.com/akumar/librarium/internal/entities"
)

// ChallengeStore defines database operations for reading challenges.
type ChallengeStore interface {
	ListActive() ([]entities.ReadingChallenge, error)
	GetByID(id uint) (*entities.ReadingChallenge, error)
	Join(challengeID, userID uint) (*entities.UserChallenge, error)
	ListForUser(userID uint) ([]entities.UserChallenge, error)
	UpdateProgress(challengeID, userID uint, progress int) (*entities.UserChallenge, error)
}

type ChallengesController struct {
	store ChallengeStore
}

func NewChallengesController(store ChallengeStore) *ChallengesController {
	return &ChallengesController{store: store}
}

// ListChallenges returns all open challenges.
// GET /api/challenges
func (hc *ChallengesController) ListChallenges(c *gin.Context) {
	list, err := hc.store.ListActive()
	if err != nil {
		respondInternalError(c, err, "list challenges")
		return
	}
	c.JSON(http.StatusOK, list)
}

// GetChallenge returns a single challenge definition.
// GET /api/challenges/:id
func (hc *ChallengesController) GetChallenge(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	challenge, err := hc.store.GetByID(id)
	if err != nil {
		if errors.Is(err, challenges.ErrChallengeNotFound) {
			respondNotFound(c, "Challenge not found")
			return
		}
		respondInternalError(c, err, "get challenge")
		return
	}
	c.JSON(http.StatusOK, challenge)
}

// JoinChallenge enrolls the signed-in member.
// POST /api/challenges/:id/join
func (hc *ChallengesController) JoinChallenge(c *gin.Context) {
	user, _ := auth.CurrentUser(c)
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	enrollment, err := hc.store.Join(id, user.ID)
	if err != nil {
		switch {
		case errors.Is(err, challenges.ErrChallengeNotFound):
			respondNotFound(c, "Challenge not found")
		case errors.Is(err, challenges.ErrAlreadyJoined):
			respondBadRequest(c, err.Error())
		default:
			respondInternalError(c, err, "join challenge")
		}
		return
	}
	respondCreated(c, enrollment)
}

// MyChallenges returns the member's enrollments with progress.
// GET /api/challenges/mine
func (hc *ChallengesController) MyChallenges(c *gin.Context) {
	user, _ := auth.CurrentUser(c)

	list, err := hc.store.ListForUser(user.ID)
	if err != nil {
		respondInternalError(c, err, "list own challenges")
		return
	}
	c.JSON(http.StatusOK, list)
}

type progressRequest struct {
	Progress *int `json:"progress" binding:"required"`
}

// UpdateProgress records the member's progress. Completion sticks once
// the goal is reached, even if progress is later lowered.
// PATCH /api/challenges/:id/progress
func (hc *ChallengesController) UpdateProgress(c *gin.Context) {
	user, _ := auth.CurrentUser(c)
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req progressRequest
	if err := c.ShouldBindJSON(&req); err != nil || *req.Progress < 0 {
		respondBadRequest(c, "progress must be a non-negative number")
		return
	}

	enrollment, err := hc.store.UpdateProgress(id, user.ID, *req.Progress)
	if err != nil {
		switch {
		case errors.Is(err, challenges.ErrChallengeNotFound):
			respondNotFound(c, "Challenge not found")
		case errors.Is(err, challenges.ErrNotJoined):
			respondBadRequest(c, err.Error())
		default:
			respondInternalError(c, err, "update progress")
		}
		return
	}
	c.JSON(http.StatusOK, enrollment)
}
