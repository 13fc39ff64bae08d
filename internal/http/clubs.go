package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/akumar/librarium/internal/auth"
	"github.com/akumar/librarium/internal/database/clubs"
	"github.com/akumar/librarium/internal/entities"
)

// ClubStore defines database operations for book clubs.
type ClubStore interface {
	ListPublic() ([]entities.BookClub, error)
	Create(club *entities.BookClub) error
	GetByID(id uint) (*entities.BookClub, error)
	Join(clubID, userID uint) error
	AddDiscussion(post *entities.ClubDiscussion) error
	ListDiscussions(clubID uint) ([]entities.ClubDiscussion, error)
}

type ClubsController struct {
	store ClubStore
}

func NewClubsController(store ClubStore) *ClubsController {
	return &ClubsController{store: store}
}

// ListClubs returns all public book clubs.
// GET /api/clubs
func (cc *ClubsController) ListClubs(c *gin.Context) {
	list, err := cc.store.ListPublic()
	if err != nil {
		respondInternalError(c, err, "list clubs")
		return
	}
	c.JSON(http.StatusOK, list)
}

type clubRequest struct {
	Name          string `json:"name" binding:"required"`
	Description   string `json:"description"`
	Genre         string `json:"genre"`
	IsPublic      *bool  `json:"isPublic"`
	MaxMembers    int    `json:"maxMembers"`
	CurrentBookID *uint  `json:"currentBookId"`
}

// CreateClub starts a club; the creator becomes its admin.
// POST /api/clubs
func (cc *ClubsController) CreateClub(c *gin.Context) {
	user, _ := auth.CurrentUser(c)

	var req clubRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "name is required")
		return
	}

	isPublic := true
	if req.IsPublic != nil {
		isPublic = *req.IsPublic
	}
	maxMembers := req.MaxMembers
	if maxMembers <= 0 {
		maxMembers = 50
	}

	club := &entities.BookClub{
		Name:          req.Name,
		Description:   req.Description,
		Genre:         req.Genre,
		IsPublic:      isPublic,
		MaxMembers:    maxMembers,
		CreatedByID:   user.ID,
		CurrentBookID: req.CurrentBookID,
	}
	if err := cc.store.Create(club); err != nil {
		respondInternalError(c, err, "create club")
		return
	}
	respondCreated(c, club)
}

// GetClub returns one club with members and the current book.
// GET /api/clubs/:id
func (cc *ClubsController) GetClub(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	club, err := cc.store.GetByID(id)
	if err != nil {
		if errors.Is(err, clubs.ErrClubNotFound) {
			respondNotFound(c, "Book club not found")
			return
		}
		respondInternalError(c, err, "get club")
		return
	}
	c.JSON(http.StatusOK, club)
}

// JoinClub adds the signed-in member to the club.
// POST /api/clubs/:id/join
func (cc *ClubsController) JoinClub(c *gin.Context) {
	user, _ := auth.CurrentUser(c)
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := cc.store.Join(id, user.ID); err != nil {
		switch {
		case errors.Is(err, clubs.ErrClubNotFound):
			respondNotFound(c, "Book club not found")
		case errors.Is(err, clubs.ErrAlreadyMember),
			errors.Is(err, clubs.ErrClubFull):
			respondBadRequest(c, err.Error())
		default:
			respondInternalError(c, err, "join club")
		}
		return
	}
	respondMessage(c, "joined the club")
}

type discussionRequest struct {
	Message string `json:"message" binding:"required"`
}

// PostDiscussion adds a message to the club's board.
// POST /api/clubs/:id/discussions
func (cc *ClubsController) PostDiscussion(c *gin.Context) {
	user, _ := auth.CurrentUser(c)
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req discussionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "message is required")
		return
	}

	post := &entities.ClubDiscussion{
		ClubID:  id,
		UserID:  user.ID,
		Message: req.Message,
	}
	if err := cc.store.AddDiscussion(post); err != nil {
		if errors.Is(err, clubs.ErrClubNotFound) {
			respondNotFound(c, "Book club not found")
			return
		}
		respondInternalError(c, err, "post discussion")
		return
	}
	respondCreated(c, post)
}

// ListDiscussions returns a club's discussion board, newest first.
// GET /api/clubs/:id/discussions
func (cc *ClubsController) ListDiscussions(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	posts, err := cc.store.ListDiscussions(id)
	if err != nil {
		respondInternalError(c, err, "list discussions")
		return
	}
	c.JSON(http.StatusOK, posts)
}
