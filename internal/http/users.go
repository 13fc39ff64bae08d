package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/akumar/librarium/internal/auth"
	"github.com/akumar/librarium/internal/database/membership"
	"github.com/akumar/librarium/internal/database/notifications"
	"github.com/akumar/librarium/internal/entities"
)

// MembershipStore defines database operations for member self-service.
type MembershipStore interface {
	GetUserByID(id uint) (*entities.User, error)
	Leaderboard(limit int) ([]entities.User, error)
	OpenLoans(userID uint) ([]entities.Loan, error)
	RenewalHistory(userID uint) ([]entities.RenewalRecord, error)
	Reservations(userID uint) ([]entities.Reservation, error)
}

// NotificationStore defines database operations for the inbox.
type NotificationStore interface {
	ListByUser(userID uint, unreadOnly bool) ([]entities.Notification, error)
	MarkRead(userID, notificationID uint) error
}

type UsersController struct {
	authService   *auth.Service
	store         MembershipStore
	notifications NotificationStore
}

func NewUsersController(authService *auth.Service, store MembershipStore, notifications NotificationStore) *UsersController {
	return &UsersController{
		authService:   authService,
		store:         store,
		notifications: notifications,
	}
}

type registerRequest struct {
	Name       string `json:"name" binding:"required"`
	Email      string `json:"email" binding:"required"`
	Password   string `json:"password" binding:"required"`
	Role       string `json:"role"`
	StudentID  string `json:"studentId"`
	FacultyID  string `json:"facultyId"`
	Department string `json:"department"`
	Phone      string `json:"phone"`
}

type authResponse struct {
	Token string         `json:"token"`
	User  *entities.User `json:"user"`
}

// Register creates a member account and signs them in.
// POST /api/users/register
func (uc *UsersController) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "name, email and password are required")
		return
	}

	user, err := uc.authService.Register(auth.RegisterInput{
		Name:       req.Name,
		Email:      req.Email,
		Password:   req.Password,
		Role:       entities.UserRole(req.Role),
		StudentID:  req.StudentID,
		FacultyID:  req.FacultyID,
		Department: req.Department,
		Phone:      req.Phone,
	})
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrUserExists):
			respondConflict(c, err.Error())
		case errors.Is(err, auth.ErrEmailInvalid),
			errors.Is(err, auth.ErrInvalidRole),
			errors.Is(err, auth.ErrPasswordTooShort),
			errors.Is(err, auth.ErrPasswordTooLong):
			respondBadRequest(c, err.Error())
		default:
			respondInternalError(c, err, "register user")
		}
		return
	}

	token, err := uc.authService.IssueToken(user)
	if err != nil {
		respondInternalError(c, err, "issue token")
		return
	}
	respondCreated(c, authResponse{Token: token, User: user})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login exchanges credentials for a bearer token.
// POST /api/users/login
func (uc *UsersController) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "email and password are required")
		return
	}

	user, err := uc.authService.Authenticate(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidPassword) {
			c.JSON(http.StatusUnauthorized, MessageResponse{Message: "invalid email or password"})
			return
		}
		respondInternalError(c, err, "login")
		return
	}

	token, err := uc.authService.IssueToken(user)
	if err != nil {
		respondInternalError(c, err, "issue token")
		return
	}
	c.JSON(http.StatusOK, authResponse{Token: token, User: user})
}

// Profile returns the signed-in member with open loans, reservations
// and achievement lists attached.
// GET /api/users/profile
func (uc *UsersController) Profile(c *gin.Context) {
	current, _ := auth.CurrentUser(c)

	user, err := uc.store.GetUserByID(current.ID)
	if err != nil {
		if errors.Is(err, membership.ErrUserNotFound) {
			respondNotFound(c, "User not found")
			return
		}
		respondInternalError(c, err, "get profile")
		return
	}
	c.JSON(http.StatusOK, user)
}

// BorrowedBooks lists the member's open loans.
// GET /api/users/borrowed
func (uc *UsersController) BorrowedBooks(c *gin.Context) {
	current, _ := auth.CurrentUser(c)

	loans, err := uc.store.OpenLoans(current.ID)
	if err != nil {
		respondInternalError(c, err, "list borrowed books")
		return
	}
	c.JSON(http.StatusOK, loans)
}

// RenewalHistory lists every renewal the member has made.
// GET /api/users/renewal-history
func (uc *UsersController) RenewalHistory(c *gin.Context) {
	current, _ := auth.CurrentUser(c)

	history, err := uc.store.RenewalHistory(current.ID)
	if err != nil {
		respondInternalError(c, err, "list renewal history")
		return
	}
	c.JSON(http.StatusOK, history)
}

// Reservations lists the member's reservations.
// GET /api/users/reservations
func (uc *UsersController) Reservations(c *gin.Context) {
	current, _ := auth.CurrentUser(c)

	reservations, err := uc.store.Reservations(current.ID)
	if err != nil {
		respondInternalError(c, err, "list reservations")
		return
	}
	c.JSON(http.StatusOK, reservations)
}

// Leaderboard ranks members by books read.
// GET /api/users/leaderboard
func (uc *UsersController) Leaderboard(c *gin.Context) {
	users, err := uc.store.Leaderboard(10)
	if err != nil {
		respondInternalError(c, err, "leaderboard")
		return
	}

	type entry struct {
		Name           string              `json:"name"`
		TotalBooksRead int                 `json:"totalBooksRead"`
		Badges         entities.StringList `json:"badges"`
	}
	out := make([]entry, 0, len(users))
	for _, u := range users {
		out = append(out, entry{
			Name:           u.Name,
			TotalBooksRead: u.TotalBooksRead,
			Badges:         u.Badges,
		})
	}
	c.JSON(http.StatusOK, out)
}

// Notifications lists the member's inbox, optionally unread only.
// GET /api/users/notifications?unread=true
func (uc *UsersController) Notifications(c *gin.Context) {
	current, _ := auth.CurrentUser(c)

	unreadOnly := c.Query("unread") == "true"
	items, err := uc.notifications.ListByUser(current.ID, unreadOnly)
	if err != nil {
		respondInternalError(c, err, "list notifications")
		return
	}
	c.JSON(http.StatusOK, items)
}

// MarkNotificationRead marks one of the member's notifications read.
// POST /api/users/notifications/:id/read
func (uc *UsersController) MarkNotificationRead(c *gin.Context) {
	current, _ := auth.CurrentUser(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := uc.notifications.MarkRead(current.ID, id); err != nil {
		if errors.Is(err, notifications.ErrNotificationNotFound) {
			respondNotFound(c, "Notification not found")
			return
		}
		respondInternalError(c, err, "mark notification read")
		return
	}
	respondMessage(c, "notification marked as read")
}
