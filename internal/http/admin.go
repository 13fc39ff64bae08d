package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/akumar/librarium/internal/auth"
	"github.com/akumar/librarium/internal/database/catalog"
	"github.com/akumar/librarium/internal/database/membership"
	"github.com/akumar/librarium/internal/database/reports"
	"github.com/akumar/librarium/internal/entities"
	"github.com/akumar/librarium/internal/tasks"
)

// AdminCatalogStore defines catalog write operations for staff.
type AdminCatalogStore interface {
	CreateBook(book *entities.Book) error
	UpdateBook(id uint, updates map[string]any) (*entities.Book, error)
	DeleteBook(id uint) error
}

// AdminMembershipStore defines member administration operations.
type AdminMembershipStore interface {
	ListUsers() ([]entities.User, error)
	GetUserByID(id uint) (*entities.User, error)
	DeleteUser(id uint) error
	SetBlacklisted(id uint, blacklisted bool) error
}

// ReportStore defines the aggregate queries behind staff reports.
type ReportStore interface {
	MostBorrowed(n int) ([]entities.Book, error)
	MostSearched(n int) ([]entities.Book, error)
	FineReport() ([]reports.UserFines, error)
	BorrowedBooks() ([]reports.BorrowedBookEntry, error)
	PendingReservations() ([]entities.Reservation, error)
	GetDashboard(now time.Time) (*reports.Dashboard, error)
}

// OverrideService resets a loan's renewal counter.
type OverrideService interface {
	OverrideRenewals(ctx context.Context, userID, bookID uint) (*entities.Loan, error)
}

// ArrivalAnnouncer queues the new-arrival broadcast.
type ArrivalAnnouncer interface {
	AnnounceArrival(title, author string) error
}

// PasswordResetter replaces a member's password.
type PasswordResetter interface {
	ResetPassword(userID uint, password string) error
}

// ChallengeCreator creates reading challenges.
type ChallengeCreator interface {
	Create(challenge *entities.ReadingChallenge) error
}

type AdminController struct {
	catalog    AdminCatalogStore
	members    AdminMembershipStore
	reports    ReportStore
	override   OverrideService
	announcer  ArrivalAnnouncer
	challenges ChallengeCreator
	passwords  PasswordResetter
}

func NewAdminController(
	catalogStore AdminCatalogStore,
	members AdminMembershipStore,
	reportStore ReportStore,
	override OverrideService,
	announcer ArrivalAnnouncer,
	challenges ChallengeCreator,
	passwords PasswordResetter,
) *AdminController {
	return &AdminController{
		catalog:    catalogStore,
		members:    members,
		reports:    reportStore,
		override:   override,
		announcer:  announcer,
		challenges: challenges,
		passwords:  passwords,
	}
}

// --- Catalog management ---

type bookRequest struct {
	Title           string `json:"title" binding:"required"`
	Author          string `json:"author" binding:"required"`
	Genre           string `json:"genre"`
	ISBN            string `json:"isbn" binding:"required"`
	CallNumber      string `json:"callNumber" binding:"required"`
	Publisher       string `json:"publisher"`
	PublicationYear int    `json:"publicationYear"`
	Pages           int    `json:"pages"`
	Language        string `json:"language"`
	Format          string `json:"format"`
	Category        string `json:"category"`
	Description     string `json:"description"`
	CoverImage      string `json:"coverImage"`
	TotalCopies     int    `json:"totalCopies"`
}

// CreateBook adds a title to the catalog, optionally announcing it.
// POST /api/admin/books?announce=true
func (ac *AdminController) CreateBook(c *gin.Context) {
	var req bookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "title, author, isbn and callNumber are required")
		return
	}
	if req.TotalCopies == 0 {
		req.TotalCopies = 1
	}

	book := &entities.Book{
		Title:           req.Title,
		Author:          req.Author,
		Genre:           req.Genre,
		ISBN:            req.ISBN,
		CallNumber:      req.CallNumber,
		Publisher:       req.Publisher,
		PublicationYear: req.PublicationYear,
		Pages:           req.Pages,
		Language:        req.Language,
		Format:          entities.BookFormat(req.Format),
		Category:        req.Category,
		Description:     req.Description,
		CoverImage:      req.CoverImage,
		TotalCopies:     req.TotalCopies,
	}
	if err := ac.catalog.CreateBook(book); err != nil {
		switch {
		case errors.Is(err, catalog.ErrDuplicateISBN),
			errors.Is(err, catalog.ErrDuplicateCall):
			respondConflict(c, err.Error())
		case errors.Is(err, catalog.ErrInvalidCopies):
			respondBadRequest(c, err.Error())
		default:
			respondInternalError(c, err, "create book")
		}
		return
	}

	if c.Query("announce") == "true" && ac.announcer != nil {
		if err := ac.announcer.AnnounceArrival(book.Title, book.Author); err != nil {
			respondInternalError(c, err, "announce arrival")
			return
		}
	}
	respondCreated(c, book)
}

// UpdateBook applies a partial update to a catalog entry.
// PATCH /api/admin/books/:id
func (ac *AdminController) UpdateBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var updates map[string]any
	if err := c.ShouldBindJSON(&updates); err != nil || len(updates) == 0 {
		respondBadRequest(c, "no updates provided")
		return
	}

	book, err := ac.catalog.UpdateBook(id, updates)
	if err != nil {
		if errors.Is(err, catalog.ErrBookNotFound) {
			respondNotFound(c, "Book not found")
			return
		}
		respondInternalError(c, err, "update book")
		return
	}
	c.JSON(http.StatusOK, book)
}

// DeleteBook removes a catalog entry.
// DELETE /api/admin/books/:id
func (ac *AdminController) DeleteBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ac.catalog.DeleteBook(id); err != nil {
		if errors.Is(err, catalog.ErrBookNotFound) {
			respondNotFound(c, "Book not found")
			return
		}
		respondInternalError(c, err, "delete book")
		return
	}
	respondMessage(c, "book deleted")
}

// NotifyArrival broadcasts a new-arrival announcement to all members.
// POST /api/admin/notify-arrival
func (ac *AdminController) NotifyArrival(c *gin.Context) {
	var req struct {
		Title  string `json:"title" binding:"required"`
		Author string `json:"author"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "title is required")
		return
	}

	if err := ac.announcer.AnnounceArrival(req.Title, req.Author); err != nil {
		respondInternalError(c, err, "announce arrival")
		return
	}
	c.JSON(http.StatusAccepted, MessageResponse{Message: "arrival announcement queued"})
}

// --- Member administration ---

// ListUsers returns every member account.
// GET /api/admin/users
func (ac *AdminController) ListUsers(c *gin.Context) {
	users, err := ac.members.ListUsers()
	if err != nil {
		respondInternalError(c, err, "list users")
		return
	}
	c.JSON(http.StatusOK, users)
}

// GetUser returns a member with loans and reservations attached.
// GET /api/admin/users/:id
func (ac *AdminController) GetUser(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	user, err := ac.members.GetUserByID(id)
	if err != nil {
		if errors.Is(err, membership.ErrUserNotFound) {
			respondNotFound(c, "User not found")
			return
		}
		respondInternalError(c, err, "get user")
		return
	}
	c.JSON(http.StatusOK, user)
}

// DeleteUser removes a member account.
// DELETE /api/admin/users/:id
func (ac *AdminController) DeleteUser(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ac.members.DeleteUser(id); err != nil {
		if errors.Is(err, membership.ErrUserNotFound) {
			respondNotFound(c, "User not found")
			return
		}
		respondInternalError(c, err, "delete user")
		return
	}
	respondMessage(c, "user deleted")
}

// SetBlacklist blocks or unblocks a member from borrowing.
// POST /api/admin/users/:id/blacklist
func (ac *AdminController) SetBlacklist(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		Blacklisted *bool `json:"blacklisted" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "blacklisted flag is required")
		return
	}

	if err := ac.members.SetBlacklisted(id, *req.Blacklisted); err != nil {
		if errors.Is(err, membership.ErrUserNotFound) {
			respondNotFound(c, "User not found")
			return
		}
		respondInternalError(c, err, "set blacklist")
		return
	}
	if *req.Blacklisted {
		respondMessage(c, "user blacklisted")
		return
	}
	respondMessage(c, "user removed from blacklist")
}

// ResetPassword sets a new password on a member's account.
// PUT /api/admin/users/:id/password
func (ac *AdminController) ResetPassword(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "password is required")
		return
	}

	if err := ac.passwords.ResetPassword(id, req.Password); err != nil {
		switch {
		case errors.Is(err, auth.ErrUserNotFound):
			respondNotFound(c, "User not found")
		case errors.Is(err, auth.ErrPasswordTooShort),
			errors.Is(err, auth.ErrPasswordTooLong):
			respondBadRequest(c, err.Error())
		default:
			respondInternalError(c, err, "reset password")
		}
		return
	}
	respondMessage(c, "password reset")
}

// OverrideRenewal resets a member's renewal counter on an open loan.
// The due date does not move.
// PUT /api/admin/override-renewal/:userId/:bookId
func (ac *AdminController) OverrideRenewal(c *gin.Context) {
	userID, ok := parseIDParam(c, "userId")
	if !ok {
		return
	}
	bookID, ok := parseIDParam(c, "bookId")
	if !ok {
		return
	}

	loan, err := ac.override.OverrideRenewals(c.Request.Context(), userID, bookID)
	if err != nil {
		respondLoanError(c, err, "override renewal")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":  "renewal count reset",
		"dueDate":  loan.DueDate,
		"renewals": loan.Renewals,
	})
}

// --- Reports ---

// MostBorrowed ranks books by lifetime borrows.
// GET /api/admin/reports/most-borrowed
func (ac *AdminController) MostBorrowed(c *gin.Context) {
	books, err := ac.reports.MostBorrowed(10)
	if err != nil {
		respondInternalError(c, err, "most borrowed report")
		return
	}
	c.JSON(http.StatusOK, books)
}

// MostSearched ranks books by search hits.
// GET /api/admin/reports/most-searched
func (ac *AdminController) MostSearched(c *gin.Context) {
	books, err := ac.reports.MostSearched(10)
	if err != nil {
		respondInternalError(c, err, "most searched report")
		return
	}
	c.JSON(http.StatusOK, books)
}

// Fines lists accumulated fines per member.
// GET /api/admin/reports/fines
func (ac *AdminController) Fines(c *gin.Context) {
	report, err := ac.reports.FineReport()
	if err != nil {
		respondInternalError(c, err, "fine report")
		return
	}
	c.JSON(http.StatusOK, report)
}

// BorrowedBooks lists every open loan across the library.
// GET /api/admin/reports/borrowed
func (ac *AdminController) BorrowedBooks(c *gin.Context) {
	report, err := ac.reports.BorrowedBooks()
	if err != nil {
		respondInternalError(c, err, "borrowed books report")
		return
	}
	c.JSON(http.StatusOK, report)
}

// PendingReservations lists reservations still waiting on a copy.
// GET /api/admin/reports/reservations
func (ac *AdminController) PendingReservations(c *gin.Context) {
	pending, err := ac.reports.PendingReservations()
	if err != nil {
		respondInternalError(c, err, "pending reservations report")
		return
	}
	c.JSON(http.StatusOK, pending)
}

// Dashboard returns the aggregate counters for the staff landing page.
// GET /api/admin/dashboard
func (ac *AdminController) Dashboard(c *gin.Context) {
	dashboard, err := ac.reports.GetDashboard(time.Now())
	if err != nil {
		respondInternalError(c, err, "dashboard")
		return
	}
	c.JSON(http.StatusOK, dashboard)
}

// --- Reading challenges ---

type challengeRequest struct {
	Title        string `json:"title" binding:"required"`
	Description  string `json:"description"`
	Type         string `json:"type"`
	Goal         int    `json:"goal" binding:"required"`
	StartDate    string `json:"startDate"`
	EndDate      string `json:"endDate"`
	Genre        string `json:"genre"`
	BadgeReward  string `json:"badgeReward"`
	PointsReward int    `json:"pointsReward"`
}

// CreateChallenge opens a new reading challenge.
// POST /api/admin/challenges
func (ac *AdminController) CreateChallenge(c *gin.Context) {
	var req challengeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "title and goal are required")
		return
	}

	admin, _ := auth.CurrentUser(c)

	challengeType := entities.ChallengeType(req.Type)
	if req.Type == "" {
		challengeType = entities.ChallengeBooksCount
	}

	challenge := &entities.ReadingChallenge{
		Title:        req.Title,
		Description:  req.Description,
		Type:         challengeType,
		Goal:         req.Goal,
		Genre:        req.Genre,
		BadgeReward:  req.BadgeReward,
		PointsReward: req.PointsReward,
		IsActive:     true,
		CreatedByID:  admin.ID,
	}

	if req.StartDate != "" {
		start, err := time.Parse("2006-01-02", req.StartDate)
		if err != nil {
			respondBadRequest(c, "startDate must be YYYY-MM-DD")
			return
		}
		challenge.StartDate = start
	} else {
		challenge.StartDate = time.Now()
	}
	if req.EndDate != "" {
		end, err := time.Parse("2006-01-02", req.EndDate)
		if err != nil {
			respondBadRequest(c, "endDate must be YYYY-MM-DD")
			return
		}
		challenge.EndDate = end
	}

	if err := ac.challenges.Create(challenge); err != nil {
		respondInternalError(c, err, "create challenge")
		return
	}
	respondCreated(c, challenge)
}

// QueueAnnouncer enqueues arrival broadcasts on the task queue.
type QueueAnnouncer struct {
	client *tasks.Client
}

// NewQueueAnnouncer creates an announcer backed by the task queue.
func NewQueueAnnouncer(client *tasks.Client) *QueueAnnouncer {
	return &QueueAnnouncer{client: client}
}

func (a *QueueAnnouncer) AnnounceArrival(title, author string) error {
	_, err := a.client.Add(tasks.BroadcastArrivalTask{
		BookTitle: title,
		Author:    author,
	}).Save()
	return err
}

// DirectAnnouncer writes the broadcast synchronously when the task
// queue is disabled.
type DirectAnnouncer struct {
	Members tasks.MemberLister
	Writer  tasks.NotificationWriter
}

func (a *DirectAnnouncer) AnnounceArrival(title, author string) error {
	processor := tasks.BroadcastArrivalProcessor(a.Members, a.Writer)
	return processor(context.Background(), tasks.BroadcastArrivalTask{
		BookTitle: title,
		Author:    author,
	})
}
