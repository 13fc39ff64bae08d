package http

import (
	"github.com/gin-gonic/gin"

	"github.com/akumar/librarium/internal/auth"
	"github.com/akumar/librarium/internal/database"
)

// RouterConfig carries every dependency the router wires up. A nil
// optional field disables its route group.
type RouterConfig struct {
	Database *database.Database
	Version  string

	AuthService    *auth.Service
	AuthMiddleware *auth.Middleware

	Catalog        CatalogStore
	AdminCatalog   AdminCatalogStore
	Members        MembershipStore
	AdminMembers   AdminMembershipStore
	Notifications  NotificationStore
	Reports        ReportStore
	Loans          LoanService
	Override       OverrideService
	Announcer      ArrivalAnnouncer
	PasswordReset  PasswordResetter
	Clubs          ClubStore
	Challenges     ChallengeStore
	ChallengeAdmin ChallengeCreator
}

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	requireUser := cfg.AuthMiddleware.RequireUser()
	requireAdmin := cfg.AuthMiddleware.RequireAdmin()

	// Health endpoints
	health := NewHealthController(cfg.Database, cfg.Version)
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	// Account endpoints
	users := NewUsersController(cfg.AuthService, cfg.Members, cfg.Notifications)
	router.POST("/api/users/register", users.Register)
	router.POST("/api/users/login", users.Login)
	router.GET("/api/users/profile", requireUser, users.Profile)
	router.GET("/api/users/borrowed", requireUser, users.BorrowedBooks)
	router.GET("/api/users/renewal-history", requireUser, users.RenewalHistory)
	router.GET("/api/users/reservations", requireUser, users.Reservations)
	router.GET("/api/users/leaderboard", users.Leaderboard)
	router.GET("/api/users/notifications", requireUser, users.Notifications)
	router.POST("/api/users/notifications/:id/read", requireUser, users.MarkNotificationRead)

	// Catalog endpoints
	books := NewBooksController(cfg.Catalog)
	router.GET("/api/books", books.ListBooks)
	router.GET("/api/books/search", books.SearchBooks)
	router.GET("/api/books/call/:callNumber", books.GetBookByCallNumber)
	router.GET("/api/books/:id", books.GetBook)
	router.POST("/api/books/:id/reviews", requireUser, books.AddReview)

	// Loan lifecycle endpoints
	loansController := NewLoansController(cfg.Loans)
	router.POST("/api/users/borrow/:bookId", requireUser, loansController.Borrow)
	router.POST("/api/users/return/:userId/:bookId", loansController.Return)
	router.PUT("/api/books/renew/:bookId", requireUser, loansController.Renew)
	router.POST("/api/users/reserve/:bookId", requireUser, loansController.Reserve)

	// Staff endpoints
	admin := NewAdminController(
		cfg.AdminCatalog,
		cfg.AdminMembers,
		cfg.Reports,
		cfg.Override,
		cfg.Announcer,
		cfg.ChallengeAdmin,
		cfg.PasswordReset,
	)
	router.POST("/api/admin/books", requireAdmin, admin.CreateBook)
	router.PATCH("/api/admin/books/:id", requireAdmin, admin.UpdateBook)
	router.DELETE("/api/admin/books/:id", requireAdmin, admin.DeleteBook)
	router.POST("/api/admin/notify-arrival", requireAdmin, admin.NotifyArrival)
	router.GET("/api/admin/users", requireAdmin, admin.ListUsers)
	router.GET("/api/admin/users/:id", requireAdmin, admin.GetUser)
	router.DELETE("/api/admin/users/:id", requireAdmin, admin.DeleteUser)
	router.POST("/api/admin/users/:id/blacklist", requireAdmin, admin.SetBlacklist)
	router.PUT("/api/admin/users/:id/password", requireAdmin, admin.ResetPassword)
	router.PUT("/api/admin/override-renewal/:userId/:bookId", requireAdmin, admin.OverrideRenewal)
	router.GET("/api/admin/reports/most-borrowed", requireAdmin, admin.MostBorrowed)
	router.GET("/api/admin/reports/most-searched", requireAdmin, admin.MostSearched)
	router.GET("/api/admin/reports/fines", requireAdmin, admin.Fines)
	router.GET("/api/admin/reports/borrowed", requireAdmin, admin.BorrowedBooks)
	router.GET("/api/admin/reports/reservations", requireAdmin, admin.PendingReservations)
	router.GET("/api/admin/dashboard", requireAdmin, admin.Dashboard)
	router.POST("/api/admin/challenges", requireAdmin, admin.CreateChallenge)

	// Book club endpoints
	if cfg.Clubs != nil {
		clubsController := NewClubsController(cfg.Clubs)
		router.GET("/api/clubs", clubsController.ListClubs)
		router.POST("/api/clubs", requireUser, clubsController.CreateClub)
		router.GET("/api/clubs/:id", clubsController.GetClub)
		router.POST("/api/clubs/:id/join", requireUser, clubsController.JoinClub)
		router.GET("/api/clubs/:id/discussions", clubsController.ListDiscussions)
		router.POST("/api/clubs/:id/discussions", requireUser, clubsController.PostDiscussion)
	}

	// Reading challenge endpoints
	if cfg.Challenges != nil {
		challengesController := NewChallengesController(cfg.Challenges)
		router.GET("/api/challenges", challengesController.ListChallenges)
		router.GET("/api/challenges/mine", requireUser, challengesController.MyChallenges)
		router.GET("/api/challenges/:id", challengesController.GetChallenge)
		router.POST("/api/challenges/:id/join", requireUser, challengesController.JoinChallenge)
		router.PATCH("/api/challenges/:id/progress", requireUser, challengesController.UpdateProgress)
	}

	return router
}
