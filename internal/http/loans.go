package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/akumar/librarium/internal/auth"
	"github.com/akumar/librarium/internal/entities"
	"github.com/akumar/librarium/internal/loans"
)

// LoanService is the loan lifecycle surface the controller drives.
type LoanService interface {
	Borrow(ctx context.Context, userID, bookID uint) (*entities.Loan, error)
	Return(ctx context.Context, userID, bookID uint) (*loans.ReturnResult, error)
	Renew(ctx context.Context, userID, bookID uint) (*entities.Loan, error)
	Reserve(ctx context.Context, userID, bookID uint) (*entities.Reservation, error)
}

type LoansController struct {
	service LoanService
}

func NewLoansController(service LoanService) *LoansController {
	return &LoansController{service: service}
}

// Borrow checks a book out to the signed-in member.
// POST /api/users/borrow/:bookId
func (lc *LoansController) Borrow(c *gin.Context) {
	user, _ := auth.CurrentUser(c)
	bookID, ok := parseIDParam(c, "bookId")
	if !ok {
		return
	}

	loan, err := lc.service.Borrow(c.Request.Context(), user.ID, bookID)
	if err != nil {
		respondLoanError(c, err, "borrow book")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":      "Book borrowed successfully",
		"borrowedBook": loan,
	})
}

// Return closes a member's open loan for a book. Returns happen at
// the front desk, so the route is keyed by user rather than token.
// The response carries the frozen fine and any badges earned.
// POST /api/users/return/:userId/:bookId
func (lc *LoansController) Return(c *gin.Context) {
	userID, ok := parseIDParam(c, "userId")
	if !ok {
		return
	}
	bookID, ok := parseIDParam(c, "bookId")
	if !ok {
		return
	}

	result, err := lc.service.Return(c.Request.Context(), userID, bookID)
	if err != nil {
		respondLoanError(c, err, "return book")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":      "Book returned successfully",
		"fine":         result.Fine,
		"badgesEarned": result.BadgesEarned,
		"badges":       result.Badges,
		"milestones":   result.Milestones,
	})
}

// Renew extends the member's open loan by a week.
// PUT /api/books/renew/:bookId
func (lc *LoansController) Renew(c *gin.Context) {
	user, _ := auth.CurrentUser(c)
	bookID, ok := parseIDParam(c, "bookId")
	if !ok {
		return
	}

	loan, err := lc.service.Renew(c.Request.Context(), user.ID, bookID)
	if err != nil {
		respondLoanError(c, err, "renew book")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":  "Book renewed successfully",
		"dueDate":  loan.DueDate,
		"renewals": loan.Renewals,
	})
}

// Reserve queues the member for a book with no free copies.
// POST /api/users/reserve/:bookId
func (lc *LoansController) Reserve(c *gin.Context) {
	user, _ := auth.CurrentUser(c)
	bookID, ok := parseIDParam(c, "bookId")
	if !ok {
		return
	}

	reservation, err := lc.service.Reserve(c.Request.Context(), user.ID, bookID)
	if err != nil {
		respondLoanError(c, err, "reserve book")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":     "Book reserved successfully",
		"reservation": reservation,
	})
}

// respondLoanError maps lifecycle sentinels onto HTTP statuses. The
// business rejections are 400s so clients can show the message as-is.
func respondLoanError(c *gin.Context, err error, context string) {
	switch {
	case errors.Is(err, loans.ErrUserNotFound):
		respondNotFound(c, "User not found")
	case errors.Is(err, loans.ErrBookNotFound):
		respondNotFound(c, "Book not found")
	case errors.Is(err, loans.ErrRenewalLimit):
		c.JSON(http.StatusForbidden, MessageResponse{Message: err.Error()})
	case errors.Is(err, loans.ErrNotBorrowed),
		errors.Is(err, loans.ErrBlacklisted),
		errors.Is(err, loans.ErrBorrowLimit),
		errors.Is(err, loans.ErrAlreadyBorrowed),
		errors.Is(err, loans.ErrNoCopies),
		errors.Is(err, loans.ErrCopiesAvailable),
		errors.Is(err, loans.ErrAlreadyReserved):
		respondBadRequest(c, err.Error())
	default:
		respondInternalError(c, err, context)
	}
}
