// Package loans implements the borrow/return/renew/reserve lifecycle.
//
// Every mutating operation serializes on a per-(user, book) lock and
// applies both the user-side and book-side effects inside one database
// transaction, so the copy-conservation invariant
//
//	availableCopies + open loans == totalCopies
//
// holds after every operation, even under concurrent requests.
package loans

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/akumar/librarium/internal/database"
	"github.com/akumar/librarium/internal/entities"
	"github.com/akumar/librarium/internal/logging"
)

const (
	// MaxOpenLoans caps how many books a reader can hold at once.
	MaxOpenLoans = 3

	// RenewalExtensionDays is added to the due date on each renewal.
	RenewalExtensionDays = 7
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrBookNotFound    = errors.New("book not found")
	ErrBlacklisted     = errors.New("user is blacklisted from borrowing")
	ErrBorrowLimit     = errors.New("you cannot borrow more than 3 books at a time")
	ErrAlreadyBorrowed = errors.New("book already borrowed and not yet returned")
	ErrNoCopies        = errors.New("no copies available")
	ErrNotBorrowed     = errors.New("book not borrowed or already returned")
	ErrRenewalLimit    = errors.New("maximum renewals reached, visit the library to renew further")
	ErrCopiesAvailable = errors.New("book is available, no need to reserve")
	ErrAlreadyReserved = errors.New("you have already reserved this book")
)

// NotificationSink receives lifecycle events. Implementations must be
// fire-and-forget: a failed write is logged, never surfaced.
type NotificationSink interface {
	Emit(userID uint, message string, typ entities.NotificationType)
}

// Service is the loan lifecycle service. Construct with NewService;
// the store is injected, never a package-level singleton.
type Service struct {
	db         *database.Database
	sink       NotificationSink
	ratePerDay float64
	locks      *entityLocks
}

// NewService creates the lifecycle service with the given fine rate.
func NewService(db *database.Database, sink NotificationSink, ratePerDay float64) *Service {
	return &Service{
		db:         db,
		sink:       sink,
		ratePerDay: ratePerDay,
		locks:      newEntityLocks(),
	}
}

// LoanPeriodDays returns the demand-adaptive loan period for a book:
// the more a book has been borrowed, the shorter the window.
func LoanPeriodDays(borrowCount int64) int {
	switch {
	case borrowCount > 5:
		return 7
	case borrowCount > 2:
		return 10
	default:
		return 14
	}
}

// Borrow checks out one copy of a book to a user.
func (s *Service) Borrow(ctx context.Context, userID, bookID uint) (*entities.Loan, error) {
	unlock := s.locks.LockPair(userID, bookID)
	defer unlock()

	var loan *entities.Loan
	var book entities.Book

	err := s.db.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := s.findUser(tx, userID)
		if err != nil {
			return err
		}
		if err := s.findBook(tx, bookID, &book); err != nil {
			return err
		}

		if user.IsBlacklisted {
			return ErrBlacklisted
		}

		var open int64
		if err := tx.Model(&entities.Loan{}).
			Where("user_id = ? AND status = ?", userID, entities.LoanStatusBorrowed).
			Count(&open).Error; err != nil {
			return err
		}
		if open >= MaxOpenLoans {
			return ErrBorrowLimit
		}

		var dup int64
		if err := tx.Model(&entities.Loan{}).
			Where("user_id = ? AND book_id = ? AND status = ?",
				userID, bookID, entities.LoanStatusBorrowed).
			Count(&dup).Error; err != nil {
			return err
		}
		if dup > 0 {
			return ErrAlreadyBorrowed
		}

		if book.AvailableCopies <= 0 {
			return ErrNoCopies
		}

		// Loan period is decided by demand before this borrow counts.
		period := LoanPeriodDays(book.BorrowCount)
		now := time.Now()

		loan = &entities.Loan{
			UserID:         userID,
			BookID:         bookID,
			BorrowedDate:   now,
			DueDate:        now.AddDate(0, 0, period),
			Status:         entities.LoanStatusBorrowed,
			LoanPeriodDays: period,
		}
		if err := tx.Create(loan).Error; err != nil {
			return err
		}

		return tx.Model(&entities.Book{}).Where("id = ?", bookID).
			Updates(map[string]any{
				"available_copies": gorm.Expr("available_copies - 1"),
				"borrow_count":     gorm.Expr("borrow_count + 1"),
			}).Error
	})
	if err != nil {
		return nil, err
	}

	s.sink.Emit(userID,
		fmt.Sprintf("You have borrowed %q. Due date: %s",
			book.Title, loan.DueDate.Format("02 Jan 2006")),
		entities.NotificationBorrow)

	return loan, nil
}

// ReturnResult is what a successful return reports back to the caller.
type ReturnResult struct {
	Fine         float64             `json:"fine"`
	BadgesEarned []string            `json:"badgesEarned"`
	Badges       entities.StringList `json:"badges"`
	Milestones   entities.StringList `json:"milestones"`
}

// Return closes an open loan, freezing the fine at return time. The
// fine is never recomputed afterward.
func (s *Service) Return(ctx context.Context, userID, bookID uint) (*ReturnResult, error) {
	unlock := s.locks.LockPair(userID, bookID)
	defer unlock()

	var result ReturnResult
	var book entities.Book
	var reservedUserID uint

	err := s.db.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := s.findUser(tx, userID)
		if err != nil {
			return err
		}
		if err := s.findBook(tx, bookID, &book); err != nil {
			return err
		}

		loan, err := s.findOpenLoan(tx, userID, bookID)
		if err != nil {
			return err
		}

		now := time.Now()
		fine := CalculateFine(loan.DueDate, now, s.ratePerDay)

		loan.ReturnDate = &now
		loan.Status = entities.LoanStatusReturned
		loan.Fine = fine
		if err := tx.Save(loan).Error; err != nil {
			return err
		}

		if err := tx.Model(&entities.Book{}).Where("id = ?", bookID).
			UpdateColumn("available_copies", gorm.Expr("available_copies + 1")).Error; err != nil {
			return err
		}

		user.PenaltyAmount = roundToCents(user.PenaltyAmount + fine)
		user.TotalBooksRead++
		earned := applyAchievements(user)

		if err := tx.Model(&entities.User{}).Where("id = ?", userID).
			Updates(map[string]any{
				"penalty_amount":   user.PenaltyAmount,
				"total_books_read": user.TotalBooksRead,
				"badges":           user.Badges,
				"milestones":       user.Milestones,
			}).Error; err != nil {
			return err
		}

		// The freed copy fulfills the oldest pending reservation, if any.
		var reservation entities.Reservation
		err = tx.Where("book_id = ? AND status = ?", bookID, entities.ReservationStatusPending).
			Order("reserved_date ASC").
			First(&reservation).Error
		if err == nil {
			reservation.Status = entities.ReservationStatusFulfilled
			if err := tx.Save(&reservation).Error; err != nil {
				return err
			}
			reservedUserID = reservation.UserID
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		result = ReturnResult{
			Fine:         fine,
			BadgesEarned: earned,
			Badges:       user.Badges,
			Milestones:   user.Milestones,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.sink.Emit(userID,
		fmt.Sprintf("You have returned %q.", book.Title),
		entities.NotificationReturn)
	for _, badge := range result.BadgesEarned {
		s.sink.Emit(userID,
			fmt.Sprintf("Congratulations! You earned a new badge: %q", badge),
			entities.NotificationBadge)
	}
	if reservedUserID != 0 {
		s.sink.Emit(reservedUserID,
			fmt.Sprintf("%q is now available. Your reservation has been fulfilled.", book.Title),
			entities.NotificationReserve)
	}

	return &result, nil
}

// Renew extends an open loan's due date by RenewalExtensionDays, up to
// entities.MaxRenewals times. A renewal past the cap is a terminal
// business rejection, not an error to retry.
func (s *Service) Renew(ctx context.Context, userID, bookID uint) (*entities.Loan, error) {
	unlock := s.locks.LockPair(userID, bookID)
	defer unlock()

	var loan *entities.Loan
	var book entities.Book

	err := s.db.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := s.findUser(tx, userID)
		if err != nil {
			return err
		}
		if user.IsBlacklisted {
			return ErrBlacklisted
		}
		if err := s.findBook(tx, bookID, &book); err != nil {
			return err
		}

		found, err := s.findOpenLoan(tx, userID, bookID)
		if err != nil {
			return err
		}
		loan = found

		if loan.Renewals >= entities.MaxRenewals {
			return ErrRenewalLimit
		}

		now := time.Now()
		due := loan.DueDate
		if due.IsZero() {
			due = now
		}
		newDue := due.AddDate(0, 0, RenewalExtensionDays)

		loan.DueDate = newDue
		loan.Renewals++
		if err := tx.Save(loan).Error; err != nil {
			return err
		}

		record := entities.RenewalRecord{
			LoanID:      loan.ID,
			RenewedDate: now,
			NewDueDate:  newDue,
		}
		if err := tx.Create(&record).Error; err != nil {
			return err
		}
		loan.RenewalHistory = append(loan.RenewalHistory, record)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.sink.Emit(userID,
		fmt.Sprintf("You have renewed %q. New due date: %s",
			book.Title, loan.DueDate.Format("02 Jan 2006")),
		entities.NotificationRenew)

	return loan, nil
}

// Reserve places a pending reservation. Reserving an available book is
// rejected (borrowing should be used instead), as is a second pending
// reservation by the same user.
func (s *Service) Reserve(ctx context.Context, userID, bookID uint) (*entities.Reservation, error) {
	unlock := s.locks.LockPair(userID, bookID)
	defer unlock()

	var reservation *entities.Reservation
	var book entities.Book

	err := s.db.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.findUser(tx, userID); err != nil {
			return err
		}
		if err := s.findBook(tx, bookID, &book); err != nil {
			return err
		}

		if book.AvailableCopies > 0 {
			return ErrCopiesAvailable
		}

		var dup int64
		if err := tx.Model(&entities.Reservation{}).
			Where("user_id = ? AND book_id = ? AND status = ?",
				userID, bookID, entities.ReservationStatusPending).
			Count(&dup).Error; err != nil {
			return err
		}
		if dup > 0 {
			return ErrAlreadyReserved
		}

		reservation = &entities.Reservation{
			UserID:       userID,
			BookID:       bookID,
			ReservedDate: time.Now(),
			Status:       entities.ReservationStatusPending,
		}
		return tx.Create(reservation).Error
	})
	if err != nil {
		return nil, err
	}

	s.sink.Emit(userID,
		fmt.Sprintf("You have reserved %q. We will notify you when it is available.", book.Title),
		entities.NotificationReserve)

	return reservation, nil
}

// OverrideRenewals is the administrative escape hatch: it resets the
// renewal counter on an open loan without extending the due date, so
// the reader can renew again through the normal path.
func (s *Service) OverrideRenewals(ctx context.Context, userID, bookID uint) (*entities.Loan, error) {
	unlock := s.locks.LockPair(userID, bookID)
	defer unlock()

	var loan *entities.Loan

	err := s.db.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.findUser(tx, userID); err != nil {
			return err
		}
		var book entities.Book
		if err := s.findBook(tx, bookID, &book); err != nil {
			return err
		}

		found, err := s.findOpenLoan(tx, userID, bookID)
		if err != nil {
			return err
		}
		loan = found

		loan.Renewals = 0
		return tx.Save(loan).Error
	})
	if err != nil {
		return nil, err
	}
	return loan, nil
}

func (s *Service) findUser(tx *gorm.DB, userID uint) (*entities.User, error) {
	var user entities.User
	if err := tx.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *Service) findBook(tx *gorm.DB, bookID uint, book *entities.Book) error {
	if err := tx.First(book, bookID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBookNotFound
		}
		return err
	}
	return nil
}

// findOpenLoan locates the single unreturned loan for a (user, book)
// pair. A missing record fails the whole operation rather than
// applying a partial update.
func (s *Service) findOpenLoan(tx *gorm.DB, userID, bookID uint) (*entities.Loan, error) {
	var loan entities.Loan
	err := tx.Where("user_id = ? AND book_id = ? AND status = ?",
		userID, bookID, entities.LoanStatusBorrowed).
		First(&loan).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotBorrowed
		}
		return nil, err
	}
	return &loan, nil
}

// LogSink writes emitted notifications to the application log only.
// Used in tests and maintenance commands where no sink is wired.
type LogSink struct{}

func (LogSink) Emit(userID uint, message string, typ entities.NotificationType) {
	logging.Logger().WithField("userId", userID).WithField("type", typ).Debug(message)
}
