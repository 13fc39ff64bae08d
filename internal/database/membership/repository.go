// Package membership provides database operations for user accounts.
package membership

import (
	"errors"

	"gorm.io/gorm"

	"github.com/akumar/librarium/internal/entities"
)

var ErrUserNotFound = errors.New("user not found")

// Repository handles all membership database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new membership repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetUserByID retrieves a user with loan, renewal and reservation records.
func (r *Repository) GetUserByID(id uint) (*entities.User, error) {
	var user entities.User
	err := r.db.
		Preload("BorrowedBooks").
		Preload("BorrowedBooks.RenewalHistory").
		Preload("Reservations").
		First(&user, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// ListUsers returns all registered members.
func (r *Repository) ListUsers() ([]entities.User, error) {
	var users []entities.User
	err := r.db.Order("name ASC").Find(&users).Error
	return users, err
}

// ListUserIDs returns every member ID, for broadcast fanout.
func (r *Repository) ListUserIDs() ([]uint, error) {
	var ids []uint
	err := r.db.Model(&entities.User{}).Pluck("id", &ids).Error
	return ids, err
}

// DeleteUser removes a member account. Loan history rows survive so
// reporting stays intact.
func (r *Repository) DeleteUser(id uint) error {
	result := r.db.Delete(&entities.User{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// SetBlacklisted blocks or unblocks a member from borrowing.
func (r *Repository) SetBlacklisted(id uint, blacklisted bool) error {
	result := r.db.Model(&entities.User{}).Where("id = ?", id).
		Update("is_blacklisted", blacklisted)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// Leaderboard returns the top readers by totalBooksRead.
func (r *Repository) Leaderboard(limit int) ([]entities.User, error) {
	if limit <= 0 {
		limit = 10
	}
	var users []entities.User
	err := r.db.Order("total_books_read DESC").Limit(limit).Find(&users).Error
	return users, err
}

// OpenLoans returns a user's currently unreturned loans.
func (r *Repository) OpenLoans(userID uint) ([]entities.Loan, error) {
	var loans []entities.Loan
	err := r.db.Preload("RenewalHistory").
		Where("user_id = ? AND status = ?", userID, entities.LoanStatusBorrowed).
		Order("due_date ASC").
		Find(&loans).Error
	return loans, err
}

// RenewalHistory returns every renewal record across the user's loans,
// newest first.
func (r *Repository) RenewalHistory(userID uint) ([]entities.RenewalRecord, error) {
	var records []entities.RenewalRecord
	err := r.db.
		Joins("JOIN loans ON loans.id = renewal_records.loan_id").
		Where("loans.user_id = ?", userID).
		Order("renewal_records.renewed_date DESC").
		Find(&records).Error
	return records, err
}

// Reservations returns the user's reservation records, newest first.
func (r *Repository) Reservations(userID uint) ([]entities.Reservation, error) {
	var reservations []entities.Reservation
	err := r.db.Where("user_id = ?", userID).
		Order("reserved_date DESC").
		Find(&reservations).Error
	return reservations, err
}
