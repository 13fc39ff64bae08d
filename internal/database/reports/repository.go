// Package reports provides read-only admin aggregations over the
// catalog and membership stores. Nothing here mutates state.
package reports

import (
	"time"

	"gorm.io/gorm"

	"github.com/akumar/librarium/internal/entities"
)

// Repository answers admin reporting queries.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new reports repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// MostBorrowed returns the top n books by borrow count.
func (r *Repository) MostBorrowed(n int) ([]entities.Book, error) {
	if n <= 0 {
		n = 10
	}
	var books []entities.Book
	err := r.db.Order("borrow_count DESC").Limit(n).Find(&books).Error
	return books, err
}

// MostSearched returns the top n books by search count.
func (r *Repository) MostSearched(n int) ([]entities.Book, error) {
	if n <= 0 {
		n = 10
	}
	var books []entities.Book
	err := r.db.Order("search_count DESC").Limit(n).Find(&books).Error
	return books, err
}

// FineEntry is one outstanding fine on a user's loan history.
type FineEntry struct {
	BookTitle string  `json:"bookTitle"`
	Fine      float64 `json:"fine"`
}

// UserFines groups a member's fines for the fine report.
type UserFines struct {
	Name  string      `json:"name"`
	Email string      `json:"email"`
	Fines []FineEntry `json:"fines"`
	Total float64     `json:"total"`
}

// FineReport lists every user carrying at least one fined loan.
func (r *Repository) FineReport() ([]UserFines, error) {
	var loans []entities.Loan
	err := r.db.Preload("User").Preload("Book").
		Where("fine > 0").
		Order("user_id ASC").
		Find(&loans).Error
	if err != nil {
		return nil, err
	}

	byUser := make(map[uint]*UserFines)
	order := make([]uint, 0)
	for _, loan := range loans {
		entry, ok := byUser[loan.UserID]
		if !ok {
			entry = &UserFines{Name: loan.User.Name, Email: loan.User.Email}
			byUser[loan.UserID] = entry
			order = append(order, loan.UserID)
		}
		entry.Fines = append(entry.Fines, FineEntry{BookTitle: loan.Book.Title, Fine: loan.Fine})
		entry.Total += loan.Fine
	}

	report := make([]UserFines, 0, len(order))
	for _, id := range order {
		report = append(report, *byUser[id])
	}
	return report, nil
}

// BorrowedBookEntry is one open loan in the borrowed-books report.
type BorrowedBookEntry struct {
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	BookTitle string    `json:"bookTitle"`
	DueDate   time.Time `json:"dueDate"`
}

// BorrowedBooks lists every currently open loan across all users.
func (r *Repository) BorrowedBooks() ([]BorrowedBookEntry, error) {
	var loans []entities.Loan
	err := r.db.Preload("User").Preload("Book").
		Where("status = ?", entities.LoanStatusBorrowed).
		Order("due_date ASC").
		Find(&loans).Error
	if err != nil {
		return nil, err
	}

	entries := make([]BorrowedBookEntry, 0, len(loans))
	for _, loan := range loans {
		entries = append(entries, BorrowedBookEntry{
			Name:      loan.User.Name,
			Email:     loan.User.Email,
			BookTitle: loan.Book.Title,
			DueDate:   loan.DueDate,
		})
	}
	return entries, nil
}

// PendingReservations lists all reservations still waiting to be
// fulfilled, oldest first.
func (r *Repository) PendingReservations() ([]entities.Reservation, error) {
	var reservations []entities.Reservation
	err := r.db.Where("status = ?", entities.ReservationStatusPending).
		Order("reserved_date ASC").
		Find(&reservations).Error
	return reservations, err
}

// Dashboard is the aggregate view backing the admin landing page.
type Dashboard struct {
	TotalBooks       int64   `json:"totalBooks"`
	TotalUsers       int64   `json:"totalUsers"`
	ActiveLoans      int64   `json:"activeLoans"`
	OverdueLoans     int64   `json:"overdueLoans"`
	PendingReserves  int64   `json:"pendingReservations"`
	OutstandingFines float64 `json:"outstandingFines"`
	BorrowsLastWeek  int64   `json:"borrowsLastWeek"`
}

// GetDashboard assembles the admin dashboard counters.
func (r *Repository) GetDashboard(now time.Time) (*Dashboard, error) {
	var d Dashboard

	if err := r.db.Model(&entities.Book{}).Count(&d.TotalBooks).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&entities.User{}).Count(&d.TotalUsers).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&entities.Loan{}).
		Where("status = ?", entities.LoanStatusBorrowed).
		Count(&d.ActiveLoans).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&entities.Loan{}).
		Where("status = ? AND due_date < ?", entities.LoanStatusBorrowed, now).
		Count(&d.OverdueLoans).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&entities.Reservation{}).
		Where("status = ?", entities.ReservationStatusPending).
		Count(&d.PendingReserves).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&entities.Loan{}).
		Select("COALESCE(SUM(fine), 0)").
		Scan(&d.OutstandingFines).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&entities.Loan{}).
		Where("borrowed_date >= ?", now.AddDate(0, 0, -7)).
		Count(&d.BorrowsLastWeek).Error; err != nil {
		return nil, err
	}

	return &d, nil
}
