// Package catalog provides database operations for the book catalog.
//
// This package implements the CatalogStore and AdminCatalogStore
// interfaces defined in internal/http.
package catalog

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/akumar/librarium/internal/entities"
)

var (
	ErrBookNotFound  = errors.New("book not found")
	ErrDuplicateISBN = errors.New("book with this ISBN already exists")
	ErrDuplicateCall = errors.New("book with this call number already exists")
	ErrInvalidCopies = errors.New("total copies must be at least 1")
	ErrInvalidRating = errors.New("rating must be between 0 and 5")
)

// Repository handles all catalog database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new catalog repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateBook adds a book to the catalog. ISBN and call number must be
// unique; availableCopies starts equal to totalCopies.
func (r *Repository) CreateBook(book *entities.Book) error {
	if book.TotalCopies < 1 {
		return ErrInvalidCopies
	}

	var existing entities.Book
	err := r.db.Where("isbn = ?", book.ISBN).First(&existing).Error
	if err == nil {
		return ErrDuplicateISBN
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check existing ISBN: %w", err)
	}

	err = r.db.Where("call_number = ?", book.CallNumber).First(&existing).Error
	if err == nil {
		return ErrDuplicateCall
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check existing call number: %w", err)
	}

	book.AvailableCopies = book.TotalCopies
	return r.db.Create(book).Error
}

// GetBookByID retrieves a book with its loan and reservation records.
func (r *Repository) GetBookByID(id uint) (*entities.Book, error) {
	var book entities.Book
	err := r.db.Preload("Borrowers").Preload("Reservations").Preload("Reviews").
		First(&book, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, err
	}
	return &book, nil
}

// GetBookByCallNumber looks a book up by its call number and bumps its
// search counter for popularity tracking.
func (r *Repository) GetBookByCallNumber(callNumber string) (*entities.Book, error) {
	var book entities.Book
	err := r.db.Where("call_number = ?", callNumber).First(&book).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, err
	}

	if err := r.db.Model(&book).
		UpdateColumn("search_count", gorm.Expr("search_count + 1")).Error; err != nil {
		return nil, err
	}
	book.SearchCount++
	return &book, nil
}

// SearchByTitle performs a case-insensitive partial title match and
// increments the search counter of every matched book.
func (r *Repository) SearchByTitle(title string, limit int) ([]entities.Book, error) {
	if limit <= 0 {
		limit = 50
	}

	var books []entities.Book
	pattern := "%" + title + "%"
	err := r.db.Where("title LIKE ?", pattern).Limit(limit).Find(&books).Error
	if err != nil {
		return nil, err
	}
	if len(books) == 0 {
		return nil, ErrBookNotFound
	}

	err = r.db.Model(&entities.Book{}).
		Where("title LIKE ?", pattern).
		UpdateColumn("search_count", gorm.Expr("search_count + 1")).Error
	if err != nil {
		return nil, err
	}
	for i := range books {
		books[i].SearchCount++
	}
	return books, nil
}

// ListBooks returns the full catalog without child records.
func (r *Repository) ListBooks() ([]entities.Book, error) {
	var books []entities.Book
	err := r.db.Order("title ASC").Find(&books).Error
	return books, err
}

// UpdateBook applies a partial update to catalog fields.
func (r *Repository) UpdateBook(id uint, updates map[string]any) (*entities.Book, error) {
	result := r.db.Model(&entities.Book{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrBookNotFound
	}
	return r.GetBookByID(id)
}

// DeleteBook removes a book from the catalog.
func (r *Repository) DeleteBook(id uint) error {
	result := r.db.Delete(&entities.Book{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrBookNotFound
	}
	return nil
}

// AddReview appends a review and refreshes the book's average rating.
func (r *Repository) AddReview(review *entities.Review) error {
	if review.Rating < 0 || review.Rating > 5 {
		return ErrInvalidRating
	}

	return r.db.Transaction(func(tx *gorm.DB) error {
		var book entities.Book
		if err := tx.First(&book, review.BookID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookNotFound
			}
			return err
		}

		if err := tx.Create(review).Error; err != nil {
			return err
		}

		var avg float64
		if err := tx.Model(&entities.Review{}).
			Where("book_id = ?", review.BookID).
			Select("AVG(rating)").Scan(&avg).Error; err != nil {
			return err
		}

		return tx.Model(&book).UpdateColumn("rating", avg).Error
	})
}
