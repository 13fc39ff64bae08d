package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/akumar/librarium/internal/auth"
	"github.com/akumar/librarium/internal/database/catalog"
	"github.com/akumar/librarium/internal/entities"
)

// CatalogStore defines database operations for catalog browsing.
type CatalogStore interface {
	GetBookByID(id uint) (*entities.Book, error)
	GetBookByCallNumber(callNumber string) (*entities.Book, error)
	SearchByTitle(title string, limit int) ([]entities.Book, error)
	ListBooks() ([]entities.Book, error)
	AddReview(review *entities.Review) error
}

type BooksController struct {
	store CatalogStore
}

func NewBooksController(store CatalogStore) *BooksController {
	return &BooksController{store: store}
}

// ListBooks returns the whole catalog.
// GET /api/books
func (bc *BooksController) ListBooks(c *gin.Context) {
	books, err := bc.store.ListBooks()
	if err != nil {
		respondInternalError(c, err, "list books")
		return
	}
	c.JSON(http.StatusOK, books)
}

// GetBook returns a single catalog entry with its loans and reviews.
// GET /api/books/:id
func (bc *BooksController) GetBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	book, err := bc.store.GetBookByID(id)
	if err != nil {
		if errors.Is(err, catalog.ErrBookNotFound) {
			respondNotFound(c, "Book not found")
			return
		}
		respondInternalError(c, err, "get book")
		return
	}
	c.JSON(http.StatusOK, book)
}

// SearchBooks looks up titles by partial match. Each search bumps the
// matched books' search counters for the popularity report.
// GET /api/books/search?title=...
func (bc *BooksController) SearchBooks(c *gin.Context) {
	title := c.Query("title")
	if title == "" {
		respondBadRequest(c, "title query parameter is required")
		return
	}

	limit := 50
	if limitStr := c.Query("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 100 {
			limit = l
		}
	}

	books, err := bc.store.SearchByTitle(title, limit)
	if err != nil {
		if errors.Is(err, catalog.ErrBookNotFound) {
			respondNotFound(c, "No books found matching the title")
			return
		}
		respondInternalError(c, err, "search books")
		return
	}
	c.JSON(http.StatusOK, books)
}

// GetBookByCallNumber fetches a book by its shelf call number.
// GET /api/books/call/:callNumber
func (bc *BooksController) GetBookByCallNumber(c *gin.Context) {
	callNumber := c.Param("callNumber")
	if callNumber == "" {
		respondBadRequest(c, "call number is required")
		return
	}

	book, err := bc.store.GetBookByCallNumber(callNumber)
	if err != nil {
		if errors.Is(err, catalog.ErrBookNotFound) {
			respondNotFound(c, "Book not found")
			return
		}
		respondInternalError(c, err, "get book by call number")
		return
	}
	c.JSON(http.StatusOK, book)
}

type reviewRequest struct {
	Rating     float64 `json:"rating" binding:"required"`
	ReviewText string  `json:"reviewText"`
}

// AddReview records a reader review and refreshes the book's average
// rating.
// POST /api/books/:id/reviews
func (bc *BooksController) AddReview(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	user, ok := auth.CurrentUser(c)
	if !ok {
		respondBadRequest(c, "authentication required")
		return
	}

	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "rating is required")
		return
	}

	review := &entities.Review{
		BookID:     id,
		UserID:     user.ID,
		Rating:     req.Rating,
		ReviewText: req.ReviewText,
	}
	if err := bc.store.AddReview(review); err != nil {
		switch {
		case errors.Is(err, catalog.ErrBookNotFound):
			respondNotFound(c, "Book not found")
		case errors.Is(err, catalog.ErrInvalidRating):
			respondBadRequest(c, err.Error())
		default:
			respondInternalError(c, err, "add review")
		}
		return
	}
	respondCreated(c, review)
}
