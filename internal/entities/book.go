package entities

import (
	"time"
)

type BookFormat string

const (
	BookFormatHardcover BookFormat = "Hardcover"
	BookFormatPaperback BookFormat = "Paperback"
	BookFormatEbook     BookFormat = "Ebook"
	BookFormatAudiobook BookFormat = "Audiobook"
)

type ReservationStatus string

const (
	ReservationStatusPending   ReservationStatus = "Pending"
	ReservationStatusFulfilled ReservationStatus = "Fulfilled"
	ReservationStatusCancelled ReservationStatus = "Cancelled"
)

// Book is a catalog entry. AvailableCopies never exceeds TotalCopies;
// SearchCount and BorrowCount only ever grow.
type Book struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	Title           string     `gorm:"index;size:512" json:"title"`
	Author          string     `gorm:"index;size:256" json:"author"`
	Genre           string     `gorm:"index;size:100" json:"genre,omitempty"`
	ISBN            string     `gorm:"uniqueIndex;size:20" json:"isbn"`
	CallNumber      string     `gorm:"uniqueIndex;size:50" json:"callNumber"`
	Publisher       string     `gorm:"size:256" json:"publisher,omitempty"`
	PublicationYear int        `json:"publicationYear,omitempty"`
	Pages           int        `json:"pages,omitempty"`
	Language        string     `gorm:"size:50;default:'English'" json:"language,omitempty"`
	Format          BookFormat `gorm:"size:20" json:"format,omitempty"`
	Category        string     `gorm:"size:100" json:"category,omitempty"`
	Description     string     `gorm:"type:text" json:"description,omitempty"`
	CoverImage      string     `gorm:"size:2048" json:"coverImage,omitempty"`

	TotalCopies     int `gorm:"not null;default:1" json:"totalCopies"`
	AvailableCopies int `gorm:"not null;default:1" json:"availableCopies"`

	SearchCount int64 `gorm:"not null;default:0" json:"searchCount"`
	BorrowCount int64 `gorm:"not null;default:0" json:"borrowCount"`

	Rating  float64  `json:"rating"`
	Reviews []Review `gorm:"foreignKey:BookID" json:"reviews,omitempty"`

	Borrowers    []Loan        `gorm:"foreignKey:BookID" json:"borrowers,omitempty"`
	Reservations []Reservation `gorm:"foreignKey:BookID" json:"reservations,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// IsAvailable reports whether at least one copy can be borrowed.
func (b *Book) IsAvailable() bool {
	return b.AvailableCopies > 0
}

type Review struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	BookID     uint      `gorm:"index" json:"bookId"`
	UserID     uint      `gorm:"index" json:"userId"`
	ReviewText string    `gorm:"type:text" json:"reviewText"`
	Rating     float64   `json:"rating"`
	CreatedAt  time.Time `json:"date"`
}

// Reservation mirrors the same record on the user and book sides.
type Reservation struct {
	ID           uint              `gorm:"primaryKey" json:"id"`
	UserID       uint              `gorm:"index" json:"userId"`
	BookID       uint              `gorm:"index" json:"bookId"`
	ReservedDate time.Time         `json:"reservedDate"`
	Status       ReservationStatus `gorm:"size:20;default:'Pending'" json:"status"`
	CreatedAt    time.Time         `json:"-"`
	UpdatedAt    time.Time         `json:"-"`
}

func (Book) TableName() string {
	return "books"
}

func (Review) TableName() string {
	return "reviews"
}

func (Reservation) TableName() string {
	return "reservations"
}
