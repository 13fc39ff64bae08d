package entities

import (
	"time"
)

type LoanStatus string

const (
	LoanStatusBorrowed LoanStatus = "borrowed"
	LoanStatusReturned LoanStatus = "returned"
)

// MaxRenewals is the per-loan renewal cap. Beyond it the reader has to
// visit the library desk (or an admin resets the counter).
const MaxRenewals = 3

// Loan is one borrow event. A single row serves both the user's
// borrowedBooks view and the book's borrowers view, so the two sides can
// never disagree. Rows are never deleted; Status flips to returned once.
type Loan struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	UserID         uint            `gorm:"index" json:"userId"`
	BookID         uint            `gorm:"index" json:"bookId"`
	BorrowedDate   time.Time       `json:"borrowedDate"`
	DueDate        time.Time       `json:"dueDate"`
	ReturnDate     *time.Time      `json:"returnDate"`
	Status         LoanStatus      `gorm:"size:20;index;default:'borrowed'" json:"status"`
	Renewals       int             `gorm:"not null;default:0" json:"renewals"`
	Fine           float64         `gorm:"not null;default:0" json:"fine"`
	LoanPeriodDays int             `json:"loanPeriodDays"`
	RenewalHistory []RenewalRecord `gorm:"foreignKey:LoanID" json:"renewalHistory"`

	Book Book `gorm:"foreignKey:BookID" json:"-"`
	User User `gorm:"foreignKey:UserID" json:"-"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// IsReturned mirrors the book-side isReturned flag of the wire format.
func (l *Loan) IsReturned() bool {
	return l.Status == LoanStatusReturned
}

type RenewalRecord struct {
	ID          uint      `gorm:"primaryKey" json:"-"`
	LoanID      uint      `gorm:"index" json:"-"`
	RenewedDate time.Time `json:"renewedDate"`
	NewDueDate  time.Time `json:"newDueDate"`
}

func (Loan) TableName() string {
	return "loans"
}

func (RenewalRecord) TableName() string {
	return "renewal_records"
}
