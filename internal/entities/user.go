package entities

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

type UserRole string

const (
	UserRoleStudent UserRole = "student"
	UserRoleFaculty UserRole = "faculty"
	UserRoleAdmin   UserRole = "admin"
)

// StringList stores an append-only list of strings as a JSON text column.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return "[]", nil
	}
	data, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func (l *StringList) Scan(value any) error {
	if value == nil {
		*l = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("unsupported type %T for StringList", value)
	}
}

// Contains reports set membership; badges and milestones are granted at
// most once.
func (l StringList) Contains(s string) bool {
	for _, item := range l {
		if item == s {
			return true
		}
	}
	return false
}

type User struct {
	ID           uint     `gorm:"primaryKey" json:"id"`
	Name         string   `gorm:"size:256;not null" json:"name"`
	Email        string   `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PasswordHash string   `gorm:"size:128" json:"-"`
	Role         UserRole `gorm:"size:20;default:'student'" json:"role"`

	// Sparse unique ids: pointers so that absent values stay NULL and
	// don't collide on the unique index.
	StudentID  *string `gorm:"uniqueIndex;size:50" json:"studentId,omitempty"`
	FacultyID  *string `gorm:"uniqueIndex;size:50" json:"facultyId,omitempty"`
	Department string  `gorm:"size:100" json:"department,omitempty"`
	Phone      string  `gorm:"size:30" json:"phone,omitempty"`

	PenaltyAmount float64 `gorm:"not null;default:0" json:"penaltyAmount"`
	IsBlacklisted bool    `gorm:"not null;default:false" json:"isBlacklisted"`

	TotalBooksRead int        `gorm:"not null;default:0" json:"totalBooksRead"`
	Badges         StringList `gorm:"type:text" json:"badges"`
	Milestones     StringList `gorm:"type:text" json:"milestones"`

	BorrowedBooks []Loan        `gorm:"foreignKey:UserID" json:"borrowedBooks,omitempty"`
	Reservations  []Reservation `gorm:"foreignKey:UserID" json:"reservations,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (u *User) IsAdmin() bool {
	return u.Role == UserRoleAdmin
}

type NotificationType string

const (
	NotificationBorrow   NotificationType = "borrow"
	NotificationReturn   NotificationType = "return"
	NotificationRenew    NotificationType = "renew"
	NotificationReserve  NotificationType = "reserve"
	NotificationBadge    NotificationType = "badge"
	NotificationReminder NotificationType = "reminder"
	NotificationArrival  NotificationType = "arrival"
)

// Notification is a user-facing message written as a best-effort side
// effect of a lifecycle operation.
type Notification struct {
	ID        uint             `gorm:"primaryKey" json:"id"`
	UserID    uint             `gorm:"index" json:"userId"`
	Message   string           `gorm:"type:text" json:"message"`
	Type      NotificationType `gorm:"size:20;index" json:"type"`
	Read      bool             `gorm:"not null;default:false" json:"read"`
	CreatedAt time.Time        `json:"createdAt"`
}

func (User) TableName() string {
	return "users"
}

func (Notification) TableName() string {
	return "notifications"
}
