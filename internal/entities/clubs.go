package entities

import (
	"time"
)

type ClubRole string

const (
	ClubRoleAdmin     ClubRole = "admin"
	ClubRoleModerator ClubRole = "moderator"
	ClubRoleMember    ClubRole = "member"
)

type BookClub struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"size:256;not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	Genre       string `gorm:"size:100" json:"genre,omitempty"`
	IsPublic    bool   `gorm:"not null;default:true" json:"isPublic"`
	MaxMembers  int    `gorm:"not null;default:50" json:"maxMembers"`
	CreatedByID uint   `gorm:"index" json:"createdBy"`

	CurrentBookID *uint        `json:"currentBookId,omitempty"`
	CurrentBook   *Book        `gorm:"foreignKey:CurrentBookID" json:"currentBook,omitempty"`
	Members       []ClubMember `gorm:"foreignKey:ClubID" json:"members,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type ClubMember struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	ClubID   uint      `gorm:"index" json:"clubId"`
	UserID   uint      `gorm:"index" json:"userId"`
	Role     ClubRole  `gorm:"size:20;default:'member'" json:"role"`
	JoinedAt time.Time `json:"joinedAt"`

	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

type ClubDiscussion struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ClubID    uint      `gorm:"index" json:"clubId"`
	UserID    uint      `gorm:"index" json:"userId"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	CreatedAt time.Time `json:"createdAt"`

	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (BookClub) TableName() string {
	return "book_clubs"
}

func (ClubMember) TableName() string {
	return "club_members"
}

func (ClubDiscussion) TableName() string {
	return "club_discussions"
}
