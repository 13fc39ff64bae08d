package entities

import (
	"time"
)

type ChallengeType string

const (
	ChallengeBooksCount ChallengeType = "books_count"
	ChallengePagesCount ChallengeType = "pages_count"
	ChallengeGenreBased ChallengeType = "genre_based"
	ChallengeTimeBound  ChallengeType = "time_bound"
)

type ReadingChallenge struct {
	ID           uint          `gorm:"primaryKey" json:"id"`
	Title        string        `gorm:"size:256;not null" json:"title"`
	Description  string        `gorm:"type:text" json:"description"`
	Type         ChallengeType `gorm:"size:20;not null" json:"type"`
	Goal         int           `gorm:"not null" json:"goal"`
	StartDate    time.Time     `json:"startDate"`
	EndDate      time.Time     `json:"endDate"`
	Genre        string        `gorm:"size:100" json:"genre,omitempty"`
	BadgeReward  string        `gorm:"size:100" json:"badgeReward,omitempty"`
	PointsReward int           `gorm:"not null;default:0" json:"pointsReward"`
	IsActive     bool          `gorm:"not null;default:true" json:"isActive"`
	CreatedByID  uint          `gorm:"index" json:"createdBy"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type UserChallenge struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	UserID      uint       `gorm:"index" json:"userId"`
	ChallengeID uint       `gorm:"index" json:"challengeId"`
	Progress    int        `gorm:"not null;default:0" json:"progress"`
	Completed   bool       `gorm:"not null;default:false" json:"completed"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	JoinedAt    time.Time  `json:"joinedAt"`

	Challenge ReadingChallenge `gorm:"foreignKey:ChallengeID" json:"challenge,omitempty"`
}

func (ReadingChallenge) TableName() string {
	return "reading_challenges"
}

func (UserChallenge) TableName() string {
	return "user_challenges"
}
