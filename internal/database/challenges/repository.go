// Package challenges provides database operations for reading
// challenges and per-user progress.
package challenges

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/akumar/librarium/internal/entities"
)

var (
	ErrChallengeNotFound = errors.New("challenge not found")
	ErrAlreadyJoined     = errors.New("already joined this challenge")
	ErrNotJoined         = errors.New("not joined this challenge")
)

// Repository handles all reading challenge database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new challenges repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListActive returns all currently active challenges.
func (r *Repository) ListActive() ([]entities.ReadingChallenge, error) {
	var challenges []entities.ReadingChallenge
	err := r.db.Where("is_active = ?", true).Find(&challenges).Error
	return challenges, err
}

// GetByID retrieves a single challenge definition.
func (r *Repository) GetByID(id uint) (*entities.ReadingChallenge, error) {
	var challenge entities.ReadingChallenge
	if err := r.db.First(&challenge, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChallengeNotFound
		}
		return nil, err
	}
	return &challenge, nil
}

// Create stores a new challenge definition.
func (r *Repository) Create(challenge *entities.ReadingChallenge) error {
	return r.db.Create(challenge).Error
}

// Join enrolls a user into a challenge; joining twice is rejected.
func (r *Repository) Join(challengeID, userID uint) (*entities.UserChallenge, error) {
	var challenge entities.ReadingChallenge
	if err := r.db.First(&challenge, challengeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChallengeNotFound
		}
		return nil, err
	}

	var existing entities.UserChallenge
	err := r.db.Where("user_id = ? AND challenge_id = ?", userID, challengeID).
		First(&existing).Error
	if err == nil {
		return nil, ErrAlreadyJoined
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	uc := &entities.UserChallenge{
		UserID:      userID,
		ChallengeID: challengeID,
		JoinedAt:    time.Now(),
	}
	if err := r.db.Create(uc).Error; err != nil {
		return nil, err
	}
	uc.Challenge = challenge
	return uc, nil
}

// ListForUser returns the challenges a user has joined, with the
// challenge definitions attached.
func (r *Repository) ListForUser(userID uint) ([]entities.UserChallenge, error) {
	var list []entities.UserChallenge
	err := r.db.Preload("Challenge").
		Where("user_id = ?", userID).
		Find(&list).Error
	return list, err
}

// UpdateProgress records progress toward a joined challenge and flips
// the completed flag once the goal is reached. Completion is sticky.
func (r *Repository) UpdateProgress(challengeID, userID uint, progress int) (*entities.UserChallenge, error) {
	var uc entities.UserChallenge
	err := r.db.Preload("Challenge").
		Where("user_id = ? AND challenge_id = ?", userID, challengeID).
		First(&uc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotJoined
		}
		return nil, err
	}

	uc.Progress = progress
	if !uc.Completed && progress >= uc.Challenge.Goal {
		uc.Completed = true
		now := time.Now()
		uc.CompletedAt = &now
	}

	if err := r.db.Save(&uc).Error; err != nil {
		return nil, err
	}
	return &uc, nil
}
