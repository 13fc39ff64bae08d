// Package clubs provides database operations for book clubs.
package clubs

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/akumar/librarium/internal/entities"
)

var (
	ErrClubNotFound  = errors.New("book club not found")
	ErrAlreadyMember = errors.New("already a member of this club")
	ErrClubFull      = errors.New("book club is full")
)

// Repository handles all book club database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new clubs repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListPublic returns all public clubs with their members.
func (r *Repository) ListPublic() ([]entities.BookClub, error) {
	var clubs []entities.BookClub
	err := r.db.Preload("Members").Preload("Members.User").Preload("CurrentBook").
		Where("is_public = ?", true).
		Find(&clubs).Error
	return clubs, err
}

// Create stores a new club; the creator joins as club admin.
func (r *Repository) Create(club *entities.BookClub) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(club).Error; err != nil {
			return err
		}
		return tx.Create(&entities.ClubMember{
			ClubID:   club.ID,
			UserID:   club.CreatedByID,
			Role:     entities.ClubRoleAdmin,
			JoinedAt: time.Now(),
		}).Error
	})
}

// GetByID returns one club with members and discussions preloaded.
func (r *Repository) GetByID(id uint) (*entities.BookClub, error) {
	var club entities.BookClub
	err := r.db.Preload("Members").Preload("Members.User").Preload("CurrentBook").
		First(&club, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClubNotFound
		}
		return nil, err
	}
	return &club, nil
}

// Join adds a user to a club, enforcing the member cap and rejecting
// duplicate membership.
func (r *Repository) Join(clubID, userID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var club entities.BookClub
		if err := tx.First(&club, clubID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrClubNotFound
			}
			return err
		}

		var existing entities.ClubMember
		err := tx.Where("club_id = ? AND user_id = ?", clubID, userID).
			First(&existing).Error
		if err == nil {
			return ErrAlreadyMember
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		var count int64
		if err := tx.Model(&entities.ClubMember{}).
			Where("club_id = ?", clubID).Count(&count).Error; err != nil {
			return err
		}
		if club.MaxMembers > 0 && count >= int64(club.MaxMembers) {
			return ErrClubFull
		}

		return tx.Create(&entities.ClubMember{
			ClubID:   clubID,
			UserID:   userID,
			Role:     entities.ClubRoleMember,
			JoinedAt: time.Now(),
		}).Error
	})
}

// AddDiscussion posts a message to a club's discussion board.
func (r *Repository) AddDiscussion(post *entities.ClubDiscussion) error {
	var club entities.BookClub
	if err := r.db.First(&club, post.ClubID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrClubNotFound
		}
		return err
	}
	return r.db.Create(post).Error
}

// ListDiscussions returns a club's discussion posts, newest first.
func (r *Repository) ListDiscussions(clubID uint) ([]entities.ClubDiscussion, error) {
	var posts []entities.ClubDiscussion
	err := r.db.Preload("User").
		Where("club_id = ?", clubID).
		Order("created_at DESC").
		Find(&posts).Error
	return posts, err
}
