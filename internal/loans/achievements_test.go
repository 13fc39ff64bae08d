package loans

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/akumar/librarium/internal/entities"
)

func TestApplyAchievements(t *testing.T) {
	t.Run("first book earns First Book", func(t *testing.T) {
		user := &entities.User{TotalBooksRead: 1}
		earned := applyAchievements(user)

		assert.Equal(t, []string{"First Book"}, earned)
		assert.True(t, user.Badges.Contains("First Book"))
		assert.Empty(t, user.Milestones)
	})

	t.Run("tenth book earns badge and milestone", func(t *testing.T) {
		user := &entities.User{
			TotalBooksRead: 10,
			Badges:         entities.StringList{"First Book"},
		}
		earned := applyAchievements(user)

		assert.Equal(t, []string{"Bookworm"}, earned)
		assert.True(t, user.Badges.Contains("Bookworm"))
		assert.True(t, user.Milestones.Contains("10 Books Read"))
	})

	t.Run("no award between thresholds", func(t *testing.T) {
		user := &entities.User{TotalBooksRead: 7}
		assert.Empty(t, applyAchievements(user))
	})

	t.Run("existing badge is not duplicated", func(t *testing.T) {
		user := &entities.User{
			TotalBooksRead: 25,
			Badges:         entities.StringList{"Avid Reader"},
			Milestones:     entities.StringList{"25 Books Read"},
		}
		earned := applyAchievements(user)

		assert.Empty(t, earned)
		assert.Len(t, user.Badges, 1)
		assert.Len(t, user.Milestones, 1)
	})
}
