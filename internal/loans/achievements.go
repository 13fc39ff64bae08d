package loans

import (
	"github.com/akumar/librarium/internal/entities"
)

// AchievementRule grants a badge (and optionally a milestone) when a
// reader's totalBooksRead reaches the threshold.
type AchievementRule struct {
	Threshold int
	Badge     string
	Milestone string
}

// achievementRules is evaluated on every return. Thresholds are checked
// with equality, so a rule fires exactly when the counter crosses it.
var achievementRules = []AchievementRule{
	{Threshold: 1, Badge: "First Book"},
	{Threshold: 10, Badge: "Bookworm", Milestone: "10 Books Read"},
	{Threshold: 25, Badge: "Avid Reader", Milestone: "25 Books Read"},
}

// applyAchievements appends any badges and milestones the user's
// totalBooksRead has just reached and returns the badges granted by
// this call. Set-membership checks make repeated evaluation a no-op.
func applyAchievements(user *entities.User) []string {
	var earned []string
	for _, rule := range achievementRules {
		if user.TotalBooksRead != rule.Threshold {
			continue
		}
		if user.Badges.Contains(rule.Badge) {
			continue
		}
		user.Badges = append(user.Badges, rule.Badge)
		earned = append(earned, rule.Badge)
		if rule.Milestone != "" && !user.Milestones.Contains(rule.Milestone) {
			user.Milestones = append(user.Milestones, rule.Milestone)
		}
	}
	return earned
}
