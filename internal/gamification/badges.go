package gamification

import (
	"fmt"

	"github.com/inkwellhq/engagement/internal/models"
)

// badgeCatalog is the static badge catalog.
var badgeCatalog = []models.BadgeDefinition{
	{
		ID:          "first-post",
		Name:        "First Post",
		Description: "Published your first blog post",
		Icon:        "📝",
		Requirement: models.BadgeRequirement{Kind: models.RequirementAction, Action: models.ActionPost, Count: 1},
	},
	{
		ID:          "popular-writer",
		Name:        "Popular Writer",
		Description: "Reacted to 1000 posts",
		Icon:        "⭐",
		Requirement: models.BadgeRequirement{Kind: models.RequirementAction, Action: models.ActionLike, Count: 1000},
	},
	{
		ID:          "active-commenter",
		Name:        "Active Commenter",
		Description: "Posted 50 comments",
		Icon:        "💭",
		Requirement: models.BadgeRequirement{Kind: models.RequirementAction, Action: models.ActionComment, Count: 50},
	},
	{
		ID:          "social-butterfly",
		Name:        "Social Butterfly",
		Description: "Shared 20 posts",
		Icon:        "🦋",
		Requirement: models.BadgeRequirement{Kind: models.RequirementAction, Action: models.ActionShare, Count: 20},
	},
	{
		ID:          "point-master",
		Name:        "Point Master",
		Description: "Earned 5000 points",
		Icon:        "🏆",
		Requirement: models.BadgeRequirement{Kind: models.RequirementPoints, Count: 5000},
	},
	{
		ID:          "prolific-writer",
		Name:        "Prolific Writer",
		Description: "Completed the Weekly Writer challenge",
		Icon:        "✍️",
		// Granted by challenge completion, never by stat evaluation.
		Requirement: models.BadgeRequirement{Kind: models.RequirementLevel, Count: 0},
	},
}

// BadgeCatalog returns the static badge catalog.
func BadgeCatalog() []models.BadgeDefinition {
	out := make([]models.BadgeDefinition, len(badgeCatalog))
	copy(out, badgeCatalog)
	return out
}

// BadgeByID looks up a catalog entry.
func BadgeByID(id string) (models.BadgeDefinition, bool) {
	for _, b := range badgeCatalog {
		if b.ID == id {
			return b, true
		}
	}
	return models.BadgeDefinition{}, false
}

// EvaluateBadges checks the record's stats against the catalog and returns
// the badges newly crossing their threshold. Already-earned badges are never
// re-evaluated, so re-running with unchanged stats yields an empty result.
// The caller persists the updated earned set.
func EvaluateBadges(rec *models.EngagementRecord) ([]models.BadgeDefinition, error) {
	var earned []models.BadgeDefinition
	for _, badge := range badgeCatalog {
		if rec.HasBadge(badge.ID) {
			continue
		}
		met, err := meetsRequirement(rec, badge.Requirement)
		if err != nil {
			return nil, err
		}
		if met {
			earned = append(earned, badge)
		}
	}
	return earned, nil
}

func meetsRequirement(rec *models.EngagementRecord, req models.BadgeRequirement) (bool, error) {
	if req.Count <= 0 {
		// Zero-threshold entries are reward-only badges (challenge grants).
		return false, nil
	}
	switch req.Kind {
	case models.RequirementPoints:
		return rec.Points >= req.Count, nil
	case models.RequirementLevel:
		return rec.Level >= req.Count, nil
	case models.RequirementAction:
		if _, err := models.ParseActionType(string(req.Action)); err != nil {
			return false, err
		}
		return rec.ActionCount(req.Action) >= req.Count, nil
	}
	return false, fmt.Errorf("%w: unknown badge requirement kind %q", models.ErrInvalidState, req.Kind)
}
