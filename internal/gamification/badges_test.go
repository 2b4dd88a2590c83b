package gamification

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwellhq/engagement/internal/models"
)

func badgeIDs(badges []models.BadgeDefinition) []string {
	var ids []string
	for _, b := range badges {
		ids = append(ids, b.ID)
	}
	return ids
}

func TestEvaluateBadges_FirstPost(t *testing.T) {
	rec := models.NewEngagementRecord("alice")
	rec.ActionCounts[string(models.ActionPost)] = 1

	earned, err := EvaluateBadges(rec)
	require.NoError(t, err)
	assert.Equal(t, []string{"first-post"}, badgeIDs(earned))
}

func TestEvaluateBadges_SkipsAlreadyEarned(t *testing.T) {
	rec := models.NewEngagementRecord("alice")
	rec.ActionCounts[string(models.ActionPost)] = 3
	rec.Badges = []string{"first-post"}

	earned, err := EvaluateBadges(rec)
	require.NoError(t, err)
	assert.Empty(t, earned)
}

func TestEvaluateBadges_PointThreshold(t *testing.T) {
	rec := models.NewEngagementRecord("alice")
	rec.Points = 4999

	earned, err := EvaluateBadges(rec)
	require.NoError(t, err)
	assert.Empty(t, earned)

	rec.Points = 5000
	earned, err = EvaluateBadges(rec)
	require.NoError(t, err)
	assert.Equal(t, []string{"point-master"}, badgeIDs(earned))
}

func TestEvaluateBadges_MultipleAtOnce(t *testing.T) {
	rec := models.NewEngagementRecord("alice")
	rec.ActionCounts[string(models.ActionPost)] = 1
	rec.ActionCounts[string(models.ActionComment)] = 50
	rec.ActionCounts[string(models.ActionShare)] = 20

	earned, err := EvaluateBadges(rec)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"first-post", "active-commenter", "social-butterfly"}, badgeIDs(earned))
}

func TestEvaluateBadges_RewardOnlyNeverAutoEarned(t *testing.T) {
	// prolific-writer is granted by challenge completion; stats alone must
	// never award it.
	rec := models.NewEngagementRecord("alice")
	rec.Points = 100000
	rec.Level = 10
	rec.ActionCounts[string(models.ActionPost)] = 5000

	earned, err := EvaluateBadges(rec)
	require.NoError(t, err)
	assert.NotContains(t, badgeIDs(earned), "prolific-writer")
}

func TestMeetsRequirement_UnknownKind(t *testing.T) {
	rec := models.NewEngagementRecord("alice")
	_, err := meetsRequirement(rec, models.BadgeRequirement{Kind: "streak", Count: 7})
	assert.ErrorIs(t, err, models.ErrInvalidState)
}

func TestBadgeByID(t *testing.T) {
	badge, ok := BadgeByID("point-master")
	require.True(t, ok)
	assert.Equal(t, "Point Master", badge.Name)

	_, ok = BadgeByID("no-such-badge")
	assert.False(t, ok)
}

func TestBadgeCatalog_ReturnsCopy(t *testing.T) {
	cat := BadgeCatalog()
	require.NotEmpty(t, cat)
	cat[0].Name = "mutated"
	assert.NotEqual(t, "mutated", badgeCatalog[0].Name)
}
