package gamification

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwellhq/engagement/internal/models"
)

func TestLedger_AwardFixedValues(t *testing.T) {
	ctx := context.Background()
	repo := newMemEngagementRepo()
	ledger := NewPointsLedger(repo)

	cases := []struct {
		action models.ActionType
		want   int
	}{
		{models.ActionPost, 50},
		{models.ActionComment, 10},
		{models.ActionLike, 5},
		{models.ActionShare, 15},
	}
	for _, tc := range cases {
		res, err := ledger.Award(ctx, "acct-"+string(tc.action), tc.action)
		require.NoError(t, err)
		assert.Equal(t, tc.want, res.Total, "delta for %s", tc.action)
		assert.Equal(t, 1, res.Record.ActionCount(tc.action))
	}
}

func TestLedger_AwardAccumulatesAndLevels(t *testing.T) {
	ctx := context.Background()
	repo := newMemEngagementRepo()
	ledger := NewPointsLedger(repo)

	// Two posts: 100 points, exactly the level-2 threshold.
	res, err := ledger.Award(ctx, "alice", models.ActionPost)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Level)
	assert.False(t, res.LeveledUp)

	res, err = ledger.Award(ctx, "alice", models.ActionPost)
	require.NoError(t, err)
	assert.Equal(t, 100, res.Total)
	assert.Equal(t, 1, res.PrevLevel)
	assert.Equal(t, 2, res.Level)
	assert.True(t, res.LeveledUp)
	assert.Equal(t, 2, res.Record.ActionCount(models.ActionPost))
}

func TestLedger_AwardUnrewardedAction(t *testing.T) {
	ledger := NewPointsLedger(newMemEngagementRepo())

	_, err := ledger.Award(context.Background(), "alice", models.ActionFollow)
	assert.ErrorIs(t, err, models.ErrInvalidState)
}

func TestLedger_RevokeClampsAtZero(t *testing.T) {
	ctx := context.Background()
	repo := newMemEngagementRepo()
	ledger := NewPointsLedger(repo)

	_, err := ledger.Award(ctx, "alice", models.ActionLike)
	require.NoError(t, err)

	// Revoking a post (50) from a 5-point total clamps to zero rather than
	// going negative.
	res, err := ledger.Revoke(ctx, "alice", models.ActionPost)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Total)
	assert.Equal(t, 1, res.Record.ActionCount(models.ActionLike))
	assert.Equal(t, 0, res.Record.ActionCount(models.ActionPost))
}

func TestLedger_RevokeKeepsLevel(t *testing.T) {
	ctx := context.Background()
	repo := newMemEngagementRepo()
	ledger := NewPointsLedger(repo)

	for i := 0; i < 2; i++ {
		_, err := ledger.Award(ctx, "alice", models.ActionPost)
		require.NoError(t, err)
	}

	res, err := ledger.Revoke(ctx, "alice", models.ActionPost)
	require.NoError(t, err)
	assert.Equal(t, 50, res.Total)
	// Below the level-2 threshold now, but the level does not go back down.
	assert.Equal(t, 2, res.Level)
	assert.Equal(t, 2, res.Record.Level)
	assert.Equal(t, 1, res.Record.ActionCount(models.ActionPost))
}

func TestLedger_AwardBonus(t *testing.T) {
	ctx := context.Background()
	repo := newMemEngagementRepo()
	ledger := NewPointsLedger(repo)

	res, err := ledger.AwardBonus(ctx, "alice", 500)
	require.NoError(t, err)
	assert.Equal(t, 500, res.Total)
	assert.Equal(t, 4, res.Level)
	assert.True(t, res.LeveledUp)
	assert.Empty(t, res.Record.ActionCounts)

	_, err = ledger.AwardBonus(ctx, "alice", 0)
	assert.ErrorIs(t, err, models.ErrInvalidState)
	_, err = ledger.AwardBonus(ctx, "alice", -10)
	assert.ErrorIs(t, err, models.ErrInvalidState)
}

func TestLedger_StoreFailurePropagates(t *testing.T) {
	repo := newMemEngagementRepo()
	repo.failErr = models.ErrStoreUnavailable
	ledger := NewPointsLedger(repo)

	_, err := ledger.Award(context.Background(), "alice", models.ActionPost)
	assert.True(t, errors.Is(err, models.ErrStoreUnavailable))
}
