package models

import "time"

// ActiveChallenge is one in-progress challenge run on an engagement record.
type ActiveChallenge struct {
	ChallengeID string    `bson:"challenge_id" json:"challenge_id"`
	Progress    int       `bson:"progress" json:"progress"`
	StartedAt   time.Time `bson:"started_at" json:"started_at"`
}

// EngagementRecord is the per-account gamification aggregate (MongoDB,
// "gamification" collection, _id = account id). Points and level are always
// written together; badges and completed challenges only ever grow.
type EngagementRecord struct {
	AccountID           string            `bson:"_id" json:"account_id"`
	Points              int               `bson:"points" json:"points"`
	Level               int               `bson:"level" json:"level"`
	Badges              []string          `bson:"badges" json:"badges"`
	ActionCounts        map[string]int    `bson:"action_counts" json:"action_counts"`
	ActiveChallenges    []ActiveChallenge `bson:"active_challenges" json:"active_challenges"`
	CompletedChallenges []string          `bson:"completed_challenges" json:"completed_challenges"`
	CreatedAt           time.Time         `bson:"created_at" json:"created_at"`
	UpdatedAt           time.Time         `bson:"updated_at" json:"updated_at"`
}

// NewEngagementRecord returns the zero-state record created on first read.
func NewEngagementRecord(accountID string) *EngagementRecord {
	now := time.Now()
	return &EngagementRecord{
		AccountID:           accountID,
		Points:              0,
		Level:               1,
		Badges:              []string{},
		ActionCounts:        map[string]int{},
		ActiveChallenges:    []ActiveChallenge{},
		CompletedChallenges: []string{},
		CreatedAt:           now,
		UpdatedAt:           now,
	}
}

// HasBadge reports whether the badge is already in the earned set.
func (r *EngagementRecord) HasBadge(badgeID string) bool {
	for _, id := range r.Badges {
		if id == badgeID {
			return true
		}
	}
	return false
}

// HasCompletedChallenge reports whether the challenge was already finished.
func (r *EngagementRecord) HasCompletedChallenge(challengeID string) bool {
	for _, id := range r.CompletedChallenges {
		if id == challengeID {
			return true
		}
	}
	return false
}

// ActiveChallenge returns the active run for the given challenge id, if any.
func (r *EngagementRecord) ActiveChallengeByID(challengeID string) *ActiveChallenge {
	for i := range r.ActiveChallenges {
		if r.ActiveChallenges[i].ChallengeID == challengeID {
			return &r.ActiveChallenges[i]
		}
	}
	return nil
}

// ActionCount returns how many times the account performed the action.
func (r *EngagementRecord) ActionCount(action ActionType) int {
	if r.ActionCounts == nil {
		return 0
	}
	return r.ActionCounts[string(action)]
}

// LeaderboardEntry is one row of the points leaderboard.
type LeaderboardEntry struct {
	Rank        int    `json:"rank"`
	AccountID   string `json:"account_id"`
	DisplayName string `json:"display_name"`
	Points      int    `json:"points"`
	Level       int    `json:"level"`
}
