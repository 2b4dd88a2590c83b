package models

// ChallengeDefinition is one entry of the static challenge catalog.
// DurationDays is informational; active challenges are not expired
// automatically.
type ChallengeDefinition struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Action       ActionType `json:"action"` // qualifying action type
	Target       int        `json:"target"`
	DurationDays int        `json:"duration_days"`
	RewardPoints int        `json:"reward_points"`
	BadgeID      string     `json:"badge_id,omitempty"` // optional badge granted on completion
}
