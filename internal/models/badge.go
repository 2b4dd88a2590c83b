package models

// BadgeRequirementKind says which stat a badge requirement is checked against.
type BadgeRequirementKind string

const (
	RequirementPoints BadgeRequirementKind = "points"
	RequirementLevel  BadgeRequirementKind = "level"
	RequirementAction BadgeRequirementKind = "action" // count of a single action type
)

// BadgeRequirement is the threshold a stat must cross to earn the badge.
type BadgeRequirement struct {
	Kind   BadgeRequirementKind `json:"kind"`
	Action ActionType           `json:"action,omitempty"` // set when Kind is RequirementAction
	Count  int                  `json:"count"`
}

// BadgeDefinition is one entry of the static badge catalog. Badges are
// permanent: once earned they are never re-evaluated or revoked.
type BadgeDefinition struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Icon        string           `json:"icon"`
	Requirement BadgeRequirement `json:"requirement"`
}
