package models

import (
	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"
)

// User is the local projection of the auth collaborator's account: just
// enough profile to attribute actions and render notification messages.
type User struct {
	gorm.Model  `json:"-"`
	ID          uint   `json:"id" gorm:"primaryKey"`
	AccountID   string `json:"account_id" gorm:"size:128;uniqueIndex"` // stable engagement account id (Firebase UID)
	DisplayName string `json:"display_name"`
	Email       string `json:"email" gorm:"uniqueIndex"`
	PhotoURL    string `json:"photo_url,omitempty"`
}

// UserCompact is the trimmed actor shape embedded in enriched notifications.
type UserCompact struct {
	AccountID   string `json:"account_id"`
	DisplayName string `json:"display_name"`
	PhotoURL    string `json:"photo_url,omitempty"`
}

// ToCompact projects the user to its notification-actor shape.
func (u *User) ToCompact() UserCompact {
	return UserCompact{
		AccountID:   u.AccountID,
		DisplayName: u.DisplayName,
		PhotoURL:    u.PhotoURL,
	}
}

type RegisterUserRequest struct {
	AccountID   string `json:"account_id" validate:"required"`
	DisplayName string `json:"display_name" validate:"required,min=2,max=50"`
	Email       string `json:"email" validate:"required,email"`
	PhotoURL    string `json:"photo_url,omitempty" validate:"omitempty,url"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims.
// Used by the local-development JWT fallback only.
type JwtCustomClaims struct {
	AccountID string `json:"account_id"`
	Email     string `json:"email"`
	jwt.RegisteredClaims
}
