package models

import "time"

// AccessToken records an issued bearer token. A token is only honoured while
// its row exists, so deleting the row revokes the token.
type AccessToken struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	UserID     uint       `gorm:"index;not null" json:"user_id"`
	User       User       `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	TokenID    string     `gorm:"size:36;uniqueIndex;not null" json:"-"`
	Name       string     `gorm:"size:100;not null" json:"name"`
	ExpiresAt  time.Time  `gorm:"index;not null" json:"expires_at"`
	LastUsedAt *time.Time `json:"last_used_at"`
	CreatedAt  time.Time  `json:"created_at"`
}
