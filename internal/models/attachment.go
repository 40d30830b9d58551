package models

import "time"

// Attachment binds one stored file to a complaint and the user who uploaded
// it. Rows go away with their complaint.
type Attachment struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	ComplaintID  uint      `gorm:"index;not null" json:"complaint_id"`
	UserID       uint      `gorm:"index;not null" json:"user_id"`
	User         User      `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Disk         string    `gorm:"size:32;not null" json:"disk"`
	Path         string    `gorm:"size:512;not null" json:"path"`
	OriginalName string    `gorm:"size:255" json:"original_name"`
	MimeType     string    `gorm:"size:128" json:"mime_type"`
	Size         int64     `json:"size"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
