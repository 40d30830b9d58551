package models

import "time"

// Complaint is an append-only complaint submission. Latitude and longitude
// are kept as decimal strings exactly as submitted.
type Complaint struct {
	ID            uint              `gorm:"primaryKey" json:"id"`
	UserID        uint              `gorm:"index;not null" json:"user_id"`
	User          User              `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	DestinationID uint              `gorm:"index;not null" json:"destination_id"`
	Destination   Destination       `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	CategoryID    uint              `gorm:"index;not null" json:"category_id"`
	Category      ComplaintCategory `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE" json:"-"`
	TypeID        *uint             `gorm:"index" json:"type_id"`
	Type          *ComplaintType    `gorm:"foreignKey:TypeID;constraint:OnDelete:SET NULL" json:"-"`
	Title         string            `gorm:"size:255;not null" json:"title"`
	Text          string            `gorm:"type:text;not null" json:"text"`
	LocationText  string            `gorm:"size:500" json:"location_text"`
	LocationLat   string            `gorm:"size:32" json:"location_lat"`
	LocationLng   string            `gorm:"size:32" json:"location_lng"`
	Attachments   []Attachment      `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}
