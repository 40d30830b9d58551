package models

// ComplaintCategory is the competent authority a complaint is filed under.
type ComplaintCategory struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:255;not null" json:"name"`
}

// ComplaintType classifies a complaint.
type ComplaintType struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:255;not null" json:"name"`
}

// Destination is the department a complaint is addressed to.
type Destination struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:255;not null" json:"name"`
}

// ReferenceItem is the {id, name} projection served to client forms.
type ReferenceItem struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}
