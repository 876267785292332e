package models

// Category groups posts. Only the owning user may change it.
type Category struct {
	Record
	Title       string `gorm:"uniqueIndex;not null" json:"title"`
	Description string `gorm:"type:text;not null" json:"description"`
	UserID      uint   `gorm:"not null;index" json:"user_id"`
}
