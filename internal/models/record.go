// Package models contains data structures for the forum's domain models.
package models

import "time"

// Record holds the columns shared by every forum entity. DeletedAt is a plain
// nullable timestamp rather than gorm.DeletedAt so soft-deleted rows stay
// visible to every query.
type Record struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time  `gorm:"not null" json:"created_at"`
	EditedAt  *time.Time `json:"edited_at"`
	DeletedAt *time.Time `gorm:"index" json:"deleted_at"`
}

// IsDeleted reports whether the record has been soft-deleted.
func (r Record) IsDeleted() bool {
	return r.DeletedAt != nil
}
