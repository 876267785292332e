package models

// User is a forum account. Password always holds a bcrypt hash.
type User struct {
	Record
	Username string  `gorm:"uniqueIndex;not null" json:"username"`
	Email    string  `gorm:"uniqueIndex;not null" json:"email"`
	Password string  `gorm:"not null" json:"-"`
	Avatar   *string `json:"avatar"`
}
