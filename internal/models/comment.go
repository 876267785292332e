package models

// Comment is attached to a post. ReplyID points at the parent comment of a
// threaded reply.
type Comment struct {
	Record
	Content string `gorm:"type:text;not null" json:"content"`
	UserID  uint   `gorm:"not null;index" json:"user_id"`
	PostID  uint   `gorm:"not null;index" json:"post_id"`
	ReplyID *uint  `gorm:"index" json:"reply_id"`
}
