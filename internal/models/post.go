package models

import (
	"errors"
	"strconv"
	"strings"
)

// PostType is the stored label of a post's kind.
type PostType string

const (
	PostTypeText PostType = "Text"
	PostTypeURL  PostType = "URL"
)

var (
	ErrPostTypeMissing = errors.New("post type missing")
	ErrPostTypeInvalid = errors.New("post type invalid")
)

// ParsePostType decodes the client-supplied ordinal ("0" Text, "1" URL).
// Anything else is rejected.
func ParsePostType(ordinal string) (PostType, error) {
	ordinal = strings.TrimSpace(ordinal)
	if ordinal == "" {
		return "", ErrPostTypeMissing
	}
	n, err := strconv.Atoi(ordinal)
	if err != nil {
		return "", ErrPostTypeInvalid
	}
	switch n {
	case 0:
		return PostTypeText, nil
	case 1:
		return PostTypeURL, nil
	default:
		return "", ErrPostTypeInvalid
	}
}

// Editable reports whether posts of this type accept content edits.
func (t PostType) Editable() bool {
	return t == PostTypeText
}

// Post represents a post in a category.
type Post struct {
	Record
	Title      string   `gorm:"uniqueIndex;not null" json:"title"`
	Content    string   `gorm:"type:text;not null" json:"content"`
	Type       PostType `gorm:"type:varchar(8);not null" json:"type"`
	UserID     uint     `gorm:"not null;index" json:"user_id"`
	CategoryID uint     `gorm:"not null;index" json:"category_id"`
}
