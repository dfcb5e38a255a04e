package models

import (
	"strings"
	"time"
)

// Post is a content unit owned by exactly one user. UserID never changes
// after creation.
type Post struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Caption   string    `gorm:"type:text" json:"caption"`
	ImageURL  string    `json:"image_url"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID" json:"user"`
	Likes     []Like    `gorm:"foreignKey:PostID" json:"likes,omitempty"`
	Comments  []Comment `gorm:"foreignKey:PostID" json:"comments,omitempty"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HasContent reports whether the post carries a caption or an image.
func (p *Post) HasContent() bool {
	return strings.TrimSpace(p.Caption) != "" || p.ImageURL != ""
}
