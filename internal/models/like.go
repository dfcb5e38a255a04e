package models

import "time"

// Like records membership of a user in a post's like set. The composite
// primary key keeps at most one row per (UserID, PostID).
type Like struct {
	UserID    uint      `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	PostID    uint      `gorm:"primaryKey;autoIncrement:false;index" json:"post_id"`
	CreatedAt time.Time `json:"created_at"`
}
