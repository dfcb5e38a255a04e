package models

import "time"

// Subscription is a directed follow edge. At most one row exists per
// (FollowerID, FollowingID) pair and the two ids always differ.
type Subscription struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	FollowerID  uint      `gorm:"not null;uniqueIndex:idx_subscriptions_pair" json:"follower_id"`
	FollowingID uint      `gorm:"not null;uniqueIndex:idx_subscriptions_pair;index" json:"following_id"`
	CreatedAt   time.Time `json:"created_at"`

	Follower  User `gorm:"foreignKey:FollowerID" json:"follower,omitempty"`
	Following User `gorm:"foreignKey:FollowingID" json:"following,omitempty"`
}

// TableName specifies the table name for GORM
func (Subscription) TableName() string {
	return "subscriptions"
}

// FollowStatus is the follow relation between two users plus live edge counts.
type FollowStatus struct {
	Followed       bool  `json:"followed"`
	FollowerCount  int64 `json:"followerCount"`
	FollowingCount int64 `json:"followingCount"`
}
