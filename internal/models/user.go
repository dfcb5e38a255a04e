// Package models contains data structures for the application's domain models.
package models

import (
	"strings"
	"time"
)

// User represents an account. Password is empty for accounts created through
// an identity provider.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Email     string    `gorm:"uniqueIndex;size:254;not null" json:"email"`
	Password  string    `json:"-"`
	Name      string    `gorm:"size:100;not null;index" json:"name"`
	Image     string    `json:"image"`
	Bio       string    `gorm:"type:text" json:"bio"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Posts     []Post    `gorm:"foreignKey:UserID" json:"posts,omitempty"`
}

// NormalizeEmail lowercases and trims an address so uniqueness is case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// HasPassword reports whether the account can sign in with a password.
func (u *User) HasPassword() bool {
	return u.Password != ""
}
