package models

import (
	"time"

	"gorm.io/gorm"
)

// User is an account holder. Accounts start inactive and are switched on by
// following the activation link mailed at signup.
type User struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Username string `gorm:"size:20;unique;not null" json:"username"`
	Email    string `gorm:"unique;not null" json:"email"`
	Password string `gorm:"not null" json:"-"`
	Profile  string `gorm:"size:150" json:"profile"`
	Avatar   string `gorm:"size:255" json:"avatar"`
	Active   bool   `gorm:"default:false" json:"active"`
	// PostsCount, FollowersCount and FollowingCount are not persisted;
	// computed at query time for profile views.
	PostsCount     int `gorm:"->;-:migration" json:"posts_count"`
	FollowersCount int `gorm:"->;-:migration" json:"followers_count"`
	FollowingCount int `gorm:"->;-:migration" json:"following_count"`
	// FollowedByViewer indicates whether the requesting user follows this
	// user (computed, always relative to the viewer).
	FollowedByViewer bool           `gorm:"->;-:migration" json:"followed_by_viewer"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`

	Posts []Post `gorm:"foreignKey:UserID" json:"posts,omitempty"`
}
