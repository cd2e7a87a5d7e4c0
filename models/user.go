// File: /models/user.go
package models

import (
	"time"

	"github.com/jinzhu/copier"
)

// User is the identity record. Rows are created on first sign-in and never
// hard-deleted.
type User struct {
	ID                 string     `json:"id" gorm:"primaryKey;size:191"`
	Name               string     `json:"name" gorm:"size:255"`
	Email              string     `json:"email" gorm:"size:255;index"`
	Image              *string    `json:"image" gorm:"size:500"`
	Bio                *string    `json:"bio" gorm:"size:500"`
	Location           *string    `json:"location" gorm:"size:255"`
	EmailVerified      *time.Time `json:"email_verified"`
	OnboardingComplete bool       `json:"onboarding_complete" gorm:"not null;default:false"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// Follow is a directed edge follower -> following. The composite primary key
// keeps at most one edge per ordered pair.
type Follow struct {
	FollowerID  string    `json:"follower_id" gorm:"primaryKey;size:191"`
	FollowingID string    `json:"following_id" gorm:"primaryKey;size:191;index:idx_follows_following"`
	CreatedAt   time.Time `json:"created_at"`
}

func (Follow) TableName() string { return "follows" }

// UserSummary is the public slice of a user embedded in other records.
type UserSummary struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Image *string `json:"image"`
}

// UserDTO is the profile shape handed to the rendering layer. The counters
// are derived at read time.
type UserDTO struct {
	ID                 string     `json:"id"`
	Name               string     `json:"name"`
	Email              string     `json:"email"`
	Image              *string    `json:"image"`
	Bio                *string    `json:"bio"`
	Location           *string    `json:"location"`
	OnboardingComplete bool       `json:"onboarding_complete"`
	EmailVerified      *time.Time `json:"email_verified"`
	FollowerCount      *int64     `json:"follower_count,omitempty"`
	FollowingCount     *int64     `json:"following_count,omitempty"`
	IsFollowing        *bool      `json:"is_following,omitempty"`
}

func NewUserDTO(u *User) (*UserDTO, error) {
	var dto UserDTO
	if err := copier.Copy(&dto, u); err != nil {
		return nil, err
	}
	return &dto, nil
}

func (u *User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Name: u.Name, Image: u.Image}
}
