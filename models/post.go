// File: /models/post.go
package models

import (
	"time"
)

const PostMaxLength = 280

type Post struct {
	ID          uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	Name        string    `json:"name" gorm:"not null;size:280"`
	CreatedByID string    `json:"created_by_id" gorm:"not null;size:191;index:idx_posts_created_by"`
	CreatedAt   time.Time `json:"created_at" gorm:"index:idx_posts_created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	CreatedBy *User `json:"-" gorm:"foreignKey:CreatedByID"`
}

// Like is unique per (post, user).
type Like struct {
	PostID    uint      `json:"post_id" gorm:"primaryKey;autoIncrement:false"`
	UserID    string    `json:"user_id" gorm:"primaryKey;size:191;index:idx_likes_user"`
	CreatedAt time.Time `json:"created_at"`
}

func (Like) TableName() string { return "likes" }

// PostDTO is a post joined with its author and engagement, as rendered.
type PostDTO struct {
	ID            uint        `json:"id"`
	Name          string      `json:"name"`
	CreatedAt     time.Time   `json:"created_at"`
	CreatedBy     UserSummary `json:"created_by"`
	LikeCount     int64       `json:"like_count"`
	IsLikedByUser bool        `json:"is_liked_by_user"`
}

// FeedResponse represents a page of posts with pagination metadata
type FeedResponse struct {
	Posts      []PostDTO `json:"posts"`
	Page       int       `json:"page,omitempty"`
	Limit      int       `json:"limit,omitempty"`
	Total      int64     `json:"total"`
	HasMore    bool      `json:"has_more"`
	TotalPages int       `json:"total_pages,omitempty"`
}
