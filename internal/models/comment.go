package models

import "gorm.io/gorm"

// Comment represents a comment on a publication
type Comment struct {
	gorm.Model
	PublicationID string `json:"publication_id" gorm:"index"` // MongoDB ObjectID as string
	UserID        uint   `json:"user_id" gorm:"index"`
	Content       string `json:"content"`
	IsEdited      bool   `json:"is_edited" gorm:"default:false"`
}

// CommentLike represents a like on a comment
type CommentLike struct {
	gorm.Model
	CommentID uint `json:"comment_id" gorm:"index;uniqueIndex:idx_comment_user_like"`
	UserID    uint `json:"user_id" gorm:"index;uniqueIndex:idx_comment_user_like"`
}

// CreateCommentRequest defines the request body for creating a comment
type CreateCommentRequest struct {
	Content string `json:"content" validate:"required,min=1,max=500"`
}

// UpdateCommentRequest defines the request body for editing a comment
type UpdateCommentRequest struct {
	Content string `json:"content" validate:"required,min=1,max=500"`
}
