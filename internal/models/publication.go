package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Publication represents a media-bearing post stored in MongoDB
type Publication struct {
	ID            primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserID        uint               `json:"user_id" bson:"user_id"`
	Content       string             `json:"content" bson:"content"`
	Media         []MediaItem        `json:"media,omitempty" bson:"media,omitempty"`
	LikesCount    int                `json:"likes_count" bson:"likes_count"`
	CommentsCount int                `json:"comments_count" bson:"comments_count"`
	CreatedAt     time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at" bson:"updated_at"`
}

// MediaItem is a single attachment on a publication
type MediaItem struct {
	Type string `json:"type" bson:"type"` // "image" or "video"
	URL  string `json:"url" bson:"url"`
}

// CreatePublicationRequest defines the request body for creating a publication
type CreatePublicationRequest struct {
	Content string      `json:"content" validate:"required,min=1,max=2000"`
	Media   []MediaItem `json:"media,omitempty" validate:"omitempty,dive"`
}
