package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Media types a story can carry.
const (
	StoryMediaImage = "image"
	StoryMediaVideo = "video"
	StoryMediaText  = "text"
)

// StoryTTL is how long a story stays visible after creation.
const StoryTTL = 24 * time.Hour

// DefaultStoryDuration is the display duration in seconds.
const DefaultStoryDuration = 5

// Story represents an ephemeral content unit stored in MongoDB. ExpiresAt is
// fixed at creation time and never changes; visibility is always decided by
// comparing it against the current time, never by whether a reaper has
// physically removed the document.
type Story struct {
	ID              primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserID          uint               `json:"user_id" bson:"user_id"`
	Content         string             `json:"content" bson:"content"`
	MediaURL        string             `json:"media_url,omitempty" bson:"media_url,omitempty"`
	MediaType       string             `json:"media_type" bson:"media_type"`
	BackgroundColor string             `json:"background_color" bson:"background_color"`
	Duration        int                `json:"duration" bson:"duration"` // seconds
	ExpiresAt       time.Time          `json:"expires_at" bson:"expires_at"`
	// ViewedBy is the unique viewer set; Views is the detailed log and may
	// record the same viewer more than once.
	ViewedBy  []uint      `json:"viewed_by" bson:"viewed_by"`
	Views     []StoryView `json:"views" bson:"views"`
	CreatedAt time.Time   `json:"created_at" bson:"created_at"`
}

// StoryView is one entry in a story's detailed view log.
type StoryView struct {
	UserID   uint      `json:"user_id" bson:"user_id"`
	ViewedAt time.Time `json:"viewed_at" bson:"viewed_at"`
}

// VisibleAt reports whether the story should still be listed at the given time.
func (s *Story) VisibleAt(at time.Time) bool {
	return at.Before(s.ExpiresAt)
}

// HasViewed reports membership in the unique viewer set.
func (s *Story) HasViewed(userID uint) bool {
	for _, id := range s.ViewedBy {
		if id == userID {
			return true
		}
	}
	return false
}

// RecordView adds the viewer to the unique viewer set (idempotent) and appends
// to the detailed view log unconditionally. The Mongo repository applies the
// same semantics with $addToSet and $push; this method exists for in-memory use.
func (s *Story) RecordView(userID uint, at time.Time) {
	if !s.HasViewed(userID) {
		s.ViewedBy = append(s.ViewedBy, userID)
	}
	s.Views = append(s.Views, StoryView{UserID: userID, ViewedAt: at})
}

// CreateStoryRequest defines the request body for creating a story.
type CreateStoryRequest struct {
	Content         string `json:"content"`
	MediaURL        string `json:"media_url,omitempty" validate:"omitempty,url"`
	MediaType       string `json:"media_type,omitempty" validate:"omitempty,oneof=image video text"`
	BackgroundColor string `json:"background_color,omitempty"`
	Duration        int    `json:"duration,omitempty" validate:"omitempty,min=1,max=60"`
}
