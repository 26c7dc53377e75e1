package models

import "gorm.io/gorm"

// Like represents a like on a publication
type Like struct {
	gorm.Model
	PublicationID string `json:"publication_id" gorm:"index;uniqueIndex:idx_publication_user_like"` // MongoDB ObjectID as string
	UserID        uint   `json:"user_id" gorm:"index;uniqueIndex:idx_publication_user_like"`
}
