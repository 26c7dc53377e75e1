package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Marker represents a map marker stored in MongoDB
type Marker struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserID    uint               `json:"user_id" bson:"user_id"`
	Title     string             `json:"title" bson:"title"`
	Comment   string             `json:"comment" bson:"comment"`
	Color     string             `json:"color" bson:"color"`
	Latitude  float64            `json:"latitude" bson:"latitude"`
	Longitude float64            `json:"longitude" bson:"longitude"`
	Photos    []string           `json:"photos,omitempty" bson:"photos,omitempty"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time          `json:"updated_at" bson:"updated_at"`
}

// CreateMarkerRequest defines the request body for creating a marker
type CreateMarkerRequest struct {
	Title     string   `json:"title" validate:"required,min=1,max=100"`
	Comment   string   `json:"comment,omitempty" validate:"omitempty,max=500"`
	Color     string   `json:"color,omitempty"`
	Latitude  float64  `json:"latitude" validate:"required,latitude"`
	Longitude float64  `json:"longitude" validate:"required,longitude"`
	Photos    []string `json:"photos,omitempty" validate:"omitempty,dive,url"`
}
