package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Message represents a direct message between two users stored in MongoDB
type Message struct {
	ID         primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	SenderID   uint               `json:"sender_id" bson:"sender_id"`
	ReceiverID uint               `json:"receiver_id" bson:"receiver_id"`
	Content    string             `json:"content" bson:"content"`
	IsRead     bool               `json:"is_read" bson:"is_read"`
	CreatedAt  time.Time          `json:"created_at" bson:"created_at"`
}

// SendMessageRequest defines the request body for sending a message
type SendMessageRequest struct {
	ReceiverID uint   `json:"receiver_id" validate:"required"`
	Content    string `json:"content" validate:"required,min=1,max=2000"`
}
