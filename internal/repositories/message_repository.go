package repositories

import (
	"context"
	"time"

	"github.com/centerapp/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MessageRepository defines the interface for direct message operations
type MessageRepository interface {
	CreateMessage(ctx context.Context, message *models.Message) error
	GetConversation(ctx context.Context, userA, userB uint, limit int64) ([]models.Message, error)
	GetMessagesForUser(ctx context.Context, userID uint) ([]models.Message, error)
	MarkConversationRead(ctx context.Context, readerID, otherID uint) error
}

// MongoMessageRepository implements MessageRepository for MongoDB
type MongoMessageRepository struct {
	collection *mongo.Collection
}

// NewMongoMessageRepository creates a new MongoMessageRepository
func NewMongoMessageRepository(db *mongo.Database) *MongoMessageRepository {
	return &MongoMessageRepository{collection: db.Collection("messages")}
}

// CreateMessage creates a new message in MongoDB
func (r *MongoMessageRepository) CreateMessage(ctx context.Context, message *models.Message) error {
	message.ID = primitive.NewObjectID()
	message.CreatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, message)
	return err
}

// GetConversation retrieves the messages exchanged between two users, newest first
func (r *MongoMessageRepository) GetConversation(ctx context.Context, userA, userB uint, limit int64) ([]models.Message, error) {
	filter := bson.M{"$or": []bson.M{
		{"sender_id": userA, "receiver_id": userB},
		{"sender_id": userB, "receiver_id": userA},
	}}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(limit)
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var messages []models.Message
	if err = cursor.All(ctx, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

// GetMessagesForUser retrieves every message the user sent or received, newest first
func (r *MongoMessageRepository) GetMessagesForUser(ctx context.Context, userID uint) ([]models.Message, error) {
	filter := bson.M{"$or": []bson.M{
		{"sender_id": userID},
		{"receiver_id": userID},
	}}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var messages []models.Message
	if err = cursor.All(ctx, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

// MarkConversationRead flags all messages from otherID to readerID as read
func (r *MongoMessageRepository) MarkConversationRead(ctx context.Context, readerID, otherID uint) error {
	_, err := r.collection.UpdateMany(ctx,
		bson.M{"sender_id": otherID, "receiver_id": readerID, "is_read": false},
		bson.M{"$set": bson.M{"is_read": true}},
	)
	return err
}
