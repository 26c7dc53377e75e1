package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/centerapp/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MarkerRepository defines the interface for map marker operations
type MarkerRepository interface {
	CreateMarker(ctx context.Context, marker *models.Marker) error
	GetMarkerByID(ctx context.Context, id string) (*models.Marker, error)
	GetMarkers(ctx context.Context) ([]models.Marker, error)
	DeleteMarker(ctx context.Context, id string) error
}

// MongoMarkerRepository implements MarkerRepository for MongoDB
type MongoMarkerRepository struct {
	collection *mongo.Collection
}

// NewMongoMarkerRepository creates a new MongoMarkerRepository
func NewMongoMarkerRepository(db *mongo.Database) *MongoMarkerRepository {
	return &MongoMarkerRepository{collection: db.Collection("markers")}
}

// CreateMarker creates a new marker in MongoDB
func (r *MongoMarkerRepository) CreateMarker(ctx context.Context, marker *models.Marker) error {
	marker.ID = primitive.NewObjectID()
	marker.CreatedAt = time.Now()
	marker.UpdatedAt = marker.CreatedAt
	_, err := r.collection.InsertOne(ctx, marker)
	return err
}

// GetMarkerByID retrieves a marker by ID from MongoDB
func (r *MongoMarkerRepository) GetMarkerByID(ctx context.Context, id string) (*models.Marker, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid marker ID format")
	}
	var marker models.Marker
	if err := r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&marker); err != nil {
		return nil, err
	}
	return &marker, nil
}

// GetMarkers retrieves all markers from MongoDB
func (r *MongoMarkerRepository) GetMarkers(ctx context.Context) ([]models.Marker, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var markers []models.Marker
	if err = cursor.All(ctx, &markers); err != nil {
		return nil, err
	}
	return markers, nil
}

// DeleteMarker deletes a marker by ID from MongoDB
func (r *MongoMarkerRepository) DeleteMarker(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid marker ID format")
	}
	_, err = r.collection.DeleteOne(ctx, bson.M{"_id": objID})
	return err
}
