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

// PublicationRepository defines the interface for publication data operations
type PublicationRepository interface {
	CreatePublication(ctx context.Context, pub *models.Publication) error
	GetPublicationByID(ctx context.Context, id string) (*models.Publication, error)
	GetPublicationsByUserID(ctx context.Context, userID uint, skip, limit int64) ([]models.Publication, error)
	GetAllPublications(ctx context.Context, skip, limit int64) ([]models.Publication, int64, error)
	DeletePublication(ctx context.Context, id string) error
	AdjustLikesCount(ctx context.Context, id string, delta int) (int, error)
	AdjustCommentsCount(ctx context.Context, id string, delta int) error
}

// MongoPublicationRepository implements PublicationRepository for MongoDB
type MongoPublicationRepository struct {
	collection *mongo.Collection
}

// NewMongoPublicationRepository creates a new MongoPublicationRepository
func NewMongoPublicationRepository(db *mongo.Database) *MongoPublicationRepository {
	return &MongoPublicationRepository{collection: db.Collection("publications")}
}

// CreatePublication creates a new publication in MongoDB
func (r *MongoPublicationRepository) CreatePublication(ctx context.Context, pub *models.Publication) error {
	pub.ID = primitive.NewObjectID()
	pub.CreatedAt = time.Now()
	pub.UpdatedAt = pub.CreatedAt
	_, err := r.collection.InsertOne(ctx, pub)
	return err
}

// GetPublicationByID retrieves a publication by ID from MongoDB. A missing
// document and a malformed ID both surface as mongo.ErrNoDocuments so
// handlers can map them to NotFound.
func (r *MongoPublicationRepository) GetPublicationByID(ctx context.Context, id string) (*models.Publication, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		// A malformed ID can never name a document.
		return nil, mongo.ErrNoDocuments
	}

	var pub models.Publication
	if err := r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&pub); err != nil {
		return nil, err
	}
	return &pub, nil
}

// GetPublicationsByUserID retrieves publications by a specific user
func (r *MongoPublicationRepository) GetPublicationsByUserID(ctx context.Context, userID uint, skip, limit int64) ([]models.Publication, error) {
	var pubs []models.Publication
	findOptions := options.Find().SetSkip(skip).SetLimit(limit).SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &pubs); err != nil {
		return nil, err
	}
	return pubs, nil
}

// GetAllPublications retrieves all publications with pagination
func (r *MongoPublicationRepository) GetAllPublications(ctx context.Context, skip, limit int64) ([]models.Publication, int64, error) {
	var pubs []models.Publication
	findOptions := options.Find().SetSkip(skip).SetLimit(limit).SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.D{}, findOptions)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &pubs); err != nil {
		return nil, 0, err
	}

	total, err := r.collection.CountDocuments(ctx, bson.D{})
	if err != nil {
		return nil, 0, err
	}
	return pubs, total, nil
}

// DeletePublication deletes a publication by ID from MongoDB
func (r *MongoPublicationRepository) DeletePublication(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid publication ID format: %w", err)
	}
	_, err = r.collection.DeleteOne(ctx, bson.M{"_id": objID})
	return err
}

// AdjustLikesCount atomically shifts the like counter and returns the updated
// value, so the publication_liked event always carries the post-mutation count.
func (r *MongoPublicationRepository) AdjustLikesCount(ctx context.Context, id string, delta int) (int, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return 0, fmt.Errorf("invalid publication ID format: %w", err)
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.Publication
	err = r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": objID},
		bson.M{"$inc": bson.M{"likes_count": delta}, "$set": bson.M{"updated_at": time.Now()}},
		opts,
	).Decode(&updated)
	if err != nil {
		return 0, err
	}
	return updated.LikesCount, nil
}

// AdjustCommentsCount atomically shifts the comment counter
func (r *MongoPublicationRepository) AdjustCommentsCount(ctx context.Context, id string, delta int) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid publication ID format: %w", err)
	}
	_, err = r.collection.UpdateOne(ctx,
		bson.M{"_id": objID},
		bson.M{"$inc": bson.M{"comments_count": delta}, "$set": bson.M{"updated_at": time.Now()}},
	)
	return err
}
