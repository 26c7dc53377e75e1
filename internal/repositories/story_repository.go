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

// StoryRepository defines the interface for story operations. Expiry is a
// read-time predicate on expires_at; DeleteExpired only reclaims storage.
type StoryRepository interface {
	CreateStory(ctx context.Context, story *models.Story) error
	GetStoryByID(ctx context.Context, id string) (*models.Story, error)
	GetVisibleStories(ctx context.Context, asOf time.Time) ([]models.Story, error)
	RecordView(ctx context.Context, storyID string, viewerID uint) error
	DeleteStory(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context) (int64, error)
}

type mongoStoryRepository struct {
	collection *mongo.Collection
}

func NewMongoStoryRepository(db *mongo.Database) StoryRepository {
	return &mongoStoryRepository{collection: db.Collection("stories")}
}

func (r *mongoStoryRepository) CreateStory(ctx context.Context, story *models.Story) error {
	story.ID = primitive.NewObjectID()
	story.CreatedAt = time.Now()
	// Fixed at creation, immutable thereafter.
	story.ExpiresAt = story.CreatedAt.Add(models.StoryTTL)
	if story.Duration <= 0 {
		story.Duration = models.DefaultStoryDuration
	}
	if story.ViewedBy == nil {
		story.ViewedBy = []uint{}
	}
	if story.Views == nil {
		story.Views = []models.StoryView{}
	}
	_, err := r.collection.InsertOne(ctx, story)
	return err
}

func (r *mongoStoryRepository) GetStoryByID(ctx context.Context, id string) (*models.Story, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		// A malformed ID can never name a document.
		return nil, mongo.ErrNoDocuments
	}
	var story models.Story
	if err := r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&story); err != nil {
		return nil, err
	}
	return &story, nil
}

// GetVisibleStories returns stories whose expiry is still in the future,
// newest first. Physically present but expired documents never show up here.
func (r *mongoStoryRepository) GetVisibleStories(ctx context.Context, asOf time.Time) ([]models.Story, error) {
	filter := bson.M{"expires_at": bson.M{"$gt": asOf}}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var stories []models.Story
	if err = cursor.All(ctx, &stories); err != nil {
		return nil, err
	}
	return stories, nil
}

// RecordView adds the viewer to the unique viewer set and appends to the
// detailed view log. $addToSet keeps the set idempotent; the log append is
// unconditional.
func (r *mongoStoryRepository) RecordView(ctx context.Context, storyID string, viewerID uint) error {
	objID, err := primitive.ObjectIDFromHex(storyID)
	if err != nil {
		return fmt.Errorf("invalid story ID format")
	}
	update := bson.M{
		"$addToSet": bson.M{"viewed_by": viewerID},
		"$push":     bson.M{"views": models.StoryView{UserID: viewerID, ViewedAt: time.Now()}},
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *mongoStoryRepository) DeleteStory(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid story ID format")
	}
	_, err = r.collection.DeleteOne(ctx, bson.M{"_id": objID})
	return err
}

func (r *mongoStoryRepository) DeleteExpired(ctx context.Context) (int64, error) {
	res, err := r.collection.DeleteMany(ctx, bson.M{"expires_at": bson.M{"$lte": time.Now()}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
