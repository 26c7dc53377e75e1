package repositories

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
)

// Handlers map mongo.ErrNoDocuments to NotFound, so lookups by an ID that can
// never name a document must return that sentinel, not a wrapped error.

func TestGetPublicationByIDMalformedIDIsNoDocuments(t *testing.T) {
	repo := &MongoPublicationRepository{}
	_, err := repo.GetPublicationByID(context.Background(), "definitely-not-an-object-id")
	require.ErrorIs(t, err, mongo.ErrNoDocuments)
}

func TestGetStoryByIDMalformedIDIsNoDocuments(t *testing.T) {
	repo := &mongoStoryRepository{}
	_, err := repo.GetStoryByID(context.Background(), "definitely-not-an-object-id")
	require.ErrorIs(t, err, mongo.ErrNoDocuments)
}
