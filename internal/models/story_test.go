package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestStoryVisibilityBoundary(t *testing.T) {
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	story := Story{CreatedAt: created, ExpiresAt: created.Add(StoryTTL)}

	require.True(t, story.VisibleAt(created))
	require.True(t, story.VisibleAt(created.Add(23*time.Hour+59*time.Minute)))
	require.False(t, story.VisibleAt(created.Add(StoryTTL)))
	require.False(t, story.VisibleAt(created.Add(StoryTTL+time.Second)))
}

func TestStoryRecordViewDeduplicatesViewerSet(t *testing.T) {
	story := Story{}
	now := time.Now()

	story.RecordView(7, now)
	story.RecordView(7, now.Add(time.Minute))
	story.RecordView(9, now.Add(2*time.Minute))

	// The unique viewer set holds each viewer once; the log keeps every view.
	require.Equal(t, []uint{7, 9}, story.ViewedBy)
	require.Len(t, story.Views, 3)
	require.Equal(t, uint(7), story.Views[0].UserID)
	require.Equal(t, uint(7), story.Views[1].UserID)
	require.Equal(t, uint(9), story.Views[2].UserID)
}

func TestStoryHasViewed(t *testing.T) {
	story := Story{ViewedBy: []uint{1, 2}}
	require.True(t, story.HasViewed(1))
	require.False(t, story.HasViewed(3))
}

func TestStoryOwnerSelfViewCounts(t *testing.T) {
	story := Story{UserID: 5}
	story.RecordView(5, time.Now())

	require.True(t, story.HasViewed(5))
	require.Len(t, story.Views, 1)
}
