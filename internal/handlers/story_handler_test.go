package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/centerapp/backend/internal/models"
	"github.com/centerapp/backend/internal/notify"
	"github.com/centerapp/backend/internal/push"
	"github.com/centerapp/backend/internal/realtime"
	"github.com/centerapp/backend/internal/storage"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// captureConn records events delivered through the bus.
type captureConn struct {
	mu     sync.Mutex
	id     string
	events []realtime.Event
}

func (c *captureConn) ID() string { return c.id }

func (c *captureConn) Send(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if ev, ok := v.(realtime.Event); ok {
		c.events = append(c.events, ev)
	}
	return nil
}

func (c *captureConn) Close() error { return nil }

func (c *captureConn) kinds() []realtime.Kind {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]realtime.Kind, len(c.events))
	for i, ev := range c.events {
		out[i] = ev.Kind
	}
	return out
}

type storyHarness struct {
	handler *StoryHandler
	stories *fakeStoryRepo
	runner  *notify.Runner
	conn    *captureConn
}

func newStoryHarness(t *testing.T, users ...*models.User) *storyHarness {
	t.Helper()
	stories := newFakeStoryRepo()
	userRepo := newFakeUserRepo(users...)
	registry := realtime.NewRegistry()
	conn := &captureConn{id: "capture"}
	registry.Register(1000, conn)
	bus := realtime.NewBus(registry)
	runner := notify.NewRunner(2)
	notifier := notify.NewService(&fakeNotificationRepo{}, userRepo, push.NewDispatcher(nil), runner)
	media, err := storage.NewMediaStore("", "", "", "", false)
	require.NoError(t, err)

	return &storyHarness{
		handler: NewStoryHandler(stories, userRepo, bus, notifier, media),
		stories: stories,
		runner:  runner,
		conn:    conn,
	}
}

func newJSONContext(e *echo.Echo, method, target, body string, userID uint) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if userID != 0 {
		c.Set("user", &models.JwtCustomClaims{UserID: userID, Email: "user@example.com"})
	}
	return c, rec
}

func TestCreateStorySetsExpiryAndBroadcasts(t *testing.T) {
	h := newStoryHarness(t, testUser(1, "alice"))
	e := echo.New()

	c, rec := newJSONContext(e, http.MethodPost, "/stories", `{"content":"hello","background_color":"#fff"}`, 1)
	require.NoError(t, h.handler.CreateStory(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var story models.Story
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &story))
	require.Equal(t, models.StoryTTL, story.ExpiresAt.Sub(story.CreatedAt))
	require.Equal(t, models.DefaultStoryDuration, story.Duration)
	require.Equal(t, models.StoryMediaText, story.MediaType)

	h.runner.Wait()
	require.Equal(t, []realtime.Kind{realtime.KindNewStory}, h.conn.kinds())
}

func TestCreateStoryRequiresContentOrMedia(t *testing.T) {
	h := newStoryHarness(t, testUser(1, "alice"))
	e := echo.New()

	c, _ := newJSONContext(e, http.MethodPost, "/stories", `{}`, 1)
	err := h.handler.CreateStory(c)
	require.Error(t, err)
	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	require.Equal(t, http.StatusBadRequest, httpErr.Code)

	// Nothing was saved, nothing was broadcast.
	require.Empty(t, h.stories.stories)
	h.runner.Wait()
	require.Empty(t, h.conn.kinds())
}

func TestGetStoriesAnnotatesForViewer(t *testing.T) {
	h := newStoryHarness(t, testUser(1, "alice"), testUser(2, "bob"))
	e := echo.New()

	// One visible story, already viewed by user 2; one expired story.
	visible := &models.Story{UserID: 1, Content: "fresh"}
	require.NoError(t, h.stories.CreateStory(context.Background(), visible))
	require.NoError(t, h.stories.RecordView(context.Background(), visible.ID.Hex(), 2))

	expired := &models.Story{
		ID:        primitive.NewObjectID(),
		UserID:    1,
		Content:   "old",
		CreatedAt: time.Now().Add(-25 * time.Hour),
		ExpiresAt: time.Now().Add(-time.Hour),
	}
	h.stories.stories[expired.ID.Hex()] = expired

	c, rec := newAuthedContext(e, http.MethodGet, "/stories", 2)
	require.NoError(t, h.handler.GetStories(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Stories []AnnotatedStory `json:"stories"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Stories, 1)
	require.Equal(t, "fresh", body.Stories[0].Content)
	require.True(t, body.Stories[0].IsViewed)
	require.Equal(t, 1, body.Stories[0].ViewCount)
	require.Equal(t, "alice", body.Stories[0].Author.Name)
}

func TestViewStoryIsIdempotentOnViewerSet(t *testing.T) {
	h := newStoryHarness(t, testUser(1, "alice"), testUser(2, "bob"))
	e := echo.New()

	story := &models.Story{UserID: 1, Content: "s"}
	require.NoError(t, h.stories.CreateStory(context.Background(), story))

	for i := 0; i < 3; i++ {
		c, rec := newAuthedContext(e, http.MethodPost, "/stories/x/view", 2)
		c.SetParamNames("id")
		c.SetParamValues(story.ID.Hex())
		require.NoError(t, h.handler.ViewStory(c))
		require.Equal(t, http.StatusOK, rec.Code)
	}

	stored, err := h.stories.GetStoryByID(context.Background(), story.ID.Hex())
	require.NoError(t, err)
	require.Equal(t, []uint{2}, stored.ViewedBy)
	require.Len(t, stored.Views, 3)
}

func TestViewExpiredStoryIsNotFound(t *testing.T) {
	h := newStoryHarness(t, testUser(1, "alice"), testUser(2, "bob"))
	e := echo.New()

	expired := &models.Story{
		ID:        primitive.NewObjectID(),
		UserID:    1,
		CreatedAt: time.Now().Add(-25 * time.Hour),
		ExpiresAt: time.Now().Add(-time.Hour),
	}
	h.stories.stories[expired.ID.Hex()] = expired

	c, _ := newAuthedContext(e, http.MethodPost, "/stories/x/view", 2)
	c.SetParamNames("id")
	c.SetParamValues(expired.ID.Hex())

	err := h.handler.ViewStory(c)
	require.Error(t, err)
	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	require.Equal(t, http.StatusNotFound, httpErr.Code)
	require.Empty(t, expired.ViewedBy)
}

func TestGetStoryViewsOwnerOnly(t *testing.T) {
	h := newStoryHarness(t, testUser(1, "alice"), testUser(2, "bob"))
	e := echo.New()

	story := &models.Story{UserID: 1, Content: "s"}
	require.NoError(t, h.stories.CreateStory(context.Background(), story))
	require.NoError(t, h.stories.RecordView(context.Background(), story.ID.Hex(), 2))

	// Non-owner is rejected.
	c, _ := newAuthedContext(e, http.MethodGet, "/stories/x/views", 2)
	c.SetParamNames("id")
	c.SetParamValues(story.ID.Hex())
	err := h.handler.GetStoryViews(c)
	require.Error(t, err)
	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	require.Equal(t, http.StatusForbidden, httpErr.Code)

	// Owner sees the viewer list.
	c, rec := newAuthedContext(e, http.MethodGet, "/stories/x/views", 1)
	c.SetParamNames("id")
	c.SetParamValues(story.ID.Hex())
	require.NoError(t, h.handler.GetStoryViews(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Viewers   []models.UserCompact `json:"viewers"`
		ViewCount int                  `json:"view_count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, 1, body.ViewCount)
	require.Len(t, body.Viewers, 1)
	require.Equal(t, "bob", body.Viewers[0].Name)
}

func TestDeleteStoryOwnerOnly(t *testing.T) {
	h := newStoryHarness(t, testUser(1, "alice"), testUser(2, "bob"))
	e := echo.New()

	story := &models.Story{UserID: 1, Content: "s"}
	require.NoError(t, h.stories.CreateStory(context.Background(), story))
	h.conn.events = nil

	// Non-owner is rejected and the story survives.
	c, _ := newAuthedContext(e, http.MethodDelete, "/stories/x", 2)
	c.SetParamNames("id")
	c.SetParamValues(story.ID.Hex())
	err := h.handler.DeleteStory(c)
	require.Error(t, err)
	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	require.Equal(t, http.StatusForbidden, httpErr.Code)
	require.Len(t, h.stories.stories, 1)

	// Owner delete removes it and broadcasts.
	c, rec := newAuthedContext(e, http.MethodDelete, "/stories/x", 1)
	c.SetParamNames("id")
	c.SetParamValues(story.ID.Hex())
	require.NoError(t, h.handler.DeleteStory(c))
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Empty(t, h.stories.stories)

	h.runner.Wait()
	require.Equal(t, []realtime.Kind{realtime.KindStoryDeleted}, h.conn.kinds())
}
