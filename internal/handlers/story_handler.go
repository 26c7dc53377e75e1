package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/centerapp/backend/internal/models"
	"github.com/centerapp/backend/internal/notify"
	"github.com/centerapp/backend/internal/realtime"
	"github.com/centerapp/backend/internal/repositories"
	"github.com/centerapp/backend/internal/storage"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"
)

// StoryHandler handles HTTP requests related to stories
type StoryHandler struct {
	storyRepository repositories.StoryRepository
	userRepository  repositories.UserRepository
	bus             *realtime.Bus
	notifier        *notify.Service
	media           *storage.MediaStore
}

// NewStoryHandler creates a new StoryHandler
func NewStoryHandler(
	storyRepo repositories.StoryRepository,
	userRepo repositories.UserRepository,
	bus *realtime.Bus,
	notifier *notify.Service,
	media *storage.MediaStore,
) *StoryHandler {
	return &StoryHandler{
		storyRepository: storyRepo,
		userRepository:  userRepo,
		bus:             bus,
		notifier:        notifier,
		media:           media,
	}
}

// RegisterStoryRoutes registers story-related routes
func (h *StoryHandler) RegisterStoryRoutes(g *echo.Group) {
	g.POST("/stories", h.CreateStory)
	g.GET("/stories", h.GetStories)
	g.POST("/stories/:id/view", h.ViewStory)
	g.GET("/stories/:id/views", h.GetStoryViews)
	g.DELETE("/stories/:id", h.DeleteStory)
}

// AnnotatedStory is a story enriched for the requesting viewer
type AnnotatedStory struct {
	models.Story
	Author    models.UserCompact `json:"author"`
	IsViewed  bool               `json:"is_viewed"`
	ViewCount int                `json:"view_count"`
}

// CreateStory creates a new 24-hour story. The broadcast happens only after
// the story is durably saved.
func (h *StoryHandler) CreateStory(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.CreateStoryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if req.Content == "" && req.MediaURL == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Story needs content or media")
	}

	mediaType := req.MediaType
	if mediaType == "" {
		mediaType = models.StoryMediaText
	}

	story := &models.Story{
		UserID:          currentUserID,
		Content:         req.Content,
		MediaURL:        req.MediaURL,
		MediaType:       mediaType,
		BackgroundColor: req.BackgroundColor,
		Duration:        req.Duration,
	}

	if err := h.storyRepository.CreateStory(c.Request().Context(), story); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	announce(h.notifier, h.bus, realtime.New(realtime.KindNewStory, map[string]any{
		"story":  story,
		"author": h.storyAuthor(currentUserID),
	}))

	return c.JSON(http.StatusCreated, story)
}

// GetStories lists all currently visible stories, annotated for the caller
func (h *StoryHandler) GetStories(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	stories, err := h.storyRepository.GetVisibleStories(c.Request().Context(), time.Now())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	annotated := make([]AnnotatedStory, len(stories))
	authorCache := make(map[uint]models.UserCompact)
	for i, s := range stories {
		author, ok := authorCache[s.UserID]
		if !ok {
			author = h.storyAuthor(s.UserID)
			authorCache[s.UserID] = author
		}
		annotated[i] = AnnotatedStory{
			Story:     s,
			Author:    author,
			IsViewed:  s.HasViewed(currentUserID),
			ViewCount: len(s.ViewedBy),
		}
	}

	return c.JSON(http.StatusOK, echo.Map{"stories": annotated})
}

// ViewStory records that the caller viewed a story. Each viewer appears once
// in the unique viewer set no matter how many times they view; the detailed
// log keeps every view. Owners may view their own stories.
func (h *StoryHandler) ViewStory(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	storyID := c.Param("id")

	story, err := h.storyRepository.GetStoryByID(c.Request().Context(), storyID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return echo.NewHTTPError(http.StatusNotFound, "Story not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	// An expired story is gone from the viewer's perspective even if the
	// reaper has not removed the document yet.
	if !story.VisibleAt(time.Now()) {
		return echo.NewHTTPError(http.StatusNotFound, "Story not found")
	}

	if err := h.storyRepository.RecordView(c.Request().Context(), storyID, currentUserID); err != nil {
		if err == mongo.ErrNoDocuments {
			return echo.NewHTTPError(http.StatusNotFound, "Story not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// GetStoryViews lists who has viewed a story. Only the owner may ask.
func (h *StoryHandler) GetStoryViews(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	storyID := c.Param("id")

	story, err := h.storyRepository.GetStoryByID(c.Request().Context(), storyID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return echo.NewHTTPError(http.StatusNotFound, "Story not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if story.UserID != currentUserID {
		return echo.NewHTTPError(http.StatusForbidden, "You are not authorized to see this story's viewers")
	}

	viewers := make([]models.UserCompact, 0, len(story.ViewedBy))
	for _, viewerID := range story.ViewedBy {
		viewers = append(viewers, h.storyAuthor(viewerID))
	}

	return c.JSON(http.StatusOK, echo.Map{
		"viewers":    viewers,
		"views":      story.Views,
		"view_count": len(story.ViewedBy),
	})
}

// DeleteStory deletes a story before its natural expiry. Only the owner may
// delete; associated media is removed in the background.
func (h *StoryHandler) DeleteStory(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	storyID := c.Param("id")

	story, err := h.storyRepository.GetStoryByID(c.Request().Context(), storyID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return echo.NewHTTPError(http.StatusNotFound, "Story not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if story.UserID != currentUserID {
		return echo.NewHTTPError(http.StatusForbidden, "You are not authorized to delete this story")
	}

	if err := h.storyRepository.DeleteStory(c.Request().Context(), storyID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	mediaURL := story.MediaURL
	h.notifier.Background().Go("story-media-cleanup", func(ctx context.Context) {
		if err := h.media.Remove(ctx, mediaURL); err != nil {
			log.Printf("removing media for story %s: %v", storyID, err)
		}
	})

	announce(h.notifier, h.bus, realtime.New(realtime.KindStoryDeleted, map[string]any{
		"storyId": storyID,
		"userId":  currentUserID,
	}))

	return c.NoContent(http.StatusNoContent)
}

// storyAuthor resolves a user to the compact shape story payloads embed.
func (h *StoryHandler) storyAuthor(userID uint) models.UserCompact {
	user, err := h.userRepository.GetUserByID(userID)
	if err != nil {
		return models.UserCompact{ID: userID}
	}
	return user.ToCompact()
}
