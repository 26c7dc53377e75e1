package handlers

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strconv"
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

// PublicationHandler handles HTTP requests related to publications
type PublicationHandler struct {
	publicationRepository repositories.PublicationRepository
	likeRepository        repositories.LikeRepository
	userRepository        repositories.UserRepository
	bus                   *realtime.Bus
	notifier              *notify.Service
	media                 *storage.MediaStore
}

// NewPublicationHandler creates a new PublicationHandler
func NewPublicationHandler(
	pubRepo repositories.PublicationRepository,
	likeRepo repositories.LikeRepository,
	userRepo repositories.UserRepository,
	bus *realtime.Bus,
	notifier *notify.Service,
	media *storage.MediaStore,
) *PublicationHandler {
	return &PublicationHandler{
		publicationRepository: pubRepo,
		likeRepository:        likeRepo,
		userRepository:        userRepo,
		bus:                   bus,
		notifier:              notifier,
		media:                 media,
	}
}

// RegisterPublicationRoutes registers publication-related routes
func (h *PublicationHandler) RegisterPublicationRoutes(g *echo.Group) {
	g.POST("/publications", h.CreatePublication)
	g.GET("/publications", h.GetPublications)
	g.GET("/publications/my", h.GetMyPublications)
	g.GET("/publications/:id", h.GetPublication)
	g.DELETE("/publications/:id", h.DeletePublication)
	g.POST("/publications/:id/like", h.ToggleLike)
}

// CreatePublication creates a new publication and announces it to all
// connected clients
func (h *PublicationHandler) CreatePublication(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.CreatePublicationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	pub := &models.Publication{
		UserID:    currentUserID,
		Content:   req.Content,
		Media:     req.Media,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := h.publicationRepository.CreatePublication(c.Request().Context(), pub); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	// Live announcement only; the durable record is the publication itself.
	announce(h.notifier, h.bus, realtime.New(realtime.KindNewPublication, map[string]any{
		"publication": pub,
		"author":      h.authorCompact(currentUserID),
	}))

	return c.JSON(http.StatusCreated, pub)
}

// GetPublications retrieves all publications, newest first
func (h *PublicationHandler) GetPublications(c echo.Context) error {
	skip, _ := strconv.ParseInt(c.QueryParam("skip"), 10, 64)
	limit, _ := strconv.ParseInt(c.QueryParam("limit"), 10, 64)
	if limit < 1 || limit > 50 {
		limit = 10
	}

	pubs, total, err := h.publicationRepository.GetAllPublications(c.Request().Context(), skip, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"publications": pubs,
		"total":        total,
	})
}

// GetMyPublications retrieves the caller's publications
func (h *PublicationHandler) GetMyPublications(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	skip, _ := strconv.ParseInt(c.QueryParam("skip"), 10, 64)
	limit, _ := strconv.ParseInt(c.QueryParam("limit"), 10, 64)
	if limit < 1 || limit > 50 {
		limit = 10
	}

	pubs, err := h.publicationRepository.GetPublicationsByUserID(c.Request().Context(), currentUserID, skip, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"publications": pubs})
}

// GetPublication retrieves a publication by ID
func (h *PublicationHandler) GetPublication(c echo.Context) error {
	pubID := c.Param("id")

	pub, err := h.publicationRepository.GetPublicationByID(c.Request().Context(), pubID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return echo.NewHTTPError(http.StatusNotFound, "Publication not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, pub)
}

// DeletePublication deletes a publication
func (h *PublicationHandler) DeletePublication(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	pubID := c.Param("id")

	pub, err := h.publicationRepository.GetPublicationByID(c.Request().Context(), pubID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return echo.NewHTTPError(http.StatusNotFound, "Publication not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	// Ensure the user deleting the publication is the owner
	if pub.UserID != currentUserID {
		return echo.NewHTTPError(http.StatusForbidden, "You are not authorized to delete this publication")
	}

	if err := h.publicationRepository.DeletePublication(c.Request().Context(), pubID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	// Media objects are cleaned up off the request path.
	media := pub.Media
	h.notifier.Background().Go("publication-media-cleanup", func(ctx context.Context) {
		for _, item := range media {
			if err := h.media.Remove(ctx, item.URL); err != nil {
				log.Printf("removing media for publication %s: %v", pubID, err)
			}
		}
	})

	announce(h.notifier, h.bus, realtime.New(realtime.KindPublicationDeleted, map[string]any{
		"publicationId": pubID,
	}))

	return c.NoContent(http.StatusNoContent)
}

// ToggleLike likes or unlikes a publication. A like becomes a live
// publication_liked event for everyone plus a durable notification for the
// owner; an unlike only adjusts the counter.
func (h *PublicationHandler) ToggleLike(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	pubID := c.Param("id")

	pub, err := h.publicationRepository.GetPublicationByID(c.Request().Context(), pubID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return echo.NewHTTPError(http.StatusNotFound, "Publication not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	liked, err := h.likeRepository.HasUserLiked(pubID, currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	var likesCount int
	if liked {
		if err := h.likeRepository.DeleteLike(pubID, currentUserID); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		likesCount, err = h.publicationRepository.AdjustLikesCount(c.Request().Context(), pubID, -1)
	} else {
		if err := h.likeRepository.CreateLike(&models.Like{PublicationID: pubID, UserID: currentUserID}); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		likesCount, err = h.publicationRepository.AdjustLikesCount(c.Request().Context(), pubID, 1)
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	announce(h.notifier, h.bus, realtime.New(realtime.KindPublicationLiked, map[string]any{
		"publicationId": pubID,
		"userId":        currentUserID,
		"likesCount":    likesCount,
		"liked":         !liked,
	}))

	// The owner gets a durable record only for a fresh like, never a self-like.
	if !liked && pub.UserID != currentUserID {
		actor := h.authorCompact(currentUserID)
		if _, err := h.notifier.Notify(
			pub.UserID,
			models.NotificationTypeLike,
			"New like",
			fmt.Sprintf("%s liked your publication", actor.Name),
			map[string]any{"publicationId": pubID, "userId": currentUserID},
		); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"liked":       !liked,
		"likes_count": likesCount,
	})
}

// authorCompact resolves a user to the compact shape events embed. Missing
// users yield a zero-value compact rather than an error.
func (h *PublicationHandler) authorCompact(userID uint) models.UserCompact {
	user, err := h.userRepository.GetUserByID(userID)
	if err != nil {
		return models.UserCompact{ID: userID}
	}
	return user.ToCompact()
}
