package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/centerapp/backend/internal/models"
	"github.com/centerapp/backend/internal/notify"
	"github.com/centerapp/backend/internal/realtime"
	"github.com/centerapp/backend/internal/repositories"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// CommentHandler handles HTTP requests related to comments
type CommentHandler struct {
	commentRepository     repositories.CommentRepository
	commentLikeRepository repositories.CommentLikeRepository
	publicationRepository repositories.PublicationRepository
	userRepository        repositories.UserRepository
	bus                   *realtime.Bus
	notifier              *notify.Service
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(
	commentRepo repositories.CommentRepository,
	commentLikeRepo repositories.CommentLikeRepository,
	pubRepo repositories.PublicationRepository,
	userRepo repositories.UserRepository,
	bus *realtime.Bus,
	notifier *notify.Service,
) *CommentHandler {
	return &CommentHandler{
		commentRepository:     commentRepo,
		commentLikeRepository: commentLikeRepo,
		publicationRepository: pubRepo,
		userRepository:        userRepo,
		bus:                   bus,
		notifier:              notifier,
	}
}

// RegisterCommentRoutes registers comment-related routes
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group) {
	g.POST("/publications/:id/comments", h.AddComment)
	g.GET("/publications/:id/comments", h.GetComments)
	g.PUT("/comments/:id", h.EditComment)
	g.DELETE("/comments/:id", h.DeleteComment)
	g.POST("/comments/:id/like", h.ToggleCommentLike)
}

// AddComment adds a comment to a publication. The comment is durable first;
// the live event and the owner's notification follow.
func (h *CommentHandler) AddComment(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	pubID := c.Param("id")

	var req models.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	pub, err := h.publicationRepository.GetPublicationByID(c.Request().Context(), pubID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return echo.NewHTTPError(http.StatusNotFound, "Publication not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	comment := &models.Comment{
		PublicationID: pubID,
		UserID:        currentUserID,
		Content:       req.Content,
	}
	if err := h.commentRepository.CreateComment(comment); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if err := h.publicationRepository.AdjustCommentsCount(c.Request().Context(), pubID, 1); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	actor := h.actorCompact(currentUserID)
	announce(h.notifier, h.bus, realtime.New(realtime.KindNewComment, map[string]any{
		"publicationId": pubID,
		"comment":       comment,
		"author":        actor,
	}))

	if pub.UserID != currentUserID {
		if _, err := h.notifier.Notify(
			pub.UserID,
			models.NotificationTypeComment,
			"New comment",
			fmt.Sprintf("%s commented on your publication", actor.Name),
			map[string]any{"publicationId": pubID, "commentId": comment.ID, "userId": currentUserID},
		); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	return c.JSON(http.StatusCreated, comment)
}

// GetComments lists a publication's comments
func (h *CommentHandler) GetComments(c echo.Context) error {
	pubID := c.Param("id")

	comments, err := h.commentRepository.GetCommentsByPublicationID(pubID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"comments": comments})
}

// EditComment edits a comment's content
func (h *CommentHandler) EditComment(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	commentID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid comment ID")
	}

	var req models.UpdateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	comment, err := h.commentRepository.GetCommentByID(uint(commentID))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Comment not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if comment.UserID != currentUserID {
		return echo.NewHTTPError(http.StatusForbidden, "You are not authorized to edit this comment")
	}

	comment.Content = req.Content
	comment.IsEdited = true
	if err := h.commentRepository.UpdateComment(comment); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	announce(h.notifier, h.bus, realtime.New(realtime.KindEditComment, map[string]any{
		"publicationId": comment.PublicationID,
		"comment":       comment,
	}))

	return c.JSON(http.StatusOK, comment)
}

// DeleteComment deletes a comment
func (h *CommentHandler) DeleteComment(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	commentID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid comment ID")
	}

	comment, err := h.commentRepository.GetCommentByID(uint(commentID))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Comment not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if comment.UserID != currentUserID {
		return echo.NewHTTPError(http.StatusForbidden, "You are not authorized to delete this comment")
	}

	if err := h.commentRepository.DeleteComment(uint(commentID)); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if err := h.publicationRepository.AdjustCommentsCount(c.Request().Context(), comment.PublicationID, -1); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	announce(h.notifier, h.bus, realtime.New(realtime.KindDeleteComment, map[string]any{
		"publicationId": comment.PublicationID,
		"commentId":     comment.ID,
	}))

	return c.NoContent(http.StatusNoContent)
}

// ToggleCommentLike likes or unlikes a comment
func (h *CommentHandler) ToggleCommentLike(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	commentID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid comment ID")
	}

	comment, err := h.commentRepository.GetCommentByID(uint(commentID))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Comment not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	liked, err := h.commentLikeRepository.HasUserLikedComment(uint(commentID), currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if liked {
		err = h.commentLikeRepository.DeleteCommentLike(uint(commentID), currentUserID)
	} else {
		err = h.commentLikeRepository.CreateCommentLike(&models.CommentLike{CommentID: uint(commentID), UserID: currentUserID})
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	likesCount, err := h.commentLikeRepository.GetLikesCount(uint(commentID))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	announce(h.notifier, h.bus, realtime.New(realtime.KindLikeComment, map[string]any{
		"publicationId": comment.PublicationID,
		"commentId":     comment.ID,
		"userId":        currentUserID,
		"likesCount":    likesCount,
		"liked":         !liked,
	}))

	return c.JSON(http.StatusOK, echo.Map{
		"liked":       !liked,
		"likes_count": likesCount,
	})
}

// actorCompact resolves a user to the compact shape events embed.
func (h *CommentHandler) actorCompact(userID uint) models.UserCompact {
	user, err := h.userRepository.GetUserByID(userID)
	if err != nil {
		return models.UserCompact{ID: userID}
	}
	return user.ToCompact()
}
