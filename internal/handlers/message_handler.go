package handlers

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/centerapp/backend/internal/mailer"
	"github.com/centerapp/backend/internal/models"
	"github.com/centerapp/backend/internal/notify"
	"github.com/centerapp/backend/internal/repositories"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// MessageHandler handles HTTP requests related to direct messages
type MessageHandler struct {
	messageRepository repositories.MessageRepository
	userRepository    repositories.UserRepository
	notifier          *notify.Service
	mail              *mailer.Mailer
}

// NewMessageHandler creates a new MessageHandler
func NewMessageHandler(
	messageRepo repositories.MessageRepository,
	userRepo repositories.UserRepository,
	notifier *notify.Service,
	mail *mailer.Mailer,
) *MessageHandler {
	return &MessageHandler{
		messageRepository: messageRepo,
		userRepository:    userRepo,
		notifier:          notifier,
		mail:              mail,
	}
}

// RegisterMessageRoutes registers message-related routes
func (h *MessageHandler) RegisterMessageRoutes(g *echo.Group) {
	g.POST("/messages", h.SendMessage)
	g.GET("/messages", h.GetMyMessages)
	g.GET("/messages/:userId", h.GetConversation)
	g.PUT("/messages/:userId/read", h.MarkConversationRead)
}

// SendMessage stores a direct message and notifies the receiver. The message
// itself is the durable record; the notification, push and email ride behind it.
func (h *MessageHandler) SendMessage(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.SendMessageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if req.ReceiverID == currentUserID {
		return echo.NewHTTPError(http.StatusBadRequest, "Cannot message yourself")
	}

	receiver, err := h.userRepository.GetUserByID(req.ReceiverID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Receiver not found")
	}

	sender, err := h.userRepository.GetUserByID(currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	message := &models.Message{
		SenderID:   currentUserID,
		ReceiverID: req.ReceiverID,
		Content:    req.Content,
	}
	if err := h.messageRepository.CreateMessage(c.Request().Context(), message); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if _, err := h.notifier.Notify(
		req.ReceiverID,
		models.NotificationTypeMessage,
		"New message",
		fmt.Sprintf("%s sent you a message", sender.Name),
		map[string]any{"senderId": currentUserID, "messageId": message.ID.Hex()},
	); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	receiverEmail := receiver.Email
	senderName := sender.Name
	h.notifier.Background().Go("message-email", func(ctx context.Context) {
		html := fmt.Sprintf("<p><strong>%s</strong> sent you a new message.</p>", senderName)
		if err := h.mail.Send(ctx, receiverEmail, "You have a new message", html); err != nil {
			log.Printf("sending message email to %s: %v", receiverEmail, err)
		}
	})

	return c.JSON(http.StatusCreated, message)
}

// GetMyMessages lists all messages the caller sent or received, newest first
func (h *MessageHandler) GetMyMessages(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	messages, err := h.messageRepository.GetMessagesForUser(c.Request().Context(), currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"messages": messages})
}

// GetConversation lists the messages between the caller and another user
func (h *MessageHandler) GetConversation(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	otherID, err := strconv.ParseUint(c.Param("userId"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}

	limit, _ := strconv.ParseInt(c.QueryParam("limit"), 10, 64)
	if limit < 1 || limit > 200 {
		limit = 50
	}

	messages, err := h.messageRepository.GetConversation(c.Request().Context(), currentUserID, uint(otherID), limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"messages": messages})
}

// MarkConversationRead marks all messages from another user as read
func (h *MessageHandler) MarkConversationRead(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	otherID, err := strconv.ParseUint(c.Param("userId"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}

	if err := h.messageRepository.MarkConversationRead(c.Request().Context(), currentUserID, uint(otherID)); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true})
}
