package notify

import (
	"context"
	"fmt"
	"log"

	"github.com/centerapp/backend/internal/models"
	"github.com/centerapp/backend/internal/push"
	"github.com/centerapp/backend/internal/repositories"
)

// Service coordinates the durable and best-effort halves of a notification.
// Notify writes the NotificationStore record synchronously — a storage
// failure aborts the calling mutation — and then hands push delivery to the
// background runner so the producer's HTTP response never waits on the
// provider. Live events stay with the producers, which know whether an event
// is targeted or broadcast.
type Service struct {
	notifications repositories.NotificationRepository
	users         repositories.UserRepository
	push          push.Sender
	runner        *Runner
}

func NewService(
	notifications repositories.NotificationRepository,
	users repositories.UserRepository,
	pushSender push.Sender,
	runner *Runner,
) *Service {
	return &Service{
		notifications: notifications,
		users:         users,
		push:          pushSender,
		runner:        runner,
	}
}

// Notify persists a notification for the recipient and schedules a push
// attempt. The returned error reflects only the durable write; push problems
// are invisible to the caller.
func (s *Service) Notify(recipientID uint, category, title, body string, data map[string]any) (*models.Notification, error) {
	notification := &models.Notification{
		RecipientID: recipientID,
		Type:        category,
		Title:       title,
		Message:     body,
		Data:        data,
	}
	if err := s.notifications.CreateNotification(notification); err != nil {
		return nil, fmt.Errorf("create notification: %w", err)
	}

	s.runner.Go("push-notification", func(ctx context.Context) {
		s.dispatchPush(ctx, recipientID, category, title, body, data)
	})

	return notification, nil
}

// dispatchPush looks up the recipient's device token and preferences and
// attempts FCM delivery. A permanently invalid token is cleared from the user
// record; every other failure is logged and forgotten.
func (s *Service) dispatchPush(ctx context.Context, recipientID uint, category, title, body string, data map[string]any) {
	user, err := s.users.GetUserByID(recipientID)
	if err != nil {
		log.Printf("notify: recipient %d not found for push: %v", recipientID, err)
		return
	}
	if user.FCMToken == "" || !user.NotificationSettings.Allows(category) {
		return
	}

	result := s.push.Send(ctx, user.FCMToken, push.Notification{
		Title: title,
		Body:  body,
		Data:  push.StringifyData(data),
	})
	if result.ShouldInvalidateToken {
		if err := s.users.ClearFCMToken(recipientID); err != nil {
			log.Printf("notify: clearing invalid FCM token for user %d: %v", recipientID, err)
		}
	}
}

// Background exposes the runner so producers can schedule their own side
// effects (email, admin fan-out) with the same isolation.
func (s *Service) Background() *Runner {
	return s.runner
}
