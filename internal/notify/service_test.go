package notify

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/centerapp/backend/internal/models"
	"github.com/centerapp/backend/internal/push"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeNotificationRepo struct {
	mu      sync.Mutex
	created []*models.Notification
	err     error
	nextID  uint
}

func (f *fakeNotificationRepo) CreateNotification(n *models.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.nextID++
	n.ID = f.nextID
	f.created = append(f.created, n)
	return nil
}

func (f *fakeNotificationRepo) GetByRecipientID(recipientID uint, page, limit int) ([]models.Notification, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Notification
	for _, n := range f.created {
		if n.RecipientID == recipientID {
			out = append(out, *n)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeNotificationRepo) GetUnreadCount(recipientID uint) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for _, n := range f.created {
		if n.RecipientID == recipientID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (f *fakeNotificationRepo) MarkAsRead(notificationID, recipientID uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, n := range f.created {
		if n.ID == notificationID && n.RecipientID == recipientID {
			n.IsRead = true
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeNotificationRepo) MarkAllAsRead(recipientID uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, n := range f.created {
		if n.RecipientID == recipientID {
			n.IsRead = true
		}
	}
	return nil
}

func (f *fakeNotificationRepo) DeleteNotification(notificationID, recipientID uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, n := range f.created {
		if n.ID == notificationID && n.RecipientID == recipientID {
			f.created = append(f.created[:i], f.created[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uint]*models.User
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	f := &fakeUserRepo{users: make(map[uint]*models.User)}
	for _, u := range users {
		f.users[u.ID] = u
	}
	return f
}

func (f *fakeUserRepo) CreateUser(user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) GetUserByID(id uint) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (f *fakeUserRepo) GetUserByEmail(email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) GetAdmins() ([]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var admins []models.User
	for _, u := range f.users {
		if u.Status == "admin" {
			admins = append(admins, *u)
		}
	}
	return admins, nil
}

func (f *fakeUserRepo) UpdateUser(user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) DeleteUser(id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.users, id)
	return nil
}

func (f *fakeUserRepo) SearchUsers(query string) ([]models.User, error) {
	return nil, nil
}

func (f *fakeUserRepo) SetFCMToken(userID uint, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[userID]; ok {
		u.FCMToken = token
	}
	return nil
}

func (f *fakeUserRepo) ClearFCMToken(userID uint) error {
	return f.SetFCMToken(userID, "")
}

func (f *fakeUserRepo) UpdateNotificationSettings(userID uint, settings models.NotificationSettings) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[userID]; ok {
		u.NotificationSettings = settings
	}
	return nil
}

type fakeSender struct {
	mu     sync.Mutex
	sent   []string
	result push.Result
}

func (f *fakeSender) Send(ctx context.Context, token string, n push.Notification) push.Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, token)
	return f.result
}

func (f *fakeSender) SendMulticast(ctx context.Context, tokens []string, n push.Notification) push.MulticastResult {
	return push.MulticastResult{}
}

func (f *fakeSender) sentTokens() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.sent...)
}

func allOn() models.NotificationSettings {
	return models.NotificationSettings{Likes: true, Comments: true, Messages: true, Publications: true, Employees: true}
}

func TestNotifyPersistsBeforePush(t *testing.T) {
	repo := &fakeNotificationRepo{}
	users := newFakeUserRepo(&models.User{ID: 1, FCMToken: "tok-1", NotificationSettings: allOn()})
	sender := &fakeSender{result: push.Result{Delivered: true}}
	runner := NewRunner(2)
	svc := NewService(repo, users, sender, runner)

	n, err := svc.Notify(1, models.NotificationTypeLike, "New like", "someone liked your publication", map[string]any{"publicationId": "p1"})
	require.NoError(t, err)
	require.NotZero(t, n.ID)

	// The record exists and raises the unread count immediately.
	count, err := repo.GetUnreadCount(1)
	require.NoError(t, err)
	require.Equal(t, int64(1), count)

	runner.Wait()
	require.Equal(t, []string{"tok-1"}, sender.sentTokens())
}

func TestNotifyStorageFailureAbortsAndSkipsPush(t *testing.T) {
	repo := &fakeNotificationRepo{err: errors.New("db down")}
	users := newFakeUserRepo(&models.User{ID: 1, FCMToken: "tok-1", NotificationSettings: allOn()})
	sender := &fakeSender{}
	runner := NewRunner(2)
	svc := NewService(repo, users, sender, runner)

	_, err := svc.Notify(1, models.NotificationTypeLike, "t", "b", nil)
	require.Error(t, err)

	runner.Wait()
	require.Empty(t, sender.sentTokens())
}

func TestNotifySkipsPushWithoutToken(t *testing.T) {
	repo := &fakeNotificationRepo{}
	users := newFakeUserRepo(&models.User{ID: 1, NotificationSettings: allOn()})
	sender := &fakeSender{}
	runner := NewRunner(2)
	svc := NewService(repo, users, sender, runner)

	_, err := svc.Notify(1, models.NotificationTypeLike, "t", "b", nil)
	require.NoError(t, err)

	runner.Wait()
	require.Empty(t, sender.sentTokens())
	// The durable record exists regardless.
	require.Len(t, repo.created, 1)
}

func TestNotifyRespectsCategorySettings(t *testing.T) {
	settings := allOn()
	settings.Likes = false
	repo := &fakeNotificationRepo{}
	users := newFakeUserRepo(&models.User{ID: 1, FCMToken: "tok-1", NotificationSettings: settings})
	sender := &fakeSender{}
	runner := NewRunner(2)
	svc := NewService(repo, users, sender, runner)

	_, err := svc.Notify(1, models.NotificationTypeLike, "t", "b", nil)
	require.NoError(t, err)

	runner.Wait()
	require.Empty(t, sender.sentTokens())
	require.Len(t, repo.created, 1)
}

func TestNotifyClearsInvalidToken(t *testing.T) {
	repo := &fakeNotificationRepo{}
	user := &models.User{ID: 1, FCMToken: "stale-token", NotificationSettings: allOn()}
	users := newFakeUserRepo(user)
	sender := &fakeSender{result: push.Result{ShouldInvalidateToken: true}}
	runner := NewRunner(2)
	svc := NewService(repo, users, sender, runner)

	_, err := svc.Notify(1, models.NotificationTypeMessage, "t", "b", nil)
	require.NoError(t, err)

	runner.Wait()
	got, err := users.GetUserByID(1)
	require.NoError(t, err)
	require.Empty(t, got.FCMToken)
}

func TestNotifyUnknownRecipientStillDurable(t *testing.T) {
	repo := &fakeNotificationRepo{}
	users := newFakeUserRepo()
	sender := &fakeSender{}
	runner := NewRunner(2)
	svc := NewService(repo, users, sender, runner)

	// The durable write does not depend on the recipient's user row being
	// loadable for push.
	_, err := svc.Notify(42, models.NotificationTypeSystem, "t", "b", nil)
	require.NoError(t, err)

	runner.Wait()
	require.Empty(t, sender.sentTokens())
	require.Len(t, repo.created, 1)
}
