package handlers

import (
	"context"
	"sync"
	"time"

	"github.com/centerapp/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

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
	if user.ID == 0 {
		user.ID = uint(len(f.users) + 1)
	}
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

type fakeNotificationRepo struct {
	mu      sync.Mutex
	nextID  uint
	records []*models.Notification
}

func (f *fakeNotificationRepo) CreateNotification(n *models.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	n.ID = f.nextID
	n.CreatedAt = time.Now()
	f.records = append(f.records, n)
	return nil
}

func (f *fakeNotificationRepo) GetByRecipientID(recipientID uint, page, limit int) ([]models.Notification, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Notification{}
	for _, n := range f.records {
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
	for _, n := range f.records {
		if n.RecipientID == recipientID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (f *fakeNotificationRepo) MarkAsRead(notificationID, recipientID uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, n := range f.records {
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
	for _, n := range f.records {
		if n.RecipientID == recipientID {
			n.IsRead = true
		}
	}
	return nil
}

func (f *fakeNotificationRepo) DeleteNotification(notificationID, recipientID uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, n := range f.records {
		if n.ID == notificationID && n.RecipientID == recipientID {
			f.records = append(f.records[:i], f.records[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

type fakeStoryRepo struct {
	mu      sync.Mutex
	nextID  int
	stories map[string]*models.Story
}

func newFakeStoryRepo() *fakeStoryRepo {
	return &fakeStoryRepo{stories: make(map[string]*models.Story)}
}

func (f *fakeStoryRepo) CreateStory(ctx context.Context, story *models.Story) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	story.ID = primitive.NewObjectID()
	story.CreatedAt = time.Now()
	story.ExpiresAt = story.CreatedAt.Add(models.StoryTTL)
	if story.Duration == 0 {
		story.Duration = models.DefaultStoryDuration
	}
	story.ViewedBy = []uint{}
	story.Views = []models.StoryView{}
	f.stories[story.ID.Hex()] = story
	return nil
}

func (f *fakeStoryRepo) GetStoryByID(ctx context.Context, id string) (*models.Story, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	story, ok := f.stories[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return story, nil
}

func (f *fakeStoryRepo) GetVisibleStories(ctx context.Context, asOf time.Time) ([]models.Story, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Story{}
	for _, s := range f.stories {
		if s.VisibleAt(asOf) {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (f *fakeStoryRepo) RecordView(ctx context.Context, storyID string, viewerID uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	story, ok := f.stories[storyID]
	if !ok {
		return mongo.ErrNoDocuments
	}
	story.RecordView(viewerID, time.Now())
	return nil
}

func (f *fakeStoryRepo) DeleteStory(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.stories[id]; !ok {
		return mongo.ErrNoDocuments
	}
	delete(f.stories, id)
	return nil
}

func (f *fakeStoryRepo) DeleteExpired(ctx context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var deleted int64
	now := time.Now()
	for id, s := range f.stories {
		if !s.VisibleAt(now) {
			delete(f.stories, id)
			deleted++
		}
	}
	return deleted, nil
}

func testUser(id uint, name string) *models.User {
	return &models.User{
		ID:    id,
		Name:  name,
		Email: name + "@example.com",
		NotificationSettings: models.NotificationSettings{
			Likes: true, Comments: true, Messages: true, Publications: true, Employees: true,
		},
	}
}
