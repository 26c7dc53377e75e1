package repositories

import (
	"github.com/centerapp/backend/internal/models"
	"gorm.io/gorm"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	CreateUser(user *models.User) error
	GetUserByID(id uint) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetAdmins() ([]models.User, error)
	UpdateUser(user *models.User) error
	DeleteUser(id uint) error
	SearchUsers(query string) ([]models.User, error)
	SetFCMToken(userID uint, token string) error
	ClearFCMToken(userID uint) error
	UpdateNotificationSettings(userID uint, settings models.NotificationSettings) error
}

// PostgresUserRepository implements UserRepository for PostgreSQL
type PostgresUserRepository struct {
	db *gorm.DB
}

// NewPostgresUserRepository creates a new PostgresUserRepository
func NewPostgresUserRepository(db *gorm.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

// CreateUser creates a new user in PostgreSQL
func (r *PostgresUserRepository) CreateUser(user *models.User) error {
	return r.db.Create(user).Error
}

// GetUserByID retrieves a user by ID from PostgreSQL
func (r *PostgresUserRepository) GetUserByID(id uint) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByEmail retrieves a user by email from PostgreSQL
func (r *PostgresUserRepository) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetAdmins retrieves all admin users
func (r *PostgresUserRepository) GetAdmins() ([]models.User, error) {
	var users []models.User
	if err := r.db.Where("status = ?", "admin").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// UpdateUser updates an existing user in PostgreSQL
func (r *PostgresUserRepository) UpdateUser(user *models.User) error {
	return r.db.Save(user).Error
}

// DeleteUser deletes a user by ID from PostgreSQL
func (r *PostgresUserRepository) DeleteUser(id uint) error {
	return r.db.Delete(&models.User{}, id).Error
}

// SearchUsers searches for users by name or email
func (r *PostgresUserRepository) SearchUsers(query string) ([]models.User, error) {
	var users []models.User
	// Search by name or email (case-insensitive)
	if err := r.db.Where("LOWER(name) LIKE LOWER(?) OR LOWER(email) LIKE LOWER(?)", "%"+query+"%", "%"+query+"%").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// SetFCMToken overwrites the user's device push token. No history is kept.
func (r *PostgresUserRepository) SetFCMToken(userID uint, token string) error {
	return r.db.Model(&models.User{}).Where("id = ?", userID).Update("fcm_token", token).Error
}

// ClearFCMToken empties the stored device token, used when the push provider
// reports it as permanently invalid.
func (r *PostgresUserRepository) ClearFCMToken(userID uint) error {
	return r.db.Model(&models.User{}).Where("id = ?", userID).Update("fcm_token", "").Error
}

// UpdateNotificationSettings replaces the user's per-category push preferences
func (r *PostgresUserRepository) UpdateNotificationSettings(userID uint, settings models.NotificationSettings) error {
	return r.db.Model(&models.User{}).Where("id = ?", userID).Updates(map[string]any{
		"notify_likes":        settings.Likes,
		"notify_comments":     settings.Comments,
		"notify_messages":     settings.Messages,
		"notify_publications": settings.Publications,
		"notify_employees":    settings.Employees,
	}).Error
}
