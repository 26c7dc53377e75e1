package repositories

import (
	"fmt"

	"github.com/centerapp/backend/internal/models"
	"gorm.io/gorm"
)

// LikeRepository defines the interface for publication like operations
type LikeRepository interface {
	CreateLike(like *models.Like) error
	DeleteLike(publicationID string, userID uint) error
	HasUserLiked(publicationID string, userID uint) (bool, error)
	GetLikesCount(publicationID string) (int64, error)
}

type postgresLikeRepository struct {
	db *gorm.DB
}

func NewPostgresLikeRepository(db *gorm.DB) LikeRepository {
	return &postgresLikeRepository{db: db}
}

func (r *postgresLikeRepository) CreateLike(like *models.Like) error {
	return r.db.Create(like).Error
}

func (r *postgresLikeRepository) DeleteLike(publicationID string, userID uint) error {
	res := r.db.Where("publication_id = ? AND user_id = ?", publicationID, userID).Delete(&models.Like{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("like not found")
	}
	return nil
}

func (r *postgresLikeRepository) HasUserLiked(publicationID string, userID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Like{}).Where("publication_id = ? AND user_id = ?", publicationID, userID).Count(&count).Error
	return count > 0, err
}

func (r *postgresLikeRepository) GetLikesCount(publicationID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Like{}).Where("publication_id = ?", publicationID).Count(&count).Error
	return count, err
}
