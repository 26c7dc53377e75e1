package repositories

import (
	"fmt"

	"github.com/centerapp/backend/internal/models"
	"gorm.io/gorm"
)

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	CreateComment(comment *models.Comment) error
	GetCommentByID(id uint) (*models.Comment, error)
	GetCommentsByPublicationID(publicationID string) ([]models.Comment, error)
	UpdateComment(comment *models.Comment) error
	DeleteComment(id uint) error
}

// PostgresCommentRepository implements CommentRepository for PostgreSQL
type PostgresCommentRepository struct {
	db *gorm.DB
}

// NewPostgresCommentRepository creates a new PostgresCommentRepository
func NewPostgresCommentRepository(db *gorm.DB) *PostgresCommentRepository {
	return &PostgresCommentRepository{db: db}
}

// CreateComment creates a new comment in PostgreSQL
func (r *PostgresCommentRepository) CreateComment(comment *models.Comment) error {
	return r.db.Create(comment).Error
}

// GetCommentByID retrieves a comment by ID from PostgreSQL
func (r *PostgresCommentRepository) GetCommentByID(id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.First(&comment, id).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// GetCommentsByPublicationID retrieves all comments for a publication
func (r *PostgresCommentRepository) GetCommentsByPublicationID(publicationID string) ([]models.Comment, error) {
	var comments []models.Comment
	if err := r.db.Where("publication_id = ?", publicationID).Order("created_at ASC").Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

// UpdateComment updates an existing comment in PostgreSQL
func (r *PostgresCommentRepository) UpdateComment(comment *models.Comment) error {
	return r.db.Save(comment).Error
}

// DeleteComment deletes a comment by ID from PostgreSQL
func (r *PostgresCommentRepository) DeleteComment(id uint) error {
	return r.db.Delete(&models.Comment{}, id).Error
}

// CommentLikeRepository defines the interface for comment like operations
type CommentLikeRepository interface {
	CreateCommentLike(like *models.CommentLike) error
	DeleteCommentLike(commentID, userID uint) error
	HasUserLikedComment(commentID, userID uint) (bool, error)
	GetLikesCount(commentID uint) (int64, error)
}

type postgresCommentLikeRepository struct {
	db *gorm.DB
}

func NewPostgresCommentLikeRepository(db *gorm.DB) CommentLikeRepository {
	return &postgresCommentLikeRepository{db: db}
}

func (r *postgresCommentLikeRepository) CreateCommentLike(like *models.CommentLike) error {
	return r.db.Create(like).Error
}

func (r *postgresCommentLikeRepository) DeleteCommentLike(commentID, userID uint) error {
	res := r.db.Where("comment_id = ? AND user_id = ?", commentID, userID).Delete(&models.CommentLike{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("comment like not found")
	}
	return nil
}

func (r *postgresCommentLikeRepository) HasUserLikedComment(commentID, userID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.CommentLike{}).Where("comment_id = ? AND user_id = ?", commentID, userID).Count(&count).Error
	return count > 0, err
}

func (r *postgresCommentLikeRepository) GetLikesCount(commentID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.CommentLike{}).Where("comment_id = ?", commentID).Count(&count).Error
	return count, err
}
