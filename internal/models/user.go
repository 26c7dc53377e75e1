package models

import (
	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"
)

type User struct {
	gorm.Model   `json:"-"`
	ID           uint   `json:"id" gorm:"primaryKey"`
	Name         string `json:"name"`
	Email        string `json:"email" gorm:"uniqueIndex"` // Ensure email is unique across all users
	Password     string `json:"-"`                        // Store hashed password, ignore for JSON serialization
	ProfileImage string `json:"profile_image,omitempty"`
	Status       string `json:"status" gorm:"size:20;default:active"` // active, blocked, admin
	// FCMToken is the device push token. At most one token per user; the
	// latest registration overwrites the previous one, and it is cleared when
	// the push provider reports it as permanently invalid.
	FCMToken             string               `json:"-" gorm:"size:512"`
	NotificationSettings NotificationSettings `json:"notification_settings" gorm:"embedded;embeddedPrefix:notify_"`
}

// NotificationSettings holds per-category push preferences.
type NotificationSettings struct {
	Likes        bool `json:"likes" gorm:"default:true"`
	Comments     bool `json:"comments" gorm:"default:true"`
	Messages     bool `json:"messages" gorm:"default:true"`
	Publications bool `json:"publications" gorm:"default:true"`
	Employees    bool `json:"employees" gorm:"default:true"`
}

// Allows reports whether push delivery is enabled for a notification category.
// Unknown categories (including system) are always allowed.
func (s NotificationSettings) Allows(category string) bool {
	switch category {
	case NotificationTypeLike:
		return s.Likes
	case NotificationTypeComment:
		return s.Comments
	case NotificationTypeMessage:
		return s.Messages
	case NotificationTypePublication:
		return s.Publications
	case NotificationTypeEmployeeCreated:
		return s.Employees
	default:
		return true
	}
}

// ToCompact returns the public view of a user embedded in other payloads.
func (u *User) ToCompact() UserCompact {
	return UserCompact{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		ProfileImage: u.ProfileImage,
	}
}

// UserCompact is the minimal user representation for enriched responses and events.
type UserCompact struct {
	ID           uint   `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	ProfileImage string `json:"profile_image,omitempty"`
}

type SignupRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type SigninRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UpdateUserRequest struct {
	Name         string `json:"name,omitempty" validate:"omitempty,min=2,max=50"`
	Email        string `json:"email,omitempty" validate:"omitempty,email"`
	ProfileImage string `json:"profile_image,omitempty" validate:"omitempty,url"`
}

type RegisterDeviceTokenRequest struct {
	FCMToken string `json:"fcm_token" validate:"required"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}
