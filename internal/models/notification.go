package models

import "time"

// Notification categories. They mirror the live event kinds plus "system".
const (
	NotificationTypeLike            = "like"
	NotificationTypeComment         = "comment"
	NotificationTypeMessage         = "message"
	NotificationTypePublication     = "publication"
	NotificationTypeEmployeeCreated = "employee_created"
	NotificationTypeSystem          = "system"
)

// Notification represents a durable user notification (PostgreSQL).
// Once created it is immutable except for the read flag, and only the
// recipient may mark it read or delete it.
type Notification struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	RecipientID uint           `json:"recipient_id" gorm:"index"`
	Type        string         `json:"type" gorm:"size:30;index"`
	Title       string         `json:"title"`
	Message     string         `json:"message"`
	Data        map[string]any `json:"data,omitempty" gorm:"serializer:json"`
	IsRead      bool           `json:"is_read" gorm:"default:false;index"`
	CreatedAt   time.Time      `json:"created_at" gorm:"index"`
}
