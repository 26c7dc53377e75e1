package models

import (
	"time"

	"gorm.io/gorm"
)

// Employee represents a directory entry (PostgreSQL)
type Employee struct {
	gorm.Model `json:"-"`
	ID         uint      `json:"id" gorm:"primaryKey"`
	Name       string    `json:"name"`
	Email      string    `json:"email" gorm:"uniqueIndex"`
	Phone      string    `json:"phone"`
	Role       string    `json:"role"`
	Department string    `json:"department" gorm:"default:IT"`
	FaceImage  string    `json:"face_image,omitempty"`
	Status     string    `json:"status" gorm:"size:10;default:offline"` // online, offline, away
	LastSeen   time.Time `json:"last_seen"`
	StartDate  *time.Time `json:"start_date,omitempty"`
	EndDate    *time.Time `json:"end_date,omitempty"`
}

// CreateEmployeeRequest defines the request body for creating an employee
type CreateEmployeeRequest struct {
	Name       string `json:"name" validate:"required,min=2,max=100"`
	Email      string `json:"email" validate:"required,email"`
	Phone      string `json:"phone" validate:"required"`
	Role       string `json:"role,omitempty"`
	Department string `json:"department,omitempty"`
	FaceImage  string `json:"face_image,omitempty" validate:"omitempty,url"`
}

// UpdateEmployeeRequest defines the request body for updating an employee
type UpdateEmployeeRequest struct {
	Name       string `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Phone      string `json:"phone,omitempty"`
	Role       string `json:"role,omitempty"`
	Department string `json:"department,omitempty"`
	Status     string `json:"status,omitempty" validate:"omitempty,oneof=online offline away"`
}
