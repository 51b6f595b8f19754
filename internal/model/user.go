package model

import (
	"time"

	"gorm.io/gorm"

	"quizmaster/internal/auth"
)

type User struct {
	ID            uint           `gorm:"primarykey" json:"id"`
	Name          string         `json:"name" gorm:"not null"`
	Username      string         `json:"username" gorm:"not null;uniqueIndex"`
	PasswordHash  string         `json:"-" gorm:"not null"`
	DOB           time.Time      `json:"dob" gorm:"type:date;not null"`
	Qualification string         `json:"qualification" gorm:"not null"`
	Role          auth.Role      `json:"role" gorm:"type:varchar(20);not null;index"`
	AdminID       *uint          `json:"admin_id,omitempty" gorm:"index"` // managing admin, students only
	ClassID       *uint          `json:"class_id,omitempty" gorm:"index"`
	Class         *Class         `json:"class,omitempty" gorm:"foreignKey:ClassID"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}
