package model

import (
	"time"

	"gorm.io/gorm"
)

// QuizAssignment binds a quiz to a single student or to a whole class.
// Exactly one of StudentID / ClassID is set.
type QuizAssignment struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	QuizID       uint           `json:"quiz_id" gorm:"not null;index"`
	Quiz         Quiz           `json:"quiz,omitempty" gorm:"foreignKey:QuizID"`
	StudentID    *uint          `json:"student_id,omitempty" gorm:"index"`
	ClassID      *uint          `json:"class_id,omitempty" gorm:"index"`
	AssignedByID uint           `json:"assigned_by_id" gorm:"not null"`
	DueDate      time.Time      `json:"due_date" gorm:"not null"`
	MaxAttempts  int            `json:"max_attempts" gorm:"not null;default:1"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}
