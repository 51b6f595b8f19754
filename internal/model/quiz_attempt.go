package model

import (
	"time"

	"gorm.io/gorm"
)

// QuizAttempt is one student's pass at a quiz. CompletedAt == nil marks an
// open attempt; the partial unique index on (student_id, quiz_id) for open
// rows keeps concurrent starts from creating duplicates.
type QuizAttempt struct {
	ID        uint `gorm:"primarykey" json:"id"`
	QuizID    uint `json:"quiz_id" gorm:"not null;index"`
	Quiz      Quiz `json:"quiz,omitempty" gorm:"foreignKey:QuizID"`
	StudentID uint `json:"student_id" gorm:"not null;index"`
	User      User `json:"-" gorm:"foreignKey:StudentID"`
	StartedAt time.Time  `json:"started_at" gorm:"not null"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	TimeTaken   int        `json:"time_taken"` // seconds
	Score       int        `json:"score" gorm:"not null;default:0"`
	// TotalMarks is copied from the quiz when the attempt is created and is
	// never re-derived afterwards.
	TotalMarks int             `json:"total_marks" gorm:"not null"`
	Percentage float64         `json:"percentage" gorm:"not null;default:0"`
	Answers    []StudentAnswer `json:"answers,omitempty" gorm:"foreignKey:AttemptID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
	DeletedAt  gorm.DeletedAt  `gorm:"index" json:"-"`
}

// Completed reports whether the attempt has been finalized.
func (a *QuizAttempt) Completed() bool {
	return a.CompletedAt != nil
}
