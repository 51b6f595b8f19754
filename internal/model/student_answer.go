package model

import (
	"time"

	"gorm.io/gorm"
)

// StudentAnswer records one answered question within an attempt. Unanswered
// questions produce no row. Rows are deleted with their parent attempt.
type StudentAnswer struct {
	ID             uint           `gorm:"primarykey" json:"id"`
	AttemptID      uint           `json:"attempt_id" gorm:"not null;index"`
	QuestionID     uint           `json:"question_id" gorm:"not null;index"`
	Question       Question       `json:"question,omitempty" gorm:"foreignKey:QuestionID"`
	SelectedOption string         `json:"selected_option" gorm:"type:varchar(1);not null"`
	IsCorrect      bool           `json:"is_correct" gorm:"not null"`
	MarksObtained  int            `json:"marks_obtained" gorm:"not null"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}
