package model

import (
	"time"

	"gorm.io/gorm"
)

type Quiz struct {
	ID        uint    `gorm:"primarykey" json:"id"`
	ChapterID uint    `json:"chapter_id" gorm:"not null;index"`
	Chapter   Chapter `json:"chapter,omitempty" gorm:"foreignKey:ChapterID"`
	Title     string  `json:"title,omitempty"`
	QuizDate  time.Time `json:"quiz_date" gorm:"type:date;not null"`
	Duration  int       `json:"duration" gorm:"not null"` // minutes, advisory only
	// TotalMarks is set by the admin independently of the chapter's question
	// marks and is snapshotted onto each attempt.
	TotalMarks       int            `json:"total_marks" gorm:"not null"`
	ShuffleQuestions bool           `json:"shuffle_questions" gorm:"default:false"`
	ShowAnswers      bool           `json:"show_answers" gorm:"default:false"`
	Active           bool           `json:"active" gorm:"default:true"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
}
