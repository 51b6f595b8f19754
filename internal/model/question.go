package model

import (
	"time"

	"gorm.io/gorm"
)

type Question struct {
	ID            uint           `gorm:"primarykey" json:"id"`
	ChapterID     uint           `json:"chapter_id" gorm:"not null;index"`
	Title         string         `json:"title" gorm:"not null"`
	Text          string         `json:"text" gorm:"type:text;not null"`
	Option1       string         `json:"option1" gorm:"not null"`
	Option2       string         `json:"option2" gorm:"not null"`
	Option3       string         `json:"option3" gorm:"not null"`
	Option4       string         `json:"option4" gorm:"not null"`
	CorrectOption string         `json:"correct_option" gorm:"type:varchar(1);not null"` // "1".."4"
	Marks         int            `json:"marks" gorm:"not null;default:1"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}
