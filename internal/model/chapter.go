package model

import (
	"time"

	"gorm.io/gorm"
)

type Chapter struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	Name        string         `json:"name" gorm:"not null"`
	Description string         `json:"description,omitempty" gorm:"type:text"`
	SubjectID   uint           `json:"subject_id" gorm:"not null;index"`
	Questions   []Question     `json:"questions,omitempty" gorm:"foreignKey:ChapterID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}
