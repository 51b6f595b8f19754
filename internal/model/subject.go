package model

import (
	"time"

	"gorm.io/gorm"
)

type Subject struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	Name        string         `json:"name" gorm:"not null;uniqueIndex"`
	Description string         `json:"description,omitempty" gorm:"type:text"`
	Chapters    []Chapter      `json:"chapters,omitempty" gorm:"foreignKey:SubjectID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}
