package model

import (
	"time"

	"gorm.io/gorm"
)

type Class struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	Name        string         `json:"name" gorm:"not null;uniqueIndex"`
	Description string         `json:"description,omitempty" gorm:"type:text"`
	Students    []User         `json:"students,omitempty" gorm:"foreignKey:ClassID"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}
