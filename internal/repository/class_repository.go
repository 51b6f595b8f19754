package repository

import (
	"quizmaster/internal/model"

	"gorm.io/gorm"
)

type ClassRepository interface {
	Create(class *model.Class) error
	FindByID(id uint) (*model.Class, error)
	FindAll() ([]model.Class, error)
}

type classRepository struct {
	db *gorm.DB
}

func NewClassRepository(db *gorm.DB) ClassRepository {
	return &classRepository{db: db}
}

func (r *classRepository) Create(class *model.Class) error {
	return r.db.Create(class).Error
}

func (r *classRepository) FindByID(id uint) (*model.Class, error) {
	var class model.Class
	if err := r.db.First(&class, id).Error; err != nil {
		return nil, err
	}
	return &class, nil
}

func (r *classRepository) FindAll() ([]model.Class, error) {
	var classes []model.Class
	err := r.db.Order("name ASC").Find(&classes).Error
	return classes, err
}
