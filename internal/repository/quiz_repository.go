package repository

import (
	"quizmaster/internal/model"

	"gorm.io/gorm"
)

type QuizRepository interface {
	Create(quiz *model.Quiz) error
	FindByID(id uint) (*model.Quiz, error)
	FindByIDWithChapter(id uint) (*model.Quiz, error)
	FindAll() ([]model.Quiz, error)
	FindActive() ([]model.Quiz, error)
	Update(quiz *model.Quiz) error
}

type quizRepository struct {
	db *gorm.DB
}

func NewQuizRepository(db *gorm.DB) QuizRepository {
	return &quizRepository{db: db}
}

func (r *quizRepository) Create(quiz *model.Quiz) error {
	return r.db.Create(quiz).Error
}

func (r *quizRepository) FindByID(id uint) (*model.Quiz, error) {
	var quiz model.Quiz
	if err := r.db.First(&quiz, id).Error; err != nil {
		return nil, err
	}
	return &quiz, nil
}

func (r *quizRepository) FindByIDWithChapter(id uint) (*model.Quiz, error) {
	var quiz model.Quiz
	if err := r.db.Preload("Chapter").First(&quiz, id).Error; err != nil {
		return nil, err
	}
	return &quiz, nil
}

func (r *quizRepository) FindAll() ([]model.Quiz, error) {
	var quizzes []model.Quiz
	err := r.db.Preload("Chapter").Order("quiz_date ASC").Find(&quizzes).Error
	return quizzes, err
}

func (r *quizRepository) FindActive() ([]model.Quiz, error) {
	var quizzes []model.Quiz
	err := r.db.Preload("Chapter").Where("active = ?", true).Order("quiz_date ASC").Find(&quizzes).Error
	return quizzes, err
}

func (r *quizRepository) Update(quiz *model.Quiz) error {
	return r.db.Save(quiz).Error
}
