package repository

import (
	"errors"

	"quizmaster/internal/model"

	"gorm.io/gorm"
)

type AttemptRepository interface {
	FindByID(id uint) (*model.QuizAttempt, error)
	FindByIDWithDetails(id uint) (*model.QuizAttempt, error)
	// FindOpenByStudentAndQuiz returns the single open attempt for the pair,
	// or nil when none exists.
	FindOpenByStudentAndQuiz(studentID, quizID uint) (*model.QuizAttempt, error)
	CountCompletedByStudentAndQuiz(studentID, quizID uint) (int64, error)
	FindAllByStudent(studentID uint) ([]model.QuizAttempt, error)
}

type attemptRepository struct {
	db *gorm.DB
}

func NewAttemptRepository(db *gorm.DB) AttemptRepository {
	return &attemptRepository{db: db}
}

func (r *attemptRepository) FindByID(id uint) (*model.QuizAttempt, error) {
	var attempt model.QuizAttempt
	if err := r.db.First(&attempt, id).Error; err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (r *attemptRepository) FindByIDWithDetails(id uint) (*model.QuizAttempt, error) {
	var attempt model.QuizAttempt
	err := r.db.
		Preload("Quiz").
		Preload("Answers", func(db *gorm.DB) *gorm.DB {
			return db.Order("student_answers.question_id ASC")
		}).
		Preload("Answers.Question").
		First(&attempt, id).Error
	if err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (r *attemptRepository) FindOpenByStudentAndQuiz(studentID, quizID uint) (*model.QuizAttempt, error) {
	var attempt model.QuizAttempt
	err := r.db.
		Where("student_id = ? AND quiz_id = ? AND completed_at IS NULL", studentID, quizID).
		First(&attempt).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (r *attemptRepository) CountCompletedByStudentAndQuiz(studentID, quizID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.QuizAttempt{}).
		Where("student_id = ? AND quiz_id = ? AND completed_at IS NOT NULL", studentID, quizID).
		Count(&count).Error
	return count, err
}

func (r *attemptRepository) FindAllByStudent(studentID uint) ([]model.QuizAttempt, error) {
	var attempts []model.QuizAttempt
	err := r.db.Preload("Quiz").
		Where("student_id = ?", studentID).
		Order("started_at DESC").
		Find(&attempts).Error
	return attempts, err
}
