package repository

import (
	"errors"

	"quizmaster/internal/model"

	"gorm.io/gorm"
)

type AssignmentRepository interface {
	Create(assignment *model.QuizAssignment) error
	FindByID(id uint) (*model.QuizAssignment, error)
	// FindForStudent returns assignments targeting the student directly or
	// through their class.
	FindForStudent(studentID uint, classID *uint) ([]model.QuizAssignment, error)
	// FindForStudentAndQuiz returns the assignment governing (student, quiz),
	// or nil when the quiz was never assigned to them.
	FindForStudentAndQuiz(studentID uint, classID *uint, quizID uint) (*model.QuizAssignment, error)
	Delete(id uint) error
}

type assignmentRepository struct {
	db *gorm.DB
}

func NewAssignmentRepository(db *gorm.DB) AssignmentRepository {
	return &assignmentRepository{db: db}
}

func (r *assignmentRepository) Create(assignment *model.QuizAssignment) error {
	return r.db.Create(assignment).Error
}

func (r *assignmentRepository) FindByID(id uint) (*model.QuizAssignment, error) {
	var assignment model.QuizAssignment
	if err := r.db.First(&assignment, id).Error; err != nil {
		return nil, err
	}
	return &assignment, nil
}

func (r *assignmentRepository) FindForStudent(studentID uint, classID *uint) ([]model.QuizAssignment, error) {
	var assignments []model.QuizAssignment
	query := r.db.Preload("Quiz").Preload("Quiz.Chapter")
	if classID != nil {
		query = query.Where("student_id = ? OR class_id = ?", studentID, *classID)
	} else {
		query = query.Where("student_id = ?", studentID)
	}
	err := query.Order("due_date ASC").Find(&assignments).Error
	return assignments, err
}

func (r *assignmentRepository) FindForStudentAndQuiz(studentID uint, classID *uint, quizID uint) (*model.QuizAssignment, error) {
	var assignment model.QuizAssignment
	query := r.db.Where("quiz_id = ?", quizID)
	if classID != nil {
		query = query.Where("student_id = ? OR class_id = ?", studentID, *classID)
	} else {
		query = query.Where("student_id = ?", studentID)
	}
	err := query.Order("due_date ASC").First(&assignment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}

func (r *assignmentRepository) Delete(id uint) error {
	return r.db.Delete(&model.QuizAssignment{}, id).Error
}
