package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"quizmaster/internal/dto"
	"quizmaster/internal/model"
	"quizmaster/internal/repository"
)

type AssignmentService interface {
	// AssignQuiz records a quiz assignment for a student or a class.
	// Exactly one of StudentID / ClassID must be set.
	AssignQuiz(assignedBy uint, req dto.AssignQuizRequest) (*dto.AssignmentResponse, error)
	Unassign(assignmentID uint) error
	ListForStudent(studentID uint) ([]dto.AssignmentResponse, error)

	CreateClass(req dto.ClassCreateRequest) (*dto.ClassResponse, error)
	ListClasses() ([]dto.ClassResponse, error)
}

type assignmentService struct {
	assignmentRepo repository.AssignmentRepository
	quizRepo       repository.QuizRepository
	userRepo       repository.UserRepository
	classRepo      repository.ClassRepository
}

func NewAssignmentService(
	assignmentRepo repository.AssignmentRepository,
	quizRepo repository.QuizRepository,
	userRepo repository.UserRepository,
	classRepo repository.ClassRepository,
) AssignmentService {
	return &assignmentService{
		assignmentRepo: assignmentRepo,
		quizRepo:       quizRepo,
		userRepo:       userRepo,
		classRepo:      classRepo,
	}
}

func (s *assignmentService) AssignQuiz(assignedBy uint, req dto.AssignQuizRequest) (*dto.AssignmentResponse, error) {
	if (req.StudentID == nil) == (req.ClassID == nil) {
		return nil, fmt.Errorf("exactly one of student_id or class_id must be set")
	}

	quiz, err := s.quizRepo.FindByIDWithChapter(req.QuizID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error fetching quiz %d: %w", req.QuizID, err)
	}

	if req.StudentID != nil {
		if _, err := s.userRepo.FindByID(*req.StudentID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrNotFound
			}
			return nil, fmt.Errorf("error fetching student %d: %w", *req.StudentID, err)
		}
	}
	if req.ClassID != nil {
		if _, err := s.classRepo.FindByID(*req.ClassID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrNotFound
			}
			return nil, fmt.Errorf("error fetching class %d: %w", *req.ClassID, err)
		}
	}

	dueDate, err := time.Parse("2006-01-02", req.DueDate)
	if err != nil {
		return nil, fmt.Errorf("invalid due date %q: %w", req.DueDate, err)
	}

	assignment := model.QuizAssignment{
		QuizID:       req.QuizID,
		StudentID:    req.StudentID,
		ClassID:      req.ClassID,
		AssignedByID: assignedBy,
		DueDate:      dueDate,
		MaxAttempts:  req.MaxAttempts,
	}
	if err := s.assignmentRepo.Create(&assignment); err != nil {
		log.Error().Err(err).Uint("quizID", req.QuizID).Msg("AssignQuiz: failed to create assignment")
		return nil, fmt.Errorf("failed to create assignment: %w", err)
	}

	resp := dto.AssignmentResponse{
		ID:          assignment.ID,
		Quiz:        quizToDTO(quiz),
		StudentID:   assignment.StudentID,
		ClassID:     assignment.ClassID,
		DueDate:     assignment.DueDate,
		MaxAttempts: assignment.MaxAttempts,
	}
	return &resp, nil
}

func (s *assignmentService) Unassign(assignmentID uint) error {
	if _, err := s.assignmentRepo.FindByID(assignmentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("error fetching assignment %d: %w", assignmentID, err)
	}
	return s.assignmentRepo.Delete(assignmentID)
}

func (s *assignmentService) CreateClass(req dto.ClassCreateRequest) (*dto.ClassResponse, error) {
	class := model.Class{Name: req.Name, Description: req.Description}
	if err := s.classRepo.Create(&class); err != nil {
		log.Error().Err(err).Str("name", req.Name).Msg("CreateClass: failed to create class")
		return nil, fmt.Errorf("failed to create class: %w", err)
	}
	return &dto.ClassResponse{ID: class.ID, Name: class.Name, Description: class.Description}, nil
}

func (s *assignmentService) ListClasses() ([]dto.ClassResponse, error) {
	classes, err := s.classRepo.FindAll()
	if err != nil {
		return nil, fmt.Errorf("error fetching classes: %w", err)
	}
	resp := make([]dto.ClassResponse, 0, len(classes))
	for _, c := range classes {
		resp = append(resp, dto.ClassResponse{ID: c.ID, Name: c.Name, Description: c.Description})
	}
	return resp, nil
}

func (s *assignmentService) ListForStudent(studentID uint) ([]dto.AssignmentResponse, error) {
	student, err := s.userRepo.FindByID(studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error fetching student %d: %w", studentID, err)
	}

	assignments, err := s.assignmentRepo.FindForStudent(studentID, student.ClassID)
	if err != nil {
		return nil, fmt.Errorf("error fetching assignments for student %d: %w", studentID, err)
	}

	resp := make([]dto.AssignmentResponse, 0, len(assignments))
	for i := range assignments {
		a := &assignments[i]
		resp = append(resp, dto.AssignmentResponse{
			ID:          a.ID,
			Quiz:        quizToDTO(&a.Quiz),
			StudentID:   a.StudentID,
			ClassID:     a.ClassID,
			DueDate:     a.DueDate,
			MaxAttempts: a.MaxAttempts,
		})
	}
	return resp, nil
}
