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

type QuizService interface {
	CreateQuiz(req dto.QuizCreateRequest) (*dto.QuizResponse, error)
	GetQuiz(quizID uint) (*dto.QuizResponse, error)
	ListQuizzes() ([]dto.QuizResponse, error)
	ListActiveQuizzes() ([]dto.QuizResponse, error)
	SetActive(quizID uint, active bool) (*dto.QuizResponse, error)
}

type quizService struct {
	quizRepo    repository.QuizRepository
	chapterRepo repository.ChapterRepository
}

func NewQuizService(quizRepo repository.QuizRepository, chapterRepo repository.ChapterRepository) QuizService {
	return &quizService{quizRepo: quizRepo, chapterRepo: chapterRepo}
}

func quizToDTO(quiz *model.Quiz) dto.QuizResponse {
	resp := dto.QuizResponse{
		ID:               quiz.ID,
		ChapterID:        quiz.ChapterID,
		Title:            quiz.Title,
		QuizDate:         quiz.QuizDate,
		Duration:         quiz.Duration,
		TotalMarks:       quiz.TotalMarks,
		ShuffleQuestions: quiz.ShuffleQuestions,
		ShowAnswers:      quiz.ShowAnswers,
		Active:           quiz.Active,
	}
	if quiz.Chapter.ID != 0 {
		resp.ChapterName = quiz.Chapter.Name
	}
	return resp
}

func (s *quizService) CreateQuiz(req dto.QuizCreateRequest) (*dto.QuizResponse, error) {
	if _, err := s.chapterRepo.FindByID(req.ChapterID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error fetching chapter %d: %w", req.ChapterID, err)
	}

	quizDate, err := time.Parse("2006-01-02", req.QuizDate)
	if err != nil {
		return nil, fmt.Errorf("invalid quiz date %q: %w", req.QuizDate, err)
	}

	// TotalMarks is stored exactly as given. It is not reconciled against
	// the sum of the chapter's question marks.
	quiz := model.Quiz{
		ChapterID:        req.ChapterID,
		Title:            req.Title,
		QuizDate:         quizDate,
		Duration:         req.Duration,
		TotalMarks:       req.TotalMarks,
		ShuffleQuestions: req.ShuffleQuestions,
		ShowAnswers:      req.ShowAnswers,
		Active:           true,
	}
	if err := s.quizRepo.Create(&quiz); err != nil {
		log.Error().Err(err).Uint("chapterID", req.ChapterID).Msg("CreateQuiz: failed to create quiz")
		return nil, fmt.Errorf("failed to create quiz: %w", err)
	}

	resp := quizToDTO(&quiz)
	return &resp, nil
}

func (s *quizService) GetQuiz(quizID uint) (*dto.QuizResponse, error) {
	quiz, err := s.quizRepo.FindByIDWithChapter(quizID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error fetching quiz %d: %w", quizID, err)
	}
	resp := quizToDTO(quiz)
	return &resp, nil
}

func (s *quizService) ListQuizzes() ([]dto.QuizResponse, error) {
	quizzes, err := s.quizRepo.FindAll()
	if err != nil {
		return nil, fmt.Errorf("error fetching quizzes: %w", err)
	}
	resp := make([]dto.QuizResponse, 0, len(quizzes))
	for i := range quizzes {
		resp = append(resp, quizToDTO(&quizzes[i]))
	}
	return resp, nil
}

func (s *quizService) ListActiveQuizzes() ([]dto.QuizResponse, error) {
	quizzes, err := s.quizRepo.FindActive()
	if err != nil {
		return nil, fmt.Errorf("error fetching active quizzes: %w", err)
	}
	resp := make([]dto.QuizResponse, 0, len(quizzes))
	for i := range quizzes {
		resp = append(resp, quizToDTO(&quizzes[i]))
	}
	return resp, nil
}

func (s *quizService) SetActive(quizID uint, active bool) (*dto.QuizResponse, error) {
	quiz, err := s.quizRepo.FindByID(quizID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error fetching quiz %d: %w", quizID, err)
	}

	quiz.Active = active
	if err := s.quizRepo.Update(quiz); err != nil {
		log.Error().Err(err).Uint("quizID", quizID).Msg("SetActive: failed to update quiz")
		return nil, fmt.Errorf("failed to update quiz: %w", err)
	}
	resp := quizToDTO(quiz)
	return &resp, nil
}
