package service

import (
	"errors"
	"fmt"

	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"quizmaster/internal/dto"
	"quizmaster/internal/model"
	"quizmaster/internal/repository"
)

// ContentService manages the Subject -> Chapter -> Question hierarchy.
type ContentService interface {
	Dashboard(username string) (*dto.AdminDashboardResponse, error)
	ListStudents() ([]dto.UserResponse, error)

	CreateSubject(req dto.SubjectCreateRequest) (*dto.SubjectResponse, error)
	GetSubjectWithChapters(subjectID uint) (*dto.SubjectResponse, error)
	UpdateSubject(subjectID uint, req dto.SubjectCreateRequest) (*dto.SubjectResponse, error)
	DeleteSubject(subjectID uint) error

	CreateChapter(subjectID uint, req dto.ChapterCreateRequest) (*dto.ChapterResponse, error)
	UpdateChapter(chapterID uint, req dto.ChapterCreateRequest) (*dto.ChapterResponse, error)
	DeleteChapter(chapterID uint) error

	CreateQuestion(chapterID uint, req dto.QuestionCreateRequest) (*dto.QuestionResponse, error)
	UpdateQuestion(questionID uint, req dto.QuestionCreateRequest) (*dto.QuestionResponse, error)
	DeleteQuestion(questionID uint) error
	ListChapterQuestions(chapterID uint) ([]dto.QuestionResponse, error)
}

type contentService struct {
	userRepo     repository.UserRepository
	subjectRepo  repository.SubjectRepository
	chapterRepo  repository.ChapterRepository
	questionRepo repository.QuestionRepository
	db           *gorm.DB
}

func NewContentService(
	userRepo repository.UserRepository,
	subjectRepo repository.SubjectRepository,
	chapterRepo repository.ChapterRepository,
	questionRepo repository.QuestionRepository,
	db *gorm.DB,
) ContentService {
	return &contentService{
		userRepo:     userRepo,
		subjectRepo:  subjectRepo,
		chapterRepo:  chapterRepo,
		questionRepo: questionRepo,
		db:           db,
	}
}

func (s *contentService) Dashboard(username string) (*dto.AdminDashboardResponse, error) {
	user, err := s.userRepo.FindByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error looking up user %q: %w", username, err)
	}

	subjects, err := s.subjectRepo.FindAllWithChapterCount()
	if err != nil {
		log.Error().Err(err).Msg("Dashboard: failed to list subjects")
		return nil, fmt.Errorf("error fetching subjects: %w", err)
	}

	resp := dto.AdminDashboardResponse{Name: user.Name, Subjects: []dto.SubjectSummary{}}
	for _, sub := range subjects {
		resp.Subjects = append(resp.Subjects, dto.SubjectSummary{
			ID:           sub.Subject.ID,
			Name:         sub.Subject.Name,
			Description:  sub.Subject.Description,
			ChapterCount: sub.ChapterCount,
		})
	}
	return &resp, nil
}

func (s *contentService) ListStudents() ([]dto.UserResponse, error) {
	students, err := s.userRepo.FindAllStudents()
	if err != nil {
		log.Error().Err(err).Msg("ListStudents: failed to list students")
		return nil, fmt.Errorf("error fetching students: %w", err)
	}

	resp := make([]dto.UserResponse, 0, len(students))
	for i := range students {
		var u dto.UserResponse
		if err := copier.Copy(&u, &students[i]); err != nil {
			return nil, fmt.Errorf("error preparing student response: %w", err)
		}
		u.Role = string(students[i].Role)
		resp = append(resp, u)
	}
	return resp, nil
}

func (s *contentService) CreateSubject(req dto.SubjectCreateRequest) (*dto.SubjectResponse, error) {
	subject := model.Subject{Name: req.Name, Description: req.Description}
	if err := s.subjectRepo.Create(&subject); err != nil {
		log.Error().Err(err).Str("name", req.Name).Msg("CreateSubject: failed to create subject")
		return nil, fmt.Errorf("failed to create subject: %w", err)
	}

	var resp dto.SubjectResponse
	if err := copier.Copy(&resp, &subject); err != nil {
		return nil, fmt.Errorf("error preparing subject response: %w", err)
	}
	return &resp, nil
}

func (s *contentService) GetSubjectWithChapters(subjectID uint) (*dto.SubjectResponse, error) {
	subject, err := s.subjectRepo.FindByIDWithChapters(subjectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error fetching subject %d: %w", subjectID, err)
	}

	var resp dto.SubjectResponse
	if err := copier.Copy(&resp, subject); err != nil {
		return nil, fmt.Errorf("error preparing subject response: %w", err)
	}
	return &resp, nil
}

func (s *contentService) UpdateSubject(subjectID uint, req dto.SubjectCreateRequest) (*dto.SubjectResponse, error) {
	subject, err := s.subjectRepo.FindByID(subjectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error fetching subject %d: %w", subjectID, err)
	}

	subject.Name = req.Name
	subject.Description = req.Description
	if err := s.subjectRepo.Update(subject); err != nil {
		log.Error().Err(err).Uint("subjectID", subjectID).Msg("UpdateSubject: failed to update subject")
		return nil, fmt.Errorf("failed to update subject: %w", err)
	}

	var resp dto.SubjectResponse
	if err := copier.Copy(&resp, subject); err != nil {
		return nil, fmt.Errorf("error preparing subject response: %w", err)
	}
	return &resp, nil
}

// DeleteSubject removes a subject with its chapters and questions in one
// transaction, mirroring the relational cascade on soft-deleted rows.
func (s *contentService) DeleteSubject(subjectID uint) error {
	if _, err := s.subjectRepo.FindByID(subjectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("error fetching subject %d: %w", subjectID, err)
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		var chapterIDs []uint
		if err := tx.Model(&model.Chapter{}).Where("subject_id = ?", subjectID).Pluck("id", &chapterIDs).Error; err != nil {
			return fmt.Errorf("failed to list chapters of subject %d: %w", subjectID, err)
		}
		if len(chapterIDs) > 0 {
			if err := tx.Where("chapter_id IN ?", chapterIDs).Delete(&model.Question{}).Error; err != nil {
				return fmt.Errorf("failed to delete questions: %w", err)
			}
			if err := tx.Where("subject_id = ?", subjectID).Delete(&model.Chapter{}).Error; err != nil {
				return fmt.Errorf("failed to delete chapters: %w", err)
			}
		}
		if err := tx.Delete(&model.Subject{}, subjectID).Error; err != nil {
			return fmt.Errorf("failed to delete subject: %w", err)
		}
		return nil
	})
}

func (s *contentService) CreateChapter(subjectID uint, req dto.ChapterCreateRequest) (*dto.ChapterResponse, error) {
	if _, err := s.subjectRepo.FindByID(subjectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error fetching subject %d: %w", subjectID, err)
	}

	chapter := model.Chapter{Name: req.Name, Description: req.Description, SubjectID: subjectID}
	if err := s.chapterRepo.Create(&chapter); err != nil {
		log.Error().Err(err).Uint("subjectID", subjectID).Msg("CreateChapter: failed to create chapter")
		return nil, fmt.Errorf("failed to create chapter: %w", err)
	}

	var resp dto.ChapterResponse
	if err := copier.Copy(&resp, &chapter); err != nil {
		return nil, fmt.Errorf("error preparing chapter response: %w", err)
	}
	return &resp, nil
}

func (s *contentService) UpdateChapter(chapterID uint, req dto.ChapterCreateRequest) (*dto.ChapterResponse, error) {
	chapter, err := s.chapterRepo.FindByID(chapterID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error fetching chapter %d: %w", chapterID, err)
	}

	chapter.Name = req.Name
	chapter.Description = req.Description
	if err := s.chapterRepo.Update(chapter); err != nil {
		log.Error().Err(err).Uint("chapterID", chapterID).Msg("UpdateChapter: failed to update chapter")
		return nil, fmt.Errorf("failed to update chapter: %w", err)
	}

	var resp dto.ChapterResponse
	if err := copier.Copy(&resp, chapter); err != nil {
		return nil, fmt.Errorf("error preparing chapter response: %w", err)
	}
	return &resp, nil
}

func (s *contentService) DeleteChapter(chapterID uint) error {
	if _, err := s.chapterRepo.FindByID(chapterID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("error fetching chapter %d: %w", chapterID, err)
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("chapter_id = ?", chapterID).Delete(&model.Question{}).Error; err != nil {
			return fmt.Errorf("failed to delete questions of chapter %d: %w", chapterID, err)
		}
		if err := tx.Delete(&model.Chapter{}, chapterID).Error; err != nil {
			return fmt.Errorf("failed to delete chapter %d: %w", chapterID, err)
		}
		return nil
	})
}

func (s *contentService) CreateQuestion(chapterID uint, req dto.QuestionCreateRequest) (*dto.QuestionResponse, error) {
	if _, err := s.chapterRepo.FindByID(chapterID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error fetching chapter %d: %w", chapterID, err)
	}

	marks := req.Marks
	if marks <= 0 {
		marks = 1
	}
	question := model.Question{
		ChapterID:     chapterID,
		Title:         req.Title,
		Text:          req.Text,
		Option1:       req.Option1,
		Option2:       req.Option2,
		Option3:       req.Option3,
		Option4:       req.Option4,
		CorrectOption: req.CorrectOption,
		Marks:         marks,
	}
	if err := s.questionRepo.Create(&question); err != nil {
		log.Error().Err(err).Uint("chapterID", chapterID).Msg("CreateQuestion: failed to create question")
		return nil, fmt.Errorf("failed to create question: %w", err)
	}

	var resp dto.QuestionResponse
	if err := copier.Copy(&resp, &question); err != nil {
		return nil, fmt.Errorf("error preparing question response: %w", err)
	}
	return &resp, nil
}

func (s *contentService) UpdateQuestion(questionID uint, req dto.QuestionCreateRequest) (*dto.QuestionResponse, error) {
	question, err := s.questionRepo.FindByID(questionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error fetching question %d: %w", questionID, err)
	}

	question.Title = req.Title
	question.Text = req.Text
	question.Option1 = req.Option1
	question.Option2 = req.Option2
	question.Option3 = req.Option3
	question.Option4 = req.Option4
	question.CorrectOption = req.CorrectOption
	if req.Marks > 0 {
		question.Marks = req.Marks
	}
	if err := s.questionRepo.Update(question); err != nil {
		log.Error().Err(err).Uint("questionID", questionID).Msg("UpdateQuestion: failed to update question")
		return nil, fmt.Errorf("failed to update question: %w", err)
	}

	var resp dto.QuestionResponse
	if err := copier.Copy(&resp, question); err != nil {
		return nil, fmt.Errorf("error preparing question response: %w", err)
	}
	return &resp, nil
}

func (s *contentService) DeleteQuestion(questionID uint) error {
	if _, err := s.questionRepo.FindByID(questionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("error fetching question %d: %w", questionID, err)
	}
	return s.questionRepo.Delete(questionID)
}

func (s *contentService) ListChapterQuestions(chapterID uint) ([]dto.QuestionResponse, error) {
	if _, err := s.chapterRepo.FindByID(chapterID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error fetching chapter %d: %w", chapterID, err)
	}

	questions, err := s.questionRepo.FindByChapterID(chapterID)
	if err != nil {
		return nil, fmt.Errorf("error fetching questions of chapter %d: %w", chapterID, err)
	}

	resp := make([]dto.QuestionResponse, 0, len(questions))
	for i := range questions {
		var q dto.QuestionResponse
		if err := copier.Copy(&q, &questions[i]); err != nil {
			return nil, fmt.Errorf("error preparing question response: %w", err)
		}
		resp = append(resp, q)
	}
	return resp, nil
}
