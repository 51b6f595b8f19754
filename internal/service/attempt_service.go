package service

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"quizmaster/internal/auth"
	"quizmaster/internal/dto"
	"quizmaster/internal/model"
	"quizmaster/internal/repository"
)

// AttemptService is the quiz attempt engine: it opens attempts, serves the
// question set, and performs the one-shot scoring on submission.
type AttemptService interface {
	// Start opens an attempt for (student, quiz), or resumes the existing
	// open one. Starting twice never creates two attempts.
	Start(studentID, quizID uint) (*dto.StartAttemptResponse, error)
	// Render returns the attempt's question set for taking the quiz.
	Render(identity auth.Identity, attemptID uint) (*dto.TakeQuizResponse, error)
	// Submit grades the supplied answers and finalizes the attempt. It is
	// atomic and at-most-once: a second call returns ErrAlreadyCompleted
	// and changes nothing.
	Submit(identity auth.Identity, attemptID uint, req dto.SubmitAttemptRequest) (*dto.ScoreSummary, error)
	// Results returns the graded attempt for display.
	Results(identity auth.Identity, attemptID uint) (*dto.AttemptResultResponse, error)
	ListForStudent(studentID uint) ([]dto.AttemptSummary, error)
}

type attemptService struct {
	quizRepo       repository.QuizRepository
	questionRepo   repository.QuestionRepository
	attemptRepo    repository.AttemptRepository
	assignmentRepo repository.AssignmentRepository
	userRepo       repository.UserRepository
	db             *gorm.DB
}

func NewAttemptService(
	quizRepo repository.QuizRepository,
	questionRepo repository.QuestionRepository,
	attemptRepo repository.AttemptRepository,
	assignmentRepo repository.AssignmentRepository,
	userRepo repository.UserRepository,
	db *gorm.DB,
) AttemptService {
	return &attemptService{
		quizRepo:       quizRepo,
		questionRepo:   questionRepo,
		attemptRepo:    attemptRepo,
		assignmentRepo: assignmentRepo,
		userRepo:       userRepo,
		db:             db,
	}
}

func (s *attemptService) Start(studentID, quizID uint) (*dto.StartAttemptResponse, error) {
	quiz, err := s.quizRepo.FindByID(quizID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error fetching quiz %d: %w", quizID, err)
	}
	if !quiz.Active {
		return nil, ErrQuizInactive
	}

	if err := s.checkAssignment(studentID, quizID); err != nil {
		return nil, err
	}

	var attempt model.QuizAttempt
	resumed := false
	err = s.db.Transaction(func(tx *gorm.DB) error {
		var open model.QuizAttempt
		findErr := tx.Where("student_id = ? AND quiz_id = ? AND completed_at IS NULL", studentID, quizID).
			First(&open).Error
		if findErr == nil {
			attempt = open
			resumed = true
			return nil
		}
		if !errors.Is(findErr, gorm.ErrRecordNotFound) {
			return fmt.Errorf("error looking up open attempt: %w", findErr)
		}

		attempt = model.QuizAttempt{
			QuizID:     quizID,
			StudentID:  studentID,
			StartedAt:  time.Now(),
			Score:      0,
			TotalMarks: quiz.TotalMarks,
			Percentage: 0,
		}
		if createErr := tx.Create(&attempt).Error; createErr != nil {
			return createErr
		}
		return nil
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// Lost the race against a concurrent start: the partial unique index
		// on open attempts rejected the insert. The winner's row is the
		// attempt to resume.
		open, findErr := s.attemptRepo.FindOpenByStudentAndQuiz(studentID, quizID)
		if findErr != nil {
			return nil, fmt.Errorf("error resolving concurrent start: %w", findErr)
		}
		if open == nil {
			return nil, fmt.Errorf("concurrent start detected but no open attempt found: %w", err)
		}
		attempt = *open
		resumed = true
	} else if err != nil {
		log.Error().Err(err).Uint("studentID", studentID).Uint("quizID", quizID).Msg("Start: failed to open attempt")
		return nil, fmt.Errorf("failed to start attempt: %w", err)
	}

	if resumed {
		log.Info().Uint("attemptID", attempt.ID).Uint("studentID", studentID).Msg("Resuming open attempt")
	} else {
		log.Info().Uint("attemptID", attempt.ID).Uint("studentID", studentID).Uint("quizID", quizID).Msg("Attempt started")
	}
	return &dto.StartAttemptResponse{
		AttemptID: attempt.ID,
		QuizID:    attempt.QuizID,
		StartedAt: attempt.StartedAt,
		Resumed:   resumed,
	}, nil
}

// checkAssignment enforces due date and attempt cap when the quiz has been
// assigned to the student (directly or through their class). Unassigned
// quizzes stay startable.
func (s *attemptService) checkAssignment(studentID, quizID uint) error {
	student, err := s.userRepo.FindByID(studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("error fetching student %d: %w", studentID, err)
	}

	assignment, err := s.assignmentRepo.FindForStudentAndQuiz(studentID, student.ClassID, quizID)
	if err != nil {
		return fmt.Errorf("error fetching assignment: %w", err)
	}
	if assignment == nil {
		return nil
	}

	// The due date itself is still open; the quiz closes at the following
	// midnight.
	if time.Now().After(assignment.DueDate.AddDate(0, 0, 1)) {
		return ErrQuizClosed
	}

	completed, err := s.attemptRepo.CountCompletedByStudentAndQuiz(studentID, quizID)
	if err != nil {
		return fmt.Errorf("error counting attempts: %w", err)
	}
	if completed >= int64(assignment.MaxAttempts) {
		return ErrAttemptLimit
	}
	return nil
}

func (s *attemptService) Render(identity auth.Identity, attemptID uint) (*dto.TakeQuizResponse, error) {
	attempt, err := s.attemptRepo.FindByID(attemptID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error fetching attempt %d: %w", attemptID, err)
	}
	if attempt.StudentID != identity.UserID {
		return nil, ErrUnauthorized
	}
	if attempt.Completed() {
		return nil, ErrAlreadyCompleted
	}

	quiz, err := s.quizRepo.FindByID(attempt.QuizID)
	if err != nil {
		return nil, fmt.Errorf("error fetching quiz %d: %w", attempt.QuizID, err)
	}
	questions, err := s.questionRepo.FindByChapterID(quiz.ChapterID)
	if err != nil {
		return nil, fmt.Errorf("error fetching questions for chapter %d: %w", quiz.ChapterID, err)
	}

	if quiz.ShuffleQuestions {
		// Per-render shuffle only; nothing is persisted, so a reload may
		// present a different order.
		rand.Shuffle(len(questions), func(i, j int) {
			questions[i], questions[j] = questions[j], questions[i]
		})
	}

	resp := dto.TakeQuizResponse{
		AttemptID:  attempt.ID,
		QuizID:     quiz.ID,
		QuizTitle:  quiz.Title,
		Duration:   quiz.Duration,
		TotalMarks: attempt.TotalMarks,
		StartedAt:  attempt.StartedAt,
		Questions:  make([]dto.TakeQuestion, 0, len(questions)),
	}
	for _, q := range questions {
		resp.Questions = append(resp.Questions, dto.TakeQuestion{
			ID:      q.ID,
			Title:   q.Title,
			Text:    q.Text,
			Option1: q.Option1,
			Option2: q.Option2,
			Option3: q.Option3,
			Option4: q.Option4,
			Marks:   q.Marks,
		})
	}
	return &resp, nil
}

func (s *attemptService) Submit(identity auth.Identity, attemptID uint, req dto.SubmitAttemptRequest) (*dto.ScoreSummary, error) {
	attempt, err := s.attemptRepo.FindByID(attemptID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error fetching attempt %d: %w", attemptID, err)
	}
	if attempt.StudentID != identity.UserID {
		return nil, ErrUnauthorized
	}
	if attempt.Completed() {
		return nil, ErrAlreadyCompleted
	}

	quiz, err := s.quizRepo.FindByID(attempt.QuizID)
	if err != nil {
		return nil, fmt.Errorf("error fetching quiz %d: %w", attempt.QuizID, err)
	}

	var summary dto.ScoreSummary
	err = s.db.Transaction(func(tx *gorm.DB) error {
		var questions []model.Question
		if err := tx.Where("chapter_id = ?", quiz.ChapterID).Order("id ASC").Find(&questions).Error; err != nil {
			return fmt.Errorf("error fetching questions: %w", err)
		}

		score := 0
		var answers []model.StudentAnswer
		for _, q := range questions {
			selected, answered := req.Answers[q.ID]
			if !answered {
				// Unanswered questions get no row and no marks.
				continue
			}
			correct := selected == q.CorrectOption
			obtained := 0
			if correct {
				obtained = q.Marks
			}
			score += obtained
			answers = append(answers, model.StudentAnswer{
				AttemptID:      attempt.ID,
				QuestionID:     q.ID,
				SelectedOption: selected,
				IsCorrect:      correct,
				MarksObtained:  obtained,
			})
		}

		percentage := 0.0
		if attempt.TotalMarks > 0 {
			percentage = 100 * float64(score) / float64(attempt.TotalMarks)
		}

		now := time.Now()
		// Conditional finalization: only the first submit flips
		// completed_at, so a racing duplicate rolls back without writing
		// any answer rows.
		res := tx.Model(&model.QuizAttempt{}).
			Where("id = ? AND completed_at IS NULL", attempt.ID).
			Updates(map[string]interface{}{
				"completed_at": now,
				"time_taken":   req.ElapsedSeconds,
				"score":        score,
				"percentage":   percentage,
			})
		if res.Error != nil {
			return fmt.Errorf("error finalizing attempt: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrAlreadyCompleted
		}

		if len(answers) > 0 {
			if err := tx.Create(&answers).Error; err != nil {
				return fmt.Errorf("error recording answers: %w", err)
			}
		}

		summary = dto.ScoreSummary{
			AttemptID:  attempt.ID,
			Score:      score,
			TotalMarks: attempt.TotalMarks,
			Percentage: percentage,
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrAlreadyCompleted) {
			return nil, ErrAlreadyCompleted
		}
		log.Error().Err(err).Uint("attemptID", attemptID).Msg("Submit: failed to grade attempt")
		return nil, fmt.Errorf("failed to submit attempt: %w", err)
	}

	log.Info().Uint("attemptID", attempt.ID).Int("score", summary.Score).Float64("percentage", summary.Percentage).Msg("Attempt graded")
	return &summary, nil
}

func (s *attemptService) Results(identity auth.Identity, attemptID uint) (*dto.AttemptResultResponse, error) {
	attempt, err := s.attemptRepo.FindByIDWithDetails(attemptID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error fetching attempt %d: %w", attemptID, err)
	}
	if attempt.StudentID != identity.UserID && !identity.Role.Can(auth.CapViewAllAttempts) {
		return nil, ErrUnauthorized
	}

	resp := dto.AttemptResultResponse{
		AttemptID:   attempt.ID,
		QuizID:      attempt.QuizID,
		QuizTitle:   attempt.Quiz.Title,
		StartedAt:   attempt.StartedAt,
		CompletedAt: attempt.CompletedAt,
		TimeTaken:   attempt.TimeTaken,
		Score:       attempt.Score,
		TotalMarks:  attempt.TotalMarks,
		Percentage:  attempt.Percentage,
		Answers:     make([]dto.AnswerReview, 0, len(attempt.Answers)),
	}
	for _, ans := range attempt.Answers {
		review := dto.AnswerReview{
			QuestionID:     ans.QuestionID,
			QuestionTitle:  ans.Question.Title,
			QuestionText:   ans.Question.Text,
			SelectedOption: ans.SelectedOption,
			IsCorrect:      ans.IsCorrect,
			MarksObtained:  ans.MarksObtained,
		}
		if attempt.Quiz.ShowAnswers {
			review.CorrectOption = ans.Question.CorrectOption
		}
		resp.Answers = append(resp.Answers, review)
	}
	return &resp, nil
}

func (s *attemptService) ListForStudent(studentID uint) ([]dto.AttemptSummary, error) {
	attempts, err := s.attemptRepo.FindAllByStudent(studentID)
	if err != nil {
		return nil, fmt.Errorf("error fetching attempts for student %d: %w", studentID, err)
	}

	resp := make([]dto.AttemptSummary, 0, len(attempts))
	for i := range attempts {
		a := &attempts[i]
		resp = append(resp, dto.AttemptSummary{
			AttemptID:   a.ID,
			QuizID:      a.QuizID,
			QuizTitle:   a.Quiz.Title,
			StartedAt:   a.StartedAt,
			CompletedAt: a.CompletedAt,
			Score:       a.Score,
			TotalMarks:  a.TotalMarks,
			Percentage:  a.Percentage,
		})
	}
	return resp, nil
}
