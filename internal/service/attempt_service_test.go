package service

import (
	"errors"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"quizmaster/database"
	"quizmaster/internal/auth"
	"quizmaster/internal/dto"
	"quizmaster/internal/model"
	"quizmaster/internal/repository"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap test db: %v", err)
	}
	// One in-memory SQLite database per connection; pin the pool to one.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

func newAttemptService(t *testing.T, db *gorm.DB) AttemptService {
	t.Helper()
	return NewAttemptService(
		repository.NewQuizRepository(db),
		repository.NewQuestionRepository(db),
		repository.NewAttemptRepository(db),
		repository.NewAssignmentRepository(db),
		repository.NewUserRepository(db),
		db,
	)
}

func seedStudent(t *testing.T, db *gorm.DB, username string) *model.User {
	t.Helper()
	user := model.User{
		Name:          "Student " + username,
		Username:      username,
		PasswordHash:  "x",
		DOB:           time.Date(2004, 5, 1, 0, 0, 0, 0, time.UTC),
		Qualification: "high school",
		Role:          auth.RoleStudent,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("seed student: %v", err)
	}
	return &user
}

// seedQuiz creates subject -> chapter -> two questions and a quiz over the
// chapter: Q1 worth 1 mark (correct "1"), Q2 worth 2 marks (correct "3"),
// quiz total_marks 5.
func seedQuiz(t *testing.T, db *gorm.DB) (*model.Quiz, []model.Question) {
	t.Helper()
	subject := model.Subject{Name: "Mathematics", Description: "numbers"}
	if err := db.Create(&subject).Error; err != nil {
		t.Fatalf("seed subject: %v", err)
	}
	chapter := model.Chapter{Name: "Algebra", SubjectID: subject.ID}
	if err := db.Create(&chapter).Error; err != nil {
		t.Fatalf("seed chapter: %v", err)
	}
	questions := []model.Question{
		{ChapterID: chapter.ID, Title: "Q1", Text: "2+2?", Option1: "4", Option2: "5", Option3: "6", Option4: "7", CorrectOption: "1", Marks: 1},
		{ChapterID: chapter.ID, Title: "Q2", Text: "3*3?", Option1: "6", Option2: "8", Option3: "9", Option4: "12", CorrectOption: "3", Marks: 2},
	}
	if err := db.Create(&questions).Error; err != nil {
		t.Fatalf("seed questions: %v", err)
	}
	quiz := model.Quiz{
		ChapterID:  chapter.ID,
		Title:      "Algebra basics",
		QuizDate:   time.Now().AddDate(0, 0, 1),
		Duration:   30,
		TotalMarks: 5,
		Active:     true,
	}
	if err := db.Create(&quiz).Error; err != nil {
		t.Fatalf("seed quiz: %v", err)
	}
	return &quiz, questions
}

func identityFor(user *model.User) auth.Identity {
	return auth.Identity{UserID: user.ID, Username: user.Username, Role: user.Role}
}

func TestStartIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	svc := newAttemptService(t, db)
	student := seedStudent(t, db, "alice")
	quiz, _ := seedQuiz(t, db)

	first, err := svc.Start(student.ID, quiz.ID)
	if err != nil {
		t.Fatalf("first Start: %v", err)
	}
	if first.Resumed {
		t.Error("first start reported resumed")
	}

	second, err := svc.Start(student.ID, quiz.ID)
	if err != nil {
		t.Fatalf("second Start: %v", err)
	}
	if second.AttemptID != first.AttemptID {
		t.Errorf("second start created a new attempt: %d != %d", second.AttemptID, first.AttemptID)
	}
	if !second.Resumed {
		t.Error("second start did not report resumed")
	}

	var count int64
	if err := db.Model(&model.QuizAttempt{}).Where("student_id = ? AND quiz_id = ?", student.ID, quiz.ID).Count(&count).Error; err != nil {
		t.Fatalf("count attempts: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 attempt row, got %d", count)
	}
}

func TestStartSnapshotsTotalMarks(t *testing.T) {
	db := newTestDB(t)
	svc := newAttemptService(t, db)
	student := seedStudent(t, db, "bob")
	quiz, _ := seedQuiz(t, db)

	resp, err := svc.Start(student.ID, quiz.ID)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	// Changing the quiz after the fact must not affect the snapshot.
	if err := db.Model(&model.Quiz{}).Where("id = ?", quiz.ID).Update("total_marks", 99).Error; err != nil {
		t.Fatalf("update quiz: %v", err)
	}

	var attempt model.QuizAttempt
	if err := db.First(&attempt, resp.AttemptID).Error; err != nil {
		t.Fatalf("load attempt: %v", err)
	}
	if attempt.TotalMarks != 5 {
		t.Errorf("expected snapshot total_marks 5, got %d", attempt.TotalMarks)
	}
}

func TestStartInactiveQuiz(t *testing.T) {
	db := newTestDB(t)
	svc := newAttemptService(t, db)
	student := seedStudent(t, db, "carol")
	quiz, _ := seedQuiz(t, db)

	if err := db.Model(&model.Quiz{}).Where("id = ?", quiz.ID).Update("active", false).Error; err != nil {
		t.Fatalf("deactivate quiz: %v", err)
	}
	if _, err := svc.Start(student.ID, quiz.ID); !errors.Is(err, ErrQuizInactive) {
		t.Errorf("expected ErrQuizInactive, got %v", err)
	}
}

func TestStartUnknownQuiz(t *testing.T) {
	db := newTestDB(t)
	svc := newAttemptService(t, db)
	student := seedStudent(t, db, "dave")

	if _, err := svc.Start(student.ID, 9999); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestOpenAttemptUniqueIndex(t *testing.T) {
	db := newTestDB(t)
	student := seedStudent(t, db, "erin")
	quiz, _ := seedQuiz(t, db)

	open := model.QuizAttempt{QuizID: quiz.ID, StudentID: student.ID, StartedAt: time.Now(), TotalMarks: quiz.TotalMarks}
	if err := db.Create(&open).Error; err != nil {
		t.Fatalf("create first open attempt: %v", err)
	}
	dup := model.QuizAttempt{QuizID: quiz.ID, StudentID: student.ID, StartedAt: time.Now(), TotalMarks: quiz.TotalMarks}
	if err := db.Create(&dup).Error; !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Errorf("expected ErrDuplicatedKey for second open attempt, got %v", err)
	}

	// Start must resolve to the existing row instead of failing.
	svc := newAttemptService(t, db)
	resp, err := svc.Start(student.ID, quiz.ID)
	if err != nil {
		t.Fatalf("Start with open attempt present: %v", err)
	}
	if resp.AttemptID != open.ID || !resp.Resumed {
		t.Errorf("expected resume of attempt %d, got %+v", open.ID, resp)
	}
}

func TestSubmitWorkedScenario(t *testing.T) {
	db := newTestDB(t)
	svc := newAttemptService(t, db)
	student := seedStudent(t, db, "frank")
	quiz, questions := seedQuiz(t, db)

	started, err := svc.Start(student.ID, quiz.ID)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	// Q1 answered correctly, Q2 answered incorrectly.
	summary, err := svc.Submit(identityFor(student), started.AttemptID, dto.SubmitAttemptRequest{
		Answers:        map[uint]string{questions[0].ID: "1", questions[1].ID: "2"},
		ElapsedSeconds: 95,
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if summary.Score != 1 {
		t.Errorf("expected score 1, got %d", summary.Score)
	}
	if summary.TotalMarks != 5 {
		t.Errorf("expected total marks 5, got %d", summary.TotalMarks)
	}
	if summary.Percentage != 20.0 {
		t.Errorf("expected percentage 20.0, got %v", summary.Percentage)
	}

	var attempt model.QuizAttempt
	if err := db.First(&attempt, started.AttemptID).Error; err != nil {
		t.Fatalf("load attempt: %v", err)
	}
	if attempt.CompletedAt == nil {
		t.Error("attempt not finalized")
	}
	if attempt.TimeTaken != 95 {
		t.Errorf("expected time_taken 95, got %d", attempt.TimeTaken)
	}
	if attempt.Score != 1 || attempt.Percentage != 20.0 {
		t.Errorf("stored score/percentage mismatch: %d / %v", attempt.Score, attempt.Percentage)
	}

	var answers []model.StudentAnswer
	if err := db.Where("attempt_id = ?", attempt.ID).Order("question_id ASC").Find(&answers).Error; err != nil {
		t.Fatalf("load answers: %v", err)
	}
	if len(answers) != 2 {
		t.Fatalf("expected 2 answer rows, got %d", len(answers))
	}
	if !answers[0].IsCorrect || answers[0].MarksObtained != 1 {
		t.Errorf("Q1 grading wrong: %+v", answers[0])
	}
	if answers[1].IsCorrect || answers[1].MarksObtained != 0 {
		t.Errorf("Q2 grading wrong: %+v", answers[1])
	}
}

func TestSubmitIsAtMostOnce(t *testing.T) {
	db := newTestDB(t)
	svc := newAttemptService(t, db)
	student := seedStudent(t, db, "grace")
	quiz, questions := seedQuiz(t, db)

	started, err := svc.Start(student.ID, quiz.ID)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	first, err := svc.Submit(identityFor(student), started.AttemptID, dto.SubmitAttemptRequest{
		Answers: map[uint]string{questions[0].ID: "1"},
	})
	if err != nil {
		t.Fatalf("first Submit: %v", err)
	}

	// Second submission with different (better) answers must be rejected
	// without persisting anything.
	_, err = svc.Submit(identityFor(student), started.AttemptID, dto.SubmitAttemptRequest{
		Answers: map[uint]string{questions[0].ID: "1", questions[1].ID: "3"},
	})
	if !errors.Is(err, ErrAlreadyCompleted) {
		t.Fatalf("expected ErrAlreadyCompleted, got %v", err)
	}

	var attempt model.QuizAttempt
	if err := db.First(&attempt, started.AttemptID).Error; err != nil {
		t.Fatalf("load attempt: %v", err)
	}
	if attempt.Score != first.Score {
		t.Errorf("score changed after double submit: %d != %d", attempt.Score, first.Score)
	}

	var count int64
	if err := db.Model(&model.StudentAnswer{}).Where("attempt_id = ?", attempt.ID).Count(&count).Error; err != nil {
		t.Fatalf("count answers: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 answer row after double submit, got %d", count)
	}
}

func TestSubmitUnansweredQuestionsProduceNoRows(t *testing.T) {
	db := newTestDB(t)
	svc := newAttemptService(t, db)
	student := seedStudent(t, db, "heidi")
	quiz, _ := seedQuiz(t, db)

	started, err := svc.Start(student.ID, quiz.ID)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	summary, err := svc.Submit(identityFor(student), started.AttemptID, dto.SubmitAttemptRequest{
		Answers: map[uint]string{},
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if summary.Score != 0 {
		t.Errorf("expected score 0, got %d", summary.Score)
	}

	var count int64
	if err := db.Model(&model.StudentAnswer{}).Where("attempt_id = ?", started.AttemptID).Count(&count).Error; err != nil {
		t.Fatalf("count answers: %v", err)
	}
	if count != 0 {
		t.Errorf("expected no answer rows, got %d", count)
	}
}

func TestSubmitZeroTotalMarks(t *testing.T) {
	db := newTestDB(t)
	svc := newAttemptService(t, db)
	student := seedStudent(t, db, "ivan")
	quiz, questions := seedQuiz(t, db)

	if err := db.Model(&model.Quiz{}).Where("id = ?", quiz.ID).Update("total_marks", 0).Error; err != nil {
		t.Fatalf("zero total marks: %v", err)
	}

	started, err := svc.Start(student.ID, quiz.ID)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	summary, err := svc.Submit(identityFor(student), started.AttemptID, dto.SubmitAttemptRequest{
		Answers: map[uint]string{questions[0].ID: "1", questions[1].ID: "3"},
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if summary.Score != 3 {
		t.Errorf("expected score 3, got %d", summary.Score)
	}
	if summary.Percentage != 0 {
		t.Errorf("expected percentage 0 when total marks is 0, got %v", summary.Percentage)
	}
}

func TestSubmitOwnership(t *testing.T) {
	db := newTestDB(t)
	svc := newAttemptService(t, db)
	owner := seedStudent(t, db, "judy")
	intruder := seedStudent(t, db, "mallory")
	quiz, questions := seedQuiz(t, db)

	started, err := svc.Start(owner.ID, quiz.ID)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	_, err = svc.Submit(identityFor(intruder), started.AttemptID, dto.SubmitAttemptRequest{
		Answers: map[uint]string{questions[0].ID: "1"},
	})
	if !errors.Is(err, ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized for foreign submit, got %v", err)
	}
	if _, err := svc.Render(identityFor(intruder), started.AttemptID); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized for foreign render, got %v", err)
	}
}

func TestRenderReturnsQuestionsWithoutAnswers(t *testing.T) {
	db := newTestDB(t)
	svc := newAttemptService(t, db)
	student := seedStudent(t, db, "kate")
	quiz, questions := seedQuiz(t, db)

	started, err := svc.Start(student.ID, quiz.ID)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	resp, err := svc.Render(identityFor(student), started.AttemptID)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if len(resp.Questions) != len(questions) {
		t.Fatalf("expected %d questions, got %d", len(questions), len(resp.Questions))
	}
	// Natural order when shuffle is off.
	for i, q := range resp.Questions {
		if q.ID != questions[i].ID {
			t.Errorf("question order changed without shuffle: pos %d has id %d", i, q.ID)
		}
	}

	// After submission, render redirects to results.
	if _, err := svc.Submit(identityFor(student), started.AttemptID, dto.SubmitAttemptRequest{Answers: map[uint]string{}}); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if _, err := svc.Render(identityFor(student), started.AttemptID); !errors.Is(err, ErrAlreadyCompleted) {
		t.Errorf("expected ErrAlreadyCompleted after submit, got %v", err)
	}
}

func TestResultsHideCorrectOptionUnlessAllowed(t *testing.T) {
	db := newTestDB(t)
	svc := newAttemptService(t, db)
	student := seedStudent(t, db, "leo")
	quiz, questions := seedQuiz(t, db)

	started, err := svc.Start(student.ID, quiz.ID)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if _, err := svc.Submit(identityFor(student), started.AttemptID, dto.SubmitAttemptRequest{
		Answers: map[uint]string{questions[0].ID: "2"},
	}); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	results, err := svc.Results(identityFor(student), started.AttemptID)
	if err != nil {
		t.Fatalf("Results: %v", err)
	}
	if len(results.Answers) != 1 {
		t.Fatalf("expected 1 answer, got %d", len(results.Answers))
	}
	if results.Answers[0].CorrectOption != "" {
		t.Error("correct option exposed while show_answers is off")
	}

	if err := db.Model(&model.Quiz{}).Where("id = ?", quiz.ID).Update("show_answers", true).Error; err != nil {
		t.Fatalf("enable show_answers: %v", err)
	}
	results, err = svc.Results(identityFor(student), started.AttemptID)
	if err != nil {
		t.Fatalf("Results with show_answers: %v", err)
	}
	if results.Answers[0].CorrectOption != "1" {
		t.Errorf("expected correct option 1, got %q", results.Answers[0].CorrectOption)
	}
}

func TestResultsAdminAccess(t *testing.T) {
	db := newTestDB(t)
	svc := newAttemptService(t, db)
	student := seedStudent(t, db, "mia")
	quiz, _ := seedQuiz(t, db)

	started, err := svc.Start(student.ID, quiz.ID)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if _, err := svc.Submit(identityFor(student), started.AttemptID, dto.SubmitAttemptRequest{Answers: map[uint]string{}}); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	admin := auth.Identity{UserID: 9001, Username: "root", Role: auth.RoleAdmin}
	if _, err := svc.Results(admin, started.AttemptID); err != nil {
		t.Errorf("admin should view any attempt, got %v", err)
	}

	other := auth.Identity{UserID: 9002, Username: "nina", Role: auth.RoleStudent}
	if _, err := svc.Results(other, started.AttemptID); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized for foreign student, got %v", err)
	}
}

func TestAssignmentEnforcement(t *testing.T) {
	db := newTestDB(t)
	svc := newAttemptService(t, db)
	student := seedStudent(t, db, "olga")
	quiz, questions := seedQuiz(t, db)

	assignment := model.QuizAssignment{
		QuizID:       quiz.ID,
		StudentID:    &student.ID,
		AssignedByID: 1,
		DueDate:      time.Now().AddDate(0, 0, 3),
		MaxAttempts:  1,
	}
	if err := db.Create(&assignment).Error; err != nil {
		t.Fatalf("seed assignment: %v", err)
	}

	started, err := svc.Start(student.ID, quiz.ID)
	if err != nil {
		t.Fatalf("Start within limits: %v", err)
	}
	if _, err := svc.Submit(identityFor(student), started.AttemptID, dto.SubmitAttemptRequest{
		Answers: map[uint]string{questions[0].ID: "1"},
	}); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	// Attempt cap reached.
	if _, err := svc.Start(student.ID, quiz.ID); !errors.Is(err, ErrAttemptLimit) {
		t.Errorf("expected ErrAttemptLimit, got %v", err)
	}

	// Past-due assignment closes the quiz.
	if err := db.Model(&model.QuizAssignment{}).Where("id = ?", assignment.ID).
		Updates(map[string]interface{}{"due_date": time.Now().AddDate(0, 0, -2), "max_attempts": 5}).Error; err != nil {
		t.Fatalf("age assignment: %v", err)
	}
	if _, err := svc.Start(student.ID, quiz.ID); !errors.Is(err, ErrQuizClosed) {
		t.Errorf("expected ErrQuizClosed, got %v", err)
	}
}
