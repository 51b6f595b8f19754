package dto

import "time"

type QuizCreateRequest struct {
	ChapterID        uint   `json:"chapter_id" binding:"required"`
	Title            string `json:"title"`
	QuizDate         string `json:"quiz_date" binding:"required"` // YYYY-MM-DD
	Duration         int    `json:"duration" binding:"required,gt=0"`
	TotalMarks       int    `json:"total_marks" binding:"required,gte=0"`
	ShuffleQuestions bool   `json:"shuffle_questions"`
	ShowAnswers      bool   `json:"show_answers"`
}

type QuizResponse struct {
	ID               uint      `json:"id"`
	ChapterID        uint      `json:"chapter_id"`
	ChapterName      string    `json:"chapter_name,omitempty"`
	Title            string    `json:"title,omitempty"`
	QuizDate         time.Time `json:"quiz_date"`
	Duration         int       `json:"duration"`
	TotalMarks       int       `json:"total_marks"`
	ShuffleQuestions bool      `json:"shuffle_questions"`
	ShowAnswers      bool      `json:"show_answers"`
	Active           bool      `json:"active"`
}

type ClassCreateRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type ClassResponse struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type AssignQuizRequest struct {
	QuizID      uint   `json:"quiz_id" binding:"required"`
	StudentID   *uint  `json:"student_id"`
	ClassID     *uint  `json:"class_id"`
	DueDate     string `json:"due_date" binding:"required"` // YYYY-MM-DD
	MaxAttempts int    `json:"max_attempts" binding:"required,gt=0"`
}

type AssignmentResponse struct {
	ID          uint         `json:"id"`
	Quiz        QuizResponse `json:"quiz"`
	StudentID   *uint        `json:"student_id,omitempty"`
	ClassID     *uint        `json:"class_id,omitempty"`
	DueDate     time.Time    `json:"due_date"`
	MaxAttempts int          `json:"max_attempts"`
}

type DraftQuestionsRequest struct {
	Topic string `json:"topic" binding:"required"`
	Count int    `json:"count" binding:"required,gt=0,lte=10"`
}

// DraftQuestion is an AI-proposed question for admin review. Drafts are
// never persisted directly; the admin submits the ones worth keeping
// through the normal addquestion endpoint.
type DraftQuestion struct {
	Title         string `json:"title"`
	Text          string `json:"text"`
	Option1       string `json:"option1"`
	Option2       string `json:"option2"`
	Option3       string `json:"option3"`
	Option4       string `json:"option4"`
	CorrectOption string `json:"correct_option"`
	Marks         int    `json:"marks"`
}
