package dto

import "time"

type StartAttemptResponse struct {
	AttemptID uint      `json:"attempt_id"`
	QuizID    uint      `json:"quiz_id"`
	StartedAt time.Time `json:"started_at"`
	// Resumed is true when an open attempt already existed for the pair.
	Resumed bool `json:"resumed"`
}

// TakeQuestion is the student-facing question view. The correct option is
// deliberately absent.
type TakeQuestion struct {
	ID      uint   `json:"id"`
	Title   string `json:"title"`
	Text    string `json:"text"`
	Option1 string `json:"option1"`
	Option2 string `json:"option2"`
	Option3 string `json:"option3"`
	Option4 string `json:"option4"`
	Marks   int    `json:"marks"`
}

type TakeQuizResponse struct {
	AttemptID  uint           `json:"attempt_id"`
	QuizID     uint           `json:"quiz_id"`
	QuizTitle  string         `json:"quiz_title,omitempty"`
	Duration   int            `json:"duration"`
	TotalMarks int            `json:"total_marks"`
	StartedAt  time.Time      `json:"started_at"`
	Questions  []TakeQuestion `json:"questions"`
}

type SubmitAttemptRequest struct {
	// Answers maps question ID to the selected option ("1".."4").
	Answers        map[uint]string `json:"answers" binding:"required"`
	ElapsedSeconds int             `json:"elapsed_seconds" binding:"gte=0"`
}

type ScoreSummary struct {
	AttemptID  uint    `json:"attempt_id"`
	Score      int     `json:"score"`
	TotalMarks int     `json:"total_marks"`
	Percentage float64 `json:"percentage"`
}

// AnswerReview is one graded answer inside a results view.
type AnswerReview struct {
	QuestionID     uint   `json:"question_id"`
	QuestionTitle  string `json:"question_title"`
	QuestionText   string `json:"question_text"`
	SelectedOption string `json:"selected_option"`
	IsCorrect      bool   `json:"is_correct"`
	MarksObtained  int    `json:"marks_obtained"`
	// CorrectOption is populated only when the quiz allows showing answers.
	CorrectOption string `json:"correct_option,omitempty"`
}

type AttemptResultResponse struct {
	AttemptID   uint           `json:"attempt_id"`
	QuizID      uint           `json:"quiz_id"`
	QuizTitle   string         `json:"quiz_title,omitempty"`
	StartedAt   time.Time      `json:"started_at"`
	CompletedAt *time.Time     `json:"completed_at,omitempty"`
	TimeTaken   int            `json:"time_taken"`
	Score       int            `json:"score"`
	TotalMarks  int            `json:"total_marks"`
	Percentage  float64        `json:"percentage"`
	Answers     []AnswerReview `json:"answers"`
}

// StudentDashboardResponse backs GET /userdash/:username.
type StudentDashboardResponse struct {
	Username    string               `json:"username"`
	Assignments []AssignmentResponse `json:"assignments"`
	Attempts    []AttemptSummary     `json:"attempts"`
}

type AttemptSummary struct {
	AttemptID   uint       `json:"attempt_id"`
	QuizID      uint       `json:"quiz_id"`
	QuizTitle   string     `json:"quiz_title,omitempty"`
	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Score       int        `json:"score"`
	TotalMarks  int        `json:"total_marks"`
	Percentage  float64    `json:"percentage"`
}
