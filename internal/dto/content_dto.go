package dto

import "time"

type SubjectCreateRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type SubjectResponse struct {
	ID          uint              `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description,omitempty"`
	Chapters    []ChapterResponse `json:"chapters,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
}

// SubjectSummary is the admin dashboard listing row.
type SubjectSummary struct {
	ID           uint   `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	ChapterCount int    `json:"chapter_count"`
}

type ChapterCreateRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type ChapterResponse struct {
	ID          uint      `json:"id"`
	SubjectID   uint      `json:"subject_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type QuestionCreateRequest struct {
	Title         string `json:"title"`
	Text          string `json:"text" binding:"required"`
	Option1       string `json:"option1" binding:"required"`
	Option2       string `json:"option2" binding:"required"`
	Option3       string `json:"option3" binding:"required"`
	Option4       string `json:"option4" binding:"required"`
	CorrectOption string `json:"correct_option" binding:"required,oneof=1 2 3 4"`
	Marks         int    `json:"marks"`
}

// QuestionResponse is the admin view of a question, correct option included.
type QuestionResponse struct {
	ID            uint   `json:"id"`
	ChapterID     uint   `json:"chapter_id"`
	Title         string `json:"title"`
	Text          string `json:"text"`
	Option1       string `json:"option1"`
	Option2       string `json:"option2"`
	Option3       string `json:"option3"`
	Option4       string `json:"option4"`
	CorrectOption string `json:"correct_option"`
	Marks         int    `json:"marks"`
}

// AdminDashboardResponse backs GET /admin/:username.
type AdminDashboardResponse struct {
	Name     string           `json:"name"`
	Subjects []SubjectSummary `json:"subjects"`
}
