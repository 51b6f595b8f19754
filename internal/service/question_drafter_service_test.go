package service

import (
	"context"
	"errors"
	"testing"

	"quizmaster/config"
	"quizmaster/internal/dto"
	"quizmaster/internal/repository"
)

func TestDraftQuestionsUnavailableWithoutKey(t *testing.T) {
	db := newTestDB(t)
	svc, err := NewQuestionDrafterService(&config.Config{}, repository.NewChapterRepository(db))
	if err != nil {
		t.Fatalf("NewQuestionDrafterService: %v", err)
	}

	_, err = svc.DraftQuestions(context.Background(), 1, dto.DraftQuestionsRequest{Topic: "algebra", Count: 3})
	if !errors.Is(err, ErrGenerationUnavailable) {
		t.Errorf("expected ErrGenerationUnavailable, got %v", err)
	}
}

func TestParseDrafts(t *testing.T) {
	raw := "```json\n" + `[
		{"title": "Q1", "text": "2+2?", "option1": "4", "option2": "5", "option3": "6", "option4": "7", "correct_option": "1", "marks": 2},
		{"title": "bad", "text": "?", "option1": "a", "option2": "b", "option3": "c", "option4": "d", "correct_option": "5"},
		{"title": "Q2", "text": "3*3?", "option1": "6", "option2": "9", "option3": "12", "option4": "15", "correct_option": "2"}
	]` + "\n```"

	drafts, err := parseDrafts(raw)
	if err != nil {
		t.Fatalf("parseDrafts: %v", err)
	}
	if len(drafts) != 2 {
		t.Fatalf("expected 2 valid drafts, got %d", len(drafts))
	}
	if drafts[0].Marks != 2 {
		t.Errorf("expected marks preserved, got %d", drafts[0].Marks)
	}
	if drafts[1].Marks != 1 {
		t.Errorf("expected default marks 1, got %d", drafts[1].Marks)
	}
}

func TestParseDraftsRejectsGarbage(t *testing.T) {
	if _, err := parseDrafts("the model had a bad day"); err == nil {
		t.Error("expected error for non-JSON output")
	}
	if _, err := parseDrafts(`[{"correct_option": "7"}]`); err == nil {
		t.Error("expected error when no draft is usable")
	}
}
