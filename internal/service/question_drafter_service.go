package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
	"gorm.io/gorm"

	"quizmaster/config"
	"quizmaster/internal/dto"
	"quizmaster/internal/repository"
)

// QuestionDrafterService proposes multiple-choice question drafts for a
// chapter. Drafts are returned for admin review and never persisted here.
type QuestionDrafterService interface {
	DraftQuestions(ctx context.Context, chapterID uint, req dto.DraftQuestionsRequest) ([]dto.DraftQuestion, error)
}

type questionDrafterService struct {
	model       *genai.GenerativeModel
	chapterRepo repository.ChapterRepository
}

func NewQuestionDrafterService(cfg *config.Config, chapterRepo repository.ChapterRepository) (QuestionDrafterService, error) {
	if cfg.GeminiApiKey == "" {
		log.Warn().Msg("GEMINI_API_KEY is not set. Question drafting will be unavailable.")
		return &questionDrafterService{chapterRepo: chapterRepo}, nil
	}
	client, err := genai.NewClient(context.Background(), option.WithAPIKey(cfg.GeminiApiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Gemini client: %w", err)
	}
	return &questionDrafterService{
		model:       client.GenerativeModel("gemini-1.5-flash"),
		chapterRepo: chapterRepo,
	}, nil
}

const draftPromptTemplate = `You are preparing a multiple-choice quiz for the chapter "%s" (%s).
Write %d questions about: %s.
Respond with ONLY a JSON array, no prose and no markdown fences. Each element:
{"title": string, "text": string, "option1": string, "option2": string,
 "option3": string, "option4": string, "correct_option": "1"|"2"|"3"|"4",
 "marks": integer between 1 and 5}`

func (s *questionDrafterService) DraftQuestions(ctx context.Context, chapterID uint, req dto.DraftQuestionsRequest) ([]dto.DraftQuestion, error) {
	if s.model == nil {
		return nil, ErrGenerationUnavailable
	}

	chapter, err := s.chapterRepo.FindByID(chapterID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error fetching chapter %d: %w", chapterID, err)
	}

	prompt := fmt.Sprintf(draftPromptTemplate, chapter.Name, chapter.Description, req.Count, req.Topic)
	resp, err := s.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		log.Error().Err(err).Uint("chapterID", chapterID).Msg("DraftQuestions: Gemini call failed")
		return nil, fmt.Errorf("question generation failed: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, fmt.Errorf("question generation returned no candidates")
	}

	var raw strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			raw.WriteString(string(text))
		}
	}

	drafts, err := parseDrafts(raw.String())
	if err != nil {
		log.Error().Err(err).Msg("DraftQuestions: failed to parse model output")
		return nil, fmt.Errorf("could not parse generated questions: %w", err)
	}
	log.Info().Uint("chapterID", chapterID).Int("count", len(drafts)).Msg("Question drafts generated")
	return drafts, nil
}

// parseDrafts decodes a JSON array of drafts, tolerating markdown fences
// the model sometimes adds despite instructions.
func parseDrafts(raw string) ([]dto.DraftQuestion, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	var drafts []dto.DraftQuestion
	if err := json.Unmarshal([]byte(cleaned), &drafts); err != nil {
		return nil, fmt.Errorf("invalid draft JSON: %w", err)
	}

	valid := drafts[:0]
	for _, d := range drafts {
		switch d.CorrectOption {
		case "1", "2", "3", "4":
		default:
			continue
		}
		if d.Marks <= 0 {
			d.Marks = 1
		}
		valid = append(valid, d)
	}
	if len(valid) == 0 {
		return nil, fmt.Errorf("no usable drafts in model output")
	}
	return valid, nil
}
