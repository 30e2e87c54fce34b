package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/LaykenV/teach-magic-server/internal/domain"
)

// Generator is the contract implemented by the language-model backend. Both
// operations are single-attempt: upstream failures surface immediately and
// are never retried here.
type Generator interface {
	// GenerateDeck produces the fixed deck shape for a topic: one title
	// slide followed by five content slides, each with an image prompt.
	GenerateDeck(ctx context.Context, topic string, ageGroup domain.AgeGroup) (domain.SlideList, error)
	// GenerateQuiz derives six multiple-choice questions from the deck's
	// content slides. Only slide titles and paragraphs are used as context.
	GenerateQuiz(ctx context.Context, slides domain.SlideList) ([]domain.Question, error)
}

type deckPayload struct {
	Slides []slidePayload `json:"slides"`
}

type slidePayload struct {
	SlideType        string   `json:"slide_type"`
	SlideTitle       string   `json:"slide_title"`
	SlideParagraphs  []string `json:"slide_paragraphs"`
	SlideImagePrompt string   `json:"slide_image_prompt"`
}

func (p deckPayload) toDomain() (domain.SlideList, error) {
	slides := make(domain.SlideList, 0, len(p.Slides))
	for i, s := range p.Slides {
		switch s.SlideType {
		case string(domain.SlideTypeTitle):
			slides = append(slides, domain.TitleSlide{
				Title:       strings.TrimSpace(s.SlideTitle),
				ImagePrompt: strings.TrimSpace(s.SlideImagePrompt),
			})
		case string(domain.SlideTypeContent):
			slides = append(slides, domain.ContentSlide{
				Title:       strings.TrimSpace(s.SlideTitle),
				Paragraphs:  s.SlideParagraphs,
				ImagePrompt: strings.TrimSpace(s.SlideImagePrompt),
			})
		default:
			return nil, fmt.Errorf("%w: slide %d has unexpected slide_type %q", domain.ErrSchemaMismatch, i, s.SlideType)
		}
	}
	if err := domain.ValidateDeck(slides); err != nil {
		return nil, err
	}
	return slides, nil
}

type quizPayload struct {
	Questions []questionPayload `json:"questions"`
}

type questionPayload struct {
	SlideTitle    string          `json:"slide_title"`
	Question      string          `json:"question"`
	AnswerChoices []choicePayload `json:"answer_choices"`
}

type choicePayload struct {
	AnswerText string `json:"answer_text"`
	Correct    bool   `json:"correct"`
}

func (p quizPayload) toDomain() ([]domain.Question, error) {
	if len(p.Questions) != domain.QuizQuestionCount {
		return nil, fmt.Errorf("%w: quiz has %d questions, want %d", domain.ErrSchemaMismatch, len(p.Questions), domain.QuizQuestionCount)
	}
	questions := make([]domain.Question, 0, len(p.Questions))
	for _, q := range p.Questions {
		choices := make([]domain.AnswerChoice, 0, len(q.AnswerChoices))
		for _, c := range q.AnswerChoices {
			choices = append(choices, domain.AnswerChoice{Text: strings.TrimSpace(c.AnswerText), Correct: c.Correct})
		}
		question := domain.NewQuestion(strings.TrimSpace(q.SlideTitle), strings.TrimSpace(q.Question), choices)
		if err := question.Validate(); err != nil {
			return nil, err
		}
		questions = append(questions, question)
	}
	return questions, nil
}
