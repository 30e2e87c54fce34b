package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// SlideType discriminates the slide variants stored in a creation.
type SlideType string

const (
	SlideTypeTitle    SlideType = "title"
	SlideTypeContent  SlideType = "content"
	SlideTypeQuestion SlideType = "question"
)

// AgeGroup is the audience-difficulty tag attached to a creation. It is
// chosen by the requester and stored verbatim; it never changes what the
// generator produces.
type AgeGroup string

const (
	AgeGroupElementary AgeGroup = "elementary"
	AgeGroupMiddle     AgeGroup = "middle-school"
	AgeGroupHigh       AgeGroup = "high-school"
	AgeGroupCollege    AgeGroup = "college"
)

// Valid reports whether the tag is one of the supported age groups.
func (a AgeGroup) Valid() bool {
	switch a {
	case AgeGroupElementary, AgeGroupMiddle, AgeGroupHigh, AgeGroupCollege:
		return true
	}
	return false
}

// Slide is a closed variant over title, content and question slides.
// Consumers must switch exhaustively on the concrete type.
type Slide interface {
	Type() SlideType
}

// TitleSlide opens every deck.
type TitleSlide struct {
	Title       string  `json:"slide_title"`
	ImagePrompt string  `json:"slide_image_prompt"`
	ImageURL    *string `json:"slide_image_url"`
}

func (TitleSlide) Type() SlideType { return SlideTypeTitle }

// ContentSlide carries the teaching body: 2-3 paragraphs plus an image prompt.
type ContentSlide struct {
	Title       string   `json:"slide_title"`
	Paragraphs  []string `json:"slide_paragraphs"`
	ImagePrompt string   `json:"slide_image_prompt"`
	ImageURL    *string  `json:"slide_image_url"`
}

func (ContentSlide) Type() SlideType { return SlideTypeContent }

// QuestionSlide is a multiple-choice check. It never carries an image.
type QuestionSlide struct {
	Title   string         `json:"slide_title"`
	Prompt  string         `json:"question"`
	Choices []AnswerChoice `json:"answer_choices"`
}

func (QuestionSlide) Type() SlideType { return SlideTypeQuestion }

// AnswerChoice is one option of a multiple-choice question.
type AnswerChoice struct {
	Text    string `json:"answer_text"`
	Correct bool   `json:"correct"`
}

// Question is one quiz entry. It shares the question-slide wire shape, with
// the slide_type tag carried inline so quiz rows round-trip the same way
// slides do.
type Question struct {
	SlideType SlideType      `json:"slide_type"`
	Title     string         `json:"slide_title"`
	Prompt    string         `json:"question"`
	Choices   []AnswerChoice `json:"answer_choices"`
}

// NewQuestion builds a tagged quiz question.
func NewQuestion(title, prompt string, choices []AnswerChoice) Question {
	return Question{SlideType: SlideTypeQuestion, Title: title, Prompt: prompt, Choices: choices}
}

// Validate enforces the multiple-choice invariant: exactly four choices with
// exactly one marked correct.
func (q Question) Validate() error {
	return validateChoices(q.Choices)
}

func validateChoices(choices []AnswerChoice) error {
	if len(choices) != QuestionChoiceCount {
		return fmt.Errorf("%w: question has %d choices, want %d", ErrSchemaMismatch, len(choices), QuestionChoiceCount)
	}
	correct := 0
	for _, c := range choices {
		if c.Correct {
			correct++
		}
	}
	if correct != 1 {
		return fmt.Errorf("%w: question has %d correct choices, want 1", ErrSchemaMismatch, correct)
	}
	return nil
}

// Generation-shape constants. The deck and quiz sizes are fixed by the
// generation contract, not configurable per request.
const (
	DeckContentSlides   = 5
	DeckSlideCount      = 1 + DeckContentSlides
	QuizQuestionCount   = 6
	QuestionChoiceCount = 4

	MinSlideParagraphs = 2
	MaxSlideParagraphs = 3
)

// SlideList is an ordered slide sequence; insertion order is presentation
// order. It owns the JSON tagging of the Slide variants so both the API and
// the JSONB column share one wire format.
type SlideList []Slide

// MarshalSlide tags a single slide with its slide_type discriminator.
func MarshalSlide(s Slide) (json.RawMessage, error) {
	switch v := s.(type) {
	case TitleSlide:
		return json.Marshal(struct {
			SlideType SlideType `json:"slide_type"`
			TitleSlide
		}{SlideTypeTitle, v})
	case ContentSlide:
		return json.Marshal(struct {
			SlideType SlideType `json:"slide_type"`
			ContentSlide
		}{SlideTypeContent, v})
	case QuestionSlide:
		return json.Marshal(struct {
			SlideType SlideType `json:"slide_type"`
			QuestionSlide
		}{SlideTypeQuestion, v})
	default:
		return nil, fmt.Errorf("unknown slide variant %T", s)
	}
}

func (l SlideList) MarshalJSON() ([]byte, error) {
	out := make([]json.RawMessage, len(l))
	for i, s := range l {
		raw, err := MarshalSlide(s)
		if err != nil {
			return nil, err
		}
		out[i] = raw
	}
	return json.Marshal(out)
}

func (l *SlideList) UnmarshalJSON(data []byte) error {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return err
	}
	slides := make(SlideList, 0, len(raws))
	for i, raw := range raws {
		var head struct {
			SlideType SlideType `json:"slide_type"`
		}
		if err := json.Unmarshal(raw, &head); err != nil {
			return err
		}
		switch head.SlideType {
		case SlideTypeTitle:
			var s TitleSlide
			if err := json.Unmarshal(raw, &s); err != nil {
				return err
			}
			slides = append(slides, s)
		case SlideTypeContent:
			var s ContentSlide
			if err := json.Unmarshal(raw, &s); err != nil {
				return err
			}
			slides = append(slides, s)
		case SlideTypeQuestion:
			var s QuestionSlide
			if err := json.Unmarshal(raw, &s); err != nil {
				return err
			}
			slides = append(slides, s)
		default:
			return fmt.Errorf("slide %d: unknown slide_type %q", i, head.SlideType)
		}
	}
	*l = slides
	return nil
}

// ImagePromptOf returns the image prompt of an eligible slide. Question
// slides are never illustrated.
func ImagePromptOf(s Slide) (string, bool) {
	switch v := s.(type) {
	case TitleSlide:
		return v.ImagePrompt, true
	case ContentSlide:
		return v.ImagePrompt, true
	case QuestionSlide:
		return "", false
	default:
		return "", false
	}
}

// ImageURLOf returns the stored image URL of a slide, if any.
func ImageURLOf(s Slide) *string {
	switch v := s.(type) {
	case TitleSlide:
		return v.ImageURL
	case ContentSlide:
		return v.ImageURL
	case QuestionSlide:
		return nil
	default:
		return nil
	}
}

// WithImageURL returns a copy of an eligible slide with its image URL set.
// Question slides are returned unchanged.
func WithImageURL(s Slide, url string) Slide {
	switch v := s.(type) {
	case TitleSlide:
		v.ImageURL = &url
		return v
	case ContentSlide:
		v.ImageURL = &url
		return v
	default:
		return s
	}
}

// WithImagePrompt returns a copy of an eligible slide with its image prompt
// replaced. Question slides are returned unchanged.
func WithImagePrompt(s Slide, prompt string) Slide {
	switch v := s.(type) {
	case TitleSlide:
		v.ImagePrompt = prompt
		return v
	case ContentSlide:
		v.ImagePrompt = prompt
		return v
	default:
		return s
	}
}

// ValidateDeck enforces the generated-deck invariants: one title slide first,
// five content slides after it, each content slide with 2-3 paragraphs.
func ValidateDeck(slides SlideList) error {
	if len(slides) != DeckSlideCount {
		return fmt.Errorf("%w: deck has %d slides, want %d", ErrSchemaMismatch, len(slides), DeckSlideCount)
	}
	if _, ok := slides[0].(TitleSlide); !ok {
		return fmt.Errorf("%w: deck must open with a title slide, got %q", ErrSchemaMismatch, slides[0].Type())
	}
	for i, s := range slides[1:] {
		content, ok := s.(ContentSlide)
		if !ok {
			return fmt.Errorf("%w: slide %d must be a content slide, got %q", ErrSchemaMismatch, i+1, s.Type())
		}
		if n := len(content.Paragraphs); n < MinSlideParagraphs || n > MaxSlideParagraphs {
			return fmt.Errorf("%w: slide %d has %d paragraphs, want %d-%d", ErrSchemaMismatch, i+1, n, MinSlideParagraphs, MaxSlideParagraphs)
		}
	}
	return nil
}

// Creation is one persisted learning unit: a generated slide deck plus the
// quiz derived from it, owned by a single user.
type Creation struct {
	ID        string     `json:"id"`
	OwnerID   string     `json:"owner_id"`
	Slides    SlideList  `json:"slides"`
	Quiz      []Question `json:"quiz"`
	AgeGroup  AgeGroup   `json:"age_group"`
	CreatedAt time.Time  `json:"created_at"`
}
