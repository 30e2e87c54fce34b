package llm

import (
	"fmt"
	"strings"

	"github.com/LaykenV/teach-magic-server/internal/domain"
)

const deckSystemPrompt = `You are an expert educator who writes concise, engaging slide decks. Respond strictly with JSON matching this schema: {"slides":[{"slide_type":"title"|"content","slide_title":string,"slide_paragraphs":string[],"slide_image_prompt":string}]}. Produce exactly one title slide first, then exactly five content slides. Title slides omit slide_paragraphs. Every content slide carries 2 or 3 paragraphs of 4-5 sentences each. Every slide_image_prompt describes a modern minimalist illustration of the slide's subject.`

const quizSystemPrompt = `You are an expert educator writing a multiple-choice quiz about the provided slides. Respond strictly with JSON matching this schema: {"questions":[{"slide_title":string,"question":string,"answer_choices":[{"answer_text":string,"correct":boolean}]}]}. Produce exactly six questions. Each question has exactly four answer choices with exactly one marked correct. Only ask about facts stated in the provided slides.`

func buildDeckPrompt(topic string, ageGroup domain.AgeGroup) string {
	sb := &strings.Builder{}
	fmt.Fprintf(sb, "Create a slide deck teaching the topic %q.", topic)
	if ageGroup != "" {
		fmt.Fprintf(sb, " The audience is at the %s level; adjust vocabulary and depth accordingly.", ageGroup)
	}
	return sb.String()
}

// buildQuizPrompt serializes the deck's teachable text. Image prompts and
// URLs are irrelevant to quiz generation and are deliberately omitted.
func buildQuizPrompt(slides domain.SlideList) string {
	sb := &strings.Builder{}
	sb.WriteString("Write the quiz for these slides:\n")
	for _, slide := range slides {
		switch v := slide.(type) {
		case domain.TitleSlide:
			fmt.Fprintf(sb, "Deck title: %s\n", v.Title)
		case domain.ContentSlide:
			fmt.Fprintf(sb, "Slide %q: %s\n", v.Title, strings.Join(v.Paragraphs, " "))
		case domain.QuestionSlide:
			// question slides carry no teachable content
		}
	}
	return sb.String()
}
