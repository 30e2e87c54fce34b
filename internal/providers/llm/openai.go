package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/LaykenV/teach-magic-server/internal/domain"
)

const (
	openAIDefaultTimeout = 60 * time.Second
	defaultOpenAIModel   = "gpt-4o-mini"
)

type OpenAIOptions struct {
	APIKey       string
	Model        string
	BaseURL      string
	Organization string
	HTTPClient   *http.Client
	Timeout      time.Duration
}

// OpenAIGenerator produces decks and quizzes through the OpenAI
// chat-completions API, forcing JSON output via response_format.
type OpenAIGenerator struct {
	apiKey       string
	model        string
	baseURL      string
	organization string
	client       *http.Client
}

type openAIChatRequest struct {
	Model          string          `json:"model"`
	Messages       []openAIMessage `json:"messages"`
	Temperature    float64         `json:"temperature,omitempty"`
	ResponseFormat *openAIFormat   `json:"response_format,omitempty"`
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIFormat struct {
	Type string `json:"type"`
}

type openAIChatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func NewOpenAIGenerator(opts OpenAIOptions) (*OpenAIGenerator, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, errors.New("openai api key is required")
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = defaultOpenAIModel
	}
	client := opts.HTTPClient
	if client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = openAIDefaultTimeout
		}
		client = &http.Client{Timeout: timeout}
	}
	return &OpenAIGenerator{
		apiKey:       strings.TrimSpace(opts.APIKey),
		model:        model,
		baseURL:      baseURL,
		organization: strings.TrimSpace(opts.Organization),
		client:       client,
	}, nil
}

func (o *OpenAIGenerator) GenerateDeck(ctx context.Context, topic string, ageGroup domain.AgeGroup) (domain.SlideList, error) {
	text, err := o.complete(ctx, deckSystemPrompt, buildDeckPrompt(topic, ageGroup))
	if err != nil {
		return nil, err
	}
	payload, err := parseModelPayload[deckPayload](text)
	if err != nil {
		return nil, fmt.Errorf("%w: parse deck payload: %v", domain.ErrSchemaMismatch, err)
	}
	return payload.toDomain()
}

func (o *OpenAIGenerator) GenerateQuiz(ctx context.Context, slides domain.SlideList) ([]domain.Question, error) {
	text, err := o.complete(ctx, quizSystemPrompt, buildQuizPrompt(slides))
	if err != nil {
		return nil, err
	}
	payload, err := parseModelPayload[quizPayload](text)
	if err != nil {
		return nil, fmt.Errorf("%w: parse quiz payload: %v", domain.ErrSchemaMismatch, err)
	}
	return payload.toDomain()
}

// complete issues one chat-completion call and returns the first choice's
// content. There is no retry: the caller decides whether a failure is
// terminal or best-effort.
func (o *OpenAIGenerator) complete(ctx context.Context, system, user string) (string, error) {
	payload := openAIChatRequest{
		Model: o.model,
		Messages: []openAIMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature:    0.6,
		ResponseFormat: &openAIFormat{Type: "json_object"},
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		return "", fmt.Errorf("%w: encode request: %v", domain.ErrGenerationFailed, err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/chat/completions", &buf)
	if err != nil {
		return "", fmt.Errorf("%w: build request: %v", domain.ErrGenerationFailed, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+o.apiKey)
	if o.organization != "" {
		httpReq.Header.Set("OpenAI-Organization", o.organization)
	}
	resp, err := o.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrGenerationFailed, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: upstream status %d", domain.ErrGenerationFailed, resp.StatusCode)
	}
	var out openAIChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", domain.ErrGenerationFailed, err)
	}
	for _, choice := range out.Choices {
		if strings.TrimSpace(choice.Message.Content) != "" {
			return choice.Message.Content, nil
		}
	}
	return "", fmt.Errorf("%w: empty completion", domain.ErrGenerationFailed)
}

var _ Generator = (*OpenAIGenerator)(nil)
