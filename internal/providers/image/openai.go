package image

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/LaykenV/teach-magic-server/internal/domain"
)

const (
	openAIDefaultTimeout = 120 * time.Second
	defaultImageModel    = "dall-e-3"
	defaultImageSize     = "1024x1024"
)

type OpenAIOptions struct {
	APIKey       string
	Model        string
	BaseURL      string
	Organization string
	Size         string
	HTTPClient   *http.Client
	Timeout      time.Duration
}

// OpenAIGenerator calls the OpenAI images endpoint and requests base64
// payloads so the bytes land in local storage rather than a short-lived
// upstream URL.
type OpenAIGenerator struct {
	apiKey       string
	model        string
	baseURL      string
	organization string
	size         string
	client       *http.Client
}

type openAIImageRequest struct {
	Model          string `json:"model"`
	Prompt         string `json:"prompt"`
	N              int    `json:"n"`
	Size           string `json:"size"`
	ResponseFormat string `json:"response_format"`
}

type openAIImageResponse struct {
	Data []struct {
		B64JSON string `json:"b64_json"`
	} `json:"data"`
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
		model = defaultImageModel
	}
	size := strings.TrimSpace(opts.Size)
	if size == "" {
		size = defaultImageSize
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
		size:         size,
		client:       client,
	}, nil
}

func (o *OpenAIGenerator) Generate(ctx context.Context, prompt string) ([]byte, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, fmt.Errorf("%w: empty image prompt", domain.ErrGenerationFailed)
	}
	payload := openAIImageRequest{
		Model:          o.model,
		Prompt:         prompt,
		N:              1,
		Size:           o.size,
		ResponseFormat: "b64_json",
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		return nil, fmt.Errorf("%w: encode request: %v", domain.ErrGenerationFailed, err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/images/generations", &buf)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", domain.ErrGenerationFailed, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+o.apiKey)
	if o.organization != "" {
		httpReq.Header.Set("OpenAI-Organization", o.organization)
	}
	resp, err := o.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrGenerationFailed, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: upstream status %d", domain.ErrGenerationFailed, resp.StatusCode)
	}
	var out openAIImageResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", domain.ErrGenerationFailed, err)
	}
	if len(out.Data) == 0 || strings.TrimSpace(out.Data[0].B64JSON) == "" {
		return nil, fmt.Errorf("%w: empty image payload", domain.ErrGenerationFailed)
	}
	raw, err := base64.StdEncoding.DecodeString(out.Data[0].B64JSON)
	if err != nil {
		return nil, fmt.Errorf("%w: decode image bytes: %v", domain.ErrGenerationFailed, err)
	}
	return raw, nil
}

var _ Generator = (*OpenAIGenerator)(nil)
