package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/masar-farm/masar/internal/domain"
	"github.com/masar-farm/masar/internal/vision"
)

const chatCompletionsPath = "/v1/chat/completions"

// request types mirror the chat completions API structure.
type request struct {
	Model       string    `json:"model"`
	Messages    []message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
}

type message struct {
	Role    string `json:"role"`
	Content []part `json:"content"`
}

type part struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

// response keeps message content raw: providers return it as a plain
// string, a part list, or occasionally something else entirely.
type response struct {
	Choices []struct {
		Message struct {
			Content json.RawMessage `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type OpenAIAnalyzer struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
}

func NewOpenAIAnalyzer(baseURL, apiKey, model string) *OpenAIAnalyzer {
	return &OpenAIAnalyzer{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		client:  &http.Client{},
	}
}

func (a *OpenAIAnalyzer) Analyze(ctx context.Context, prompt string, images []domain.InlineImage) (string, error) {
	if a.apiKey == "" {
		return "", &domain.ConfigurationError{Reason: "OPENAI_API_KEY is not set"}
	}

	content := []part{{Type: "text", Text: prompt}}
	for _, img := range images {
		content = append(content, part{
			Type:     "image_url",
			ImageURL: &imageURL{URL: "data:" + img.MimeType + ";base64," + img.Base64Data},
		})
	}

	body := request{
		Model:       a.model,
		Temperature: 0.3,
		MaxTokens:   1024,
		Messages:    []message{{Role: "user", Content: content}},
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+chatCompletionsPath, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+a.apiKey)

	resp, err := a.client.Do(req)
	if err != nil {
		return "", &domain.InferenceError{Reason: "transport failure", Err: err}
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			slog.Error("failed to close inference response body", "error", err)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		errBody, _ := io.ReadAll(resp.Body)
		return "", &domain.InferenceError{
			Reason: fmt.Sprintf("upstream returned status %d: %s", resp.StatusCode, truncate(string(errBody), 200)),
		}
	}

	var respBody response
	if err := json.NewDecoder(resp.Body).Decode(&respBody); err != nil {
		return "", &domain.InferenceError{Reason: "failed to decode response", Err: err}
	}
	// A successful call with no choices is an unparseable body, not a
	// failure: the fallback sentence keeps the two distinguishable.
	if len(respBody.Choices) == 0 {
		return vision.FallbackAnalysis, nil
	}

	return ExtractContent(respBody.Choices[0].Message.Content), nil
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	cut := n
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
