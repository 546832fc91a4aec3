package anthropic

import (
	"context"
	"encoding/base64"

	anthropic "github.com/liushuangls/go-anthropic/v2"

	"github.com/masar-farm/masar/internal/domain"
	"github.com/masar-farm/masar/internal/vision"
)

type AnthropicAnalyzer struct {
	apiKey string
	model  string
	client *anthropic.Client
}

func NewAnthropicAnalyzer(apiKey, model string) *AnthropicAnalyzer {
	return &AnthropicAnalyzer{
		apiKey: apiKey,
		model:  model,
		client: anthropic.NewClient(apiKey),
	}
}

func (a *AnthropicAnalyzer) Analyze(ctx context.Context, prompt string, images []domain.InlineImage) (string, error) {
	if a.apiKey == "" {
		return "", &domain.ConfigurationError{Reason: "ANTHROPIC_API_KEY is not set"}
	}

	content := []anthropic.MessageContent{anthropic.NewTextMessageContent(prompt)}
	for _, img := range images {
		data, err := base64.StdEncoding.DecodeString(img.Base64Data)
		if err != nil {
			return "", &domain.InferenceError{Reason: "invalid image encoding", Err: err}
		}
		content = append(content, anthropic.NewImageMessageContent(
			anthropic.NewMessageContentSource(anthropic.MessagesContentSourceTypeBase64, img.MimeType, data)))
	}

	resp, err := a.client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model:     anthropic.Model(a.model),
		MaxTokens: 1024,
		Messages: []anthropic.Message{{
			Role:    anthropic.RoleUser,
			Content: content,
		}},
	})
	if err != nil {
		return "", &domain.InferenceError{Reason: "anthropic call failed", Err: err}
	}

	for _, blk := range resp.Content {
		if blk.Type == anthropic.MessagesContentTypeText {
			if text := blk.GetText(); text != "" {
				return text, nil
			}
		}
	}
	return vision.FallbackAnalysis, nil
}
