package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/masar-farm/masar/internal/domain"
	"github.com/masar-farm/masar/internal/vision"
)

func TestAnalyzeSendsPromptAndImages(t *testing.T) {
	var captured request
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, chatCompletionsPath, r.URL.Path)
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"تحليل ناجح"}}]}`))
	}))
	defer server.Close()

	analyzer := NewOpenAIAnalyzer(server.URL, "test-key", "test-model")
	got, err := analyzer.Analyze(context.Background(), "حلّل هذه الصور", []domain.InlineImage{
		{MimeType: "image/png", Base64Data: "aGVsbG8="},
	})
	require.NoError(t, err)
	assert.Equal(t, "تحليل ناجح", got)

	require.Len(t, captured.Messages, 1)
	require.Len(t, captured.Messages[0].Content, 2)
	assert.Equal(t, "text", captured.Messages[0].Content[0].Type)
	assert.Equal(t, "حلّل هذه الصور", captured.Messages[0].Content[0].Text)
	assert.Equal(t, "image_url", captured.Messages[0].Content[1].Type)
	assert.Equal(t, "data:image/png;base64,aGVsbG8=", captured.Messages[0].Content[1].ImageURL.URL)
	assert.Equal(t, "test-model", captured.Model)
}

func TestAnalyzeUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model overloaded", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	analyzer := NewOpenAIAnalyzer(server.URL, "test-key", "test-model")
	_, err := analyzer.Analyze(context.Background(), "prompt", nil)
	var infErr *domain.InferenceError
	require.ErrorAs(t, err, &infErr)
	assert.Contains(t, infErr.Reason, "503")
}

func TestAnalyzeNoChoicesReturnsFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	analyzer := NewOpenAIAnalyzer(server.URL, "test-key", "test-model")
	got, err := analyzer.Analyze(context.Background(), "prompt", nil)
	require.NoError(t, err)
	assert.Equal(t, vision.FallbackAnalysis, got)
}

func TestTruncateKeepsRunesWhole(t *testing.T) {
	s := "خطأ في الخادم"

	got := truncate(s, 5)
	assert.LessOrEqual(t, len(got), 5)
	assert.True(t, utf8.ValidString(got))

	assert.Equal(t, s, truncate(s, len(s)))
	assert.Equal(t, s, truncate(s, 200))
	assert.Equal(t, "abc", truncate("abcdef", 3))
}

func TestAnalyzeMissingKey(t *testing.T) {
	analyzer := NewOpenAIAnalyzer("http://unused", "", "test-model")
	_, err := analyzer.Analyze(context.Background(), "prompt", nil)
	var cfgErr *domain.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
}
