package analyze

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/staylens/staylens/internal/model"
)

const analysisSystemPrompt = `You are a review analytics service. For the user message, respond with ONLY a JSON object:
{
  "sentiment": "POSITIVE" | "NEGATIVE" | "NEUTRAL" | "MIXED",
  "sentiment_scores": {"POSITIVE": p, "NEGATIVE": n, "NEUTRAL": u, "MIXED": m},
  "key_phrases": ["..."]
}
The four scores are probabilities in [0,1] summing to 1.0. key_phrases are the noun phrases that carry the review's meaning, in order of appearance.`

// OpenAIAnalyzer implements Analyzer with OpenAI chat completions in
// JSON-object mode.
type OpenAIAnalyzer struct {
	client *openai.Client
	model  string
}

// NewOpenAIAnalyzer creates an OpenAI-backed analyzer.
func NewOpenAIAnalyzer(cfg model.AnalyzerConfig) (*OpenAIAnalyzer, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	m := cfg.Model
	if m == "" {
		m = openai.GPT4oMini
	}

	return &OpenAIAnalyzer{
		client: openai.NewClientWithConfig(clientConfig),
		model:  m,
	}, nil
}

// Name returns the provider name.
func (a *OpenAIAnalyzer) Name() string { return "openai" }

// AnalyzeText analyzes one review text.
func (a *OpenAIAnalyzer) AnalyzeText(ctx context.Context, text, langHint string) (*Analysis, error) {
	user := text
	if langHint != "" {
		user = fmt.Sprintf("[language: %s]\n%s", langHint, text)
	}

	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: a.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: analysisSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Temperature: 0,
	})
	if err != nil {
		return nil, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("empty completion response")
	}

	return parseAnalysis(resp.Choices[0].Message.Content)
}

// analysisPayload is the wire shape the prompt asks for.
type analysisPayload struct {
	Sentiment       string             `json:"sentiment"`
	SentimentScores map[string]float64 `json:"sentiment_scores"`
	KeyPhrases      []string           `json:"key_phrases"`
}

// parseAnalysis decodes and validates a provider response.
func parseAnalysis(content string) (*Analysis, error) {
	content = strings.TrimSpace(content)
	// Some models wrap JSON in a code fence despite JSON mode.
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")

	var payload analysisPayload
	if err := json.Unmarshal([]byte(content), &payload); err != nil {
		return nil, fmt.Errorf("decode analysis: %w", err)
	}

	scores := make(map[model.Sentiment]float64, len(payload.SentimentScores))
	for k, v := range payload.SentimentScores {
		scores[model.Sentiment(strings.ToUpper(k))] = v
	}

	analysis := &Analysis{
		Sentiment:  model.Sentiment(strings.ToUpper(payload.Sentiment)),
		Scores:     scores,
		KeyPhrases: payload.KeyPhrases,
	}
	if err := analysis.validate(); err != nil {
		return nil, fmt.Errorf("invalid analysis: %w", err)
	}
	return analysis, nil
}
