package analyze

import (
	"testing"

	"github.com/staylens/staylens/internal/model"
)

func TestParseAnalysis(t *testing.T) {
	content := `{
		"sentiment": "positive",
		"sentiment_scores": {"positive": 0.8, "negative": 0.1, "neutral": 0.07, "mixed": 0.03},
		"key_phrases": ["great location", "friendly staff"]
	}`

	analysis, err := parseAnalysis(content)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if analysis.Sentiment != model.SentimentPositive {
		t.Errorf("sentiment = %q", analysis.Sentiment)
	}
	if analysis.Scores[model.SentimentPositive] != 0.8 {
		t.Errorf("scores = %v", analysis.Scores)
	}
	if len(analysis.KeyPhrases) != 2 || analysis.KeyPhrases[0] != "great location" {
		t.Errorf("key phrases = %v", analysis.KeyPhrases)
	}
}

func TestParseAnalysis_CodeFence(t *testing.T) {
	content := "```json\n{\"sentiment\": \"NEUTRAL\", \"sentiment_scores\": {\"NEUTRAL\": 1.0}, \"key_phrases\": []}\n```"

	analysis, err := parseAnalysis(content)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if analysis.Sentiment != model.SentimentNeutral {
		t.Errorf("sentiment = %q", analysis.Sentiment)
	}
}

func TestParseAnalysis_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"not json", "sentiment: positive"},
		{"unknown class", `{"sentiment": "HAPPY", "sentiment_scores": {"HAPPY": 1.0}}`},
		{"scores do not sum", `{"sentiment": "POSITIVE", "sentiment_scores": {"POSITIVE": 0.2}}`},
		{"score out of range", `{"sentiment": "POSITIVE", "sentiment_scores": {"POSITIVE": 1.5, "NEGATIVE": -0.5}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := parseAnalysis(tt.content); err == nil {
				t.Error("expected error")
			}
		})
	}
}
