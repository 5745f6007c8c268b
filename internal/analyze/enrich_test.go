package analyze

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/staylens/staylens/internal/model"
)

// fakeAnalyzer errors on texts containing "fail" and otherwise echoes
// the text back as a key phrase.
type fakeAnalyzer struct {
	calls atomic.Int64
}

func (f *fakeAnalyzer) Name() string { return "fake" }

func (f *fakeAnalyzer) AnalyzeText(ctx context.Context, text, langHint string) (*Analysis, error) {
	f.calls.Add(1)
	if strings.Contains(text, "fail") {
		return nil, fmt.Errorf("provider unavailable")
	}
	return &Analysis{
		Sentiment: model.SentimentPositive,
		Scores: map[model.Sentiment]float64{
			model.SentimentPositive: 0.9,
			model.SentimentNegative: 0.05,
			model.SentimentNeutral:  0.04,
			model.SentimentMixed:    0.01,
		},
		KeyPhrases: []string{text},
	}, nil
}

func reviewsFromTexts(texts ...string) []model.RawReview {
	reviews := make([]model.RawReview, len(texts))
	for i, t := range texts {
		reviews[i] = model.RawReview{Text: t, Lang: "en"}
	}
	return reviews
}

func TestEnrich_DropsFailedRecord(t *testing.T) {
	analyzer := &fakeAnalyzer{}
	enricher := NewEnricher(analyzer, 1, nil)

	reviews := reviewsFromTexts("one", "two", "fail three", "four", "five")
	enriched, stats, err := enricher.Enrich(context.Background(), reviews)
	if err != nil {
		t.Fatalf("per-record failure must not raise a run-level error, got %v", err)
	}

	if len(enriched) != 4 {
		t.Fatalf("expected 4 enriched reviews, got %d", len(enriched))
	}
	want := []string{"one", "two", "four", "five"}
	for i, text := range want {
		if enriched[i].Text != text {
			t.Errorf("enriched[%d].Text = %q, want %q (relative order must hold)", i, enriched[i].Text, text)
		}
	}
	if stats.Succeeded != 4 || stats.Dropped != 1 {
		t.Errorf("stats = %+v, want 4 succeeded / 1 dropped", stats)
	}
}

func TestEnrich_AllFailedIsEmptyNotError(t *testing.T) {
	enricher := NewEnricher(&fakeAnalyzer{}, 1, nil)

	enriched, stats, err := enricher.Enrich(context.Background(), reviewsFromTexts("fail a", "fail b"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(enriched) != 0 {
		t.Errorf("expected empty result, got %d", len(enriched))
	}
	if stats.Dropped != 2 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestEnrich_EmptyInput(t *testing.T) {
	analyzer := &fakeAnalyzer{}
	enricher := NewEnricher(analyzer, 1, nil)

	enriched, _, err := enricher.Enrich(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(enriched) != 0 {
		t.Errorf("expected empty result")
	}
	if analyzer.calls.Load() != 0 {
		t.Errorf("no analytics call expected for empty input")
	}
}

func TestEnrich_ConcurrentPreservesOrder(t *testing.T) {
	analyzer := &fakeAnalyzer{}
	enricher := NewEnricher(analyzer, 4, nil)

	texts := make([]string, 40)
	for i := range texts {
		texts[i] = fmt.Sprintf("review %02d", i)
	}
	enriched, stats, err := enricher.Enrich(context.Background(), reviewsFromTexts(texts...))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(enriched) != len(texts) {
		t.Fatalf("expected %d enriched, got %d", len(texts), len(enriched))
	}
	for i, text := range texts {
		if enriched[i].Text != text {
			t.Fatalf("output order diverged at %d: %q", i, enriched[i].Text)
		}
	}
	if stats.Succeeded != len(texts) {
		t.Errorf("stats = %+v", stats)
	}
}

func TestEnrich_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	enricher := NewEnricher(&fakeAnalyzer{}, 1, nil)
	_, _, err := enricher.Enrich(ctx, reviewsFromTexts("one"))
	if err == nil {
		t.Fatal("expected context error")
	}
}

func TestEnrich_CompleteAnalysisOnOutput(t *testing.T) {
	enricher := NewEnricher(&fakeAnalyzer{}, 1, nil)

	enriched, _, err := enricher.Enrich(context.Background(), reviewsFromTexts("good stay"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	r := enriched[0]
	if !r.Sentiment.Valid() {
		t.Errorf("sentiment missing")
	}
	if len(r.SentimentScores) == 0 || len(r.KeyPhrases) == 0 {
		t.Errorf("enriched review must carry complete analysis: %+v", r)
	}
}
