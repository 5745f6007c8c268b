// Package analyze wraps the external per-text analytics capability and
// the enrichment orchestration around it.
package analyze

import (
	"context"
	"fmt"

	"github.com/staylens/staylens/internal/model"
)

// Analysis is the result of analyzing one review text.
type Analysis struct {
	Sentiment  model.Sentiment
	Scores     map[model.Sentiment]float64
	KeyPhrases []string
}

// Analyzer is the external text-analytics capability: sentiment class,
// sentiment score vector summing to ~1.0, and key phrases, or an error.
type Analyzer interface {
	// Name returns the provider name.
	Name() string

	// AnalyzeText analyzes a single review text. langHint is the
	// scraped language tag of the review, advisory only.
	AnalyzeText(ctx context.Context, text, langHint string) (*Analysis, error)
}

// validate checks the provider contract on a returned analysis.
func (a *Analysis) validate() error {
	if !a.Sentiment.Valid() {
		return fmt.Errorf("unknown sentiment class %q", a.Sentiment)
	}
	var sum float64
	for _, v := range a.Scores {
		if v < 0 || v > 1 {
			return fmt.Errorf("sentiment score %v out of range", v)
		}
		sum += v
	}
	if sum < 0.9 || sum > 1.1 {
		return fmt.Errorf("sentiment scores sum to %v, expected ~1.0", sum)
	}
	return nil
}
