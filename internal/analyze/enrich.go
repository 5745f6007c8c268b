package analyze

import (
	"context"
	"sync"

	"github.com/staylens/staylens/internal/model"
)

// Enricher calls the analytics capability once per admitted review.
// Per-record failure is non-fatal: the record is dropped, not retried
// and never emitted with placeholder sentiment, so every enriched
// review carries a complete analysis. An all-failed batch yields an
// empty result, which callers must treat as "no usable data" rather
// than an error.
type Enricher struct {
	analyzer      Analyzer
	maxConcurrent int
	logf          func(format string, args ...any)
}

// Stats counts the outcome of one Enrich pass.
type Stats struct {
	Succeeded int
	Dropped   int
}

// NewEnricher creates an Enricher. maxConcurrent <= 1 runs calls
// strictly sequentially.
func NewEnricher(analyzer Analyzer, maxConcurrent int, logf func(string, ...any)) *Enricher {
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}
	if logf == nil {
		logf = func(string, ...any) {}
	}
	return &Enricher{analyzer: analyzer, maxConcurrent: maxConcurrent, logf: logf}
}

// Enrich analyzes each admitted review. Output order matches input
// order regardless of concurrency; that ordering feeds the trend
// aggregation and is an observable contract. The only run-level error
// is context cancellation.
func (e *Enricher) Enrich(ctx context.Context, reviews []model.RawReview) ([]model.EnrichedReview, Stats, error) {
	if len(reviews) == 0 {
		return []model.EnrichedReview{}, Stats{}, nil
	}

	// Results keep input indices so reassembly never depends on
	// completion order.
	slots := make([]*model.EnrichedReview, len(reviews))

	if e.maxConcurrent == 1 {
		for i, r := range reviews {
			if err := ctx.Err(); err != nil {
				return nil, Stats{}, err
			}
			slots[i] = e.enrichOne(ctx, r)
		}
	} else {
		var wg sync.WaitGroup
		sem := make(chan struct{}, e.maxConcurrent)
		for i, r := range reviews {
			wg.Add(1)
			go func(idx int, rev model.RawReview) {
				defer wg.Done()
				select {
				case <-ctx.Done():
					return
				case sem <- struct{}{}:
				}
				defer func() { <-sem }()
				slots[idx] = e.enrichOne(ctx, rev)
			}(i, r)
		}
		wg.Wait()
		if err := ctx.Err(); err != nil {
			return nil, Stats{}, err
		}
	}

	var stats Stats
	enriched := make([]model.EnrichedReview, 0, len(reviews))
	for _, slot := range slots {
		if slot == nil {
			stats.Dropped++
			continue
		}
		enriched = append(enriched, *slot)
		stats.Succeeded++
	}

	return enriched, stats, nil
}

func (e *Enricher) enrichOne(ctx context.Context, r model.RawReview) *model.EnrichedReview {
	analysis, err := e.analyzer.AnalyzeText(ctx, r.Text, r.Lang)
	if err != nil {
		e.logf("analysis failed, dropping review: %v", err)
		return nil
	}
	return &model.EnrichedReview{
		RawReview:       r,
		Sentiment:       analysis.Sentiment,
		SentimentScores: analysis.Scores,
		KeyPhrases:      analysis.KeyPhrases,
	}
}
