package model

import "time"

// ChartKind names one of the derived chart datasets.
type ChartKind string

const (
	ChartSentiment ChartKind = "sentiment"
	ChartTrend     ChartKind = "trend"
	ChartCountry   ChartKind = "country"
	ChartTags      ChartKind = "tags"
)

// SeriesDataset is a categorical label/value series (sentiment pie,
// country bar). Labels and Values are index-aligned.
type SeriesDataset struct {
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
}

// TrendPoint is the average review score for one calendar month.
// Month is normalized to the first day of the month, UTC.
type TrendPoint struct {
	Month time.Time `json:"month"`
	Score float64   `json:"score"`
	Count int       `json:"count"`
}

// TrendDataset is the rating-over-time series, points in ascending
// month order.
type TrendDataset struct {
	Points []TrendPoint `json:"points"`
}

// TagsDataset is the key-phrase corpus for word-cloud rendering:
// per-word frequencies plus the joined phrase text the external
// renderer can feed to a word-cloud generator directly.
type TagsDataset struct {
	Frequencies map[string]int `json:"frequencies"`
	Corpus      string         `json:"corpus"`
}

// ChartDataset is one derived chart. Exactly one of the payload fields
// is set, matching Kind.
type ChartDataset struct {
	Kind   ChartKind      `json:"kind"`
	Series *SeriesDataset `json:"series,omitempty"`
	Trend  *TrendDataset  `json:"trend,omitempty"`
	Tags   *TagsDataset   `json:"tags,omitempty"`
}
