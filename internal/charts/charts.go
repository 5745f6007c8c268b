// Package charts derives the chart-ready summaries from enriched
// reviews. Each derivation is total over its input and independently
// nullable: no usable input simply means no dataset, never an error.
package charts

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/staylens/staylens/internal/model"
)

// trendDateLayout is the source's free-text review date format.
const trendDateLayout = "January 2006"

// countryTopN caps the country distribution.
const countryTopN = 10

// Build computes all four datasets and combines them into one map.
// Kinds whose derivation returned no dataset are absent from the map.
func Build(reviews []model.EnrichedReview) map[model.ChartKind]*model.ChartDataset {
	combined := make(map[model.ChartKind]*model.ChartDataset)
	if d := Sentiment(reviews); d != nil {
		combined[model.ChartSentiment] = d
	}
	if d := Trend(reviews); d != nil {
		combined[model.ChartTrend] = d
	}
	if d := Country(reviews); d != nil {
		combined[model.ChartCountry] = d
	}
	if d := Tags(reviews); d != nil {
		combined[model.ChartTags] = d
	}
	return combined
}

// Sentiment counts sentiment classes across all reviews. Labels follow
// the fixed class order, zero-count classes omitted.
func Sentiment(reviews []model.EnrichedReview) *model.ChartDataset {
	if len(reviews) == 0 {
		return nil
	}

	counts := make(map[model.Sentiment]int)
	for _, r := range reviews {
		counts[r.Sentiment]++
	}

	series := &model.SeriesDataset{}
	for _, s := range model.Sentiments {
		if counts[s] == 0 {
			continue
		}
		series.Labels = append(series.Labels, string(s))
		series.Values = append(series.Values, float64(counts[s]))
	}
	if len(series.Labels) == 0 {
		return nil
	}

	return &model.ChartDataset{Kind: model.ChartSentiment, Series: series}
}

// Trend averages numeric scores per calendar month. Reviews whose date
// or score does not parse are dropped from this computation only.
func Trend(reviews []model.EnrichedReview) *model.ChartDataset {
	sums := make(map[time.Time]float64)
	counts := make(map[time.Time]int)

	for _, r := range reviews {
		date, err := time.Parse(trendDateLayout, strings.TrimSpace(r.Date))
		if err != nil {
			continue
		}
		score, err := strconv.ParseFloat(strings.TrimSpace(r.Score), 64)
		if err != nil {
			continue
		}

		month := time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, time.UTC)
		sums[month] += score
		counts[month]++
	}

	if len(counts) == 0 {
		return nil
	}

	months := make([]time.Time, 0, len(counts))
	for m := range counts {
		months = append(months, m)
	}
	sort.Slice(months, func(i, j int) bool { return months[i].Before(months[j]) })

	trend := &model.TrendDataset{Points: make([]model.TrendPoint, 0, len(months))}
	for _, m := range months {
		trend.Points = append(trend.Points, model.TrendPoint{
			Month: m,
			Score: sums[m] / float64(counts[m]),
			Count: counts[m],
		})
	}

	return &model.ChartDataset{Kind: model.ChartTrend, Trend: trend}
}

// Country counts non-empty user countries, reduced to the top 10 by
// descending count with ties broken by first-encountered order.
func Country(reviews []model.EnrichedReview) *model.ChartDataset {
	counts := make(map[string]int)
	var order []string

	for _, r := range reviews {
		country := strings.TrimSpace(r.UserCountry)
		if country == "" {
			continue
		}
		if counts[country] == 0 {
			order = append(order, country)
		}
		counts[country]++
	}

	if len(order) == 0 {
		return nil
	}

	// Stable sort over first-seen order keeps that order for ties.
	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if len(order) > countryTopN {
		order = order[:countryTopN]
	}

	series := &model.SeriesDataset{
		Labels: make([]string, 0, len(order)),
		Values: make([]float64, 0, len(order)),
	}
	for _, country := range order {
		series.Labels = append(series.Labels, country)
		series.Values = append(series.Values, float64(counts[country]))
	}

	return &model.ChartDataset{Kind: model.ChartCountry, Series: series}
}

// Tags concatenates all key phrases into a frequency-weighted corpus
// for word-cloud rendering by the external visualization collaborator.
func Tags(reviews []model.EnrichedReview) *model.ChartDataset {
	var phrases []string
	for _, r := range reviews {
		phrases = append(phrases, r.KeyPhrases...)
	}

	corpus := strings.TrimSpace(strings.Join(phrases, " "))
	if corpus == "" {
		return nil
	}

	freq := make(map[string]int)
	for _, word := range strings.Fields(strings.ToLower(corpus)) {
		word = strings.Trim(word, ".,;:!?\"'()")
		if word == "" {
			continue
		}
		freq[word]++
	}

	return &model.ChartDataset{
		Kind: model.ChartTags,
		Tags: &model.TagsDataset{Frequencies: freq, Corpus: corpus},
	}
}
