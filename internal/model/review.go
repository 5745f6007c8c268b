package model

// Sentiment classifies the overall tone of a single review text.
type Sentiment string

const (
	SentimentPositive Sentiment = "POSITIVE"
	SentimentNegative Sentiment = "NEGATIVE"
	SentimentNeutral  Sentiment = "NEUTRAL"
	SentimentMixed    Sentiment = "MIXED"
)

// Sentiments lists all classes in a fixed, display-stable order.
var Sentiments = []Sentiment{SentimentPositive, SentimentNegative, SentimentNeutral, SentimentMixed}

// Valid reports whether s is one of the known sentiment classes.
func (s Sentiment) Valid() bool {
	switch s {
	case SentimentPositive, SentimentNegative, SentimentNeutral, SentimentMixed:
		return true
	}
	return false
}

// RawReview is one review exactly as scraped from a review-list page.
// Every field defaults to the empty string when absent from the markup;
// there is no identity field beyond the tuple of all fields.
type RawReview struct {
	Score       string `json:"score"`
	Title       string `json:"title"`
	Date        string `json:"date"`
	UserName    string `json:"user_name"`
	UserCountry string `json:"user_country"`
	Text        string `json:"text"`
	Lang        string `json:"lang"`
}

// EnrichedReview is an admitted review augmented with externally computed
// sentiment and key-phrase fields. Enrichment is all-or-nothing: a review
// either carries a complete analysis or is dropped, never a partial one.
type EnrichedReview struct {
	RawReview

	Sentiment       Sentiment             `json:"sentiment"`
	SentimentScores map[Sentiment]float64 `json:"sentiment_scores"`
	KeyPhrases      []string              `json:"key_phrases"`
}
