package source

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/staylens/staylens/internal/model"
)

// PageParser turns one page of review-list markup into raw reviews.
// Parsers are source-format-specific and swappable without touching
// the crawler.
type PageParser interface {
	Parse(markup string) ([]model.RawReview, error)
}

// BookingParser parses the booking.com review-list markup.
type BookingParser struct{}

// Parse extracts all review blocks from one page. Fields missing from
// a block default to the empty string; an empty result means the page
// is past the last review.
func (BookingParser) Parse(markup string) ([]model.RawReview, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("parse review page: %w", err)
	}

	var reviews []model.RawReview
	doc.Find(".review_list_new_item_block").Each(func(_ int, block *goquery.Selection) {
		body := block.Find(".c-review__body").First()
		lang, _ := body.Attr("lang")

		reviews = append(reviews, model.RawReview{
			Score:       firstText(block, ".bui-review-score__badge"),
			Title:       firstText(block, ".c-review-block__title"),
			Date:        firstText(block, ".c-review-block__date"),
			UserName:    firstText(block, ".bui-avatar-block__title"),
			UserCountry: firstText(block, ".bui-avatar-block__subtitle"),
			Text:        collapsedText(block, ".c-review__body"),
			Lang:        strings.TrimSpace(lang),
		})
	})

	return reviews, nil
}

// ParseHotelMeta extracts entity-page metadata from the hotel page
// markup. Missing nodes yield empty fields, never an error.
func ParseHotelMeta(markup, pageURL string) (*model.HotelMeta, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("parse hotel page: %w", err)
	}

	return &model.HotelMeta{
		URL:         pageURL,
		Title:       strings.TrimSpace(doc.Find("h2#hp_hotel_name").First().Text()),
		Address:     strings.TrimSpace(doc.Find(".hp_address_subtitle").First().Text()),
		Description: collapsedText(doc.Selection, "#property_description_content"),
	}, nil
}

// firstText returns the trimmed text of the first node matching sel.
func firstText(s *goquery.Selection, sel string) string {
	return strings.TrimSpace(s.Find(sel).First().Text())
}

// collapsedText returns the text of all nodes under sel with runs of
// whitespace collapsed to single spaces.
func collapsedText(s *goquery.Selection, sel string) string {
	return strings.Join(strings.Fields(s.Find(sel).Text()), " ")
}
