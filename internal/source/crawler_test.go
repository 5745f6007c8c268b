package source

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"testing"

	"github.com/staylens/staylens/internal/model"
)

// fakeFetcher returns canned markup per page: "page:N" markers the
// fakeParser turns into reviews, "" for an empty page, or an error.
type fakeFetcher struct {
	pages   map[int]string
	errPage int
	calls   []int
}

func (f *fakeFetcher) FetchPage(ctx context.Context, slug string, page int) (string, error) {
	f.calls = append(f.calls, page)
	if f.errPage > 0 && page == f.errPage {
		return "", &model.FetchError{Page: page, Err: errors.New("boom")}
	}
	return f.pages[page], nil
}

// fakeParser emits one review per comma-separated token in the markup.
type fakeParser struct{}

func (fakeParser) Parse(markup string) ([]model.RawReview, error) {
	if markup == "" {
		return nil, nil
	}
	var reviews []model.RawReview
	for _, tok := range strings.Split(markup, ",") {
		reviews = append(reviews, model.RawReview{Text: tok})
	}
	return reviews, nil
}

func newTestCrawler(f PageFetcher, maxPages int) *Crawler {
	// PageDelay zero disables the courtesy limiter in tests.
	return NewCrawler(f, fakeParser{}, model.CrawlConfig{MaxPages: maxPages}, nil)
}

func TestCrawlAll_StopsOnEmptyPage(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[int]string{
		0: "a,b",
		1: "c",
		2: "",
		3: "never",
	}}
	crawler := newTestCrawler(fetcher, 10)

	reviews, err := crawler.CrawlAll(context.Background(), "slug")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(reviews) != 3 {
		t.Fatalf("expected 3 reviews, got %d", len(reviews))
	}
	if len(fetcher.calls) != 3 {
		t.Errorf("expected fetches for pages 0..2 only, got %v", fetcher.calls)
	}
}

func TestCrawlAll_PreservesPageOrder(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[int]string{0: "a,b", 1: "c,d"}}
	crawler := newTestCrawler(fetcher, 2)

	reviews, err := crawler.CrawlAll(context.Background(), "slug")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"a", "b", "c", "d"}
	if len(reviews) != len(want) {
		t.Fatalf("expected %d reviews, got %d", len(want), len(reviews))
	}
	for i, text := range want {
		if reviews[i].Text != text {
			t.Errorf("reviews[%d].Text = %q, want %q", i, reviews[i].Text, text)
		}
	}
}

func TestCrawlAll_RespectsMaxPages(t *testing.T) {
	pages := make(map[int]string)
	for i := 0; i < 20; i++ {
		pages[i] = "r" + strconv.Itoa(i)
	}
	fetcher := &fakeFetcher{pages: pages}
	crawler := newTestCrawler(fetcher, 3)

	reviews, err := crawler.CrawlAll(context.Background(), "slug")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(reviews) != 3 {
		t.Fatalf("expected 3 reviews, got %d", len(reviews))
	}
}

func TestCrawlAll_PartialOnFetchFailure(t *testing.T) {
	fetcher := &fakeFetcher{
		pages:   map[int]string{0: "a,b", 1: "c"},
		errPage: 2,
	}
	// page 2 would have data but the fetch fails
	fetcher.pages[2] = "d"
	crawler := newTestCrawler(fetcher, 5)

	reviews, err := crawler.CrawlAll(context.Background(), "slug")

	var partial *model.PartialCrawlError
	if !errors.As(err, &partial) {
		t.Fatalf("expected PartialCrawlError, got %v", err)
	}
	if partial.Page != 2 {
		t.Errorf("failed page = %d, want 2", partial.Page)
	}
	if len(reviews) != 3 {
		t.Errorf("expected the 3 reviews accumulated before the failure, got %d", len(reviews))
	}

	var fetchErr *model.FetchError
	if !errors.As(err, &fetchErr) {
		t.Errorf("partial error should wrap the page FetchError")
	}
}

func TestCrawlAll_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fetcher := &fakeFetcher{pages: map[int]string{0: "a"}}
	crawler := newTestCrawler(fetcher, 5)

	// With no limiter the loop still checks ctx before each page.
	_, err := crawler.CrawlAll(ctx, "slug")
	var partial *model.PartialCrawlError
	if !errors.As(err, &partial) {
		t.Fatalf("expected PartialCrawlError on cancellation, got %v", err)
	}
	if len(fetcher.calls) != 0 {
		t.Errorf("no page should be fetched after cancellation, got %v", fetcher.calls)
	}
}

func TestCrawlAll_ParseFailureIsPartial(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[int]string{0: "a", 1: "b"}}
	crawler := NewCrawler(fetcher, failingParser{failOn: "b"}, model.CrawlConfig{MaxPages: 5}, nil)

	reviews, err := crawler.CrawlAll(context.Background(), "slug")
	var partial *model.PartialCrawlError
	if !errors.As(err, &partial) {
		t.Fatalf("expected PartialCrawlError, got %v", err)
	}
	if len(reviews) != 1 {
		t.Errorf("expected 1 review from page 0, got %d", len(reviews))
	}
}

type failingParser struct{ failOn string }

func (p failingParser) Parse(markup string) ([]model.RawReview, error) {
	if markup == p.failOn {
		return nil, fmt.Errorf("malformed markup")
	}
	return fakeParser{}.Parse(markup)
}
