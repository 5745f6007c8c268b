package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/staylens/staylens/internal/model"
)

// ReviewPageSize is the fixed number of reviews per review-list page;
// the page index maps to a numeric request offset of page*ReviewPageSize.
const ReviewPageSize = 10

// DefaultReviewListURL is the paginated review-list endpoint of the
// source site.
const DefaultReviewListURL = "https://www.booking.com/reviewlist.html"

// PageFetcher fetches one page of raw review markup for an entity.
type PageFetcher interface {
	FetchPage(ctx context.Context, slug string, page int) (string, error)
}

// Fetcher is the HTTP PageFetcher with bounded retry on transient
// failures and an optional robots.txt gate.
type Fetcher struct {
	httpClient  *http.Client
	baseURL     string
	userAgent   string
	countryCode string
	lang        string
	sort        string
	retryCount  int
	retryDelay  time.Duration
	maxBytes    int64
	robots      *RobotsChecker

	// sleep is the inter-retry pause, injectable for tests.
	sleep func(time.Duration)
}

// NewFetcher creates a Fetcher from configuration. The robots checker
// is optional; pass nil to skip robots.txt compliance.
func NewFetcher(cfg *model.Config, robots *RobotsChecker) *Fetcher {
	return &Fetcher{
		httpClient: &http.Client{
			Timeout: cfg.HTTP.Timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		baseURL:     DefaultReviewListURL,
		userAgent:   cfg.HTTP.UserAgent,
		countryCode: cfg.Crawl.CountryCode,
		lang:        cfg.Crawl.Lang,
		sort:        cfg.Crawl.Sort,
		retryCount:  cfg.HTTP.RetryCount,
		retryDelay:  cfg.HTTP.RetryDelay,
		maxBytes:    cfg.HTTP.MaxBodyBytes,
		robots:      robots,
		sleep:       time.Sleep,
	}
}

// SetBaseURL overrides the review-list endpoint (tests point this at a
// local server).
func (f *Fetcher) SetBaseURL(u string) { f.baseURL = u }

// FetchPage fetches one page of review markup. Transient failures
// (network errors, 5xx, 429) are retried with linear backoff up to the
// configured count; anything still failing surfaces as a FetchError.
func (f *Fetcher) FetchPage(ctx context.Context, slug string, page int) (string, error) {
	pageURL, err := f.pageURL(slug, page*ReviewPageSize)
	if err != nil {
		return "", &model.FetchError{Page: page, Err: err}
	}

	if err := f.checkRobots(ctx, pageURL); err != nil {
		return "", &model.FetchError{Page: page, Err: err}
	}

	body, err := f.getWithRetry(ctx, pageURL)
	if err != nil {
		return "", &model.FetchError{Page: page, Err: err}
	}
	return body, nil
}

// FetchEntityPage fetches the hotel page itself, used for metadata.
func (f *Fetcher) FetchEntityPage(ctx context.Context, rawURL string) (string, error) {
	if err := f.checkRobots(ctx, rawURL); err != nil {
		return "", err
	}
	return f.getWithRetry(ctx, rawURL)
}

// FetchMeta fetches and parses the entity-page metadata.
func (f *Fetcher) FetchMeta(ctx context.Context, rawURL string) (*model.HotelMeta, error) {
	markup, err := f.FetchEntityPage(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	return ParseHotelMeta(markup, rawURL)
}

func (f *Fetcher) checkRobots(ctx context.Context, rawURL string) error {
	if f.robots == nil {
		return nil
	}
	allowed, _, err := f.robots.CanFetch(ctx, rawURL)
	if err != nil {
		return err
	}
	if !allowed {
		return model.ErrRobotsDisallowed
	}
	return nil
}

func (f *Fetcher) getWithRetry(ctx context.Context, rawURL string) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= f.retryCount; attempt++ {
		if attempt > 0 {
			f.sleep(time.Duration(attempt) * f.retryDelay)
		}

		body, status, err := f.get(ctx, rawURL)
		if err == nil && status >= 200 && status < 300 {
			return body, nil
		}

		if err != nil {
			lastErr = err
		} else {
			lastErr = fmt.Errorf("unexpected status: %d", status)
		}

		if !retryable(status, err) {
			break
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
	}
	return "", lastErr
}

func (f *Fetcher) get(ctx context.Context, rawURL string) (string, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", 0, fmt.Errorf("fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return "", resp.StatusCode, fmt.Errorf("read body: %w", err)
	}
	return string(body), resp.StatusCode, nil
}

func (f *Fetcher) pageURL(slug string, offset int) (string, error) {
	parsed, err := url.Parse(f.baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid base URL %s: %w", f.baseURL, err)
	}

	query := parsed.Query()
	query.Set("cc1", f.countryCode)
	query.Set("lang", f.lang)
	query.Set("pagename", slug)
	query.Set("rows", strconv.Itoa(ReviewPageSize))
	query.Set("offset", strconv.Itoa(offset))
	query.Set("type", "total")
	query.Set("sort", f.sort)
	parsed.RawQuery = query.Encode()
	return parsed.String(), nil
}

// retryable reports whether a failed attempt indicates a transient
// condition worth another try.
func retryable(status int, err error) bool {
	if status >= 500 && status < 600 {
		return true
	}
	if status == http.StatusTooManyRequests {
		return true
	}
	if err != nil {
		s := strings.ToLower(err.Error())
		return strings.Contains(s, "timeout") ||
			strings.Contains(s, "connection refused") ||
			strings.Contains(s, "connection reset")
	}
	return false
}
