package source

import (
	"context"

	"golang.org/x/time/rate"

	"github.com/staylens/staylens/internal/model"
)

// Crawler drives the fetcher and parser across review pages until an
// empty page or the page cap, accumulating reviews in page order.
type Crawler struct {
	fetcher  PageFetcher
	parser   PageParser
	maxPages int

	// limiter enforces the courtesy delay between page fetches. Nil
	// disables the delay (tests run with zero wait).
	limiter *rate.Limiter

	logf func(format string, args ...any)
}

// NewCrawler creates a Crawler. A pageDelay of zero disables the
// courtesy delay.
func NewCrawler(fetcher PageFetcher, parser PageParser, cfg model.CrawlConfig, logf func(string, ...any)) *Crawler {
	var limiter *rate.Limiter
	if cfg.PageDelay > 0 {
		limiter = rate.NewLimiter(rate.Every(cfg.PageDelay), 1)
	}
	if logf == nil {
		logf = func(string, ...any) {}
	}
	return &Crawler{
		fetcher:  fetcher,
		parser:   parser,
		maxPages: cfg.MaxPages,
		limiter:  limiter,
		logf:     logf,
	}
}

// CrawlAll fetches and parses pages 0..maxPages-1 sequentially. A page
// yielding zero reviews terminates the crawl; that is the only signal
// distinct from reaching the cap. A fetch or parse failure stops the
// crawl and returns whatever was accumulated alongside a
// PartialCrawlError, leaving the usability decision to the caller.
// Output order is page order then in-page order.
func (c *Crawler) CrawlAll(ctx context.Context, slug string) ([]model.RawReview, error) {
	var all []model.RawReview

	for page := 0; page < c.maxPages; page++ {
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return all, &model.PartialCrawlError{Page: page, Err: err}
			}
		} else if err := ctx.Err(); err != nil {
			return all, &model.PartialCrawlError{Page: page, Err: err}
		}

		markup, err := c.fetcher.FetchPage(ctx, slug, page)
		if err != nil {
			return all, &model.PartialCrawlError{Page: page, Err: err}
		}

		reviews, err := c.parser.Parse(markup)
		if err != nil {
			return all, &model.PartialCrawlError{Page: page, Err: err}
		}

		if len(reviews) == 0 {
			c.logf("page %d empty, crawl complete", page)
			break
		}

		all = append(all, reviews...)
		c.logf("page %d: %d reviews (total %d)", page, len(reviews), len(all))
	}

	return all, nil
}
