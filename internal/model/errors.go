package model

import (
	"errors"
	"fmt"
)

// ErrInvalidEntityURL means the input URL does not look like a hotel
// page URL and no slug could be derived. Fatal before any I/O.
var ErrInvalidEntityURL = errors.New("invalid entity URL: expected a /hotel/<region>/<name>.html path")

// ErrRobotsDisallowed means robots.txt forbids crawling the review pages.
var ErrRobotsDisallowed = errors.New("crawling disallowed by robots.txt")

// FetchError is a per-page fetch failure after retries were exhausted.
type FetchError struct {
	Page int
	Err  error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch page %d: %v", e.Page, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// PartialCrawlError signals that the crawl stopped early on the given
// page. The reviews accumulated before the failure are still returned
// alongside it; the caller decides whether partial data is usable.
type PartialCrawlError struct {
	Page int
	Err  error
}

func (e *PartialCrawlError) Error() string {
	return fmt.Sprintf("crawl aborted at page %d: %v", e.Page, e.Err)
}

func (e *PartialCrawlError) Unwrap() error { return e.Err }

// StoreError is a fatal artifact-store failure. The run is considered
// failed and no partial cache state may remain behind it.
type StoreError struct {
	Op  string
	Key string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("artifact store %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }
