// Package pipeline sequences crawl, admission, enrichment and
// aggregation into one idempotent run per entity slug.
package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/staylens/staylens/internal/analyze"
	"github.com/staylens/staylens/internal/charts"
	"github.com/staylens/staylens/internal/filter"
	"github.com/staylens/staylens/internal/model"
	"github.com/staylens/staylens/internal/source"
	"github.com/staylens/staylens/internal/store"
)

// ReviewCrawler produces the full raw review collection for a slug.
type ReviewCrawler interface {
	CrawlAll(ctx context.Context, slug string) ([]model.RawReview, error)
}

// MetaFetcher loads entity-page metadata.
type MetaFetcher interface {
	FetchMeta(ctx context.Context, rawURL string) (*model.HotelMeta, error)
}

// Enricher promotes admitted reviews to enriched reviews.
type Enricher interface {
	Enrich(ctx context.Context, reviews []model.RawReview) ([]model.EnrichedReview, analyze.Stats, error)
}

// Coordinator runs the pipeline per slug: NotStarted -> Crawled ->
// Enriched -> Aggregated -> Cached. A cached artifact short-circuits
// the run entirely; an enriched record without a chart record resumes
// from aggregation instead of recrawling.
type Coordinator struct {
	crawler  ReviewCrawler
	meta     MetaFetcher
	filter   *filter.Filter
	enricher Enricher
	store    store.Store
	logf     func(format string, args ...any)

	// One run per slug at a time: the cache short-circuit and the
	// persist-after-enrichment resume both assume a single writer.
	mu        sync.Mutex
	slugLocks map[string]*sync.Mutex
}

// New creates a Coordinator from explicit collaborators.
func New(crawler ReviewCrawler, meta MetaFetcher, flt *filter.Filter, enricher Enricher, st store.Store, logf func(string, ...any)) *Coordinator {
	if logf == nil {
		logf = func(string, ...any) {}
	}
	return &Coordinator{
		crawler:   crawler,
		meta:      meta,
		filter:    flt,
		enricher:  enricher,
		store:     st,
		logf:      logf,
		slugLocks: make(map[string]*sync.Mutex),
	}
}

// NewFromConfig wires the full production pipeline.
func NewFromConfig(cfg *model.Config, logf func(string, ...any)) (*Coordinator, error) {
	var robots *source.RobotsChecker
	if cfg.Crawl.RespectRobots {
		robots = source.NewRobotsChecker(cfg.HTTP.UserAgent, cfg.HTTP.Timeout)
	}

	fetcher := source.NewFetcher(cfg, robots)
	crawler := source.NewCrawler(fetcher, source.BookingParser{}, cfg.Crawl, logf)

	analyzer, err := analyze.NewAnalyzer(cfg.Analyzer)
	if err != nil {
		return nil, err
	}
	enricher := analyze.NewEnricher(analyzer, cfg.Analyzer.MaxConcurrent, logf)

	var st store.Store
	if cfg.Cache.Enabled {
		st = store.NewLayered(cfg.Cache.Dir)
	} else {
		st = store.NewMemory()
	}

	flt := filter.New(cfg.Filter.Languages, cfg.Filter.MinTextLen)

	return New(crawler, fetcher, flt, enricher, st, logf), nil
}

// enrichedRecord is the persisted enriched-review collection.
type enrichedRecord struct {
	Slug          string                 `json:"slug"`
	Partial       bool                   `json:"partial,omitempty"`
	RawCount      int                    `json:"raw_count"`
	AdmittedCount int                    `json:"admitted_count"`
	FetchedAt     time.Time              `json:"fetched_at"`
	Reviews       []model.EnrichedReview `json:"reviews"`
}

// Run executes the pipeline for the given entity URL. Without force, a
// previously completed run is returned from cache with no crawling and
// no analytics calls.
func (c *Coordinator) Run(ctx context.Context, rawURL string, force bool) (*model.Artifact, error) {
	slug, err := source.ResolveSlug(rawURL)
	if err != nil {
		return nil, err
	}

	lock := c.slugLock(slug)
	lock.Lock()
	defer lock.Unlock()

	if force {
		for _, key := range []string{store.EnrichedKey(slug), store.ChartsKey(slug), store.MetaKey(slug)} {
			if err := c.store.Delete(key); err != nil {
				return nil, &model.StoreError{Op: "delete", Key: key, Err: err}
			}
		}
	} else {
		if c.store.Exists(store.EnrichedKey(slug)) && c.store.Exists(store.ChartsKey(slug)) {
			c.logf("cache hit for %s", slug)
			return c.loadArtifact(slug)
		}
		if c.store.Exists(store.EnrichedKey(slug)) {
			c.logf("resuming %s from enriched reviews", slug)
			return c.resume(slug)
		}
	}

	meta := c.fetchMeta(ctx, rawURL)

	raw, crawlErr := c.crawler.CrawlAll(ctx, slug)
	partial := false
	if crawlErr != nil {
		var pc *model.PartialCrawlError
		if errors.As(crawlErr, &pc) && len(raw) > 0 {
			partial = true
			c.logf("partial crawl for %s: %v", slug, crawlErr)
		} else {
			return nil, crawlErr
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	admitted, fstats := c.filter.Admit(raw)
	c.logf("%s: %d raw, %d admitted (%d lang, %d empty, %d short dropped)",
		slug, len(raw), fstats.Admitted, fstats.DroppedLang, fstats.DroppedEmpty, fstats.DroppedLength)

	enriched, estats, err := c.enricher.Enrich(ctx, admitted)
	if err != nil {
		return nil, err
	}
	c.logf("%s: %d enriched, %d dropped by analyzer", slug, estats.Succeeded, estats.Dropped)

	record := enrichedRecord{
		Slug:          slug,
		Partial:       partial,
		RawCount:      len(raw),
		AdmittedCount: len(admitted),
		FetchedAt:     time.Now().UTC(),
		Reviews:       enriched,
	}
	if err := c.putJSON(store.EnrichedKey(slug), record); err != nil {
		return nil, err
	}

	combined := charts.Build(enriched)
	if err := c.putJSON(store.ChartsKey(slug), combined); err != nil {
		return nil, err
	}

	if meta != nil {
		if err := c.putJSON(store.MetaKey(slug), meta); err != nil {
			return nil, err
		}
	}

	return &model.Artifact{
		Slug:          slug,
		Meta:          meta,
		Reviews:       enriched,
		Charts:        combined,
		Partial:       partial,
		FetchedAt:     record.FetchedAt,
		RawCount:      record.RawCount,
		AdmittedCount: record.AdmittedCount,
	}, nil
}

// Cached returns the persisted artifact for a slug without running the
// pipeline. Returns store.ErrNotFound when no completed run exists.
func (c *Coordinator) Cached(slug string) (*model.Artifact, error) {
	lock := c.slugLock(slug)
	lock.Lock()
	defer lock.Unlock()

	if !c.store.Exists(store.EnrichedKey(slug)) || !c.store.Exists(store.ChartsKey(slug)) {
		return nil, store.ErrNotFound
	}
	return c.loadArtifact(slug)
}

// resume re-aggregates from the persisted enriched collection, used
// when a previous run died between enrichment and aggregation.
func (c *Coordinator) resume(slug string) (*model.Artifact, error) {
	record, err := c.getEnriched(slug)
	if err != nil {
		return nil, err
	}

	combined := charts.Build(record.Reviews)
	if err := c.putJSON(store.ChartsKey(slug), combined); err != nil {
		return nil, err
	}

	return c.buildArtifact(slug, record, combined)
}

func (c *Coordinator) loadArtifact(slug string) (*model.Artifact, error) {
	record, err := c.getEnriched(slug)
	if err != nil {
		return nil, err
	}

	var combined map[model.ChartKind]*model.ChartDataset
	if err := c.getJSON(store.ChartsKey(slug), &combined); err != nil {
		return nil, err
	}

	return c.buildArtifact(slug, record, combined)
}

func (c *Coordinator) buildArtifact(slug string, record *enrichedRecord, combined map[model.ChartKind]*model.ChartDataset) (*model.Artifact, error) {
	var meta *model.HotelMeta
	if c.store.Exists(store.MetaKey(slug)) {
		meta = &model.HotelMeta{}
		if err := c.getJSON(store.MetaKey(slug), meta); err != nil {
			return nil, err
		}
	}

	return &model.Artifact{
		Slug:          slug,
		Meta:          meta,
		Reviews:       record.Reviews,
		Charts:        combined,
		Partial:       record.Partial,
		FetchedAt:     record.FetchedAt,
		RawCount:      record.RawCount,
		AdmittedCount: record.AdmittedCount,
	}, nil
}

// fetchMeta loads entity-page metadata. Metadata is best-effort: a
// failure is logged and the run continues without it.
func (c *Coordinator) fetchMeta(ctx context.Context, rawURL string) *model.HotelMeta {
	if c.meta == nil {
		return nil
	}
	meta, err := c.meta.FetchMeta(ctx, rawURL)
	if err != nil {
		c.logf("metadata fetch failed: %v", err)
		return nil
	}
	return meta
}

func (c *Coordinator) getEnriched(slug string) (*enrichedRecord, error) {
	record := &enrichedRecord{}
	if err := c.getJSON(store.EnrichedKey(slug), record); err != nil {
		return nil, err
	}
	return record, nil
}

func (c *Coordinator) putJSON(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return &model.StoreError{Op: "encode", Key: key, Err: err}
	}
	if err := c.store.Put(key, data); err != nil {
		return &model.StoreError{Op: "put", Key: key, Err: err}
	}
	return nil
}

func (c *Coordinator) getJSON(key string, v any) error {
	data, err := c.store.Get(key)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return err
		}
		return &model.StoreError{Op: "get", Key: key, Err: err}
	}
	if err := json.Unmarshal(data, v); err != nil {
		return &model.StoreError{Op: "decode", Key: key, Err: err}
	}
	return nil
}

func (c *Coordinator) slugLock(slug string) *sync.Mutex {
	c.mu.Lock()
	defer c.mu.Unlock()
	lock, ok := c.slugLocks[slug]
	if !ok {
		lock = &sync.Mutex{}
		c.slugLocks[slug] = lock
	}
	return lock
}
