package model

import "time"

// HotelMeta is the entity-page metadata captured once per run.
type HotelMeta struct {
	URL         string `json:"url"`
	Title       string `json:"title"`
	Address     string `json:"address"`
	Description string `json:"description"`
}

// Artifact is the complete output of one pipeline run for a slug: the
// enriched review collection plus the combined chart map, reflecting a
// single coherent snapshot of the source. Chart kinds whose derivation
// had no usable input are simply absent from Charts.
type Artifact struct {
	Slug      string                      `json:"slug"`
	Meta      *HotelMeta                  `json:"meta,omitempty"`
	Reviews   []EnrichedReview            `json:"reviews"`
	Charts    map[ChartKind]*ChartDataset `json:"charts"`
	Partial   bool                        `json:"partial,omitempty"`
	FetchedAt time.Time                   `json:"fetched_at"`

	RawCount      int `json:"raw_count"`
	AdmittedCount int `json:"admitted_count"`
}

// Empty reports whether the run produced no usable reviews. This is a
// valid outcome, not an error; callers decide how to present it.
func (a *Artifact) Empty() bool {
	return len(a.Reviews) == 0
}
