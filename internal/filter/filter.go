// Package filter decides which raw reviews are admissible for
// analysis. Admission is total: every record is either kept or
// dropped, none cause an error, and kept records preserve input order.
package filter

import (
	"strings"
	"unicode/utf8"

	"github.com/staylens/staylens/internal/model"
)

// noCommentsSentinel is the placeholder text the source emits for
// reviews without a written comment. Matched case-insensitively; the
// substring covers both the short and long placeholder variants.
const noCommentsSentinel = "no comments available"

// Filter applies the admission rules: language, sentinel phrase,
// minimum text length, in that order, short-circuiting per record.
type Filter struct {
	languages map[string]struct{}
	minLen    int
}

// Stats counts the outcome of one Admit pass.
type Stats struct {
	Admitted      int
	DroppedLang   int
	DroppedEmpty  int
	DroppedLength int
}

// New creates a Filter admitting the given languages (case-insensitive)
// with the given minimum trimmed text length.
func New(languages []string, minLen int) *Filter {
	langs := make(map[string]struct{}, len(languages))
	for _, l := range languages {
		langs[strings.ToLower(l)] = struct{}{}
	}
	return &Filter{languages: langs, minLen: minLen}
}

// Admit returns the admissible subset of raw, in input order.
func (f *Filter) Admit(raw []model.RawReview) ([]model.RawReview, Stats) {
	var stats Stats
	admitted := make([]model.RawReview, 0, len(raw))

	for _, r := range raw {
		if _, ok := f.languages[strings.ToLower(r.Lang)]; !ok {
			stats.DroppedLang++
			continue
		}

		text := strings.ToLower(strings.TrimSpace(r.Text))
		if strings.Contains(text, noCommentsSentinel) {
			stats.DroppedEmpty++
			continue
		}

		if utf8.RuneCountInString(text) < f.minLen {
			stats.DroppedLength++
			continue
		}

		admitted = append(admitted, r)
		stats.Admitted++
	}

	return admitted, stats
}
