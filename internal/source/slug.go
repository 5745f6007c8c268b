package source

import (
	"fmt"
	"net/url"
	"regexp"

	"github.com/staylens/staylens/internal/model"
)

// hotelPathExpr matches the hotel page path and captures the page name
// used as the entity slug, e.g. /hotel/in/trident-nariman-point.html
// yields "trident-nariman-point". The capture excludes path separators
// so the slug stays safe as a store key and filename component.
var hotelPathExpr = regexp.MustCompile(`/hotel/.+?/([^/]+?)\.html`)

// ResolveSlug derives the canonical entity slug from a hotel page URL.
// Resolution is deterministic and does no I/O; the same URL always
// yields the same slug.
func ResolveSlug(rawURL string) (string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("%w: %v", model.ErrInvalidEntityURL, err)
	}

	m := hotelPathExpr.FindStringSubmatch(parsed.Path)
	if m == nil {
		return "", model.ErrInvalidEntityURL
	}
	return m[1], nil
}
