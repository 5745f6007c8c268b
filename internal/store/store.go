package store

import "errors"

// ErrNotFound is returned by Get when the key has no record.
var ErrNotFound = errors.New("store: key not found")

// Store is a slug-keyed artifact store. Any backend satisfying
// get/put/exists semantics (file tree, object store, in-memory map)
// is conformant. Put must be atomic per key: readers see either the
// previous record or the full new one, never a torn write.
type Store interface {
	Get(key string) ([]byte, error)
	Put(key string, value []byte) error
	Exists(key string) bool
	Delete(key string) error
}

// Key layout: one record per stage output, all prefixed by the slug so
// the records of one entity stay adjacent in any backend.

// EnrichedKey addresses the enriched-review collection for a slug.
func EnrichedKey(slug string) string { return slug + ".enriched" }

// ChartsKey addresses the combined chart map for a slug.
func ChartsKey(slug string) string { return slug + ".charts" }

// MetaKey addresses the entity-page metadata for a slug.
func MetaKey(slug string) string { return slug + ".meta" }
